package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"tastmod.dev/pkg/tastmod/internal/domain"
	"tastmod.dev/pkg/tastmod/internal/domain/actions"
	m "tastmod.dev/pkg/tastmod/internal/model"
)

var errNoAction = errors.New("must define at least one action")

// modifyFlags holds the raw action/filter/mode flag values for one
// invocation.
type modifyFlags struct {
	replaceContact  string
	removeContacts  string
	appendContacts  string
	prependContacts string
	setHwAgnostic   bool
	unsetHwAgnostic bool
	tests           string
	write           bool
	dryRun          bool
	dryRunVerbose   bool
}

var modifyFlagValues modifyFlags

// modifyCmd represents the modify command.
var modifyCmd = newModifyCmd(&modifyFlagValues)

func newModifyCmd(flags *modifyFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "modify",
		Short: "Apply metadata edits to test declarations",
		Long: `Apply the requested edits to every test declaration under the known
bundle roots, restricted by the path and filter flags. The default mode
previews changes with a full diff; nothing is written unless --write is
given.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			filters, actionList, err := flags.build()
			if err != nil {
				return err
			}

			summary, err := orchestrator.WalkKnownTests(cmd.Context(), domain.WalkArgs{
				SrcDir:     viper.GetString(srcDirConfigKey),
				PathFilter: pathFilterFromFlags(),
				Filters:    filters,
				Actions:    actionList,
				Mode:       flags.mode(),
				Threads:    viper.GetInt(runParallelConfigKey),
			})
			if err != nil {
				return err
			}

			if !summary.OK() {
				return fmt.Errorf("%d file(s) failed", len(summary.Failed))
			}

			return nil
		},
	}

	configureModifyFlags(cmd, flags)

	return cmd
}

func init() {
	rootCmd.AddCommand(modifyCmd)
}

func configureModifyFlags(cmd *cobra.Command, flags *modifyFlags) {
	cmd.Flags().StringVar(&flags.replaceContact, "replace-contact", "",
		"replace the first email address with the second in Contacts, e.g. 'foo@example.com, bar@example.com'")
	cmd.Flags().StringVar(&flags.removeContacts, "remove-contacts", "",
		"remove the given email addresses from Contacts")
	cmd.Flags().StringVar(&flags.appendContacts, "append-contacts", "",
		"append the given emails to the end of Contacts (moving them if they already appear)")
	cmd.Flags().StringVar(&flags.prependContacts, "prepend-contacts", "",
		"prepend the given emails to the start of Contacts (moving them if they already appear)")

	cmd.Flags().BoolVar(&flags.setHwAgnostic, "set-hw-agnostic", false,
		"mark tests as hw_agnostic (scoped by --tests)")
	cmd.Flags().BoolVar(&flags.unsetHwAgnostic, "unset-hw-agnostic", false,
		"remove the hw_agnostic mark (scoped by --tests)")
	cmd.MarkFlagsMutuallyExclusive("set-hw-agnostic", "unset-hw-agnostic")

	cmd.Flags().StringVar(&flags.tests, "tests", "",
		"modify only tests with the given IDs, e.g. 'tast.pkg.TestName, tast.pkg.OtherName'")

	cmd.Flags().BoolVar(&flags.write, "write", false,
		"make changes to test files and print which files were modified")
	cmd.Flags().BoolVar(&flags.dryRun, "dry-run", false,
		"print which tests would be modified but make no changes")
	cmd.Flags().BoolVar(&flags.dryRunVerbose, "dry-run-verbose", false,
		"(default) print which tests would be modified and the full diff of changes")
	cmd.MarkFlagsMutuallyExclusive("write", "dry-run", "dry-run-verbose")

	cmd.Flags().IntP(runParallelFlagName, "p", viper.GetInt(runParallelConfigKey),
		"number of parallel workers")
	bindFlagToConfig(cmd.Flags().Lookup(runParallelFlagName), runParallelConfigKey)
}

// mode resolves the output mode; conflicting flags were already rejected
// by cobra before any file is touched.
func (f *modifyFlags) mode() m.OutputMode {
	switch {
	case f.write:
		return m.ModeWrite
	case f.dryRun:
		return m.ModeDryRun
	default:
		return m.ModeDryRunVerbose
	}
}

// build assembles the filter and action lists from the flag values.
func (f *modifyFlags) build() ([]domain.Filter, []domain.Action, error) {
	targetIDs := m.NewTestIDSet(parseTestIDs(f.tests)...)

	actionList := []domain.Action{}

	if f.removeContacts != "" {
		actionList = append(actionList, actions.RemoveContacts(splitInputStrings(f.removeContacts)))
	}

	if f.replaceContact != "" {
		input := splitInputStrings(f.replaceContact)
		if len(input) != 2 {
			return nil, nil, errors.New("--replace-contact takes exactly two comma or newline separated arguments")
		}

		actionList = append(actionList, actions.ReplaceContact(input[0], input[1]))
	}

	if f.appendContacts != "" {
		actionList = append(actionList, actions.AppendContacts(splitInputStrings(f.appendContacts)))
	}

	if f.prependContacts != "" {
		actionList = append(actionList, actions.PrependContacts(splitInputStrings(f.prependContacts)))
	}

	if f.setHwAgnostic {
		actionList = append(actionList, actions.SetHwAgnostic(targetIDs))
	}

	if f.unsetHwAgnostic {
		actionList = append(actionList, actions.UnsetHwAgnostic(targetIDs))
	}

	if len(actionList) == 0 {
		return nil, nil, errNoAction
	}

	filters := []domain.Filter{}
	if len(targetIDs) > 0 {
		filters = append(filters, actions.TestNames(targetIDs.IDs()))
	}

	return filters, actionList, nil
}
