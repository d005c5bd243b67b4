// Package cmd provides the root command and CLI setup for tastmod.
package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"tastmod.dev/pkg/tastmod/internal/adapter"
	"tastmod.dev/pkg/tastmod/internal/controller"
	"tastmod.dev/pkg/tastmod/internal/domain"
	m "tastmod.dev/pkg/tastmod/internal/model"
)

var goFileAdapter adapter.GoFileAdapter
var fsAdapter adapter.SourceFSAdapter
var orchestrator domain.Orchestrator
var ui controller.UI

// srcDirFlag points at the checkout's src/ directory containing the test
// bundle trees.
var srcDirFlag string

// packagesFlag restricts a run to the named test packages.
var packagesFlag []string

// Path-class restriction flags.
var privateOnlyFlag bool
var publicOnlyFlag bool
var localOnlyFlag bool
var remoteOnlyFlag bool

// Logging flags.
var verboseFlag bool
var logFileFlag string

func init() {
	configureRootFlags(rootCmd)

	// Initialize shared dependencies.
	ui = controller.NewUI(rootCmd, controller.IsTTY(os.Stdout))
	goFileAdapter = adapter.NewLocalGoFileAdapter()
	fsAdapter = adapter.NewLocalSourceFSAdapter()
	orchestrator = domain.NewOrchestrator(goFileAdapter, fsAdapter, ui)
}

const rootLongDescription = `Tastmod bulk-edits the metadata of test declarations. It walks test
bundle directories, finds the testing.AddTest(&testing.Test{...})
declaration in each file, and applies text-level edits to its fields
(and to parameterized variants in Params) while preserving the
surrounding formatting.

By default nothing is written: runs preview their changes with a full
diff. Pass --write to modify files in place.`

// rootCmd represents the base command when called without any subcommands.
var rootCmd = baseRootCmd()

func baseRootCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tastmod",
		Short: "Bulk editor for test declaration metadata",
		Long:  rootLongDescription,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			configureLogger(logFileFlag, verboseFlag)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}
}

func configureRootFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVarP(
		&srcDirFlag, srcDirFlagName, "C",
		viper.GetString(srcDirConfigKey),
		"path to the src/ directory where tests will be modified",
	)
	bindFlagToConfig(cmd.PersistentFlags().Lookup(srcDirFlagName), srcDirConfigKey)

	cmd.PersistentFlags().StringSliceVar(
		&packagesFlag, packagesFlagName,
		viper.GetStringSlice(packagesConfigKey),
		"restrict the run to the named test packages (can be repeated)",
	)
	bindFlagToConfig(cmd.PersistentFlags().Lookup(packagesFlagName), packagesConfigKey)

	cmd.PersistentFlags().BoolVar(&publicOnlyFlag, "public-only", false, "look at paths for public tests only")
	cmd.PersistentFlags().BoolVar(&privateOnlyFlag, "private-only", false, "look at paths for private tests only")
	cmd.MarkFlagsMutuallyExclusive("public-only", "private-only")

	cmd.PersistentFlags().BoolVar(&localOnlyFlag, "local-only", false, "look at paths for local tests only")
	cmd.PersistentFlags().BoolVar(&remoteOnlyFlag, "remote-only", false, "look at paths for remote tests only")
	cmd.MarkFlagsMutuallyExclusive("local-only", "remote-only")

	cmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "log at debug level")
	cmd.PersistentFlags().StringVar(&logFileFlag, "log-file", "", "log file path (defaults to config)")
}

// pathFilterFromFlags folds the path-class flags into a PathFilter.
func pathFilterFromFlags() *m.PathFilter {
	return &m.PathFilter{
		SkipPublic:  privateOnlyFlag,
		SkipPrivate: publicOnlyFlag,
		SkipLocal:   remoteOnlyFlag,
		SkipRemote:  localOnlyFlag,
		Packages:    packagesFlag,
	}
}

// bindFlagToConfig wires a Cobra flag to a Viper key so config/env values feed the flag.
func bindFlagToConfig(flag *pflag.Flag, key string) {
	if flag == nil {
		cobra.CheckErr(fmt.Errorf("flag for config key %q not found", key))
		return
	}

	cobra.CheckErr(viper.BindPFlag(key, flag))
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

// splitInputStrings breaks user input into separate strings. Valid
// separators are newlines or commas; excess whitespace is trimmed.
func splitInputStrings(s string) []string {
	splitFunc := func(r rune) bool {
		return r == '\n' || r == ','
	}

	output := []string{}

	for _, elt := range strings.FieldsFunc(s, splitFunc) {
		elt = strings.TrimSpace(elt)
		if elt != "" {
			output = append(output, elt)
		}
	}

	return output
}

// parseTestIDs converts user input into typed test IDs.
func parseTestIDs(s string) []m.TestID {
	parts := splitInputStrings(s)

	ids := make([]m.TestID, 0, len(parts))
	for _, part := range parts {
		ids = append(ids, m.TestID(part))
	}

	return ids
}
