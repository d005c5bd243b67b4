package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"tastmod.dev/pkg/tastmod/internal/domain"
)

// listCmd represents the list command.
var listCmd = newListCmd()

func newListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List test declarations and their variants",
		Long: `Walk the known bundle roots, restricted by the path flags, and print a
table of the test declarations found without modifying anything.`,
		Args: cobra.ExactArgs(0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := orchestrator.ListKnownTests(cmd.Context(), domain.WalkArgs{
				SrcDir:     viper.GetString(srcDirConfigKey),
				PathFilter: pathFilterFromFlags(),
				Threads:    viper.GetInt(runParallelConfigKey),
			})

			return err
		},
	}

	return cmd
}

func init() {
	rootCmd.AddCommand(listCmd)
}
