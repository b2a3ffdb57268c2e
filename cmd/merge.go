package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"gooze.dev/pkg/viewspy/internal/domain"
	m "gooze.dev/pkg/viewspy/internal/model"
)

var mergeOutFlag string
var mergeDryRunFlag bool

// mergeCmd represents the merge command.
var mergeCmd = newMergeCmd()

func newMergeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "merge <fixtures...>",
		Short: "Merge injection fixtures into one",
		Long: `Merge fixtures in argument order; a key set by a later fixture replaces the
same key from an earlier one. The result is written to --out (default: the
configured check fixture). With --dry-run a unified diff against the current
output is printed instead.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := mergeOutFlag
			if output == "" {
				output = viper.GetString(fixtureConfigKey)
			}

			return workflow.Merge(cmd.Context(), domain.MergeArgs{
				Inputs: parsePaths(args),
				Output: m.Path(output),
				DryRun: mergeDryRunFlag,
			})
		},
	}

	cmd.Flags().StringVarP(&mergeOutFlag, "out", "o", "", "fixture to write")
	cmd.Flags().BoolVar(&mergeDryRunFlag, "dry-run", false, "print a diff instead of writing")

	return cmd
}

func init() {
	rootCmd.AddCommand(mergeCmd)
}
