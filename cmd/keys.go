package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"gooze.dev/pkg/viewspy/internal/domain"
	"gooze.dev/pkg/viewspy/pkg/keys"
)

var keysPatternFlag string

// keysCmd represents the keys command.
var keysCmd = newKeysCmd()

func newKeysCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "keys [paths...]",
		Short: "List shadow wrappers and their injection keys",
		Long:  keysLongDescription,
		RunE: func(cmd *cobra.Command, args []string) error {
			var pattern keys.Pattern

			if keysPatternFlag != "" {
				parsed, err := keys.ParsePattern(keysPatternFlag)
				if err != nil {
					return err
				}

				pattern = parsed
			}

			return workflow.Keys(cmd.Context(), domain.KeysArgs{
				Paths:   parsePaths(args),
				Exclude: viper.GetStringSlice(excludeConfigKey),
				Threads: viper.GetInt(parallelConfigKey),
				Pattern: pattern,
			})
		},
	}

	cmd.Flags().StringVar(&keysPatternFlag, "pattern", "", "only list wrappers of this pattern (see 'viewspy derive --help')")

	return cmd
}

func init() {
	rootCmd.AddCommand(keysCmd)
}
