package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"gooze.dev/pkg/viewspy/internal/domain"
	m "gooze.dev/pkg/viewspy/internal/model"
)

// viewCmd represents the view command.
var viewCmd = newViewCmd()

func newViewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "view [fixture]",
		Short: "Show the injection keys of a fixture",
		Long:  "Show the canonical injection keys a fixture provides (default: the configured check fixture).",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fixture := viper.GetString(fixtureConfigKey)
			if len(args) == 1 {
				fixture = args[0]
			}

			return workflow.View(cmd.Context(), domain.ViewArgs{Fixture: m.Path(fixture)})
		},
	}

	return cmd
}

func init() {
	rootCmd.AddCommand(viewCmd)
}
