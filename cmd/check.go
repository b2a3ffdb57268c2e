package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"gooze.dev/pkg/viewspy/internal/domain"
	m "gooze.dev/pkg/viewspy/internal/model"
)

var checkFixtureFlag string

// checkCmd represents the check command.
var checkCmd = newCheckCmd()

func newCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "check [paths...]",
		Short:        "Check a fixture against the environment keys read in a project",
		Long:         checkLongDescription,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return workflow.Check(cmd.Context(), domain.CheckArgs{
				KeysArgs: domain.KeysArgs{
					Paths:   parsePaths(args),
					Exclude: viper.GetStringSlice(excludeConfigKey),
					Threads: viper.GetInt(parallelConfigKey),
				},
				Fixture: m.Path(viper.GetString(fixtureConfigKey)),
			})
		},
	}

	configureCheckFlags(cmd)

	return cmd
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func configureCheckFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&checkFixtureFlag, fixtureFlagName, "f", viper.GetString(fixtureConfigKey), "injection fixture to check")
	bindFlagToConfig(cmd.Flags().Lookup(fixtureFlagName), fixtureConfigKey)
}
