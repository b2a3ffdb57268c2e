package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"gooze.dev/pkg/viewspy/pkg/keys"
)

func deriveLongDescription() string {
	names := make([]string, 0, len(keys.Patterns()))
	for _, p := range keys.Patterns() {
		names = append(names, "  - "+string(p))
	}

	return `Print the injection key for a pattern and a name. The name is the
environment or focus path, the storage key, or for type-keyed patterns the
canonical type name (import path, dot, type name; pointers start with "*").

Patterns:
` + strings.Join(names, "\n")
}

// deriveCmd represents the derive command.
var deriveCmd = newDeriveCmd()

func newDeriveCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "derive <pattern> <name>",
		Short:   "Print the injection key for a pattern and name",
		Long:    deriveLongDescription(),
		Example: "  viewspy derive environment colorScheme\n  viewspy derive environment-object '*example.com/app.Store'",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			pattern, err := keys.ParsePattern(args[0])
			if err != nil {
				return err
			}

			key, err := keys.Derive(pattern, args[1])
			if errors.Is(err, keys.ErrNoKey) {
				return fmt.Errorf("%s wrappers are never injected: %w", pattern, err)
			}

			if err != nil {
				return err
			}

			cmd.Println(key)

			return nil
		},
	}
}

func init() {
	rootCmd.AddCommand(deriveCmd)
}
