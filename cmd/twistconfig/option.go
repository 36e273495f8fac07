// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/twist/twistconfig/pkg/twistconfig"
)

func newOptionCommand(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "option",
		Short: "Inspect configuration options",
	}
	cmd.AddCommand(newOptionGetCommand(app), newOptionListCommand(app))
	return cmd
}

func newOptionGetCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "get <name>",
		Short: "Print the merged value of one option as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.build(cmd.Context())
			if err != nil {
				return app.fail(cmd, err)
			}
			value, err := cfg.Option(args[0])
			if err != nil {
				return app.fail(cmd, classifyError(err))
			}
			if err := encode(app.stdout, "json", value); err != nil {
				return app.fail(cmd, err)
			}
			return nil
		},
	}
}

func newOptionListCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List supported options and their defaults",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := printOptionDefaults(app.stdout); err != nil {
				return app.fail(cmd, err)
			}
			return nil
		},
	}
}

// printOptionDefaults lists the option schema with the values of a
// configuration that has no libraries loaded.
func printOptionDefaults(w io.Writer) error {
	cfg, err := twistconfig.Create("", map[string]any{twistconfig.RootOption: nil})
	if err != nil {
		return err
	}
	defaults := cfg.Options()

	names := twistconfig.OptionNames()
	rows := make([][]string, 0, len(names))
	for _, name := range names {
		data, err := json.Marshal(defaults[name])
		if err != nil {
			return fmt.Errorf("failed to encode default of %s: %w", name, err)
		}
		rows = append(rows, []string{name, string(data)})
	}
	fmt.Fprintln(w, newTable([]string{"Option", "Default"}, rows))
	return nil
}
