// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"io"
	"maps"
	"slices"

	"github.com/spf13/cobra"

	"github.com/twist/twistconfig/pkg/document"
)

func newDeclarationsCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "declarations",
		Aliases: []string{"decls"},
		Short:   "List merged decorators and components",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := app.build(cmd.Context())
			if err != nil {
				return app.fail(cmd, err)
			}
			printDeclarations(app.stdout, "Decorators", cfg.Decorators())
			fmt.Fprintln(app.stdout)
			printDeclarations(app.stdout, "Components", cfg.Components())
			return nil
		},
	}
}

func printDeclarations(w io.Writer, title string, decls map[string]document.Declaration) {
	fmt.Fprintln(w, TitleStyle.Render(title))
	if len(decls) == 0 {
		fmt.Fprintln(w, SubtitleStyle.Render("  none"))
		return
	}

	names := slices.Sorted(maps.Keys(decls))
	rows := make([][]string, 0, len(names))
	for _, name := range names {
		d := decls[name]
		inherits := "-"
		if d.Inherits != nil {
			inherits = d.Inherits.Module + "#" + d.Inherits.Export
		}
		rows = append(rows, []string{name, d.Module, orDash(d.Export), inherits})
	}
	fmt.Fprintln(w, newTable([]string{"Name", "Module", "Export", "Inherits"}, rows))
}
