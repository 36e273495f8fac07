// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/twist/twistconfig/pkg/library"
)

func newLibrariesCommand(app *App) *cobra.Command {
	var trace bool

	cmd := &cobra.Command{
		Use:     "libraries",
		Aliases: []string{"libs"},
		Short:   "List loaded libraries in load order",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := app.build(cmd.Context())
			if err != nil {
				return app.fail(cmd, err)
			}
			printLibraries(app.stdout, cfg.Libraries(), trace)
			return nil
		},
	}

	cmd.Flags().BoolVar(&trace, "trace", false, "print the load chain of every library")
	return cmd
}

func printLibraries(w io.Writer, libs []*library.Record, trace bool) {
	if len(libs) == 0 {
		fmt.Fprintln(w, WarningStyle.Render("No libraries loaded."))
		return
	}

	rows := make([][]string, 0, len(libs))
	for i, rec := range libs {
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			orDash(rec.Name()),
			orDash(rec.Version()),
			rec.Path(),
			parentName(rec),
		})
	}
	fmt.Fprintln(w, newTable([]string{"#", "Name", "Version", "Path", "Loaded by"}, rows))

	if !trace {
		return
	}
	for _, rec := range libs {
		fmt.Fprintln(w)
		fmt.Fprintln(w, VerboseStyle.Render(rec.LoadChainTrace()))
	}
}

// newTable renders rows with the shared table styles.
func newTable(headers []string, rows [][]string) string {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(tableBorderStyle).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return tableHeaderStyle
			}
			return tableCellStyle
		}).
		String()
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func parentName(rec *library.Record) string {
	if rec.Parent() == nil {
		return "-"
	}
	return orDash(rec.Parent().String())
}
