// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/twist/twistconfig/internal/config"
)

func newSettingsCommand(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Manage twistconfig settings",
		Long: `Settings are read from twistconfig.cue in the user configuration directory and
then from the project directory, and may be overridden with TWISTCONFIG_*
environment variables (for example TWISTCONFIG_WATCH_DEBOUNCE=1s).`,
	}
	cmd.AddCommand(
		newSettingsShowCommand(app),
		newSettingsInitCommand(app),
		newSettingsSchemaCommand(app),
		newSettingsPathCommand(app),
	)
	return cmd
}

func newSettingsShowCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective settings and the files they came from",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			dir, err := app.projectDir()
			if err != nil {
				return app.fail(cmd, err)
			}
			res, err := config.LoadResult(cmd.Context(), config.LoadOptions{
				SettingsFilePath: app.flags.settingsPath,
				ProjectDir:       dir,
			})
			if err != nil {
				return app.fail(cmd, err)
			}

			if len(res.Files) == 0 {
				fmt.Fprintln(app.stderr, SubtitleStyle.Render("// no settings files found, showing defaults"))
			}
			for _, f := range res.Files {
				fmt.Fprintln(app.stderr, SubtitleStyle.Render("// loaded "+f))
			}
			fmt.Fprint(app.stdout, config.GenerateCUE(res.Settings))
			return nil
		},
	}
}

func newSettingsInitCommand(app *App) *cobra.Command {
	var user bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default settings file",
		Long: `Write a default twistconfig.cue into the project directory, or into the user
configuration directory with --user. An existing file is left untouched.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			dir, err := app.settingsDir(user)
			if err != nil {
				return app.fail(cmd, err)
			}
			path, err := config.CreateDefaultSettings(dir)
			if err != nil {
				return app.fail(cmd, err)
			}
			fmt.Fprintln(app.stdout, SuccessStyle.Render("Settings file: ")+VerboseStyle.Render(path))
			return nil
		},
	}

	cmd.Flags().BoolVar(&user, "user", false, "write to the user configuration directory")
	return cmd
}

func newSettingsSchemaCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Print the CUE schema settings files are validated against",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			fmt.Fprint(app.stdout, config.SchemaSource())
			return nil
		},
	}
}

func newSettingsPathCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the user and project settings file locations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			userDir, err := app.settingsDir(true)
			if err != nil {
				return app.fail(cmd, err)
			}
			projectDir, err := app.settingsDir(false)
			if err != nil {
				return app.fail(cmd, err)
			}
			fmt.Fprintln(app.stdout, config.SettingsFile(userDir))
			fmt.Fprintln(app.stdout, config.SettingsFile(projectDir))
			return nil
		},
	}
}

func (app *App) settingsDir(user bool) (string, error) {
	if user {
		return config.ConfigDir()
	}
	return app.projectDir()
}
