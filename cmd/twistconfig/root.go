// SPDX-License-Identifier: MPL-2.0

// Package cmd contains the twistconfig CLI commands.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/twist/twistconfig/internal/config"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"
)

type (
	// SettingsProvider loads CLI settings. Tests substitute fixed settings.
	SettingsProvider interface {
		Load(ctx context.Context, opts config.LoadOptions) (*config.Settings, error)
	}

	// App wires CLI services and output streams. Every command handler
	// receives the App.
	App struct {
		Settings SettingsProvider
		stdout   io.Writer
		stderr   io.Writer

		flags    rootFlagValues
		settings *config.Settings
		logger   *slog.Logger
	}

	// Dependencies defines the injection points for building an App. Nil
	// fields are replaced with production defaults by NewApp.
	Dependencies struct {
		Settings SettingsProvider
		Stdout   io.Writer
		Stderr   io.Writer
	}

	// ExitError carries the process exit code out of a command. Err has
	// already been rendered when it reaches Execute.
	ExitError struct {
		Code int
		Err  error
	}

	rootFlagValues struct {
		verbose      bool
		contextName  string
		root         string
		noRoot       bool
		set          []string
		settingsPath string
		dir          string
	}
)

func (e *ExitError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("exit status %d", e.Code)
}

func (e *ExitError) Unwrap() error { return e.Err }

// NewApp builds an App, filling unset dependencies with defaults.
func NewApp(deps Dependencies) *App {
	app := &App{
		Settings: deps.Settings,
		stdout:   deps.Stdout,
		stderr:   deps.Stderr,
	}
	if app.Settings == nil {
		app.Settings = config.NewProvider()
	}
	if app.stdout == nil {
		app.stdout = os.Stdout
	}
	if app.stderr == nil {
		app.stderr = os.Stderr
	}
	return app
}

// newRootCommand builds the command tree bound to app.
func newRootCommand(app *App) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "twistconfig",
		Short: "Inspect merged twist library configuration",
		Long: TitleStyle.Render("twistconfig") + SubtitleStyle.Render(" - Inspect merged twist library configuration") + `

twistconfig loads the root library of a project, follows every library it
declares through .twistrc and twist.config.lua files, and prints the merged
configuration handed to the code transformer.

` + SubtitleStyle.Render("Examples:") + `
  twistconfig show                      Resolved options as JSON
  twistconfig show --transformer -f yaml  Transformer config as YAML
  twistconfig libraries --trace         Loaded libraries and who loaded them
  twistconfig -c browser option get targets
  twistconfig watch                     Rebuild on configuration changes`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := app.prepare(cmd); err != nil {
				return app.fail(cmd, err)
			}
			return nil
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.BoolVarP(&app.flags.verbose, "verbose", "v", false, "enable debug logging and detailed errors")
	pf.StringVarP(&app.flags.contextName, "context", "c", "", "build context (default \"node\")")
	pf.StringVarP(&app.flags.root, "root", "r", "", "root library reference (default: the project directory)")
	pf.BoolVar(&app.flags.noRoot, "no-root", false, "do not load a root library")
	pf.StringArrayVar(&app.flags.set, "set", nil, "set an option, e.g. --set regenerator=true (repeatable, JSON values)")
	pf.StringVar(&app.flags.settingsPath, "settings", "", "settings file (default: user and project twistconfig.cue)")
	pf.StringVarP(&app.flags.dir, "dir", "C", "", "project directory (default: working directory)")

	rootCmd.AddCommand(
		newShowCommand(app),
		newLibrariesCommand(app),
		newDeclarationsCommand(app),
		newOptionCommand(app),
		newWatchCommand(app),
		newSettingsCommand(app),
	)

	return rootCmd
}

// prepare loads settings, applies flag overrides and installs the logger.
func (app *App) prepare(cmd *cobra.Command) error {
	dir, err := app.projectDir()
	if err != nil {
		return err
	}

	s, err := app.Settings.Load(cmd.Context(), config.LoadOptions{
		SettingsFilePath: app.flags.settingsPath,
		ProjectDir:       dir,
	})
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("verbose") {
		s.Verbose = app.flags.verbose
	}
	if flags.Changed("context") {
		s.Context = app.flags.contextName
	}
	if flags.Changed("root") {
		s.Root = app.flags.root
	}
	if flags.Changed("no-root") {
		s.NoRoot = app.flags.noRoot
	}
	app.settings = s
	app.logger = newLogger(app.stderr, s.Verbose)
	return nil
}

func (app *App) projectDir() (string, error) {
	if app.flags.dir != "" {
		abs, err := filepath.Abs(app.flags.dir)
		if err != nil {
			return "", fmt.Errorf("failed to resolve --dir: %w", err)
		}
		return abs, nil
	}
	wd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get working directory: %w", err)
	}
	return wd, nil
}

// newLogger returns a slog logger backed by a charmbracelet/log handler.
func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := log.InfoLevel
	if verbose {
		level = log.DebugLevel
	}
	handler := log.NewWithOptions(w, log.Options{
		Prefix: "twistconfig",
		Level:  level,
	})
	return slog.New(handler)
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute runs the CLI. It is called by main.main().
func Execute() {
	if err := fang.Execute(
		context.Background(),
		newRootCommand(NewApp(Dependencies{})),
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Code)
		}
		os.Exit(1)
	}
}

// fail renders err to stderr and returns an ExitError so fang does not print
// it a second time.
func (app *App) fail(cmd *cobra.Command, err error) error {
	cmd.SilenceErrors = true
	renderError(app.stderr, err, app.verbose())
	return &ExitError{Code: 1, Err: err}
}

func (app *App) verbose() bool {
	if app.settings != nil {
		return app.settings.Verbose
	}
	return app.flags.verbose
}
