// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"
	"time"

	"github.com/spf13/cobra"

	"github.com/twist/twistconfig/internal/watch"
	"github.com/twist/twistconfig/pkg/document"
	"github.com/twist/twistconfig/pkg/library"
	"github.com/twist/twistconfig/pkg/twistconfig"
)

func newWatchCommand(app *App) *cobra.Command {
	var transformer bool

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Rebuild and print the configuration when library files change",
		Long: `Build and print the configuration, then watch the project directory and every
loaded library for changes to .twistrc, twist.config.lua and package.json.
Each change rebuilds the configuration; the set of watched directories follows
the libraries the new build loads. Press Ctrl+C to stop.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			dir, err := app.projectDir()
			if err != nil {
				return app.fail(cmd, err)
			}
			if err := app.settings.Format.Validate(); err != nil {
				return app.fail(cmd, err)
			}
			return app.runWatch(cmd, dir, transformer)
		},
	}

	cmd.Flags().BoolVar(&transformer, "transformer", false, "print the transformer configuration")
	return cmd
}

func (app *App) runWatch(cmd *cobra.Command, dir string, transformer bool) error {
	ctx := cmd.Context()

	resolver, err := newResolver(app.settings, dir)
	if err != nil {
		return app.fail(cmd, err)
	}

	// rebuild prints the new configuration and returns the directories to
	// watch. A failed build keeps only the project directory.
	rebuild := func(ctx context.Context) []string {
		cfg, err := app.buildWith(ctx, resolver)
		if err != nil {
			renderError(app.stderr, err, app.verbose())
			return []string{dir}
		}
		out, err := configurationMap(cfg, transformer)
		if err != nil {
			renderError(app.stderr, classifyError(err), app.verbose())
		} else if err := encode(app.stdout, app.settings.Format, out); err != nil {
			renderError(app.stderr, err, app.verbose())
		}
		return watchDirs(dir, cfg)
	}

	var w *watch.Watcher
	w, err = watch.New(watch.Config{
		Dirs:        rebuild(ctx),
		Ignore:      app.settings.Watch.Ignore,
		Debounce:    app.settings.Watch.Debounce,
		ClearScreen: app.settings.Watch.ClearScreen,
		Stdout:      app.stdout,
		Stderr:      app.stderr,
		OnChange: func(ctx context.Context, changed []string) error {
			for _, path := range changed {
				app.logger.Debug("configuration file changed", "path", path)
			}
			forgetManifests(resolver, changed)
			fmt.Fprintln(app.stderr, SubtitleStyle.Render(
				fmt.Sprintf("%s %d file(s) changed, rebuilding", time.Now().Format(time.TimeOnly), len(changed))))
			return w.SetDirs(rebuild(ctx))
		},
	})
	if err != nil {
		return app.fail(cmd, err)
	}

	fmt.Fprintln(app.stderr, SuccessStyle.Render(fmt.Sprintf("Watching %d director(ies). Press Ctrl+C to stop.", len(w.Dirs()))))
	if err := w.Run(ctx); err != nil {
		return app.fail(cmd, err)
	}
	return nil
}

// watchDirs returns the project directory followed by every loaded library
// root, without duplicates.
func watchDirs(dir string, cfg *twistconfig.Configuration) []string {
	dirs := []string{dir}
	for _, rec := range cfg.Libraries() {
		if rec.Path() != "" && !slices.Contains(dirs, rec.Path()) {
			dirs = append(dirs, rec.Path())
		}
	}
	return dirs
}

// forgetManifests evicts cached manifests made stale by changed. A changed
// package.json drops its own directory; a bare directory, reported when
// events were dropped, empties the whole cache.
func forgetManifests(resolver *library.Resolver, changed []string) {
	for _, path := range changed {
		switch filepath.Base(path) {
		case library.ManifestFileName:
			resolver.Forget(filepath.Dir(path))
		case document.StaticFileName, document.DynamicFileName:
		default:
			resolver.Purge()
			return
		}
	}
}
