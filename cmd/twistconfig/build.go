// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"maps"
	"strings"

	"github.com/twist/twistconfig/internal/config"
	"github.com/twist/twistconfig/pkg/library"
	"github.com/twist/twistconfig/pkg/twistconfig"
)

// buildRequest is everything needed to assemble one Configuration.
type buildRequest struct {
	settings *config.Settings
	dir      string
	set      []string
	logger   *slog.Logger
	// resolver is reused across builds when set; watch mode keeps one so its
	// manifest cache outlives a rebuild.
	resolver *library.Resolver
}

// buildOptions turns settings and --set flags into the option map handed to
// twistconfig.Create. --set wins over settings options.
func buildOptions(req buildRequest) (map[string]any, error) {
	options := maps.Clone(req.settings.Options)
	if options == nil {
		options = make(map[string]any)
	}

	for _, kv := range req.set {
		name, value, err := parseSetFlag(kv)
		if err != nil {
			return nil, err
		}
		options[name] = value
	}

	switch {
	case req.settings.NoRoot:
		options[twistconfig.RootOption] = nil
	case req.settings.Root != "":
		options[twistconfig.RootOption] = req.settings.Root
	}
	return options, nil
}

// parseSetFlag splits "name=value". The value is decoded as JSON when it
// parses, otherwise it is kept as a string.
func parseSetFlag(kv string) (string, any, error) {
	name, raw, ok := strings.Cut(kv, "=")
	name = strings.TrimSpace(name)
	if !ok || name == "" {
		return "", nil, fmt.Errorf("invalid --set value %q: expected name=value", kv)
	}
	var value any
	if err := json.Unmarshal([]byte(raw), &value); err != nil {
		return name, raw, nil
	}
	return name, value, nil
}

// build assembles a Configuration for the current settings and flags.
func (app *App) build(ctx context.Context) (*twistconfig.Configuration, error) {
	return app.buildWith(ctx, nil)
}

// buildWith is build with a caller-owned resolver; nil creates a fresh one.
func (app *App) buildWith(ctx context.Context, resolver *library.Resolver) (*twistconfig.Configuration, error) {
	dir, err := app.projectDir()
	if err != nil {
		return nil, err
	}
	return buildConfiguration(ctx, buildRequest{
		settings: app.settings,
		dir:      dir,
		set:      app.flags.set,
		logger:   app.logger,
		resolver: resolver,
	})
}

// newResolver creates the library resolver for dir, honoring the node_path
// setting.
func newResolver(settings *config.Settings, dir string) (*library.Resolver, error) {
	var opts []library.ResolverOption
	if len(settings.NodePath) > 0 {
		opts = append(opts, library.WithNodePath(settings.NodePath...))
	}
	resolver, err := library.NewResolver(dir, opts...)
	if err != nil {
		return nil, classifyError(err)
	}
	return resolver, nil
}

func buildConfiguration(ctx context.Context, req buildRequest) (*twistconfig.Configuration, error) {
	options, err := buildOptions(req)
	if err != nil {
		return nil, err
	}

	resolver := req.resolver
	if resolver == nil {
		if resolver, err = newResolver(req.settings, req.dir); err != nil {
			return nil, err
		}
	}

	logger := req.logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.Debug("building configuration", "context", req.settings.Context, "dir", req.dir, "options", len(options))

	cfg, err := twistconfig.Create(req.settings.Context, options,
		twistconfig.WithContext(ctx),
		twistconfig.WithBaseDir(req.dir),
		twistconfig.WithResolver(resolver),
		twistconfig.WithLogger(logger),
	)
	if err != nil {
		return nil, classifyError(err)
	}
	return cfg, nil
}
