// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/twist/twistconfig/internal/config"
	"github.com/twist/twistconfig/pkg/twistconfig"
)

func newShowCommand(app *App) *cobra.Command {
	var (
		format      string
		transformer bool
	)

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the merged configuration",
		Long: `Print the resolved options of the build: schema options, module aliases,
auto-imported declarations and registered plugins. With --transformer the
derived transformer configuration (presets and plugins) is printed instead.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f := app.settings.Format
			if format != "" {
				f = config.OutputFormat(format)
			}
			if err := f.Validate(); err != nil {
				return app.fail(cmd, err)
			}

			cfg, err := app.build(cmd.Context())
			if err != nil {
				return app.fail(cmd, err)
			}
			out, err := configurationMap(cfg, transformer)
			if err != nil {
				return app.fail(cmd, classifyError(err))
			}
			if err := encode(app.stdout, f, out); err != nil {
				return app.fail(cmd, err)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "", "output format: json, yaml or toml (default from settings)")
	cmd.Flags().BoolVar(&transformer, "transformer", false, "print the transformer configuration")
	return cmd
}

func configurationMap(cfg *twistconfig.Configuration, transformer bool) (map[string]any, error) {
	if transformer {
		tc, err := cfg.TransformerOptions()
		if err != nil {
			return nil, err
		}
		return tc.Map(), nil
	}
	resolved, err := cfg.ResolvedOptions()
	if err != nil {
		return nil, err
	}
	return resolved.Map(), nil
}

// encode writes v to w in the requested format.
func encode(w io.Writer, format config.OutputFormat, v any) error {
	switch format {
	case config.FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("failed to encode YAML: %w", err)
		}
		return enc.Close()
	case config.FormatTOML:
		enc := toml.NewEncoder(w)
		enc.SetIndentTables(true)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("failed to encode TOML: %w", err)
		}
		return nil
	default:
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode JSON: %w", err)
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	}
}
