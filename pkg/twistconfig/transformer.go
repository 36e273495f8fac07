// SPDX-License-Identifier: MPL-2.0

package twistconfig

type (
	// TransformerBuilder derives the downstream transformer configuration from
	// resolved options. Implementations must be deterministic.
	TransformerBuilder interface {
		Build(ResolvedOptions) (TransformerConfig, error)
	}

	// TransformerConfig is the configuration handed to the code transformer.
	TransformerConfig struct {
		Presets []any `json:"presets" yaml:"presets" toml:"presets"`
		Plugins []any `json:"plugins" yaml:"plugins" toml:"plugins"`
	}

	// BabelBuilder is the default TransformerBuilder. It produces an env
	// preset for the configured targets followed by the twist transform, the
	// registered plugins and the plugins the options switch on.
	BabelBuilder struct{}
)

// Plugin and preset names emitted by BabelBuilder.
const (
	PresetEnv               = "env"
	PluginTwistTransform    = "@twist/babel-plugin-transform"
	PluginModuleResolver    = "module-resolver"
	PluginTransformRuntime  = "transform-runtime"
	PluginJSXSource         = "transform-react-jsx-source"
	PluginAsyncToPromises   = "transform-async-to-promises"
	pluginRegeneratorEnvKey = "transform-regenerator"
)

// Build implements TransformerBuilder.
func (BabelBuilder) Build(r ResolvedOptions) (TransformerConfig, error) {
	opts := r.Options

	env := map[string]any{
		"targets": cloneValue(opts[OptionTargets]),
		"modules": false,
	}
	if boolOption(opts, OptionTransformImports) {
		env["modules"] = "commonjs"
	}
	if !boolOption(opts, OptionRegenerator) {
		env["exclude"] = []any{pluginRegeneratorEnvKey}
	}

	autoImport := make(map[string]any, len(r.AutoImport))
	for name, decl := range r.AutoImport {
		autoImport[name] = decl.Map()
	}

	plugins := []any{
		[]any{PluginTwistTransform, map[string]any{"autoImport": autoImport}},
	}
	for _, p := range r.BabelPlugins {
		plugins = append(plugins, p.Value())
	}
	if !boolOption(opts, OptionRegenerator) {
		plugins = append(plugins, PluginAsyncToPromises)
	}
	if boolOption(opts, OptionUseBabelModuleResolver) {
		alias := make(map[string]any, len(r.Aliases))
		for k, v := range r.Aliases {
			alias[k] = v
		}
		plugins = append(plugins, []any{PluginModuleResolver, map[string]any{"alias": alias}})
	}
	if boolOption(opts, OptionIncludeBabelRuntime) {
		plugins = append(plugins, []any{PluginTransformRuntime, map[string]any{
			"polyfill":    boolOption(opts, OptionPolyfill),
			"regenerator": boolOption(opts, OptionRegenerator),
		}})
	}
	if boolOption(opts, OptionJSXSourceLines) {
		plugins = append(plugins, PluginJSXSource)
	}

	return TransformerConfig{
		Presets: []any{[]any{PresetEnv, env}},
		Plugins: plugins,
	}, nil
}

// Map returns the configuration as plain values.
func (t TransformerConfig) Map() map[string]any {
	return map[string]any{"presets": t.Presets, "plugins": t.Plugins}
}
