// SPDX-License-Identifier: MPL-2.0

package twistconfig

import (
	"maps"
	"strings"
)

// Recognized option names.
const (
	OptionIncludeBabelRuntime    = "includeBabelRuntime"
	OptionJSXSourceLines         = "jsxSourceLines"
	OptionPolyfill               = "polyfill"
	OptionRegenerator            = "regenerator"
	OptionTargets                = "targets"
	OptionTransformImports       = "transformImports"
	OptionUseBabelModuleResolver = "useBabelModuleResolver"

	// RootOption is accepted by Create alongside the schema options. It is
	// not part of the schema and cannot be set afterwards.
	RootOption = "root"
)

var optionNames = []string{
	OptionIncludeBabelRuntime,
	OptionJSXSourceLines,
	OptionPolyfill,
	OptionRegenerator,
	OptionTargets,
	OptionTransformImports,
	OptionUseBabelModuleResolver,
}

// defaultOptions returns a fresh copy of the option schema defaults.
func defaultOptions() map[string]any {
	return map[string]any{
		OptionIncludeBabelRuntime:    false,
		OptionJSXSourceLines:         false,
		OptionPolyfill:               true,
		OptionRegenerator:            false,
		OptionTargets:                map[string]any{"node": "current"},
		OptionTransformImports:       true,
		OptionUseBabelModuleResolver: true,
	}
}

// OptionNames lists the option schema in its canonical order.
func OptionNames() []string {
	names := make([]string, len(optionNames))
	copy(names, optionNames)
	return names
}

func knownOptionsList() string {
	return strings.Join(optionNames, ", ")
}

// SetOption overrides one schema option. Unknown names fail with
// *UnknownOptionError and leave the configuration untouched.
func (c *Configuration) SetOption(name string, value any) error {
	if _, ok := c.options[name]; !ok {
		return &UnknownOptionError{Name: name}
	}
	c.options[name] = value
	return nil
}

// Option returns the current value of a schema option.
func (c *Configuration) Option(name string) (any, error) {
	v, ok := c.options[name]
	if !ok {
		return nil, &UnknownOptionError{Name: name}
	}
	return v, nil
}

// Options returns a deep copy of the full option bag.
func (c *Configuration) Options() map[string]any {
	out := make(map[string]any, len(c.options))
	for k, v := range c.options {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		out := maps.Clone(val)
		for k, item := range out {
			out[k] = cloneValue(item)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = cloneValue(item)
		}
		return out
	default:
		return v
	}
}

func boolOption(opts map[string]any, name string) bool {
	b, _ := opts[name].(bool)
	return b
}
