// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
)

// ParseAndDecode compiles data as CUE, unifies it with the schema definition
// at definition (e.g. "#Settings") and decodes the result into T.
//
// Decoding into map[string]any keeps unset optional fields out of the result,
// which is what viper's MergeConfigMap expects.
func ParseAndDecode[T any](schema, data []byte, definition string, opts ...Option) (T, error) {
	var zero T
	o := applyOptions(opts)

	if err := CheckFileSize(data, o.maxFileSize, o.filename); err != nil {
		return zero, err
	}

	ctx := cuecontext.New()
	root, err := lookupDefinition(ctx, schema, definition)
	if err != nil {
		return zero, err
	}

	userValue := ctx.CompileBytes(data, cue.Filename(o.filename))
	if userValue.Err() != nil {
		return zero, FormatError(userValue.Err(), o.filename)
	}

	unified := root.Unify(userValue)
	if err := unified.Validate(cue.Concrete(o.concrete)); err != nil {
		return zero, FormatError(err, o.filename)
	}

	var result T
	if err := unified.Decode(&result); err != nil {
		return zero, FormatError(err, o.filename)
	}
	return result, nil
}

// ValidateValue encodes value into CUE and checks it against the schema
// definition. value is typically a tree of maps, slices and scalars produced
// by a JSON or Lua decoder.
func ValidateValue(schema []byte, definition string, value any, opts ...Option) error {
	o := applyOptions(opts)

	ctx := cuecontext.New()
	root, err := lookupDefinition(ctx, schema, definition)
	if err != nil {
		return err
	}

	encoded := ctx.Encode(value)
	if encoded.Err() != nil {
		return FormatError(encoded.Err(), o.filename)
	}

	unified := root.Unify(encoded)
	if err := unified.Validate(cue.Concrete(o.concrete)); err != nil {
		return FormatError(err, o.filename)
	}
	return nil
}

func lookupDefinition(ctx *cue.Context, schema []byte, definition string) (cue.Value, error) {
	schemaValue := ctx.CompileBytes(schema)
	if schemaValue.Err() != nil {
		return cue.Value{}, fmt.Errorf("internal error: failed to compile schema: %w", schemaValue.Err())
	}

	root := schemaValue.LookupPath(cue.ParsePath(definition))
	if root.Err() != nil {
		return cue.Value{}, fmt.Errorf("internal error: schema definition %s not found: %w", definition, root.Err())
	}
	return root, nil
}

func applyOptions(opts []Option) options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
