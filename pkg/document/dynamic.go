// SPDX-License-Identifier: MPL-2.0

package document

import (
	"context"
	"errors"
	"fmt"
	"time"

	lua "github.com/yuin/gopher-lua"
)

const (
	// DynamicFileName is the Lua configuration script looked up in a library
	// root when no static file exists.
	DynamicFileName = "twist.config.lua"

	// DefaultEvalTimeout bounds the time a configuration script may run.
	DefaultEvalTimeout = 5 * time.Second

	defaultExportKey = "default"
)

// LibraryInfo describes the library whose script is running. A script that
// returns a function receives it as the second argument.
type LibraryInfo struct {
	Name    string
	Version string
	Path    string
}

// EvalDynamic runs a twist.config.lua script in a sandboxed Lua state.
//
// The chunk's return value is the document. A table whose only key is
// "default" is unwrapped first. A function is called as fn(options, library)
// and its return value becomes the document.
func EvalDynamic(ctx context.Context, path string, options map[string]any, lib LibraryInfo) (*Document, error) {
	ctx, cancel := context.WithTimeout(ctx, DefaultEvalTimeout)
	defer cancel()

	L := newSandbox()
	defer L.Close()
	L.SetContext(ctx)

	tree, err := runScript(L, path, options, lib)
	if err != nil {
		return nil, &ConfigParseError{Path: path, Cause: err}
	}
	return build(tree, path)
}

func runScript(L *lua.LState, path string, options map[string]any, lib LibraryInfo) (tree any, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("lua panic: %v", r)
		}
	}()

	chunk, err := L.LoadFile(path)
	if err != nil {
		return nil, err
	}
	ret, err := call(L, chunk)
	if err != nil {
		return nil, err
	}

	ret = unwrapDefault(ret)
	if fn, ok := ret.(*lua.LFunction); ok {
		libTable := L.NewTable()
		libTable.RawSetString("name", lua.LString(lib.Name))
		libTable.RawSetString("version", lua.LString(lib.Version))
		libTable.RawSetString("path", lua.LString(lib.Path))

		ret, err = call(L, fn, toLua(L, options), libTable)
		if err != nil {
			return nil, err
		}
	}

	if _, ok := ret.(*lua.LTable); !ok {
		return nil, fmt.Errorf("script must return a table or a function returning a table, got %s", ret.Type())
	}
	return fromLua(ret, make(map[*lua.LTable]bool))
}

// call invokes fn with args and returns its first result.
func call(L *lua.LState, fn *lua.LFunction, args ...lua.LValue) (lua.LValue, error) {
	L.Push(fn)
	for _, arg := range args {
		L.Push(arg)
	}
	if err := L.PCall(len(args), 1, nil); err != nil {
		return nil, err
	}
	ret := L.Get(-1)
	L.Pop(1)
	return ret, nil
}

func unwrapDefault(v lua.LValue) lua.LValue {
	t, ok := v.(*lua.LTable)
	if !ok {
		return v
	}
	def := t.RawGetString(defaultExportKey)
	if def == lua.LNil {
		return v
	}
	onlyDefault := true
	t.ForEach(func(k, _ lua.LValue) {
		if s, ok := k.(lua.LString); !ok || string(s) != defaultExportKey {
			onlyDefault = false
		}
	})
	if !onlyDefault {
		return v
	}
	return def
}

// newSandbox returns a Lua state with only the base, table, string and math
// libraries and without the functions that load code from disk or strings.
func newSandbox() *lua.LState {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	for _, lib := range []struct {
		name string
		fn   lua.LGFunction
	}{
		{lua.BaseLibName, lua.OpenBase},
		{lua.TabLibName, lua.OpenTable},
		{lua.StringLibName, lua.OpenString},
		{lua.MathLibName, lua.OpenMath},
	} {
		L.Push(L.NewFunction(lib.fn))
		L.Push(lua.LString(lib.name))
		L.Call(1, 0)
	}
	for _, name := range []string{"dofile", "loadfile", "load", "loadstring", "require"} {
		L.SetGlobal(name, lua.LNil)
	}
	return L
}

var errCycle = errors.New("table contains a reference to itself")
