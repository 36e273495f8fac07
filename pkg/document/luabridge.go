// SPDX-License-Identifier: MPL-2.0

package document

import (
	"fmt"
	"reflect"
	"slices"

	lua "github.com/yuin/gopher-lua"
)

// fromLua converts a Lua value into the neutral value tree. Tables with keys
// 1..n become arrays; other tables become objects with sorted keys, since Lua
// does not keep insertion order.
func fromLua(lv lua.LValue, visited map[*lua.LTable]bool) (any, error) {
	switch v := lv.(type) {
	case nil, *lua.LNilType:
		return nil, nil
	case lua.LBool:
		return bool(v), nil
	case lua.LNumber:
		return float64(v), nil
	case lua.LString:
		return string(v), nil
	case *lua.LTable:
		if visited[v] {
			return nil, errCycle
		}
		visited[v] = true
		defer delete(visited, v)
		return tableFromLua(v, visited)
	default:
		return nil, fmt.Errorf("cannot use a Lua %s in a configuration document", lv.Type())
	}
}

func tableFromLua(t *lua.LTable, visited map[*lua.LTable]bool) (any, error) {
	if n := arrayLen(t); n > 0 {
		out := make([]any, n)
		for i := 1; i <= n; i++ {
			item, err := fromLua(t.RawGetInt(i), visited)
			if err != nil {
				return nil, fmt.Errorf("[%d]: %w", i-1, err)
			}
			out[i-1] = item
		}
		return out, nil
	}

	var keys []string
	var keyErr error
	t.ForEach(func(k, _ lua.LValue) {
		s, ok := k.(lua.LString)
		if !ok {
			if keyErr == nil {
				keyErr = fmt.Errorf("table keys must be strings, got %s %s", k.Type(), k.String())
			}
			return
		}
		keys = append(keys, string(s))
	})
	if keyErr != nil {
		return nil, keyErr
	}
	slices.Sort(keys)

	obj := make(Object, 0, len(keys))
	for _, k := range keys {
		item, err := fromLua(t.RawGetString(k), visited)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", k, err)
		}
		obj = append(obj, Member{Key: k, Value: item})
	}
	return obj, nil
}

// arrayLen returns n when the table's keys are exactly 1..n, 0 otherwise.
func arrayLen(t *lua.LTable) int {
	n, count := 0, 0
	isArray := true
	t.ForEach(func(k, _ lua.LValue) {
		count++
		kn, ok := k.(lua.LNumber)
		if !ok || float64(kn) != float64(int(kn)) || int(kn) < 1 {
			isArray = false
			return
		}
		n = max(n, int(kn))
	})
	if !isArray || count != n {
		return 0
	}
	return n
}

// toLua converts options passed to a configuration function into Lua values.
func toLua(L *lua.LState, v any) lua.LValue {
	switch val := v.(type) {
	case nil:
		return lua.LNil
	case bool:
		return lua.LBool(val)
	case string:
		return lua.LString(val)
	case float64:
		return lua.LNumber(val)
	case int:
		return lua.LNumber(val)
	case Object:
		t := L.NewTable()
		for _, m := range val {
			t.RawSetString(m.Key, toLua(L, m.Value))
		}
		return t
	case map[string]any:
		t := L.NewTable()
		for k, item := range val {
			t.RawSetString(k, toLua(L, item))
		}
		return t
	case []any:
		t := L.NewTable()
		for i, item := range val {
			t.RawSetInt(i+1, toLua(L, item))
		}
		return t
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return lua.LNumber(rv.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return lua.LNumber(rv.Uint())
	case reflect.Float32, reflect.Float64:
		return lua.LNumber(rv.Float())
	case reflect.String:
		return lua.LString(rv.String())
	case reflect.Bool:
		return lua.LBool(rv.Bool())
	case reflect.Slice, reflect.Array:
		t := L.NewTable()
		for i := range rv.Len() {
			t.RawSetInt(i+1, toLua(L, rv.Index(i).Interface()))
		}
		return t
	case reflect.Map:
		t := L.NewTable()
		iter := rv.MapRange()
		for iter.Next() {
			t.RawSetString(fmt.Sprint(iter.Key().Interface()), toLua(L, iter.Value().Interface()))
		}
		return t
	default:
		return lua.LString(fmt.Sprint(v))
	}
}
