// Package internal converts values between Starlark and native Go forms.
package internal

import (
	"errors"
	"fmt"

	starlarkLib "go.starlark.net/starlark"
)

// FromStarlarkValue converts a Starlark value to a native Go value.
func FromStarlarkValue(v starlarkLib.Value) (any, error) {
	switch v := v.(type) {
	case nil, starlarkLib.NoneType:
		return nil, nil
	case starlarkLib.Bool:
		return bool(v), nil
	case starlarkLib.Int:
		i, ok := v.Int64()
		if !ok {
			return nil, fmt.Errorf("starlark int %s overflows int64", v.String())
		}
		return i, nil
	case starlarkLib.Float:
		return float64(v), nil
	case starlarkLib.String:
		return string(v), nil
	case *starlarkLib.List:
		list := make([]any, 0, v.Len())
		for i := range v.Len() {
			elem, err := FromStarlarkValue(v.Index(i))
			if err != nil {
				return nil, fmt.Errorf("failed to convert list element: %w", err)
			}
			list = append(list, elem)
		}
		return list, nil
	case starlarkLib.Tuple:
		tuple := make([]any, 0, v.Len())
		for i := range v.Len() {
			elem, err := FromStarlarkValue(v.Index(i))
			if err != nil {
				return nil, fmt.Errorf("failed to convert tuple element: %w", err)
			}
			tuple = append(tuple, elem)
		}
		return tuple, nil
	case *starlarkLib.Dict:
		dict := make(map[string]any, v.Len())
		for _, k := range v.Keys() {
			val, found, err := v.Get(k)
			if err != nil || !found {
				continue
			}

			// string keys keep the result JSON-compatible
			kStr, ok := k.(starlarkLib.String)
			if !ok {
				kStr = starlarkLib.String(k.String())
			}

			converted, err := FromStarlarkValue(val)
			if err != nil {
				return nil, fmt.Errorf("failed to convert dict value: %w", err)
			}
			dict[string(kStr)] = converted
		}
		return dict, nil
	default:
		return nil, fmt.Errorf("unsupported starlark type %s", v.Type())
	}
}

// ToStarlarkValue converts a native Go value into a Starlark value.
func ToStarlarkValue(v any) (starlarkLib.Value, error) {
	switch v := v.(type) {
	case nil:
		return starlarkLib.None, nil
	case bool:
		return starlarkLib.Bool(v), nil
	case int:
		return starlarkLib.MakeInt(v), nil
	case int64:
		return starlarkLib.MakeInt64(v), nil
	case uint64:
		return starlarkLib.MakeUint64(v), nil
	case float32:
		return starlarkLib.Float(v), nil
	case float64:
		return starlarkLib.Float(v), nil
	case string:
		return starlarkLib.String(v), nil
	case []any:
		elems := make([]starlarkLib.Value, 0, len(v))
		for _, elem := range v {
			converted, err := ToStarlarkValue(elem)
			if err != nil {
				return nil, err
			}
			elems = append(elems, converted)
		}
		return starlarkLib.NewList(elems), nil
	case map[string]any:
		dict := starlarkLib.NewDict(len(v))
		var errz []error
		for key, val := range v {
			converted, err := ToStarlarkValue(val)
			if err != nil {
				errz = append(errz, err)
				continue
			}
			if err := dict.SetKey(starlarkLib.String(key), converted); err != nil {
				errz = append(errz, err)
			}
		}
		if len(errz) > 0 {
			return nil, errors.Join(errz...)
		}
		return dict, nil
	default:
		return nil, fmt.Errorf("unsupported go type %T", v)
	}
}

// InputToStringDict wraps the input data map into the predeclared globals
// for a run: one dict bound to the given name.
func InputToStringDict(name string, inputData map[string]any) (starlarkLib.StringDict, error) {
	converted, err := ToStarlarkValue(inputData)
	if err != nil {
		return nil, fmt.Errorf("failed to convert input data: %w", err)
	}

	return starlarkLib.StringDict{name: converted}, nil
}
