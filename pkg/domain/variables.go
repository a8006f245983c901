package domain

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"

	"github.com/mitchellh/mapstructure"
)

// Variables is the loosely typed bag of named algorithm state attached to a Step.
// Values are primitives, slices or nested maps. The typed accessors below never
// panic: a missing key or a value of the wrong shape yields the zero value and false.
type Variables map[string]any

// Has reports whether name is present.
func (v Variables) Has(name string) bool {
	_, ok := v[name]
	return ok
}

// Get returns the raw value or nil.
func (v Variables) Get(name string) any {
	if v == nil {
		return nil
	}
	return v[name]
}

// Value returns the variable as T, or def when it is absent or not a T.
func Value[T any](v Variables, name string, def T) T {
	raw, ok := v[name]
	if !ok || raw == nil {
		return def
	}
	typed, ok := raw.(T)
	if !ok {
		return def
	}
	return typed
}

// Bool reports the truthiness of the variable. Absent, nil, false, zero numbers,
// empty strings and empty collections are false.
func (v Variables) Bool(name string) bool {
	raw, ok := v[name]
	if !ok {
		return false
	}
	return truthy(raw)
}

// Number returns the variable as float64 when it holds any numeric kind.
func (v Variables) Number(name string) (float64, bool) {
	raw, ok := v[name]
	if !ok {
		return 0, false
	}
	return toFloat(raw)
}

// Int returns the variable as int when it holds a whole number.
func (v Variables) Int(name string) (int, bool) {
	f, ok := v.Number(name)
	if !ok || f != math.Trunc(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return int(f), true
}

// Array returns the variable as []any when it holds a slice or array.
func (v Variables) Array(name string) ([]any, bool) {
	raw, ok := v[name]
	if !ok || raw == nil {
		return nil, false
	}
	if s, ok := raw.([]any); ok {
		return s, true
	}
	rv := reflect.ValueOf(raw)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}

// Ints returns the variable as []int when every element is a whole number.
func (v Variables) Ints(name string) ([]int, bool) {
	items, ok := v.Array(name)
	if !ok {
		return nil, false
	}
	out := make([]int, len(items))
	for i, item := range items {
		f, ok := toFloat(item)
		if !ok || f != math.Trunc(f) {
			return nil, false
		}
		out[i] = int(f)
	}
	return out, true
}

// Map returns the variable as a string-keyed map. Maps with non-string keys
// (for example map[int]int) are converted using the key's printed form.
func (v Variables) Map(name string) (map[string]any, bool) {
	raw, ok := v[name]
	if !ok || raw == nil {
		return nil, false
	}
	if m, ok := raw.(map[string]any); ok {
		return m, true
	}
	rv := reflect.ValueOf(raw)
	if rv.Kind() != reflect.Map {
		return nil, false
	}
	out := make(map[string]any, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		out[fmt.Sprint(iter.Key().Interface())] = iter.Value().Interface()
	}
	return out, true
}

// Decode copies the bag into a struct using mapstructure tags.
func (v Variables) Decode(out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		TagName:          "mapstructure",
		WeaklyTypedInput: true,
	})
	if err != nil {
		return fmt.Errorf("failed to build variables decoder: %w", err)
	}
	if err := dec.Decode(map[string]any(v)); err != nil {
		return fmt.Errorf("failed to decode variables: %w", err)
	}
	return nil
}

// Clone returns a shallow copy.
func (v Variables) Clone() Variables {
	if v == nil {
		return nil
	}
	out := make(Variables, len(v))
	for k, val := range v {
		out[k] = val
	}
	return out
}

func toFloat(raw any) (float64, bool) {
	switch n := raw.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case float64:
		return n, !math.IsNaN(n)
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	}
	rv := reflect.ValueOf(raw)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return float64(rv.Uint()), true
	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		return f, !math.IsNaN(f)
	}
	return 0, false
}

func truthy(raw any) bool {
	if raw == nil {
		return false
	}
	switch b := raw.(type) {
	case bool:
		return b
	case string:
		return b != ""
	case float64:
		return b != 0 && !math.IsNaN(b)
	}
	if f, ok := toFloat(raw); ok {
		return f != 0
	}
	rv := reflect.ValueOf(raw)
	switch rv.Kind() {
	case reflect.Slice, reflect.Map, reflect.Array:
		return rv.Len() > 0
	case reflect.Pointer, reflect.Interface:
		return !rv.IsNil()
	}
	return true
}
