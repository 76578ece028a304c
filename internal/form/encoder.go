// Package form implements the wire encoding for Castwave API parameters:
// nested maps and slices flattened into key=value pairs with bracket
// notation (a[b]=1, a[0]=x), the format the API accepts for request bodies
// and query strings.
//
// The encoder is write-only. The API never hands form-encoded data back, so
// Decode exists only to fail loudly if someone reaches for it.
package form

import (
	"errors"
	"fmt"
	"net/url"
	"reflect"
	"sort"
	"strings"
)

// ErrDecodeUnsupported is returned by Decode unconditionally.
var ErrDecodeUnsupported = errors.New("form: decoding is not supported")

// Identifiable is implemented by API resource values that can stand in for
// their server-side identifier. The encoder sends the identifier instead of
// the full object, so callers can pass a fetched resource directly as a
// parameter value.
type Identifiable interface {
	Identifier() string
}

// Encode flattens params into the API's bracket-notation form encoding.
// Map keys are emitted in sorted order so output is deterministic; slice
// order is preserved. The top level must be a map.
func Encode(params any) (string, error) {
	if params == nil {
		return "", nil
	}
	v := reflect.ValueOf(params)
	if v.Kind() == reflect.Pointer {
		v = v.Elem()
	}
	if v.Kind() != reflect.Map {
		return "", fmt.Errorf("form: top-level parameters must be a map, got %T", params)
	}

	var pairs []string
	if err := flatten("", v, &pairs); err != nil {
		return "", err
	}
	return strings.Join(pairs, "&"), nil
}

// Decode is intentionally unimplemented.
func Decode(string) (any, error) {
	return nil, ErrDecodeUnsupported
}

func flatten(key string, v reflect.Value, pairs *[]string) error {
	for v.Kind() == reflect.Interface || v.Kind() == reflect.Pointer {
		if v.IsNil() {
			appendPair(pairs, key, "")
			return nil
		}
		if id, ok := v.Interface().(Identifiable); ok {
			appendPair(pairs, key, id.Identifier())
			return nil
		}
		v = v.Elem()
	}

	if v.IsValid() && v.CanInterface() {
		if id, ok := v.Interface().(Identifiable); ok {
			appendPair(pairs, key, id.Identifier())
			return nil
		}
	}

	switch v.Kind() {
	case reflect.Map:
		keys := make([]string, 0, v.Len())
		byName := make(map[string]reflect.Value, v.Len())
		for _, mk := range v.MapKeys() {
			name := fmt.Sprintf("%v", mk.Interface())
			keys = append(keys, name)
			byName[name] = v.MapIndex(mk)
		}
		sort.Strings(keys)
		for _, name := range keys {
			if err := flatten(childKey(key, name), byName[name], pairs); err != nil {
				return err
			}
		}
	case reflect.Slice, reflect.Array:
		for i := 0; i < v.Len(); i++ {
			if err := flatten(childKey(key, fmt.Sprintf("%d", i)), v.Index(i), pairs); err != nil {
				return err
			}
		}
	case reflect.Struct, reflect.Func, reflect.Chan:
		return fmt.Errorf("form: cannot encode value of type %s at %q", v.Type(), key)
	default:
		appendPair(pairs, key, fmt.Sprintf("%v", v.Interface()))
	}
	return nil
}

// childKey nests name under key using bracket notation. Segments are
// percent-escaped individually; the brackets themselves stay literal.
func childKey(key, name string) string {
	if key == "" {
		return url.QueryEscape(name)
	}
	return key + "[" + url.QueryEscape(name) + "]"
}

func appendPair(pairs *[]string, key, value string) {
	*pairs = append(*pairs, key+"="+url.QueryEscape(value))
}
