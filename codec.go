package minisdk

import (
	"encoding/json"
	"reflect"

	"google.golang.org/protobuf/types/known/structpb"
)

// emptyObject is the rendering used when a payload cannot be encoded.
const emptyObject = "{}"

// maxPayloadDepth bounds nesting of acyclic payloads.
const maxPayloadDepth = 64

// unencodable is substituted for cycles and for values nested past
// maxPayloadDepth; structpb rejects it.
type unencodable struct{}

// EncodePayload renders payload as JSON text with sorted keys.
//
// Values must be JSON-representable: nil, bool, numbers, strings, []byte,
// json.Number, and slices or string-keyed maps of those. Any other value, as
// well as NaN or infinite floats, invalid UTF-8 and cyclic maps or slices,
// makes the whole payload render as "{}". Integers are written exactly.
// EncodePayload never panics.
func EncodePayload(payload map[string]any) (out string) {
	defer func() {
		if recover() != nil {
			out = emptyObject
		}
	}()

	n := normalizer{visiting: make(map[refKey]struct{})}
	normalized, ok := n.value(reflect.ValueOf(payload), payload, 0).(map[string]any)
	if !ok {
		return emptyObject
	}
	// structpb only validates; its float64 numbers would lose integer
	// precision, so the normalized map is what gets marshaled.
	if _, err := structpb.NewStruct(normalized); err != nil {
		return emptyObject
	}
	data, err := json.Marshal(normalized)
	if err != nil {
		return emptyObject
	}
	return string(data)
}

// refKey identifies a map or slice on the current recursion path. Slices
// sharing a backing array but differing in length are distinct values.
type refKey struct {
	ptr uintptr
	len int
}

// normalizer converts typed slices and string-keyed maps ([]string,
// map[string]int, ...) into the []any and map[string]any shapes structpb
// accepts. Anything else is returned unchanged for structpb to judge.
type normalizer struct {
	visiting map[refKey]struct{}
}

func (n normalizer) normalize(v any, depth int) any {
	switch v.(type) {
	case nil, bool, string, []byte, json.Number:
		return v
	}
	return n.value(reflect.ValueOf(v), v, depth)
}

func (n normalizer) value(rv reflect.Value, v any, depth int) any {
	if depth > maxPayloadDepth {
		return unencodable{}
	}
	switch rv.Kind() {
	case reflect.String:
		return rv.String()
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice {
			if rv.IsNil() {
				return nil
			}
			key := refKey{ptr: rv.Pointer(), len: rv.Len()}
			if !n.enter(key) {
				return unencodable{}
			}
			defer delete(n.visiting, key)
		}
		out := make([]any, rv.Len())
		for i := range out {
			out[i] = n.normalize(rv.Index(i).Interface(), depth+1)
		}
		return out
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return v
		}
		if rv.IsNil() {
			if depth == 0 {
				return map[string]any{}
			}
			return nil
		}
		key := refKey{ptr: rv.Pointer()}
		if !n.enter(key) {
			return unencodable{}
		}
		defer delete(n.visiting, key)
		out := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			out[iter.Key().String()] = n.normalize(iter.Value().Interface(), depth+1)
		}
		return out
	}
	return v
}

// enter marks key as on the recursion path. It reports false for a cycle.
func (n normalizer) enter(key refKey) bool {
	if _, ok := n.visiting[key]; ok {
		return false
	}
	n.visiting[key] = struct{}{}
	return true
}
