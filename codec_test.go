package minisdk

import (
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type screenName string

func TestEncodePayload(t *testing.T) {
	tests := []struct {
		name    string
		payload map[string]any
		want    string
	}{
		{"nil", nil, `{}`},
		{"empty", map[string]any{}, `{}`},
		{"strings sorted", map[string]any{"b": "2", "a": "1"}, `{"a":"1","b":"2"}`},
		{"numbers and bools", map[string]any{"n": 42, "f": 1.5, "ok": true}, `{"f":1.5,"n":42,"ok":true}`},
		{"null value", map[string]any{"v": nil}, `{"v":null}`},
		{"nested", map[string]any{"aps": map[string]any{"badge": 1}}, `{"aps":{"badge":1}}`},
		{"typed slice", map[string]any{"tags": []string{"a", "b"}}, `{"tags":["a","b"]}`},
		{"typed map", map[string]any{"m": map[string]int{"x": 1}}, `{"m":{"x":1}}`},
		{"named string", map[string]any{"screen": screenName("Main")}, `{"screen":"Main"}`},
		{"json number", map[string]any{"n": json.Number("7")}, `{"n":7}`},
		{"bytes", map[string]any{"b": []byte("hi")}, `{"b":"aGk="}`},
		{"channel", map[string]any{"ch": make(chan int)}, `{}`},
		{"func", map[string]any{"fn": func() {}}, `{}`},
		{"struct", map[string]any{"s": struct{ A int }{1}}, `{}`},
		{"nan", map[string]any{"f": math.NaN()}, `{}`},
		{"inf", map[string]any{"f": math.Inf(1)}, `{}`},
		{"invalid utf8", map[string]any{"s": "\xff"}, `{}`},
		{"non-string map key", map[string]any{"m": map[int]string{1: "a"}}, `{}`},
		{"nested failure", map[string]any{"ok": "x", "bad": []any{make(chan int)}}, `{}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EncodePayload(tt.payload)
			assert.JSONEq(t, tt.want, got)
			assert.True(t, json.Valid([]byte(got)))
		})
	}
}

func TestEncodePayloadSelfReference(t *testing.T) {
	m := map[string]any{}
	m["self"] = m

	assert.Equal(t, "{}", EncodePayload(m))
}

func TestEncodePayloadDoubleSelfReference(t *testing.T) {
	m := map[string]any{}
	m["a"] = m
	m["b"] = m

	done := make(chan string, 1)
	go func() { done <- EncodePayload(m) }()
	select {
	case got := <-done:
		assert.Equal(t, "{}", got)
	case <-time.After(5 * time.Second):
		t.Fatal("EncodePayload did not return for a doubly self-referencing map")
	}
}

func TestEncodePayloadNestedCycle(t *testing.T) {
	inner := map[string]any{}
	outer := map[string]any{"inner": inner}
	inner["outer"] = outer

	assert.Equal(t, "{}", EncodePayload(outer))
}

func TestEncodePayloadSliceCycle(t *testing.T) {
	s := []any{nil}
	s[0] = s

	assert.Equal(t, "{}", EncodePayload(map[string]any{"s": s}))
}

func TestEncodePayloadSharedReferenceIsNotACycle(t *testing.T) {
	shared := map[string]any{"k": "v"}

	got := EncodePayload(map[string]any{"a": shared, "b": shared})
	assert.Equal(t, `{"a":{"k":"v"},"b":{"k":"v"}}`, got)
}

func TestEncodePayloadLargeIntegers(t *testing.T) {
	tests := []struct {
		name string
		v    any
		want string
	}{
		{"int64 above 2^53", int64(1<<53 + 1), `{"id":9007199254740993}`},
		{"max int64", int64(math.MaxInt64), `{"id":9223372036854775807}`},
		{"max uint64", uint64(math.MaxUint64), `{"id":18446744073709551615}`},
		{"nested in slice", []int64{1<<53 + 1}, `{"id":[9007199254740993]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, EncodePayload(map[string]any{"id": tt.v}))
		})
	}
}

func jsonValid(s string) bool {
	return json.Valid([]byte(s))
}
