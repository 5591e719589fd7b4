package jsonutil

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlexibleStringValue(t *testing.T) {
	tests := []struct {
		name  string
		input json.RawMessage
		want  string
	}{
		{
			name:  "string value",
			input: json.RawMessage(`"Byzantine"`),
			want:  "Byzantine",
		},
		{
			name:  "integer value",
			input: json.RawMessage(`42`),
			want:  "42",
		},
		{
			name:  "float value",
			input: json.RawMessage(`3.14`),
			want:  "3.14",
		},
		{
			name:  "boolean true",
			input: json.RawMessage(`true`),
			want:  "true",
		},
		{
			name:  "null value",
			input: json.RawMessage(`null`),
			want:  "",
		},
		{
			name:  "nil raw message",
			input: nil,
			want:  "",
		},
		{
			name:  "large integer preserves precision",
			input: json.RawMessage(`9007199254740993`),
			want:  "9007199254740993",
		},
		{
			name:  "nested object falls back to raw string",
			input: json.RawMessage(`{"a": 1}`),
			want:  `{"a": 1}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FlexibleStringValue(tt.input))
		})
	}
}

func TestFlexibleString_DistinguishesNullFromEmpty(t *testing.T) {
	assert.Nil(t, FlexibleString(nil))
	assert.Nil(t, FlexibleString(json.RawMessage(`null`)))
	assert.Nil(t, FlexibleString(json.RawMessage(`  null `)))

	empty := FlexibleString(json.RawMessage(`""`))
	require.NotNil(t, empty)
	assert.Equal(t, "", *empty)
}

func TestFlexibleInt(t *testing.T) {
	tests := []struct {
		name  string
		input json.RawMessage
		want  *int64
	}{
		{"integer", json.RawMessage(`1985`), ptr(int64(1985))},
		{"integral float", json.RawMessage(`1985.0`), ptr(int64(1985))},
		{"numeric string", json.RawMessage(`" 1985 "`), ptr(int64(1985))},
		{"negative year", json.RawMessage(`-500`), ptr(int64(-500))},
		{"fractional float", json.RawMessage(`12.5`), nil},
		{"non-numeric string", json.RawMessage(`"circa 1900"`), nil},
		{"empty string", json.RawMessage(`""`), nil},
		{"boolean", json.RawMessage(`true`), nil},
		{"null", json.RawMessage(`null`), nil},
		{"absent", nil, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FlexibleInt(tt.input))
		})
	}
}

func TestFlexibleFloat(t *testing.T) {
	tests := []struct {
		name  string
		input json.RawMessage
		want  *float64
	}{
		{"float", json.RawMessage(`0.4512`), ptr(0.4512)},
		{"integer", json.RawMessage(`3`), ptr(3.0)},
		{"numeric string", json.RawMessage(`"12.25"`), ptr(12.25)},
		{"object", json.RawMessage(`{"x":1}`), nil},
		{"null", json.RawMessage(`null`), nil},
		{"absent", nil, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FlexibleFloat(tt.input))
		})
	}
}

func ptr[T any](v T) *T { return &v }
