package domain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatValue(t *testing.T) {
	tests := []struct {
		name string
		in   Value
		want string
	}{
		{name: "nil_is_empty", in: nil, want: ""},
		{name: "null_is_empty", in: Null{}, want: ""},
		{name: "text_verbatim", in: Text("north"), want: "north"},
		{name: "empty_text", in: Text(""), want: ""},
		{name: "integral_float_no_decimal", in: Number(125000.0), want: "125000"},
		{name: "zero", in: Number(0), want: "0"},
		{name: "negative_integral", in: Number(-42.0), want: "-42"},
		{name: "fraction_keeps_digits", in: Number(98500.5), want: "98500.5"},
		{name: "six_digit_cap", in: Number(1.0 / 3.0), want: "0.333333"},
		{name: "trailing_zeros_stripped", in: Number(12.5000001), want: "12.5"},
		{name: "tiny_fraction_rounds_to_zero", in: Number(1e-9), want: "0"},
		{name: "negative_fraction", in: Number(-0.25), want: "-0.25"},
		{name: "large_integral_stays_fixed", in: Number(1e15), want: "1000000000000000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatValue(tt.in))
		})
	}
}

func TestCoerceNumber(t *testing.T) {
	tests := []struct {
		name   string
		in     Value
		want   float64
		wantOK bool
	}{
		{name: "number_passthrough", in: Number(12.5), want: 12.5, wantOK: true},
		{name: "integer_text", in: Text("130000"), want: 130000, wantOK: true},
		{name: "decimal_text", in: Text("98500.5"), want: 98500.5, wantOK: true},
		{name: "padded_text", in: Text("  42 "), want: 42, wantOK: true},
		{name: "scientific_text", in: Text("1e3"), want: 1000, wantOK: true},
		{name: "negative_text", in: Text("-7.25"), want: -7.25, wantOK: true},
		{name: "word_fails", in: Text("hardware"), wantOK: false},
		{name: "empty_text_fails", in: Text(""), wantOK: false},
		{name: "null_fails", in: Null{}, wantOK: false},
		{name: "nil_fails", in: nil, wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := CoerceNumber(tt.in)
			require.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.InDelta(t, tt.want, got, 1e-9)
			}
		})
	}
}

func TestValuesEqual(t *testing.T) {
	tests := []struct {
		name string
		a, b Value
		want bool
	}{
		{name: "text_match", a: Text("north"), b: Text("north"), want: true},
		{name: "text_case_sensitive", a: Text("North"), b: Text("north"), want: false},
		{name: "number_match", a: Number(5), b: Number(5.0), want: true},
		{name: "number_mismatch", a: Number(5), b: Number(6), want: false},
		{name: "text_never_matches_number", a: Text("5"), b: Number(5), want: false},
		{name: "null_equals_null", a: Null{}, b: Null{}, want: true},
		{name: "nil_equals_null", a: nil, b: Null{}, want: true},
		{name: "null_not_text", a: Null{}, b: Text(""), want: false},
		{name: "nan_never_equal", a: Number(math.NaN()), b: Number(math.NaN()), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ValuesEqual(tt.a, tt.b))
		})
	}
}

func TestValueOf(t *testing.T) {
	assert.Equal(t, Text("north"), ValueOf("north"))
	assert.Equal(t, Number(5), ValueOf(5))
	assert.Equal(t, Number(5.5), ValueOf(5.5))
	assert.Equal(t, Number(int64(9)), ValueOf(int64(9)))
	assert.Equal(t, Number(1), ValueOf(true))
	assert.Equal(t, Number(0), ValueOf(false))
	assert.Equal(t, Null{}, ValueOf(nil))
	assert.Equal(t, Null{}, ValueOf([]string{"not", "scalar"}))
	assert.Equal(t, Text("kept"), ValueOf(Text("kept")))
}
