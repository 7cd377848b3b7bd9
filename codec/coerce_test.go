package codec

import (
	"math"
	"testing"
)

func TestCoerceToInt64(t *testing.T) {
	tests := []struct {
		input  any
		name   string
		want   int64
		wantOK bool
	}{
		{int64(0), "int64 zero", 0, true},
		{int64(math.MinInt64), "int64 min", math.MinInt64, true},
		{int64(math.MaxInt64), "int64 max", math.MaxInt64, true},
		{int(-42), "int negative", -42, true},
		{int8(-128), "int8 min", -128, true},
		{int16(32767), "int16 max", 32767, true},
		{int32(-11111), "int32 mid", -11111, true},
		{uint8(255), "uint8 max", 255, true},
		{uint16(65535), "uint16 max", 65535, true},
		{uint32(math.MaxUint32), "uint32 max", math.MaxUint32, true},
		{uint64(math.MaxInt64), "uint64 in range", math.MaxInt64, true},
		{uint64(math.MaxInt64 + 1), "uint64 too large", 0, false},

		// JSON-decoded numbers arrive as float64.
		{float64(42), "float64 integral", 42, true},
		{float64(-99), "float64 negative", -99, true},
		{float64(3.14), "float64 fractional", 0, false},
		{float32(7), "float32 integral", 7, true},

		{"12", "string", 0, false},
		{nil, "nil", 0, false},
		{true, "bool", 0, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := coerceToInt64(tc.input)
			if ok != tc.wantOK {
				t.Fatalf("ok: got %v, want %v", ok, tc.wantOK)
			}
			if ok && got != tc.want {
				t.Errorf("got %d, want %d", got, tc.want)
			}
		})
	}
}

func TestCoerceToUint64(t *testing.T) {
	tests := []struct {
		input  any
		name   string
		want   uint64
		wantOK bool
	}{
		{uint64(0), "uint64 zero", 0, true},
		{uint64(math.MaxUint64), "uint64 max", math.MaxUint64, true},
		{uint(500), "uint", 500, true},
		{uint8(255), "uint8 max", 255, true},
		{int(44), "int positive", 44, true},
		{int(-1), "int negative", 0, false},
		{int64(-5), "int64 negative", 0, false},
		{int32(777), "int32 positive", 777, true},
		{float64(42), "float64 integral", 42, true},
		{float64(-1), "float64 negative", 0, false},
		{float64(0.5), "float64 fractional", 0, false},
		{"12", "string", 0, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := coerceToUint64(tc.input)
			if ok != tc.wantOK {
				t.Fatalf("ok: got %v, want %v", ok, tc.wantOK)
			}
			if ok && got != tc.want {
				t.Errorf("got %d, want %d", got, tc.want)
			}
		})
	}
}

func TestCoerceToFloat64(t *testing.T) {
	tests := []struct {
		input  any
		name   string
		want   float64
		wantOK bool
	}{
		{float64(1.5), "float64", 1.5, true},
		{float32(2.5), "float32", 2.5, true},
		{int(-3), "int", -3, true},
		{uint64(7), "uint64", 7, true},
		{"1.5", "string", 0, false},
		{nil, "nil", 0, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := coerceToFloat64(tc.input)
			if ok != tc.wantOK {
				t.Fatalf("ok: got %v, want %v", ok, tc.wantOK)
			}
			if ok && got != tc.want {
				t.Errorf("got %v, want %v", got, tc.want)
			}
		})
	}
}

func TestCoerceToBool(t *testing.T) {
	tests := []struct {
		input  any
		name   string
		want   bool
		wantOK bool
	}{
		{true, "bool true", true, true},
		{false, "bool false", false, true},
		{int(1), "int nonzero", true, true},
		{int(0), "int zero", false, true},
		{uint64(9), "uint64 nonzero", true, true},
		{"yes", "string", false, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := coerceToBool(tc.input)
			if ok != tc.wantOK {
				t.Fatalf("ok: got %v, want %v", ok, tc.wantOK)
			}
			if ok && got != tc.want {
				t.Errorf("got %v, want %v", got, tc.want)
			}
		})
	}
}
