package layout

import (
	"testing"

	"github.com/wippyai/cstruct/schema"
)

func mustStruct(t *testing.T, name string, fields ...schema.Field) *schema.Struct {
	t.Helper()
	s, err := schema.NewStruct(name, fields...)
	if err != nil {
		t.Fatalf("NewStruct(%s): %v", name, err)
	}
	return s
}

func mustUnion(t *testing.T, name string, fields ...schema.Field) *schema.Union {
	t.Helper()
	u, err := schema.NewUnion(name, fields...)
	if err != nil {
		t.Fatalf("NewUnion(%s): %v", name, err)
	}
	return u
}

func mustBitfield(t *testing.T, storage schema.Kind, bits int, signed bool) *schema.Bitfield {
	t.Helper()
	bf, err := schema.NewBitfield(storage, bits, signed)
	if err != nil {
		t.Fatalf("NewBitfield: %v", err)
	}
	return bf
}

func checkField(t *testing.T, info Info, name string, offset, size, bitOffset, bits int) {
	t.Helper()
	f, ok := info.Field(name)
	if !ok {
		t.Fatalf("field %s missing from layout", name)
	}
	if f.Offset != offset {
		t.Errorf("field %s offset: got %d, want %d", name, f.Offset, offset)
	}
	if f.Size != size {
		t.Errorf("field %s size: got %d, want %d", name, f.Size, size)
	}
	if f.BitOffset != bitOffset {
		t.Errorf("field %s bit offset: got %d, want %d", name, f.BitOffset, bitOffset)
	}
	if f.Bits != bits {
		t.Errorf("field %s bits: got %d, want %d", name, f.Bits, bits)
	}
}

func TestCalculateScalars(t *testing.T) {
	c := NewCalculator()

	tests := []struct {
		kind  schema.Kind
		size  int
		align int
	}{
		{schema.Int8, 1, 1},
		{schema.Uint8, 1, 1},
		{schema.Int16, 2, 2},
		{schema.Uint16, 2, 2},
		{schema.Int32, 4, 4},
		{schema.Uint32, 4, 4},
		{schema.Int64, 8, 8},
		{schema.Uint64, 8, 8},
		{schema.Float32, 4, 4},
		{schema.Float64, 8, 8},
		{schema.Bool8, 1, 1},
		{schema.Bool16, 2, 2},
		{schema.Bool32, 4, 4},
		{schema.Bool64, 8, 8},
	}

	for _, tc := range tests {
		t.Run(tc.kind.String(), func(t *testing.T) {
			info, err := c.Calculate(tc.kind, schema.Natural)
			if err != nil {
				t.Fatal(err)
			}
			if info.Size != tc.size {
				t.Errorf("size: got %d, want %d", info.Size, tc.size)
			}
			if info.Align != tc.align {
				t.Errorf("align: got %d, want %d", info.Align, tc.align)
			}

			packed, err := c.Calculate(tc.kind, schema.Packed)
			if err != nil {
				t.Fatal(err)
			}
			if packed.Size != tc.size {
				t.Errorf("packed size: got %d, want %d", packed.Size, tc.size)
			}
			if packed.Align != 1 {
				t.Errorf("packed align: got %d, want 1", packed.Align)
			}
		})
	}
}

func TestCalculateScalarRejectsComposite(t *testing.T) {
	c := NewCalculator()
	if _, err := c.Calculate(schema.KindStruct, schema.Natural); err == nil {
		t.Fatal("composite kind used as a scalar must fail")
	}
}

func TestCalculateStruct(t *testing.T) {
	c := NewCalculator()

	t.Run("mixed_alignment_natural", func(t *testing.T) {
		s := mustStruct(t, "mixed",
			schema.Field{Name: "a", Type: schema.Uint8},
			schema.Field{Name: "b", Type: schema.Uint32},
			schema.Field{Name: "c", Type: schema.Uint8},
		)
		info, err := c.Calculate(s, schema.Natural)
		if err != nil {
			t.Fatal(err)
		}
		checkField(t, info, "a", 0, 1, 0, 0)
		checkField(t, info, "b", 4, 4, 0, 0)
		checkField(t, info, "c", 8, 1, 0, 0)
		if info.Size != 12 {
			t.Errorf("size: got %d, want 12", info.Size)
		}
		if info.Align != 4 {
			t.Errorf("align: got %d, want 4", info.Align)
		}
	})

	t.Run("mixed_alignment_packed", func(t *testing.T) {
		s := mustStruct(t, "mixed2",
			schema.Field{Name: "a", Type: schema.Uint8},
			schema.Field{Name: "b", Type: schema.Uint32},
			schema.Field{Name: "c", Type: schema.Uint8},
		)
		info, err := c.Calculate(s, schema.Packed)
		if err != nil {
			t.Fatal(err)
		}
		checkField(t, info, "a", 0, 1, 0, 0)
		checkField(t, info, "b", 1, 4, 0, 0)
		checkField(t, info, "c", 5, 1, 0, 0)
		if info.Size != 6 {
			t.Errorf("size: got %d, want 6", info.Size)
		}
		if info.Align != 1 {
			t.Errorf("align: got %d, want 1", info.Align)
		}
	})

	t.Run("int64_alignment", func(t *testing.T) {
		s := mustStruct(t, "wide",
			schema.Field{Name: "a", Type: schema.Uint8},
			schema.Field{Name: "b", Type: schema.Int64},
		)
		info, err := c.Calculate(s, schema.Natural)
		if err != nil {
			t.Fatal(err)
		}
		checkField(t, info, "b", 8, 8, 0, 0)
		if info.Size != 16 {
			t.Errorf("size: got %d, want 16", info.Size)
		}
	})

	t.Run("alignment_cap", func(t *testing.T) {
		s := mustStruct(t, "capped",
			schema.Field{Name: "a", Type: schema.Uint8},
			schema.Field{Name: "b", Type: schema.Int64},
		)
		info, err := c.Calculate(s, schema.NaturalMax(4))
		if err != nil {
			t.Fatal(err)
		}
		checkField(t, info, "b", 4, 8, 0, 0)
		if info.Size != 12 {
			t.Errorf("size: got %d, want 12", info.Size)
		}
		if info.Align != 4 {
			t.Errorf("align: got %d, want 4", info.Align)
		}
	})

	t.Run("string_and_bytes_align_one", func(t *testing.T) {
		str, err := schema.NewString(3)
		if err != nil {
			t.Fatal(err)
		}
		s := mustStruct(t, "buffered",
			schema.Field{Name: "a", Type: schema.Uint32},
			schema.Field{Name: "s", Type: str},
			schema.Field{Name: "b", Type: schema.Uint32},
		)
		info, err := c.Calculate(s, schema.Natural)
		if err != nil {
			t.Fatal(err)
		}
		checkField(t, info, "s", 4, 3, 0, 0)
		checkField(t, info, "b", 8, 4, 0, 0)
		if info.Size != 12 {
			t.Errorf("size: got %d, want 12", info.Size)
		}
	})

	t.Run("nested_struct", func(t *testing.T) {
		inner := mustStruct(t, "inner",
			schema.Field{Name: "x", Type: schema.Uint32},
			schema.Field{Name: "y", Type: schema.Uint8},
		)
		outer := mustStruct(t, "outer",
			schema.Field{Name: "tag", Type: schema.Uint8},
			schema.Field{Name: "in", Type: inner},
		)
		info, err := c.Calculate(outer, schema.Natural)
		if err != nil {
			t.Fatal(err)
		}
		// inner is 8 bytes aligned 4, so it starts at 4.
		checkField(t, info, "in", 4, 8, 0, 0)
		if info.Size != 12 {
			t.Errorf("size: got %d, want 12", info.Size)
		}
	})
}

func TestCalculateBitfields(t *testing.T) {
	c := NewCalculator()

	t.Run("shared_unit", func(t *testing.T) {
		s := mustStruct(t, "flags",
			schema.Field{Name: "a", Type: mustBitfield(t, schema.Uint8, 3, false)},
			schema.Field{Name: "b", Type: mustBitfield(t, schema.Uint8, 5, false)},
		)
		info, err := c.Calculate(s, schema.Packed)
		if err != nil {
			t.Fatal(err)
		}
		checkField(t, info, "a", 0, 1, 0, 3)
		checkField(t, info, "b", 0, 1, 3, 5)
		if info.Size != 1 {
			t.Errorf("size: got %d, want 1", info.Size)
		}
	})

	t.Run("unit_overflow_starts_new_unit", func(t *testing.T) {
		s := mustStruct(t, "spill",
			schema.Field{Name: "a", Type: mustBitfield(t, schema.Uint8, 5, false)},
			schema.Field{Name: "b", Type: mustBitfield(t, schema.Uint8, 5, false)},
		)
		info, err := c.Calculate(s, schema.Packed)
		if err != nil {
			t.Fatal(err)
		}
		checkField(t, info, "a", 0, 1, 0, 5)
		checkField(t, info, "b", 1, 1, 0, 5)
		if info.Size != 2 {
			t.Errorf("size: got %d, want 2", info.Size)
		}
	})

	t.Run("storage_change_starts_new_unit", func(t *testing.T) {
		s := mustStruct(t, "mixedstore",
			schema.Field{Name: "a", Type: mustBitfield(t, schema.Uint16, 4, false)},
			schema.Field{Name: "b", Type: mustBitfield(t, schema.Uint8, 4, false)},
		)
		info, err := c.Calculate(s, schema.Packed)
		if err != nil {
			t.Fatal(err)
		}
		checkField(t, info, "a", 0, 2, 0, 4)
		checkField(t, info, "b", 2, 1, 0, 4)
		if info.Size != 3 {
			t.Errorf("size: got %d, want 3", info.Size)
		}
	})

	t.Run("lone_bitfield_fills_unit", func(t *testing.T) {
		info, err := c.Calculate(mustBitfield(t, schema.Uint16, 3, false), schema.Natural)
		if err != nil {
			t.Fatal(err)
		}
		if info.Size != 2 {
			t.Errorf("size: got %d, want 2", info.Size)
		}
		if info.Align != 2 {
			t.Errorf("align: got %d, want 2", info.Align)
		}
	})

	t.Run("mixed_runs_packed", func(t *testing.T) {
		s := mustStruct(t, "data",
			schema.Field{Name: "m1", Type: schema.Int32},
			schema.Field{Name: "bf1a", Type: mustBitfield(t, schema.Uint32, 3, false)},
			schema.Field{Name: "bf1b", Type: mustBitfield(t, schema.Uint32, 5, false)},
			schema.Field{Name: "m2", Type: schema.Uint8},
			schema.Field{Name: "bf2a", Type: mustBitfield(t, schema.Int32, 4, true)},
			schema.Field{Name: "bf2b", Type: mustBitfield(t, schema.Int32, 10, true)},
			schema.Field{Name: "bf3a", Type: mustBitfield(t, schema.Uint8, 3, false)},
			schema.Field{Name: "bf3b", Type: mustBitfield(t, schema.Uint8, 5, false)},
			schema.Field{Name: "m3", Type: schema.Int64},
		)
		info, err := c.Calculate(s, schema.Packed)
		if err != nil {
			t.Fatal(err)
		}
		checkField(t, info, "m1", 0, 4, 0, 0)
		checkField(t, info, "bf1a", 4, 4, 0, 3)
		checkField(t, info, "bf1b", 4, 4, 3, 5)
		checkField(t, info, "m2", 8, 1, 0, 0)
		checkField(t, info, "bf2a", 9, 4, 0, 4)
		checkField(t, info, "bf2b", 9, 4, 4, 10)
		checkField(t, info, "bf3a", 13, 1, 0, 3)
		checkField(t, info, "bf3b", 13, 1, 3, 5)
		checkField(t, info, "m3", 14, 8, 0, 0)
		if info.Size != 22 {
			t.Errorf("size: got %d, want 22", info.Size)
		}
	})

	t.Run("mixed_runs_natural", func(t *testing.T) {
		s := mustStruct(t, "data_nat",
			schema.Field{Name: "m1", Type: schema.Int32},
			schema.Field{Name: "bf1a", Type: mustBitfield(t, schema.Uint32, 3, false)},
			schema.Field{Name: "bf1b", Type: mustBitfield(t, schema.Uint32, 5, false)},
			schema.Field{Name: "m2", Type: schema.Uint8},
			schema.Field{Name: "bf2a", Type: mustBitfield(t, schema.Int32, 4, true)},
			schema.Field{Name: "bf2b", Type: mustBitfield(t, schema.Int32, 10, true)},
			schema.Field{Name: "bf3a", Type: mustBitfield(t, schema.Uint8, 3, false)},
			schema.Field{Name: "bf3b", Type: mustBitfield(t, schema.Uint8, 5, false)},
			schema.Field{Name: "m3", Type: schema.Int64},
		)
		info, err := c.Calculate(s, schema.Natural)
		if err != nil {
			t.Fatal(err)
		}
		checkField(t, info, "bf1a", 4, 4, 0, 3)
		checkField(t, info, "m2", 8, 1, 0, 0)
		checkField(t, info, "bf2a", 12, 4, 0, 4)
		checkField(t, info, "bf3a", 16, 1, 0, 3)
		checkField(t, info, "m3", 24, 8, 0, 0)
		if info.Size != 32 {
			t.Errorf("size: got %d, want 32", info.Size)
		}
		if info.Align != 8 {
			t.Errorf("align: got %d, want 8", info.Align)
		}
	})
}

func TestCalculateUnion(t *testing.T) {
	c := NewCalculator()

	t.Run("max_member_wins", func(t *testing.T) {
		str, err := schema.NewString(7)
		if err != nil {
			t.Fatal(err)
		}
		u := mustUnion(t, "variant",
			schema.Field{Name: "b", Type: schema.Uint8},
			schema.Field{Name: "w", Type: schema.Uint32},
			schema.Field{Name: "s", Type: str},
		)
		info, err := c.Calculate(u, schema.Natural)
		if err != nil {
			t.Fatal(err)
		}
		for _, name := range []string{"b", "w", "s"} {
			f, ok := info.Field(name)
			if !ok {
				t.Fatalf("field %s missing", name)
			}
			if f.Offset != 0 {
				t.Errorf("field %s offset: got %d, want 0", name, f.Offset)
			}
		}
		if info.Size != 8 {
			t.Errorf("size: got %d, want 8 (7 rounded up to alignment 4)", info.Size)
		}
		if info.Align != 4 {
			t.Errorf("align: got %d, want 4", info.Align)
		}

		packed, err := c.Calculate(u, schema.Packed)
		if err != nil {
			t.Fatal(err)
		}
		if packed.Size != 7 {
			t.Errorf("packed size: got %d, want 7", packed.Size)
		}
	})

	t.Run("bitfield_member", func(t *testing.T) {
		u := mustUnion(t, "raw",
			schema.Field{Name: "bits", Type: mustBitfield(t, schema.Uint16, 5, false)},
			schema.Field{Name: "whole", Type: schema.Uint16},
		)
		info, err := c.Calculate(u, schema.Packed)
		if err != nil {
			t.Fatal(err)
		}
		checkField(t, info, "bits", 0, 2, 0, 5)
		if info.Size != 2 {
			t.Errorf("size: got %d, want 2", info.Size)
		}
	})
}

func TestCalculateArray(t *testing.T) {
	c := NewCalculator()

	t.Run("one_dimension", func(t *testing.T) {
		a, err := schema.NewArray(schema.Int32, 5)
		if err != nil {
			t.Fatal(err)
		}
		info, err := c.Calculate(a, schema.Natural)
		if err != nil {
			t.Fatal(err)
		}
		if info.Size != 20 {
			t.Errorf("size: got %d, want 20", info.Size)
		}
		if info.Align != 4 {
			t.Errorf("align: got %d, want 4", info.Align)
		}
	})

	t.Run("multi_dimension", func(t *testing.T) {
		elem := mustStruct(t, "color",
			schema.Field{Name: "r", Type: schema.Uint8},
			schema.Field{Name: "g", Type: schema.Uint8},
			schema.Field{Name: "b", Type: schema.Uint8},
			schema.Field{Name: "a", Type: schema.Uint8},
		)
		a, err := schema.NewArray(elem, 4, 2)
		if err != nil {
			t.Fatal(err)
		}
		info, err := c.Calculate(a, schema.Packed)
		if err != nil {
			t.Fatal(err)
		}
		if info.Size != 32 {
			t.Errorf("size: got %d, want 32", info.Size)
		}
	})
}

func TestCalculateEnum(t *testing.T) {
	c := NewCalculator()
	e, err := schema.NewEnum("car_type", 4, false,
		schema.Constant{Label: "Sedan", Value: 0},
		schema.Constant{Label: "Bus", Value: 7},
	)
	if err != nil {
		t.Fatal(err)
	}
	info, err := c.Calculate(e, schema.Natural)
	if err != nil {
		t.Fatal(err)
	}
	if info.Size != 4 || info.Align != 4 {
		t.Errorf("natural: got size %d align %d, want 4/4", info.Size, info.Align)
	}
	packed, err := c.Calculate(e, schema.Packed)
	if err != nil {
		t.Fatal(err)
	}
	if packed.Size != 4 || packed.Align != 1 {
		t.Errorf("packed: got size %d align %d, want 4/1", packed.Size, packed.Align)
	}
}

func TestCalculateCaching(t *testing.T) {
	c := NewCalculator()
	s := mustStruct(t, "cached",
		schema.Field{Name: "a", Type: schema.Uint32},
	)
	first, err := c.Calculate(s, schema.Natural)
	if err != nil {
		t.Fatal(err)
	}
	second, err := c.Calculate(s, schema.Natural)
	if err != nil {
		t.Fatal(err)
	}
	if first.Size != second.Size || first.Align != second.Align {
		t.Error("repeated calculation must return identical results")
	}

	// The same tree under a different policy is a distinct cache entry.
	packed, err := c.Calculate(s, schema.Packed)
	if err != nil {
		t.Fatal(err)
	}
	if packed.Align != 1 {
		t.Errorf("packed align: got %d, want 1", packed.Align)
	}
}
