package codec

import (
	"math"
	"strconv"
	"strings"

	"github.com/wippyai/cstruct/codec/internal/bitpack"
	"github.com/wippyai/cstruct/errors"
	"github.com/wippyai/cstruct/schema"
)

type encoder struct {
	c     *Codec
	pack  schema.Packing
	order schema.ByteOrder
}

// value encodes v into buf, which is exactly the encoded size of t.
// A nil v encodes as zero bytes, matching the fixture convention of
// memset-to-zero structs.
func (e *encoder) value(t schema.Type, v any, buf []byte, path []string) error {
	if v == nil {
		return nil
	}

	switch d := t.(type) {
	case schema.Kind:
		return e.scalar(d, v, buf, path)

	case *schema.String:
		s, ok := v.(string)
		if !ok {
			return errors.TypeMismatch(errors.PhaseEncode, path, typeName(v), d.String())
		}
		if len(s) > d.Length {
			return errors.Truncation(errors.PhaseEncode, path, len(s), d.Length)
		}
		copy(buf, s)
		return nil

	case *schema.Bytes:
		var b []byte
		switch raw := v.(type) {
		case []byte:
			b = raw
		case string:
			b = []byte(raw)
		default:
			return errors.TypeMismatch(errors.PhaseEncode, path, typeName(v), d.String())
		}
		if len(b) > d.Length {
			return errors.Truncation(errors.PhaseEncode, path, len(b), d.Length)
		}
		copy(buf, b)
		return nil

	case *schema.Bitfield:
		unit := bitpack.ReadUnit(buf, d.Storage.Width(), e.order)
		unit, err := e.insertBitfield(unit, d.Bits, d.Signed, 0, v, path)
		if err != nil {
			return err
		}
		bitpack.WriteUnit(buf, unit, d.Storage.Width(), e.order)
		return nil

	case *schema.Enum:
		return e.enum(d, v, buf, path)

	case *schema.Array:
		return e.array(d, d.Dims, v, buf, path)

	case *schema.Struct:
		return e.composite(d, v, buf, path)

	case *schema.Union:
		return e.composite(d, v, buf, path)

	default:
		return errors.Unsupported(errors.PhaseEncode, "unknown descriptor "+typeName(t))
	}
}

func (e *encoder) scalar(k schema.Kind, v any, buf []byte, path []string) error {
	w := k.Width()
	switch {
	case k.IsBool():
		b, ok := coerceToBool(v)
		if !ok {
			return errors.TypeMismatch(errors.PhaseEncode, path, typeName(v), k.String())
		}
		var raw uint64
		if b {
			raw = 1
		}
		bitpack.WriteUnit(buf, raw, w, e.order)
		return nil

	case k == schema.Float32:
		f, ok := coerceToFloat64(v)
		if !ok {
			return errors.TypeMismatch(errors.PhaseEncode, path, typeName(v), k.String())
		}
		if !math.IsInf(f, 0) && math.Abs(f) > math.MaxFloat32 {
			return errors.Overflow(errors.PhaseEncode, path, v, k.String())
		}
		bitpack.WriteUnit(buf, uint64(math.Float32bits(float32(f))), 4, e.order)
		return nil

	case k == schema.Float64:
		f, ok := coerceToFloat64(v)
		if !ok {
			return errors.TypeMismatch(errors.PhaseEncode, path, typeName(v), k.String())
		}
		bitpack.WriteUnit(buf, math.Float64bits(f), 8, e.order)
		return nil

	case k.Signed():
		n, ok := coerceToInt64(v)
		if !ok {
			return errors.TypeMismatch(errors.PhaseEncode, path, typeName(v), k.String())
		}
		if !bitpack.FitsSigned(n, 8*w) {
			return errors.Overflow(errors.PhaseEncode, path, v, k.String())
		}
		bitpack.WriteUnit(buf, uint64(n), w, e.order)
		return nil

	default:
		n, ok := coerceToUint64(v)
		if !ok {
			return errors.TypeMismatch(errors.PhaseEncode, path, typeName(v), k.String())
		}
		if !bitpack.FitsUnsigned(n, 8*w) {
			return errors.Overflow(errors.PhaseEncode, path, v, k.String())
		}
		bitpack.WriteUnit(buf, n, w, e.order)
		return nil
	}
}

func (e *encoder) enum(d *schema.Enum, v any, buf []byte, path []string) error {
	var n int64
	switch raw := v.(type) {
	case string:
		val, ok := d.Lookup(raw)
		if !ok {
			// Decode names unknown values "__VALUE__<n>"; accept them
			// back so order transforms round-trip.
			if rest, found := strings.CutPrefix(raw, "__VALUE__"); found {
				if parsed, err := strconv.ParseInt(rest, 10, 64); err == nil {
					val = parsed
					ok = true
				} else if parsed, err := strconv.ParseUint(rest, 10, 64); err == nil {
					val = int64(parsed)
					ok = true
				}
			}
			if !ok {
				return errors.InvalidEnum(errors.PhaseEncode, path, raw)
			}
		}
		n = val
	default:
		val, ok := coerceToInt64(v)
		if !ok {
			// Unsigned 64-bit constants above MaxInt64 arrive as
			// uint64; take the bit pattern.
			u, uok := coerceToUint64(v)
			if !uok {
				return errors.TypeMismatch(errors.PhaseEncode, path, typeName(v), d.String())
			}
			val = int64(u)
		}
		n = val
	}

	if d.Signed {
		if !bitpack.FitsSigned(n, 8*d.Width) {
			return errors.Overflow(errors.PhaseEncode, path, v, d.String())
		}
	} else if d.Width < 8 && !bitpack.FitsUnsigned(uint64(n), 8*d.Width) {
		return errors.Overflow(errors.PhaseEncode, path, v, d.String())
	}
	bitpack.WriteUnit(buf, uint64(n), d.Width, e.order)
	return nil
}

func (e *encoder) array(a *schema.Array, dims []int, v any, buf []byte, path []string) error {
	stride := len(buf) / dims[0]

	// Byte-slice shortcuts for one-dimensional byte arrays.
	if len(dims) == 1 && stride == 1 {
		if k, ok := a.Elem.(schema.Kind); ok && (k == schema.Uint8 || k == schema.Int8) {
			switch raw := v.(type) {
			case []byte:
				if len(raw) != dims[0] {
					return errors.New(errors.PhaseEncode, errors.KindInvalidData).
						Path(path...).
						Detail("array needs %d elements, got %d", dims[0], len(raw)).
						Build()
				}
				copy(buf, raw)
				return nil
			}
		}
	}

	items, ok := v.([]any)
	if !ok {
		return errors.TypeMismatch(errors.PhaseEncode, path, typeName(v), a.String())
	}
	if len(items) != dims[0] {
		return errors.New(errors.PhaseEncode, errors.KindInvalidData).
			Path(path...).
			Detail("array needs %d elements, got %d", dims[0], len(items)).
			Build()
	}

	for i, item := range items {
		cell := buf[i*stride : (i+1)*stride]
		itemPath := append(append([]string(nil), path...), "["+strconv.Itoa(i)+"]")
		if len(dims) > 1 {
			if err := e.array(a, dims[1:], item, cell, itemPath); err != nil {
				return err
			}
			continue
		}
		if err := e.value(a.Elem, item, cell, itemPath); err != nil {
			return err
		}
	}
	return nil
}

// composite encodes a struct or union from a map. For unions every
// present member is written at offset 0 in declaration order, so later
// members overlay earlier ones, mirroring C union aliasing.
func (e *encoder) composite(t schema.Type, v any, buf []byte, path []string) error {
	m, ok := v.(map[string]any)
	if !ok {
		return errors.TypeMismatch(errors.PhaseEncode, path, typeName(v), t.String())
	}

	info, err := e.c.layout.Calculate(t, e.pack)
	if err != nil {
		return err
	}

	for name := range m {
		if _, ok := info.Field(name); !ok {
			return errors.FieldUnknown(errors.PhaseEncode, path, name)
		}
	}

	for _, f := range info.Fields {
		fv, present := m[f.Name]
		if !present || fv == nil {
			continue
		}
		fieldPath := append(append([]string(nil), path...), f.Name)
		window := buf[f.Offset : f.Offset+f.Size]

		if f.Bits > 0 {
			unit := bitpack.ReadUnit(window, f.Size, e.order)
			unit, err := e.insertBitfield(unit, f.Bits, f.Signed, f.BitOffset, fv, fieldPath)
			if err != nil {
				return err
			}
			bitpack.WriteUnit(window, unit, f.Size, e.order)
			continue
		}

		if err := e.value(f.Type, fv, window, fieldPath); err != nil {
			return err
		}
	}
	return nil
}

func (e *encoder) insertBitfield(unit uint64, bits int, signed bool, bitOffset int, v any, path []string) (uint64, error) {
	if signed {
		n, ok := coerceToInt64(v)
		if !ok {
			return 0, errors.TypeMismatch(errors.PhaseEncode, path, typeName(v), "signed bitfield")
		}
		if !bitpack.FitsSigned(n, bits) {
			return 0, errors.Overflow(errors.PhaseEncode, path, v, "signed bitfield")
		}
		return bitpack.Insert(unit, uint64(n), bitOffset, bits), nil
	}
	n, ok := coerceToUint64(v)
	if !ok {
		return 0, errors.TypeMismatch(errors.PhaseEncode, path, typeName(v), "unsigned bitfield")
	}
	if !bitpack.FitsUnsigned(n, bits) {
		return 0, errors.Overflow(errors.PhaseEncode, path, v, "unsigned bitfield")
	}
	return bitpack.Insert(unit, n, bitOffset, bits), nil
}
