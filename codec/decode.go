package codec

import (
	"bytes"
	"math"
	"strconv"

	"github.com/wippyai/cstruct/codec/internal/bitpack"
	"github.com/wippyai/cstruct/errors"
	"github.com/wippyai/cstruct/schema"
)

type decoder struct {
	c     *Codec
	pack  schema.Packing
	order schema.ByteOrder
}

// value decodes buf, which is exactly the encoded size of t, into a
// value tree: maps for composites, nested []any for arrays, precisely
// typed scalars, label strings for enums.
func (d *decoder) value(t schema.Type, buf []byte, path []string) (any, error) {
	switch td := t.(type) {
	case schema.Kind:
		return d.scalar(td, buf), nil

	case *schema.String:
		// NUL-terminated, C string style.
		if i := bytes.IndexByte(buf, 0); i >= 0 {
			return string(buf[:i]), nil
		}
		return string(buf), nil

	case *schema.Bytes:
		out := make([]byte, len(buf))
		copy(out, buf)
		return out, nil

	case *schema.Bitfield:
		unit := bitpack.ReadUnit(buf, td.Storage.Width(), d.order)
		if td.Signed {
			return bitpack.ExtractSigned(unit, 0, td.Bits), nil
		}
		return bitpack.Extract(unit, 0, td.Bits), nil

	case *schema.Enum:
		return d.enum(td, buf), nil

	case *schema.Array:
		return d.array(td, td.Dims, buf, path)

	case *schema.Struct:
		return d.composite(td, buf, path)

	case *schema.Union:
		return d.composite(td, buf, path)

	default:
		return nil, errors.Unsupported(errors.PhaseDecode, "unknown descriptor "+typeName(t))
	}
}

func (d *decoder) scalar(k schema.Kind, buf []byte) any {
	raw := bitpack.ReadUnit(buf, k.Width(), d.order)
	switch k {
	case schema.Int8:
		return int8(raw)
	case schema.Uint8:
		return uint8(raw)
	case schema.Int16:
		return int16(raw)
	case schema.Uint16:
		return uint16(raw)
	case schema.Int32:
		return int32(raw)
	case schema.Uint32:
		return uint32(raw)
	case schema.Int64:
		return int64(raw)
	case schema.Uint64:
		return raw
	case schema.Float32:
		return math.Float32frombits(uint32(raw))
	case schema.Float64:
		return math.Float64frombits(raw)
	default: // booleans of any width
		return raw != 0
	}
}

// enum decodes to the first declared label for the stored value, or a
// synthesized "__VALUE__<n>" name when no constant matches, following
// the convention of enum fill sentinels in the fixtures.
func (d *decoder) enum(e *schema.Enum, buf []byte) any {
	raw := bitpack.ReadUnit(buf, e.Width, d.order)
	var v int64
	if e.Signed {
		v = bitpack.ExtractSigned(raw, 0, 8*e.Width)
	} else {
		v = int64(raw)
	}
	if label, ok := e.Label(v); ok {
		return label
	}
	if e.Signed {
		return "__VALUE__" + strconv.FormatInt(v, 10)
	}
	return "__VALUE__" + strconv.FormatUint(raw, 10)
}

func (d *decoder) array(a *schema.Array, dims []int, buf []byte, path []string) (any, error) {
	stride := len(buf) / dims[0]
	items := make([]any, dims[0])

	for i := range items {
		cell := buf[i*stride : (i+1)*stride]
		itemPath := append(append([]string(nil), path...), "["+strconv.Itoa(i)+"]")
		if len(dims) > 1 {
			sub, err := d.array(a, dims[1:], cell, itemPath)
			if err != nil {
				return nil, err
			}
			items[i] = sub
			continue
		}
		v, err := d.value(a.Elem, cell, itemPath)
		if err != nil {
			return nil, err
		}
		items[i] = v
	}
	return items, nil
}

// composite decodes a struct or union into a map. Union members all
// read the same storage, so the result carries every interpretation;
// the caller narrows by its discriminant.
func (d *decoder) composite(t schema.Type, buf []byte, path []string) (any, error) {
	info, err := d.c.layout.Calculate(t, d.pack)
	if err != nil {
		return nil, err
	}

	m := make(map[string]any, len(info.Fields))
	for _, f := range info.Fields {
		fieldPath := append(append([]string(nil), path...), f.Name)
		window := buf[f.Offset : f.Offset+f.Size]

		if f.Bits > 0 {
			unit := bitpack.ReadUnit(window, f.Size, d.order)
			if f.Signed {
				m[f.Name] = bitpack.ExtractSigned(unit, f.BitOffset, f.Bits)
			} else {
				m[f.Name] = bitpack.Extract(unit, f.BitOffset, f.Bits)
			}
			continue
		}

		v, err := d.value(f.Type, window, fieldPath)
		if err != nil {
			return nil, err
		}
		m[f.Name] = v
	}
	return m, nil
}
