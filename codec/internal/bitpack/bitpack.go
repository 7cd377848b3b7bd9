// Package bitpack places bitfield values into storage units and takes
// them back out.
//
// Within a unit, bits are assigned starting at the least-significant
// bit and advancing toward the most-significant bit, in declaration
// order. This is the engine's own canonical order; C compilers are
// free to differ here, so no platform is being emulated. Bitfields
// never span storage-unit boundaries.
package bitpack

import "github.com/wippyai/cstruct/schema"

// Mask returns a mask covering the low bits.
func Mask(bits int) uint64 {
	if bits >= 64 {
		return ^uint64(0)
	}
	return (uint64(1) << uint(bits)) - 1
}

// Insert replaces the bits-wide field at offset in unit with value.
// The value is masked to the field width first, so two's-complement
// negatives insert correctly.
func Insert(unit, value uint64, offset, bits int) uint64 {
	m := Mask(bits) << uint(offset)
	return (unit &^ m) | ((value << uint(offset)) & m)
}

// Extract returns the bits-wide field at offset in unit, zero-extended.
func Extract(unit uint64, offset, bits int) uint64 {
	return (unit >> uint(offset)) & Mask(bits)
}

// ExtractSigned returns the field sign-extended to 64 bits.
func ExtractSigned(unit uint64, offset, bits int) int64 {
	v := Extract(unit, offset, bits)
	if bits < 64 && v&(uint64(1)<<uint(bits-1)) != 0 {
		v |= ^Mask(bits)
	}
	return int64(v)
}

// FitsUnsigned reports whether v is representable in bits bits.
func FitsUnsigned(v uint64, bits int) bool {
	return v <= Mask(bits)
}

// FitsSigned reports whether v is representable as a bits-wide
// two's-complement value.
func FitsSigned(v int64, bits int) bool {
	if bits >= 64 {
		return true
	}
	min := -(int64(1) << uint(bits-1))
	max := int64(1)<<uint(bits-1) - 1
	return v >= min && v <= max
}

// ReadUnit assembles a storage unit of size bytes from b in the given
// byte order. Bit assignment within the unit is unaffected by the
// order; only the byte sequence differs.
func ReadUnit(b []byte, size int, order schema.ByteOrder) uint64 {
	var v uint64
	if order == schema.BigEndian {
		for i := 0; i < size; i++ {
			v = v<<8 | uint64(b[i])
		}
		return v
	}
	for i := size - 1; i >= 0; i-- {
		v = v<<8 | uint64(b[i])
	}
	return v
}

// WriteUnit stores a storage unit of size bytes into b in the given
// byte order.
func WriteUnit(b []byte, v uint64, size int, order schema.ByteOrder) {
	if order == schema.BigEndian {
		for i := size - 1; i >= 0; i-- {
			b[i] = byte(v)
			v >>= 8
		}
		return
	}
	for i := 0; i < size; i++ {
		b[i] = byte(v)
		v >>= 8
	}
}
