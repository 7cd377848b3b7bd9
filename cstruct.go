package cstruct

import (
	"github.com/wippyai/cstruct/codec"
	"github.com/wippyai/cstruct/schema"
)

// Re-exported schema surface, so simple callers only import cstruct.

type Type = schema.Type
type Kind = schema.Kind
type Field = schema.Field
type Struct = schema.Struct
type Union = schema.Union
type Enum = schema.Enum
type Constant = schema.Constant
type Array = schema.Array
type Bitfield = schema.Bitfield
type ByteOrder = schema.ByteOrder
type Packing = schema.Packing

const (
	LittleEndian = schema.LittleEndian
	BigEndian    = schema.BigEndian
)

var (
	Packed  = schema.Packed
	Natural = schema.Natural
)

// Encode writes a value tree into a fresh buffer of exactly
// SizeOf(t, pack) bytes. See the codec package for value conventions.
func Encode(t Type, value any, pack Packing, order ByteOrder) ([]byte, error) {
	return codec.Encode(t, value, pack, order)
}

// Decode reads a raw buffer back into a value tree. The buffer length
// must match SizeOf(t, pack) exactly.
func Decode(t Type, data []byte, pack Packing, order ByteOrder) (any, error) {
	return codec.Decode(t, data, pack, order)
}

// SizeOf returns the encoded size of t under the packing policy.
func SizeOf(t Type, pack Packing) (int, error) {
	return codec.SizeOf(t, pack)
}

// ToByteOrder re-encodes data from one byte order into the other,
// respecting structure boundaries.
func ToByteOrder(t Type, data []byte, pack Packing, from, to ByteOrder) ([]byte, error) {
	return codec.ToByteOrder(t, data, pack, from, to)
}
