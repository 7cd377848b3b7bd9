package codec

import (
	"github.com/wippyai/cstruct/codec/internal/layout"
	"github.com/wippyai/cstruct/errors"
	"github.com/wippyai/cstruct/schema"
)

// Codec encodes value trees into raw byte buffers and back, using
// layouts computed under an explicit packing policy and byte order.
// It is stateless between calls apart from its layout cache and safe
// for concurrent use.
type Codec struct {
	layout *layout.Calculator
}

// New returns a Codec with its own layout cache. Most callers can use
// the package-level functions, which share one cache.
func New() *Codec {
	return &Codec{layout: layout.NewCalculator()}
}

var defaultCodec = New()

// SizeOf returns the total encoded size of t under the policy. Callers
// can use it to pre-size buffers; Encode always returns exactly this
// many bytes.
func (c *Codec) SizeOf(t schema.Type, pack schema.Packing) (int, error) {
	info, err := c.layout.Calculate(t, pack)
	if err != nil {
		return 0, err
	}
	return info.Size, nil
}

// Layout returns the field table of a composite: offset and size per
// field, bit offset and width per bitfield, total size and alignment.
func (c *Codec) Layout(t schema.Type, pack schema.Packing) (layout.Info, error) {
	return c.layout.Calculate(t, pack)
}

// Encode writes a value tree into a fresh byte buffer matching the
// layout of t. Structs and unions take map[string]any, arrays []any
// (nested per dimension), enums a label string or an integer, scalars
// any Go numeric. Missing map keys encode as zero. Encode is
// all-or-nothing: on error no buffer is returned.
func (c *Codec) Encode(t schema.Type, value any, pack schema.Packing, order schema.ByteOrder) ([]byte, error) {
	info, err := c.layout.Calculate(t, pack)
	if err != nil {
		return nil, err
	}
	debugf("encode %s: %d bytes, %s, %s byte order", t, info.Size, pack, order)

	buf := make([]byte, info.Size)
	e := &encoder{c: c, pack: pack, order: order}
	if err := e.value(t, value, buf, nil); err != nil {
		return nil, err
	}
	return buf, nil
}

// Decode reads a byte buffer produced by (or shaped like) Encode back
// into a value tree. The buffer length must equal SizeOf(t, pack)
// exactly. Union values carry every member interpretation; picking
// the meaningful one via a discriminant is the caller's business.
func (c *Codec) Decode(t schema.Type, data []byte, pack schema.Packing, order schema.ByteOrder) (any, error) {
	info, err := c.layout.Calculate(t, pack)
	if err != nil {
		return nil, err
	}
	if len(data) != info.Size {
		return nil, errors.BufferSize(errors.PhaseDecode, len(data), info.Size)
	}
	debugf("decode %s: %d bytes, %s, %s byte order", t, info.Size, pack, order)

	d := &decoder{c: c, pack: pack, order: order}
	return d.value(t, data, nil)
}

// ToByteOrder re-encodes data from one byte order into another. It is
// a composition of Decode and Encode, so structure boundaries
// (bitfield units, fixed buffers, nested composites) are respected and
// only genuinely multi-byte scalar fields change byte sequence.
func (c *Codec) ToByteOrder(t schema.Type, data []byte, pack schema.Packing, from, to schema.ByteOrder) ([]byte, error) {
	if from == to {
		out := make([]byte, len(data))
		copy(out, data)
		return out, nil
	}
	v, err := c.Decode(t, data, pack, from)
	if err != nil {
		return nil, err
	}
	return c.Encode(t, v, pack, to)
}

// Package-level operations on a shared default codec.

func SizeOf(t schema.Type, pack schema.Packing) (int, error) {
	return defaultCodec.SizeOf(t, pack)
}

func Layout(t schema.Type, pack schema.Packing) (layout.Info, error) {
	return defaultCodec.Layout(t, pack)
}

func Encode(t schema.Type, value any, pack schema.Packing, order schema.ByteOrder) ([]byte, error) {
	return defaultCodec.Encode(t, value, pack, order)
}

func Decode(t schema.Type, data []byte, pack schema.Packing, order schema.ByteOrder) (any, error) {
	return defaultCodec.Decode(t, data, pack, order)
}

func ToByteOrder(t schema.Type, data []byte, pack schema.Packing, from, to schema.ByteOrder) ([]byte, error) {
	return defaultCodec.ToByteOrder(t, data, pack, from, to)
}
