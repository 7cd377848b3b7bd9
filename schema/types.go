package schema

import (
	"fmt"
	"strings"

	"github.com/wippyai/cstruct/errors"
)

// Type is a node in a type descriptor tree. Trees are built once via
// the New* constructors and treated as immutable afterwards; composite
// identity (pointer value) keys derived layout caches.
type Type interface {
	Kind() Kind
	String() string
}

// String is a fixed-length UTF-8 character buffer. Decoding stops at
// the first NUL byte, matching C string semantics.
type String struct {
	Length int
}

func (s *String) Kind() Kind     { return KindString }
func (s *String) String() string { return fmt.Sprintf("string[%d]", s.Length) }

// NewString returns a fixed-length character buffer descriptor.
func NewString(length int) (*String, error) {
	if length < 1 {
		return nil, errors.Definition(nil, "string length %d is not positive", length)
	}
	return &String{Length: length}, nil
}

// Bytes is a fixed-length raw byte buffer, copied verbatim.
type Bytes struct {
	Length int
}

func (b *Bytes) Kind() Kind     { return KindBytes }
func (b *Bytes) String() string { return fmt.Sprintf("bytes[%d]", b.Length) }

// NewBytes returns a fixed-length raw buffer descriptor.
func NewBytes(length int) (*Bytes, error) {
	if length < 1 {
		return nil, errors.Definition(nil, "bytes length %d is not positive", length)
	}
	return &Bytes{Length: length}, nil
}

// Bitfield is a scalar constrained to Bits bits of its Storage kind.
// Consecutive bitfield fields of the same storage kind share storage
// units; allocation is LSB-first in declaration order.
type Bitfield struct {
	Storage Kind
	Bits    int
	Signed  bool
}

func (b *Bitfield) Kind() Kind { return KindBitfield }

func (b *Bitfield) String() string {
	sign := "unsigned"
	if b.Signed {
		sign = "signed"
	}
	return fmt.Sprintf("%s:%d (%s)", b.Storage, b.Bits, sign)
}

// NewBitfield returns a bitfield descriptor. The storage kind must be
// an integer kind and bits must be in [1, 8*width(storage)].
func NewBitfield(storage Kind, bits int, signed bool) (*Bitfield, error) {
	if !storage.IsInteger() {
		return nil, errors.Definition(nil, "bitfield storage must be an integer kind, got %s", storage)
	}
	if bits < 1 || bits > 64 {
		return nil, errors.Definition(nil, "bitfield width %d outside [1, 64]", bits)
	}
	if bits > 8*storage.Width() {
		return nil, errors.Definition(nil, "bitfield width %d exceeds %d-bit storage %s",
			bits, 8*storage.Width(), storage)
	}
	return &Bitfield{Storage: storage, Bits: bits, Signed: signed}, nil
}

// Array is a fixed-size array with one or more dimension extents.
// Element order is row-major: the last dimension varies fastest.
type Array struct {
	Elem Type
	Dims []int
}

func (a *Array) Kind() Kind { return KindArray }

func (a *Array) String() string {
	var b strings.Builder
	b.WriteString(a.Elem.String())
	for _, d := range a.Dims {
		fmt.Fprintf(&b, "[%d]", d)
	}
	return b.String()
}

// Len returns the total element count (product of extents).
func (a *Array) Len() int {
	n := 1
	for _, d := range a.Dims {
		n *= d
	}
	return n
}

// NewArray returns an array descriptor. Every extent must be >= 1;
// zero-size arrays have no layout entry and are rejected.
func NewArray(elem Type, dims ...int) (*Array, error) {
	if elem == nil {
		return nil, errors.Definition(nil, "array element type is nil")
	}
	if len(dims) == 0 {
		return nil, errors.Definition(nil, "array needs at least one dimension extent")
	}
	for _, d := range dims {
		if d < 1 {
			return nil, errors.Definition(nil, "dimension extent %d is not positive", d)
		}
	}
	a := &Array{Elem: elem, Dims: append([]int(nil), dims...)}
	if err := validate(a, nil, nil); err != nil {
		return nil, err
	}
	return a, nil
}

// Field is a named member of a struct or union. Names are unique
// within their owning composite only; reuse across composites is fine.
type Field struct {
	Name string
	Type Type
}

// Struct is an ordered sequence of fields laid out back-to-back,
// with padding as dictated by the packing policy.
type Struct struct {
	Name   string
	Fields []Field
}

func (s *Struct) Kind() Kind     { return KindStruct }
func (s *Struct) String() string { return "struct " + s.Name }

// NewStruct returns a struct descriptor. Field names must be unique
// and the composition must be acyclic.
func NewStruct(name string, fields ...Field) (*Struct, error) {
	s := &Struct{Name: name, Fields: append([]Field(nil), fields...)}
	if err := validate(s, nil, nil); err != nil {
		return nil, err
	}
	return s, nil
}

// Union is a set of fields all starting at offset 0. Its size is the
// maximum member size and its alignment the maximum member alignment.
type Union struct {
	Name   string
	Fields []Field
}

func (u *Union) Kind() Kind     { return KindUnion }
func (u *Union) String() string { return "union " + u.Name }

// NewUnion returns a union descriptor with the same field rules as
// NewStruct.
func NewUnion(name string, fields ...Field) (*Union, error) {
	u := &Union{Name: name, Fields: append([]Field(nil), fields...)}
	if err := validate(u, nil, nil); err != nil {
		return nil, err
	}
	return u, nil
}

// Constant is one (label, value) pair of an enum. Several labels may
// share a value; such aliases decode to the first declared label.
type Constant struct {
	Label string
	Value int64
}

// Enum is an integer of an explicit width with named constants.
// Values may be negative (signed enums), non-contiguous, or fill the
// whole range of the underlying width.
type Enum struct {
	Name      string
	Width     int
	Signed    bool
	Constants []Constant

	byLabel map[string]int64
}

func (e *Enum) Kind() Kind     { return KindEnum }
func (e *Enum) String() string { return "enum " + e.Name }

// Lookup returns the value of a label.
func (e *Enum) Lookup(label string) (int64, bool) {
	v, ok := e.byLabel[label]
	return v, ok
}

// Label returns the first declared label with the given value.
func (e *Enum) Label(value int64) (string, bool) {
	for _, c := range e.Constants {
		if c.Value == value {
			return c.Label, true
		}
	}
	return "", false
}

// NewEnum returns an enum descriptor. Width must be 1, 2, 4 or 8
// bytes and every constant must fit the width; negative values
// require signed.
func NewEnum(name string, width int, signed bool, constants ...Constant) (*Enum, error) {
	switch width {
	case 1, 2, 4, 8:
	default:
		return nil, errors.Definition([]string{name}, "enum width %d bytes, must be 1, 2, 4 or 8", width)
	}
	byLabel := make(map[string]int64, len(constants))
	for _, c := range constants {
		if c.Label == "" {
			return nil, errors.Definition([]string{name}, "enum constant with empty label")
		}
		if _, dup := byLabel[c.Label]; dup {
			return nil, errors.Definition([]string{name, c.Label}, "duplicate enum label")
		}
		if c.Value < 0 && !signed {
			return nil, errors.Definition([]string{name, c.Label},
				"negative value %d in unsigned enum", c.Value)
		}
		if !fitsWidth(c.Value, width, signed) {
			return nil, errors.Definition([]string{name, c.Label},
				"value %d does not fit in %d bytes", c.Value, width)
		}
		byLabel[c.Label] = c.Value
	}
	return &Enum{
		Name:      name,
		Width:     width,
		Signed:    signed,
		Constants: append([]Constant(nil), constants...),
		byLabel:   byLabel,
	}, nil
}

func fitsWidth(v int64, width int, signed bool) bool {
	if width >= 8 {
		return true
	}
	bits := uint(8 * width)
	if signed {
		min := int64(-1) << (bits - 1)
		max := int64(1)<<(bits-1) - 1
		return v >= min && v <= max
	}
	return v >= 0 && uint64(v) <= (uint64(1)<<bits)-1
}
