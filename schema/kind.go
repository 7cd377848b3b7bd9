package schema

// Kind identifies a descriptor category. Scalar kinds double as Type
// values, so a field can be declared as Field{Name: "m1", Type: Int32}.
type Kind uint8

const (
	Int8 Kind = iota
	Uint8
	Int16
	Uint16
	Int32
	Uint32
	Int64
	Uint64
	Float32
	Float64
	Bool8
	Bool16
	Bool32
	Bool64
	KindString
	KindBytes
	KindBitfield
	KindArray
	KindStruct
	KindUnion
	KindEnum
)

var kindNames = [...]string{
	Int8:         "int8",
	Uint8:        "uint8",
	Int16:        "int16",
	Uint16:       "uint16",
	Int32:        "int32",
	Uint32:       "uint32",
	Int64:        "int64",
	Uint64:       "uint64",
	Float32:      "float32",
	Float64:      "float64",
	Bool8:        "bool8",
	Bool16:       "bool16",
	Bool32:       "bool32",
	Bool64:       "bool64",
	KindString:   "string",
	KindBytes:    "bytes",
	KindBitfield: "bitfield",
	KindArray:    "array",
	KindStruct:   "struct",
	KindUnion:    "union",
	KindEnum:     "enum",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// Kind implements Type for scalar kinds.
func (k Kind) Kind() Kind { return k }

// IsScalar reports whether k names a fixed-width scalar.
func (k Kind) IsScalar() bool {
	return k <= Bool64
}

// IsInteger reports whether k is a signed or unsigned integer kind.
func (k Kind) IsInteger() bool {
	return k <= Uint64
}

// IsBool reports whether k is a boolean stored in N bytes.
func (k Kind) IsBool() bool {
	return k >= Bool8 && k <= Bool64
}

// IsFloat reports whether k is an IEEE-754 floating point kind.
func (k Kind) IsFloat() bool {
	return k == Float32 || k == Float64
}

var kindWidths = [...]int{
	Int8: 1, Uint8: 1,
	Int16: 2, Uint16: 2,
	Int32: 4, Uint32: 4,
	Int64: 8, Uint64: 8,
	Float32: 4, Float64: 8,
	Bool8: 1, Bool16: 2, Bool32: 4, Bool64: 8,
}

// Width returns the storage width in bytes of a scalar kind, or 0 for
// composite kinds.
func (k Kind) Width() int {
	if int(k) < len(kindWidths) {
		return kindWidths[k]
	}
	return 0
}

// Signed reports whether a scalar kind uses two's-complement
// interpretation.
func (k Kind) Signed() bool {
	switch k {
	case Int8, Int16, Int32, Int64:
		return true
	default:
		return false
	}
}

// KindByName returns the scalar kind with the given name, as used in
// schema files ("int32", "bool8", ...).
func KindByName(name string) (Kind, bool) {
	for k, n := range kindNames {
		if n == name && Kind(k).IsScalar() {
			return Kind(k), true
		}
	}
	return 0, false
}
