package schema

// ByteOrder selects how the bytes of multi-byte scalars (and bitfield
// storage units) are stored. It is always an explicit parameter, never
// auto-detected.
type ByteOrder uint8

const (
	LittleEndian ByteOrder = iota
	BigEndian
)

func (o ByteOrder) String() string {
	if o == BigEndian {
		return "big"
	}
	return "little"
}

// OrderByName maps schema-file spellings to a ByteOrder.
func OrderByName(name string) (ByteOrder, bool) {
	switch name {
	case "little", "le":
		return LittleEndian, true
	case "big", "be":
		return BigEndian, true
	}
	return LittleEndian, false
}
