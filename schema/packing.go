package schema

import "fmt"

// Packing is the layout policy threaded through every layout and codec
// call. There is no ambient or process-wide packing mode; what #pragma
// pack does globally in C is an explicit argument here.
//
// The policy is a maximum alignment cap: fields align to
// min(own size, cap). Packed caps at 1 (no padding anywhere), Natural
// caps at 8 (the 64-bit convention).
type Packing struct {
	maxAlign int
}

var (
	Packed  = Packing{maxAlign: 1}
	Natural = Packing{maxAlign: 8}
)

// NaturalMax returns a natural-alignment policy with a custom cap.
// The cap is clamped to [1, 16] and rounded down to a power of two.
func NaturalMax(n int) Packing {
	if n < 1 {
		n = 1
	}
	if n > 16 {
		n = 16
	}
	for n&(n-1) != 0 {
		n--
	}
	return Packing{maxAlign: n}
}

// MaxAlign returns the alignment cap. The zero value behaves as
// Natural.
func (p Packing) MaxAlign() int {
	if p.maxAlign == 0 {
		return 8
	}
	return p.maxAlign
}

// IsPacked reports whether the policy inserts no padding at all.
func (p Packing) IsPacked() bool { return p.MaxAlign() == 1 }

func (p Packing) String() string {
	switch p.MaxAlign() {
	case 1:
		return "packed"
	case 8:
		return "natural"
	default:
		return fmt.Sprintf("natural(max %d)", p.MaxAlign())
	}
}

// PackingByName maps schema-file spellings to a Packing.
func PackingByName(name string) (Packing, bool) {
	switch name {
	case "packed", "pack":
		return Packed, true
	case "natural", "native":
		return Natural, true
	}
	return Natural, false
}
