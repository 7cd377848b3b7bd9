package layout

import (
	"sync"

	"github.com/wippyai/cstruct/errors"
	"github.com/wippyai/cstruct/schema"
)

// Info is the computed layout of one type under one packing policy.
type Info struct {
	Size   int
	Align  int
	Fields []FieldInfo
}

// FieldInfo locates one member of a composite. For bitfields, Offset
// and Size describe the storage unit the field lives in and
// BitOffset/Bits the slice of that unit; Bits is 0 for everything
// else.
type FieldInfo struct {
	Name      string
	Type      schema.Type
	Offset    int
	Size      int
	BitOffset int
	Bits      int
	Signed    bool
}

// Field returns the entry for the named member. The map is total: every
// declared field has exactly one entry.
func (in Info) Field(name string) (FieldInfo, bool) {
	for _, f := range in.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return FieldInfo{}, false
}

// Calculator computes layouts and caches results per (composite
// identity, packing policy). Lookups are safe for concurrent use;
// double computation on a cache race yields identical results and is
// harmless.
type Calculator struct {
	cache sync.Map // cacheKey -> Info
}

type cacheKey struct {
	t    schema.Type
	pack schema.Packing
}

func NewCalculator() *Calculator {
	return &Calculator{}
}

// Calculate returns the layout of t under the given packing policy.
// Layout is a pure function of (tree, policy): identical inputs always
// yield identical offsets and sizes.
func (c *Calculator) Calculate(t schema.Type, pack schema.Packing) (Info, error) {
	switch d := t.(type) {
	case schema.Kind:
		if !d.IsScalar() {
			return Info{}, errors.New(errors.PhaseLayout, errors.KindDefinition).
				Type(d.String()).
				Detail("kind is not usable as a scalar type").
				Build()
		}
		w := d.Width()
		return Info{Size: w, Align: alignCap(w, pack)}, nil

	case *schema.String:
		return Info{Size: d.Length, Align: 1}, nil

	case *schema.Bytes:
		return Info{Size: d.Length, Align: 1}, nil

	case *schema.Bitfield:
		// A lone bitfield occupies a full storage unit.
		w := d.Storage.Width()
		return Info{Size: w, Align: alignCap(w, pack)}, nil

	case *schema.Enum:
		return Info{Size: d.Width, Align: alignCap(d.Width, pack)}, nil

	case *schema.Array:
		elem, err := c.Calculate(d.Elem, pack)
		if err != nil {
			return Info{}, err
		}
		return Info{Size: elem.Size * d.Len(), Align: elem.Align}, nil

	case *schema.Struct:
		return c.cached(d, pack, func() (Info, error) {
			return c.calculateStruct(d, pack)
		})

	case *schema.Union:
		return c.cached(d, pack, func() (Info, error) {
			return c.calculateUnion(d, pack)
		})

	default:
		return Info{}, errors.New(errors.PhaseLayout, errors.KindUnsupported).
			Detail("unknown descriptor %T", t).
			Build()
	}
}

func (c *Calculator) cached(t schema.Type, pack schema.Packing, compute func() (Info, error)) (Info, error) {
	key := cacheKey{t: t, pack: pack}
	if v, ok := c.cache.Load(key); ok {
		return v.(Info), nil
	}
	info, err := compute()
	if err != nil {
		return Info{}, err
	}
	c.cache.Store(key, info)
	return info, nil
}

func (c *Calculator) calculateStruct(s *schema.Struct, pack schema.Packing) (Info, error) {
	fields := make([]FieldInfo, 0, len(s.Fields))
	maxAlign := 1
	offset := 0

	for i := 0; i < len(s.Fields); i++ {
		f := s.Fields[i]

		if bf, ok := f.Type.(*schema.Bitfield); ok {
			// Consume the whole bitfield run starting here.
			run, consumed, end, runAlign := c.packRun(s.Fields[i:], bf, offset, pack)
			fields = append(fields, run...)
			if runAlign > maxAlign {
				maxAlign = runAlign
			}
			offset = end
			i += consumed - 1
			continue
		}

		fl, err := c.Calculate(f.Type, pack)
		if err != nil {
			return Info{}, err
		}
		offset = alignTo(offset, fl.Align)
		fields = append(fields, FieldInfo{
			Name:   f.Name,
			Type:   f.Type,
			Offset: offset,
			Size:   fl.Size,
		})
		if fl.Align > maxAlign {
			maxAlign = fl.Align
		}
		offset += fl.Size
	}

	return Info{
		Size:   alignTo(offset, maxAlign),
		Align:  maxAlign,
		Fields: fields,
	}, nil
}

// packRun allocates a run of consecutive bitfield fields into storage
// units, starting at the struct cursor. A new unit begins on the first
// bitfield, when the storage kind changes, and when the next width
// does not fit the remaining bits of the current unit.
func (c *Calculator) packRun(fields []schema.Field, first *schema.Bitfield, cursor int, pack schema.Packing) (run []FieldInfo, consumed, end, runAlign int) {
	unitKind := first.Storage
	unitSize := unitKind.Width()
	unitAlign := alignCap(unitSize, pack)
	unitOffset := alignTo(cursor, unitAlign)
	bitCursor := 0
	runAlign = unitAlign

	for _, f := range fields {
		bf, ok := f.Type.(*schema.Bitfield)
		if !ok {
			break
		}

		if consumed > 0 && (bf.Storage != unitKind || bitCursor+bf.Bits > 8*unitSize) {
			// Close the current unit; its remaining bits become
			// implicit padding.
			cursor = unitOffset + unitSize
			unitKind = bf.Storage
			unitSize = unitKind.Width()
			unitAlign = alignCap(unitSize, pack)
			unitOffset = alignTo(cursor, unitAlign)
			bitCursor = 0
			if unitAlign > runAlign {
				runAlign = unitAlign
			}
		}

		run = append(run, FieldInfo{
			Name:      f.Name,
			Type:      f.Type,
			Offset:    unitOffset,
			Size:      unitSize,
			BitOffset: bitCursor,
			Bits:      bf.Bits,
			Signed:    bf.Signed,
		})
		bitCursor += bf.Bits
		consumed++
	}

	return run, consumed, unitOffset + unitSize, runAlign
}

func (c *Calculator) calculateUnion(u *schema.Union, pack schema.Packing) (Info, error) {
	fields := make([]FieldInfo, 0, len(u.Fields))
	maxAlign := 1
	maxSize := 0

	for _, f := range u.Fields {
		fl, err := c.Calculate(f.Type, pack)
		if err != nil {
			return Info{}, err
		}
		var bits int
		var signed bool
		size := fl.Size
		if bf, ok := f.Type.(*schema.Bitfield); ok {
			bits = bf.Bits
			signed = bf.Signed
			size = bf.Storage.Width()
		}
		fields = append(fields, FieldInfo{
			Name:   f.Name,
			Type:   f.Type,
			Offset: 0,
			Size:   size,
			Bits:   bits,
			Signed: signed,
		})
		if fl.Align > maxAlign {
			maxAlign = fl.Align
		}
		if size > maxSize {
			maxSize = size
		}
	}

	return Info{
		Size:   alignTo(maxSize, maxAlign),
		Align:  maxAlign,
		Fields: fields,
	}, nil
}

// alignCap is the natural alignment of a width under the policy:
// min(width, policy cap).
func alignCap(width int, pack schema.Packing) int {
	if m := pack.MaxAlign(); width > m {
		return m
	}
	return width
}

func alignTo(offset, align int) int {
	if align <= 1 {
		return offset
	}
	return (offset + align - 1) &^ (align - 1)
}
