package schema

import (
	"github.com/wippyai/cstruct/errors"
)

// Validate checks structural well-formedness of a descriptor tree:
// scalar kinds are genuine scalars, no zero-size members, field names
// unique per composite, and no composite contains itself by value.
func Validate(t Type) error {
	return validate(t, nil, nil)
}

// validate walks the tree depth-first. active holds the composites on
// the current path; revisiting one means cyclic composition.
func validate(t Type, path []string, active map[Type]bool) error {
	switch d := t.(type) {
	case Kind:
		if !d.IsScalar() {
			return errors.Definition(path, "kind %s is not usable as a scalar type", d)
		}
		return nil

	case *String:
		if d.Length < 1 {
			return errors.Definition(path, "string length %d is not positive", d.Length)
		}
		return nil

	case *Bytes:
		if d.Length < 1 {
			return errors.Definition(path, "bytes length %d is not positive", d.Length)
		}
		return nil

	case *Bitfield:
		if !d.Storage.IsInteger() {
			return errors.Definition(path, "bitfield storage must be an integer kind, got %s", d.Storage)
		}
		if d.Bits < 1 || d.Bits > 8*d.Storage.Width() {
			return errors.Definition(path, "bitfield width %d outside [1, %d]", d.Bits, 8*d.Storage.Width())
		}
		return nil

	case *Enum:
		switch d.Width {
		case 1, 2, 4, 8:
			return nil
		}
		return errors.Definition(path, "enum width %d bytes, must be 1, 2, 4 or 8", d.Width)

	case *Array:
		if len(d.Dims) == 0 {
			return errors.Definition(path, "array needs at least one dimension extent")
		}
		for _, ext := range d.Dims {
			if ext < 1 {
				return errors.Definition(path, "dimension extent %d is not positive", ext)
			}
		}
		return validate(d.Elem, append(path, "[]"), active)

	case *Struct:
		return validateFields(d, d.Name, d.Fields, path, active)

	case *Union:
		return validateFields(d, d.Name, d.Fields, path, active)

	case nil:
		return errors.Definition(path, "nil type descriptor")

	default:
		return errors.Definition(path, "unknown descriptor %T", t)
	}
}

func validateFields(owner Type, name string, fields []Field, path []string, active map[Type]bool) error {
	if len(fields) == 0 {
		return errors.Definition(append(path, name), "composite has no fields")
	}
	if active[owner] {
		return errors.Cyclic(path, name)
	}
	if active == nil {
		active = make(map[Type]bool)
	}
	active[owner] = true
	defer delete(active, owner)

	seen := make(map[string]bool, len(fields))
	for _, f := range fields {
		fieldPath := append(append([]string(nil), path...), f.Name)
		if f.Name == "" {
			return errors.Definition(fieldPath, "field with empty name")
		}
		if seen[f.Name] {
			return errors.Definition(fieldPath, "duplicate field name")
		}
		seen[f.Name] = true
		if err := validate(f.Type, fieldPath, active); err != nil {
			return err
		}
	}
	return nil
}
