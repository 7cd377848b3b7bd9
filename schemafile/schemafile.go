// Package schemafile loads type descriptor trees from JSON schema
// files, so tools can describe structures without building them in Go.
//
// A schema file declares named types in order; composite fields refer
// to earlier declarations by name, which keeps every loaded tree
// acyclic by construction:
//
//	{
//	  "types": [
//	    {"name": "color", "kind": "struct", "fields": [
//	      {"name": "r", "type": "uint8"},
//	      {"name": "g", "type": "uint8"},
//	      {"name": "b", "type": "uint8"},
//	      {"name": "a", "type": "uint8"}
//	    ]},
//	    {"name": "image", "kind": "struct", "fields": [
//	      {"name": "pixels", "type": "color", "dims": [4, 2]},
//	      {"name": "label", "type": "string", "length": 16}
//	    ]}
//	  ]
//	}
//
// Field spellings: scalar kind names ("int32", "bool8", ...), "string"
// and "bytes" with "length", "bitfield" with "storage"/"bits"/"signed",
// or the name of an earlier struct, union or enum. A "dims" list wraps
// any of these in a fixed-size array.
package schemafile

import (
	"encoding/json"
	"os"

	"github.com/wippyai/cstruct/errors"
	"github.com/wippyai/cstruct/schema"
)

// Set is an ordered collection of named descriptor trees loaded from
// one schema file.
type Set struct {
	names []string
	types map[string]schema.Type
}

// Names returns the declared type names in file order.
func (s *Set) Names() []string {
	return append([]string(nil), s.names...)
}

// Lookup returns the descriptor declared under name.
func (s *Set) Lookup(name string) (schema.Type, bool) {
	t, ok := s.types[name]
	return t, ok
}

type fileDecl struct {
	Types []typeDecl `json:"types"`
}

type typeDecl struct {
	Name      string       `json:"name"`
	Kind      string       `json:"kind"`
	Fields    []fieldDecl  `json:"fields"`
	Width     int          `json:"width"`
	Signed    bool         `json:"signed"`
	Constants []constDecl `json:"constants"`
}

type constDecl struct {
	Label string `json:"label"`
	Value int64  `json:"value"`
}

type fieldDecl struct {
	Name    string `json:"name"`
	Type    string `json:"type"`
	Length  int    `json:"length"`
	Storage string `json:"storage"`
	Bits    int    `json:"bits"`
	Signed  bool   `json:"signed"`
	Dims    []int  `json:"dims"`
}

// Load reads and parses a schema file from disk.
func Load(path string) (*Set, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.New(errors.PhaseLoad, errors.KindNotFound).
			Detail("read schema file %s", path).
			Cause(err).
			Build()
	}
	return Parse(data)
}

// Parse builds a Set from JSON schema data.
func Parse(data []byte) (*Set, error) {
	var file fileDecl
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, errors.New(errors.PhaseLoad, errors.KindInvalidData).
			Detail("malformed schema JSON").
			Cause(err).
			Build()
	}

	set := &Set{types: make(map[string]schema.Type, len(file.Types))}
	for _, decl := range file.Types {
		if decl.Name == "" {
			return nil, errors.New(errors.PhaseLoad, errors.KindInvalidData).
				Detail("type declaration without a name").
				Build()
		}
		if _, dup := set.types[decl.Name]; dup {
			return nil, errors.New(errors.PhaseLoad, errors.KindInvalidData).
				Path(decl.Name).
				Detail("duplicate type name").
				Build()
		}

		t, err := buildType(decl, set)
		if err != nil {
			return nil, err
		}
		set.types[decl.Name] = t
		set.names = append(set.names, decl.Name)
	}
	return set, nil
}

func buildType(decl typeDecl, set *Set) (schema.Type, error) {
	switch decl.Kind {
	case "struct", "union":
		fields := make([]schema.Field, 0, len(decl.Fields))
		for _, fd := range decl.Fields {
			ft, err := buildFieldType(fd, decl.Name, set)
			if err != nil {
				return nil, err
			}
			fields = append(fields, schema.Field{Name: fd.Name, Type: ft})
		}
		if decl.Kind == "union" {
			return schema.NewUnion(decl.Name, fields...)
		}
		return schema.NewStruct(decl.Name, fields...)

	case "enum":
		constants := make([]schema.Constant, 0, len(decl.Constants))
		for _, c := range decl.Constants {
			constants = append(constants, schema.Constant{Label: c.Label, Value: c.Value})
		}
		return schema.NewEnum(decl.Name, decl.Width, decl.Signed, constants...)

	default:
		return nil, errors.New(errors.PhaseLoad, errors.KindInvalidData).
			Path(decl.Name).
			Detail("unknown type kind %q, want struct, union or enum", decl.Kind).
			Build()
	}
}

func buildFieldType(fd fieldDecl, owner string, set *Set) (schema.Type, error) {
	base, err := buildBaseType(fd, owner, set)
	if err != nil {
		return nil, err
	}
	if len(fd.Dims) > 0 {
		return schema.NewArray(base, fd.Dims...)
	}
	return base, nil
}

func buildBaseType(fd fieldDecl, owner string, set *Set) (schema.Type, error) {
	switch fd.Type {
	case "string":
		return schema.NewString(fd.Length)
	case "bytes":
		return schema.NewBytes(fd.Length)
	case "bitfield":
		storage, ok := schema.KindByName(fd.Storage)
		if !ok {
			return nil, errors.New(errors.PhaseLoad, errors.KindInvalidData).
				Path(owner, fd.Name).
				Detail("unknown bitfield storage %q", fd.Storage).
				Build()
		}
		return schema.NewBitfield(storage, fd.Bits, fd.Signed)
	}

	if k, ok := schema.KindByName(fd.Type); ok {
		return k, nil
	}
	if t, ok := set.types[fd.Type]; ok {
		return t, nil
	}
	return nil, errors.New(errors.PhaseLoad, errors.KindNotFound).
		Path(owner, fd.Name).
		Detail("unknown type %q; composites must be declared before use", fd.Type).
		Build()
}
