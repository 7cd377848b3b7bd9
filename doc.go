// Package cstruct encodes and decodes C-style structure values to and
// from their raw memory images.
//
// Given a type descriptor tree (structs, unions, enums, bitfields,
// fixed arrays and buffers), the library computes the exact byte
// layout under either packed or natural alignment rules and converts
// structured values to byte buffers and back, in either byte order.
//
// # Architecture Overview
//
// The library is organized into several packages with distinct
// responsibilities:
//
//	cstruct/           Root package re-exporting the common surface
//	├── schema/        Type descriptor model and packing/byte-order types
//	├── codec/         Encode/decode engine and layout access
//	│   └── internal/
//	│       ├── layout/   Offset, size and alignment calculation
//	│       └── bitpack/  Bitfield storage-unit packing
//	├── schemafile/    JSON schema definition loader
//	├── errors/        Structured error types
//	└── cmd/inspect/   Layout inspector CLI and TUI
//
// # Quick Start
//
// Describe a struct and round-trip a value:
//
//	point, err := schema.NewStruct("point",
//	    schema.Field{Name: "x", Type: schema.Int32},
//	    schema.Field{Name: "y", Type: schema.Int32},
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	raw, err := cstruct.Encode(point,
//	    map[string]any{"x": 3, "y": 4},
//	    cstruct.Packed, cstruct.LittleEndian)
//
//	v, err := cstruct.Decode(point, raw, cstruct.Packed, cstruct.LittleEndian)
//	fmt.Println(v) // map[x:3 y:4]
//
// # Layout Model
//
// Packing is an explicit parameter on every call: Packed places fields
// back-to-back with no padding, Natural aligns each field to
// min(its size, a configurable cap, 8 by default) and pads composites
// the way a C compiler would. Bitfields pack LSB-first into storage
// units sized by their declared storage type; this order is the
// engine's own documented canon, since C leaves it to the compiler.
//
// # Thread Safety
//
// Descriptor trees are immutable after construction. Codecs mutate no
// shared state besides a concurrency-safe layout cache, so all
// operations may be called from multiple goroutines.
package cstruct
