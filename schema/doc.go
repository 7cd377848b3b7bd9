// Package schema defines the type descriptor model: immutable
// definitions of scalars, bitfields, fixed buffers, arrays, structs,
// unions and enums, composed into a structure tree.
//
// Descriptor trees are built once with the New* constructors, which
// validate structural well-formedness (positive sizes and extents,
// bitfield widths within storage, enum widths of 1/2/4/8 bytes, no
// cyclic composition), and are immutable afterwards. Composite
// identity is the pointer value, not the name; two distinct composites
// may share a name without aliasing.
package schema
