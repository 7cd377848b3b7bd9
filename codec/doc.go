// Package codec converts between value trees and raw byte buffers
// according to a type descriptor tree, a packing policy, and a byte
// order.
//
// A value tree uses map[string]any for structs and unions, []any
// (nested per dimension) for arrays, label strings for enums, and
// plain Go scalars everywhere else. Encoding accepts any Go numeric
// type for a scalar field and range-checks it; decoding produces the
// precise type of the field (int32 for an int32 field, and so on).
// Bitfields decode as int64 when signed, uint64 when unsigned.
//
// Buffers carry no embedded metadata: an encoded value is exactly
// SizeOf(tree, policy) bytes, the image a C program would fwrite for
// the equivalent struct. Little-endian is the engine's canonical
// internal representation; big-endian output reverses the bytes of
// each multi-byte scalar and of each bitfield storage unit without
// changing bit assignment within the unit.
//
// All operations are synchronous, perform no I/O, and mutate no shared
// state beyond a layout cache that is safe for concurrent use.
package codec
