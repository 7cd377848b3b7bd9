// Package layout computes byte layouts for type descriptor trees.
//
// Given a descriptor and a packing policy, the Calculator produces the
// byte offset and size of every field, the bit offset and width of
// every bitfield, and the total size and alignment of every composite.
//
// # Layout Rules
//
//   - Scalars and enums: alignment = min(width, policy cap), size = width
//   - Arrays: element layout times the product of extents, row-major
//   - Structs: fields laid out sequentially with padding for alignment;
//     total size rounded up to the struct alignment
//   - Unions: all members at offset 0; size = max member size,
//     alignment = max member alignment
//   - Bitfield runs: packed into storage units per the bitpack policy
//
// Offsets are monotonically non-decreasing in declaration order, and
// the result is a pure function of (tree, policy). Results for
// composites are cached by descriptor identity.
//
// This package is internal to the codec.
package layout
