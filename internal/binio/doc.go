// Package binio provides the little-endian byte cursor and writer shared by
// the effect and content decoders.
//
// The encoding matches the conventions of the content pipeline that emits
// these files: fixed-width little-endian integers and IEEE-754 floats,
// booleans as a single byte, and strings as a 7-bit variable-length byte
// count followed by UTF-8 bytes.
package binio
