// Package vertex describes the layout of vertex buffer streams.
//
// A Declaration lists the Elements of one vertex stream (offset, format and
// semantic usage) together with its stride. Declarations are immutable and
// carry a structural hash computed at construction, so they can be compared
// cheaply when used as part of an input-layout cache key.
package vertex
