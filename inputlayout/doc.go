// Package inputlayout memoizes native vertex input layouts.
//
// An input layout binds the vertex streams a draw call supplies to the
// inputs of one compiled vertex shader. Building it is a native call, so
// each vertex shader owns a Cache keyed on the structural identity of the
// bound streams: their declarations and instance frequencies, in order.
//
// Draw code reuses a single scratch Key per frame:
//
//	key.Reset()
//	key.Add(vertex.PositionColorTexture, 0)
//	key.Add(instanceDecl, 1)
//	id, err := shader.Layouts.GetOrCreate(&key)
//
// The cache stores immutable FrozenKey copies, never the scratch key.
//
// A Cache is not safe for concurrent use.
package inputlayout
