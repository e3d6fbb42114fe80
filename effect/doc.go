// Package effect reads and writes compiled effect bundles.
//
// A bundle is the output of the effect compiler: compiled shader bytecode
// for one profile, constant buffer layouts, the parameter tree with default
// values, and techniques made of passes that pair a vertex and a pixel
// shader with optional fixed-function state.
//
// # Decoding
//
// Decode parses a bundle from memory. Two dialects of the format exist:
// the legacy dialect (version 9) with byte-wide counts and indices, and the
// current dialect (version 10) with 32-bit counts, explicit shader stages,
// reflected vertex attributes and a trailing signature. Both are handled by
// one routine that consults a Dialect value at every point they differ.
//
//	b, err := effect.Decode(data, effect.WithDevice(dev))
//	if err != nil {
//		return err
//	}
//	defer b.Release()
//
// Decode never returns a partially built bundle. When a device is supplied
// every shader, constant buffer, sampler and render state gets a native
// handle through the backend dispatch layer, and each vertex shader gets an
// input-layout cache. If any of that fails, handles created so far are
// destroyed before the error is returned.
//
// # Encoding
//
// Encode writes a bundle in either dialect. It is used by tooling that
// converts legacy files and by tests.
package effect
