// Package state defines the fixed-function render state blocks carried by
// effect passes and shader samplers.
//
// The types are plain values. An effect pass that omits a block leaves the
// corresponding pointer nil, meaning the device keeps whatever state is
// currently bound. Backends translate these values into their native
// descriptors (see backend/native).
//
// The numeric values of every enumeration are part of the effect binary
// format and must not be reordered.
package state
