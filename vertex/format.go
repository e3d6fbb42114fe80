package vertex

import (
	"fmt"

	"github.com/gogpu/gputypes"
)

// ElementFormat is the storage format of one vertex element.
type ElementFormat uint8

// Element formats.
const (
	FormatSingle ElementFormat = iota
	FormatVector2
	FormatVector3
	FormatVector4
	FormatColor
	FormatByte4
	FormatShort2
	FormatShort4
	FormatNormalizedShort2
	FormatNormalizedShort4
	FormatHalfVector2
	FormatHalfVector4
)

type formatInfo struct {
	name string
	size int
	gpu  gputypes.VertexFormat
}

var formats = [...]formatInfo{
	FormatSingle:           {"Single", 4, gputypes.VertexFormatFloat32},
	FormatVector2:          {"Vector2", 8, gputypes.VertexFormatFloat32x2},
	FormatVector3:          {"Vector3", 12, gputypes.VertexFormatFloat32x3},
	FormatVector4:          {"Vector4", 16, gputypes.VertexFormatFloat32x4},
	FormatColor:            {"Color", 4, gputypes.VertexFormatUnorm8x4},
	FormatByte4:            {"Byte4", 4, gputypes.VertexFormatUint8x4},
	FormatShort2:           {"Short2", 4, gputypes.VertexFormatSint16x2},
	FormatShort4:           {"Short4", 8, gputypes.VertexFormatSint16x4},
	FormatNormalizedShort2: {"NormalizedShort2", 4, gputypes.VertexFormatSnorm16x2},
	FormatNormalizedShort4: {"NormalizedShort4", 8, gputypes.VertexFormatSnorm16x4},
	FormatHalfVector2:      {"HalfVector2", 4, gputypes.VertexFormatFloat16x2},
	FormatHalfVector4:      {"HalfVector4", 8, gputypes.VertexFormatFloat16x4},
}

// Valid reports whether f is a known format.
func (f ElementFormat) Valid() bool { return int(f) < len(formats) }

// Size returns the element size in bytes, or 0 for an unknown format.
func (f ElementFormat) Size() int {
	if !f.Valid() {
		return 0
	}
	return formats[f].size
}

// GPUFormat returns the equivalent WebGPU vertex format.
func (f ElementFormat) GPUFormat() gputypes.VertexFormat {
	if !f.Valid() {
		return gputypes.VertexFormat(0)
	}
	return formats[f].gpu
}

func (f ElementFormat) String() string {
	if !f.Valid() {
		return fmt.Sprintf("ElementFormat(%d)", f)
	}
	return formats[f].name
}
