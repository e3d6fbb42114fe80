package vertex

import "fmt"

// ElementUsage is the semantic meaning of a vertex element.
type ElementUsage uint8

// Element usages.
const (
	UsagePosition ElementUsage = iota
	UsageColor
	UsageTextureCoordinate
	UsageNormal
	UsageBinormal
	UsageTangent
	UsageBlendIndices
	UsageBlendWeight
	UsageDepth
	UsageFog
	UsagePointSize
	UsageSample
	UsageTessellateFactor
)

// PositionSemantic is the system-value semantic used for positions.
// PositionSemanticLegacy is the plain semantic some shaders declare instead.
const (
	PositionSemantic       = "SV_Position"
	PositionSemanticLegacy = "POSITION"
)

var usageNames = [...]string{
	"Position", "Color", "TextureCoordinate", "Normal", "Binormal", "Tangent",
	"BlendIndices", "BlendWeight", "Depth", "Fog", "PointSize", "Sample",
	"TessellateFactor",
}

var semanticNames = [...]string{
	PositionSemantic, "COLOR", "TEXCOORD", "NORMAL", "BINORMAL", "TANGENT",
	"BLENDINDICES", "BLENDWEIGHT", "DEPTH", "FOG", "PSIZE", "SAMPLE",
	"TESSFACTOR",
}

// Valid reports whether u is a known usage.
func (u ElementUsage) Valid() bool { return int(u) < len(usageNames) }

// SemanticName returns the shader input semantic for u.
func (u ElementUsage) SemanticName() string {
	if int(u) >= len(semanticNames) {
		return fmt.Sprintf("USAGE%d", u)
	}
	return semanticNames[u]
}

func (u ElementUsage) String() string {
	if int(u) >= len(usageNames) {
		return fmt.Sprintf("ElementUsage(%d)", u)
	}
	return usageNames[u]
}
