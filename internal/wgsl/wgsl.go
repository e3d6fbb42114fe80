// Package wgsl reflects the vertex inputs of WGSL shaders.
package wgsl

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/gogpu/fx/backend"
	"github.com/gogpu/fx/vertex"
	"github.com/gogpu/naga"
	"github.com/gogpu/naga/ir"
)

// VertexInputs lists the location-bound inputs of the first vertex
// entry point in WGSL source.
//
// Input names follow the semantic convention of compiled effects: a name
// such as "texcoord1" is reported as semantic "TEXCOORD" index 1. Inputs of
// struct type contribute their members. Builtin inputs are skipped.
func VertexInputs(source string) ([]backend.VertexAttribute, error) {
	ast, err := naga.Parse(source)
	if err != nil {
		return nil, fmt.Errorf("wgsl: %w", err)
	}
	module, err := naga.Lower(ast)
	if err != nil {
		return nil, fmt.Errorf("wgsl: %w", err)
	}

	for _, ep := range module.EntryPoints {
		if ep.Stage != ir.StageVertex {
			continue
		}
		if int(ep.Function) >= len(module.Functions) {
			return nil, fmt.Errorf("wgsl: entry point %q has no function", ep.Name)
		}
		fn := &module.Functions[ep.Function]

		var attrs []backend.VertexAttribute
		for _, arg := range fn.Arguments {
			if arg.Binding != nil {
				if loc, ok := (*arg.Binding).(ir.LocationBinding); ok {
					attrs = append(attrs, Attribute(arg.Name, loc.Location))
				}
				continue
			}
			if int(arg.Type) >= len(module.Types) {
				continue
			}
			st, ok := module.Types[arg.Type].Inner.(ir.StructType)
			if !ok {
				continue
			}
			for _, m := range st.Members {
				if m.Binding == nil {
					continue
				}
				if loc, ok := (*m.Binding).(ir.LocationBinding); ok {
					attrs = append(attrs, Attribute(m.Name, loc.Location))
				}
			}
		}
		return attrs, nil
	}
	return nil, nil
}

// Attribute splits an input name into semantic and index.
func Attribute(name string, location uint32) backend.VertexAttribute {
	base := strings.TrimRightFunc(name, unicode.IsDigit)
	index := 0
	if suffix := name[len(base):]; suffix != "" {
		index, _ = strconv.Atoi(suffix)
	}
	base = strings.TrimSuffix(base, "_")
	semantic := strings.ToUpper(base)

	return backend.VertexAttribute{
		Name:     semantic,
		Usage:    usageFor(semantic),
		Index:    index,
		Location: int(location),
	}
}

var semanticUsages = map[string]vertex.ElementUsage{
	"POSITION":     vertex.UsagePosition,
	"COLOR":        vertex.UsageColor,
	"TEXCOORD":     vertex.UsageTextureCoordinate,
	"NORMAL":       vertex.UsageNormal,
	"BINORMAL":     vertex.UsageBinormal,
	"TANGENT":      vertex.UsageTangent,
	"BLENDINDICES": vertex.UsageBlendIndices,
	"BLENDWEIGHT":  vertex.UsageBlendWeight,
	"DEPTH":        vertex.UsageDepth,
	"FOG":          vertex.UsageFog,
	"PSIZE":        vertex.UsagePointSize,
	"SAMPLE":       vertex.UsageSample,
	"TESSFACTOR":   vertex.UsageTessellateFactor,
}

func usageFor(semantic string) vertex.ElementUsage {
	if u, ok := semanticUsages[semantic]; ok {
		return u
	}
	return vertex.UsageTextureCoordinate
}
