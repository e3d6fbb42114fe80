package main

import (
	"fmt"

	"github.com/gogpu/fx/content"
	"github.com/gogpu/fx/effect"
	"github.com/gogpu/fx/state"
	"github.com/gogpu/fx/vertex"
)

// The document types mirror the effect graph with YAML-friendly fields.

type bundleDoc struct {
	Version         int              `yaml:"version"`
	Profile         string           `yaml:"profile"`
	ConstantBuffers []constantBuffer `yaml:"constant_buffers,omitempty"`
	Shaders         []shaderDoc      `yaml:"shaders,omitempty"`
	Parameters      []parameterDoc   `yaml:"parameters,omitempty"`
	Techniques      []techniqueDoc   `yaml:"techniques"`
}

type constantBuffer struct {
	Name       string         `yaml:"name"`
	Size       int            `yaml:"size"`
	Parameters map[string]int `yaml:"parameters,omitempty"`
}

type shaderDoc struct {
	Stage           string       `yaml:"stage"`
	Bytes           int          `yaml:"bytes"`
	ConstantBuffers []int        `yaml:"constant_buffers,omitempty"`
	Samplers        []samplerDoc `yaml:"samplers,omitempty"`
	Inputs          []string     `yaml:"inputs,omitempty"`
}

type samplerDoc struct {
	Name    string `yaml:"name"`
	Type    string `yaml:"type"`
	Texture int    `yaml:"texture_slot"`
	Sampler int    `yaml:"sampler_slot"`
	State   string `yaml:"state,omitempty"`
}

type parameterDoc struct {
	Name        string         `yaml:"name"`
	Class       string         `yaml:"class"`
	Type        string         `yaml:"type"`
	Semantic    string         `yaml:"semantic,omitempty"`
	Shape       string         `yaml:"shape,omitempty"`
	Value       any            `yaml:"value,omitempty"`
	Annotations []parameterDoc `yaml:"annotations,omitempty"`
	Elements    []parameterDoc `yaml:"elements,omitempty"`
	Members     []parameterDoc `yaml:"members,omitempty"`
}

type techniqueDoc struct {
	Name        string         `yaml:"name"`
	Annotations []parameterDoc `yaml:"annotations,omitempty"`
	Passes      []passDoc      `yaml:"passes"`
}

type passDoc struct {
	Name         string `yaml:"name"`
	VertexShader int    `yaml:"vertex_shader"`
	PixelShader  int    `yaml:"pixel_shader"`
	Blend        string `yaml:"blend,omitempty"`
	DepthStencil string `yaml:"depth_stencil,omitempty"`
	Rasterizer   string `yaml:"rasterizer,omitempty"`
}

func describeBundle(b *effect.Bundle) bundleDoc {
	doc := bundleDoc{Version: int(b.Version), Profile: b.Profile.String()}
	for _, cb := range b.ConstantBuffers {
		c := constantBuffer{Name: cb.Name, Size: cb.SizeInBytes, Parameters: map[string]int{}}
		for i, idx := range cb.ParameterIndices {
			c.Parameters[b.Parameters[idx].Name] = cb.ParameterOffsets[i]
		}
		doc.ConstantBuffers = append(doc.ConstantBuffers, c)
	}
	for _, sh := range b.Shaders {
		s := shaderDoc{Stage: sh.Stage.String(), Bytes: len(sh.Bytecode), ConstantBuffers: sh.ConstantBufferSlots}
		for _, smp := range sh.Samplers {
			sd := samplerDoc{Name: smp.Name, Type: smp.Type.String(), Texture: smp.TextureSlot, Sampler: smp.SamplerSlot}
			if smp.State != nil {
				sd.State = describeSampler(smp.State)
			}
			s.Samplers = append(s.Samplers, sd)
		}
		for _, a := range sh.VertexAttributes {
			s.Inputs = append(s.Inputs, fmt.Sprintf("%s%d@%d", a.Name, a.Index, a.Location))
		}
		doc.Shaders = append(doc.Shaders, s)
	}
	doc.Parameters = describeParameters(b.Parameters)
	for _, t := range b.Techniques {
		td := techniqueDoc{Name: t.Name, Annotations: describeParameters(t.Annotations)}
		for _, p := range t.Passes {
			pd := passDoc{Name: p.Name, VertexShader: p.VertexShader, PixelShader: p.PixelShader}
			if p.Blend != nil {
				pd.Blend = describeBlend(p.Blend)
			}
			if p.DepthStencil != nil {
				pd.DepthStencil = describeDepth(p.DepthStencil)
			}
			if p.Rasterizer != nil {
				pd.Rasterizer = fmt.Sprintf("cull=%s fill=%s", p.Rasterizer.Cull, p.Rasterizer.Fill)
			}
			td.Passes = append(td.Passes, pd)
		}
		doc.Techniques = append(doc.Techniques, td)
	}
	return doc
}

func describeParameters(params []*effect.Parameter) []parameterDoc {
	var out []parameterDoc
	for _, p := range params {
		d := parameterDoc{
			Name:        p.Name,
			Class:       p.Class.String(),
			Type:        p.Type.String(),
			Semantic:    p.Semantic,
			Annotations: describeParameters(p.Annotations),
			Elements:    describeParameters(p.Elements),
			Members:     describeParameters(p.StructMembers),
		}
		if p.RowCount > 0 || p.ColumnCount > 0 {
			d.Shape = fmt.Sprintf("%dx%d", p.RowCount, p.ColumnCount)
		}
		if p.IsLeaf() {
			d.Value = p.Data
		}
		out = append(out, d)
	}
	return out
}

func describeBlend(b *state.Blend) string {
	if !b.Enabled() {
		return "opaque"
	}
	return fmt.Sprintf("color=%s(%s,%s) alpha=%s(%s,%s)",
		b.ColorFunc, b.ColorSource, b.ColorDestination,
		b.AlphaFunc, b.AlphaSource, b.AlphaDestination)
}

func describeDepth(d *state.DepthStencil) string {
	s := "depth=off"
	if d.DepthEnable {
		s = fmt.Sprintf("depth=%s write=%t", d.DepthFunc, d.DepthWrite)
	}
	if d.StencilEnable {
		s += fmt.Sprintf(" stencil=%s pass=%s ref=%d", d.StencilFunc, d.StencilPass, d.ReferenceStencil)
	}
	return s
}

func describeSampler(s *state.Sampler) string {
	return fmt.Sprintf("%s %s/%s/%s", s.Filter, s.AddressU, s.AddressV, s.AddressW)
}

// describe summarizes any loaded asset.
func describe(v any) any {
	switch v := v.(type) {
	case *effect.Bundle:
		return describeBundle(v)
	case *content.Texture2D:
		return map[string]any{
			"texture": fmt.Sprintf("%dx%d", v.Width, v.Height),
			"format":  v.Format.String(),
			"levels":  len(v.Levels),
		}
	case *content.SpriteFont:
		return map[string]any{
			"font":         string(v.Characters()),
			"line_spacing": v.LineSpacing,
			"spacing":      v.Spacing,
		}
	case *vertex.Declaration:
		var elems []string
		for _, e := range v.Elements() {
			elems = append(elems, fmt.Sprintf("%d:%s %s%d", e.Offset, e.Format, e.Usage.SemanticName(), e.UsageIndex))
		}
		return map[string]any{"stride": v.Stride(), "elements": elems}
	default:
		return map[string]any{"type": fmt.Sprintf("%T", v), "value": v}
	}
}
