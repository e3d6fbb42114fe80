package effect

import (
	"fmt"

	"github.com/jinzhu/copier"
)

// Clone returns a deep copy of the graph with independent parameter values.
//
// When b has a device the clone gets its own constant buffers and borrows
// b's shaders, samplers, render states and input-layout caches; the clone
// must be released before b.
func (b *Bundle) Clone() (*Bundle, error) {
	c := &Bundle{}
	if err := copier.CopyWithOption(c, b, copier.Option{DeepCopy: true}); err != nil {
		return nil, fmt.Errorf("effect: clone: %w", err)
	}

	cloneData(c.Parameters, b.Parameters)
	for i, t := range b.Techniques {
		for j, p := range t.Passes {
			cloneData(c.Techniques[i].Passes[j].Annotations, p.Annotations)
		}
		cloneData(c.Techniques[i].Annotations, t.Annotations)
		if t == b.CurrentTechnique {
			c.CurrentTechnique = c.Techniques[i]
		}
	}
	for i, sh := range b.Shaders {
		c.Shaders[i].Layouts = sh.Layouts
	}
	c.label = b.label
	c.link()

	if b.device != nil {
		c.device = b.device
		c.shared = true
		for _, cb := range c.ConstantBuffers {
			cb.Handle = 0
		}
		if err := c.createConstantBuffers(); err != nil {
			c.Release()
			return nil, err
		}
	}
	return c, nil
}

// cloneData gives every parameter of dst its own copy of the value held by
// the parameter at the same position in src.
func cloneData(dst, src []*Parameter) {
	for i, s := range src {
		d := dst[i]
		switch v := s.Data.(type) {
		case []float32:
			d.Data = append([]float32(nil), v...)
		case []int32:
			d.Data = append([]int32(nil), v...)
		default:
			d.Data = nil
		}
		cloneData(d.Annotations, s.Annotations)
		cloneData(d.Elements, s.Elements)
		cloneData(d.StructMembers, s.StructMembers)
	}
}
