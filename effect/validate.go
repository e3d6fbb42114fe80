package effect

import (
	"fmt"

	"github.com/gogpu/fx/backend"
)

// validate checks the cross references of a decoded graph.
func validate(b *Bundle) error {
	if len(b.Techniques) == 0 {
		return ErrNoTechnique
	}
	for _, t := range b.Techniques {
		if len(t.Passes) == 0 {
			return fmt.Errorf("technique %q: %w", t.Name, ErrNoTechnique)
		}
	}

	for i, cb := range b.ConstantBuffers {
		if len(cb.ParameterIndices) != len(cb.ParameterOffsets) {
			return fmt.Errorf("%w: constant buffer %q has %d indices and %d offsets",
				ErrInvalidReference, cb.Name, len(cb.ParameterIndices), len(cb.ParameterOffsets))
		}
		for _, idx := range cb.ParameterIndices {
			if idx < 0 || idx >= len(b.Parameters) {
				return fmt.Errorf("%w: constant buffer %d references parameter %d of %d",
					ErrInvalidReference, i, idx, len(b.Parameters))
			}
		}
	}

	for i, sh := range b.Shaders {
		for _, slot := range sh.ConstantBufferSlots {
			if slot != NoShader && slot >= len(b.ConstantBuffers) {
				return fmt.Errorf("%w: shader %d references constant buffer %d of %d",
					ErrInvalidReference, i, slot, len(b.ConstantBuffers))
			}
		}
		for _, s := range sh.Samplers {
			if s.Parameter == NoShader {
				continue
			}
			if s.Parameter >= len(b.Parameters) {
				return fmt.Errorf("%w: sampler %q references parameter %d of %d",
					ErrInvalidReference, s.Name, s.Parameter, len(b.Parameters))
			}
			if p := b.Parameters[s.Parameter]; !p.Type.IsTexture() {
				return fmt.Errorf("%w: sampler %q references %s parameter %q",
					ErrInvalidReference, s.Name, p.Type, p.Name)
			}
		}
	}

	for _, t := range b.Techniques {
		for _, p := range t.Passes {
			if err := checkShaderRef(b, p.VertexShader, backend.StageVertex); err != nil {
				return fmt.Errorf("pass %q vertex shader: %w", p.Name, err)
			}
			if err := checkShaderRef(b, p.PixelShader, backend.StagePixel); err != nil {
				return fmt.Errorf("pass %q pixel shader: %w", p.Name, err)
			}
		}
	}
	return nil
}

func checkShaderRef(b *Bundle, idx int, stage backend.ShaderStage) error {
	if idx == NoShader {
		return nil
	}
	if idx >= len(b.Shaders) {
		return fmt.Errorf("%w: shader %d of %d", ErrInvalidReference, idx, len(b.Shaders))
	}
	if got := b.Shaders[idx].Stage; got != stage {
		return fmt.Errorf("%w: shader %d is a %s shader", ErrInvalidReference, idx, got)
	}
	return nil
}
