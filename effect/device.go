package effect

import (
	"fmt"

	"github.com/gogpu/fx"
	"github.com/gogpu/fx/backend"
	"github.com/gogpu/fx/inputlayout"
)

// attach creates native handles for every object of b on dev. On failure
// everything created so far is destroyed.
func (b *Bundle) attach(dev backend.Device) (err error) {
	if !dev.SupportsProfile(b.Profile) {
		return fmt.Errorf("effect %q: %w: %s on %s", b.label, backend.ErrUnsupportedProfile, b.Profile, dev.Name())
	}
	b.device = dev
	defer func() {
		if err != nil {
			b.Release()
		}
	}()

	for i, sh := range b.Shaders {
		label := fmt.Sprintf("%s/shader%d", b.label, i)
		sh.Handle, err = dev.CreateShader(&backend.ShaderDescriptor{
			Label:      label,
			Stage:      sh.Stage,
			Profile:    b.Profile,
			Bytecode:   sh.Bytecode,
			Attributes: sh.VertexAttributes,
		})
		if err != nil {
			return fmt.Errorf("effect %q: create shader %d: %w", b.label, i, err)
		}
		if sh.Stage == backend.StageVertex {
			sh.Layouts = inputlayout.NewCache(dev, sh.Handle, label)
		}
		for j := range sh.Samplers {
			s := &sh.Samplers[j]
			if s.State == nil {
				continue
			}
			s.Handle, err = dev.CreateSampler(label+"/"+s.Name, s.State)
			if err != nil {
				return fmt.Errorf("effect %q: create sampler %q: %w", b.label, s.Name, err)
			}
		}
	}

	if err = b.createConstantBuffers(); err != nil {
		return err
	}

	for _, t := range b.Techniques {
		for _, p := range t.Passes {
			label := b.label + "/" + t.Name + "/" + p.Name
			if p.Blend != nil {
				if p.BlendHandle, err = dev.CreateBlendState(label, p.Blend); err != nil {
					return fmt.Errorf("effect %q: pass %q blend state: %w", b.label, p.Name, err)
				}
			}
			if p.DepthStencil != nil {
				if p.DepthStencilHandle, err = dev.CreateDepthStencilState(label, p.DepthStencil); err != nil {
					return fmt.Errorf("effect %q: pass %q depth-stencil state: %w", b.label, p.Name, err)
				}
			}
			if p.Rasterizer != nil {
				if p.RasterizerHandle, err = dev.CreateRasterizerState(label, p.Rasterizer); err != nil {
					return fmt.Errorf("effect %q: pass %q rasterizer state: %w", b.label, p.Name, err)
				}
			}
		}
	}
	return nil
}

func (b *Bundle) createConstantBuffers() error {
	for _, cb := range b.ConstantBuffers {
		id, err := b.device.CreateConstantBuffer(&backend.BufferDescriptor{
			Label: b.label + "/" + cb.Name,
			Size:  cb.SizeInBytes,
		})
		if err != nil {
			return fmt.Errorf("effect %q: create constant buffer %q: %w", b.label, cb.Name, err)
		}
		cb.Handle = id
	}
	return b.UpdateConstantBuffers()
}

// UpdateConstantBuffers uploads the current parameter values into every
// constant buffer. It is a no-op for bundles without a device.
func (b *Bundle) UpdateConstantBuffers() error {
	if b.device == nil {
		return nil
	}
	for _, cb := range b.ConstantBuffers {
		if cb.Handle == backend.InvalidID {
			continue
		}
		if err := b.device.WriteConstantBuffer(cb.Handle, 0, cb.Pack(b.Parameters)); err != nil {
			return fmt.Errorf("effect %q: upload constant buffer %q: %w", b.label, cb.Name, err)
		}
	}
	return nil
}

// Release destroys every native handle the bundle owns. The graph stays
// readable. Release is idempotent.
func (b *Bundle) Release() {
	dev := b.device
	if dev == nil {
		return
	}
	for _, cb := range b.ConstantBuffers {
		dev.DestroyBuffer(cb.Handle)
		cb.Handle = backend.InvalidID
	}
	if !b.shared {
		for _, t := range b.Techniques {
			for _, p := range t.Passes {
				dev.DestroyState(p.BlendHandle)
				dev.DestroyState(p.DepthStencilHandle)
				dev.DestroyState(p.RasterizerHandle)
				p.BlendHandle, p.DepthStencilHandle, p.RasterizerHandle = backend.InvalidID, backend.InvalidID, backend.InvalidID
			}
		}
		for _, sh := range b.Shaders {
			if sh.Layouts != nil {
				sh.Layouts.Release()
				sh.Layouts = nil
			}
			for j := range sh.Samplers {
				dev.DestroySampler(sh.Samplers[j].Handle)
				sh.Samplers[j].Handle = backend.InvalidID
			}
			dev.DestroyShader(sh.Handle)
			sh.Handle = backend.InvalidID
		}
	}
	b.device = nil
	fx.ComponentLogger("effect").Debug("effect released", "label", b.label, "shared", b.shared)
}
