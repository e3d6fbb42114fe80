package state

// Sampler describes how a texture is filtered and addressed.
type Sampler struct {
	AddressU    Address
	AddressV    Address
	AddressW    Address
	BorderColor Color
	Filter      Filter

	MaxAnisotropy int32
	MaxMipLevel   int32
	MipLODBias    float32
}

func newSampler(f Filter, a Address) *Sampler {
	return &Sampler{AddressU: a, AddressV: a, AddressW: a, Filter: f, MaxAnisotropy: 4}
}

// LinearClamp returns linear filtering with clamped coordinates.
func LinearClamp() *Sampler { return newSampler(FilterLinear, AddressClamp) }

// LinearWrap returns linear filtering with wrapped coordinates.
func LinearWrap() *Sampler { return newSampler(FilterLinear, AddressWrap) }

// PointClamp returns point filtering with clamped coordinates.
func PointClamp() *Sampler { return newSampler(FilterPoint, AddressClamp) }

// PointWrap returns point filtering with wrapped coordinates.
func PointWrap() *Sampler { return newSampler(FilterPoint, AddressWrap) }

// AnisotropicClamp returns anisotropic filtering with clamped coordinates.
func AnisotropicClamp() *Sampler { return newSampler(FilterAnisotropic, AddressClamp) }
