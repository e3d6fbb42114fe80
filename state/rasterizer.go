package state

// Rasterizer describes primitive rasterization.
type Rasterizer struct {
	Cull                 Cull
	Fill                 Fill
	DepthBias            float32
	SlopeScaleDepthBias  float32
	MultiSampleAntiAlias bool
	ScissorTest          bool
}

func newRasterizer(c Cull) *Rasterizer {
	return &Rasterizer{Cull: c, Fill: FillSolid, MultiSampleAntiAlias: true}
}

// CullNoneRasterizer disables culling.
func CullNoneRasterizer() *Rasterizer { return newRasterizer(CullNone) }

// CullClockwiseRasterizer culls clockwise-wound triangles.
func CullClockwiseRasterizer() *Rasterizer { return newRasterizer(CullClockwise) }

// CullCounterClockwiseRasterizer culls counter-clockwise-wound triangles.
func CullCounterClockwiseRasterizer() *Rasterizer { return newRasterizer(CullCounterClockwise) }
