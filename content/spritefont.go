package content

import (
	"fmt"
	"image"
	"math"
	"sort"

	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

// Glyph is one character of a sprite font.
type Glyph struct {
	Char rune
	// Bounds is the glyph's rectangle in the font texture.
	Bounds Rectangle
	// Cropping offsets the glyph inside its line cell.
	Cropping Rectangle
	// LeftBearing, Width and RightBearing make up the advance.
	LeftBearing, Width, RightBearing float32
}

// Advance returns the horizontal pen movement of the glyph.
func (g *Glyph) Advance() float32 { return g.LeftBearing + g.Width + g.RightBearing }

// SpriteFont is a bitmap font backed by one texture. It implements
// font.Face; the texture's alpha channel is the glyph mask.
type SpriteFont struct {
	Texture     *Texture2D
	LineSpacing int32
	// Spacing is added between consecutive characters.
	Spacing float32
	// DefaultChar substitutes missing characters when set.
	DefaultChar *rune
	Glyphs      []Glyph

	mask  image.Image
	index map[rune]int
}

var _ font.Face = (*SpriteFont)(nil)

// NewSpriteFont builds a font and its glyph index.
func NewSpriteFont(tex *Texture2D, lineSpacing int32, spacing float32, defaultChar *rune, glyphs []Glyph) (*SpriteFont, error) {
	f := &SpriteFont{
		Texture:     tex,
		LineSpacing: lineSpacing,
		Spacing:     spacing,
		DefaultChar: defaultChar,
		Glyphs:      glyphs,
		index:       make(map[rune]int, len(glyphs)),
	}
	if tex != nil {
		img, err := tex.Image()
		if err != nil {
			return nil, err
		}
		f.mask = img
	}
	for i, g := range glyphs {
		f.index[g.Char] = i
	}
	if defaultChar != nil {
		if _, ok := f.index[*defaultChar]; !ok {
			return nil, fmt.Errorf("content: default character %q has no glyph", *defaultChar)
		}
	}
	return f, nil
}

// Characters returns the covered characters in ascending order.
func (f *SpriteFont) Characters() []rune {
	out := make([]rune, 0, len(f.Glyphs))
	for _, g := range f.Glyphs {
		out = append(out, g.Char)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// glyph returns the glyph for r, falling back to DefaultChar.
func (f *SpriteFont) glyph(r rune) (*Glyph, bool) {
	i, ok := f.index[r]
	if !ok && f.DefaultChar != nil {
		i, ok = f.index[*f.DefaultChar]
	}
	if !ok {
		return nil, false
	}
	return &f.Glyphs[i], true
}

// MeasureString returns the width and height of s in pixels.
func (f *SpriteFont) MeasureString(s string) (width, height float32) {
	var x float32
	lines := 1
	first := true
	for _, r := range s {
		switch r {
		case '\r':
			continue
		case '\n':
			lines++
			x = 0
			first = true
			continue
		}
		g, ok := f.glyph(r)
		if !ok {
			continue
		}
		if !first {
			x += f.Spacing
		}
		first = false
		x += g.Advance()
		width = max(width, x)
	}
	return width, float32(lines) * float32(f.LineSpacing)
}

// Close implements font.Face.
func (f *SpriteFont) Close() error { return nil }

// Glyph implements font.Face. dot is on the baseline, which sits
// LineSpacing below the top of the line cell.
func (f *SpriteFont) Glyph(dot fixed.Point26_6, r rune) (
	dr image.Rectangle, mask image.Image, maskp image.Point, advance fixed.Int26_6, ok bool) {
	g, ok := f.glyph(r)
	if !ok || f.mask == nil {
		return image.Rectangle{}, nil, image.Point{}, 0, false
	}
	x := dot.X.Round() + int(math.Round(float64(g.LeftBearing))) + int(g.Cropping.X)
	y := dot.Y.Round() - int(f.LineSpacing) + int(g.Cropping.Y)
	dr = image.Rect(x, y, x+int(g.Bounds.Width), y+int(g.Bounds.Height))
	return dr, f.mask, image.Pt(int(g.Bounds.X), int(g.Bounds.Y)), toFixed(g.Advance()), true
}

// GlyphBounds implements font.Face.
func (f *SpriteFont) GlyphBounds(r rune) (bounds fixed.Rectangle26_6, advance fixed.Int26_6, ok bool) {
	g, ok := f.glyph(r)
	if !ok {
		return fixed.Rectangle26_6{}, 0, false
	}
	minX := g.LeftBearing + float32(g.Cropping.X)
	minY := float32(g.Cropping.Y - f.LineSpacing)
	bounds = fixed.Rectangle26_6{
		Min: fixed.Point26_6{X: toFixed(minX), Y: toFixed(minY)},
		Max: fixed.Point26_6{
			X: toFixed(minX + float32(g.Bounds.Width)),
			Y: toFixed(minY + float32(g.Bounds.Height)),
		},
	}
	return bounds, toFixed(g.Advance()), true
}

// GlyphAdvance implements font.Face.
func (f *SpriteFont) GlyphAdvance(r rune) (advance fixed.Int26_6, ok bool) {
	g, ok := f.glyph(r)
	if !ok {
		return 0, false
	}
	return toFixed(g.Advance()), true
}

// Kern implements font.Face. Sprite fonts have no pair kerning, only
// uniform spacing between characters.
func (f *SpriteFont) Kern(_, _ rune) fixed.Int26_6 { return toFixed(f.Spacing) }

// Metrics implements font.Face.
func (f *SpriteFont) Metrics() font.Metrics {
	h := fixed.I(int(f.LineSpacing))
	return font.Metrics{
		Height:    h,
		Ascent:    h,
		CapHeight: h,
		XHeight:   h / 2,
	}
}

func toFixed(v float32) fixed.Int26_6 {
	return fixed.Int26_6(math.Round(float64(v) * 64))
}

type spriteFontReader struct{}

func (spriteFontReader) TargetType() string { return graphicsNamespace + "SpriteFont" }

func (spriteFontReader) Read(r *Reader, _ any) (any, error) {
	texObj, err := r.ReadObject()
	if err != nil {
		return nil, fmt.Errorf("content: sprite font texture: %w", err)
	}
	tex, ok := texObj.(*Texture2D)
	if !ok && texObj != nil {
		return nil, fmt.Errorf("%w: sprite font texture is %T", ErrUnsupportedFormat, texObj)
	}

	bounds, err := readList[Rectangle](r, "glyph bounds")
	if err != nil {
		return nil, err
	}
	cropping, err := readList[Rectangle](r, "cropping")
	if err != nil {
		return nil, err
	}
	chars, err := readList[rune](r, "characters")
	if err != nil {
		return nil, err
	}
	lineSpacing, err := r.ReadInt32()
	if err != nil {
		return nil, err
	}
	spacing, err := r.ReadFloat32()
	if err != nil {
		return nil, err
	}
	kerning, err := readList[Vector3](r, "kerning")
	if err != nil {
		return nil, err
	}

	var defaultChar *rune
	hasDefault, err := r.ReadBool()
	if err != nil {
		return nil, err
	}
	if hasDefault {
		c, err := r.ReadChar()
		if err != nil {
			return nil, err
		}
		defaultChar = &c
	}

	n := len(chars)
	if len(bounds) != n || len(cropping) != n || len(kerning) != n {
		return nil, fmt.Errorf("content: sprite font lists differ in length: %d bounds, %d cropping, %d characters, %d kerning",
			len(bounds), len(cropping), n, len(kerning))
	}
	glyphs := make([]Glyph, n)
	for i := range glyphs {
		glyphs[i] = Glyph{
			Char:         chars[i],
			Bounds:       bounds[i],
			Cropping:     cropping[i],
			LeftBearing:  kerning[i].X,
			Width:        kerning[i].Y,
			RightBearing: kerning[i].Z,
		}
	}
	return NewSpriteFont(tex, lineSpacing, spacing, defaultChar, glyphs)
}

// readList reads a type-indexed list and converts its elements to T.
func readList[T any](r *Reader, what string) ([]T, error) {
	obj, err := r.ReadObject()
	if err != nil {
		return nil, fmt.Errorf("content: %s: %w", what, err)
	}
	items, ok := obj.([]any)
	if !ok && obj != nil {
		return nil, fmt.Errorf("%w: %s is %T", ErrUnsupportedFormat, what, obj)
	}
	out := make([]T, len(items))
	for i, it := range items {
		if out[i], ok = it.(T); !ok {
			return nil, fmt.Errorf("%w: %s element %d is %T", ErrUnsupportedFormat, what, i, it)
		}
	}
	return out, nil
}
