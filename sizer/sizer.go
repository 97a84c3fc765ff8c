// Package sizer fits an image onto a two-monitor desktop. The image is scaled
// to cover the virtual desktop (both monitors plus the bezel gap), centered,
// and the band of pixels that falls behind the bezels is cut out so the
// picture lines up across both screens.
package sizer

import (
	"fmt"
	"image"
	"math"

	"imagesizer/contracts"
	"imagesizer/resample"
)

// DefaultMaxPixels bounds both the destination and the scaled intermediate
// image (16384 x 16384).
const DefaultMaxPixels = 1 << 28

// Layout is the scale and crop decision for one source size.
type Layout struct {
	Scaled       bool
	ScaledWidth  int
	ScaledHeight int
	StartX       int
	StartY       int
}

// Sizer is immutable once built and may be shared between goroutines.
type Sizer struct {
	geometry  Geometry
	resampler contracts.Resampler
	maxPixels int64
}

type Option func(*Sizer)

func WithResampler(r contracts.Resampler) Option {
	return func(s *Sizer) {
		if r != nil {
			s.resampler = r
		}
	}
}

// WithMaxPixels sets the pixel budget checked before any pixels are allocated.
// n <= 0 disables the check.
func WithMaxPixels(n int) Option {
	return func(s *Sizer) {
		s.maxPixels = int64(n)
	}
}

func New(g Geometry, opts ...Option) *Sizer {
	s := &Sizer{
		geometry:  g,
		resampler: resample.Draw{},
		maxPixels: DefaultMaxPixels,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Plan picks the binding dimension and the centering offsets for a
// srcWidth x srcHeight source. It does not touch pixels.
func (s *Sizer) Plan(srcWidth, srcHeight int) Layout {
	g := s.geometry
	realWidth := g.RealWidth()
	realRatio := g.RealRatio()
	srcRatio := float64(srcWidth) / float64(srcHeight)

	l := Layout{ScaledWidth: srcWidth, ScaledHeight: srcHeight}
	switch {
	case srcRatio < realRatio:
		scale := float64(realWidth) / float64(srcWidth)
		l.Scaled = true
		l.ScaledWidth = realWidth
		l.ScaledHeight = max(int(math.Round(float64(srcHeight)*scale)), g.height)
	case srcRatio > realRatio:
		scale := float64(g.height) / float64(srcHeight)
		l.Scaled = true
		l.ScaledWidth = max(int(math.Round(float64(srcWidth)*scale)), realWidth)
		l.ScaledHeight = g.height
	}
	l.StartX = (l.ScaledWidth - realWidth) / 2
	l.StartY = (l.ScaledHeight - g.height) / 2
	return l
}

// Transform returns a new geometry.Width() x geometry.Height() image. The
// destination is only allocated once the request fits the pixel budget.
func (s *Sizer) Transform(src image.Image) (*image.RGBA, error) {
	l, err := s.check(src)
	if err != nil {
		return nil, err
	}
	dst := image.NewRGBA(image.Rect(0, 0, s.geometry.width, s.geometry.height))
	if err := s.fill(dst, src, l); err != nil {
		return nil, err
	}
	return dst, nil
}

// TransformInto writes the result into dst, which must match the geometry exactly.
func (s *Sizer) TransformInto(dst *image.RGBA, src image.Image) error {
	g := s.geometry
	if dst == nil {
		return fmt.Errorf("%w: nil destination", ErrDestinationSize)
	}
	if dst.Rect.Dx() != g.width || dst.Rect.Dy() != g.height {
		return fmt.Errorf("%w: got %dx%d, want %dx%d",
			ErrDestinationSize, dst.Rect.Dx(), dst.Rect.Dy(), g.width, g.height)
	}
	l, err := s.check(src)
	if err != nil {
		return err
	}
	return s.fill(dst, src, l)
}

// check validates src against the geometry and the pixel budget without
// allocating pixels.
func (s *Sizer) check(src image.Image) (Layout, error) {
	g := s.geometry
	if s.maxPixels > 0 && int64(g.width)*int64(g.height) > s.maxPixels {
		return Layout{}, fmt.Errorf("%w: a %dx%d desktop exceeds the budget of %d pixels",
			ErrResourceExhausted, g.width, g.height, s.maxPixels)
	}

	b := src.Bounds()
	if b.Empty() {
		return Layout{}, ErrEmptySource
	}

	l := s.Plan(b.Dx(), b.Dy())
	if l.ScaledWidth < g.RealWidth() || l.ScaledHeight < g.height {
		return Layout{}, fmt.Errorf("%w: %dx%d source needs %dx%d for geometry %s",
			ErrPrecondition, b.Dx(), b.Dy(), g.RealWidth(), g.height, g)
	}
	if s.maxPixels > 0 && int64(l.ScaledWidth)*int64(l.ScaledHeight) > s.maxPixels {
		return Layout{}, fmt.Errorf("%w: scaling to %dx%d exceeds the budget of %d pixels",
			ErrResourceExhausted, l.ScaledWidth, l.ScaledHeight, s.maxPixels)
	}
	return l, nil
}

func (s *Sizer) fill(dst *image.RGBA, src image.Image, l Layout) error {
	var scaled *image.RGBA
	if l.Scaled {
		var err error
		scaled, err = s.resampler.Scale(src, l.ScaledWidth, l.ScaledHeight)
		if err != nil {
			return fmt.Errorf("%s resize failed: %w", s.resampler.Name(), err)
		}
		if scaled.Rect.Dx() != l.ScaledWidth || scaled.Rect.Dy() != l.ScaledHeight {
			return fmt.Errorf("%s resize returned %dx%d, want %dx%d", s.resampler.Name(),
				scaled.Rect.Dx(), scaled.Rect.Dy(), l.ScaledWidth, l.ScaledHeight)
		}
	} else {
		scaled = resample.ToRGBA(src)
	}

	splice(dst, scaled, l, s.geometry)
	return nil
}

// splice copies the visible desktop out of scaled. Columns left of the
// midpoint come straight from the centered crop; from the midpoint on, the
// read position skips gapWidth columns.
func splice(dst, scaled *image.RGBA, l Layout, g Geometry) {
	half := g.width / 2
	leftBytes := half * 4
	rightBytes := (g.width - half) * 4
	for j := 0; j < g.height; j++ {
		d := dst.PixOffset(dst.Rect.Min.X, dst.Rect.Min.Y+j)
		sy := scaled.Rect.Min.Y + j + l.StartY
		left := scaled.PixOffset(scaled.Rect.Min.X+l.StartX, sy)
		right := scaled.PixOffset(scaled.Rect.Min.X+l.StartX+half+g.gapWidth, sy)
		copy(dst.Pix[d:d+leftBytes], scaled.Pix[left:left+leftBytes])
		copy(dst.Pix[d+leftBytes:d+leftBytes+rightBytes], scaled.Pix[right:right+rightBytes])
	}
}
