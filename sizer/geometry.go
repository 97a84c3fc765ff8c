package sizer

import "fmt"

// Geometry describes two side-by-side monitors of equal resolution.
// Width is the visible width of both monitors together, excluding the gap.
type Geometry struct {
	width    int
	height   int
	gapWidth int
}

func NewGeometry(width, height, gapWidth int) (Geometry, error) {
	if width <= 0 || height <= 0 || gapWidth < 0 {
		return Geometry{}, fmt.Errorf("%w: width=%d height=%d gap=%d: the width and height must be positive and the gap must not be negative",
			ErrConstruction, width, height, gapWidth)
	}
	return Geometry{width: width, height: height, gapWidth: gapWidth}, nil
}

func (g Geometry) Width() int    { return g.width }
func (g Geometry) Height() int   { return g.height }
func (g Geometry) GapWidth() int { return g.gapWidth }

// RealWidth is the virtual desktop width, gap included.
func (g Geometry) RealWidth() int {
	return g.width + g.gapWidth
}

func (g Geometry) RealRatio() float64 {
	return float64(g.RealWidth()) / float64(g.height)
}

func (g Geometry) String() string {
	return fmt.Sprintf("%dx%d gap %d", g.width, g.height, g.gapWidth)
}
