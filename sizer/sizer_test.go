package sizer

import (
	"errors"
	"image"
	"image/color"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// columnImage labels every column: R and G hold the column index (low and
// high byte), B holds the row index.
func columnImage(width, height int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.SetRGBA(x, y, color.RGBA{R: uint8(x), G: uint8(x >> 8), B: uint8(y), A: 255})
		}
	}
	return img
}

func column(img *image.RGBA, x, y int) int {
	c := img.RGBAAt(x, y)
	return int(c.R) | int(c.G)<<8
}

func row(img *image.RGBA, x, y int) int {
	return int(img.RGBAAt(x, y).B)
}

type countingResampler struct {
	calls int
}

func (c *countingResampler) Name() string { return "counting" }

func (c *countingResampler) Scale(src image.Image, width, height int) (*image.RGBA, error) {
	c.calls++
	return image.NewRGBA(image.Rect(0, 0, width, height)), nil
}

func mustGeometry(t *testing.T, width, height, gap int) Geometry {
	t.Helper()
	g, err := NewGeometry(width, height, gap)
	require.NoError(t, err)
	return g
}

func TestNewGeometry(t *testing.T) {
	tests := []struct {
		name    string
		width   int
		height  int
		gap     int
		wantErr bool
	}{
		{"defaults", 2560, 1024, 120, false},
		{"zero gap", 2560, 1024, 0, false},
		{"zero width", 0, 1024, 120, true},
		{"negative width", -2, 1024, 120, true},
		{"zero height", 2560, 0, 120, true},
		{"negative gap", 2560, 1024, -1, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := NewGeometry(tt.width, tt.height, tt.gap)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrConstruction))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.width+tt.gap, g.RealWidth())
			assert.InDelta(t, float64(tt.width+tt.gap)/float64(tt.height), g.RealRatio(), 1e-12)
		})
	}
}

func TestPlan(t *testing.T) {
	s := New(mustGeometry(t, 2560, 1024, 120))

	t.Run("tall source binds on width", func(t *testing.T) {
		l := s.Plan(3840, 2160)
		assert.True(t, l.Scaled)
		assert.Equal(t, 2680, l.ScaledWidth)
		assert.Equal(t, 1508, l.ScaledHeight)
		assert.Equal(t, 0, l.StartX)
		assert.Equal(t, 242, l.StartY)
	})

	t.Run("wide source binds on height", func(t *testing.T) {
		l := s.Plan(8000, 1000)
		assert.True(t, l.Scaled)
		assert.Equal(t, 1024, l.ScaledHeight)
		assert.Equal(t, 8192, l.ScaledWidth)
		assert.Equal(t, (8192-2680)/2, l.StartX)
		assert.Equal(t, 0, l.StartY)
	})

	t.Run("equal ratio keeps source size", func(t *testing.T) {
		l := s.Plan(5360, 2048)
		assert.False(t, l.Scaled)
		assert.Equal(t, 5360, l.ScaledWidth)
		assert.Equal(t, 2048, l.ScaledHeight)
		assert.Equal(t, 1340, l.StartX)
		assert.Equal(t, 512, l.StartY)
	})
}

func TestTransformDimensions(t *testing.T) {
	sources := [][2]int{{1, 1}, {7, 3}, {3, 7}, {64, 36}, {37, 91}, {500, 20}}
	geometries := [][3]int{{20, 8, 4}, {22, 9, 0}, {1, 1, 0}, {33, 17, 11}}
	for _, gs := range geometries {
		g := mustGeometry(t, gs[0], gs[1], gs[2])
		s := New(g)
		for _, src := range sources {
			out, err := s.Transform(columnImage(src[0], src[1]))
			require.NoError(t, err, "geometry %s source %v", g, src)
			assert.Equal(t, g.Width(), out.Bounds().Dx(), "geometry %s source %v", g, src)
			assert.Equal(t, g.Height(), out.Bounds().Dy(), "geometry %s source %v", g, src)
		}
	}
}

func TestTransformSkipsScaleOnEqualRatio(t *testing.T) {
	r := &countingResampler{}
	s := New(mustGeometry(t, 20, 5, 4), WithResampler(r))

	_, err := s.Transform(columnImage(48, 10))
	require.NoError(t, err)
	assert.Equal(t, 0, r.calls)

	_, err = s.Transform(columnImage(40, 10))
	require.NoError(t, err)
	assert.Equal(t, 1, r.calls)
}

func TestTransformRemovesGap(t *testing.T) {
	const width, height, gap = 20, 5, 4
	s := New(mustGeometry(t, width, height, gap))

	out, err := s.Transform(columnImage(width+gap, height))
	require.NoError(t, err)

	for j := 0; j < height; j++ {
		for i := 0; i < width; i++ {
			want := i
			if i >= width/2 {
				want += gap
			}
			assert.Equal(t, want, column(out, i, j), "column at (%d,%d)", i, j)
			assert.Equal(t, j, row(out, i, j), "row at (%d,%d)", i, j)
		}
	}

	left := column(out, width/2-1, 0)
	right := column(out, width/2, 0)
	assert.Equal(t, gap+1, right-left)
}

func TestTransformOddWidthPutsExtraColumnRight(t *testing.T) {
	const width, height, gap = 7, 2, 3
	s := New(mustGeometry(t, width, height, gap))

	out, err := s.Transform(columnImage(width+gap, height))
	require.NoError(t, err)

	got := make([]int, width)
	for i := range got {
		got[i] = column(out, i, 0)
	}
	assert.Equal(t, []int{0, 1, 2, 6, 7, 8, 9}, got)
}

func TestTransformCentersCrop(t *testing.T) {
	// 24x5 virtual desktop centered in a 48x10 source: 12 columns and 2 rows trimmed on each side.
	s := New(mustGeometry(t, 20, 5, 4))

	out, err := s.Transform(columnImage(48, 10))
	require.NoError(t, err)
	assert.Equal(t, 12, column(out, 0, 0))
	assert.Equal(t, 2, row(out, 0, 0))
	assert.Equal(t, 12+9, column(out, 9, 0))
	assert.Equal(t, 12+10+4, column(out, 10, 0))
	assert.Equal(t, 12+19+4, column(out, 19, 4))
	assert.Equal(t, 6, row(out, 19, 4))
}

func TestTransformZeroGapIsPlainCrop(t *testing.T) {
	s := New(mustGeometry(t, 16, 4, 0))
	out, err := s.Transform(columnImage(16, 4))
	require.NoError(t, err)
	for i := 0; i < 16; i++ {
		assert.Equal(t, i, column(out, i, 1))
	}
}

func TestTransformDeterministic(t *testing.T) {
	s := New(mustGeometry(t, 64, 20, 8))
	src := columnImage(97, 61)

	first, err := s.Transform(src)
	require.NoError(t, err)
	second, err := s.Transform(src)
	require.NoError(t, err)
	assert.Equal(t, first.Pix, second.Pix)
}

func TestTransformHonorsSourceOrigin(t *testing.T) {
	s := New(mustGeometry(t, 20, 5, 4))
	full := columnImage(30, 8)
	sub := full.SubImage(image.Rect(3, 1, 27, 6))

	out, err := s.Transform(sub)
	require.NoError(t, err)
	assert.Equal(t, 3, column(out, 0, 0))
	assert.Equal(t, 1, row(out, 0, 0))
	assert.Equal(t, 3+10+4, column(out, 10, 4))
}

func TestTransformInto(t *testing.T) {
	s := New(mustGeometry(t, 20, 5, 4))

	t.Run("matching buffer", func(t *testing.T) {
		dst := image.NewRGBA(image.Rect(0, 0, 20, 5))
		require.NoError(t, s.TransformInto(dst, columnImage(24, 5)))
		assert.Equal(t, 14, column(dst, 10, 0))
	})

	t.Run("offset buffer", func(t *testing.T) {
		dst := image.NewRGBA(image.Rect(100, 50, 120, 55))
		require.NoError(t, s.TransformInto(dst, columnImage(24, 5)))
		assert.Equal(t, 14, column(dst, 110, 50))
	})

	for _, r := range []image.Rectangle{
		image.Rect(0, 0, 19, 5),
		image.Rect(0, 0, 20, 6),
		image.Rect(0, 0, 5, 20),
	} {
		t.Run("mismatched "+r.String(), func(t *testing.T) {
			err := s.TransformInto(image.NewRGBA(r), columnImage(24, 5))
			assert.True(t, errors.Is(err, ErrDestinationSize), "got %v", err)
		})
	}
}

func TestTransformErrors(t *testing.T) {
	t.Run("empty source", func(t *testing.T) {
		s := New(mustGeometry(t, 20, 5, 4))
		_, err := s.Transform(image.NewRGBA(image.Rect(0, 0, 0, 5)))
		assert.True(t, errors.Is(err, ErrEmptySource))
	})

	t.Run("equal ratio but smaller source", func(t *testing.T) {
		s := New(mustGeometry(t, 2560, 1024, 120))
		_, err := s.Transform(columnImage(1340, 512))
		assert.True(t, errors.Is(err, ErrPrecondition), "got %v", err)
	})

	t.Run("equal ratio one pixel short", func(t *testing.T) {
		s := New(mustGeometry(t, 2, 2, 0))
		_, err := s.Transform(columnImage(1, 1))
		assert.True(t, errors.Is(err, ErrPrecondition), "got %v", err)
	})

	t.Run("pixel budget", func(t *testing.T) {
		s := New(mustGeometry(t, 20, 5, 4), WithMaxPixels(100))
		_, err := s.Transform(columnImage(30, 30))
		assert.True(t, errors.Is(err, ErrResourceExhausted), "got %v", err)
	})

	t.Run("budget disabled", func(t *testing.T) {
		s := New(mustGeometry(t, 20, 5, 4), WithMaxPixels(0))
		_, err := s.Transform(columnImage(30, 30))
		assert.NoError(t, err)
	})
}

func TestTransformRejectsOverBudgetBeforeAllocating(t *testing.T) {
	tests := []struct {
		name      string
		width     int
		height    int
		maxPixels int
	}{
		// An 8000x8000 RGBA destination alone is 256 MB.
		{"desktop over budget", 8000, 8000, 1000},
		// The desktop fits, but a 10x20 source scales to 100x200.
		{"scaled image over budget", 100, 100, 100 * 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(mustGeometry(t, tt.width, tt.height, 0), WithMaxPixels(tt.maxPixels))
			r := &countingResampler{}
			s.resampler = r
			src := columnImage(10, 20)

			var before, after runtime.MemStats
			runtime.ReadMemStats(&before)
			out, err := s.Transform(src)
			runtime.ReadMemStats(&after)

			assert.Nil(t, out)
			assert.True(t, errors.Is(err, ErrResourceExhausted), "got %v", err)
			assert.Equal(t, 0, r.calls)
			assert.Less(t, after.TotalAlloc-before.TotalAlloc, uint64(1<<16))
		})
	}
}

func TestTransformFullHDScenario(t *testing.T) {
	if testing.Short() {
		t.Skip("large image")
	}
	s := New(mustGeometry(t, 2560, 1024, 120))
	src := image.NewRGBA(image.Rect(0, 0, 3840, 2160))
	out, err := s.Transform(src)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 2560, 1024), out.Bounds())
}
