//go:build vips
// +build vips

package resample

import (
	"fmt"
	"image"
	"sync"

	"github.com/davidbyttow/govips/v2/vips"
)

var vipsStartup sync.Once

func init() {
	Register(Vips{})
}

// Vips resamples through libvips with its cubic kernel.
type Vips struct{}

func (Vips) Name() string { return "vips" }

func (Vips) Scale(src image.Image, width, height int) (*image.RGBA, error) {
	vipsStartup.Do(func() {
		vips.LoggingSettings(nil, vips.LogLevelCritical)
		vips.Startup(nil)
	})

	blob, err := pngBlob(src)
	if err != nil {
		return nil, err
	}
	img, err := vips.NewImageFromBuffer(blob)
	if err != nil {
		return nil, fmt.Errorf("vips load failed: %w", err)
	}
	defer img.Close()

	b := src.Bounds()
	hScale := float64(width) / float64(b.Dx())
	vScale := float64(height) / float64(b.Dy())
	if err := img.ResizeWithVScale(hScale, vScale, vips.KernelCubic); err != nil {
		return nil, fmt.Errorf("vips resize failed: %w", err)
	}

	out, err := img.ToImage(vips.NewDefaultPNGExportParams())
	if err != nil {
		return nil, fmt.Errorf("vips export failed: %w", err)
	}
	rgba := ToRGBA(out)
	if rgba.Bounds().Dx() != width || rgba.Bounds().Dy() != height {
		// libvips rounds the output size itself; snap to the exact target.
		return Draw{}.Scale(rgba, width, height)
	}
	return rgba, nil
}
