//go:build imagick
// +build imagick

package resample

import (
	"fmt"
	"image"
	"sync"

	"gopkg.in/gographics/imagick.v2/imagick"
)

var imagickInit sync.Once

func init() {
	Register(Imagick{})
}

// Imagick resamples through ImageMagick's cubic filter.
type Imagick struct{}

func (Imagick) Name() string { return "imagick" }

func (Imagick) Scale(src image.Image, width, height int) (*image.RGBA, error) {
	imagickInit.Do(imagick.Initialize)

	blob, err := pngBlob(src)
	if err != nil {
		return nil, err
	}

	mw := imagick.NewMagickWand()
	defer mw.Destroy()

	if err := mw.ReadImageBlob(blob); err != nil {
		return nil, fmt.Errorf("imagick read failed: %w", err)
	}
	if err := mw.ResizeImage(uint(width), uint(height), imagick.FILTER_CUBIC, 1); err != nil {
		return nil, fmt.Errorf("imagick resize failed: %w", err)
	}
	if err := mw.SetImageFormat("PNG"); err != nil {
		return nil, fmt.Errorf("imagick format failed: %w", err)
	}
	return fromPNGBlob(mw.GetImageBlob())
}
