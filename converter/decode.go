package converter

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// DecodeImage decodes any registered format. The header is checked against
// maxPixels before the pixel buffer is allocated; maxPixels <= 0 disables
// the check.
func DecodeImage(data []byte, maxPixels int) (img image.Image, format string, err error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrDecode, err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, format, fmt.Errorf("%w: %s image has no pixels (%dx%d)", ErrDecode, format, cfg.Width, cfg.Height)
	}
	if maxPixels > 0 && int64(cfg.Width)*int64(cfg.Height) > int64(maxPixels) {
		return nil, format, fmt.Errorf("%w: %dx%d %s image exceeds the budget of %d pixels",
			ErrResourceExhausted, cfg.Width, cfg.Height, format, maxPixels)
	}

	defer func() {
		// Decoders panic on allocations the runtime refuses (len out of range).
		if r := recover(); r != nil {
			img = nil
			err = fmt.Errorf("%w: decoding %dx%d %s image: %v", ErrResourceExhausted, cfg.Width, cfg.Height, format, r)
		}
	}()

	img, format, err = image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, format, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return img, format, nil
}
