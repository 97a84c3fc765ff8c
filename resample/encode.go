package resample

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
)

// pngBlob hands pixels to the C-backed engines losslessly.
func pngBlob(src image.Image) ([]byte, error) {
	var buf bytes.Buffer
	enc := png.Encoder{CompressionLevel: png.NoCompression}
	if err := enc.Encode(&buf, src); err != nil {
		return nil, fmt.Errorf("failed to stage image for resize: %w", err)
	}
	return buf.Bytes(), nil
}

func fromPNGBlob(data []byte) (*image.RGBA, error) {
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to read resized image: %w", err)
	}
	return ToRGBA(img), nil
}
