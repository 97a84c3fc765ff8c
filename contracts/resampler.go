package contracts

import "image"

// Resampler scales src to exactly width x height pixels with a smooth kernel.
type Resampler interface {
	Name() string
	Scale(src image.Image, width, height int) (*image.RGBA, error)
}
