package sizer

import "errors"

var (
	// ErrConstruction means the geometry has a non-positive width or height, or a negative gap.
	ErrConstruction = errors.New("invalid display geometry")

	// ErrDestinationSize means a caller supplied buffer does not match the geometry.
	ErrDestinationSize = errors.New("illegal dimensions for destination buffer")

	// ErrPrecondition means the source cannot cover the virtual desktop after the scale step.
	ErrPrecondition = errors.New("source does not cover the virtual desktop")

	// ErrEmptySource means the source image has no pixels.
	ErrEmptySource = errors.New("source image is empty")

	// ErrResourceExhausted means the scaled image would exceed the pixel budget.
	ErrResourceExhausted = errors.New("image too large")
)
