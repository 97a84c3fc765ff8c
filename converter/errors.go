package converter

import (
	"errors"
	"fmt"
)

var (
	// ErrDecode means the input file could not be read as an image.
	ErrDecode = errors.New("cannot read image")

	// ErrResourceExhausted means the image is too large to process within the pixel budget.
	ErrResourceExhausted = errors.New("out of memory")

	// ErrEncode means the result could not be encoded as PNG.
	ErrEncode = errors.New("cannot encode PNG")

	// ErrWrite means the output file could not be written.
	ErrWrite = errors.New("cannot write output file")
)

type Stage string

const (
	StageRead   Stage = "read"
	StageResize Stage = "resize"
	StageSave   Stage = "save"
)

// StageError is the per-file failure reported by Convert. It never aborts the batch.
type StageError struct {
	Stage Stage
	Path  string
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Stage, e.Path, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// Hint is the extra guidance printed under "Error!" for this failure, if any.
func (e *StageError) Hint() string {
	if IsResourceExhausted(e.Err) {
		return "Out of memory error - this image was too large. Try passing a larger value\n" +
			"for the -maxPixels parameter, for example: -maxPixels 536870912"
	}
	return ""
}
