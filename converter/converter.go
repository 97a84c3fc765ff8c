package converter

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"

	"imagesizer/contracts"
	"imagesizer/files_manager"
	"imagesizer/sizer"
	"imagesizer/utils"
)

type ProcessResult = contracts.ProcessResult

// Converter runs read → resize → save for each file and reports every stage.
type Converter struct {
	sizer     *sizer.Sizer
	stdout    io.Writer
	stderr    io.Writer
	maxPixels int
	keepDPI   bool
}

type Option func(*Converter)

func WithOutput(stdout, stderr io.Writer) Option {
	return func(c *Converter) {
		c.stdout = stdout
		c.stderr = stderr
	}
}

func WithMaxPixels(n int) Option {
	return func(c *Converter) {
		c.maxPixels = n
	}
}

// WithKeepDPI copies the input resolution into the output PNG.
func WithKeepDPI(keep bool) Option {
	return func(c *Converter) {
		c.keepDPI = keep
	}
}

func New(s *sizer.Sizer, opts ...Option) *Converter {
	c := &Converter{
		sizer:     s,
		stdout:    os.Stdout,
		stderr:    os.Stderr,
		maxPixels: sizer.DefaultMaxPixels,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Convert processes the pairs in order. A failed file is reported and
// skipped; it never stops the rest of the batch.
func (c *Converter) Convert(inputs, outputs []string) []ProcessResult {
	results := make([]ProcessResult, 0, len(inputs))
	for i := range inputs {
		results = append(results, c.ConvertFile(inputs[i], outputs[i]))
	}
	return results
}

func (c *Converter) ConvertFile(inputPath, outputPath string) ProcessResult {
	res := ProcessResult{
		InputPath:  absPath(inputPath),
		OutputPath: absPath(outputPath),
	}

	fmt.Fprintf(c.stdout, "Reading image: %s ... ", res.InputPath)
	img, dpi, err := c.read(inputPath)
	if err != nil {
		return c.fail(res, StageRead, err)
	}
	res.DPI = dpi
	fmt.Fprintln(c.stdout, "Done!")

	fmt.Fprint(c.stdout, "Resizing... ")
	resized, err := c.sizer.Transform(img)
	if err != nil {
		return c.fail(res, StageResize, err)
	}
	fmt.Fprintln(c.stdout, "Done!")

	fmt.Fprint(c.stdout, "Saving result... ")
	if err := c.save(resized, dpi, outputPath); err != nil {
		return c.fail(res, StageSave, err)
	}
	fmt.Fprintln(c.stdout, "Done!")

	res.Width = resized.Bounds().Dx()
	res.Height = resized.Bounds().Dy()
	fmt.Fprintf(c.stdout, "Output file is: %s\n\n", res.OutputPath)
	return res
}

func (c *Converter) read(path string) (image.Image, float64, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	img, _, err := DecodeImage(data, c.maxPixels)
	if err != nil {
		return nil, 0, err
	}
	dpi := 0.0
	if c.keepDPI {
		// Missing resolution metadata is not an error; the output just has none.
		dpi, _ = utils.GetImageDPI(data)
	}
	return img, dpi, nil
}

func (c *Converter) save(img image.Image, dpi float64, path string) error {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return fmt.Errorf("%w: %v", ErrEncode, err)
	}
	data := buf.Bytes()
	if dpi > 0 {
		withDPI, err := utils.SetPNGDPI(data, dpi)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrEncode, err)
		}
		data = withDPI
	}

	err := files_manager.WriteFileAtomic(path, func(f *os.File) error {
		_, err := f.Write(data)
		return err
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrWrite, err)
	}
	return nil
}

func (c *Converter) fail(res ProcessResult, stage Stage, err error) ProcessResult {
	stageErr := &StageError{Stage: stage, Path: res.InputPath, Err: err}
	res.Err = stageErr

	fmt.Fprintln(c.stdout, "Error!")
	if hint := stageErr.Hint(); hint != "" {
		fmt.Fprintln(c.stdout, hint)
	}
	fmt.Fprintln(c.stderr, stageErr)
	fmt.Fprintln(c.stdout)
	return res
}

// Failed returns the results that carry an error.
func Failed(results []ProcessResult) []ProcessResult {
	var failed []ProcessResult
	for _, r := range results {
		if !r.OK() {
			failed = append(failed, r)
		}
	}
	return failed
}

// IsResourceExhausted reports whether err came from the pixel budget.
func IsResourceExhausted(err error) bool {
	return errors.Is(err, ErrResourceExhausted) || errors.Is(err, sizer.ErrResourceExhausted)
}

func absPath(p string) string {
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return p
}
