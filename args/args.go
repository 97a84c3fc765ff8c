// Package args resolves the command line into a contracts.InputFlags.
//
// Flags are matched case-insensitively and -outputFile takes every
// following token up to the next one that starts with "-", which is why
// this is a token walker rather than the flag package.
package args

import (
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"imagesizer/contracts"
	"imagesizer/files_manager"
	"imagesizer/resample"
	"imagesizer/sizer"
)

type InputFlags = contracts.InputFlags

const (
	DefaultMonitorWidth = 1280
	DefaultWidth        = DefaultMonitorWidth * 2
	DefaultHeight       = 1024
	DefaultGap          = 120

	OutputSuffix = ".resized.png"
)

var ErrConfiguration = errors.New("configuration error")

// ConfigError carries the message shown to the user and matches
// ErrConfiguration under errors.Is.
type ConfigError struct {
	Msg string
}

func (e *ConfigError) Error() string { return e.Msg }

func (e *ConfigError) Is(target error) bool { return target == ErrConfiguration }

func configError(format string, a ...any) error {
	return &ConfigError{Msg: fmt.Sprintf(format, a...)}
}

func Defaults() InputFlags {
	return InputFlags{
		Width:     DefaultWidth,
		Height:    DefaultHeight,
		GapWidth:  DefaultGap,
		Engine:    resample.DefaultEngine,
		MaxPixels: sizer.DefaultMaxPixels,
	}
}

// Parse resolves argv (without the program name). Directory inputs are
// expanded before the output list is derived or checked.
func Parse(argv []string) (InputFlags, error) {
	flags := Defaults()
	var rawInputs []string

	intArg := func(i int) (int, error) {
		v, err := strconv.Atoi(argv[i+1])
		if err != nil {
			return 0, configError("invalid value for %s: %q is not an integer", argv[i], argv[i+1])
		}
		return v, nil
	}

	for i := 0; i < len(argv); i++ {
		arg := argv[i]
		hasValue := i+1 < len(argv)
		var err error
		switch {
		case strings.EqualFold(arg, "-width") && hasValue:
			flags.Width, err = intArg(i)
			i++
		case strings.EqualFold(arg, "-monitorWidth") && hasValue:
			var w int
			w, err = intArg(i)
			flags.Width = w * 2
			i++
		case strings.EqualFold(arg, "-height") && hasValue:
			flags.Height, err = intArg(i)
			i++
		case strings.EqualFold(arg, "-gap") && hasValue:
			flags.GapWidth, err = intArg(i)
			i++
		case strings.EqualFold(arg, "-maxPixels") && hasValue:
			flags.MaxPixels, err = intArg(i)
			i++
		case strings.EqualFold(arg, "-engine") && hasValue:
			flags.Engine = argv[i+1]
			i++
		case strings.EqualFold(arg, "-contactSheet") && hasValue:
			flags.ContactSheet = argv[i+1]
			i++
		case strings.EqualFold(arg, "-outputFile") && hasValue:
			for i+1 < len(argv) && !strings.HasPrefix(argv[i+1], "-") {
				i++
				flags.OutputFiles = append(flags.OutputFiles, argv[i])
			}
		case strings.EqualFold(arg, "-keepDpi"):
			flags.KeepDPI = true
		case strings.EqualFold(arg, "-h"), strings.EqualFold(arg, "-help"), strings.EqualFold(arg, "--help"):
			flags.ShowHelp = true
		case !strings.HasPrefix(arg, "-"):
			rawInputs = append(rawInputs, arg)
		default:
			return InputFlags{}, configError("Unknown argument: %s", arg)
		}
		if err != nil {
			return InputFlags{}, err
		}
	}

	if flags.ShowHelp {
		return flags, nil
	}

	inputs, err := files_manager.ExpandInputs(rawInputs)
	if err != nil {
		return InputFlags{}, configError("%v", err)
	}
	flags.InputFiles = inputs

	if len(flags.InputFiles) == 0 {
		return InputFlags{}, configError("No input file given")
	}

	if len(flags.OutputFiles) == 0 {
		for _, in := range flags.InputFiles {
			flags.OutputFiles = append(flags.OutputFiles, DefaultOutputPath(in))
		}
	}

	if len(flags.InputFiles) != len(flags.OutputFiles) {
		return InputFlags{}, configError("Input file list and output file lists are of different sizes! (%d inputs, %d outputs)",
			len(flags.InputFiles), len(flags.OutputFiles))
	}

	if _, err := resample.Lookup(flags.Engine); err != nil {
		return InputFlags{}, configError("%v", err)
	}

	return flags, nil
}

// DefaultOutputPath swaps the trailing extension of in for ".resized.png",
// or appends it when there is none.
func DefaultOutputPath(in string) string {
	ext := filepath.Ext(in)
	if len(ext) > 1 {
		in = strings.TrimSuffix(in, ext)
	}
	return in + OutputSuffix
}
