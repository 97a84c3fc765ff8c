package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"imagesizer/args"
	"imagesizer/contracts"
	"imagesizer/converter"
	"imagesizer/pdf_writer"
	"imagesizer/resample"
	"imagesizer/sizer"
)

type InputFlags = contracts.InputFlags

const (
	exitOK     = 0
	exitFailed = 1
	exitUsage  = 2
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(argv []string, stdout, stderr io.Writer) int {
	prog := filepath.Base(os.Args[0])
	if len(argv) == 0 {
		args.Usage(stdout, prog)
		return exitOK
	}

	flags, err := args.Parse(argv)
	if err != nil {
		fmt.Fprintf(stdout, "Error parsing parameters: %v\n", err)
		args.Usage(stdout, prog)
		return exitUsage
	}
	if flags.ShowHelp {
		args.Usage(stdout, prog)
		return exitOK
	}

	geometry, err := sizer.NewGeometry(flags.Width, flags.Height, flags.GapWidth)
	if err != nil {
		fmt.Fprintf(stderr, "[ERROR]: %v\n", err)
		return exitUsage
	}
	engine, err := resample.Lookup(flags.Engine)
	if err != nil {
		fmt.Fprintf(stderr, "[ERROR]: %v\n", err)
		return exitUsage
	}

	startTime := time.Now()

	s := sizer.New(geometry, sizer.WithResampler(engine), sizer.WithMaxPixels(flags.MaxPixels))
	conv := converter.New(s,
		converter.WithOutput(stdout, stderr),
		converter.WithMaxPixels(flags.MaxPixels),
		converter.WithKeepDPI(flags.KeepDPI),
	)
	results := conv.Convert(flags.InputFiles, flags.OutputFiles)
	failed := converter.Failed(results)

	if flags.ContactSheet != "" {
		fmt.Fprint(stdout, "Writing contact sheet... ")
		pages, err := pdf_writer.WriteContactSheet(flags.ContactSheet, results)
		if err != nil {
			fmt.Fprintln(stdout, "Error!")
			fmt.Fprintf(stderr, "[ERROR]: %v\n", err)
		} else {
			fmt.Fprintf(stdout, "Done! (%d pages)\n", pages)
		}
	}

	fmt.Fprintf(stdout, "Processed %d of %d files in %s\n",
		len(results)-len(failed), len(results), time.Since(startTime).Round(time.Millisecond))
	if len(failed) > 0 {
		return exitFailed
	}
	return exitOK
}
