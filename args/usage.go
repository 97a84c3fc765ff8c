package args

import (
	"fmt"
	"io"
	"strings"

	"imagesizer/resample"
)

func Usage(w io.Writer, prog string) {
	fmt.Fprintf(w, `
                            imagesizer
---------------------------------------------------------------------------
What it is: A simple utility to resize/crop an image such that it can be
  shown on a two-desktop display, with equal monitor resolutions, taking
  into account the gap between the two displays.

Usage:
  %[1]s [-width n | -monitorWidth n] [-height n] [-gap n]
             inputFiles [-outputFile outputFiles...]

Parameters:
inputFiles: images to be resized/cropped. Supported file formats are jpg,
            gif, bmp, png, tiff and webp. A directory stands for every
            image file directly inside it.
width: total width of desktop, in displayed pixels (not counting gap).
       Not necessary if monitorWidth parameter is supplied.
       Default: %[2]d (%[3]d*2).
monitorWidth: width of a single monitor, in pixels. Not necessary if
              width parameter was specified. Default: %[3]d.
height: height of monitors, in pixels. Default: %[4]d.
gap: width of 'gap' between monitors, in pixels. Default: %[5]d.
outputFile: names of png files that will be used for output, one per
            input file. Existing files are overwritten. Default value is
            the input name with its extension replaced by '%[6]s'.
engine: resize engine, one of: %[7]s. Default: %[8]s.
maxPixels: largest intermediate image, in pixels, before a file is
           rejected as too large. Default: %[9]d.
keepDpi: copy the resolution of each input file into its output.
contactSheet: also write a PDF with one page per resized image.

Example:
  %[1]s -width 2720 -height 768 -gap 120 img1.jpg img2.jpg

`, prog, DefaultWidth, DefaultMonitorWidth, DefaultHeight, DefaultGap, OutputSuffix,
		strings.Join(resample.Names(), ", "), resample.DefaultEngine, Defaults().MaxPixels)
}
