package utils

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"hash/crc32"
	"io"
	"math"

	"github.com/dsoprea/go-exif/v3"
	exifcommon "github.com/dsoprea/go-exif/v3/common"
)

const (
	pngSignature = "\x89PNG\r\n\x1a\n"
	physChunk    = "pHYs"
	inchPerMeter = 0.0254
)

var ErrNoDPI = errors.New("no resolution information")

// GetImageDPI reports the horizontal resolution stored in an encoded image:
// the pHYs chunk for PNG, the EXIF resolution tags otherwise.
func GetImageDPI(data []byte) (float64, error) {
	if bytes.HasPrefix(data, []byte(pngSignature)) {
		return GetDPIfromPNG(data)
	}
	return GetEXIFDPI(data)
}

func GetEXIFDPI(data []byte) (float64, error) {
	rawExif, err := exif.SearchAndExtractExif(data)
	if err != nil {
		return 0, fmt.Errorf("%w: EXIF not found: %v", ErrNoDPI, err)
	}

	im := exifcommon.NewIfdMapping()
	ti := exif.NewTagIndex()
	if err := exifcommon.LoadStandardIfds(im); err != nil {
		return 0, err
	}

	_, index, err := exif.Collect(im, ti, rawExif)
	if err != nil {
		return 0, err
	}

	dpi := 0.0
	if tag, err := index.RootIfd.FindTagWithName("XResolution"); err == nil {
		if val, err := tag[0].Value(); err == nil {
			if rats, ok := val.([]exifcommon.Rational); ok && len(rats) > 0 && rats[0].Denominator != 0 {
				dpi = float64(rats[0].Numerator) / float64(rats[0].Denominator)
			}
		}
	}
	if dpi == 0 {
		return 0, ErrNoDPI
	}

	if tag, err := index.RootIfd.FindTagWithName("ResolutionUnit"); err == nil {
		if val, err := tag[0].Value(); err == nil {
			if u, ok := val.([]uint16); ok && len(u) > 0 && u[0] == 3 {
				dpi *= 2.54
			}
		}
	}

	return dpi, nil
}

func GetDPIfromPNG(data []byte) (float64, error) {
	if !bytes.HasPrefix(data, []byte(pngSignature)) {
		return 0, fmt.Errorf("not a PNG stream")
	}
	buf := bytes.NewReader(data[len(pngSignature):])

	for {
		var length uint32
		if err := binary.Read(buf, binary.BigEndian, &length); err != nil {
			break
		}

		chunkType := make([]byte, 4)
		if _, err := io.ReadFull(buf, chunkType); err != nil {
			break
		}

		if string(chunkType) == physChunk {
			var pxPerUnitX, pxPerUnitY uint32
			var unit byte

			if err := binary.Read(buf, binary.BigEndian, &pxPerUnitX); err != nil {
				return 0, err
			}
			if err := binary.Read(buf, binary.BigEndian, &pxPerUnitY); err != nil {
				return 0, err
			}
			if err := binary.Read(buf, binary.BigEndian, &unit); err != nil {
				return 0, err
			}

			if unit == 1 {
				return float64(pxPerUnitX) * inchPerMeter, nil
			}
			break // unit = 0 (aspect ratio only)
		}

		if string(chunkType) == "IDAT" {
			// pHYs must precede the image data.
			break
		}

		// skip chunk data + CRC
		if _, err := buf.Seek(int64(length)+4, io.SeekCurrent); err != nil {
			break
		}
	}

	return 0, ErrNoDPI
}

// SetPNGDPI returns a copy of an encoded PNG with a pHYs chunk for dpi
// inserted right after IHDR.
func SetPNGDPI(data []byte, dpi float64) ([]byte, error) {
	if !bytes.HasPrefix(data, []byte(pngSignature)) {
		return nil, fmt.Errorf("not a PNG stream")
	}
	if dpi <= 0 {
		return nil, fmt.Errorf("invalid resolution %.2f", dpi)
	}
	ihdrEnd := len(pngSignature) + 4 + 4 + 13 + 4
	if len(data) < ihdrEnd || string(data[len(pngSignature)+4:len(pngSignature)+8]) != "IHDR" {
		return nil, fmt.Errorf("PNG stream does not start with IHDR")
	}

	ppm := uint32(math.Round(dpi / inchPerMeter))
	chunk := make([]byte, 0, 4+4+9+4)
	chunk = binary.BigEndian.AppendUint32(chunk, 9)
	chunk = append(chunk, physChunk...)
	chunk = binary.BigEndian.AppendUint32(chunk, ppm)
	chunk = binary.BigEndian.AppendUint32(chunk, ppm)
	chunk = append(chunk, 1)
	chunk = binary.BigEndian.AppendUint32(chunk, crc32.ChecksumIEEE(chunk[4:]))

	out := make([]byte, 0, len(data)+len(chunk))
	out = append(out, data[:ihdrEnd]...)
	out = append(out, chunk...)
	out = append(out, data[ihdrEnd:]...)
	return out, nil
}
