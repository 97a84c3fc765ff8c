package pdf_writer

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/phpdave11/gofpdf"

	"imagesizer/contracts"
	"imagesizer/files_manager"
)

type ProcessResult = contracts.ProcessResult

const (
	mmPerInch  = 25.4
	defaultDPI = 96.0
)

var ErrNothingToWrite = errors.New("no successful results for the contact sheet")

// WriteContactSheet writes one page per successful result, each page sized
// to its image. It returns the number of pages written.
func WriteContactSheet(path string, results []ProcessResult) (int, error) {
	pdf := gofpdf.NewCustom(&gofpdf.InitType{UnitStr: "mm"})
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetTitle("imagesizer contact sheet", true)

	pages := 0
	for _, r := range results {
		if !r.OK() || r.Width == 0 || r.Height == 0 {
			continue
		}
		if err := addPage(pdf, r, pages); err != nil {
			return 0, err
		}
		pages++
	}
	if pages == 0 {
		return 0, ErrNothingToWrite
	}

	err := files_manager.WriteFileAtomic(path, func(f *os.File) error {
		return pdf.Output(f)
	})
	if err != nil {
		return 0, fmt.Errorf("error saving PDF file: %w", err)
	}
	return pages, nil
}

func addPage(pdf *gofpdf.Fpdf, r ProcessResult, index int) error {
	dpi := r.DPI
	if dpi <= 0 {
		dpi = defaultDPI
	}
	drawWidth := float64(r.Width) * mmPerInch / dpi
	drawHeight := float64(r.Height) * mmPerInch / dpi

	f, err := os.Open(r.OutputPath)
	if err != nil {
		return fmt.Errorf("error opening %s: %w", r.OutputPath, err)
	}
	defer f.Close()

	imageID := fmt.Sprintf("img_%d", index)
	opts := gofpdf.ImageOptions{
		ImageType: "PNG",
		ReadDpi:   false,
	}

	pdf.AddPageFormat("P", gofpdf.SizeType{Wd: drawWidth, Ht: drawHeight})
	pdf.RegisterImageOptionsReader(imageID, opts, f)
	pdf.ImageOptions(imageID, 0, 0, drawWidth, drawHeight, false, opts, 0, "")
	pdf.SetTextColor(255, 255, 255)
	pdf.SetFont("Helvetica", "", 8)
	pdf.Text(2, drawHeight-2, filepath.Base(r.OutputPath))

	if err := pdf.Error(); err != nil {
		return fmt.Errorf("error adding %s to PDF: %w", r.OutputPath, err)
	}
	return nil
}
