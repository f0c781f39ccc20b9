package pipeline

import (
	"fmt"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/legalpipe/legalpipe/internal/common"
)

// Splitter produces single-page and chunk PDFs from the source document.
// The seam exists so pipeline tests can run without real PDF bytes.
type Splitter interface {
	PageCount(pdfPath string) (int, error)
	WritePageRange(srcPath, destPath string, first, last int) error
}

// PdfcpuSplitter implements Splitter on the pdfcpu library.
type PdfcpuSplitter struct {
	conf *model.Configuration
}

func NewPdfcpuSplitter() *PdfcpuSplitter {
	return &PdfcpuSplitter{conf: model.NewDefaultConfiguration()}
}

func (s *PdfcpuSplitter) PageCount(pdfPath string) (int, error) {
	n, err := api.PageCountFile(pdfPath)
	if err != nil {
		return 0, fmt.Errorf("page count %s: %w", pdfPath, err)
	}
	return n, nil
}

// WritePageRange writes pages [first, last] (1-based, inclusive) of src to dest.
func (s *PdfcpuSplitter) WritePageRange(srcPath, destPath string, first, last int) error {
	if first < 1 || last < first {
		return fmt.Errorf("%w: page range %d-%d", common.ErrInvalidInput, first, last)
	}
	sel := []string{fmt.Sprintf("%d-%d", first, last)}
	if first == last {
		sel = []string{fmt.Sprintf("%d", first)}
	}
	if err := api.TrimFile(srcPath, destPath, sel, s.conf); err != nil {
		return fmt.Errorf("trim %s pages %d-%d: %w", srcPath, first, last, err)
	}
	return nil
}
