package resume

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/ledongthuc/pdf"
)

// ErrNotPDF is returned for documents the PDF parser cannot read.
var ErrNotPDF = errors.New("not a readable PDF")

// PDFValidator checks resumes with the ledongthuc/pdf parser.
type PDFValidator struct{}

func NewPDFValidator() *PDFValidator {
	return &PDFValidator{}
}

// Validate parses data and returns its page count. A document without pages
// is rejected.
func (v *PDFValidator) Validate(data []byte) (pages int, err error) {
	// The parser panics on some malformed inputs.
	defer func() {
		if r := recover(); r != nil {
			pages, err = 0, fmt.Errorf("%w: %v", ErrNotPDF, r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrNotPDF, err)
	}
	pages = reader.NumPage()
	if pages < 1 {
		return 0, fmt.Errorf("%w: document has no pages", ErrNotPDF)
	}
	return pages, nil
}
