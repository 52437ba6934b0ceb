package printing

import "time"

// PDFRequest selects how an order PDF is produced
type PDFRequest struct {
	// Engine is chromedp or gofpdf; empty uses the configured default
	Engine string `form:"engine" binding:"omitempty,oneof=chromedp gofpdf"`
	// PaperSize is A4 or A5; empty means A4
	PaperSize string `form:"paper" binding:"omitempty,oneof=A4 A5"`
	// Landscape switches the page orientation
	Landscape bool `form:"landscape"`
	// WithCommission prints the commission column and total
	WithCommission bool `form:"commission"`
}

// HTMLRequest controls the HTML print view
type HTMLRequest struct {
	WithCommission bool `form:"commission"`
}

// PDFResponse is a rendered order document
type PDFResponse struct {
	FileName       string
	Engine         string
	Data           []byte
	PageCount      int
	RenderDuration time.Duration
	// ArchiveKey is set when the document was archived in object storage
	ArchiveKey string
}
