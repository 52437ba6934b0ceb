package printing

import (
	"bytes"
	"context"
	"time"

	"github.com/filterdesk/backend/internal/domain/printing"
	"github.com/filterdesk/backend/internal/infrastructure/telemetry"
)

// RenderRequest contains what a renderer needs to produce a PDF. HTML based
// renderers read HTML; native renderers draw Document.
type RenderRequest struct {
	HTML        string
	Document    *printing.OrderDocument
	PaperSize   printing.PaperSize
	Orientation printing.Orientation
	// Margins in millimeters
	Margins printing.Margins
	Title   string
	// Timeout overrides the renderer default
	Timeout time.Duration
}

// RenderResult contains the output from PDF rendering
type RenderResult struct {
	PDFData        []byte
	PageCount      int
	RenderDuration time.Duration
}

// PDFRenderer produces a PDF for an order document
type PDFRenderer interface {
	Render(ctx context.Context, req *RenderRequest) (*RenderResult, error)
	Engine() printing.Engine
	Close() error
}

// RenderError represents an error during rendering
type RenderError struct {
	Code    string
	Message string
	Cause   error
}

func (e *RenderError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *RenderError) Unwrap() error {
	return e.Cause
}

// Error codes for rendering failures
const (
	ErrCodeRenderTimeout    = "RENDER_TIMEOUT"
	ErrCodeRenderFailed     = "RENDER_FAILED"
	ErrCodeInvalidHTML      = "INVALID_HTML"
	ErrCodeInvalidDocument  = "INVALID_DOCUMENT"
	ErrCodeInvalidPaperSize = "INVALID_PAPER_SIZE"
)

// NewRenderError creates a new RenderError
func NewRenderError(code, message string, cause error) *RenderError {
	return &RenderError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// estimatePageCount counts page objects, excluding the /Pages tree nodes
func estimatePageCount(pdfData []byte) int {
	count := bytes.Count(pdfData, []byte("/Type /Page")) - bytes.Count(pdfData, []byte("/Type /Pages"))
	return max(count, 1)
}

func mmToInches(mm float64) float64 {
	return mm / 25.4
}

// WithProfilingLabels tags profile samples taken during Render with the
// engine name
func WithProfilingLabels(r PDFRenderer) PDFRenderer {
	return labelledRenderer{r}
}

type labelledRenderer struct {
	PDFRenderer
}

func (r labelledRenderer) Render(ctx context.Context, req *RenderRequest) (result *RenderResult, err error) {
	labels := map[string]string{telemetry.ProfilingLabelEngine: string(r.Engine())}
	telemetry.WithProfilingLabels(ctx, labels, func(ctx context.Context) {
		result, err = r.PDFRenderer.Render(ctx, req)
	})
	return result, err
}
