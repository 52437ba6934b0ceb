package printing

import (
	"bytes"
	"context"
	"errors"
	"runtime/pprof"
	"testing"
	"time"

	"github.com/filterdesk/backend/internal/domain/printing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGofpdfRenderer_Render(t *testing.T) {
	r := NewGofpdfRenderer(nil)
	doc := sampleDocument(t, true, true, 3)

	result, err := r.Render(context.Background(), &RenderRequest{
		Document:    doc,
		PaperSize:   printing.PaperSizeA4,
		Orientation: printing.OrientationPortrait,
		Margins:     printing.DefaultMargins(),
	})
	require.NoError(t, err)

	assert.True(t, bytes.HasPrefix(result.PDFData, []byte("%PDF-")))
	assert.Equal(t, 1, result.PageCount)
	assert.Equal(t, printing.EngineGofpdf, r.Engine())
	assert.NoError(t, r.Close())
}

func TestGofpdfRenderer_PaginatesLongOrders(t *testing.T) {
	r := NewGofpdfRenderer(nil)
	doc := sampleDocument(t, false, false, 80)

	result, err := r.Render(context.Background(), &RenderRequest{
		Document:  doc,
		PaperSize: printing.PaperSizeA5,
	})
	require.NoError(t, err)
	assert.Greater(t, result.PageCount, 1)
}

func TestGofpdfRenderer_Landscape(t *testing.T) {
	r := NewGofpdfRenderer(nil)
	result, err := r.Render(context.Background(), &RenderRequest{
		Document:    sampleDocument(t, true, false, 2),
		PaperSize:   printing.PaperSizeA4,
		Orientation: printing.OrientationLandscape,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, result.PDFData)
}

func TestGofpdfRenderer_InvalidRequests(t *testing.T) {
	r := NewGofpdfRenderer(nil)

	tests := []struct {
		name string
		ctx  context.Context
		req  *RenderRequest
		code string
	}{
		{"nil request", context.Background(), nil, ErrCodeInvalidDocument},
		{"nil document", context.Background(), &RenderRequest{PaperSize: printing.PaperSizeA4}, ErrCodeInvalidDocument},
		{"bad paper", context.Background(), &RenderRequest{Document: &printing.OrderDocument{}, PaperSize: "Letter"}, ErrCodeInvalidPaperSize},
		{"cancelled", cancelledContext(), &RenderRequest{Document: &printing.OrderDocument{}, PaperSize: printing.PaperSizeA4}, ErrCodeRenderTimeout},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := r.Render(tt.ctx, tt.req)
			var renderErr *RenderError
			require.ErrorAs(t, err, &renderErr)
			assert.Equal(t, tt.code, renderErr.Code)
		})
	}
}

func cancelledContext() context.Context {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	return ctx
}

func TestChromedpRenderer_Validation(t *testing.T) {
	r := NewChromedpRenderer(ChromedpConfig{DefaultTimeout: time.Second})
	defer r.Close()

	assert.Equal(t, printing.EngineChromedp, r.Engine())

	_, err := r.Render(context.Background(), &RenderRequest{HTML: "  ", PaperSize: printing.PaperSizeA4})
	var renderErr *RenderError
	require.ErrorAs(t, err, &renderErr)
	assert.Equal(t, ErrCodeInvalidHTML, renderErr.Code)

	_, err = r.Render(context.Background(), &RenderRequest{HTML: "<p>x</p>", PaperSize: "B5"})
	require.ErrorAs(t, err, &renderErr)
	assert.Equal(t, ErrCodeInvalidPaperSize, renderErr.Code)
}

func TestBuildPrintParams(t *testing.T) {
	params := buildPrintParams(&RenderRequest{
		PaperSize:   printing.PaperSizeA4,
		Orientation: printing.OrientationLandscape,
		Margins:     printing.Margins{Top: 10, Right: 5, Bottom: 10, Left: 5},
	})

	assert.InDelta(t, 8.27, params.paperWidth, 0.01)
	assert.InDelta(t, 11.69, params.paperHeight, 0.01)
	assert.InDelta(t, 0.394, params.marginTop, 0.001)
	assert.InDelta(t, 0.197, params.marginLeft, 0.001)
	assert.True(t, params.landscape)
}

func TestBuildCompleteHTML(t *testing.T) {
	full := "<!DOCTYPE html><html><body>x</body></html>"
	assert.Equal(t, full, buildCompleteHTML(&RenderRequest{HTML: full}))

	wrapped := buildCompleteHTML(&RenderRequest{HTML: "<p>x</p>", Title: "A & B"})
	assert.Contains(t, wrapped, "<title>A &amp; B</title>")
	assert.Contains(t, wrapped, "<body><p>x</p></body>")
}

func TestEstimatePageCount(t *testing.T) {
	assert.Equal(t, 1, estimatePageCount([]byte("no pages")))
	assert.Equal(t, 2, estimatePageCount([]byte("/Type /Pages /Type /Page /Type /Page")))
}

func TestRenderError(t *testing.T) {
	cause := errors.New("boom")
	err := NewRenderError(ErrCodeRenderFailed, "render failed", cause)
	assert.Equal(t, "render failed: boom", err.Error())
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "plain", NewRenderError(ErrCodeRenderFailed, "plain", nil).Error())
}

func TestQRCode(t *testing.T) {
	png, err := QRCodePNG("https://app.example.com/orders/PED-2026-00001", 0)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(png, []byte("\x89PNG")))

	url, err := QRCodeDataURL("PED-2026-00001", 64)
	require.NoError(t, err)
	assert.Contains(t, url, "data:image/png;base64,")

	_, err = QRCodePNG("", 64)
	assert.Error(t, err)
}

type labelRecordingRenderer struct {
	engine string
}

func (r *labelRecordingRenderer) Render(ctx context.Context, _ *RenderRequest) (*RenderResult, error) {
	r.engine, _ = pprof.Label(ctx, "engine")
	return &RenderResult{PDFData: []byte("%PDF-1.4"), PageCount: 1}, nil
}

func (r *labelRecordingRenderer) Engine() printing.Engine { return printing.EngineChromedp }
func (r *labelRecordingRenderer) Close() error            { return nil }

func TestWithProfilingLabels(t *testing.T) {
	inner := &labelRecordingRenderer{}
	r := WithProfilingLabels(inner)

	result, err := r.Render(context.Background(), &RenderRequest{})
	require.NoError(t, err)
	assert.Equal(t, 1, result.PageCount)
	assert.Equal(t, string(printing.EngineChromedp), inner.engine)
	assert.Equal(t, printing.EngineChromedp, r.Engine())
}
