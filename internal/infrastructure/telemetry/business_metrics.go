package telemetry

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/metric"
)

// ErrMeterNil is returned when business metrics are built without a meter
var ErrMeterNil = errors.New("telemetry: meter is nil")

// BusinessMetrics counts confirmed orders, committed imports and rendered
// PDFs. A nil *BusinessMetrics records nothing.
type BusinessMetrics struct {
	ordersConfirmed   *Counter
	revenue           *FloatCounter
	commission        *FloatCounter
	importRows        *Counter
	pdfRendered       *Counter
	pdfRenderDuration *Histogram
}

// NewBusinessMetrics creates the instruments on meter
func NewBusinessMetrics(meter metric.Meter) (*BusinessMetrics, error) {
	if meter == nil {
		return nil, ErrMeterNil
	}
	bm := &BusinessMetrics{}
	var err error

	if bm.ordersConfirmed, err = NewCounter(meter,
		"filterdesk_orders_confirmed_total", "Orders confirmed", "{order}"); err != nil {
		return nil, err
	}
	if bm.revenue, err = NewFloatCounter(meter,
		"filterdesk_order_revenue_total", "Net value of confirmed orders", "BRL"); err != nil {
		return nil, err
	}
	if bm.commission, err = NewFloatCounter(meter,
		"filterdesk_order_commission_total", "Commission on confirmed orders", "BRL"); err != nil {
		return nil, err
	}
	if bm.importRows, err = NewCounter(meter,
		"filterdesk_import_rows_total", "Rows written by committed imports", "{row}"); err != nil {
		return nil, err
	}
	if bm.pdfRendered, err = NewCounter(meter,
		"filterdesk_pdf_rendered_total", "Order PDFs rendered", "{document}"); err != nil {
		return nil, err
	}
	if bm.pdfRenderDuration, err = NewHistogram(meter, HistogramOpts{
		Name:        "filterdesk_pdf_render_duration_seconds",
		Description: "Order PDF render latency",
		Unit:        "s",
		Boundaries:  PDFDurationBuckets,
	}); err != nil {
		return nil, err
	}
	return bm, nil
}

// OrderConfirmed records one confirmed order and its amounts
func (bm *BusinessMetrics) OrderConfirmed(ctx context.Context, total, commission decimal.Decimal) {
	if bm == nil {
		return
	}
	bm.ordersConfirmed.Inc(ctx)
	bm.revenue.Add(ctx, total.InexactFloat64())
	bm.commission.Add(ctx, commission.InexactFloat64())
}

// ImportCommitted records the rows written by one import
func (bm *BusinessMetrics) ImportCommitted(ctx context.Context, entity string, rows int) {
	if bm == nil {
		return
	}
	bm.importRows.Add(ctx, int64(rows), AttrImportEntity.String(entity))
}

// PDFRendered records one render attempt
func (bm *BusinessMetrics) PDFRendered(ctx context.Context, engine string, d time.Duration, err error) {
	if bm == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	bm.pdfRendered.Inc(ctx, AttrPDFEngine.String(engine), AttrOutcome.String(outcome))
	bm.pdfRenderDuration.RecordDuration(ctx, d, AttrPDFEngine.String(engine))
}
