package printing

import (
	"context"
	"fmt"
	"strings"
	"time"

	appshared "github.com/filterdesk/backend/internal/application/shared"
	"github.com/filterdesk/backend/internal/domain/printing"
	"github.com/filterdesk/backend/internal/domain/shared"
	"github.com/filterdesk/backend/internal/domain/trade"
	infra "github.com/filterdesk/backend/internal/infrastructure/printing"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrEngineUnavailable is returned when the requested PDF engine is not configured
var ErrEngineUnavailable = shared.NewDomainError("ENGINE_UNAVAILABLE", "The requested PDF engine is not available")

// OrderLoader returns an order the actor is allowed to see
type OrderLoader interface {
	Load(ctx context.Context, actor appshared.Actor, id uuid.UUID) (*trade.Order, error)
}

// DocumentArchive keeps a copy of every generated PDF
type DocumentArchive interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) error
}

// RenderMetrics records PDF render attempts
type RenderMetrics interface {
	PDFRendered(ctx context.Context, engine string, d time.Duration, err error)
}

// PrintService renders the HTML print view and PDF documents of orders. All
// targets format the same pricing summary, so the screen, the print view and
// both PDF engines show identical figures.
type PrintService struct {
	orders        OrderLoader
	templates     *infra.TemplateEngine
	renderers     map[printing.Engine]infra.PDFRenderer
	defaultEngine printing.Engine
	archive       DocumentArchive
	company       printing.Company
	baseURL       string
	renderTimeout time.Duration
	metrics       RenderMetrics
	logger        *zap.Logger
	now           func() time.Time
}

// PrintServiceConfig groups the collaborators and settings of PrintService
type PrintServiceConfig struct {
	Orders        OrderLoader
	Templates     *infra.TemplateEngine
	Renderers     []infra.PDFRenderer
	DefaultEngine printing.Engine
	// Archive is optional; nil disables archiving
	Archive       DocumentArchive
	Company       printing.Company
	BaseURL       string
	RenderTimeout time.Duration
	Metrics       RenderMetrics
	Logger        *zap.Logger
}

// NewPrintService creates a new PrintService
func NewPrintService(cfg PrintServiceConfig) *PrintService {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	templates := cfg.Templates
	if templates == nil {
		templates = infra.NewTemplateEngine()
	}

	s := &PrintService{
		orders:        cfg.Orders,
		templates:     templates,
		renderers:     make(map[printing.Engine]infra.PDFRenderer, len(cfg.Renderers)),
		defaultEngine: cfg.DefaultEngine,
		archive:       cfg.Archive,
		company:       cfg.Company,
		baseURL:       strings.TrimRight(cfg.BaseURL, "/"),
		renderTimeout: cfg.RenderTimeout,
		metrics:       cfg.Metrics,
		logger:        logger,
		now:           time.Now,
	}
	for _, r := range cfg.Renderers {
		s.renderers[r.Engine()] = r
	}
	if !s.defaultEngine.IsValid() {
		s.defaultEngine = printing.EngineGofpdf
	}
	return s
}

// Document builds the display-ready document for an order
func (s *PrintService) Document(ctx context.Context, actor appshared.Actor, orderID uuid.UUID, withCommission bool) (*printing.OrderDocument, error) {
	order, err := s.orders.Load(ctx, actor, orderID)
	if err != nil {
		return nil, err
	}
	return printing.BuildOrderDocument(order, s.company, s.verificationURL(order), withCommission, s.now()), nil
}

// PrintHTML renders the browser print view
func (s *PrintService) PrintHTML(ctx context.Context, actor appshared.Actor, orderID uuid.UUID, req HTMLRequest) (string, error) {
	doc, err := s.Document(ctx, actor, orderID, req.WithCommission)
	if err != nil {
		return "", err
	}
	return s.templates.RenderOrder(ctx, doc)
}

// GeneratePDF renders the order as PDF with the requested engine and archives
// the result when an archive is configured. Archive failures are logged only.
func (s *PrintService) GeneratePDF(ctx context.Context, actor appshared.Actor, orderID uuid.UUID, req PDFRequest) (*PDFResponse, error) {
	engine := s.defaultEngine
	if req.Engine != "" {
		engine = printing.Engine(req.Engine)
	}
	renderer, ok := s.renderers[engine]
	if !ok {
		return nil, ErrEngineUnavailable
	}

	paper := printing.PaperSizeA4
	if req.PaperSize != "" {
		paper = printing.PaperSize(req.PaperSize)
	}
	if !paper.IsValid() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Invalid paper size")
	}
	orientation := printing.OrientationPortrait
	if req.Landscape {
		orientation = printing.OrientationLandscape
	}

	doc, err := s.Document(ctx, actor, orderID, req.WithCommission)
	if err != nil {
		return nil, err
	}

	renderReq := &infra.RenderRequest{
		Document:    doc,
		PaperSize:   paper,
		Orientation: orientation,
		Margins:     printing.DefaultMargins(),
		Title:       doc.Title,
		Timeout:     s.renderTimeout,
	}
	if engine == printing.EngineChromedp {
		html, err := s.templates.RenderOrder(ctx, doc)
		if err != nil {
			return nil, fmt.Errorf("failed to render print view: %w", err)
		}
		renderReq.HTML = html
	}

	started := time.Now()
	result, err := renderer.Render(ctx, renderReq)
	if s.metrics != nil {
		s.metrics.PDFRendered(ctx, engine.String(), time.Since(started), err)
	}
	if err != nil {
		s.logger.Error("PDF rendering failed",
			zap.String("order", doc.Number),
			zap.String("engine", engine.String()),
			zap.Error(err))
		return nil, fmt.Errorf("failed to render PDF: %w", err)
	}

	resp := &PDFResponse{
		FileName:       doc.Number + ".pdf",
		Engine:         engine.String(),
		Data:           result.PDFData,
		PageCount:      result.PageCount,
		RenderDuration: result.RenderDuration,
	}
	resp.ArchiveKey = s.archivePDF(ctx, doc.Number, engine, result.PDFData)

	s.logger.Info("PDF generated",
		zap.String("order", doc.Number),
		zap.String("engine", engine.String()),
		zap.Int("pages", result.PageCount),
		zap.Duration("duration", result.RenderDuration))
	return resp, nil
}

// Engines lists the configured PDF engines
func (s *PrintService) Engines() []string {
	engines := make([]string, 0, len(s.renderers))
	for _, e := range []printing.Engine{printing.EngineChromedp, printing.EngineGofpdf} {
		if _, ok := s.renderers[e]; ok {
			engines = append(engines, e.String())
		}
	}
	return engines
}

// Close releases renderer resources
func (s *PrintService) Close() error {
	var firstErr error
	for _, r := range s.renderers {
		if err := r.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (s *PrintService) archivePDF(ctx context.Context, number string, engine printing.Engine, data []byte) string {
	if s.archive == nil {
		return ""
	}
	key := ArchiveKey(number, engine, s.now())
	if err := s.archive.Upload(ctx, key, data, "application/pdf"); err != nil {
		s.logger.Warn("failed to archive order PDF", zap.String("key", key), zap.Error(err))
		return ""
	}
	return key
}

func (s *PrintService) verificationURL(order *trade.Order) string {
	if s.baseURL == "" {
		return ""
	}
	return s.baseURL + "/orders/" + order.ID.String()
}

// ArchiveKey returns orders/<number>/<engine>-<timestamp>.pdf
func ArchiveKey(number string, engine printing.Engine, at time.Time) string {
	return fmt.Sprintf("orders/%s/%s-%s.pdf", number, engine, at.UTC().Format("20060102T150405Z"))
}
