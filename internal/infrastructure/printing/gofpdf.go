package printing

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/filterdesk/backend/internal/domain/printing"
	"github.com/jung-kurt/gofpdf"
	"go.uber.org/zap"
)

const (
	fontFamily = "Helvetica"
	rowHeight  = 6.0
)

type pdfColumn struct {
	title string
	width float64
	align string
	value func(printing.DocumentLine) string
}

// GofpdfRenderer draws the order document natively. It needs no browser and
// is the fallback when Chrome is unavailable.
type GofpdfRenderer struct {
	logger *zap.Logger
	now    func() time.Time
}

// NewGofpdfRenderer creates a native PDF renderer
func NewGofpdfRenderer(logger *zap.Logger) *GofpdfRenderer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GofpdfRenderer{logger: logger, now: time.Now}
}

// Engine returns the engine name
func (r *GofpdfRenderer) Engine() printing.Engine {
	return printing.EngineGofpdf
}

// Close is a no-op
func (r *GofpdfRenderer) Close() error {
	return nil
}

// Render draws req.Document
func (r *GofpdfRenderer) Render(ctx context.Context, req *RenderRequest) (*RenderResult, error) {
	if req == nil || req.Document == nil {
		return nil, NewRenderError(ErrCodeInvalidDocument, "order document is nil", nil)
	}
	if !req.PaperSize.IsValid() {
		return nil, NewRenderError(ErrCodeInvalidPaperSize, "invalid paper size: "+string(req.PaperSize), nil)
	}
	if err := ctx.Err(); err != nil {
		return nil, NewRenderError(ErrCodeRenderTimeout, "PDF rendering was cancelled", err)
	}

	start := r.now()
	doc := req.Document

	orientation := "P"
	if req.Orientation == printing.OrientationLandscape {
		orientation = "L"
	}
	margins := req.Margins
	if margins == (printing.Margins{}) {
		margins = printing.DefaultMargins()
	}

	pdf := gofpdf.New(orientation, "mm", string(req.PaperSize), "")
	pdf.SetMargins(float64(margins.Left), float64(margins.Top), float64(margins.Right))
	pdf.SetAutoPageBreak(false, float64(margins.Bottom))
	pdf.SetTitle(doc.Title, true)
	pdf.SetCreator(doc.Company.Name, true)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pageW, pageH := pdf.GetPageSize()
	usable := pageW - float64(margins.Left) - float64(margins.Right)
	bottom := pageH - float64(margins.Bottom)
	columns := orderColumns(doc.ShowCommission, usable)

	pdf.AddPage()
	r.drawHeader(pdf, tr, doc, usable)
	r.drawParties(pdf, tr, doc, usable)
	drawTableHeader(pdf, tr, columns)

	pdf.SetFont(fontFamily, "", 8)
	for i, line := range doc.Lines {
		if pdf.GetY()+rowHeight > bottom {
			pdf.AddPage()
			drawTableHeader(pdf, tr, columns)
			pdf.SetFont(fontFamily, "", 8)
		}
		fill := i%2 == 1
		pdf.SetFillColor(244, 246, 249)
		for _, col := range columns {
			text := fit(pdf, tr(col.value(line)), col.width-1)
			pdf.CellFormat(col.width, rowHeight, text, "B", 0, col.align, fill, 0, "")
		}
		pdf.Ln(rowHeight)
	}
	if len(doc.Lines) == 0 {
		pdf.CellFormat(usable, rowHeight, tr("Nenhum item."), "B", 1, "L", false, 0, "")
	}

	if pdf.GetY()+60 > bottom {
		pdf.AddPage()
	}
	r.drawTotals(pdf, tr, doc, usable)
	r.drawFooter(pdf, tr, doc, usable, bottom)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, NewRenderError(ErrCodeRenderFailed, "gofpdf output failed", err)
	}

	data := buf.Bytes()
	result := &RenderResult{
		PDFData:        data,
		PageCount:      pdf.PageCount(),
		RenderDuration: r.now().Sub(start),
	}
	r.logger.Info("PDF rendered",
		zap.String("engine", string(printing.EngineGofpdf)),
		zap.Int("bytes", len(data)),
		zap.Int("pages", result.PageCount),
		zap.Duration("duration", result.RenderDuration))
	return result, nil
}

func orderColumns(showCommission bool, usable float64) []pdfColumn {
	productWidth := 50.0
	if showCommission {
		productWidth = 34
	}
	columns := []pdfColumn{
		{"#", 8, "L", func(l printing.DocumentLine) string { return strconv.Itoa(l.Position) }},
		{"Código", 20, "L", func(l printing.DocumentLine) string { return l.ProductCode }},
		{"Produto", productWidth, "L", func(l printing.DocumentLine) string { return l.ProductName }},
		{"Marca", 20, "L", func(l printing.DocumentLine) string { return l.ProductBrand }},
		{"Qtd", 12, "R", func(l printing.DocumentLine) string { return strconv.FormatInt(l.Quantity, 10) }},
		{"Preço unit.", 20, "R", func(l printing.DocumentLine) string { return l.UnitPrice }},
		{"Desc.", 14, "R", func(l printing.DocumentLine) string { return l.DiscountPercentage }},
		{"Preço líq.", 20, "R", func(l printing.DocumentLine) string { return l.DiscountedUnitPrice }},
		{"Subtotal", 26, "R", func(l printing.DocumentLine) string { return l.Subtotal }},
	}
	if showCommission {
		columns = append(columns, pdfColumn{"Comissão", 16, "R", func(l printing.DocumentLine) string { return l.CommissionAmount }})
	}

	// Widths above add up to 190mm (A4 portrait); scale to the actual page.
	scale := usable / 190
	for i := range columns {
		columns[i].width *= scale
	}
	return columns
}

func (r *GofpdfRenderer) drawHeader(pdf *gofpdf.Fpdf, tr func(string) string, doc *printing.OrderDocument, usable float64) {
	left, top, _, _ := pdf.GetMargins()
	half := usable / 2

	pdf.SetXY(left, top)
	pdf.SetFont(fontFamily, "B", 14)
	pdf.SetTextColor(31, 78, 121)
	pdf.CellFormat(half, 7, tr(doc.Company.Name), "", 0, "L", false, 0, "")
	pdf.SetFont(fontFamily, "B", 12)
	pdf.CellFormat(half, 7, tr(doc.StatusLabel), "", 1, "R", false, 0, "")
	pdf.SetTextColor(34, 34, 34)

	pdf.SetFont(fontFamily, "", 8)
	companyLines := []string{}
	if doc.Company.CNPJ != "" {
		companyLines = append(companyLines, "CNPJ "+doc.Company.CNPJ)
	}
	if doc.Company.Address != "" {
		companyLines = append(companyLines, doc.Company.Address)
	}
	if doc.Company.Phone != "" || doc.Company.Email != "" {
		companyLines = append(companyLines, doc.Company.Phone+" "+doc.Company.Email)
	}
	docLines := []string{doc.Number, "Emissão: " + doc.IssuedAt.Format("02/01/2006")}
	if doc.ConfirmedAt != nil {
		docLines = append(docLines, "Confirmado em: "+doc.ConfirmedAt.Format("02/01/2006 15:04"))
	}

	for i := 0; i < max(len(companyLines), len(docLines)); i++ {
		var c, d string
		if i < len(companyLines) {
			c = companyLines[i]
		}
		if i < len(docLines) {
			d = docLines[i]
		}
		style := ""
		if i == 0 {
			style = "B"
		}
		pdf.CellFormat(half, 4.5, tr(c), "", 0, "L", false, 0, "")
		pdf.SetFont(fontFamily, style, 8)
		pdf.CellFormat(half, 4.5, tr(d), "", 1, "R", false, 0, "")
		pdf.SetFont(fontFamily, "", 8)
	}

	pdf.SetDrawColor(31, 78, 121)
	pdf.SetLineWidth(0.6)
	pdf.Line(left, pdf.GetY()+1, left+usable, pdf.GetY()+1)
	pdf.SetLineWidth(0.2)
	pdf.SetDrawColor(200, 200, 200)
	pdf.Ln(4)
}

func (r *GofpdfRenderer) drawParties(pdf *gofpdf.Fpdf, tr func(string) string, doc *printing.OrderDocument, usable float64) {
	third := usable / 3
	pdf.SetFont(fontFamily, "", 7)
	pdf.SetTextColor(102, 102, 102)
	for _, label := range []string{"CLIENTE", "REPRESENTANTE", "CONDIÇÃO DE PAGAMENTO"} {
		pdf.CellFormat(third, 4, tr(label), "", 0, "L", false, 0, "")
	}
	pdf.Ln(4)

	pdf.SetTextColor(34, 34, 34)
	pdf.SetFont(fontFamily, "B", 9)
	terms := doc.PaymentTerms
	if terms == "" {
		terms = "A combinar"
	}
	pdf.CellFormat(third, 5, fit(pdf, tr(doc.ClientName), third-1), "", 0, "L", false, 0, "")
	pdf.SetFont(fontFamily, "", 9)
	pdf.CellFormat(third, 5, fit(pdf, tr(doc.RepresentativeName), third-1), "", 0, "L", false, 0, "")
	pdf.CellFormat(third, 5, fit(pdf, tr(terms), third-1), "", 1, "L", false, 0, "")
	if doc.ClientCNPJ != "" {
		pdf.SetFont(fontFamily, "", 8)
		pdf.CellFormat(third, 4, "CNPJ "+doc.ClientCNPJ, "", 1, "L", false, 0, "")
	}
	pdf.Ln(3)
}

func drawTableHeader(pdf *gofpdf.Fpdf, tr func(string) string, columns []pdfColumn) {
	pdf.SetFont(fontFamily, "B", 8)
	pdf.SetFillColor(31, 78, 121)
	pdf.SetTextColor(255, 255, 255)
	for _, col := range columns {
		pdf.CellFormat(col.width, 7, tr(col.title), "", 0, col.align, true, 0, "")
	}
	pdf.Ln(7)
	pdf.SetTextColor(34, 34, 34)
}

func (r *GofpdfRenderer) drawTotals(pdf *gofpdf.Fpdf, tr func(string) string, doc *printing.OrderDocument, usable float64) {
	left, _, _, _ := pdf.GetMargins()
	labelW, valueW := 40.0, 35.0
	x := left + usable - labelW - valueW

	rows := [][2]string{
		{"Itens", strconv.FormatInt(doc.ItemCount, 10)},
		{"Valor bruto", doc.GrossAmount},
		{"Descontos", doc.TotalDiscount},
		{"Subtotal", doc.Subtotal},
		{"Impostos", doc.Taxes},
	}
	pdf.Ln(4)
	pdf.SetFont(fontFamily, "", 9)
	for _, row := range rows {
		pdf.SetX(x)
		pdf.CellFormat(labelW, 5, tr(row[0]), "", 0, "L", false, 0, "")
		pdf.CellFormat(valueW, 5, tr(row[1]), "", 1, "R", false, 0, "")
	}

	pdf.SetX(x)
	pdf.SetFont(fontFamily, "B", 11)
	pdf.CellFormat(labelW, 7, "Total", "T", 0, "L", false, 0, "")
	pdf.CellFormat(valueW, 7, tr(doc.Total), "T", 1, "R", false, 0, "")

	if doc.ShowCommission {
		pdf.SetX(x)
		pdf.SetFont(fontFamily, "", 9)
		pdf.CellFormat(labelW, 5, tr("Comissão"), "", 0, "L", false, 0, "")
		pdf.CellFormat(valueW, 5, tr(doc.TotalCommission), "", 1, "R", false, 0, "")
	}

	if doc.Notes != "" {
		pdf.Ln(4)
		pdf.SetFont(fontFamily, "", 7)
		pdf.SetTextColor(102, 102, 102)
		pdf.CellFormat(usable, 4, tr("OBSERVAÇÕES"), "", 1, "L", false, 0, "")
		pdf.SetTextColor(34, 34, 34)
		pdf.SetFont(fontFamily, "", 9)
		pdf.MultiCell(usable, 4.5, tr(doc.Notes), "", "L", false)
	}
}

func (r *GofpdfRenderer) drawFooter(pdf *gofpdf.Fpdf, tr func(string) string, doc *printing.OrderDocument, usable, bottom float64) {
	left, _, _, _ := pdf.GetMargins()
	const qrSize = 24.0

	if doc.VerificationURL != "" {
		png, err := QRCodePNG(doc.VerificationURL, 256)
		if err != nil {
			r.logger.Warn("skipping qr code", zap.String("order", doc.Number), zap.Error(err))
		} else {
			name := "qr-" + doc.Number
			opts := gofpdf.ImageOptions{ImageType: "PNG"}
			pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(png))
			pdf.ImageOptions(name, left+usable-qrSize, bottom-qrSize, qrSize, qrSize, false, opts, 0, doc.VerificationURL)
		}
	}

	pdf.SetXY(left, bottom-4)
	pdf.SetFont(fontFamily, "", 7)
	pdf.SetTextColor(102, 102, 102)
	generated := fmt.Sprintf("Gerado em %s", doc.GeneratedAt.Format("02/01/2006 15:04"))
	pdf.CellFormat(usable-qrSize, 4, tr(generated), "", 0, "L", false, 0, "")
}

// fit truncates text with an ellipsis until it fits width. Text is already
// translated to the single-byte font encoding.
func fit(pdf *gofpdf.Fpdf, text string, width float64) string {
	if pdf.GetStringWidth(text) <= width {
		return text
	}
	for len(text) > 0 && pdf.GetStringWidth(text+"...") > width {
		text = text[:len(text)-1]
	}
	return text + "..."
}

var _ PDFRenderer = (*GofpdfRenderer)(nil)
