// Package printing turns order documents into HTML and PDF.
//
// This package contains:
// - TemplateEngine rendering the HTML print view from an OrderDocument
// - ChromedpRenderer converting that HTML to PDF with headless Chrome
// - GofpdfRenderer drawing the same document natively, without a browser
// - QR code helpers used by both outputs
//
// Example usage:
//
//	engine := NewTemplateEngine()
//	html, err := engine.RenderOrder(ctx, doc)
//	if err != nil {
//	    return err
//	}
//
//	result, err := renderer.Render(ctx, &RenderRequest{
//	    HTML:        html,
//	    Document:    doc,
//	    PaperSize:   printing.PaperSizeA4,
//	    Orientation: printing.OrientationPortrait,
//	    Margins:     printing.DefaultMargins(),
//	})
package printing
