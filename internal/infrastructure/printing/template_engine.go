package printing

import (
	"bytes"
	"context"
	"embed"
	"html/template"
	"maps"
	"time"

	"github.com/filterdesk/backend/internal/domain/printing"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

//go:embed templates/*.html
var templateFS embed.FS

const orderTemplate = "order.html"

// TemplateEngine renders the HTML print view of orders with html/template
type TemplateEngine struct {
	funcMap  template.FuncMap
	location *time.Location
	tmpl     *template.Template
}

// TemplateEngineOption configures the template engine
type TemplateEngineOption func(*TemplateEngine)

// WithLocation sets the time zone dates are printed in (default America/Sao_Paulo)
func WithLocation(loc *time.Location) TemplateEngineOption {
	return func(e *TemplateEngine) {
		e.location = loc
	}
}

// WithFuncs adds or overrides template functions
func WithFuncs(funcs template.FuncMap) TemplateEngineOption {
	return func(e *TemplateEngine) {
		maps.Copy(e.funcMap, funcs)
	}
}

// NewTemplateEngine parses the embedded templates. It panics if they do not
// parse, which only a broken build can cause.
func NewTemplateEngine(opts ...TemplateEngineOption) *TemplateEngine {
	loc, err := time.LoadLocation("America/Sao_Paulo")
	if err != nil {
		loc = time.FixedZone("BRT", -3*60*60)
	}

	e := &TemplateEngine{location: loc}
	printer := message.NewPrinter(language.BrazilianPortuguese)

	e.funcMap = template.FuncMap{
		"qty": func(n int64) string {
			return printer.Sprintf("%d", n)
		},
		"date": func(t time.Time) string {
			return t.In(e.location).Format("02/01/2006")
		},
		"datetime": func(t time.Time) string {
			return t.In(e.location).Format("02/01/2006 15:04")
		},
		"qrcode": func(content string) template.URL {
			if content == "" {
				return ""
			}
			url, err := QRCodeDataURL(content, 160)
			if err != nil {
				return ""
			}
			return template.URL(url)
		},
	}

	for _, opt := range opts {
		opt(e)
	}

	e.tmpl = template.Must(template.New("").Funcs(e.funcMap).ParseFS(templateFS, "templates/*.html"))
	return e
}

// RenderOrder renders the order print view
func (e *TemplateEngine) RenderOrder(_ context.Context, doc *printing.OrderDocument) (string, error) {
	if doc == nil {
		return "", NewRenderError(ErrCodeInvalidDocument, "order document is nil", nil)
	}

	var buf bytes.Buffer
	if err := e.tmpl.ExecuteTemplate(&buf, orderTemplate, doc); err != nil {
		return "", NewRenderError(ErrCodeRenderFailed, "failed to execute template", err)
	}
	return buf.String(), nil
}

// FuncMap returns a copy of the template function map
func (e *TemplateEngine) FuncMap() template.FuncMap {
	funcMap := make(template.FuncMap, len(e.funcMap))
	maps.Copy(funcMap, e.funcMap)
	return funcMap
}
