package printing

import (
	"context"
	"html/template"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTemplateEngine_RenderOrder(t *testing.T) {
	engine := NewTemplateEngine(WithLocation(time.UTC))
	doc := sampleDocument(t, true, true, 1)

	html, err := engine.RenderOrder(context.Background(), doc)
	require.NoError(t, err)

	assert.Contains(t, html, "<!DOCTYPE html>")
	assert.Contains(t, html, "Pedido Confirmado")
	assert.Contains(t, html, "PED-2026-00042")
	assert.Contains(t, html, "Auto Peças São João")
	assert.Contains(t, html, "R$ 81,46")
	assert.Contains(t, html, "R$ 814,60")
	assert.Contains(t, html, "18,54%")
	assert.Contains(t, html, "R$ 40,73", "commission is shown to internal readers")
	assert.Contains(t, html, "Emissão: ")
	assert.Contains(t, html, "Gerado em 04/05/2026 13:30")
	assert.Contains(t, html, `src="data:image/png;base64,`)
}

func TestTemplateEngine_HidesCommission(t *testing.T) {
	engine := NewTemplateEngine()
	doc := sampleDocument(t, true, false, 1)

	html, err := engine.RenderOrder(context.Background(), doc)
	require.NoError(t, err)

	assert.NotContains(t, html, "Comissão")
	assert.NotContains(t, html, "R$ 40,73")
}

func TestTemplateEngine_Quotation(t *testing.T) {
	engine := NewTemplateEngine()
	doc := sampleDocument(t, false, true, 0)
	doc.VerificationURL = ""

	html, err := engine.RenderOrder(context.Background(), doc)
	require.NoError(t, err)

	assert.Contains(t, html, "Orçamento")
	assert.Contains(t, html, "Nenhum item.")
	assert.NotContains(t, html, "<img")
}

func TestTemplateEngine_EscapesContent(t *testing.T) {
	engine := NewTemplateEngine()
	doc := sampleDocument(t, false, false, 0)
	doc.Notes = "<script>alert(1)</script>"

	html, err := engine.RenderOrder(context.Background(), doc)
	require.NoError(t, err)
	assert.NotContains(t, html, "<script>alert(1)</script>")
	assert.Contains(t, html, "&lt;script&gt;")
}

func TestTemplateEngine_NilDocument(t *testing.T) {
	_, err := NewTemplateEngine().RenderOrder(context.Background(), nil)
	var renderErr *RenderError
	require.ErrorAs(t, err, &renderErr)
	assert.Equal(t, ErrCodeInvalidDocument, renderErr.Code)
}

func TestTemplateEngine_FuncMap(t *testing.T) {
	engine := NewTemplateEngine(WithLocation(time.UTC), WithFuncs(template.FuncMap{"shout": func(s string) string { return s + "!" }}))
	funcs := engine.FuncMap()

	qty := funcs["qty"].(func(int64) string)
	assert.Equal(t, "1.250", qty(1250))

	date := funcs["date"].(func(time.Time) string)
	assert.Equal(t, "04/05/2026", date(time.Date(2026, 5, 4, 1, 0, 0, 0, time.UTC)))

	assert.Contains(t, funcs, "shout")
}
