package export

import "github.com/filterdesk/backend/internal/domain/catalog"

var productColumns = []column{
	{"Código", 14, styleText},
	{"Produto", 36, styleText},
	{"Marca", 14, styleText},
	{"Categoria", 16, styleText},
	{"Aplicação", 40, styleText},
	{"Descrição", 40, styleText},
	{"Código de barras", 16, styleText},
	{"Preço", 12, styleMoney},
	{"Ativo", 8, styleText},
}

// ProductsWorkbook writes the catalog, one product per row. The headers are
// the ones the product import recognizes, so the file can be edited and
// imported back.
func ProductsWorkbook(products []catalog.Product) ([]byte, error) {
	s, err := newSheet("Produtos", productColumns)
	if err != nil {
		return nil, err
	}

	for i := range products {
		p := &products[i]
		active := "Não"
		if p.Active {
			active = "Sim"
		}
		if err := s.append(
			p.Code, p.Name, p.Brand, p.Category, p.Application,
			p.Description, p.Barcode, p.UnitPrice, active,
		); err != nil {
			return nil, err
		}
	}
	return s.bytes()
}
