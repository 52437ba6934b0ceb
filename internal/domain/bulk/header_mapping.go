package bulk

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/filterdesk/backend/internal/domain/shared"
	"golang.org/x/text/unicode/norm"
)

// Canonical column keys produced by header mapping
const (
	FieldCode              = "code"
	FieldName              = "name"
	FieldTradeName         = "trade_name"
	FieldCNPJ              = "cnpj"
	FieldStateRegistration = "state_registration"
	FieldPhone             = "phone"
	FieldEmail             = "email"
	FieldAddress           = "address"
	FieldCity              = "city"
	FieldState             = "state"
	FieldZipCode           = "zip_code"
	FieldRegion            = "region"
	FieldRepresentative    = "representative"

	FieldBrand       = "brand"
	FieldDescription = "description"
	FieldCategory    = "category"
	FieldApplication = "application"
	FieldPrice       = "price"
	FieldBarcode     = "barcode"
)

// PreviewRows is the number of mapped rows shown before commit
const PreviewRows = 5

// ErrMissingIdentifier is returned when neither name nor code could be mapped
var ErrMissingIdentifier = shared.NewDomainError("IMPORT_MISSING_IDENTIFIER",
	"The file must have a name or code column (e.g. \"Nome\", \"Razão Social\", \"Código\")")

// headerRule maps a header to a canonical key when any keyword matches.
// Keywords in exact only match the whole header, words only a whole word of it.
type headerRule struct {
	keywords []string
	exact    []string
	words    []string
	key      string
}

func (r headerRule) matches(header string) bool {
	for _, e := range r.exact {
		if header == e {
			return true
		}
	}
	if len(r.words) > 0 {
		for _, w := range strings.FieldsFunc(header, func(c rune) bool {
			return !unicode.IsLetter(c) && !unicode.IsDigit(c)
		}) {
			for _, want := range r.words {
				if w == want {
					return true
				}
			}
		}
	}
	for _, k := range r.keywords {
		if strings.Contains(header, k) {
			return true
		}
	}
	return false
}

// Order matters: "razão social" must beat "nome", "código de barras" must beat "código".
var clientRules = []headerRule{
	{keywords: []string{"endereço", "endereco", "logradouro"}, key: FieldAddress},
	{keywords: []string{"cidade", "município", "municipio"}, key: FieldCity},
	{keywords: []string{"estado"}, key: FieldState},
	{exact: []string{"uf"}, key: FieldState},
	{keywords: []string{"cep", "postal"}, key: FieldZipCode},
	{keywords: []string{"razão social", "razao social"}, key: FieldName},
	{keywords: []string{"fantasia"}, key: FieldTradeName},
	{keywords: []string{"inscrição", "inscricao"}, exact: []string{"ie"}, key: FieldStateRegistration},
	{keywords: []string{"cnpj", "cpf"}, key: FieldCNPJ},
	{keywords: []string{"e-mail", "email"}, key: FieldEmail},
	{keywords: []string{"whatsapp", "telefone", "fone", "celular"}, key: FieldPhone},
	{keywords: []string{"região", "regiao"}, key: FieldRegion},
	{keywords: []string{"representante", "vendedor"}, key: FieldRepresentative},
	{keywords: []string{"cod", "código", "codigo"}, key: FieldCode},
	{keywords: []string{"nome", "cliente"}, key: FieldName},
}

var productRules = []headerRule{
	{keywords: []string{"código de barras", "codigo de barras", "gtin"}, words: []string{"ean", "ean13"}, key: FieldBarcode},
	{keywords: []string{"aplicação", "aplicacao", "veículo", "veiculo"}, key: FieldApplication},
	{keywords: []string{"descrição", "descricao"}, key: FieldDescription},
	{keywords: []string{"categoria", "linha", "grupo"}, key: FieldCategory},
	{exact: []string{"marca"}, key: FieldBrand},
	{keywords: []string{"fabricante"}, key: FieldBrand},
	{keywords: []string{"preço", "preco", "valor"}, key: FieldPrice},
	{keywords: []string{"referência", "referencia"}, exact: []string{"ref"}, key: FieldCode},
	{keywords: []string{"cod", "código", "codigo"}, key: FieldCode},
	{keywords: []string{"produto", "nome"}, key: FieldName},
}

func rulesFor(entity ImportEntityType) []headerRule {
	if entity == ImportEntityProducts {
		return productRules
	}
	return clientRules
}

// NormalizeHeader puts a raw header in the form keyword matching runs on
func NormalizeHeader(raw string) string {
	return strings.TrimSpace(strings.ToLower(norm.NFC.String(raw)))
}

// CanonicalKey returns the canonical key for a header, or false when no rule matches
func CanonicalKey(entity ImportEntityType, raw string) (string, bool) {
	header := NormalizeHeader(raw)
	if header == "" {
		return "", false
	}
	for _, rule := range rulesFor(entity) {
		if rule.matches(header) {
			return rule.key, true
		}
	}
	return "", false
}

// HeaderMapping is the mapping decision for one column
type HeaderMapping struct {
	Raw       string `json:"raw"`
	Canonical string `json:"canonical"`
	Mapped    bool   `json:"mapped"`
}

// MapHeaders maps every column of a file. Unmatched headers and later duplicates
// of an already used canonical key keep their raw text, suffixed with the
// column number when that text is a canonical key or repeats another column.
func MapHeaders(entity ImportEntityType, headers []string) []HeaderMapping {
	used := make(map[string]bool, len(headers))
	result := make([]HeaderMapping, len(headers))
	var passthrough []int
	for i, raw := range headers {
		result[i] = HeaderMapping{Raw: raw}
		key, ok := CanonicalKey(entity, raw)
		if !ok || used[key] {
			passthrough = append(passthrough, i)
			continue
		}
		used[key] = true
		result[i].Canonical = key
		result[i].Mapped = true
	}

	for _, i := range passthrough {
		name := strings.TrimSpace(headers[i])
		if name == "" {
			name = fmt.Sprintf("column %d", i+1)
		}
		if used[name] || canonicalKeys[name] {
			name = fmt.Sprintf("%s (%d)", name, i+1)
		}
		used[name] = true
		result[i].Canonical = name
	}
	return result
}

var canonicalKeys = func() map[string]bool {
	keys := make(map[string]bool)
	for _, rules := range [][]headerRule{clientRules, productRules} {
		for _, r := range rules {
			keys[r.key] = true
		}
	}
	return keys
}()

// ValidateMinimumFields checks that the mapped columns identify each row
func ValidateMinimumFields(mappings []HeaderMapping) error {
	for _, m := range mappings {
		if m.Mapped && (m.Canonical == FieldName || m.Canonical == FieldCode) {
			return nil
		}
	}
	return ErrMissingIdentifier
}

// Row is one data row keyed by canonical names plus passthrough headers
type Row map[string]string

// Get returns the trimmed value for key
func (r Row) Get(key string) string {
	return strings.TrimSpace(r[key])
}

// ApplyMapping turns raw records into rows. Short records leave missing cells empty.
func ApplyMapping(mappings []HeaderMapping, records [][]string) []Row {
	rows := make([]Row, 0, len(records))
	for _, record := range records {
		row := make(Row, len(mappings))
		for i, m := range mappings {
			if i < len(record) {
				row[m.Canonical] = record[i]
			} else {
				row[m.Canonical] = ""
			}
		}
		rows = append(rows, row)
	}
	return rows
}

// Preview returns at most PreviewRows rows
func Preview(rows []Row) []Row {
	if len(rows) > PreviewRows {
		return rows[:PreviewRows]
	}
	return rows
}
