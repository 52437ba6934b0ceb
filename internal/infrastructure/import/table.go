// Package csvimport reads uploaded CSV and XLSX files into a header row plus
// data records. Header mapping happens in the bulk domain package.
package csvimport

import (
	"path/filepath"
	"strings"
)

// Table is the raw content of an uploaded file
type Table struct {
	Headers []string
	Records [][]string
}

// Len returns the number of data records
func (t *Table) Len() int {
	return len(t.Records)
}

type options struct {
	delimiter  rune
	lazyQuotes bool
	maxRows    int
}

// Option is a functional option for parsing
type Option func(*options)

// WithDelimiter forces the field delimiter instead of detecting it
func WithDelimiter(d rune) Option {
	return func(o *options) {
		o.delimiter = d
	}
}

// WithLazyQuotes tolerates quotes inside unquoted fields
func WithLazyQuotes(lazy bool) Option {
	return func(o *options) {
		o.lazyQuotes = lazy
	}
}

// WithMaxRows rejects files with more data rows than limit (0 disables the check)
func WithMaxRows(limit int) Option {
	return func(o *options) {
		o.maxRows = limit
	}
}

// Parse dispatches on the file extension
func Parse(fileName string, data []byte, opts ...Option) (*Table, error) {
	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".csv", ".txt":
		return ParseCSV(data, opts...)
	case ".xlsx":
		return ParseXLSX(data, opts...)
	default:
		return nil, ErrUnsupportedFormat
	}
}

func buildOptions(opts []Option) options {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// newTable trims cells, drops blank rows and enforces the row limit
func newTable(rows [][]string, o options) (*Table, error) {
	var header []string
	records := make([][]string, 0, len(rows))
	for _, row := range rows {
		cells := make([]string, len(row))
		blank := true
		for i, c := range row {
			cells[i] = strings.TrimSpace(c)
			if cells[i] != "" {
				blank = false
			}
		}
		if blank {
			continue
		}
		if header == nil {
			header = cells
			continue
		}
		records = append(records, cells)
	}

	if header == nil || len(records) == 0 {
		return nil, ErrEmptyFile
	}
	if o.maxRows > 0 && len(records) > o.maxRows {
		return nil, NewTooManyRowsError(o.maxRows)
	}
	return &Table{Headers: header, Records: records}, nil
}
