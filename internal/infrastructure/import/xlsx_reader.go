package csvimport

import (
	"bytes"

	"github.com/xuri/excelize/v2"
)

// ParseXLSX reads the first sheet of a workbook
func ParseXLSX(data []byte, opts ...Option) (*Table, error) {
	o := buildOptions(opts)
	if len(data) == 0 {
		return nil, ErrEmptyFile
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, NewParseError(err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrEmptyFile
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, NewParseError(err)
	}
	return newTable(rows, o)
}
