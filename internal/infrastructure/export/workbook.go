// Package export writes orders and the catalog as XLSX spreadsheets.
package export

import (
	"bytes"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// ContentType is the MIME type of the generated workbooks
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type column struct {
	title string
	width float64
	style int // index into sheetStyles
}

const (
	styleText = iota
	styleMoney
	stylePercent
	styleInteger
	styleDate
)

type sheetStyles [5]int

// sheet streams one table into a new workbook. Rows must be written in order.
type sheet struct {
	file    *excelize.File
	stream  *excelize.StreamWriter
	columns []column
	styles  sheetStyles
	row     int
}

func newSheet(name string, columns []column) (*sheet, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", name); err != nil {
		return nil, err
	}

	var styles sheetStyles
	var err error
	defs := []*excelize.Style{
		{},
		{CustomNumFmt: strPtr("#,##0.00")},
		{CustomNumFmt: strPtr("0.00")},
		{NumFmt: 1},
		{CustomNumFmt: strPtr("dd/mm/yyyy hh:mm")},
	}
	for i, def := range defs {
		if styles[i], err = f.NewStyle(def); err != nil {
			return nil, fmt.Errorf("failed to create style: %w", err)
		}
	}

	sw, err := f.NewStreamWriter(name)
	if err != nil {
		return nil, err
	}
	for i, c := range columns {
		if err := sw.SetColWidth(i+1, i+1, c.width); err != nil {
			return nil, err
		}
	}

	if err := sw.SetPanes(&excelize.Panes{
		Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft",
	}); err != nil {
		return nil, err
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"DDE4EE"}},
	})
	if err != nil {
		return nil, err
	}
	header := make([]any, len(columns))
	for i, c := range columns {
		header[i] = excelize.Cell{StyleID: headerStyle, Value: c.title}
	}
	if err := sw.SetRow("A1", header, excelize.RowOpts{Height: 18}); err != nil {
		return nil, err
	}

	return &sheet{file: f, stream: sw, columns: columns, styles: styles, row: 1}, nil
}

func (s *sheet) append(values ...any) error {
	s.row++
	cells := make([]any, len(values))
	for i, v := range values {
		cells[i] = excelize.Cell{StyleID: s.styles[s.columns[i].style], Value: cellValue(v)}
	}
	cell, err := excelize.CoordinatesToCellName(1, s.row)
	if err != nil {
		return err
	}
	return s.stream.SetRow(cell, cells)
}

func (s *sheet) bytes() ([]byte, error) {
	defer s.file.Close()
	if s.row > 1 {
		last, err := excelize.CoordinatesToCellName(len(s.columns), s.row)
		if err != nil {
			return nil, err
		}
		if err := s.stream.AddTable(&excelize.Table{Range: "A1:" + last, StyleName: "TableStyleLight9"}); err != nil {
			return nil, err
		}
	}
	if err := s.stream.Flush(); err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := s.file.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// cellValue converts money to a float rounded for display; the sheet keeps
// the arithmetic exact only up to two places.
func cellValue(v any) any {
	switch val := v.(type) {
	case decimal.Decimal:
		return val.Round(2).InexactFloat64()
	case *time.Time:
		if val == nil {
			return ""
		}
		return *val
	default:
		return v
	}
}

func strPtr(s string) *string { return &s }

// FileName builds a timestamped download name, e.g. pedidos-20260315-1430.xlsx
func FileName(prefix string, now time.Time) string {
	return fmt.Sprintf("%s-%s.xlsx", prefix, now.Format("20060102-1504"))
}
