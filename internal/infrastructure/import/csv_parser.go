package csvimport

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ParseCSV reads a delimited text file. The delimiter is detected from the
// header line unless forced; files that are not valid UTF-8 are decoded as
// Windows-1252, the default of spreadsheet exports on pt-BR machines.
func ParseCSV(data []byte, opts ...Option) (*Table, error) {
	o := buildOptions(opts)

	data = bytes.TrimPrefix(data, utf8BOM)
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, ErrEmptyFile
	}

	if !utf8.Valid(data) {
		decoded, err := charmap.Windows1252.NewDecoder().Bytes(data)
		if err != nil {
			return nil, NewParseError(fmt.Errorf("unsupported encoding: %w", err))
		}
		data = decoded
	}

	if o.delimiter == 0 {
		o.delimiter = DetectDelimiter(data)
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = o.delimiter
	reader.LazyQuotes = o.lazyQuotes
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	var rows [][]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, NewParseError(toParseError(err))
		}
		rows = append(rows, record)
	}
	return newTable(rows, o)
}

func toParseError(err error) error {
	var pe *csv.ParseError
	if errors.As(err, &pe) {
		return &csvParseError{line: pe.Line, err: pe.Err}
	}
	return err
}

// DetectDelimiter picks the most frequent of ';', ',' and tab in the first
// line, ignoring quoted text. Comma wins ties.
func DetectDelimiter(data []byte) rune {
	counts := map[rune]int{}
	inQuotes := false
	for _, r := range string(firstLine(data)) {
		switch {
		case r == '"':
			inQuotes = !inQuotes
		case inQuotes:
		case r == ',' || r == ';' || r == '\t':
			counts[r]++
		}
	}

	best := ','
	for _, d := range []rune{';', '\t'} {
		if counts[d] > counts[best] {
			best = d
		}
	}
	return best
}

func firstLine(data []byte) []byte {
	if i := bytes.IndexAny(data, "\r\n"); i >= 0 {
		return data[:i]
	}
	return data
}
