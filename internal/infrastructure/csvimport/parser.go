package csvimport

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"
)

// Parser reads a row-oriented delimited file with a header row. Header names
// are resolved against a fixed column set per import type; unknown columns
// are carried but ignored by callers.
type Parser struct {
	delimiter  rune
	headerMap  map[string]int
	headers    []string
	currentRow int
	reader     *csv.Reader
}

// ParserOption is a functional option for Parser configuration
type ParserOption func(*Parser)

// WithDelimiter sets the field delimiter (default is comma)
func WithDelimiter(d rune) ParserOption {
	return func(p *Parser) {
		p.delimiter = d
	}
}

// NewParser creates a parser from a reader, stripping a UTF-8 BOM if present
// and rejecting non-UTF-8 input. The whole payload is buffered; upload size
// limits are enforced by the caller before parsing.
func NewParser(r io.Reader, opts ...ParserOption) (*Parser, error) {
	p := &Parser{
		delimiter: ',',
		headerMap: make(map[string]int),
	}
	for _, opt := range opts {
		opt(p)
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	if len(data) >= 3 && data[0] == 0xEF && data[1] == 0xBB && data[2] == 0xBF {
		data = data[3:]
	}
	if len(data) == 0 {
		return nil, ErrEmptyFile
	}
	if !utf8.Valid(data) {
		return nil, ErrInvalidEncoding
	}

	p.reader = csv.NewReader(bytes.NewReader(data))
	p.reader.Comma = p.delimiter
	p.reader.LazyQuotes = true
	p.reader.TrimLeadingSpace = true
	p.reader.FieldsPerRecord = -1

	return p, nil
}

// ParseFromBytes creates a parser from a byte slice
func ParseFromBytes(data []byte, opts ...ParserOption) (*Parser, error) {
	return NewParser(bytes.NewReader(data), opts...)
}

// ParseHeader reads and indexes the header row
func (p *Parser) ParseHeader() error {
	record, err := p.reader.Read()
	if err == io.EOF {
		return ErrMissingHeader
	}
	if err != nil {
		return fmt.Errorf("failed to read header: %w", err)
	}

	p.headers = make([]string, len(record))
	for i, h := range record {
		header := strings.TrimSpace(h)
		p.headers[i] = header
		p.headerMap[header] = i
	}
	if len(p.headers) == 0 {
		return ErrMissingHeader
	}

	p.currentRow = 0 // data rows number from 1; the header is not counted
	return nil
}

// Headers returns the parsed header names
func (p *Parser) Headers() []string {
	return p.headers
}

// HasHeader checks if a header exists
func (p *Parser) HasHeader(name string) bool {
	_, ok := p.headerMap[name]
	return ok
}

// RequireColumns returns a structural error naming every required column
// absent from the header
func (p *Parser) RequireColumns(required []string) error {
	var missing []string
	for _, c := range required {
		if !p.HasHeader(c) {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return &MissingColumnsError{Columns: missing}
	}
	return nil
}

// Row is one parsed data row. LineNumber is the 1-based data row number,
// excluding the header; skipped empty lines still consume a number so
// attribution stays stable against the source file.
type Row struct {
	LineNumber int
	Data       map[string]string
	Malformed  bool   // the csv layer could not parse this line
	ParseError string // populated when Malformed
}

// Get returns the value for a column by header name
func (r *Row) Get(header string) string {
	return r.Data[header]
}

// IsEmpty returns true if the row has no non-empty values
func (r *Row) IsEmpty() bool {
	for _, v := range r.Data {
		if v != "" {
			return false
		}
	}
	return true
}

// Snapshot returns the row's data as a JSON object for error records
func (r *Row) Snapshot() string {
	data, err := json.Marshal(r.Data)
	if err != nil {
		return "{}"
	}
	return string(data)
}

// ReadRow reads the next data row. Malformed lines are returned as rows with
// Malformed set rather than failing the file; only io.EOF ends the stream.
func (p *Parser) ReadRow() (*Row, error) {
	record, err := p.reader.Read()
	if err == io.EOF {
		return nil, io.EOF
	}
	p.currentRow++
	if err != nil {
		return &Row{
			LineNumber: p.currentRow,
			Data:       make(map[string]string),
			Malformed:  true,
			ParseError: err.Error(),
		}, nil
	}

	row := &Row{
		LineNumber: p.currentRow,
		Data:       make(map[string]string, len(p.headers)),
	}
	for i, header := range p.headers {
		if i < len(record) {
			row.Data[header] = strings.TrimSpace(record[i])
		} else {
			row.Data[header] = ""
		}
	}
	return row, nil
}

// ReadAllRows reads every remaining data row, skipping fully empty lines
func (p *Parser) ReadAllRows() ([]*Row, error) {
	var rows []*Row
	for {
		row, err := p.ReadRow()
		if err == io.EOF {
			break
		}
		if err != nil {
			return rows, err
		}
		if !row.Malformed && row.IsEmpty() {
			continue
		}
		rows = append(rows, row)
	}
	return rows, nil
}
