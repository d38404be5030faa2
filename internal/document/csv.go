package document

import (
	"bytes"
	"encoding/csv"
	"fmt"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// ParseCSV reads comma-delimited UTF-8 text, first row as header. A leading
// BOM is stripped. Rows whose field count differs from the header are a parse
// error.
func ParseCSV(data []byte) (*Table, error) {
	decoder := unicode.UTF8BOM.NewDecoder()
	reader := csv.NewReader(transform.NewReader(bytes.NewReader(data), decoder))

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("CSV file is empty")
	}

	return &Table{Header: records[0], Rows: records[1:]}, nil
}

// MarshalCSV serializes a table back to comma-delimited text with a UTF-8
// BOM, which spreadsheet applications rely on to pick the right encoding.
func MarshalCSV(t *Table) ([]byte, error) {
	var buf bytes.Buffer
	encoder := transform.NewWriter(&buf, unicode.UTF8BOM.NewEncoder())

	writer := csv.NewWriter(encoder)
	records := make([][]string, 0, len(t.Rows)+1)
	records = append(records, t.Header)
	records = append(records, t.Rows...)

	if err := writer.WriteAll(records); err != nil {
		return nil, fmt.Errorf("failed to write CSV: %w", err)
	}
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush CSV: %w", err)
	}
	if err := encoder.Close(); err != nil {
		return nil, fmt.Errorf("failed to finish CSV encoding: %w", err)
	}

	return buf.Bytes(), nil
}
