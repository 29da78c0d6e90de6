package csvio

import (
	"bytes"
	"encoding/csv"
	"fmt"
)

// Writer builds a CSV document in memory with a fixed header row
type Writer struct {
	headers []string
	buf     *bytes.Buffer
	w       *csv.Writer
}

// NewWriter creates a writer and emits the header row immediately
func NewWriter(headers []string) (*Writer, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	if err := w.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write header: %w", err)
	}
	return &Writer{headers: headers, buf: buf, w: w}, nil
}

// WriteRecord appends one data row; the record length must match the header
func (w *Writer) WriteRecord(record []string) error {
	if len(record) != len(w.headers) {
		return fmt.Errorf("record has %d fields, header has %d", len(record), len(w.headers))
	}
	return w.w.Write(record)
}

// Bytes flushes and returns the document
func (w *Writer) Bytes() ([]byte, error) {
	w.w.Flush()
	if err := w.w.Error(); err != nil {
		return nil, err
	}
	return w.buf.Bytes(), nil
}
