package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/text/encoding/charmap"
)

// Encoding names accepted by ReadCSV. Legacy sales exports ship as
// Latin-1; everything produced by this module is UTF-8.
const (
	EncodingUTF8   = "utf-8"
	EncodingLatin1 = "latin-1"
)

// ReadCSV parses a delimited stream into a Table. The first record is the
// header; records with a deviating field count are kept as-is (cells beyond
// the header are dropped on access, short rows read as empty).
func ReadCSV(r io.Reader, encoding string) (*Table, error) {
	switch strings.ToLower(encoding) {
	case EncodingLatin1, "iso-8859-1":
		r = charmap.ISO8859_1.NewDecoder().Reader(r)
	case EncodingUTF8, "":
	default:
		return nil, fmt.Errorf("unsupported encoding %q", encoding)
	}

	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("empty file")
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(strings.TrimPrefix(header[i], "\uFEFF"))
	}

	t := New(header)
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read record: %w", err)
		}
		t.Append(record)
	}
	return t, nil
}

// ReadCSVFile opens and parses path.
func ReadCSVFile(path, encoding string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer f.Close()
	return ReadCSV(f, encoding)
}
