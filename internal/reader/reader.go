// Package reader decodes delimited text and spreadsheet files into
// raw rows. The import core never parses bytes itself; this package
// is its only source of row data.
package reader

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/oraload/oraload/internal/domain"
)

// ErrUnsupportedFormat is returned for file extensions the reader
// cannot decode.
var ErrUnsupportedFormat = errors.New("unsupported file format")

var byteOrderMark = []byte{0xEF, 0xBB, 0xBF}

// csvSeparators are probed in order when decoding delimited text.
var csvSeparators = []rune{',', ';', '\t', '|'}

// ReadFile decodes one data file into its raw rows. Rows that are
// entirely empty are dropped; everything else is preserved in order.
func ReadFile(path string) (*domain.DataFile, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	payload, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var rows [][]string
	var format domain.FileFormat
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".csv", ".txt":
		format = domain.FormatCSV
		rows, err = decodeCSV(payload)
	case ".xlsx", ".xlsm":
		format = domain.FormatXLSX
		rows, err = decodeExcel(payload)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, ext)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}

	return &domain.DataFile{
		Path:       path,
		Name:       filepath.Base(path),
		Format:     format,
		Size:       info.Size(),
		ModifiedAt: info.ModTime(),
		Rows:       dropEmptyRows(rows),
	}, nil
}

// decodeCSV strips a UTF-8 BOM and probes the separator set,
// keeping the first separator that splits the first row into more
// than one column. Single-column files fall back to comma.
func decodeCSV(payload []byte) ([][]string, error) {
	var firstErr error
	var fallback [][]string

	for _, sep := range csvSeparators {
		records, err := parseCSV(payload, sep)
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		if len(records) > 0 && len(records[0]) > 1 {
			return records, nil
		}
		if fallback == nil {
			fallback = records
		}
	}
	if fallback != nil {
		return fallback, nil
	}
	if firstErr != nil {
		return nil, firstErr
	}
	return nil, errors.New("no rows found in file")
}

func parseCSV(payload []byte, sep rune) ([][]string, error) {
	reader := bufio.NewReader(bytes.NewReader(payload))
	if prefix, err := reader.Peek(len(byteOrderMark)); err == nil && bytes.Equal(prefix, byteOrderMark) {
		_, _ = reader.Discard(len(byteOrderMark))
	}

	csvReader := csv.NewReader(reader)
	csvReader.Comma = sep
	csvReader.TrimLeadingSpace = true
	csvReader.FieldsPerRecord = -1
	return csvReader.ReadAll()
}

// decodeExcel reads the first sheet of a workbook.
func decodeExcel(payload []byte) ([][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New("workbook has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read rows from sheet %s: %w", sheets[0], err)
	}
	return rows, nil
}

func dropEmptyRows(rows [][]string) [][]string {
	var kept [][]string
	for _, row := range rows {
		for _, cell := range row {
			if strings.TrimSpace(cell) != "" {
				kept = append(kept, row)
				break
			}
		}
	}
	return kept
}
