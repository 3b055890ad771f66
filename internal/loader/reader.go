package loader

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

var requiredColumns = []string{"ifsc", "bank_name", "branch"}

// ReadFile reads a bank_branches export. The format follows the extension:
// .csv, or .xlsx (first sheet). The header row names the columns in any order.
func ReadFile(path string) ([]Record, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return ReadCSV(f)
	case ".xlsx":
		f, err := excelize.OpenFile(path)
		if err != nil {
			return nil, fmt.Errorf("open workbook: %w", err)
		}
		defer f.Close()
		return readWorkbook(f)
	default:
		return nil, fmt.Errorf("unsupported file type %q, expected .csv or .xlsx", filepath.Ext(path))
	}
}

func ReadCSV(r io.Reader) ([]Record, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	return parseRows(rows)
}

func ReadXLSX(r io.Reader) ([]Record, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()
	return readWorkbook(f)
}

func readWorkbook(f *excelize.File) ([]Record, error) {
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New("workbook has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}
	return parseRows(rows)
}

func parseRows(rows [][]string) ([]Record, error) {
	if len(rows) == 0 {
		return nil, errors.New("file is empty")
	}

	index := make(map[string]int, len(rows[0]))
	for i, name := range rows[0] {
		if i == 0 {
			// spreadsheet exports often start with a UTF-8 byte order mark
			name = strings.TrimPrefix(name, "\ufeff")
		}
		index[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, col := range requiredColumns {
		if _, ok := index[col]; !ok {
			return nil, fmt.Errorf("missing column %q", col)
		}
	}

	cell := func(row []string, col string) string {
		i, ok := index[col]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	records := make([]Record, 0, len(rows)-1)
	for n, row := range rows[1:] {
		if len(row) == 0 {
			continue
		}
		rec := Record{
			IFSC:     cell(row, "ifsc"),
			BankName: cell(row, "bank_name"),
			Branch:   cell(row, "branch"),
			Address:  cell(row, "address"),
			City:     cell(row, "city"),
			District: cell(row, "district"),
			State:    cell(row, "state"),
		}
		if rec.IFSC == "" && rec.BankName == "" {
			continue
		}
		// line numbers are 1-based and include the header
		if rec.IFSC == "" || len(rec.IFSC) > 11 {
			return nil, fmt.Errorf("line %d: invalid ifsc %q", n+2, rec.IFSC)
		}
		if rec.BankName == "" {
			return nil, fmt.Errorf("line %d: bank_name is required", n+2)
		}
		records = append(records, rec)
	}
	return records, nil
}
