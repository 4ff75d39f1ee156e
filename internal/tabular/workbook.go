package tabular

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// DecodeWorkbook reads the first sheet of an .xlsx workbook with the same
// header and blank-row rules as Decode.
func DecodeWorkbook(data []byte) ([]Row, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil
	}
	cells, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", sheets[0], err)
	}

	records := make([][]string, 0, len(cells))
	for _, record := range cells {
		if isBlankRecord(record) {
			continue
		}
		records = append(records, record)
	}
	if len(records) < 2 {
		return nil, nil
	}
	return buildRows(records[0], records[1:]), nil
}

// DecodeFile picks a decoder by file extension. Anything that is not a
// workbook is treated as delimited text; a workbook that cannot be opened
// decodes to no rows.
func DecodeFile(path string, data []byte) []Row {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		rows, err := DecodeWorkbook(data)
		if err != nil {
			return nil
		}
		return rows
	default:
		return Decode(string(data))
	}
}

func isBlankRecord(record []string) bool {
	for _, cell := range record {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
