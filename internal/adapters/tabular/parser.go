// Package tabular reads patient list exports (CSV or Excel workbooks) into
// header-keyed rows.
package tabular

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/example/wardnotes/internal/errs"
	"github.com/example/wardnotes/internal/ports/secondary"
)

const utf8BOM = "\uFEFF"

// Parser implements secondary.TabularParser. The format is chosen by file
// extension; workbooks are read from their first sheet.
type Parser struct{}

// NewParser creates a new Parser.
func NewParser() *Parser {
	return &Parser{}
}

// ParseRows reads path and returns one map per non-blank data row, keyed by
// the header cell above each value.
func (p *Parser) ParseRows(ctx context.Context, path string) ([]map[string]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var (
		records [][]string
		err     error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		records, err = readCSV(path)
	case ".xlsx":
		records, err = readWorkbook(path)
	default:
		return nil, errs.Invalid("parse rows", "unsupported file type %q", filepath.Ext(path))
	}
	if err != nil {
		return nil, err
	}

	return keyByHeader(records), nil
}

func readCSV(path string) ([][]string, error) {
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, errs.NotFound("parse rows", path)
	}
	if err != nil {
		return nil, errs.IO("open export", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	r.TrimLeadingSpace = true

	var records [][]string
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errs.Corrupt("read export", path, err)
		}
		records = append(records, rec)
	}
	if len(records) > 0 && len(records[0]) > 0 {
		records[0][0] = strings.TrimPrefix(records[0][0], utf8BOM)
	}
	return records, nil
}

func readWorkbook(path string) ([][]string, error) {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil, errs.NotFound("parse rows", path)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, errs.Corrupt("open workbook", path, err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, errs.Corrupt("open workbook", path, fmt.Errorf("workbook has no sheets"))
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, errs.Corrupt("read workbook", path, err)
	}
	return rows, nil
}

// keyByHeader pairs each data row with the first row. Columns without a
// header are dropped, and rows whose cells are all blank are skipped.
func keyByHeader(records [][]string) []map[string]string {
	if len(records) < 2 {
		return nil
	}

	header := records[0]
	out := make([]map[string]string, 0, len(records)-1)
	for _, rec := range records[1:] {
		row := make(map[string]string, len(header))
		blank := true
		for i, h := range header {
			h = strings.TrimSpace(h)
			if h == "" {
				continue
			}
			if _, dup := row[h]; dup {
				continue
			}
			var v string
			if i < len(rec) {
				v = strings.TrimSpace(rec[i])
			}
			if v != "" {
				blank = false
			}
			row[h] = v
		}
		if !blank {
			out = append(out, row)
		}
	}
	return out
}

// Ensure Parser implements the interface
var _ secondary.TabularParser = (*Parser)(nil)
