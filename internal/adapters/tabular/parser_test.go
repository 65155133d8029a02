package tabular

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/example/wardnotes/internal/errs"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestParseRows_CSV(t *testing.T) {
	path := writeFile(t, "pt_list_15_03_2024.csv",
		"\uFEFFUMRN,Name,Location,Age\n"+
			"12345678,\"SMITH, John\",Bed 4,67\n"+
			",,,\n"+
			"87654321,Jane Doe,Bed 9\n")

	rows, err := NewParser().ParseRows(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	require.Equal(t, "12345678", rows[0]["UMRN"])
	require.Equal(t, "SMITH, John", rows[0]["Name"])
	require.Equal(t, "67", rows[0]["Age"])

	// short rows are padded with empty values
	require.Equal(t, "Bed 9", rows[1]["Location"])
	require.Equal(t, "", rows[1]["Age"])
}

func TestParseRows_Workbook(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pt_list_15_03_2024.xlsx")

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]any{"UMRN", "Name", "Ward"}))
	require.NoError(t, f.SetSheetRow(sheet, "A2", &[]any{"12345678", "John Smith", "7B"}))
	require.NoError(t, f.SetSheetRow(sheet, "A3", &[]any{"", "Jane Doe", "7B"}))
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	rows, err := NewParser().ParseRows(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	require.Equal(t, "John Smith", rows[0]["Name"])
	require.Equal(t, "", rows[1]["UMRN"])
	require.Equal(t, "7B", rows[1]["Ward"])
}

func TestParseRows_HeaderOnly(t *testing.T) {
	path := writeFile(t, "export.csv", "UMRN,Name\n")

	rows, err := NewParser().ParseRows(context.Background(), path)
	require.NoError(t, err)
	require.Empty(t, rows)
}

func TestParseRows_Errors(t *testing.T) {
	ctx := context.Background()
	p := NewParser()

	_, err := p.ParseRows(ctx, filepath.Join(t.TempDir(), "missing.csv"))
	require.True(t, errors.Is(err, errs.ErrNotFound))

	_, err = p.ParseRows(ctx, writeFile(t, "list.txt", "x"))
	require.True(t, errors.Is(err, errs.ErrInvalidArgument))

	_, err = p.ParseRows(ctx, writeFile(t, "broken.xlsx", "not a zip"))
	require.True(t, errors.Is(err, errs.ErrDataCorruption))

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = p.ParseRows(cancelled, writeFile(t, "export.csv", "UMRN\n1\n"))
	require.ErrorIs(t, err, context.Canceled)
}
