package export

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/transparencia-tools/contratos-cli/internal/contract"
)

func sampleRecords() []contract.Record {
	number := "110/2023"
	supplier := "LIMPAMAX SERVICOS LTDA"
	value := decimal.NewFromFloat(150000.5)
	end := time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC)
	return []contract.Record{
		{
			ContractNumber: &number,
			SupplierName:   &supplier,
			InitialValue:   &value,
			ValidityEnd:    &end,
		},
		{}, // entirely missing record still yields a full row
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, sampleRecords()))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, contract.Columns(), rows[0])
	assert.Equal(t, "110/2023", rows[1][0])
	assert.Equal(t, "150000.50", rows[1][3])
	assert.Equal(t, "2025-01-31", rows[1][6])
	assert.Equal(t, "LIMPAMAX SERVICOS LTDA", rows[1][7])

	// The missing marker keeps the column set consistent.
	for _, cell := range rows[2] {
		assert.Equal(t, contract.Missing, cell)
	}
}

func TestWriteXLSX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, sampleRecords()))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(SheetName)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, contract.Columns(), rows[0])
	assert.Equal(t, "110/2023", rows[1][0])
	assert.Equal(t, "2025-01-31", rows[1][6])
}

func TestWriteXLSX_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, nil))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(SheetName)
	require.NoError(t, err)
	require.Len(t, rows, 1) // header only
}

func TestWriteFile(t *testing.T) {
	dir := t.TempDir()

	csvPath := filepath.Join(dir, "out.csv")
	require.NoError(t, WriteFile(csvPath, sampleRecords()))
	data, err := os.ReadFile(csvPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "110/2023")

	xlsxPath := filepath.Join(dir, "out.xlsx")
	require.NoError(t, WriteFile(xlsxPath, sampleRecords()))
	info, err := os.Stat(xlsxPath)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}

func TestWriteFile_UnsupportedExtension(t *testing.T) {
	err := WriteFile(filepath.Join(t.TempDir(), "out.pdf"), sampleRecords())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported export format")
}
