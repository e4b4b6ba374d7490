package output

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func captureStdout(f func()) string {
	old := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	f()

	w.Close()
	os.Stdout = old

	var buf bytes.Buffer
	io.Copy(&buf, r)
	return buf.String()
}

func TestSuccess(t *testing.T) {
	out := captureStdout(func() {
		Success("fetched %d contracts", 12)
	})

	assert.Contains(t, out, "✓")
	assert.Contains(t, out, "fetched 12 contracts")
}

func TestError_WritesToStderr(t *testing.T) {
	old := os.Stderr
	r, w, _ := os.Pipe()
	os.Stderr = w

	Error("query failed: %s", "boom")

	w.Close()
	os.Stderr = old
	var buf bytes.Buffer
	io.Copy(&buf, r)

	assert.Contains(t, buf.String(), "✗")
	assert.Contains(t, buf.String(), "query failed: boom")
}

func TestJSON(t *testing.T) {
	out := captureStdout(func() {
		require.NoError(t, JSON(map[string]int{"records": 3}))
	})

	var decoded map[string]int
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	assert.Equal(t, 3, decoded["records"])
}

func TestTable_Render(t *testing.T) {
	out := captureStdout(func() {
		table := NewTable([]string{"Contract", "Supplier"})
		table.AddRow([]string{"110/2023", "LIMPAMAX"})
		table.AddRow([]string{"2/2024", "-"})
		table.Render()
	})

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 4) // header, separator, two rows
	assert.Contains(t, lines[0], "Contract")
	assert.Contains(t, lines[2], "110/2023")
	assert.Contains(t, lines[3], "2/2024")
}

func TestTable_ClipsLongCells(t *testing.T) {
	long := strings.Repeat("x", 100)
	out := captureStdout(func() {
		table := NewTable([]string{"Object"})
		table.MaxCellWidth = 10
		table.AddRow([]string{long})
		table.Render()
	})

	assert.Contains(t, out, "xxxxxxx...")
	assert.NotContains(t, out, strings.Repeat("x", 11))
}
