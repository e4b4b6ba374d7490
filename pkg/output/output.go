// Package output renders CLI results: status lines, JSON, and plain-text
// tables.
package output

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/transparencia-tools/contratos-cli/pkg/color"
)

var (
	successColor = color.New(color.FgGreen, color.Bold)
	errorColor   = color.New(color.FgRed, color.Bold)
	infoColor    = color.New(color.FgCyan)
	warnColor    = color.New(color.FgYellow)
	headerColor  = color.New(color.FgWhite, color.Bold)
)

func Success(format string, a ...interface{}) {
	successColor.Printf("✓ "+format+"\n", a...)
}

func Error(format string, a ...interface{}) {
	errorColor.Fprintf(os.Stderr, "✗ "+format+"\n", a...)
}

func Info(format string, a ...interface{}) {
	infoColor.Printf(format+"\n", a...)
}

func Warn(format string, a ...interface{}) {
	warnColor.Printf("⚠ "+format+"\n", a...)
}

func JSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// Table renders rows under fixed headers. Long cells (contract objects run
// to whole paragraphs) are truncated at MaxCellWidth.
type Table struct {
	headers      []string
	rows         [][]string
	MaxCellWidth int
}

func NewTable(headers []string) *Table {
	return &Table{
		headers:      headers,
		rows:         [][]string{},
		MaxCellWidth: 40,
	}
}

func (t *Table) AddRow(row []string) {
	t.rows = append(t.rows, row)
}

func (t *Table) Render() {
	widths := make([]int, len(t.headers))
	for i, header := range t.headers {
		widths[i] = len(header)
	}

	clipped := make([][]string, len(t.rows))
	for ri, row := range t.rows {
		clipped[ri] = make([]string, len(row))
		for i, cell := range row {
			cell = t.clip(cell)
			clipped[ri][i] = cell
			if i < len(widths) && len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	for i, header := range t.headers {
		headerColor.Printf("%-*s  ", widths[i], header)
	}
	fmt.Println()

	for i := range t.headers {
		fmt.Print(strings.Repeat("-", widths[i]) + "  ")
	}
	fmt.Println()

	for _, row := range clipped {
		for i, cell := range row {
			fmt.Printf("%-*s  ", widths[i], cell)
		}
		fmt.Println()
	}
}

func (t *Table) clip(cell string) string {
	if t.MaxCellWidth <= 0 || len(cell) <= t.MaxCellWidth {
		return cell
	}
	if t.MaxCellWidth <= 3 {
		return cell[:t.MaxCellWidth]
	}
	return cell[:t.MaxCellWidth-3] + "..."
}
