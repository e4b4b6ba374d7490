// Package color provides minimal ANSI terminal coloring without an
// external dependency.
package color

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

const reset = "\033[0m"

// ANSI attributes
const (
	FgRed    = 31
	FgGreen  = 32
	FgYellow = 33
	FgCyan   = 36
	FgWhite  = 37

	Bold = 1
)

// NoColor disables all coloring. Honors the NO_COLOR convention.
var NoColor = os.Getenv("NO_COLOR") != ""

// Color is a reusable set of ANSI attributes.
type Color struct {
	params []int
}

// New creates a Color with the given attributes.
func New(attrs ...int) *Color {
	return &Color{params: attrs}
}

func (c *Color) seq() string {
	if NoColor || len(c.params) == 0 {
		return ""
	}
	parts := make([]string, len(c.params))
	for i, p := range c.params {
		parts[i] = strconv.Itoa(p)
	}
	return "\033[" + strings.Join(parts, ";") + "m"
}

func (c *Color) wrap(s string) string {
	seq := c.seq()
	if seq == "" {
		return s
	}
	return seq + s + reset
}

// Printf prints formatted colored output to stdout.
func (c *Color) Printf(format string, a ...interface{}) {
	fmt.Print(c.wrap(fmt.Sprintf(format, a...)))
}

// Fprintf prints formatted colored output to w.
func (c *Color) Fprintf(w io.Writer, format string, a ...interface{}) {
	fmt.Fprint(w, c.wrap(fmt.Sprintf(format, a...)))
}

// Sprintf returns a formatted colored string.
func (c *Color) Sprintf(format string, a ...interface{}) string {
	return c.wrap(fmt.Sprintf(format, a...))
}
