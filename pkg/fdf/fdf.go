// Package fdf parses and writes FDF height maps.
//
// An FDF document is plain text: one grid row per line, each row a list of
// whitespace-separated elevation values. Every row must have the same
// number of values.
package fdf

import (
	"errors"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
)

// FDF format errors.
var (
	ErrParse         = errors.New("fdf parse error")
	ErrEmptyInput    = errors.New("empty input")
	ErrInvalidNumber = errors.New("invalid number")
	ErrRaggedRows    = errors.New("rows have different lengths")
)

// ParseError describes where a document failed to parse.
// Line and Column are 1-based; Column counts tokens, not bytes.
type ParseError struct {
	Line   int
	Column int
	Token  string
	Err    error
}

func (e *ParseError) Error() string {
	switch {
	case e.Token != "":
		return fmt.Sprintf("fdf: line %d, column %d: %v %q", e.Line, e.Column, e.Err, e.Token)
	case e.Line > 0:
		return fmt.Sprintf("fdf: line %d: %v", e.Line, e.Err)
	default:
		return fmt.Sprintf("fdf: %v", e.Err)
	}
}

func (e *ParseError) Unwrap() []error {
	return []error{ErrParse, e.Err}
}

// Grid is a rectangular matrix of elevations, indexed [row][column].
type Grid struct {
	Rows [][]float64
}

// Width returns the number of columns.
func (g *Grid) Width() int {
	if g == nil || len(g.Rows) == 0 {
		return 0
	}
	return len(g.Rows[0])
}

// Height returns the number of rows.
func (g *Grid) Height() int {
	if g == nil {
		return 0
	}
	return len(g.Rows)
}

// At returns the elevation at row i, column j.
func (g *Grid) At(i, j int) float64 {
	return g.Rows[i][j]
}

// Max returns the largest elevation in the grid, or 0 for an empty grid.
func (g *Grid) Max() float64 {
	if g.Width() == 0 {
		return 0
	}
	m := math.Inf(-1)
	for _, row := range g.Rows {
		for _, v := range row {
			m = math.Max(m, v)
		}
	}
	return m
}

// Min returns the smallest elevation in the grid, or 0 for an empty grid.
func (g *Grid) Min() float64 {
	if g.Width() == 0 {
		return 0
	}
	m := math.Inf(1)
	for _, row := range g.Rows {
		for _, v := range row {
			m = math.Min(m, v)
		}
	}
	return m
}

// Validate reports whether the grid is non-empty and rectangular.
func (g *Grid) Validate() error {
	if g.Height() == 0 || g.Width() == 0 {
		return ErrEmptyInput
	}
	w := g.Width()
	for i, row := range g.Rows {
		if len(row) != w {
			return fmt.Errorf("row %d has %d values, want %d: %w", i+1, len(row), w, ErrRaggedRows)
		}
	}
	return nil
}

// Parse parses an FDF document.
//
// Leading and trailing blank lines are ignored. A blank line between two
// rows is an empty row and fails the equal-length check.
func Parse(text string) (*Grid, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, &ParseError{Err: ErrEmptyInput}
	}

	lines := strings.Split(text, "\n")
	grid := &Grid{Rows: make([][]float64, 0, len(lines))}

	for n, line := range lines {
		fields := strings.Fields(line)
		row := make([]float64, len(fields))
		for k, tok := range fields {
			v, err := parseValue(tok)
			if err != nil {
				return nil, &ParseError{Line: n + 1, Column: k + 1, Token: tok, Err: ErrInvalidNumber}
			}
			row[k] = v
		}
		if n > 0 && len(row) != len(grid.Rows[0]) {
			return nil, &ParseError{
				Line: n + 1,
				Err:  fmt.Errorf("%w: got %d values, want %d", ErrRaggedRows, len(row), len(grid.Rows[0])),
			}
		}
		grid.Rows = append(grid.Rows, row)
	}

	return grid, nil
}

// ParseBytes parses an FDF document held in memory.
func ParseBytes(data []byte) (*Grid, error) {
	return Parse(string(data))
}

// ParseFile reads and parses an FDF file from disk.
func ParseFile(path string) (*Grid, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading fdf file: %w", err)
	}
	return ParseBytes(data)
}

// parseValue accepts decimal numbers only. strconv also understands hex
// literals, underscores, NaN and Inf, none of which are valid elevations.
// Values must also fit in a float32, the precision of the rendered mesh.
func parseValue(tok string) (float64, error) {
	for i := 0; i < len(tok); i++ {
		c := tok[i]
		if (c < '0' || c > '9') && c != '.' && c != '-' && c != '+' && c != 'e' && c != 'E' {
			return 0, ErrInvalidNumber
		}
	}
	v, err := strconv.ParseFloat(tok, 64)
	if err != nil || math.IsNaN(v) || math.Abs(v) > math.MaxFloat32 {
		return 0, ErrInvalidNumber
	}
	return v, nil
}
