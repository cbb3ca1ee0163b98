package fdf

import (
	"io"
	"strconv"
	"strings"
)

// Format serializes a grid as an FDF document, one row per line.
// Values use the shortest representation that parses back exactly.
func Format(g *Grid) string {
	var sb strings.Builder
	for _, row := range g.Rows {
		for j, v := range row {
			if j > 0 {
				sb.WriteByte(' ')
			}
			sb.WriteString(strconv.FormatFloat(v, 'g', -1, 64))
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// Write writes the FDF document for g to w.
func Write(w io.Writer, g *Grid) error {
	_, err := io.WriteString(w, Format(g))
	return err
}

// Stats summarizes a grid.
type Stats struct {
	Width  int
	Height int
	Min    float64
	Max    float64
	Mean   float64
	Cells  int
	Edges  int // right and down neighbours, no diagonals
}

// ComputeStats returns summary statistics for g.
func ComputeStats(g *Grid) Stats {
	w, h := g.Width(), g.Height()
	s := Stats{
		Width:  w,
		Height: h,
		Min:    g.Min(),
		Max:    g.Max(),
		Cells:  w * h,
	}
	if w > 0 && h > 0 {
		s.Edges = h*(w-1) + (h-1)*w
	}
	if s.Cells > 0 {
		var sum float64
		for _, row := range g.Rows {
			for _, v := range row {
				sum += v
			}
		}
		s.Mean = sum / float64(s.Cells)
	}
	return s
}
