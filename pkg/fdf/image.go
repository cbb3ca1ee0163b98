package fdf

import (
	"image"
	"image/color"
	"math"
)

// FromImage builds a grid from the luminance of img. Black maps to 0 and
// white to maxHeight; the result is rounded to the nearest integer when
// round is set. Every step-th pixel is sampled in both directions.
func FromImage(img image.Image, maxHeight float64, step int, round bool) *Grid {
	if step < 1 {
		step = 1
	}
	b := img.Bounds()
	g := &Grid{}
	for y := b.Min.Y; y < b.Max.Y; y += step {
		row := make([]float64, 0, (b.Dx()+step-1)/step)
		for x := b.Min.X; x < b.Max.X; x += step {
			gray := color.Gray16Model.Convert(img.At(x, y)).(color.Gray16)
			h := float64(gray.Y) / 0xffff * maxHeight
			if round {
				h = math.Round(h)
			}
			row = append(row, h)
		}
		g.Rows = append(g.Rows, row)
	}
	return g
}
