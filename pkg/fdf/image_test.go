package fdf

import (
	"image"
	"image/color"
	"testing"
)

func TestFromImage(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 3, 2))
	img.SetGray(0, 0, color.Gray{Y: 0})
	img.SetGray(1, 0, color.Gray{Y: 255})
	img.SetGray(2, 0, color.Gray{Y: 51})
	img.SetGray(0, 1, color.Gray{Y: 255})

	g := FromImage(img, 10, 1, true)
	if g.Width() != 3 || g.Height() != 2 {
		t.Fatalf("expected 3x2, got %dx%d", g.Width(), g.Height())
	}
	want := [][]float64{{0, 10, 2}, {10, 0, 0}}
	for i := range want {
		for j := range want[i] {
			if g.At(i, j) != want[i][j] {
				t.Errorf("At(%d, %d) = %v, want %v", i, j, g.At(i, j), want[i][j])
			}
		}
	}
	if err := g.Validate(); err != nil {
		t.Errorf("converted grid invalid: %v", err)
	}
}

func TestFromImage_Step(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 5, 4))
	g := FromImage(img, 1, 2, false)
	if g.Width() != 3 || g.Height() != 2 {
		t.Errorf("expected 3x2, got %dx%d", g.Width(), g.Height())
	}
}

func TestFromImage_Offset(t *testing.T) {
	img := image.NewGray(image.Rect(10, 10, 12, 11))
	img.SetGray(11, 10, color.Gray{Y: 255})
	g := FromImage(img, 4, 0, false)
	if g.Width() != 2 || g.Height() != 1 || g.At(0, 1) != 4 {
		t.Errorf("unexpected grid %v", g.Rows)
	}
}
