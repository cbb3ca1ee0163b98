package imageio

import (
	"errors"
	"image/color"
	"os"
	"path/filepath"
	"testing"
)

func tgaHeader(imageType, bpp byte, w, h int, topToBottom bool) []byte {
	hdr := make([]byte, tgaHeaderSize)
	hdr[2] = imageType
	hdr[12], hdr[13] = byte(w), byte(w>>8)
	hdr[14], hdr[15] = byte(h), byte(h>>8)
	hdr[16] = bpp
	if topToBottom {
		hdr[17] = 0x20
	}
	return hdr
}

func TestDecodeTGA_TrueColor(t *testing.T) {
	// 2x1, BGR order.
	data := append(tgaHeader(tgaTrueColor, 24, 2, 1, true), 0, 0, 255, 255, 0, 0)
	img, err := DecodeTGA(data)
	if err != nil {
		t.Fatalf("DecodeTGA failed: %v", err)
	}
	if got := color.NRGBAModel.Convert(img.At(0, 0)); got != (color.NRGBA{R: 255, A: 255}) {
		t.Errorf("pixel 0 = %v, want red", got)
	}
	if got := color.NRGBAModel.Convert(img.At(1, 0)); got != (color.NRGBA{B: 255, A: 255}) {
		t.Errorf("pixel 1 = %v, want blue", got)
	}
}

func TestDecodeTGA_BottomUp(t *testing.T) {
	// 1x2 grayscale stored bottom row first.
	data := append(tgaHeader(tgaGray, 8, 1, 2, false), 10, 200)
	img, err := DecodeTGA(data)
	if err != nil {
		t.Fatalf("DecodeTGA failed: %v", err)
	}
	top := color.GrayModel.Convert(img.At(0, 0)).(color.Gray)
	bottom := color.GrayModel.Convert(img.At(0, 1)).(color.Gray)
	if top.Y != 200 || bottom.Y != 10 {
		t.Errorf("rows = %d, %d; want 200, 10", top.Y, bottom.Y)
	}
}

func TestDecodeTGA_RLE(t *testing.T) {
	// 4x1 grayscale: a run of three 50s, then one raw 90.
	data := append(tgaHeader(tgaGrayRLE, 8, 4, 1, true), 0x82, 50, 0x00, 90)
	img, err := DecodeTGA(data)
	if err != nil {
		t.Fatalf("DecodeTGA failed: %v", err)
	}
	want := []uint8{50, 50, 50, 90}
	for x, w := range want {
		if g := color.GrayModel.Convert(img.At(x, 0)).(color.Gray); g.Y != w {
			t.Errorf("pixel %d = %d, want %d", x, g.Y, w)
		}
	}
}

func TestDecodeTGA_Errors(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"short", []byte{1, 2, 3}},
		{"color mapped", func() []byte { h := tgaHeader(tgaTrueColor, 24, 1, 1, true); h[1] = 1; return h }()},
		{"bad type", tgaHeader(1, 8, 1, 1, true)},
		{"bad depth", tgaHeader(tgaTrueColor, 16, 1, 1, true)},
		{"truncated pixels", append(tgaHeader(tgaTrueColor, 24, 2, 1, true), 1, 2, 3)},
		{"truncated run", tgaHeader(tgaGrayRLE, 8, 2, 1, true)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := DecodeTGA(tt.data); !errors.Is(err, ErrTGA) {
				t.Errorf("expected ErrTGA, got %v", err)
			}
		})
	}
}

func TestDecode_ByExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "h.TGA")
	data := append(tgaHeader(tgaGray, 8, 1, 1, true), 7)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}
	img, format, err := Decode(path)
	if err != nil || format != "tga" {
		t.Fatalf("Decode = %v, %q, %v", img, format, err)
	}
	if img.Bounds().Dx() != 1 {
		t.Errorf("unexpected bounds %v", img.Bounds())
	}
}
