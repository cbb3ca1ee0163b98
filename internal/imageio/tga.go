// Package imageio decodes the image files fdftool converts into height maps.
package imageio

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// TGA image types.
const (
	tgaTrueColor    = 2
	tgaGray         = 3
	tgaTrueColorRLE = 10
	tgaGrayRLE      = 11
)

const tgaHeaderSize = 18

// ErrTGA is wrapped by every TGA decoding error.
var ErrTGA = errors.New("tga")

// DecodeTGA decodes an uncompressed or RLE compressed TGA image with 8-bit
// grayscale or 24/32-bit true-color pixels.
func DecodeTGA(data []byte) (image.Image, error) {
	if len(data) < tgaHeaderSize {
		return nil, fmt.Errorf("%w: data too short", ErrTGA)
	}

	idLength := int(data[0])
	colorMapType := data[1]
	imageType := data[2]
	width := int(data[12]) | int(data[13])<<8
	height := int(data[14]) | int(data[15])<<8
	bpp := int(data[16])
	topToBottom := data[17]&0x20 != 0

	if colorMapType != 0 {
		return nil, fmt.Errorf("%w: color-mapped images not supported", ErrTGA)
	}
	gray := imageType == tgaGray || imageType == tgaGrayRLE
	rle := imageType == tgaTrueColorRLE || imageType == tgaGrayRLE
	switch {
	case imageType != tgaTrueColor && imageType != tgaTrueColorRLE && !gray:
		return nil, fmt.Errorf("%w: unsupported image type %d", ErrTGA, imageType)
	case gray && bpp != 8:
		return nil, fmt.Errorf("%w: grayscale depth %d not supported", ErrTGA, bpp)
	case !gray && bpp != 24 && bpp != 32:
		return nil, fmt.Errorf("%w: true-color depth %d not supported", ErrTGA, bpp)
	}

	offset := tgaHeaderSize + idLength
	if offset > len(data) {
		return nil, fmt.Errorf("%w: data truncated", ErrTGA)
	}

	d := &tgaDecoder{
		src:         data[offset:],
		img:         image.NewNRGBA(image.Rect(0, 0, width, height)),
		width:       width,
		height:      height,
		bytesPerPx:  bpp / 8,
		topToBottom: topToBottom,
	}
	var err error
	if rle {
		err = d.readRLE()
	} else {
		err = d.readRaw()
	}
	if err != nil {
		return nil, err
	}
	return d.img, nil
}

type tgaDecoder struct {
	src         []byte
	pos         int
	img         *image.NRGBA
	width       int
	height      int
	bytesPerPx  int
	topToBottom bool
}

// pixel reads one pixel at the current position.
func (d *tgaDecoder) pixel() (color.NRGBA, error) {
	if d.pos+d.bytesPerPx > len(d.src) {
		return color.NRGBA{}, fmt.Errorf("%w: pixel data truncated", ErrTGA)
	}
	p := d.src[d.pos : d.pos+d.bytesPerPx]
	d.pos += d.bytesPerPx

	switch d.bytesPerPx {
	case 1:
		return color.NRGBA{R: p[0], G: p[0], B: p[0], A: 255}, nil
	case 3:
		return color.NRGBA{R: p[2], G: p[1], B: p[0], A: 255}, nil
	default:
		return color.NRGBA{R: p[2], G: p[1], B: p[0], A: p[3]}, nil
	}
}

// set stores the n-th pixel in file order.
func (d *tgaDecoder) set(n int, c color.NRGBA) {
	x, y := n%d.width, n/d.width
	if !d.topToBottom {
		y = d.height - 1 - y
	}
	d.img.SetNRGBA(x, y, c)
}

func (d *tgaDecoder) readRaw() error {
	for n := range d.width * d.height {
		c, err := d.pixel()
		if err != nil {
			return err
		}
		d.set(n, c)
	}
	return nil
}

func (d *tgaDecoder) readRLE() error {
	total := d.width * d.height
	for n := 0; n < total; {
		if d.pos >= len(d.src) {
			return fmt.Errorf("%w: run data truncated", ErrTGA)
		}
		packet := d.src[d.pos]
		d.pos++
		count := min(int(packet&0x7f)+1, total-n)

		if packet&0x80 != 0 {
			c, err := d.pixel()
			if err != nil {
				return err
			}
			for range count {
				d.set(n, c)
				n++
			}
			continue
		}
		for range count {
			c, err := d.pixel()
			if err != nil {
				return err
			}
			d.set(n, c)
			n++
		}
	}
	return nil
}

// Decode reads an image file. TGA is chosen by extension since it has no
// signature; other formats go through the decoders registered with the
// image package.
func Decode(path string) (img image.Image, format string, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, "", err
	}
	defer f.Close()

	if strings.EqualFold(filepath.Ext(path), ".tga") {
		data, err := io.ReadAll(f)
		if err != nil {
			return nil, "", err
		}
		img, err := DecodeTGA(data)
		return img, "tga", err
	}
	return image.Decode(f)
}
