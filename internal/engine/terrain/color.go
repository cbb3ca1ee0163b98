package terrain

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrInvalidColor is returned when a hex color string cannot be parsed.
var ErrInvalidColor = errors.New("invalid color")

// RGB is a color with channels in [0, 1].
type RGB struct {
	R, G, B float32
}

// Common colors.
var (
	Black = RGB{0, 0, 0}
	White = RGB{1, 1, 1}
	Red   = RGB{1, 0, 0}
	Blue  = RGB{0, 0, 1}
)

// Hex24 builds a color from a packed 0xRRGGBB value.
func Hex24(v uint32) RGB {
	return RGB{
		R: float32((v>>16)&0xff) / 255,
		G: float32((v>>8)&0xff) / 255,
		B: float32(v&0xff) / 255,
	}
}

// ParseHex parses "#rrggbb", "rrggbb" or "0xrrggbb". The short "#rgb" form is also accepted.
func ParseHex(s string) (RGB, error) {
	h := strings.TrimSpace(s)
	switch {
	case strings.HasPrefix(h, "#"):
		h = h[1:]
	case strings.HasPrefix(h, "0x"), strings.HasPrefix(h, "0X"):
		h = h[2:]
	}
	if len(h) == 3 {
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	}
	if len(h) != 6 {
		return RGB{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return RGB{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
	}
	return Hex24(uint32(v)), nil
}

// MustParseHex is like ParseHex but panics on error.
func MustParseHex(s string) RGB {
	c, err := ParseHex(s)
	if err != nil {
		panic(err)
	}
	return c
}

// Hex returns the color as "#rrggbb".
func (c RGB) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", channelByte(c.R), channelByte(c.G), channelByte(c.B))
}

func (c RGB) String() string {
	return c.Hex()
}

// Array returns the color as an [r, g, b] array.
func (c RGB) Array() [3]float32 {
	return [3]float32{c.R, c.G, c.B}
}

// FromArray builds a color from an [r, g, b] array.
func FromArray(a [3]float32) RGB {
	return RGB{a[0], a[1], a[2]}
}

// Lerp interpolates each channel from c toward o by f.
func (c RGB) Lerp(o RGB, f float32) RGB {
	return RGB{
		R: c.R + (o.R-c.R)*f,
		G: c.G + (o.G-c.G)*f,
		B: c.B + (o.B-c.B)*f,
	}
}

// MarshalYAML writes the color as a hex string.
func (c RGB) MarshalYAML() (interface{}, error) {
	return c.Hex(), nil
}

// UnmarshalYAML reads a hex string.
func (c *RGB) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := ParseHex(s)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

func channelByte(v float32) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(v*255 + 0.5)
}
