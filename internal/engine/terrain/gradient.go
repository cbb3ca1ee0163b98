package terrain

import (
	"sort"
)

// Stop pins a color to a normalized height.
type Stop struct {
	Position float32 `yaml:"position"`
	Color    RGB     `yaml:"color"`
}

// Gradient maps a normalized height in [0, 1] to a color through an
// ordered list of stops. The zero value has no stops and is flat.
type Gradient struct {
	stops []Stop
}

// NewGradient returns a gradient over the given stops. Positions are
// clamped to [0, 1] and the stops are sorted by position.
func NewGradient(stops ...Stop) Gradient {
	s := make([]Stop, len(stops))
	copy(s, stops)
	for i := range s {
		s[i].Position = clamp01(s[i].Position)
	}
	sort.SliceStable(s, func(a, b int) bool { return s[a].Position < s[b].Position })
	return Gradient{stops: s}
}

// DefaultGradient is the five-band ramp: deep blue at sea level through
// green, black and olive up to red for the highest peaks.
func DefaultGradient() Gradient {
	return NewGradient(
		Stop{Position: 0.0, Color: Hex24(0x00024e)},
		Stop{Position: 0.2, Color: Hex24(0x009400)},
		Stop{Position: 0.4, Color: Hex24(0x000000)},
		Stop{Position: 0.6, Color: Hex24(0xa0a000)},
		Stop{Position: 0.8, Color: Hex24(0xff0000)},
	)
}

// Stops returns a copy of the gradient stops in position order.
func (g Gradient) Stops() []Stop {
	out := make([]Stop, len(g.stops))
	copy(out, g.stops)
	return out
}

// Len returns the number of stops.
func (g Gradient) Len() int {
	return len(g.stops)
}

// IsFlat reports whether the gradient has too few stops to interpolate.
func (g Gradient) IsFlat() bool {
	return len(g.stops) < 2
}

// WithColor returns a copy of g with stop i recolored.
func (g Gradient) WithColor(i int, c RGB) Gradient {
	s := g.Stops()
	if i >= 0 && i < len(s) {
		s[i].Color = c
	}
	return Gradient{stops: s}
}

// ColorAt returns the color for normalized height t.
//
// Values below the first stop take the first color and values at or
// above the last stop take the last color. In between, the color is
// linearly interpolated inside the segment [p_k, p_k+1) containing t.
func (g Gradient) ColorAt(t float32) RGB {
	n := len(g.stops)
	if n == 0 {
		return Black
	}
	if t < g.stops[0].Position || t != t {
		return g.stops[0].Color
	}
	if t >= g.stops[n-1].Position {
		return g.stops[n-1].Color
	}

	// First stop strictly above t; the segment starts just before it.
	// Zero-width segments never contain t so they are skipped naturally.
	k := sort.Search(n, func(i int) bool { return g.stops[i].Position > t })
	lo, hi := g.stops[k-1], g.stops[k]
	f := (t - lo.Position) / (hi.Position - lo.Position)
	return lo.Color.Lerp(hi.Color, f)
}

// Normalize maps a height to the gradient domain using the grid maximum.
// A zero maximum maps every height to 0.
func Normalize(height, maxHeight float32) float32 {
	if maxHeight == 0 {
		return 0
	}
	return height / maxHeight
}

func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
