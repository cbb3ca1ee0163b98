package terrain

import (
	"errors"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestParseHex(t *testing.T) {
	tests := []struct {
		in   string
		want RGB
	}{
		{"#ff0000", Red},
		{"0000ff", Blue},
		{"0xffffff", White},
		{"#000", Black},
		{"  #FFF ", White},
	}
	for _, tt := range tests {
		got, err := ParseHex(tt.in)
		if err != nil {
			t.Errorf("ParseHex(%q) failed: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseHex(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}

	for _, bad := range []string{"", "#12", "#gggggg", "#1234567"} {
		if _, err := ParseHex(bad); !errors.Is(err, ErrInvalidColor) {
			t.Errorf("ParseHex(%q): expected ErrInvalidColor, got %v", bad, err)
		}
	}
}

func TestRGB_Hex(t *testing.T) {
	for _, s := range []string{"#00024e", "#009400", "#a0a000", "#ffffff"} {
		if got := MustParseHex(s).Hex(); got != s {
			t.Errorf("Hex() = %q, want %q", got, s)
		}
	}
}

func TestRGB_YAML(t *testing.T) {
	type doc struct {
		Color RGB    `yaml:"color"`
		Stops []Stop `yaml:"stops"`
	}

	var d doc
	input := "color: \"#ff0000\"\nstops:\n  - position: 0.5\n    color: \"#0000ff\"\n"
	if err := yaml.Unmarshal([]byte(input), &d); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if d.Color != Red {
		t.Errorf("Color = %v, want red", d.Color)
	}
	if len(d.Stops) != 1 || d.Stops[0].Position != 0.5 || d.Stops[0].Color != Blue {
		t.Errorf("unexpected stops: %+v", d.Stops)
	}

	out, err := yaml.Marshal(d)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	var back doc
	if err := yaml.Unmarshal(out, &back); err != nil {
		t.Fatalf("Unmarshal of marshaled output failed: %v\n%s", err, out)
	}
	if back.Color != d.Color || back.Stops[0].Color != d.Stops[0].Color {
		t.Errorf("colors changed after YAML round trip: %+v", back)
	}

	if err := yaml.Unmarshal([]byte("color: \"#nothex\"\n"), &d); err == nil {
		t.Error("expected error for invalid color")
	}
}
