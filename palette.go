package fieldfx

import (
	"math/rand/v2"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// ThemeVars is the ordered list of root variables the ambient palette is
// derived from when no explicit colors are given.
var ThemeVars = []string{
	"--fx-particle-1",
	"--fx-particle-2",
	"--fx-particle-3",
	"--fx-accent",
	"--fx-accent-soft",
	"--fx-highlight",
}

// DefaultAmbientColors is the fallback ambient triad.
var DefaultAmbientColors = []string{"#7dd3fc", "#c4b5fd", "#f9a8d4"}

// DefaultEffectColors is the fallback celebration palette.
var DefaultEffectColors = []string{"#fde68a", "#fca5a5", "#a7f3d0", "#93c5fd", "#f0abfc"}

// Swatch is one palette entry: the color as written plus its parsed value.
type Swatch struct {
	Hex   string
	Color colorful.Color
}

// ParseSwatch parses a hex color ("#rgb" or "#rrggbb", with or without "#").
func ParseSwatch(s string) (Swatch, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Swatch{}, false
	}
	if !strings.HasPrefix(s, "#") {
		s = "#" + s
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return Swatch{}, false
	}
	return Swatch{Hex: c.Hex(), Color: c}, true
}

// parseSwatches keeps the valid entries of colors, in order.
func parseSwatches(colors []string) []Swatch {
	out := make([]Swatch, 0, len(colors))
	for _, c := range colors {
		if sw, ok := ParseSwatch(c); ok {
			out = append(out, sw)
		}
	}
	return out
}

// Palette is an ordered color list shared by reference between a field's
// renderer, celebration layer and setters, so Set is visible to everything
// already running.
type Palette struct {
	swatches []Swatch
	fallback []Swatch
}

// NewPalette creates a palette from colors, using fallback when colors holds
// no valid entry.
func NewPalette(colors, fallback []string) *Palette {
	p := &Palette{fallback: parseSwatches(fallback)}
	p.Set(colors)
	return p
}

// Set replaces the palette contents in place. Invalid entries are dropped;
// an empty result falls back to the palette's defaults.
func (p *Palette) Set(colors []string) {
	sw := parseSwatches(colors)
	if len(sw) == 0 {
		sw = append([]Swatch(nil), p.fallback...)
	}
	p.swatches = sw
}

// Len returns the number of colors.
func (p *Palette) Len() int {
	return len(p.swatches)
}

// Colors returns the palette as hex strings.
func (p *Palette) Colors() []string {
	out := make([]string, len(p.swatches))
	for i, sw := range p.swatches {
		out[i] = sw.Hex
	}
	return out
}

// Pick returns a random color from the palette. An empty palette yields white.
func (p *Palette) Pick() colorful.Color {
	if len(p.swatches) == 0 {
		return colorful.Color{R: 1, G: 1, B: 1}
	}
	return p.swatches[rand.IntN(len(p.swatches))].Color
}

// ResolveAmbientPalette returns explicit when it holds a valid color.
// Otherwise it reads ThemeVars from the host root, keeping valid non-empty
// values in order without duplicates, and falls back to DefaultAmbientColors.
func ResolveAmbientPalette(h *Host, explicit []string) []string {
	if sw := parseSwatches(explicit); len(sw) > 0 {
		return hexes(sw)
	}
	var out []string
	seen := make(map[string]bool)
	if h != nil {
		for _, name := range ThemeVars {
			sw, ok := ParseSwatch(h.Var(name))
			if !ok || seen[sw.Hex] {
				continue
			}
			seen[sw.Hex] = true
			out = append(out, sw.Hex)
		}
	}
	if len(out) == 0 {
		return append([]string(nil), DefaultAmbientColors...)
	}
	return out
}

// ResolveEffectPalette returns explicit when it holds a valid color, else the
// ambient palette when non-empty, else DefaultEffectColors.
func ResolveEffectPalette(explicit, ambient []string) []string {
	if sw := parseSwatches(explicit); len(sw) > 0 {
		return hexes(sw)
	}
	if sw := parseSwatches(ambient); len(sw) > 0 {
		return hexes(sw)
	}
	return append([]string(nil), DefaultEffectColors...)
}

func hexes(sw []Swatch) []string {
	out := make([]string, len(sw))
	for i, s := range sw {
		out[i] = s.Hex
	}
	return out
}
