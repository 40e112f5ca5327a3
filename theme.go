package fieldfx

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Theme is a named visual scheme: root variables plus optional explicit
// palettes. A theme only needs to define the variables it cares about.
type Theme struct {
	Name    string            `yaml:"name"`
	Vars    map[string]string `yaml:"vars"`
	Ambient []string          `yaml:"ambient"`
	Effects []string          `yaml:"effects"`
}

// Validate checks variable names and colors.
func (t Theme) Validate() error {
	if strings.TrimSpace(t.Name) == "" {
		return fmt.Errorf("theme has no name")
	}
	for k, v := range t.Vars {
		if !strings.HasPrefix(k, "--") {
			return fmt.Errorf("theme %q: variable %q must start with --", t.Name, k)
		}
		if _, ok := ParseSwatch(v); !ok {
			return fmt.Errorf("theme %q: variable %s: invalid color %q", t.Name, k, v)
		}
	}
	for _, c := range append(append([]string(nil), t.Ambient...), t.Effects...) {
		if _, ok := ParseSwatch(c); !ok {
			return fmt.Errorf("theme %q: invalid color %q", t.Name, c)
		}
	}
	return nil
}

// ThemePack is an ordered set of themes loaded from YAML.
type ThemePack struct {
	Themes []Theme `yaml:"themes"`
}

// LoadThemes reads and validates a YAML theme pack.
func LoadThemes(path string) (*ThemePack, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read theme pack: %w", err)
	}
	pack, err := ParseThemes(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return pack, nil
}

// ParseThemes decodes and validates a YAML theme pack.
func ParseThemes(data []byte) (*ThemePack, error) {
	var pack ThemePack
	if err := yaml.Unmarshal(data, &pack); err != nil {
		return nil, fmt.Errorf("failed to parse theme pack: %w", err)
	}
	if len(pack.Themes) == 0 {
		return nil, fmt.Errorf("theme pack has no themes")
	}
	seen := make(map[string]bool)
	for _, t := range pack.Themes {
		if err := t.Validate(); err != nil {
			return nil, err
		}
		if seen[t.Name] {
			return nil, fmt.Errorf("duplicate theme %q", t.Name)
		}
		seen[t.Name] = true
	}
	return &pack, nil
}

// Get returns the theme with the given name.
func (p *ThemePack) Get(name string) (Theme, bool) {
	for _, t := range p.Themes {
		if t.Name == name {
			return t, true
		}
	}
	return Theme{}, false
}

// Names returns the theme names in pack order.
func (p *ThemePack) Names() []string {
	out := make([]string, len(p.Themes))
	for i, t := range p.Themes {
		out[i] = t.Name
	}
	return out
}

// Next returns the theme after name, wrapping around. Unknown names yield
// the first theme.
func (p *ThemePack) Next(name string) Theme {
	for i, t := range p.Themes {
		if t.Name == name {
			return p.Themes[(i+1)%len(p.Themes)]
		}
	}
	return p.Themes[0]
}

// ApplyTheme replaces the host's palette variables with the theme's.
func (h *Host) ApplyTheme(t Theme) {
	for _, name := range ThemeVars {
		h.SetVar(name, "")
	}
	for k, v := range t.Vars {
		h.SetVar(k, v)
	}
}

// ApplyTheme applies t to the host and re-resolves both palettes live.
func (f *Field) ApplyTheme(t Theme) {
	if f.disposed {
		return
	}
	f.host.ApplyTheme(t)
	f.SetAmbientPalette(ResolveAmbientPalette(f.host, t.Ambient))
	f.SetEffectPalette(t.Effects)
}
