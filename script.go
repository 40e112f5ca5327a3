package fieldfx

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// scriptStep represents a single action in an effect script.
type scriptStep struct {
	Action    string    `yaml:"action"`
	Label     string    `yaml:"label,omitempty"`
	Strength  *float64  `yaml:"strength,omitempty"`
	Overrides Overrides `yaml:"overrides,omitempty"`
	Colors    []string  `yaml:"colors,omitempty"`
	Theme     string    `yaml:"theme,omitempty"`
	Frames    int       `yaml:"frames,omitempty"`
}

// effectScript is the top-level YAML structure for an effect script.
type effectScript struct {
	Steps []scriptStep `yaml:"steps"`
}

var scriptActions = map[string]bool{
	"burst": true, "sparkle": true, "palette": true, "effectPalette": true,
	"theme": true, "wait": true, "screenshot": true,
}

// ScriptRunner plays a sequence of emissions, palette swaps, waits and
// screenshots against a Field, one step per host step. Attach it with
// Host.SetScriptRunner after binding it to a field.
type ScriptRunner struct {
	steps     []scriptStep
	cursor    int
	waitCount int
	done      bool

	field  *Field
	themes *ThemePack
}

// LoadScript parses a YAML effect script.
func LoadScript(data []byte) (*ScriptRunner, error) {
	var script effectScript
	if err := yaml.Unmarshal(data, &script); err != nil {
		return nil, fmt.Errorf("parse effect script: %w", err)
	}
	if len(script.Steps) == 0 {
		return nil, fmt.Errorf("parse effect script: no steps")
	}
	for i, st := range script.Steps {
		if !scriptActions[st.Action] {
			return nil, fmt.Errorf("parse effect script: step %d: unknown action %q", i, st.Action)
		}
	}
	return &ScriptRunner{steps: script.Steps}, nil
}

// Bind sets the field the script drives and the theme pack "theme" steps
// look names up in (may be nil).
func (r *ScriptRunner) Bind(f *Field, themes *ThemePack) *ScriptRunner {
	r.field = f
	r.themes = themes
	return r
}

// Done reports whether all steps have been executed.
func (r *ScriptRunner) Done() bool {
	return r.done
}

// step advances the runner by one host step.
func (r *ScriptRunner) step(h *Host) {
	if r.done || r.field == nil {
		return
	}
	if r.waitCount > 0 {
		r.waitCount--
		return
	}
	if r.cursor >= len(r.steps) {
		r.done = true
		return
	}

	st := r.steps[r.cursor]
	r.cursor++

	strength := 1.0
	if st.Strength != nil {
		strength = *st.Strength
	}
	switch st.Action {
	case "burst":
		r.field.EmitBurst(strength, st.Overrides)
	case "sparkle":
		r.field.EmitSparkle(strength, st.Overrides)
	case "palette":
		r.field.SetAmbientPalette(st.Colors)
	case "effectPalette":
		r.field.SetEffectPalette(st.Colors)
	case "theme":
		if r.themes == nil {
			h.debugf("script: theme %q skipped, no theme pack bound", st.Theme)
			break
		}
		if t, ok := r.themes.Get(st.Theme); ok {
			r.field.ApplyTheme(t)
		} else {
			h.debugf("script: unknown theme %q", st.Theme)
		}
	case "screenshot":
		label := st.Label
		if label == "" {
			label = fmt.Sprintf("step %d", r.cursor)
		}
		h.Screenshot(r.field.Container().Name + " " + label)
	case "wait":
		if st.Frames > 0 {
			r.waitCount = st.Frames - 1 // this step counts as one
		}
	}

	if r.cursor >= len(r.steps) && r.waitCount == 0 {
		r.done = true
	}
}
