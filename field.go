package fieldfx

// DefaultDensity is the ambient coverage ratio used when Config.Density is zero.
const DefaultDensity = 0.00012

// DefaultEffectsZIndex places the celebration layer above the ambient canvas.
const DefaultEffectsZIndex = 1

// EffectsConfig enables the celebration layer.
type EffectsConfig struct {
	// Palette is the explicit effect palette. Empty derives it from the
	// ambient palette.
	Palette []string `yaml:"palette"`
	// AmbientDensity drives idle emission. Zero disables it.
	AmbientDensity float64 `yaml:"ambientDensity"`
	// ZIndex orders the layer among the container's children. Zero uses
	// DefaultEffectsZIndex.
	ZIndex int `yaml:"zIndex"`
}

// Config controls a mounted field.
type Config struct {
	// Colors is the explicit ambient palette. Empty derives it from the
	// host's theme variables.
	Colors []string `yaml:"colors"`
	// Density is the target ambient coverage ratio: the pool holds
	// floor(width × height × Density) particles, measured in device pixels.
	// Zero uses DefaultDensity; negative disables the ambient pool.
	Density float64 `yaml:"density"`
	// Effects enables the celebration layer when non-nil.
	Effects *EffectsConfig `yaml:"effects"`
	// OnAmbientUnavailable, when set, is called during Mount if the host
	// cannot provide a canvas. The field keeps working without its ambient
	// layer either way.
	OnAmbientUnavailable func(err error) `yaml:"-"`
}

// FieldStats is a snapshot of a field's live population.
type FieldStats struct {
	AmbientParticles int
	EffectNodes      int
	AmbientAvailable bool
}

// Field is the handle returned by Mount. All methods are safe to call after
// Destroy; they do nothing.
type Field struct {
	host      *Host
	container *Node

	// Shared by reference with the ambient field and celebration layer.
	ambientPalette *Palette
	effectPalette  *Palette

	ambient  *AmbientField
	effects  *CelebrationLayer
	disposed bool
}

// Mount starts a field on container. A nil container mounts on the host root.
func Mount(h *Host, container *Node, cfg Config) *Field {
	if container == nil {
		container = h.Root()
	}
	f := &Field{host: h, container: container}
	h.Styles().EnsureStyles(container)

	ambientColors := ResolveAmbientPalette(h, cfg.Colors)
	f.ambientPalette = NewPalette(ambientColors, DefaultAmbientColors)
	var effectColors []string
	if cfg.Effects != nil {
		effectColors = cfg.Effects.Palette
	}
	f.effectPalette = NewPalette(ResolveEffectPalette(effectColors, ambientColors), DefaultEffectColors)

	density := cfg.Density
	if density == 0 {
		density = DefaultDensity
	}
	f.ambient = newAmbientField(h, container, f.ambientPalette, density)
	if !f.ambient.Available() && cfg.OnAmbientUnavailable != nil {
		cfg.OnAmbientUnavailable(ErrCanvasUnsupported)
	}

	if cfg.Effects != nil {
		ec := *cfg.Effects
		if ec.ZIndex == 0 {
			ec.ZIndex = DefaultEffectsZIndex
		}
		f.effects = newCelebrationLayer(h, container, f.effectPalette, ec)
	}
	h.debugf("mounted field on %q (refs=%d, ambient=%v, effects=%v)",
		container.Name, h.Styles().RefCount(container), f.ambient.Available(), f.effects != nil)
	return f
}

// EmitBurst spawns a burst of celebration particles and returns how many.
// Returns 0 when effects are disabled or the field is destroyed.
func (f *Field) EmitBurst(strength float64, o Overrides) int {
	if f.disposed || f.effects == nil {
		return 0
	}
	return f.effects.Burst(strength, o)
}

// EmitSparkle spawns a sparkle of celebration particles and returns how many.
// Returns 0 when effects are disabled or the field is destroyed.
func (f *Field) EmitSparkle(strength float64, o Overrides) int {
	if f.disposed || f.effects == nil {
		return 0
	}
	return f.effects.Sparkle(strength, o)
}

// SetAmbientPalette recolors the ambient field, including live particles.
// An empty list falls back to the default triad.
func (f *Field) SetAmbientPalette(colors []string) {
	if f.disposed {
		return
	}
	f.ambient.SetPalette(colors)
}

// SetEffectPalette changes the colors of future celebration particles. An
// empty list falls back to the ambient palette, then to the defaults.
func (f *Field) SetEffectPalette(colors []string) {
	if f.disposed {
		return
	}
	f.effectPalette.Set(ResolveEffectPalette(colors, f.ambientPalette.Colors()))
}

// SetDensity changes the ambient coverage ratio.
func (f *Field) SetDensity(density float64) {
	if f.disposed {
		return
	}
	f.ambient.SetDensity(density)
}

// SetIdleDensity changes the idle emission rate. No-op without effects.
func (f *Field) SetIdleDensity(density float64) {
	if f.disposed || f.effects == nil {
		return
	}
	f.effects.SetIdleDensity(density)
}

// AmbientPalette returns the current ambient colors.
func (f *Field) AmbientPalette() []string {
	return f.ambientPalette.Colors()
}

// EffectPalette returns the current celebration colors.
func (f *Field) EffectPalette() []string {
	return f.effectPalette.Colors()
}

// AmbientAvailable reports whether the ambient layer has a usable canvas.
func (f *Field) AmbientAvailable() bool {
	return f.ambient.Available()
}

// Container returns the node the field is mounted on.
func (f *Field) Container() *Node {
	return f.container
}

// Stats returns the live population.
func (f *Field) Stats() FieldStats {
	s := FieldStats{AmbientParticles: f.ambient.Len(), AmbientAvailable: f.ambient.Available()}
	if f.effects != nil && !f.disposed {
		s.EffectNodes = f.effects.Len()
	}
	return s
}

// Disposed reports whether Destroy has been called.
func (f *Field) Disposed() bool {
	return f.disposed
}

// Destroy stops the frame loop, removes listeners, removes every owned node,
// cancels the idle timer and releases the container's style reference.
// Calling it again does nothing.
func (f *Field) Destroy() {
	if f.disposed {
		return
	}
	f.disposed = true
	f.ambient.destroy()
	if f.effects != nil {
		f.effects.destroy()
	}
	f.host.Styles().CleanupStyles(f.container)
	f.host.debugf("destroyed field on %q (refs=%d)", f.container.Name, f.host.Styles().RefCount(f.container))
}
