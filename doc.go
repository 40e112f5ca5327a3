// Package fieldfx is the ambient particle field and celebration effects
// engine shared by our [Ebitengine] mini-games.
//
// A game mounts a field onto a container and gets back a [Field] handle:
//
//	host := fieldfx.NewHost(960, 640)
//	board := host.NewContainer("board")
//	field := fieldfx.Mount(host, board, fieldfx.Config{
//		Density: 0.0001,
//		Effects: &fieldfx.EffectsConfig{AmbientDensity: 1},
//	})
//	defer field.Destroy()
//
//	// on a correct move
//	field.EmitBurst(1, fieldfx.Overrides{})
//	// on a near miss
//	field.EmitSparkle(0.5, fieldfx.Overrides{Shape: fieldfx.Ptr(fieldfx.ShapeShard)})
//
// [Host] implements [ebiten.Game], so it can be passed to ebiten.RunGame
// directly or driven from an existing game's Update and Draw.
//
// # Layers
//
// The ambient field is a density-controlled pool of drifting discs drawn
// into one offscreen canvas per field. Particles wrap at the edges and
// recycle in place, so the pool size only changes when the container is
// resized. If the host cannot provide a canvas the ambient layer is simply
// absent; see [Field.AmbientAvailable] and [Config.OnAmbientUnavailable].
//
// The celebration layer holds one-shot particles created by
// [Field.EmitBurst], [Field.EmitSparkle] and an optional idle schedule.
// Each particle animates with [gween] tweens and is removed by its own
// timer shortly after its flight ends.
//
// # Palettes and themes
//
// Palettes are ordered lists of hex colors. Without explicit colors the
// ambient palette is read from the host's theme variables ([ThemeVars]),
// and the effect palette follows the ambient one. Empty or invalid input
// always falls back to built-in defaults. Themes can be loaded from YAML
// with [LoadThemes], and a player's choice persisted with [ThemeStore].
//
// # Threading
//
// Everything runs on the goroutine that calls [Host.Step] (Update, in an
// ebiten game). Timers and frame requests are cooperative callbacks fired
// from Step; no locking is needed or done.
//
// [Ebitengine]: https://ebitengine.org
// [gween]: https://github.com/tanema/gween
package fieldfx
