package fieldfx

import (
	"errors"
	"slices"
	"testing"
	"time"
)

func mountAmbient(t *testing.T, density float64) (*Host, *Field, *[]*fakeCanvas) {
	t.Helper()
	h, made := newTestHost(1000, 800)
	f := Mount(h, h.NewContainer("board"), Config{Density: density})
	return h, f, made
}

func TestAmbientPoolMatchesDensity(t *testing.T) {
	h, f, _ := mountAmbient(t, 0.0001)
	advance(h, 16*time.Millisecond)
	if got := f.Stats().AmbientParticles; got != 80 {
		t.Errorf("pool = %d, want 80", got)
	}
}

func TestAmbientPoolFollowsResize(t *testing.T) {
	h, f, made := mountAmbient(t, 0.0001)
	advance(h, 16*time.Millisecond)

	h.Resize(500, 400)
	c := (*made)[0]
	if c.w != 500 || c.h != 400 {
		t.Errorf("canvas = %dx%d, want 500x400", c.w, c.h)
	}
	advance(h, 16*time.Millisecond)
	if got := f.Stats().AmbientParticles; got != 20 {
		t.Errorf("pool after shrink = %d, want 20", got)
	}

	h.Resize(1000, 800)
	advance(h, 16*time.Millisecond)
	if got := f.Stats().AmbientParticles; got != 80 {
		t.Errorf("pool after grow = %d, want 80", got)
	}
}

func TestAmbientCanvasUsesDevicePixels(t *testing.T) {
	h, f, made := mountAmbient(t, 0.0001)
	h.SetDeviceScale(2)
	c := (*made)[0]
	if c.w != 2000 || c.h != 1600 {
		t.Errorf("canvas = %dx%d, want 2000x1600", c.w, c.h)
	}
	advance(h, 16*time.Millisecond)
	if got := f.Stats().AmbientParticles; got != 320 {
		t.Errorf("pool = %d, want 320", got)
	}
}

func TestAmbientCanvasKeptWhenBoxUnchanged(t *testing.T) {
	h, made := newTestHost(1000, 800)
	c := h.NewContainer("panel")
	c.SetBox(0, 0, 300, 200)
	Mount(h, c, Config{})
	canvas := (*made)[0]

	h.Resize(1200, 900)
	if canvas.resizes != 0 {
		t.Errorf("resizes = %d, want 0 for a fixed box", canvas.resizes)
	}

	c.SetBox(0, 0, 400, 200)
	h.Resize(1000, 800)
	if canvas.resizes != 1 {
		t.Fatalf("resizes = %d, want 1", canvas.resizes)
	}
	if canvas.w != 400 || canvas.h != 200 {
		t.Errorf("canvas = %dx%d, want 400x200", canvas.w, canvas.h)
	}

	h.SetDeviceScale(2)
	if canvas.resizes != 2 || canvas.w != 800 {
		t.Errorf("after scale: resizes = %d, width = %d", canvas.resizes, canvas.w)
	}
}

func TestAmbientNegativeDensityDisablesPool(t *testing.T) {
	h, f, _ := mountAmbient(t, -1)
	advanceBy(h, 3, 16*time.Millisecond)
	if got := f.Stats().AmbientParticles; got != 0 {
		t.Errorf("pool = %d, want 0", got)
	}
}

func TestAmbientZeroDensityUsesDefault(t *testing.T) {
	h, f, _ := mountAmbient(t, 0)
	advance(h, 16*time.Millisecond)
	if got := f.Stats().AmbientParticles; got != 96 {
		t.Errorf("pool = %d, want 96", got)
	}
}

func TestAmbientDeltaIsClamped(t *testing.T) {
	h, f, _ := mountAmbient(t, 0.0001)
	advance(h, 16*time.Millisecond)

	a := f.ambient
	a.particles = a.particles[:1]
	a.density = 1.0 / (a.w * a.h) // keep exactly one particle
	a.particles[0] = ambientParticle{x: 500, y: 400, vx: 1, ttl: 1e9, alpha: 1}

	advance(h, 10*time.Second)
	assertNear(t, "x", a.particles[0].x, 500+maxFrameDelta)
}

func TestAmbientStepWrapsAtEdges(t *testing.T) {
	h, f, _ := mountAmbient(t, 0.0001)
	advance(h, 16*time.Millisecond)

	a := f.ambient
	a.density = 1.0 / (a.w * a.h)
	a.particles = a.particles[:1]
	a.particles[0] = ambientParticle{x: -edgeMargin + 0.5, y: 400, vx: -1, ttl: 1e9}
	a.step(1)
	assertNear(t, "x", a.particles[0].x, a.w+edgeMargin)

	a.particles[0] = ambientParticle{x: 500, y: a.h + edgeMargin - 0.5, vy: 1, ttl: 1e9}
	a.step(1)
	assertNear(t, "y", a.particles[0].y, -edgeMargin)
}

func TestAmbientRecyclesExpiredParticles(t *testing.T) {
	h, f, _ := mountAmbient(t, 0.0001)
	advance(h, 16*time.Millisecond)

	a := f.ambient
	a.particles[0].life = 100
	a.particles[0].ttl = 100.5
	a.step(1)
	p := a.particles[0]
	if p.life != 0 {
		t.Errorf("life = %f, want 0 after recycle", p.life)
	}
	if p.ttl < ambientTTL.Min || p.ttl > ambientTTL.Max {
		t.Errorf("ttl = %f, out of range", p.ttl)
	}
	if len(a.particles) != 80 {
		t.Errorf("pool = %d, want 80", len(a.particles))
	}
}

func TestEnvelope(t *testing.T) {
	assertNear(t, "birth", envelope(0, 100), 0)
	assertNear(t, "quarter", envelope(25, 100), 0.5)
	assertNear(t, "mid", envelope(50, 100), 1)
	assertNear(t, "death", envelope(100, 100), 0)
	assertNear(t, "zero ttl", envelope(10, 0), 0)
}

func TestAmbientPausesWhileHidden(t *testing.T) {
	h, f, made := mountAmbient(t, 0.0001)
	advance(h, 16*time.Millisecond)
	c := (*made)[0]
	clears := c.clears

	h.SetHidden(true)
	if h.PendingFrames() != 0 {
		t.Errorf("PendingFrames while hidden = %d, want 0", h.PendingFrames())
	}
	advanceBy(h, 5, 16*time.Millisecond)
	if c.clears != clears {
		t.Error("field drew while hidden")
	}

	// A fresh baseline after a long pause: the first frame moves by one
	// baseline frame, not the clamped maximum.
	a := f.ambient
	a.density = 1.0 / (a.w * a.h)
	a.particles = a.particles[:1]
	a.particles[0] = ambientParticle{x: 500, y: 400, vx: 1, ttl: 1e9}
	advance(h, time.Minute)
	h.SetHidden(false)
	advance(h, 16*time.Millisecond)
	assertNear(t, "x", a.particles[0].x, 501)
	if c.clears != clears+1 {
		t.Errorf("clears = %d, want %d", c.clears, clears+1)
	}
}

func TestAmbientSetPaletteRecolorsLiveParticles(t *testing.T) {
	h, f, _ := mountAmbient(t, 0.0001)
	advance(h, 16*time.Millisecond)

	f.SetAmbientPalette([]string{"#ff0000"})
	for i, p := range f.ambient.particles {
		if p.color.Hex() != "#ff0000" {
			t.Fatalf("particle %d color = %s, want #ff0000", i, p.color.Hex())
		}
	}
	if got := f.AmbientPalette(); len(got) != 1 || got[0] != "#ff0000" {
		t.Errorf("AmbientPalette = %v", got)
	}

	f.SetAmbientPalette(nil)
	if got := f.AmbientPalette(); !slices.Equal(got, DefaultAmbientColors) {
		t.Errorf("empty palette should fall back to defaults, got %v", got)
	}
	for i, p := range f.ambient.particles {
		if !slices.Contains(DefaultAmbientColors, p.color.Hex()) {
			t.Fatalf("particle %d color = %s, want a default", i, p.color.Hex())
		}
	}

	// Empty the pool so the next tick spawns every particle afresh.
	f.ambient.particles = f.ambient.particles[:0]
	advance(h, 16*time.Millisecond)
	if len(f.ambient.particles) == 0 {
		t.Fatal("pool should refill")
	}
	for i, p := range f.ambient.particles {
		if !slices.Contains(DefaultAmbientColors, p.color.Hex()) {
			t.Fatalf("spawned particle %d color = %s, want a default", i, p.color.Hex())
		}
	}
}

func TestAmbientUnavailableCanvas(t *testing.T) {
	cases := map[string]CanvasFactory{
		"error": func(int, int) (Canvas, error) { return nil, errors.New("no gpu") },
		"panic": func(int, int) (Canvas, error) { panic("no gpu") },
		"nil":   func(int, int) (Canvas, error) { return nil, nil },
	}
	for name, factory := range cases {
		t.Run(name, func(t *testing.T) {
			h := NewHost(800, 600)
			h.NewCanvas = factory
			var reported error
			f := Mount(h, h.NewContainer("board"), Config{
				Effects:              &EffectsConfig{},
				OnAmbientUnavailable: func(err error) { reported = err },
			})
			if f.AmbientAvailable() {
				t.Error("AmbientAvailable should be false")
			}
			if !errors.Is(reported, ErrCanvasUnsupported) {
				t.Errorf("reported = %v, want ErrCanvasUnsupported", reported)
			}
			advanceBy(h, 3, 16*time.Millisecond)
			if f.Stats().AmbientParticles != 0 {
				t.Error("inert field should hold no particles")
			}
			if f.EmitBurst(1, Overrides{}) == 0 {
				t.Error("effects should keep working without the ambient layer")
			}
			f.Destroy()
			if h.ListenerCount() != 0 || h.PendingFrames() != 0 {
				t.Error("destroy should leave nothing registered")
			}
		})
	}
}
