package fieldfx

import (
	"testing"
	"time"
)

func TestMountScenario(t *testing.T) {
	h, _ := newTestHost(800, 600)
	board := h.NewContainer("board")
	styles := h.Styles()

	a := Mount(h, board, Config{Density: 0.0001})
	h.Resize(1000, 800)
	advance(h, 16*time.Millisecond)
	if got := a.Stats().AmbientParticles; got != 80 {
		t.Errorf("pool = %d, want 80", got)
	}
	if styles.RefCount(board) != 1 || !board.HasClass(HostClass) {
		t.Fatalf("after mount A: refs = %d, marker = %v", styles.RefCount(board), board.HasClass(HostClass))
	}

	b := Mount(h, board, Config{Density: 0.0001})
	if styles.RefCount(board) != 2 {
		t.Errorf("after mount B: refs = %d, want 2", styles.RefCount(board))
	}
	if styles.installs != 1 {
		t.Errorf("stylesheet installs = %d, want 1", styles.installs)
	}

	a.Destroy()
	if styles.RefCount(board) != 1 || !board.HasClass(HostClass) {
		t.Errorf("after destroy A: refs = %d, marker = %v", styles.RefCount(board), board.HasClass(HostClass))
	}

	b.Destroy()
	if styles.RefCount(board) != 0 {
		t.Errorf("after destroy B: refs = %d, want 0", styles.RefCount(board))
	}
	if board.HasClass(HostClass) {
		t.Error("marker class should be removed")
	}
	if board.NumChildren() != 0 {
		t.Errorf("board children = %d, want 0", board.NumChildren())
	}
}

func TestDestroyReleasesEverything(t *testing.T) {
	h, made := newTestHost(800, 600)
	board := h.NewContainer("board")
	f := Mount(h, board, Config{Effects: &EffectsConfig{AmbientDensity: 2}})
	advance(h, 16*time.Millisecond)
	f.EmitBurst(1, Overrides{})
	f.EmitSparkle(1, Overrides{})

	f.Destroy()

	if h.PendingFrames() != 0 {
		t.Errorf("PendingFrames = %d, want 0", h.PendingFrames())
	}
	if h.PendingTimers() != 0 {
		t.Errorf("PendingTimers = %d, want 0", h.PendingTimers())
	}
	if h.ListenerCount() != 0 {
		t.Errorf("ListenerCount = %d, want 0", h.ListenerCount())
	}
	if board.NumChildren() != 0 {
		t.Errorf("board children = %d, want 0", board.NumChildren())
	}
	if !(*made)[0].deallocated {
		t.Error("canvas should be deallocated")
	}
	if h.Styles().Installed() {
		t.Error("stylesheet should be released")
	}
	if !f.Disposed() {
		t.Error("Disposed should report true")
	}
}

func TestDestroyTwiceIsNoOp(t *testing.T) {
	h, _ := newTestHost(800, 600)
	board := h.NewContainer("board")
	other := Mount(h, board, Config{})
	f := Mount(h, board, Config{})

	f.Destroy()
	f.Destroy()
	if h.Styles().RefCount(board) != 1 {
		t.Errorf("refs = %d, want 1 (second destroy must not release other's mount)", h.Styles().RefCount(board))
	}
	other.Destroy()
}

func TestMethodsAfterDestroyAreNoOps(t *testing.T) {
	h, _ := newTestHost(800, 600)
	f := Mount(h, h.NewContainer("board"), Config{Effects: &EffectsConfig{}})
	f.Destroy()

	if n := f.EmitBurst(1, Overrides{}); n != 0 {
		t.Errorf("EmitBurst after destroy = %d, want 0", n)
	}
	if n := f.EmitSparkle(1, Overrides{}); n != 0 {
		t.Errorf("EmitSparkle after destroy = %d, want 0", n)
	}
	f.SetAmbientPalette([]string{"#ff0000"})
	f.SetEffectPalette([]string{"#ff0000"})
	f.SetDensity(1)
	f.SetIdleDensity(1)
	f.ApplyTheme(Theme{Name: "x"})

	if h.PendingTimers() != 0 || h.PendingFrames() != 0 {
		t.Error("no-op methods must not schedule work")
	}
	if s := f.Stats(); s.AmbientParticles != 0 || s.EffectNodes != 0 {
		t.Errorf("Stats after destroy = %+v", s)
	}
}

func TestDestroyFromEarlierFrameInSameStep(t *testing.T) {
	h, made := newTestHost(800, 600)
	a := Mount(h, h.NewContainer("left"), Config{})
	var b *Field
	// Queued between a's and b's frame requests, so b's tick is already in
	// the step's batch when b is destroyed.
	h.RequestFrame(func(time.Time) { b.Destroy() })
	b = Mount(h, h.NewContainer("right"), Config{})

	advance(h, 16*time.Millisecond)
	if c := (*made)[1]; c.clears != 0 || c.fills != 0 {
		t.Errorf("destroyed field drew: clears = %d, fills = %d", c.clears, c.fills)
	}
	if got := b.Stats().AmbientParticles; got != 0 {
		t.Errorf("destroyed field pool = %d, want 0", got)
	}
	if h.PendingFrames() != 1 {
		t.Errorf("PendingFrames = %d, want 1 (only the live field)", h.PendingFrames())
	}
	if a.Stats().AmbientParticles == 0 {
		t.Error("live field should keep running")
	}
	a.Destroy()
}

func TestCallbacksAfterDestroyDoNothing(t *testing.T) {
	h, _ := newTestHost(800, 600)
	f := Mount(h, h.NewContainer("board"), Config{Effects: &EffectsConfig{AmbientDensity: 1}})
	f.Destroy()

	f.ambient.tick(h.Now())
	f.effects.idleTick()

	if h.PendingFrames() != 0 || h.PendingTimers() != 0 {
		t.Errorf("frames = %d, timers = %d, want none", h.PendingFrames(), h.PendingTimers())
	}
	if s := f.Stats(); s.AmbientParticles != 0 || s.EffectNodes != 0 {
		t.Errorf("Stats after destroy = %+v", s)
	}
}

func TestEmitWithoutEffectsReturnsZero(t *testing.T) {
	h, _ := newTestHost(800, 600)
	f := Mount(h, h.NewContainer("board"), Config{})
	if n := f.EmitBurst(1, Overrides{}); n != 0 {
		t.Errorf("EmitBurst = %d, want 0", n)
	}
	if n := f.EmitSparkle(1, Overrides{}); n != 0 {
		t.Errorf("EmitSparkle = %d, want 0", n)
	}
	f.SetIdleDensity(3) // no-op
	if h.PendingTimers() != 0 {
		t.Errorf("PendingTimers = %d, want 0", h.PendingTimers())
	}
}

func TestMountNilContainerUsesRoot(t *testing.T) {
	h, _ := newTestHost(800, 600)
	f := Mount(h, nil, Config{})
	if f.Container() != h.Root() {
		t.Error("nil container should mount on root")
	}
	if !h.Root().HasClass(HostClass) {
		t.Error("root should carry the marker class")
	}
	f.Destroy()
}

func TestEffectPaletteDerivesFromAmbient(t *testing.T) {
	h, _ := newTestHost(800, 600)
	f := Mount(h, h.NewContainer("board"), Config{
		Colors:  []string{"#112233"},
		Effects: &EffectsConfig{},
	})
	if got := f.EffectPalette(); len(got) != 1 || got[0] != "#112233" {
		t.Errorf("EffectPalette = %v, want [#112233]", got)
	}

	f.SetEffectPalette([]string{"#abcdef"})
	if got := f.EffectPalette(); len(got) != 1 || got[0] != "#abcdef" {
		t.Errorf("EffectPalette = %v, want [#abcdef]", got)
	}

	f.SetAmbientPalette([]string{"#445566"})
	f.SetEffectPalette(nil)
	if got := f.EffectPalette(); len(got) != 1 || got[0] != "#445566" {
		t.Errorf("EffectPalette after reset = %v, want ambient [#445566]", got)
	}
}

func TestEffectPaletteUsedForNewParticles(t *testing.T) {
	h, _ := newTestHost(800, 600)
	f := Mount(h, h.NewContainer("board"), Config{Effects: &EffectsConfig{}})
	f.SetEffectPalette([]string{"#ff00ff"})
	f.EmitBurst(1, Overrides{})
	for _, p := range particleNodes(f) {
		if p.Color.Hex() != "#ff00ff" {
			t.Fatalf("Color = %s, want #ff00ff", p.Color.Hex())
		}
	}
}

func TestMountReadsThemeVars(t *testing.T) {
	h, _ := newTestHost(800, 600)
	h.SetVar("--fx-particle-1", "#010101")
	h.SetVar("--fx-accent", "#020202")
	f := Mount(h, h.NewContainer("board"), Config{})
	got := f.AmbientPalette()
	if len(got) != 2 || got[0] != "#010101" || got[1] != "#020202" {
		t.Errorf("AmbientPalette = %v", got)
	}
}

func TestIndependentFieldsOnSeparateContainers(t *testing.T) {
	h, _ := newTestHost(800, 600)
	left := h.NewContainer("left")
	left.SetBox(0, 0, 400, 600)
	right := h.NewContainer("right")
	right.SetBox(400, 0, 400, 600)

	a := Mount(h, left, Config{Density: 0.0001})
	b := Mount(h, right, Config{Density: 0.0002})
	advance(h, 16*time.Millisecond)

	if got := a.Stats().AmbientParticles; got != 24 {
		t.Errorf("left pool = %d, want 24", got)
	}
	if got := b.Stats().AmbientParticles; got != 48 {
		t.Errorf("right pool = %d, want 48", got)
	}

	a.Destroy()
	if !right.HasClass(HostClass) || left.HasClass(HostClass) {
		t.Error("destroying one field must not affect the other container")
	}
	advance(h, 16*time.Millisecond)
	if got := b.Stats().AmbientParticles; got != 48 {
		t.Errorf("right pool after destroying left = %d, want 48", got)
	}
	b.Destroy()
}
