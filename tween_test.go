package fieldfx

import (
	"math"
	"testing"
	"time"

	"github.com/tanema/gween/ease"
)

func TestTweenTrackReachesTarget(t *testing.T) {
	node := newParticleNode("pos")
	node.X = 10

	g := NewTweenGroup(node).Track(&node.X, TweenStop{To: 100, Duration: 1, Ease: ease.Linear})

	// Exact halves avoid float32 accumulation drift.
	g.Update(0.5)
	if math.Abs(node.X-55) > 0.5 {
		t.Errorf("X at half = %f, want ~55", node.X)
	}
	g.Update(0.5)

	if !g.Done {
		t.Fatal("expected Done after full duration")
	}
	if math.Abs(node.X-100) > 0.5 {
		t.Errorf("X = %f, want ~100", node.X)
	}
}

func TestTweenTrackChainsStops(t *testing.T) {
	node := newParticleNode("alpha")
	node.Alpha = 0

	g := NewTweenGroup(node).Track(&node.Alpha,
		TweenStop{To: 1, Duration: 0.5},
		TweenStop{To: 0, Duration: 0.5},
	)

	g.Update(0.5)
	if math.Abs(node.Alpha-1) > 0.01 {
		t.Errorf("Alpha after first stop = %f, want ~1", node.Alpha)
	}
	if g.Done {
		t.Fatal("group should not be done after first stop")
	}
	g.Update(0.25)
	if math.Abs(node.Alpha-0.5) > 0.01 {
		t.Errorf("Alpha mid second stop = %f, want ~0.5", node.Alpha)
	}
	g.Update(0.25)
	if !g.Done {
		t.Fatal("expected Done after both stops")
	}
	if math.Abs(node.Alpha) > 0.01 {
		t.Errorf("Alpha = %f, want ~0", node.Alpha)
	}
}

func TestTweenGroupStopsOnDisposedNode(t *testing.T) {
	node := newParticleNode("gone")
	g := NewTweenGroup(node).Track(&node.X, TweenStop{To: 100, Duration: 1})

	node.Dispose()
	g.Update(0.5)

	if !g.Done {
		t.Error("expected Done when target disposed")
	}
	if node.X != 0 {
		t.Errorf("X = %f, want 0 (no write after dispose)", node.X)
	}
}

func TestTweenEmptyTrackIgnored(t *testing.T) {
	node := newParticleNode("n")
	g := NewTweenGroup(node).Track(&node.X)
	g.Update(0.1)
	if !g.Done {
		t.Error("a group with no tracks is done on first update")
	}
}

func TestParticleTransitionEndState(t *testing.T) {
	node := newParticleNode("p")
	node.Alpha = 0
	node.Rotation = radians(90)
	pp := ParticleParams{
		Duration: time.Second,
		Opacity:  0.9,
		Lift:     200,
		Drift:    -50,
		EndScale: 0.5,
		Spin:     180,
	}

	g := particleTransition(node, pp)
	for i := 0; i < 4; i++ {
		g.Update(0.5)
	}

	if !g.Done {
		t.Fatal("expected Done after full duration")
	}
	assertNear(t, "X", node.X, -50)
	assertNear(t, "Y", node.Y, -200)
	if math.Abs(node.ScaleX-0.5) > 1e-4 || math.Abs(node.ScaleY-0.5) > 1e-4 {
		t.Errorf("Scale = (%f, %f), want 0.5", node.ScaleX, node.ScaleY)
	}
	if math.Abs(node.Rotation-radians(270)) > 1e-4 {
		t.Errorf("Rotation = %f, want %f", node.Rotation, radians(270))
	}
	if math.Abs(node.Alpha) > 1e-4 {
		t.Errorf("Alpha = %f, want 0", node.Alpha)
	}
}

func TestParticleTransitionCarriesOverflow(t *testing.T) {
	node := newParticleNode("p")
	node.Alpha = 0
	g := particleTransition(node, ParticleParams{Duration: time.Second, Opacity: 0.9})

	// 8 x 0.14s = 1.12s. Steps never land on the 0.15s fade-in boundary.
	for i := 0; i < 8; i++ {
		g.Update(0.14)
	}
	if !g.Done {
		t.Fatal("expected Done once the summed steps pass the duration")
	}
	if math.Abs(node.Alpha) > 1e-6 {
		t.Errorf("Alpha = %f, want 0", node.Alpha)
	}
}

func TestRadians(t *testing.T) {
	assertNear(t, "180", radians(180), math.Pi)
	assertNear(t, "-90", radians(-90), -math.Pi/2)
}
