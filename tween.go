package fieldfx

import (
	"math"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// tweenTrack drives one float64 field through a gween.Sequence, so time left
// over when one leg finishes carries into the next.
type tweenTrack struct {
	field *float64
	seq   *gween.Sequence
}

// TweenGroup animates several float64 fields on a Node simultaneously. Each
// field is a track of one or more tweens played in order. Update writes the
// current values straight into the node. If the target node is disposed, the
// group stops immediately.
type TweenGroup struct {
	tracks []tweenTrack
	target *Node
	Done   bool
}

// NewTweenGroup creates an empty group bound to node.
func NewTweenGroup(node *Node) *TweenGroup {
	return &TweenGroup{target: node}
}

// Track adds a field animated from its current value through each stop.
func (g *TweenGroup) Track(field *float64, stops ...TweenStop) *TweenGroup {
	if len(stops) == 0 {
		return g
	}
	seq := gween.NewSequence()
	from := *field
	for _, s := range stops {
		fn := s.Ease
		if fn == nil {
			fn = ease.Linear
		}
		seq.Add(gween.New(float32(from), float32(s.To), s.Duration, fn))
		from = s.To
	}
	g.tracks = append(g.tracks, tweenTrack{field: field, seq: seq})
	return g
}

// TweenStop is one leg of a track: reach To after Duration seconds.
type TweenStop struct {
	To       float64
	Duration float32
	Ease     ease.TweenFunc
}

// Update advances all tracks by dt seconds and writes values to the target
// fields. If the target node has been disposed, Done is set and no writes
// occur.
func (g *TweenGroup) Update(dt float32) {
	if g.Done {
		return
	}
	if g.target != nil && g.target.IsDisposed() {
		g.Done = true
		return
	}

	allDone := true
	for i := range g.tracks {
		tr := &g.tracks[i]
		val, _, finished := tr.seq.Update(dt)
		*tr.field = float64(val)
		if !finished {
			allDone = false
		}
	}
	g.Done = allDone
}

// fadeInShare is the fraction of a celebration particle's life spent fading in.
const fadeInShare = 0.15

// particleTransition builds the flight of one celebration particle: drift
// sideways, lift upward, scale toward its end scale, spin, and fade in then out.
func particleTransition(n *Node, p ParticleParams) *TweenGroup {
	d := float32(p.Duration.Seconds())
	in := d * fadeInShare
	return NewTweenGroup(n).
		Track(&n.X, TweenStop{To: p.Drift, Duration: d, Ease: ease.OutCubic}).
		Track(&n.Y, TweenStop{To: -p.Lift, Duration: d, Ease: ease.OutQuad}).
		Track(&n.ScaleX, TweenStop{To: p.EndScale, Duration: d, Ease: ease.InOutSine}).
		Track(&n.ScaleY, TweenStop{To: p.EndScale, Duration: d, Ease: ease.InOutSine}).
		Track(&n.Rotation, TweenStop{To: n.Rotation + radians(p.Spin), Duration: d}).
		Track(&n.Alpha,
			TweenStop{To: p.Opacity, Duration: in, Ease: ease.OutQuad},
			TweenStop{To: 0, Duration: d - in, Ease: ease.InQuad},
		)
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}
