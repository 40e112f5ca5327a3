package fieldfx

import (
	"math"
	"math/rand/v2"
	"time"

	"github.com/lucasb-eyer/go-colorful"
)

const (
	// removalBuffer is added to a particle's duration before its node is removed.
	removalBuffer = 60 * time.Millisecond

	minIdleInterval = 160 * time.Millisecond
	maxIdleInterval = 1200 * time.Millisecond

	// minStrength is the floor applied to emit strengths.
	minStrength = 0.2
)

// ParticleParams are the resolved attributes of one celebration particle.
// Angles are in degrees; X and Y are the start position in percent of the
// layer box.
type ParticleParams struct {
	Size     float64
	Duration time.Duration
	Opacity  float64
	Lift     float64
	Drift    float64
	EndScale float64
	Rotation float64
	Spin     float64
	X, Y     float64
	Color    colorful.Color
	Shape    Shape
}

// Overrides replace randomized particle attributes. Every non-nil field
// applies to every particle of one emit call.
type Overrides struct {
	Size     *float64       `yaml:"size"`
	Duration *time.Duration `yaml:"duration"`
	Opacity  *float64       `yaml:"opacity"`
	Lift     *float64       `yaml:"lift"`
	Drift    *float64       `yaml:"drift"`
	EndScale *float64       `yaml:"endScale"`
	Rotation *float64       `yaml:"rotation"`
	Spin     *float64       `yaml:"spin"`
	X        *float64       `yaml:"x"`
	Y        *float64       `yaml:"y"`
	Color    *string        `yaml:"color"`
	Shape    *Shape         `yaml:"shape"`
}

// emitProfile is the randomization table for one emission intent.
type emitProfile struct {
	name        string
	size        Range
	duration    Range // milliseconds
	opacity     Range
	lift        Range
	drift       Range
	endScale    Range
	spin        Range
	x, y        Range
	shardChance float64
}

var (
	idleProfile = emitProfile{
		name:        "idle",
		size:        Range{4, 10},
		duration:    Range{1800, 3200},
		opacity:     Range{0.3, 0.7},
		lift:        Range{40, 120},
		drift:       Range{-30, 30},
		endScale:    Range{0.4, 0.9},
		spin:        Range{-90, 90},
		x:           Range{4, 96},
		y:           Range{30, 95},
		shardChance: 0.15,
	}
	burstProfile = emitProfile{
		name:        "burst",
		size:        Range{8, 18},
		duration:    Range{900, 1600},
		opacity:     Range{0.65, 1},
		lift:        Range{140, 280},
		drift:       Range{-180, 180},
		endScale:    Range{0.2, 0.7},
		spin:        Range{-240, 240},
		x:           Range{30, 70},
		y:           Range{55, 80},
		shardChance: 0.45,
	}
	sparkleProfile = emitProfile{
		name:        "sparkle",
		size:        Range{4, 10},
		duration:    Range{550, 1000},
		opacity:     Range{0.55, 0.95},
		lift:        Range{30, 90},
		drift:       Range{-70, 70},
		endScale:    Range{0.3, 0.8},
		spin:        Range{-160, 160},
		x:           Range{15, 85},
		y:           Range{8, 35},
		shardChance: 0.25,
	}
)

// params draws one particle from the profile, then applies overrides.
func (p emitProfile) params(palette *Palette, o Overrides) ParticleParams {
	pp := ParticleParams{
		Size:     p.size.Random(),
		Duration: time.Duration(p.duration.Random() * float64(time.Millisecond)),
		Opacity:  p.opacity.Random(),
		Lift:     p.lift.Random(),
		Drift:    p.drift.Random(),
		EndScale: p.endScale.Random(),
		Rotation: Range{0, 360}.Random(),
		Spin:     p.spin.Random(),
		X:        p.x.Random(),
		Y:        p.y.Random(),
		Color:    palette.Pick(),
	}
	if chance(p.shardChance) {
		pp.Shape = ShapeShard
	}
	o.apply(&pp)
	return pp
}

func (o Overrides) apply(pp *ParticleParams) {
	setIf := func(dst *float64, src *float64) {
		if src != nil {
			*dst = *src
		}
	}
	setIf(&pp.Size, o.Size)
	setIf(&pp.Opacity, o.Opacity)
	setIf(&pp.Lift, o.Lift)
	setIf(&pp.Drift, o.Drift)
	setIf(&pp.EndScale, o.EndScale)
	setIf(&pp.Rotation, o.Rotation)
	setIf(&pp.Spin, o.Spin)
	setIf(&pp.X, o.X)
	setIf(&pp.Y, o.Y)
	if o.Duration != nil && *o.Duration >= 0 {
		pp.Duration = *o.Duration
	}
	if o.Color != nil {
		if sw, ok := ParseSwatch(*o.Color); ok {
			pp.Color = sw.Color
		}
	}
	if o.Shape != nil {
		pp.Shape = *o.Shape
	}
}

// emitCount scales a random base count by strength, floored at minStrength.
func emitCount(base Range, strength float64) int {
	if math.IsNaN(strength) {
		strength = 1
	}
	return int(math.Round(base.Random() * math.Max(minStrength, strength)))
}

// CelebrationLayer is the layer of one-shot particles drawn above the
// ambient field. Every node it spawns starts animating immediately and is
// removed by its own timer once its flight is over.
type CelebrationLayer struct {
	host    *Host
	node    *Node
	palette *Palette
	density float64

	live      map[*Node]TimerID
	idleTimer TimerID
	disposed  bool
}

func newCelebrationLayer(h *Host, container *Node, palette *Palette, cfg EffectsConfig) *CelebrationLayer {
	l := &CelebrationLayer{
		host:    h,
		node:    NewContainer("fx-effects"),
		palette: palette,
		live:    make(map[*Node]TimerID),
	}
	l.node.ZIndex = cfg.ZIndex
	container.AddChild(l.node)
	l.SetIdleDensity(cfg.AmbientDensity)
	return l
}

// Burst spawns round(rand[10,16] × max(0.2, strength)) particles in the
// lower-middle band and returns the count.
func (l *CelebrationLayer) Burst(strength float64, o Overrides) int {
	return l.emit(burstProfile, emitCount(Range{10, 16}, strength), o)
}

// Sparkle spawns round(rand[4,8] × max(0.2, strength)) particles in the
// upper band and returns the count.
func (l *CelebrationLayer) Sparkle(strength float64, o Overrides) int {
	return l.emit(sparkleProfile, emitCount(Range{4, 8}, strength), o)
}

func (l *CelebrationLayer) emit(p emitProfile, count int, o Overrides) int {
	if l.disposed {
		return 0
	}
	for i := 0; i < count; i++ {
		l.spawn(p.params(l.palette, o))
	}
	return count
}

// spawn creates one animated node and its removal timer.
func (l *CelebrationLayer) spawn(pp ParticleParams) *Node {
	n := newParticleNode("fx-particle")
	n.AnchorX = pp.X / 100
	n.AnchorY = pp.Y / 100
	n.Size = pp.Size
	n.Color = pp.Color
	n.Shape = pp.Shape
	n.Rotation = radians(pp.Rotation)
	n.Alpha = 0
	n.transition = particleTransition(n, pp)
	l.node.AddChild(n)

	l.live[n] = l.host.AfterFunc(pp.Duration+removalBuffer, func() {
		l.remove(n)
	})
	return n
}

func (l *CelebrationLayer) remove(n *Node) {
	if _, ok := l.live[n]; !ok {
		return
	}
	delete(l.live, n)
	n.Dispose()
}

// SetIdleDensity changes the idle emission rate. Zero stops idle emission.
func (l *CelebrationLayer) SetIdleDensity(density float64) {
	if math.IsNaN(density) || density < 0 {
		density = 0
	}
	l.density = density
	if l.idleTimer != 0 {
		l.host.ClearTimer(l.idleTimer)
		l.idleTimer = 0
	}
	l.scheduleNext()
}

// IdleDensity returns the idle emission rate.
func (l *CelebrationLayer) IdleDensity() float64 {
	return l.density
}

// scheduleNext arms the idle timer unless the layer is disposed or idle.
func (l *CelebrationLayer) scheduleNext() {
	if l.disposed || l.density <= 0 {
		return
	}
	l.idleTimer = l.host.AfterFunc(idleInterval(l.density), l.idleTick)
}

func (l *CelebrationLayer) idleTick() {
	l.idleTimer = 0
	if l.disposed || l.density <= 0 {
		return
	}
	for i, n := 0, idleCount(l.density); i < n; i++ {
		l.spawn(idleProfile.params(l.palette, Overrides{}))
	}
	l.scheduleNext()
}

// idleInterval returns a jittered delay whose mean falls as density rises.
func idleInterval(density float64) time.Duration {
	mean := float64(maxIdleInterval) / (1 + density*1.5)
	d := time.Duration(mean * Range{0.7, 1.3}.Random())
	return time.Duration(clamp(float64(d), float64(minIdleInterval), float64(maxIdleInterval)))
}

// idleCount returns how many particles one idle firing spawns: 1 to 2+2×density.
func idleCount(density float64) int {
	hi := int(math.Floor(2 + density*2))
	return 1 + rand.IntN(hi)
}

// Len returns the number of live particle nodes.
func (l *CelebrationLayer) Len() int {
	return len(l.live)
}

// destroy cancels the idle timer and every removal timer and disposes all
// owned nodes.
func (l *CelebrationLayer) destroy() {
	if l.disposed {
		return
	}
	l.disposed = true
	if l.idleTimer != 0 {
		l.host.ClearTimer(l.idleTimer)
		l.idleTimer = 0
	}
	for n, id := range l.live {
		l.host.ClearTimer(id)
		n.Dispose()
	}
	l.live = nil
	l.node.Dispose()
}
