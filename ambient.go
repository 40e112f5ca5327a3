package fieldfx

import (
	"math"
	"time"

	"github.com/lucasb-eyer/go-colorful"
)

const (
	// frameMillis is the 60 updates-per-second baseline deltas are normalized to.
	frameMillis = 1000.0 / 60
	// maxFrameDelta caps a normalized delta so a long stall does not teleport particles.
	maxFrameDelta = 3.5
	// edgeMargin is how far past an edge a particle travels before wrapping.
	edgeMargin = 8
)

// Spawn ranges for ambient particles, in device-independent pixels per
// baseline frame (velocities) and baseline frames (ttl).
var (
	ambientVX     = Range{-0.18, 0.18}
	ambientVY     = Range{-0.22, 0.08}
	ambientSway   = Range{-0.0035, 0.0035}
	ambientRadius = Range{0.6, 2.4}
	ambientTTL    = Range{240, 600}
	ambientAlpha  = Range{0.25, 0.8}
)

// ambientParticle holds per-particle simulation state. Unexported; managed by AmbientField.
type ambientParticle struct {
	x, y   float64
	vx, vy float64
	sway   float64 // horizontal acceleration per baseline frame
	radius float64
	life   float64 // baseline frames lived
	ttl    float64 // baseline frames to live
	alpha  float64 // base alpha, scaled by the fade envelope
	color  colorful.Color
}

// AmbientField is the continuously animated background particle simulation.
// It owns one Canvas sized to its container and a fixed-density pool of
// particles that recycle in place when their life runs out.
//
// When the host cannot provide a Canvas the field stays inert: every method
// is a silent no-op and Available reports false.
type AmbientField struct {
	host      *Host
	container *Node
	node      *Node
	canvas    Canvas
	palette   *Palette
	density   float64

	particles []ambientParticle
	w, h      float64 // canvas size in device pixels
	scale     float64

	lastTime  time.Time
	frame     FrameID
	resizeID  ListenerID
	visID     ListenerID
	available bool
	disposed  bool
}

// newAmbientField creates the field's canvas under container and starts the
// frame loop.
func newAmbientField(h *Host, container *Node, palette *Palette, density float64) *AmbientField {
	f := &AmbientField{
		host:      h,
		container: container,
		palette:   palette,
		density:   math.Max(0, density),
		scale:     h.DeviceScale(),
	}
	w, hh := f.surfaceSize()
	c, err := newCanvasSafe(h.NewCanvas, w, hh)
	if err != nil {
		h.debugf("ambient field on %q disabled: %v", container.Name, err)
		return f
	}
	f.canvas = c
	f.available = true
	f.node = newCanvasNode("fx-ambient", c)
	container.AddChild(f.node)
	f.resize()

	f.resizeID = h.OnResize(f.resize)
	f.visID = h.OnVisibilityChange(f.onVisibility)
	if !h.Hidden() {
		f.frame = h.RequestFrame(f.tick)
	}
	return f
}

// newCanvasSafe calls factory, converting a panic into ErrCanvasUnsupported.
func newCanvasSafe(factory CanvasFactory, w, h int) (c Canvas, err error) {
	if factory == nil {
		return nil, ErrCanvasUnsupported
	}
	defer func() {
		if r := recover(); r != nil {
			c, err = nil, ErrCanvasUnsupported
		}
	}()
	c, err = factory(w, h)
	if err == nil && c == nil {
		err = ErrCanvasUnsupported
	}
	return c, err
}

// surfaceSize returns the container's box in device pixels.
func (f *AmbientField) surfaceSize() (int, int) {
	box := f.host.BoxOf(f.container)
	s := f.host.DeviceScale()
	return int(math.Ceil(box.Width * s)), int(math.Ceil(box.Height * s))
}

// resize matches the canvas to the container's box.
func (f *AmbientField) resize() {
	if f.disposed || !f.available {
		return
	}
	w, h := f.surfaceSize()
	if cw, ch := f.canvas.Size(); cw != w || ch != h {
		f.canvas.Resize(w, h)
	}
	f.w, f.h = float64(w), float64(h)
	f.scale = f.host.DeviceScale()
}

func (f *AmbientField) onVisibility(hidden bool) {
	if f.disposed || !f.available {
		return
	}
	if hidden {
		if f.frame != 0 {
			f.host.CancelFrame(f.frame)
			f.frame = 0
		}
		return
	}
	f.lastTime = time.Time{}
	if f.frame == 0 {
		f.frame = f.host.RequestFrame(f.tick)
	}
}

// tick is the frame callback.
func (f *AmbientField) tick(now time.Time) {
	f.frame = 0
	if f.disposed {
		return
	}
	delta := 1.0
	if !f.lastTime.IsZero() {
		delta = float64(now.Sub(f.lastTime)) / float64(time.Millisecond) / frameMillis
	}
	f.lastTime = now
	f.step(clamp(delta, 0, maxFrameDelta))
	f.draw()
	if !f.host.Hidden() {
		f.frame = f.host.RequestFrame(f.tick)
	}
}

// target returns the pool size for the current canvas.
func (f *AmbientField) target() int {
	return int(math.Floor(f.w * f.h * f.density))
}

// step advances the simulation by delta baseline frames.
func (f *AmbientField) step(delta float64) {
	want := f.target()
	for len(f.particles) < want {
		f.particles = append(f.particles, ambientParticle{})
		f.spawn(&f.particles[len(f.particles)-1])
	}
	if len(f.particles) > want {
		f.particles = f.particles[:want]
	}

	margin := edgeMargin * f.scale
	for i := range f.particles {
		p := &f.particles[i]
		p.x += p.vx * delta
		p.y += p.vy * delta
		p.vx += p.sway * delta

		if p.x < -margin {
			p.x = f.w + margin
		} else if p.x > f.w+margin {
			p.x = -margin
		}
		if p.y < -margin {
			p.y = f.h + margin
		} else if p.y > f.h+margin {
			p.y = -margin
		}

		p.life += delta
		if p.life >= p.ttl {
			f.spawn(p)
		}
	}
}

// spawn resets p to a fresh random state.
func (f *AmbientField) spawn(p *ambientParticle) {
	s := f.scale
	*p = ambientParticle{
		x:      Range{0, f.w}.Random(),
		y:      Range{0, f.h}.Random(),
		vx:     ambientVX.Random() * s,
		vy:     ambientVY.Random() * s,
		sway:   ambientSway.Random() * s,
		radius: ambientRadius.Random() * s,
		ttl:    ambientTTL.Random(),
		alpha:  ambientAlpha.Random(),
		color:  f.palette.Pick(),
	}
}

// envelope is the triangular fade: 0 at birth, 1 at mid-life, 0 at ttl.
func envelope(life, ttl float64) float64 {
	if ttl <= 0 {
		return 0
	}
	t := clamp(life/ttl, 0, 1)
	if t < 0.5 {
		return t * 2
	}
	return (1 - t) * 2
}

func (f *AmbientField) draw() {
	f.canvas.Clear()
	for i := range f.particles {
		p := &f.particles[i]
		a := envelope(p.life, p.ttl) * p.alpha
		if a <= 0 {
			continue
		}
		f.canvas.FillCircle(float32(p.x), float32(p.y), float32(p.radius), p.color, a)
	}
}

// SetPalette replaces the spawn palette and recolors every live particle.
// An empty or invalid list falls back to the default triad.
func (f *AmbientField) SetPalette(colors []string) {
	f.palette.Set(colors)
	for i := range f.particles {
		f.particles[i].color = f.palette.Pick()
	}
}

// SetDensity changes the target coverage ratio; the pool converges on the
// next frame.
func (f *AmbientField) SetDensity(density float64) {
	f.density = math.Max(0, density)
}

// Density returns the target coverage ratio.
func (f *AmbientField) Density() float64 {
	return f.density
}

// Len returns the live pool size.
func (f *AmbientField) Len() int {
	return len(f.particles)
}

// Available reports whether the field has a usable canvas.
func (f *AmbientField) Available() bool {
	return f.available
}

// destroy stops the loop, removes listeners and disposes the canvas node.
func (f *AmbientField) destroy() {
	if f.disposed {
		return
	}
	f.disposed = true
	if f.frame != 0 {
		f.host.CancelFrame(f.frame)
		f.frame = 0
	}
	if f.available {
		f.host.RemoveListener(f.resizeID)
		f.host.RemoveListener(f.visID)
		f.node.Dispose()
	}
	f.particles = nil
	f.canvas = nil
}
