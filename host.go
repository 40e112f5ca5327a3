package fieldfx

import (
	"math"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/lucasb-eyer/go-colorful"
)

// ListenerID identifies a registered resize or visibility listener.
type ListenerID uint64

type resizeListener struct {
	id ListenerID
	fn func()
}

type visibilityListener struct {
	id ListenerID
	fn func(hidden bool)
}

// Host is the document every field is mounted into. It owns the element
// tree, the theme variables, the shared style registry, and the timers and
// frame requests that drive all animation. Host implements ebiten.Game.
//
// Host is single-threaded: every method must be called from the goroutine
// that calls Step (the ebiten game loop in production).
type Host struct {
	root   *Node
	sched  scheduler
	styles *StyleRegistry
	vars   map[string]string

	viewW, viewH float64
	scale        float64
	hidden       bool

	resizeListeners     []resizeListener
	visibilityListeners []visibilityListener
	nextListener        ListenerID

	// NewCanvas creates ambient field surfaces. Defaults to NewImageCanvas.
	NewCanvas CanvasFactory

	// ClearColor fills the screen before drawing when ClearAlpha > 0.
	ClearColor colorful.Color
	ClearAlpha float64

	// ScreenshotDir is where queued screenshots are written.
	ScreenshotDir   string
	screenshotQueue []pendingShot
	shotSeq         int

	// ShowStats draws a frame-rate and population panel in the top-left
	// corner.
	ShowStats    bool
	overlay      statsOverlay
	overlayDirty bool

	script   *ScriptRunner
	lastStep time.Time
	debug    bool
}

// NewHost creates a host with a viewport of the given size.
func NewHost(width, height float64) *Host {
	h := &Host{
		root:          NewContainer("root"),
		vars:          make(map[string]string),
		viewW:         width,
		viewH:         height,
		scale:         1,
		NewCanvas:     NewImageCanvas,
		ScreenshotDir: "screenshots",
	}
	h.sched.now = time.Now()
	h.styles = newStyleRegistry(h)
	return h
}

// Root returns the host's root container node.
func (h *Host) Root() *Node {
	return h.root
}

// NewContainer creates a container under the root.
func (h *Host) NewContainer(name string) *Node {
	c := NewContainer(name)
	h.root.AddChild(c)
	return c
}

// Styles returns the host's shared style registry.
func (h *Host) Styles() *StyleRegistry {
	return h.styles
}

// --- Viewport ---

// Viewport returns the viewport size in logical pixels.
func (h *Host) Viewport() (float64, float64) {
	return h.viewW, h.viewH
}

// Resize changes the viewport size and notifies resize listeners.
func (h *Host) Resize(width, height float64) {
	if width == h.viewW && height == h.viewH {
		return
	}
	h.viewW, h.viewH = width, height
	h.dispatchResize()
}

// DeviceScale returns the device pixel ratio.
func (h *Host) DeviceScale() float64 {
	return h.scale
}

// SetDeviceScale changes the device pixel ratio and notifies resize listeners.
// Non-positive values are treated as 1.
func (h *Host) SetDeviceScale(s float64) {
	if s <= 0 || math.IsNaN(s) {
		s = 1
	}
	if s == h.scale {
		return
	}
	h.scale = s
	h.dispatchResize()
}

// BoxOf returns the absolute box of node. Containers with an empty box cover
// their parent's box; the root covers the viewport.
func (h *Host) BoxOf(n *Node) Rect {
	parent := Rect{0, 0, h.viewW, h.viewH}
	if n == nil || n == h.root {
		return parent
	}
	if n.Parent != nil {
		parent = h.BoxOf(n.Parent)
	}
	if n.boxEmpty() {
		return parent
	}
	return Rect{parent.X + n.X, parent.Y + n.Y, n.Width, n.Height}
}

func (n *Node) boxEmpty() bool {
	return n.Type != NodeTypeContainer || Rect{Width: n.Width, Height: n.Height}.Empty()
}

// --- Visibility ---

// Hidden reports whether the host is hidden (tab in background, window
// unfocused). Frame requests are held while hidden.
func (h *Host) Hidden() bool {
	return h.hidden
}

// SetHidden changes visibility and notifies visibility listeners.
func (h *Host) SetHidden(hidden bool) {
	if hidden == h.hidden {
		return
	}
	h.hidden = hidden
	ls := make([]visibilityListener, len(h.visibilityListeners))
	copy(ls, h.visibilityListeners)
	for _, l := range ls {
		l.fn(hidden)
	}
}

// --- Listeners ---

// OnResize registers fn to run after every viewport or scale change.
func (h *Host) OnResize(fn func()) ListenerID {
	h.nextListener++
	h.resizeListeners = append(h.resizeListeners, resizeListener{id: h.nextListener, fn: fn})
	return h.nextListener
}

// OnVisibilityChange registers fn to run whenever Hidden changes.
func (h *Host) OnVisibilityChange(fn func(hidden bool)) ListenerID {
	h.nextListener++
	h.visibilityListeners = append(h.visibilityListeners, visibilityListener{id: h.nextListener, fn: fn})
	return h.nextListener
}

// RemoveListener unregisters a listener. No-op for unknown ids.
func (h *Host) RemoveListener(id ListenerID) {
	for i, l := range h.resizeListeners {
		if l.id == id {
			h.resizeListeners = append(h.resizeListeners[:i], h.resizeListeners[i+1:]...)
			return
		}
	}
	for i, l := range h.visibilityListeners {
		if l.id == id {
			h.visibilityListeners = append(h.visibilityListeners[:i], h.visibilityListeners[i+1:]...)
			return
		}
	}
}

// ListenerCount returns the number of registered listeners.
func (h *Host) ListenerCount() int {
	return len(h.resizeListeners) + len(h.visibilityListeners)
}

func (h *Host) dispatchResize() {
	ls := make([]resizeListener, len(h.resizeListeners))
	copy(ls, h.resizeListeners)
	for _, l := range ls {
		l.fn()
	}
}

// --- Theme variables ---

// SetVar sets a root theme variable such as "--fx-accent". An empty value
// removes it.
func (h *Host) SetVar(name, value string) {
	if value == "" {
		delete(h.vars, name)
		return
	}
	h.vars[name] = value
}

// Var returns a root theme variable, or "" when unset.
func (h *Host) Var(name string) string {
	return h.vars[name]
}

// --- Scheduling ---

// Now returns the time of the current or most recent step.
func (h *Host) Now() time.Time {
	return h.sched.now
}

// AfterFunc schedules fn to run once, d after Now.
func (h *Host) AfterFunc(d time.Duration, fn func()) TimerID {
	return h.sched.afterFunc(d, fn)
}

// ClearTimer cancels a pending timer. Reports whether it was pending.
func (h *Host) ClearTimer(id TimerID) bool {
	return h.sched.clearTimer(id)
}

// RequestFrame schedules fn for the next visible step.
func (h *Host) RequestFrame(fn func(now time.Time)) FrameID {
	return h.sched.requestFrame(fn)
}

// CancelFrame cancels a pending frame request. Reports whether it was pending.
func (h *Host) CancelFrame(id FrameID) bool {
	return h.sched.cancelFrame(id)
}

// PendingTimers returns the number of timers not yet fired.
func (h *Host) PendingTimers() int {
	return len(h.sched.timers)
}

// PendingFrames returns the number of frame requests not yet fired.
func (h *Host) PendingFrames() int {
	return len(h.sched.frames)
}

// Step advances the host to now: fires due timers, then pending frame
// requests (unless hidden), then advances node transitions.
func (h *Host) Step(now time.Time) {
	if now.Before(h.sched.now) {
		now = h.sched.now
	}
	var dt float64
	if !h.lastStep.IsZero() {
		dt = now.Sub(h.lastStep).Seconds()
	}
	h.lastStep = now
	h.sched.now = now

	var stats stepStats
	var t0 time.Time
	if h.debug {
		t0 = time.Now()
	}

	stats.timersFired = h.sched.runTimers(now)
	if h.debug {
		stats.timerTime = time.Since(t0)
		t0 = time.Now()
	}

	if !h.hidden {
		stats.framesFired = h.sched.runFrames(now)
	}
	if h.debug {
		stats.frameTime = time.Since(t0)
		t0 = time.Now()
	}

	stats.liveParticles = h.advanceTransitions(float32(dt))

	if h.script != nil {
		h.script.step(h)
	}

	if h.debug {
		stats.tweenTime = time.Since(t0)
		h.debugLog(stats)
	}
	if h.ShowStats && h.overlay.update(dt, stats, ebiten.ActualFPS(), ebiten.ActualTPS()) {
		h.overlayDirty = true
	}
}

// advanceTransitions updates every particle node's tween group and returns
// the number of live particle nodes.
func (h *Host) advanceTransitions(dt float32) int {
	live := 0
	walk(h.root, func(n *Node) {
		if n.Type != NodeTypeParticle {
			return
		}
		live++
		if n.transition != nil {
			n.transition.Update(dt)
		}
	})
	return live
}

// SetDebugMode enables or disables debug mode. When enabled, disposed-node
// access panics and per-step stats are logged to stderr.
func (h *Host) SetDebugMode(enabled bool) {
	h.debug = enabled
	globalDebug = enabled
}

// SetScriptRunner attaches a ScriptRunner, stepped once per Host.Step.
func (h *Host) SetScriptRunner(r *ScriptRunner) {
	h.script = r
}

// --- ebiten.Game ---

// Update implements ebiten.Game. Window focus maps to visibility.
func (h *Host) Update() error {
	h.SetHidden(!ebiten.IsFocused())
	h.Step(time.Now())
	return nil
}

// Layout implements ebiten.Game. Outside size changes become resizes.
func (h *Host) Layout(outsideWidth, outsideHeight int) (int, int) {
	h.Resize(float64(outsideWidth), float64(outsideHeight))
	return outsideWidth, outsideHeight
}

// Draw implements ebiten.Game.
func (h *Host) Draw(screen *ebiten.Image) {
	if h.ClearAlpha > 0 {
		screen.Fill(nrgba(h.ClearColor, h.ClearAlpha))
	}
	h.drawNode(screen, h.root, Rect{0, 0, h.viewW, h.viewH})
	h.flushScreenshots(screen)
	if h.ShowStats {
		h.overlay.draw(screen, h.overlayDirty)
		h.overlayDirty = false
	} else {
		h.overlay.release()
	}
}

func (h *Host) drawNode(screen *ebiten.Image, n *Node, parent Rect) {
	if !n.Visible {
		return
	}
	box := parent
	switch n.Type {
	case NodeTypeContainer:
		if !n.boxEmpty() && n != h.root {
			box = Rect{parent.X + n.X, parent.Y + n.Y, n.Width, n.Height}
		}
	case NodeTypeCanvas:
		h.drawCanvas(screen, n, parent)
	case NodeTypeParticle:
		h.drawParticle(screen, n, parent)
	}
	for _, c := range n.drawOrder() {
		h.drawNode(screen, c, box)
	}
}

func (h *Host) drawCanvas(screen *ebiten.Image, n *Node, box Rect) {
	ic, ok := n.canvas.(imageCanvas)
	if !ok {
		return
	}
	img := ic.Image()
	if img == nil {
		return
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(1/h.scale, 1/h.scale)
	op.GeoM.Translate(box.X, box.Y)
	op.ColorScale.ScaleAlpha(float32(n.Alpha))
	screen.DrawImage(img, op)
}

func (h *Host) drawParticle(screen *ebiten.Image, n *Node, box Rect) {
	sheet := h.styles.Sheet()
	if sheet == nil || n.Alpha <= 0 {
		return
	}
	img := sheet.sprite(n.Shape)
	sw := float64(img.Bounds().Dx())
	s := n.Size / sw
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(-sw/2, -sw/2)
	op.GeoM.Scale(s*n.ScaleX, s*n.ScaleY)
	op.GeoM.Rotate(n.Rotation)
	op.GeoM.Translate(box.X+n.AnchorX*box.Width+n.X, box.Y+n.AnchorY*box.Height+n.Y)
	a := clamp(n.Alpha, 0, 1)
	op.ColorScale.ScaleWithColor(nrgba(n.Color, a))
	op.Blend = ebiten.BlendLighter
	screen.DrawImage(img, op)
}
