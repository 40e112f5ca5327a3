package fieldfx

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// HostClass is the marker class attached to every container with at least
// one mounted field.
const HostClass = "fx-host"

// spriteSize is the edge length of the shared particle sprites.
const spriteSize = 32

// Stylesheet is the shared visual definition installed once per Host: the
// sprites every celebration node is drawn with. Images are rasterized on
// first use.
type Stylesheet struct {
	id    int
	disc  *ebiten.Image
	shard *ebiten.Image
}

// ID distinguishes successive installations of the stylesheet.
func (s *Stylesheet) ID() int {
	return s.id
}

func (s *Stylesheet) sprite(shape Shape) *ebiten.Image {
	if shape == ShapeShard {
		if s.shard == nil {
			s.shard = rasterizeShard()
		}
		return s.shard
	}
	if s.disc == nil {
		s.disc = ebiten.NewImage(spriteSize, spriteSize)
		vector.DrawFilledCircle(s.disc, spriteSize/2, spriteSize/2, spriteSize/2, color.White, true)
	}
	return s.disc
}

func (s *Stylesheet) release() {
	if s.disc != nil {
		s.disc.Deallocate()
		s.disc = nil
	}
	if s.shard != nil {
		s.shard.Deallocate()
		s.shard = nil
	}
}

// rasterizeShard draws an elongated diamond filling the sprite box.
func rasterizeShard() *ebiten.Image {
	img := ebiten.NewImage(spriteSize, spriteSize)
	var p vector.Path
	const half = spriteSize / 2
	p.MoveTo(half, 0)
	p.LineTo(half+half*0.55, half)
	p.LineTo(half, spriteSize)
	p.LineTo(half-half*0.55, half)
	p.Close()
	vs, is := p.AppendVerticesAndIndicesForFilling(nil, nil)
	for i := range vs {
		vs[i].SrcX, vs[i].SrcY = 1, 1
		vs[i].ColorR, vs[i].ColorG, vs[i].ColorB, vs[i].ColorA = 1, 1, 1, 1
	}
	src := ebiten.NewImage(3, 3)
	src.Fill(color.White)
	img.DrawTriangles(vs, is, src, &ebiten.DrawTrianglesOptions{AntiAlias: true})
	src.Deallocate()
	return img
}

// StyleRegistry reference-counts field mounts per container so the shared
// Stylesheet and each container's marker class exist exactly while used.
type StyleRegistry struct {
	host     *Host
	sheet    *Stylesheet
	installs int
	counts   map[*Node]int
	total    int
}

func newStyleRegistry(h *Host) *StyleRegistry {
	return &StyleRegistry{host: h, counts: make(map[*Node]int)}
}

// EnsureStyles installs the shared stylesheet if absent and registers one
// mount on container. The first mount attaches the marker class.
func (r *StyleRegistry) EnsureStyles(container *Node) {
	if r.sheet == nil {
		r.installs++
		r.sheet = &Stylesheet{id: r.installs}
		r.host.debugf("stylesheet installed (#%d)", r.installs)
	}
	if container == nil {
		container = r.host.root
	}
	n := r.counts[container]
	if n == 0 {
		container.AddClass(HostClass)
	}
	r.counts[container] = n + 1
	r.total++
}

// CleanupStyles releases one mount on container. The marker class is removed
// when the container's count reaches zero, and the stylesheet is released
// when no container holds a mount. Extra calls are no-ops.
func (r *StyleRegistry) CleanupStyles(container *Node) {
	if container == nil {
		container = r.host.root
	}
	n := r.counts[container]
	if n <= 0 {
		return
	}
	r.total--
	if n == 1 {
		delete(r.counts, container)
		container.RemoveClass(HostClass)
	} else {
		r.counts[container] = n - 1
	}
	if r.total == 0 && r.sheet != nil {
		r.sheet.release()
		r.sheet = nil
		r.host.debugf("stylesheet released")
	}
}

// RefCount returns the number of live mounts on container.
func (r *StyleRegistry) RefCount(container *Node) int {
	return r.counts[container]
}

// Installed reports whether the shared stylesheet is present.
func (r *StyleRegistry) Installed() bool {
	return r.sheet != nil
}

// Sheet returns the installed stylesheet, or nil.
func (r *StyleRegistry) Sheet() *Stylesheet {
	return r.sheet
}
