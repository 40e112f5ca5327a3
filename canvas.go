package fieldfx

import (
	"errors"
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/lucasb-eyer/go-colorful"
)

// ErrCanvasUnsupported is returned by a CanvasFactory when the host cannot
// provide a drawing surface.
var ErrCanvasUnsupported = errors.New("fieldfx: canvas unsupported")

// Canvas is the pixel surface the ambient field draws into. Sizes are in
// device pixels.
type Canvas interface {
	Size() (w, h int)
	Resize(w, h int)
	Clear()
	FillCircle(x, y, r float32, clr colorful.Color, alpha float64)
	Deallocate()
}

// CanvasFactory creates a Canvas of the given device-pixel size.
type CanvasFactory func(w, h int) (Canvas, error)

// imageCanvas is implemented by canvases the host can composite on screen.
type imageCanvas interface {
	Image() *ebiten.Image
}

// ebitenCanvas is the default Canvas, backed by an offscreen ebiten.Image.
// The image is allocated lazily so a zero-sized canvas is valid.
type ebitenCanvas struct {
	img  *ebiten.Image
	w, h int
}

// NewImageCanvas is the default CanvasFactory.
func NewImageCanvas(w, h int) (Canvas, error) {
	if w < 0 || h < 0 {
		return nil, fmt.Errorf("new canvas %dx%d: %w", w, h, ErrCanvasUnsupported)
	}
	return &ebitenCanvas{w: w, h: h}, nil
}

func (c *ebitenCanvas) Size() (int, int) { return c.w, c.h }

func (c *ebitenCanvas) Resize(w, h int) {
	if w == c.w && h == c.h {
		return
	}
	c.Deallocate()
	c.w, c.h = w, h
}

func (c *ebitenCanvas) Clear() {
	if c.img != nil {
		c.img.Clear()
	}
}

func (c *ebitenCanvas) FillCircle(x, y, r float32, clr colorful.Color, alpha float64) {
	img := c.Image()
	if img == nil || alpha <= 0 {
		return
	}
	vector.DrawFilledCircle(img, x, y, r, nrgba(clr, alpha), true)
}

func (c *ebitenCanvas) Deallocate() {
	if c.img != nil {
		c.img.Deallocate()
		c.img = nil
	}
}

// Image returns the backing image, allocating it on first use.
func (c *ebitenCanvas) Image() *ebiten.Image {
	if c.img == nil && c.w > 0 && c.h > 0 {
		c.img = ebiten.NewImage(c.w, c.h)
	}
	return c.img
}

// nrgba converts a colorful.Color plus straight alpha to color.NRGBA.
func nrgba(c colorful.Color, alpha float64) color.NRGBA {
	r, g, b := c.Clamped().RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: uint8(clamp(alpha, 0, 1)*255 + 0.5)}
}
