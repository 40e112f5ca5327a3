package fieldfx

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

// overlayRefresh is how often the stats overlay text is rebuilt, in seconds.
const overlayRefresh = 0.5

// statsOverlay is the corner panel shown when Host.ShowStats is set: frame
// and tick rates plus what the last step did. The panel image is redrawn at
// most every overlayRefresh seconds.
type statsOverlay struct {
	img   *ebiten.Image
	since float64
	text  string
}

// update accumulates dt and rebuilds the text when due. Returns true when
// the text changed.
func (o *statsOverlay) update(dt float64, s stepStats, fps, tps float64) bool {
	o.since += dt
	if o.text != "" && o.since < overlayRefresh {
		return false
	}
	o.since = 0
	o.text = fmt.Sprintf("FPS: %.1f\nTPS: %.1f\nTimers: %d\nNodes: %d",
		fps, tps, s.timersFired, s.liveParticles)
	return true
}

func (o *statsOverlay) draw(screen *ebiten.Image, dirty bool) {
	if o.img == nil {
		// 100x64 fits four short DebugPrint lines.
		o.img = ebiten.NewImage(100, 64)
		dirty = true
	}
	if dirty {
		o.img.Clear()
		o.img.Fill(color.RGBA{0, 0, 0, 128})
		ebitenutil.DebugPrint(o.img, o.text)
	}
	screen.DrawImage(o.img, nil)
}

func (o *statsOverlay) release() {
	if o.img != nil {
		o.img.Deallocate()
		o.img = nil
	}
}
