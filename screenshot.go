package fieldfx

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
)

// pendingShot is one queued capture. seq numbers captures per host so files
// from one run sort in the order they were taken.
type pendingShot struct {
	seq   int
	label string
}

// Screenshot queues a capture of the next drawn frame, written to
// ScreenshotDir as "<seq>-<label>.png". Celebration layers and the ambient
// canvas are captured; the stats overlay is not.
func (h *Host) Screenshot(label string) {
	h.shotSeq++
	h.screenshotQueue = append(h.screenshotQueue, pendingShot{seq: h.shotSeq, label: shotLabel(label)})
}

// PendingScreenshots returns the file names queued for the next Draw.
func (h *Host) PendingScreenshots() []string {
	out := make([]string, len(h.screenshotQueue))
	for i, s := range h.screenshotQueue {
		out[i] = s.fileName()
	}
	return out
}

func (s pendingShot) fileName() string {
	return fmt.Sprintf("%03d-%s.png", s.seq, s.label)
}

// flushScreenshots encodes the screen once and writes it under every queued
// name. Called from Draw before the overlay.
func (h *Host) flushScreenshots(screen *ebiten.Image) {
	if len(h.screenshotQueue) == 0 {
		return
	}
	shots := h.screenshotQueue
	h.screenshotQueue = nil

	data, err := encodeScreen(screen)
	if err != nil {
		h.debugf("screenshot: %v", err)
		return
	}
	if err := os.MkdirAll(h.ScreenshotDir, 0o755); err != nil {
		h.debugf("screenshot: %v", err)
		return
	}
	for _, s := range shots {
		path := filepath.Join(h.ScreenshotDir, s.fileName())
		if err := os.WriteFile(path, data, 0o644); err != nil {
			h.debugf("screenshot: %v", err)
			continue
		}
		h.debugf("screenshot written to %s", path)
	}
}

// encodeScreen reads back the screen as PNG bytes. ReadPixels yields
// premultiplied RGBA, which is exactly image.RGBA's layout; the PNG encoder
// converts to straight alpha itself.
func encodeScreen(screen *ebiten.Image) ([]byte, error) {
	b := screen.Bounds()
	img := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	screen.ReadPixels(img.Pix)
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode screenshot: %w", err)
	}
	return buf.Bytes(), nil
}

// shotLabel turns a free-form label into a lowercase file name stem: runs
// of anything other than letters and digits collapse to one '-'.
func shotLabel(label string) string {
	words := strings.FieldsFunc(strings.ToLower(label), func(r rune) bool {
		return !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9')
	})
	if len(words) == 0 {
		return "frame"
	}
	return strings.Join(words, "-")
}
