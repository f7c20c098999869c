package ebitenhost

import (
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// DefaultScreenshotDir is where screenshots go when Host.ScreenshotDir is
// empty.
const DefaultScreenshotDir = "screenshots"

// Screenshot queues a labeled capture of the next drawn frame. The PNG is
// written to ScreenshotDir with a timestamped filename. It is installed as
// the game's screenshot function, so grove.Game.Screenshot and the test
// runner's "screenshot" action end up here.
func (h *Host) Screenshot(label string) {
	h.shotQueue = append(h.shotQueue, label)
}

// flushScreenshots captures screen once for every queued label.
func (h *Host) flushScreenshots(screen *ebiten.Image) {
	if len(h.shotQueue) == 0 {
		return
	}
	log := h.game.Logger()
	dir := h.ScreenshotDir
	if dir == "" {
		dir = DefaultScreenshotDir
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		log.Error("screenshot: mkdir", zap.String("dir", dir), zap.Error(err))
		h.shotQueue = h.shotQueue[:0]
		return
	}

	img := straightAlpha(screen)
	stamp := h.Now().Format("20060102_150405")
	for _, label := range h.shotQueue {
		path := filepath.Join(dir, stamp+"_"+sanitizeLabel(label)+".png")
		if err := writePNG(path, img); err != nil {
			log.Error("screenshot", zap.Error(err))
			continue
		}
		log.Info("screenshot saved", zap.String("path", path))
	}
	h.shotQueue = h.shotQueue[:0]
}

// straightAlpha reads screen's premultiplied pixels into a straight-alpha
// image suitable for PNG encoding.
func straightAlpha(screen *ebiten.Image) *image.NRGBA {
	bounds := screen.Bounds()
	w, hgt := bounds.Dx(), bounds.Dy()
	pixels := make([]byte, 4*w*hgt)
	screen.ReadPixels(pixels)
	return unpremultiply(pixels, w, hgt)
}

func unpremultiply(pixels []byte, w, hgt int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, hgt))
	for i := 0; i+3 < len(pixels) && i+3 < len(img.Pix); i += 4 {
		r, g, b, a := pixels[i], pixels[i+1], pixels[i+2], pixels[i+3]
		if a > 0 && a < 255 {
			r = uint8(min(int(r)*255/int(a), 255))
			g = uint8(min(int(g)*255/int(a), 255))
			b = uint8(min(int(b)*255/int(a), 255))
		}
		img.Pix[i] = r
		img.Pix[i+1] = g
		img.Pix[i+2] = b
		img.Pix[i+3] = a
	}
	return img
}

func writePNG(path string, img *image.NRGBA) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "create %s", path)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return errors.Wrapf(err, "encode %s", path)
	}
	return f.Close()
}

// sanitizeLabel keeps letters, digits, '-' and '.', replaces everything else
// with '_' and names empty labels "unlabeled".
func sanitizeLabel(label string) string {
	label = strings.TrimSpace(label)
	if label == "" {
		return "unlabeled"
	}
	var b strings.Builder
	b.Grow(len(label))
	for _, r := range label {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z',
			r >= '0' && r <= '9', r == '-', r == '.':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}
