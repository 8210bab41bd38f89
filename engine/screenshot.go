package engine

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"go.uber.org/zap"
)

// Screenshot queues a labeled capture of the next drawn frame. Files land
// in the replay screenshot directory with a timestamped name.
func (a *App) Screenshot(label string) {
	a.shots = append(a.shots, label)
}

// flushScreenshots writes every queued capture of screen.
func (a *App) flushScreenshots(screen *ebiten.Image) {
	if len(a.shots) == 0 {
		return
	}
	defer func() { a.shots = a.shots[:0] }()

	dir := a.cfg.Replay.ScreenshotDir
	if err := os.MkdirAll(dir, 0o755); err != nil {
		a.log.Error("screenshot: create directory", zap.String("dir", dir), zap.Error(err))
		return
	}

	b := screen.Bounds()
	pixels := make([]byte, 4*b.Dx()*b.Dy())
	screen.ReadPixels(pixels)
	img := unpremultiply(pixels, b.Dx(), b.Dy())

	stamp := time.Now().Format("20060102_150405")
	for _, label := range a.shots {
		path := filepath.Join(dir, stamp+"_"+sanitizeLabel(label)+".png")
		if err := writePNG(path, img); err != nil {
			a.log.Error("screenshot", zap.Error(err))
			continue
		}
		a.log.Info("screenshot saved", zap.String("path", path))
	}
}

// unpremultiply converts premultiplied RGBA pixels to straight alpha.
func unpremultiply(pixels []byte, w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := 0; i+3 < len(pixels) && i+3 < len(img.Pix); i += 4 {
		r, g, b, a := pixels[i], pixels[i+1], pixels[i+2], pixels[i+3]
		if a > 0 && a < 255 {
			r = uint8(min(int(r)*255/int(a), 255))
			g = uint8(min(int(g)*255/int(a), 255))
			b = uint8(min(int(b)*255/int(a), 255))
		}
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = r, g, b, a
	}
	return img
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}

// sanitizeLabel keeps letters, digits, '-' and '.', replaces everything
// else with '_', and names empty labels "unlabeled".
func sanitizeLabel(label string) string {
	label = strings.TrimSpace(label)
	if label == "" {
		return "unlabeled"
	}
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z',
			r >= '0' && r <= '9', r == '-', r == '.':
			return r
		}
		return '_'
	}, label)
}
