package overlay

import (
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"os"

	xdraw "golang.org/x/image/draw"

	"github.com/example/regionshot/internal/geometry"
)

// BuildBackdrop stitches the per-monitor screenshots into one frozen-desktop
// image covering the full union bounds, in buffer pixels at the given scale.
// Each screenshot is placed at its monitor's position and resized from device
// resolution to the monitor's footprint on the surface.
func BuildBackdrop(monitors []geometry.MonitorShot, bounds geometry.Bounds, scale float64) (*image.RGBA, error) {
	w := int(bounds.Width * scale)
	h := int(bounds.Height * scale)
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("backdrop: empty bounds %+v", bounds)
	}
	out := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(out, out.Bounds(), image.Black, image.Point{}, draw.Src)

	for _, m := range monitors {
		img, err := loadPNG(m.ScreenshotPath)
		if err != nil {
			return nil, fmt.Errorf("backdrop: monitor %s: %w", m.ID, err)
		}
		ox, oy := bounds.ToOverlay(m.X, m.Y)
		dst := image.Rect(
			int(ox*scale),
			int(oy*scale),
			int((ox+m.Width)*scale),
			int((oy+m.Height)*scale),
		)
		xdraw.ApproxBiLinear.Scale(out, dst, img, img.Bounds(), draw.Src, nil)
	}
	return out, nil
}

func loadPNG(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return png.Decode(f)
}
