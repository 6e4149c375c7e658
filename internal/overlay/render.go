// Package overlay draws the region selection surface: the frozen desktop
// backdrop, the dimming mask around the selection, the outline and resize
// handles, and the live dimension label.
package overlay

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"log"
	"math"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/example/regionshot/internal/geometry"
	"github.com/example/regionshot/internal/session"
	"github.com/example/regionshot/internal/theme"
)

const (
	handleSize   = 8
	outlineThick = 2
	labelPad     = 4
	labelMargin  = 8
)

var labelFace font.Face

func init() {
	f, err := opentype.Parse(goregular.TTF)
	if err != nil {
		log.Fatalf("parse font: %v", err)
	}
	labelFace, err = opentype.NewFace(f, &opentype.FaceOptions{Size: 14, DPI: 72, Hinting: font.HintingFull})
	if err != nil {
		log.Fatalf("font face: %v", err)
	}
}

// frameState is the immutable snapshot handed to the paint goroutine for one
// frame.
type frameState struct {
	width, height int
	scale         float64
	selection     *geometry.Rect
	handles       []session.HandlePoint
}

// Renderer paints frames onto RGBA buffers.
type Renderer struct {
	theme    *theme.Theme
	backdrop *image.RGBA
}

// NewRenderer creates a renderer with the given theme and frozen-desktop
// backdrop. The backdrop must already be in buffer pixels.
func NewRenderer(th *theme.Theme, backdrop *image.RGBA) *Renderer {
	if th == nil {
		th = theme.Default()
	}
	return &Renderer{theme: th, backdrop: backdrop}
}

// Render paints one frame into dst. The context lets an in-flight frame be
// abandoned when a fresher one is queued.
func (r *Renderer) Render(ctx context.Context, dst *image.RGBA, st frameState) {
	if r.backdrop != nil {
		draw.Draw(dst, dst.Bounds(), r.backdrop, r.backdrop.Bounds().Min, draw.Src)
	} else {
		draw.Draw(dst, dst.Bounds(), image.Black, image.Point{}, draw.Src)
	}
	if ctx.Err() != nil {
		return
	}

	mask := image.NewUniform(r.theme.Mask)
	if st.selection == nil {
		// No selection yet, dim everything.
		draw.Draw(dst, dst.Bounds(), mask, image.Point{}, draw.Over)
		return
	}

	sel := scaleRect(*st.selection, st.scale)
	for _, strip := range maskStrips(st.width, st.height, sel) {
		draw.Draw(dst, strip, mask, image.Point{}, draw.Over)
	}
	if ctx.Err() != nil {
		return
	}

	drawRect(dst, sel, r.theme.Outline, outlineThick)

	for _, hp := range st.handles {
		if ctx.Err() != nil {
			return
		}
		hs := handleSize / 2
		cx := int(math.Round(hp.X * st.scale))
		cy := int(math.Round(hp.Y * st.scale))
		hr := image.Rect(cx-hs, cy-hs, cx+hs, cy+hs)
		draw.Draw(dst, hr, image.NewUniform(r.theme.HandleFill), image.Point{}, draw.Src)
		drawRect(dst, hr, r.theme.HandleOutline, 1)
	}

	r.drawLabel(dst, *st.selection, sel)
}

// drawLabel renders the logical dimensions of the selection centered above
// it. Skipped when the box would cross the top edge of the surface.
func (r *Renderer) drawLabel(dst *image.RGBA, logical geometry.Rect, sel image.Rectangle) {
	text := DimensionLabel(logical)
	d := &font.Drawer{Face: labelFace}
	w := d.MeasureString(text).Ceil()
	ascent := labelFace.Metrics().Ascent.Ceil()
	descent := labelFace.Metrics().Descent.Ceil()
	boxH := ascent + descent + 2*labelPad
	boxW := w + 2*labelPad

	x := sel.Min.X + (sel.Dx()-boxW)/2
	y := sel.Min.Y - labelMargin - boxH
	if y < 0 {
		return
	}
	box := image.Rect(x, y, x+boxW, y+boxH)
	draw.Draw(dst, box, image.NewUniform(r.theme.LabelBackground), image.Point{}, draw.Over)
	d.Dst = dst
	d.Src = image.NewUniform(r.theme.LabelText)
	d.Dot = fixed.P(x+labelPad, y+labelPad+ascent)
	d.DrawString(text)
}

// DimensionLabel formats the live size readout for a selection.
func DimensionLabel(r geometry.Rect) string {
	return fmt.Sprintf("%d × %d", int(math.Round(r.Width)), int(math.Round(r.Height)))
}

// maskStrips splits the area outside sel into four non-overlapping
// rectangles: full-width bands above and below, and side bands spanning only
// the selection's rows. Together with sel they tile the whole buffer.
func maskStrips(width, height int, sel image.Rectangle) []image.Rectangle {
	sel = sel.Intersect(image.Rect(0, 0, width, height))
	if sel.Empty() {
		return []image.Rectangle{image.Rect(0, 0, width, height)}
	}
	strips := []image.Rectangle{
		image.Rect(0, 0, width, sel.Min.Y),
		image.Rect(0, sel.Max.Y, width, height),
		image.Rect(0, sel.Min.Y, sel.Min.X, sel.Max.Y),
		image.Rect(sel.Max.X, sel.Min.Y, width, sel.Max.Y),
	}
	out := strips[:0]
	for _, s := range strips {
		if !s.Empty() {
			out = append(out, s)
		}
	}
	return out
}

func scaleRect(r geometry.Rect, scale float64) image.Rectangle {
	return image.Rect(
		int(math.Round(r.X*scale)),
		int(math.Round(r.Y*scale)),
		int(math.Round((r.X+r.Width)*scale)),
		int(math.Round((r.Y+r.Height)*scale)),
	)
}

func setThickPixel(img *image.RGBA, x, y, thick int, col color.Color) {
	r := thick / 2
	for dx := -r; dx <= r; dx++ {
		for dy := -r; dy <= r; dy++ {
			px := x + dx
			py := y + dy
			if image.Pt(px, py).In(img.Bounds()) {
				img.Set(px, py, col)
			}
		}
	}
}

func drawLine(img *image.RGBA, x0, y0, x1, y1 int, col color.Color, thick int) {
	dx := math.Abs(float64(x1 - x0))
	dy := math.Abs(float64(y1 - y0))
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy
	for {
		setThickPixel(img, x0, y0, thick, col)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

func drawRect(img *image.RGBA, rect image.Rectangle, col color.Color, thick int) {
	drawLine(img, rect.Min.X, rect.Min.Y, rect.Max.X-1, rect.Min.Y, col, thick)
	drawLine(img, rect.Max.X-1, rect.Min.Y, rect.Max.X-1, rect.Max.Y-1, col, thick)
	drawLine(img, rect.Max.X-1, rect.Max.Y-1, rect.Min.X, rect.Max.Y-1, col, thick)
	drawLine(img, rect.Min.X, rect.Max.Y-1, rect.Min.X, rect.Min.Y, col, thick)
}
