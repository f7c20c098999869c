package ebitenhost

import (
	"image"
	"math"
	"sort"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/phanxgames/grove"
)

// Images maps sprites to their pixel data. A sprite's frames are laid out
// left to right, wrapping into rows when the image is narrower than all
// frames together.
type Images map[*grove.Sprite]*ebiten.Image

// frameRect returns the source rectangle of frame within an image strip.
func frameRect(bounds image.Rectangle, spr *grove.Sprite, frame int) image.Rectangle {
	w := int(spr.Width)
	h := int(spr.Height)
	if w <= 0 || h <= 0 {
		return bounds
	}
	cols := bounds.Dx() / w
	if cols < 1 {
		cols = 1
	}
	x := bounds.Min.X + (frame%cols)*w
	y := bounds.Min.Y + (frame/cols)*h
	return image.Rect(x, y, x+w, y+h).Intersect(bounds)
}

// spriteGeoM positions a sprite frame in room space: origin offset, then
// scale, then rotation (degrees, counter-clockwise on screen), then
// translation.
func spriteGeoM(spr *grove.Sprite, x, y, scaleX, scaleY, angle float64) ebiten.GeoM {
	var m ebiten.GeoM
	m.Translate(-spr.OriginX, -spr.OriginY)
	m.Scale(scaleX, scaleY)
	if angle != 0 {
		m.Rotate(-angle * math.Pi / 180)
	}
	m.Translate(x, y)
	return m
}

// viewGeoM maps room space to screen space through v.
func viewGeoM(v *grove.View) ebiten.GeoM {
	var m ebiten.GeoM
	m.Translate(-v.X, -v.Y)
	sx, sy := 1.0, 1.0
	if v.W != 0 {
		sx = v.PortW / v.W
	}
	if v.H != 0 {
		sy = v.PortH / v.H
	}
	m.Scale(sx, sy)
	m.Translate(v.PortX, v.PortY)
	return m
}

// activeView returns the first enabled view of r, or nil when views are off.
func activeView(r *grove.Room) *grove.View {
	if r == nil || !r.ViewsEnabled {
		return nil
	}
	for i := range r.Views {
		if r.Views[i].Enabled {
			return &r.Views[i]
		}
	}
	return nil
}

// colorScale converts a tint and alpha to a premultiplied color scale.
func colorScale(tint grove.Color, alpha float64) ebiten.ColorScale {
	var cs ebiten.ColorScale
	a := tint.A * alpha
	cs.Scale(float32(tint.R*a), float32(tint.G*a), float32(tint.B*a), float32(a))
	return cs
}

// drawSprite is installed as the game's SpriteDrawer.
func (h *Host) drawSprite(spr *grove.Sprite, frame int, x, y, scaleX, scaleY, angle float64, tint grove.Color, alpha float64) {
	img := h.images[spr]
	if img == nil || h.target == nil {
		return
	}
	sub := img.SubImage(frameRect(img.Bounds(), spr, frame)).(*ebiten.Image)
	h.op.GeoM = spriteGeoM(spr, x, y, scaleX, scaleY, angle)
	h.op.GeoM.Concat(h.view)
	h.op.ColorScale = colorScale(tint, alpha)
	h.target.DrawImage(sub, &h.op)
	h.drawCalls++
}

// drawBackgrounds draws the visible background layers whose Foreground flag
// matches foreground. Tiled layers repeat across the view.
func (h *Host) drawBackgrounds(r *grove.Room, foreground bool) {
	for i := range r.Backgrounds {
		bg := &r.Backgrounds[i]
		if !bg.Visible || bg.Foreground != foreground || bg.Sprite == nil {
			continue
		}
		img := h.images[bg.Sprite]
		if img == nil {
			continue
		}
		w := float64(img.Bounds().Dx())
		hgt := float64(img.Bounds().Dy())
		if w <= 0 || hgt <= 0 {
			continue
		}
		x0, x1 := bg.X, bg.X+w
		y0, y1 := bg.Y, bg.Y+hgt
		if bg.HTiled {
			x0 = math.Mod(bg.X, w)
			if x0 > 0 {
				x0 -= w
			}
			x1 = r.Width
		}
		if bg.VTiled {
			y0 = math.Mod(bg.Y, hgt)
			if y0 > 0 {
				y0 -= hgt
			}
			y1 = r.Height
		}
		for y := y0; y < y1; y += hgt {
			for x := x0; x < x1; x += w {
				h.op.GeoM.Reset()
				h.op.GeoM.Translate(x, y)
				h.op.GeoM.Concat(h.view)
				h.op.ColorScale = colorScale(bg.Blend, bg.Alpha)
				h.target.DrawImage(img, &h.op)
				h.drawCalls++
				if !bg.HTiled {
					break
				}
			}
			if !bg.VTiled {
				break
			}
		}
	}
}

// drawTiles draws the room's visible tiles, deepest layer first.
func (h *Host) drawTiles(r *grove.Room) {
	h.tileBuf = append(h.tileBuf[:0], r.Tiles()...)
	sortTilesByDepth(h.tileBuf)
	for _, t := range h.tileBuf {
		if !t.Visible || t.Background == nil {
			continue
		}
		img := h.images[t.Background]
		if img == nil {
			continue
		}
		b := img.Bounds()
		src := image.Rect(
			b.Min.X+int(t.Left), b.Min.Y+int(t.Top),
			b.Min.X+int(t.Left+t.Width), b.Min.Y+int(t.Top+t.Height),
		).Intersect(b)
		if src.Empty() {
			continue
		}
		h.op.GeoM.Reset()
		h.op.GeoM.Scale(t.ScaleX, t.ScaleY)
		h.op.GeoM.Translate(t.X, t.Y)
		h.op.GeoM.Concat(h.view)
		h.op.ColorScale = colorScale(t.Blend, t.Alpha)
		h.target.DrawImage(img.SubImage(src).(*ebiten.Image), &h.op)
		h.drawCalls++
	}
}

// sortTilesByDepth orders tiles deepest first, keeping list order for ties.
func sortTilesByDepth(tiles []*grove.Tile) {
	sort.SliceStable(tiles, func(i, j int) bool {
		return tiles[i].Depth > tiles[j].Depth
	})
}
