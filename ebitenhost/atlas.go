package ebitenhost

import (
	"encoding/json"
	"image"
	"image/color"
	"sort"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/phanxgames/grove"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Atlas holds one or more atlas page images and the named regions packed
// into them by TexturePacker.
type Atlas struct {
	// Pages contains the atlas page images indexed by page number.
	Pages   []*ebiten.Image
	regions map[string]atlasRegion
}

// atlasRegion is a sub-rectangle of one page.
type atlasRegion struct {
	page    int
	rect    image.Rectangle
	rotated bool
}

// LoadAtlas parses TexturePacker JSON data and associates the given page
// images. Both the hash format (single "frames" object) and the array
// format ("textures" array with per-page frame lists) are accepted.
func LoadAtlas(jsonData []byte, pages []*ebiten.Image) (*Atlas, error) {
	var probe struct {
		Frames   json.RawMessage `json:"frames"`
		Textures json.RawMessage `json:"textures"`
	}
	if err := json.Unmarshal(jsonData, &probe); err != nil {
		return nil, errors.Wrap(err, "parse atlas")
	}

	atlas := &Atlas{
		Pages:   pages,
		regions: make(map[string]atlasRegion),
	}
	switch {
	case probe.Textures != nil:
		var textures []jsonTexturePage
		if err := json.Unmarshal(probe.Textures, &textures); err != nil {
			return nil, errors.Wrap(err, "parse atlas textures")
		}
		for i, tex := range textures {
			atlas.addFrames(tex.Frames, i)
		}
	case probe.Frames != nil:
		var frames map[string]jsonFrame
		if err := json.Unmarshal(probe.Frames, &frames); err != nil {
			return nil, errors.Wrap(err, "parse atlas frames")
		}
		atlas.addFrames(frames, 0)
	default:
		return nil, errors.New(`parse atlas: neither "frames" nor "textures" key`)
	}
	return atlas, nil
}

type jsonRect struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
}

type jsonFrame struct {
	Frame   jsonRect `json:"frame"`
	Rotated bool     `json:"rotated"`
}

type jsonTexturePage struct {
	Image  string               `json:"image"`
	Frames map[string]jsonFrame `json:"frames"`
}

func (a *Atlas) addFrames(frames map[string]jsonFrame, page int) {
	for name, f := range frames {
		a.regions[name] = atlasRegion{
			page:    page,
			rect:    image.Rect(f.Frame.X, f.Frame.Y, f.Frame.X+f.Frame.W, f.Frame.Y+f.Frame.H),
			rotated: f.Rotated,
		}
	}
}

// Names returns the region names in sorted order.
func (a *Atlas) Names() []string {
	names := make([]string, 0, len(a.regions))
	for name := range a.regions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Image returns the sub-image for the named region. Rotated regions and
// regions on a missing page are reported as not found.
func (a *Atlas) Image(name string) (*ebiten.Image, bool) {
	r, ok := a.regions[name]
	if !ok || r.rotated || r.page >= len(a.Pages) || a.Pages[r.page] == nil {
		return nil, false
	}
	return a.Pages[r.page].SubImage(r.rect).(*ebiten.Image), true
}

// NewSprite registers a sprite for the named region, laid out as frames
// equal-width frames in a row, and records its pixels in images. A missing
// region is logged and replaced by a 1x1 magenta placeholder so the game
// keeps running.
func (a *Atlas) NewSprite(g *grove.Game, images Images, name string, frames int) *grove.Sprite {
	if frames < 1 {
		frames = 1
	}
	img, ok := a.Image(name)
	if !ok {
		g.Logger().Warn("atlas region not found, using placeholder", zap.String("region", name))
		img = magentaImage()
		frames = 1
	}
	b := img.Bounds()
	spr := g.NewSprite(name, float64(b.Dx()/frames), float64(b.Dy()), frames)
	images[spr] = img
	return spr
}

var magenta *ebiten.Image

func magentaImage() *ebiten.Image {
	if magenta == nil {
		magenta = ebiten.NewImage(1, 1)
		magenta.Fill(color.RGBA{R: 255, G: 0, B: 255, A: 255})
	}
	return magenta
}
