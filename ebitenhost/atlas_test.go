package ebitenhost

import (
	"image"
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
)

const singlePageJSON = `{
  "frames": {
    "hero.png": {
      "frame": {"x": 0, "y": 0, "w": 64, "h": 16},
      "rotated": false
    },
    "enemy.png": {
      "frame": {"x": 64, "y": 0, "w": 32, "h": 48},
      "rotated": false
    },
    "rotated.png": {
      "frame": {"x": 100, "y": 0, "w": 48, "h": 32},
      "rotated": true
    }
  },
  "meta": {"image": "atlas.png", "size": {"w": 256, "h": 256}}
}`

const multiPageJSON = `{
  "textures": [
    {"image": "atlas-0.png", "frames": {"a.png": {"frame": {"x": 0, "y": 0, "w": 8, "h": 8}}}},
    {"image": "atlas-1.png", "frames": {"b.png": {"frame": {"x": 10, "y": 20, "w": 50, "h": 50}}}}
  ]
}`

func TestLoadAtlasSinglePage(t *testing.T) {
	page := ebiten.NewImage(256, 256)
	a, err := LoadAtlas([]byte(singlePageJSON), []*ebiten.Image{page})
	if err != nil {
		t.Fatal(err)
	}
	names := a.Names()
	want := []string{"enemy.png", "hero.png", "rotated.png"}
	if len(names) != len(want) {
		t.Fatalf("Names = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("Names[%d] = %q, want %q", i, names[i], want[i])
		}
	}

	img, ok := a.Image("enemy.png")
	if !ok {
		t.Fatal("enemy.png not found")
	}
	if got, want := img.Bounds(), image.Rect(64, 0, 96, 48); got != want {
		t.Errorf("enemy bounds = %v, want %v", got, want)
	}
}

func TestLoadAtlasMultiPage(t *testing.T) {
	pages := []*ebiten.Image{ebiten.NewImage(64, 64), ebiten.NewImage(128, 128)}
	a, err := LoadAtlas([]byte(multiPageJSON), pages)
	if err != nil {
		t.Fatal(err)
	}
	img, ok := a.Image("b.png")
	if !ok {
		t.Fatal("b.png not found")
	}
	if got, want := img.Bounds(), image.Rect(10, 20, 60, 70); got != want {
		t.Errorf("b bounds = %v, want %v", got, want)
	}
}

func TestLoadAtlasErrors(t *testing.T) {
	if _, err := LoadAtlas([]byte(`{`), nil); err == nil {
		t.Error("malformed JSON: expected error")
	}
	if _, err := LoadAtlas([]byte(`{"meta": {}}`), nil); err == nil {
		t.Error("no frames key: expected error")
	}
}

func TestAtlasImageSkipsRotatedAndMissingPage(t *testing.T) {
	a, err := LoadAtlas([]byte(singlePageJSON), nil)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := a.Image("hero.png"); ok {
		t.Error("missing page: expected not found")
	}
	a.Pages = []*ebiten.Image{ebiten.NewImage(256, 256)}
	if _, ok := a.Image("rotated.png"); ok {
		t.Error("rotated region: expected not found")
	}
}

func TestAtlasNewSprite(t *testing.T) {
	g := newTestGame()
	a, err := LoadAtlas([]byte(singlePageJSON), []*ebiten.Image{ebiten.NewImage(256, 256)})
	if err != nil {
		t.Fatal(err)
	}
	images := Images{}
	spr := a.NewSprite(g, images, "hero.png", 4)
	if spr.Width != 16 || spr.Height != 16 || spr.Frames != 4 {
		t.Errorf("sprite = %vx%v x%d, want 16x16 x4", spr.Width, spr.Height, spr.Frames)
	}
	if images[spr] == nil {
		t.Error("image not recorded")
	}

	missing := a.NewSprite(g, images, "ghost.png", 3)
	if missing.Width != 1 || missing.Height != 1 || missing.Frames != 1 {
		t.Errorf("placeholder = %vx%v x%d, want 1x1 x1", missing.Width, missing.Height, missing.Frames)
	}
}
