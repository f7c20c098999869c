package ebitenhost

import (
	"image/color"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/phanxgames/grove"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Host adapts a grove.Game to ebiten.Game. Ebitengine's Update captures
// input; Draw advances the core's fixed-timestep clock, which runs the
// simulation steps that are due and then draws once.
type Host struct {
	game   *grove.Game
	images Images

	// ClearColor fills the screen before each frame. The zero value leaves
	// the screen as Ebitengine cleared it.
	ClearColor grove.Color

	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time

	// ScreenshotDir receives screenshot PNGs. Empty means
	// DefaultScreenshotDir.
	ScreenshotDir string

	target    *ebiten.Image
	view      ebiten.GeoM
	op        ebiten.DrawImageOptions
	tileBuf   []*grove.Tile
	drawCalls int
	shotQueue []string

	input     inputState
	lastInput time.Time
	fps       *fpsOverlay
	width     int
	height    int
}

// New creates a host for g and installs its renderer hooks and gamepad
// source on g. images supplies pixel data per sprite and may be added to
// later with SetImage.
func New(g *grove.Game, images Images) *Host {
	cfg := g.Config()
	h := &Host{
		game:   g,
		images: make(Images, len(images)),
		Now:    time.Now,
		width:  cfg.Width,
		height: cfg.Height,
	}
	for spr, img := range images {
		h.images[spr] = img
	}
	if cfg.ShowFPS {
		h.fps = newFPSOverlay()
	}
	g.SetSpriteDrawer(h.drawSprite)
	g.SetFrameHooks(h.beginFrame, h.endFrame)
	g.Gamepads().SetSource(standardGamepads)
	g.SetScreenshotFunc(h.Screenshot)
	return h
}

// SetImage attaches pixel data to spr.
func (h *Host) SetImage(spr *grove.Sprite, img *ebiten.Image) {
	h.images[spr] = img
}

// DrawCalls returns the number of images drawn during the last frame.
func (h *Host) DrawCalls() int { return h.drawCalls }

// Update implements ebiten.Game.
func (h *Host) Update() error {
	h.input.capture(h.game)
	now := h.Now()
	if h.fps != nil {
		h.fps.update(now.Sub(h.lastInput).Seconds())
	}
	h.lastInput = now
	return nil
}

// Draw implements ebiten.Game.
func (h *Host) Draw(screen *ebiten.Image) {
	h.target = screen
	h.game.Tick(h.Now())
	h.flushScreenshots(screen)
	h.target = nil
}

// Layout implements ebiten.Game.
func (h *Host) Layout(_, _ int) (int, int) {
	return h.width, h.height
}

// beginFrame clears the screen, picks the view transform and draws the
// background layers and tiles beneath the instances.
func (h *Host) beginFrame() {
	h.drawCalls = 0
	if h.target == nil {
		return
	}
	if h.ClearColor.A > 0 {
		c := h.ClearColor
		h.target.Fill(color.RGBA{
			R: uint8(c.R * c.A * 255),
			G: uint8(c.G * c.A * 255),
			B: uint8(c.B * c.A * 255),
			A: uint8(c.A * 255),
		})
	}
	h.view.Reset()
	r := h.game.Room()
	if r == nil {
		return
	}
	if v := activeView(r); v != nil {
		h.view = viewGeoM(v)
	}
	h.drawBackgrounds(r, false)
	h.drawTiles(r)
}

// endFrame draws foreground layers and the FPS overlay on top.
func (h *Host) endFrame() {
	if h.target == nil {
		return
	}
	if r := h.game.Room(); r != nil {
		h.drawBackgrounds(r, true)
	}
	if h.fps != nil {
		h.fps.draw(h.target)
	}
}

// Run opens a window sized from the game's config and runs g until the
// window closes. The game's logger is replaced with one built from the
// config's logging section.
func Run(g *grove.Game, images Images) error {
	cfg := g.Config()
	log, err := grove.NewLogger(cfg.Logging)
	if err != nil {
		return errors.Wrap(err, "init logger")
	}
	defer log.Sync()
	g.SetLogger(log)
	g.SetDebugMode(cfg.Debug)

	h := New(g, images)
	ebiten.SetWindowTitle(cfg.Title)
	ebiten.SetWindowSize(cfg.Width, cfg.Height)
	ebiten.SetTPS(ebiten.SyncWithFPS)

	log.Info("starting",
		zap.String("title", cfg.Title),
		zap.Int("step_rate", g.StepRate()),
		zap.Int("rooms", len(g.Rooms())))
	if err := ebiten.RunGame(h); err != nil {
		return errors.Wrap(err, "run game")
	}
	return nil
}
