package grove

// Sprite describes an animated image strip: frame size, origin and frame
// count. Pixel data belongs to the renderer, which looks sprites up by id.
type Sprite struct {
	id   ID
	name string

	Width, Height    float64
	OriginX, OriginY float64
	Frames           int
}

// NewSprite registers a sprite with the given frame size and frame count.
// A frame count below 1 is treated as 1.
func (g *Game) NewSprite(name string, width, height float64, frames int) *Sprite {
	if frames < 1 {
		frames = 1
	}
	s := &Sprite{
		id:     g.registry.AllocID(),
		name:   name,
		Width:  width,
		Height: height,
		Frames: frames,
	}
	g.registry.Register(s)
	return s
}

// ID returns the sprite's resource id.
func (s *Sprite) ID() ID { return s.id }

// Name returns the sprite's display name.
func (s *Sprite) Name() string { return s.name }

// SetOrigin sets the sprite origin relative to its top-left corner.
func (s *Sprite) SetOrigin(x, y float64) {
	s.OriginX = x
	s.OriginY = y
}

// frameCount returns the sprite's frame count, at least 1.
func frameCount(s *Sprite) int {
	if s.Frames < 1 {
		return 1
	}
	return s.Frames
}
