package grove

// Tile is a static piece of room decoration cut from a background sprite.
// Tiles never step or collide; they are layout data for the renderer.
type Tile struct {
	id   ID
	room *Room

	// Background is the sprite the tile is cut from.
	Background *Sprite
	// Source region within Background.
	Left, Top, Width, Height float64

	X, Y           float64
	Depth          float64
	ScaleX, ScaleY float64
	Alpha          float64
	Blend          Color
	Visible        bool
}

// ID returns the tile's resource id.
func (t *Tile) ID() ID { return t.id }

// Name returns "tile".
func (t *Tile) Name() string { return "tile" }

// Room returns the room the tile belongs to, or nil once deleted.
func (t *Tile) Room() *Room { return t.room }

// SetPosition moves the tile.
func (t *Tile) SetPosition(x, y float64) {
	t.X = x
	t.Y = y
}

// SetDepth changes the tile's layer.
func (t *Tile) SetDepth(depth float64) { t.Depth = depth }

// SetVisible shows or hides the tile.
func (t *Tile) SetVisible(visible bool) { t.Visible = visible }

// SetScale sets the tile's scale factors.
func (t *Tile) SetScale(sx, sy float64) {
	t.ScaleX = sx
	t.ScaleY = sy
}

// SetAlpha sets the tile's opacity.
func (t *Tile) SetAlpha(alpha float64) { t.Alpha = alpha }

// SetBlend sets the tile's tint.
func (t *Tile) SetBlend(c Color) { t.Blend = c }

// SetRegion changes the source region within the background sprite.
func (t *Tile) SetRegion(left, top, width, height float64) {
	t.Left = left
	t.Top = top
	t.Width = width
	t.Height = height
}

// footprint returns the room-space area covered by the tile.
func (t *Tile) footprint() BBox {
	b := BBox{Left: t.X, Top: t.Y, Right: t.X + t.Width*t.ScaleX, Bottom: t.Y + t.Height*t.ScaleY}
	if b.Right < b.Left {
		b.Left, b.Right = b.Right, b.Left
	}
	if b.Bottom < b.Top {
		b.Top, b.Bottom = b.Bottom, b.Top
	}
	return b
}

// TileAdd cuts the region (left, top, width, height) of bg and places it at
// (x, y) on the layer at depth. Returns the new tile.
func (r *Room) TileAdd(bg *Sprite, left, top, width, height, x, y, depth float64) *Tile {
	t := &Tile{
		room:       r,
		Background: bg,
		Left:       left,
		Top:        top,
		Width:      width,
		Height:     height,
		X:          x,
		Y:          y,
		Depth:      depth,
		ScaleX:     1,
		ScaleY:     1,
		Alpha:      1,
		Blend:      ColorWhite,
		Visible:    true,
	}
	if r.game != nil {
		t.id = r.game.registry.AllocID()
		r.game.registry.Register(t)
	}
	r.tiles = append(r.tiles, t)
	return t
}

// TileDelete removes the tile with the given id. Unknown ids are ignored.
func (r *Room) TileDelete(id ID) {
	for i, t := range r.tiles {
		if t.id == id {
			r.removeTileAt(i)
			return
		}
	}
}

func (r *Room) removeTileAt(i int) {
	t := r.tiles[i]
	copy(r.tiles[i:], r.tiles[i+1:])
	r.tiles[len(r.tiles)-1] = nil
	r.tiles = r.tiles[:len(r.tiles)-1]
	t.room = nil
	if r.game != nil {
		r.game.registry.Remove(t.id)
	}
}

// TileExists reports whether the room holds a tile with the given id.
func (r *Room) TileExists(id ID) bool {
	return r.Tile(id) != nil
}

// Tile returns the tile with the given id, or nil.
func (r *Room) Tile(id ID) *Tile {
	for _, t := range r.tiles {
		if t.id == id {
			return t
		}
	}
	return nil
}

// Tiles returns the room's tiles in list order. The returned slice MUST NOT
// be mutated.
func (r *Room) Tiles() []*Tile {
	return r.tiles
}

// TileLayerDelete removes every tile at exactly depth.
func (r *Room) TileLayerDelete(depth float64) {
	for i := len(r.tiles) - 1; i >= 0; i-- {
		if r.tiles[i].Depth == depth {
			r.removeTileAt(i)
		}
	}
}

// TileLayerShift moves every tile at exactly depth by (dx, dy).
func (r *Room) TileLayerShift(depth, dx, dy float64) {
	for _, t := range r.tiles {
		if t.Depth == depth {
			t.X += dx
			t.Y += dy
		}
	}
}

// TileLayerSetVisible shows or hides every tile at exactly depth.
func (r *Room) TileLayerSetVisible(depth float64, visible bool) {
	for _, t := range r.tiles {
		if t.Depth == depth {
			t.Visible = visible
		}
	}
}

// TileLayerFind returns the first tile in list order at exactly depth whose
// scaled footprint contains (x, y), or nil.
func (r *Room) TileLayerFind(depth, x, y float64) *Tile {
	for _, t := range r.tiles {
		if t.Depth == depth && t.footprint().Contains(x, y) {
			return t
		}
	}
	return nil
}
