package grove

import (
	"math"
	"testing"

	"github.com/tanema/gween/ease"
)

// --- Live set ---

func TestPlaceSetsStartAndLayout(t *testing.T) {
	g := NewGame(Config{})
	r := g.NewRoom("r", 200, 200)
	a := g.NewInstance(nil)
	b := g.NewInstance(nil)
	r.Place(10, 20, a)
	r.Place(30, 40, b)
	r.Place(0, 0, nil)

	if a.XStart != 10 || a.YStart != 20 || a.X != 10 {
		t.Errorf("a start = (%v, %v)", a.XStart, a.YStart)
	}
	placed := r.Placed()
	if len(placed) != 2 || placed[0] != a || placed[1] != b {
		t.Errorf("Placed = %v", placed)
	}
	if r.Count() != 2 || r.Get(b.ID()) != b {
		t.Errorf("Count = %d", r.Count())
	}
}

func TestAddMovesBetweenRooms(t *testing.T) {
	g := NewGame(Config{})
	r1 := g.NewRoom("one", 100, 100)
	r2 := g.NewRoom("two", 100, 100)
	inst := g.NewInstance(nil)

	r1.Add(inst)
	r1.Add(inst)
	if r1.Count() != 1 {
		t.Errorf("double Add: count %d, want 1", r1.Count())
	}
	r2.Add(inst)
	if r1.Count() != 0 || r2.Count() != 1 || inst.Room() != r2 {
		t.Errorf("after move: r1=%d r2=%d", r1.Count(), r2.Count())
	}
	r2.Remove(inst.ID())
	r2.Remove(inst.ID())
	if r2.Count() != 0 || inst.Room() != nil {
		t.Error("Remove did not detach")
	}
}

func TestAllIsSnapshot(t *testing.T) {
	g := newRoomGame()
	a := g.InstanceCreate(0, 0, nil)
	g.InstanceCreate(0, 0, nil)
	all := g.Room().All()
	a.Destroy()
	if len(all) != 2 || all[0] != a {
		t.Errorf("snapshot changed: %v", all)
	}
	if g.Room().Count() != 1 {
		t.Errorf("Count = %d, want 1", g.Room().Count())
	}
}

func TestRoomLinksAndStepRate(t *testing.T) {
	g := NewGame(Config{StepRate: 50})
	a := g.NewRoom("a", 10, 10)
	b := g.NewRoom("b", 10, 10)
	if a.NextRoomID != b.ID() || b.PrevRoomID != a.ID() || a.PrevRoomID != NoID {
		t.Error("room links mismatch")
	}
	if a.StepRate != 50 {
		t.Errorf("StepRate = %d, want 50", a.StepRate)
	}
	if g.RoomByName("b") != b || g.RoomByName("c") != nil {
		t.Error("RoomByName mismatch")
	}
}

// --- Tiles ---

func TestTileAddAndDelete(t *testing.T) {
	g := NewGame(Config{})
	r := g.NewRoom("r", 100, 100)
	bg := g.NewSprite("tiles", 64, 64, 1)

	a := r.TileAdd(bg, 0, 0, 16, 16, 10, 10, 5)
	b := r.TileAdd(bg, 16, 0, 16, 16, 26, 10, 5)
	if a.ID() == b.ID() || a.ID() == NoID {
		t.Errorf("tile ids = %d, %d", a.ID(), b.ID())
	}
	if res, ok := g.Registry().Find(a.ID()); !ok || res != a {
		t.Error("tile not registered")
	}
	if a.Room() != r || a.Alpha != 1 || !a.Visible || a.ScaleX != 1 {
		t.Errorf("tile defaults = %+v", a)
	}

	r.TileDelete(a.ID())
	if r.TileExists(a.ID()) || a.Room() != nil {
		t.Error("deleted tile still present")
	}
	if _, ok := g.Registry().Find(a.ID()); ok {
		t.Error("deleted tile still registered")
	}
	r.TileDelete(a.ID())
	if len(r.Tiles()) != 1 || r.Tile(b.ID()) != b {
		t.Errorf("Tiles = %v", r.Tiles())
	}
}

func TestTileLayerOperations(t *testing.T) {
	g := NewGame(Config{})
	r := g.NewRoom("r", 100, 100)
	a := r.TileAdd(nil, 0, 0, 8, 8, 0, 0, 10)
	b := r.TileAdd(nil, 0, 0, 8, 8, 8, 0, 10)
	c := r.TileAdd(nil, 0, 0, 8, 8, 0, 0, 20)

	r.TileLayerShift(10, 5, -2)
	if a.X != 5 || a.Y != -2 || b.X != 13 || c.X != 0 {
		t.Errorf("shift: a=(%v,%v) b.X=%v c.X=%v", a.X, a.Y, b.X, c.X)
	}

	r.TileLayerSetVisible(10, false)
	if a.Visible || b.Visible || !c.Visible {
		t.Error("TileLayerSetVisible touched the wrong layer")
	}

	r.TileLayerDelete(10)
	if len(r.Tiles()) != 1 || r.Tiles()[0] != c {
		t.Errorf("after layer delete: %d tiles", len(r.Tiles()))
	}
}

func TestTileLayerFindUsesScaledFootprint(t *testing.T) {
	g := NewGame(Config{})
	r := g.NewRoom("r", 100, 100)
	a := r.TileAdd(nil, 0, 0, 10, 10, 20, 20, 0)
	r.TileAdd(nil, 0, 0, 10, 10, 20, 20, 1)

	if got := r.TileLayerFind(0, 25, 25); got != a {
		t.Errorf("find inside = %v, want a", got)
	}
	if got := r.TileLayerFind(0, 35, 25); got != nil {
		t.Errorf("find outside = %v, want nil", got)
	}
	a.SetScale(2, 2)
	if got := r.TileLayerFind(0, 35, 35); got != a {
		t.Errorf("find in scaled footprint = %v, want a", got)
	}
	if got := r.TileLayerFind(0, 40, 25); got != nil {
		t.Errorf("find on right edge = %v, want nil", got)
	}
	if got := r.TileLayerFind(2, 25, 25); got != nil {
		t.Errorf("find on empty layer = %v, want nil", got)
	}
}

// --- Backgrounds and views ---

func TestBackgroundScrolls(t *testing.T) {
	g := newRoomGame()
	bg := &g.Room().Backgrounds[0]
	bg.HSpeed = 2
	bg.VSpeed = -1
	for i := 0; i < 3; i++ {
		g.Update()
	}
	if bg.X != 6 || bg.Y != -3 {
		t.Errorf("background = (%v, %v), want (6, -3)", bg.X, bg.Y)
	}
}

// followScene returns a 1000x480 room with view 0 enabled (320x240) and
// following a player standing at x=500.
func followScene() (*Game, *View, *Instance) {
	g := NewGame(Config{})
	r := g.NewRoom("wide", 1000, 480)
	g.RoomGoto(r)
	player := g.InstanceCreate(500, 100, nil)

	r.ViewsEnabled = true
	v := &r.Views[0]
	v.Enabled = true
	v.W, v.H = 320, 240
	v.Follow = player.ID()
	return g, v, player
}

func TestViewFollowKeepsBorder(t *testing.T) {
	g, v, _ := followScene()
	g.Update()
	if v.X != 212 || v.Y != 0 {
		t.Errorf("view = (%v, %v), want (212, 0)", v.X, v.Y)
	}
}

func TestViewFollowSpeedLimited(t *testing.T) {
	g, v, _ := followScene()
	v.HSpeed = 50
	g.Update()
	if v.X != 50 {
		t.Errorf("view X = %v, want 50", v.X)
	}
	g.Update()
	if v.X != 100 {
		t.Errorf("view X = %v, want 100", v.X)
	}
}

func TestViewClampedToRoom(t *testing.T) {
	g, v, player := followScene()
	player.SetPosition(990, 470)
	g.Update()
	if v.X != 680 || v.Y != 240 {
		t.Errorf("view = (%v, %v), want (680, 240)", v.X, v.Y)
	}
}

func TestViewScrollToSuspendsFollow(t *testing.T) {
	g, v, _ := followScene()
	v.ScrollTo(0, 0, 0.5, ease.Linear)
	g.Update()
	if !v.Scrolling() {
		t.Fatal("Scrolling = false after one update")
	}
	if v.X != 0 {
		t.Errorf("followed while scrolling: X = %v", v.X)
	}
	for i := 0; i < 40; i++ {
		g.Update()
	}
	if v.Scrolling() {
		t.Fatal("scroll did not finish")
	}
	g.Update()
	if v.X != 212 {
		t.Errorf("follow after scroll X = %v, want 212", v.X)
	}
}

func TestViewScrollReachesTarget(t *testing.T) {
	g := NewGame(Config{})
	r := g.NewRoom("r", 1000, 1000)
	g.RoomGoto(r)
	r.ViewsEnabled = true
	v := &r.Views[1]
	v.Enabled = true
	v.ScrollTo(300, 200, 0.25, ease.Linear)
	for i := 0; i < 30; i++ {
		g.Update()
	}
	if math.Abs(v.X-300) > 0.5 || math.Abs(v.Y-200) > 0.5 {
		t.Errorf("view = (%v, %v), want ~(300, 200)", v.X, v.Y)
	}
}

func TestViewCoordinateMapping(t *testing.T) {
	v := View{X: 100, Y: 50, W: 320, H: 240, PortX: 0, PortY: 0, PortW: 640, PortH: 480}
	rx, ry := v.ScreenToRoom(320, 240)
	if rx != 260 || ry != 170 {
		t.Errorf("ScreenToRoom = (%v, %v), want (260, 170)", rx, ry)
	}
	sx, sy := v.RoomToScreen(rx, ry)
	if sx != 320 || sy != 240 {
		t.Errorf("RoomToScreen = (%v, %v), want (320, 240)", sx, sy)
	}
	if !v.ContainsScreen(0, 0) || v.ContainsScreen(640, 10) {
		t.Error("ContainsScreen should be half-open")
	}
}

func TestMouseRoomPosition(t *testing.T) {
	g := newRoomGame()
	g.Mouse().Move(320, 240)
	if x, y := g.MouseRoomPosition(); x != 320 || y != 240 {
		t.Errorf("without views = (%v, %v), want (320, 240)", x, y)
	}

	r := g.Room()
	r.ViewsEnabled = true
	r.Views[0] = View{
		Enabled: true,
		X:       100, Y: 50, W: 320, H: 240,
		PortW: 640, PortH: 480,
	}
	if x, y := g.MouseRoomPosition(); x != 260 || y != 170 {
		t.Errorf("through view = (%v, %v), want (260, 170)", x, y)
	}
}
