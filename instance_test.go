package grove

import (
	"math"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

const epsilon = 1e-9

func approx(a, b float64) bool { return math.Abs(a-b) < epsilon }

// newRoomGame returns a game already inside a 640x480 room.
func newRoomGame() *Game {
	g := NewGame(Config{})
	g.RoomGoto(g.NewRoom("test", 640, 480))
	return g
}

// --- Lifecycle ---

func TestCreateRunsBeforeFirstStep(t *testing.T) {
	g := newRoomGame()
	bp := g.NewBlueprint("b", nil)
	created := false
	sawCreated := false
	bp.OnCreate = func(*Instance) { created = true }
	bp.OnStep = func(*Instance) { sawCreated = created }
	g.InstanceCreate(0, 0, bp)

	if created {
		t.Fatal("create handler ran before the create phase")
	}
	g.Update()
	if !sawCreated {
		t.Error("step ran before create")
	}
}

func TestDestroyIsImmediateHandlerDeferred(t *testing.T) {
	g := newRoomGame()
	bp := g.NewBlueprint("b", nil)
	var log []string
	remaining := -1
	bp.OnStep = func(self *Instance) {
		log = append(log, "step")
		self.Destroy()
		self.Destroy()
		remaining = g.InstanceNumber(bp)
	}
	bp.OnStepEnd = func(*Instance) { log = append(log, "step_end") }
	bp.OnDestroy = func(*Instance) { log = append(log, "destroy") }
	inst := g.InstanceCreate(0, 0, bp)
	g.Register(EventAsync, func() { log = append(log, "async") })

	g.Update()
	want := []string{"step", "async", "destroy"}
	if !equalStrings(log, want) {
		t.Errorf("log = %v, want %v", log, want)
	}
	if remaining != 0 {
		t.Errorf("InstanceNumber after Destroy = %d, want 0", remaining)
	}
	if inst.Room() != nil || !inst.IsDestroyed() {
		t.Error("destroyed instance still in room")
	}

	g.Update()
	if len(log) != 3 {
		t.Errorf("handlers ran after destroy: %v", log)
	}
}

func TestInstanceCreatedDuringStepStartsNextUpdate(t *testing.T) {
	g := newRoomGame()
	childSteps := 0
	childCreated := false
	child := g.NewBlueprint("child", nil)
	child.OnCreate = func(*Instance) { childCreated = true }
	child.OnStep = func(*Instance) { childSteps++ }

	spawned := false
	parent := g.NewBlueprint("spawner", nil)
	parent.OnStep = func(self *Instance) {
		if !spawned {
			spawned = true
			g.InstanceCreate(self.X, self.Y, child)
		}
	}
	g.InstanceCreate(0, 0, parent)

	g.Update()
	if childCreated || childSteps != 0 {
		t.Errorf("child ran in spawning update: created=%v steps=%d", childCreated, childSteps)
	}
	g.Update()
	if !childCreated || childSteps != 1 {
		t.Errorf("child after next update: created=%v steps=%d, want true 1", childCreated, childSteps)
	}
}

func TestInactiveInstanceSkipsEvents(t *testing.T) {
	g := newRoomGame()
	steps, draws := 0, 0
	bp := g.NewBlueprint("b", nil)
	bp.OnStep = func(*Instance) { steps++ }
	bp.OnDraw = func(*Instance) { draws++ }
	inst := g.InstanceCreate(0, 0, bp)
	inst.SetHSpeed(2)

	inst.SetActive(false)
	g.Update()
	g.Draw()
	if steps != 0 || draws != 0 || inst.X != 0 {
		t.Errorf("inactive: steps=%d draws=%d X=%v", steps, draws, inst.X)
	}
	if g.InstanceNumber(All) != 0 {
		t.Error("inactive instance counted")
	}

	g.InstanceActivateAll()
	g.Update()
	if steps != 1 || inst.X != 2 {
		t.Errorf("reactivated: steps=%d X=%v", steps, inst.X)
	}
}

// --- Blueprints ---

func TestBlueprintInheritance(t *testing.T) {
	g := newRoomGame()
	var log []string
	enemy := g.NewBlueprint("enemy", nil)
	enemy.OnCreate = func(self *Instance) { log = append(log, "enemy create "+self.Name()) }
	enemy.OnStep = func(self *Instance) { log = append(log, "enemy step "+self.Name()) }
	bat := g.NewBlueprint("bat", enemy)
	bat.OnCreate = func(self *Instance) { log = append(log, "bat create") }

	g.InstanceCreate(0, 0, bat)
	g.Update()
	want := []string{"bat create", "enemy step bat"}
	if !equalStrings(log, want) {
		t.Errorf("log = %v, want %v", log, want)
	}

	if !enemy.IsAncestorOf(bat) || bat.IsAncestorOf(enemy) || enemy.IsAncestorOf(enemy) {
		t.Error("IsAncestorOf mismatch")
	}
	if !bat.Is(enemy) || !bat.Is(bat) || enemy.Is(bat) {
		t.Error("Is mismatch")
	}
	g.InstanceCreate(0, 0, enemy)
	if n := g.InstanceNumber(enemy); n != 2 {
		t.Errorf("InstanceNumber(enemy) = %d, want 2", n)
	}
	if n := g.InstanceNumber(bat); n != 1 {
		t.Errorf("InstanceNumber(bat) = %d, want 1", n)
	}
}

func TestBlueprintDefaultsCopied(t *testing.T) {
	g := newRoomGame()
	spr := g.NewSprite("s", 8, 8, 1)
	bp := g.NewBlueprint("b", nil)
	bp.Sprite = spr
	bp.Solid = true
	bp.Depth = 7
	bp.Visible = false
	bp.Init = func(self *Instance) { self.UserData = 99 }

	inst := g.InstanceCreate(3, 4, bp)
	if inst.Sprite != spr || !inst.Solid || inst.Depth != 7 || inst.Visible {
		t.Errorf("defaults not copied: %+v", inst)
	}
	if inst.UserData != 99 {
		t.Errorf("UserData = %v, want 99", inst.UserData)
	}
	if inst.XStart != 3 || inst.YStart != 4 || inst.XPrevious != 3 {
		t.Errorf("start = (%v, %v)", inst.XStart, inst.YStart)
	}
}

func TestCollisionHandlers(t *testing.T) {
	g := newRoomGame()
	box := g.NewSprite("box", 10, 10, 1)
	pickup := g.NewBlueprint("pickup", nil)
	pickup.Sprite = box
	coin := g.NewBlueprint("coin", pickup)
	coin.Sprite = box
	player := g.NewBlueprint("player", nil)
	player.Sprite = box

	hits := 0
	player.OnCollision(pickup, func(self, other *Instance) { hits++ })

	g.InstanceCreate(0, 0, player)
	g.InstanceCreate(5, 5, coin)   // overlaps
	g.InstanceCreate(10, 0, coin)  // touches right edge
	g.InstanceCreate(100, 0, coin) // far away

	g.Update()
	if hits != 1 {
		t.Errorf("hits = %d, want 1", hits)
	}

	// A descendant's handler for the same target replaces the inherited one.
	hero := g.NewBlueprint("hero", player)
	heroHits := 0
	hero.OnCollision(pickup, func(self, other *Instance) { heroHits++ })
	g.InstanceCreate(0, 0, hero)
	hits = 0
	g.Update()
	if heroHits != 1 || hits != 1 {
		t.Errorf("heroHits=%d hits=%d, want 1 1", heroHits, hits)
	}
}

func TestCollisionHandlerDestroyingOther(t *testing.T) {
	g := newRoomGame()
	box := g.NewSprite("box", 10, 10, 1)
	coin := g.NewBlueprint("coin", nil)
	coin.Sprite = box
	destroyed := 0
	coin.OnDestroy = func(*Instance) { destroyed++ }
	player := g.NewBlueprint("player", nil)
	player.Sprite = box
	player.OnCollision(coin, func(self, other *Instance) { other.Destroy() })

	g.InstanceCreate(0, 0, player)
	g.InstanceCreate(2, 2, coin)
	g.InstanceCreate(4, 4, coin)
	g.Update()

	if n := g.InstanceNumber(coin); n != 0 {
		t.Errorf("coins left = %d, want 0", n)
	}
	if destroyed != 2 {
		t.Errorf("destroy handlers = %d, want 2", destroyed)
	}
}

// --- Motion ---

func TestMotionComponentsAndPolar(t *testing.T) {
	g := newRoomGame()
	inst := g.InstanceCreate(0, 0, nil)

	inst.SetHSpeed(3)
	inst.SetVSpeed(-4)
	if !approx(inst.Speed(), 5) {
		t.Errorf("Speed = %v, want 5", inst.Speed())
	}
	if want := math.Atan2(4, 3) * 180 / math.Pi; !approx(inst.Direction(), want) {
		t.Errorf("Direction = %v, want %v", inst.Direction(), want)
	}

	inst.MotionSet(90, 2)
	if !approx(inst.HSpeed(), 0) || !approx(inst.VSpeed(), -2) {
		t.Errorf("MotionSet(90, 2) = (%v, %v), want (0, -2)", inst.HSpeed(), inst.VSpeed())
	}

	inst.MotionAdd(0, 2)
	if !approx(inst.Direction(), 45) || !approx(inst.Speed(), math.Sqrt(8)) {
		t.Errorf("after MotionAdd: dir=%v speed=%v", inst.Direction(), inst.Speed())
	}

	inst.SetDirection(-90)
	if !approx(inst.Direction(), 270) || !approx(inst.VSpeed(), math.Sqrt(8)) {
		t.Errorf("SetDirection(-90): dir=%v vspeed=%v", inst.Direction(), inst.VSpeed())
	}

	inst.SetSpeed(0)
	if inst.Direction() != 270 {
		t.Errorf("stopping changed direction to %v", inst.Direction())
	}
}

func TestMotionRoundTrip(t *testing.T) {
	g := newRoomGame()
	inst := g.InstanceCreate(0, 0, nil)
	for _, dir := range []float64{0, 30, 135, 200, 359} {
		inst.MotionSet(dir, 4)
		h, v := inst.HSpeed(), inst.VSpeed()
		inst.SetHSpeed(h)
		inst.SetVSpeed(v)
		if !approx(inst.Speed(), 4) || math.Abs(inst.Direction()-dir) > 1e-6 {
			t.Errorf("dir %v: round trip gave dir=%v speed=%v", dir, inst.Direction(), inst.Speed())
		}
	}
}

func TestGravityAndFriction(t *testing.T) {
	g := newRoomGame()
	faller := g.InstanceCreate(0, 0, nil)
	faller.Gravity = 1
	slider := g.InstanceCreate(0, 100, nil)
	slider.SetHSpeed(5)
	slider.Friction = 2

	g.Update()
	if !approx(faller.VSpeed(), 1) || !approx(faller.Y, 1) {
		t.Errorf("faller vspeed=%v y=%v, want 1 1", faller.VSpeed(), faller.Y)
	}
	if !approx(slider.HSpeed(), 3) || !approx(slider.X, 3) {
		t.Errorf("slider hspeed=%v x=%v, want 3 3", slider.HSpeed(), slider.X)
	}
	if slider.XPrevious != 0 {
		t.Errorf("XPrevious = %v, want 0", slider.XPrevious)
	}

	g.Update()
	g.Update()
	if slider.HSpeed() != 0 {
		t.Errorf("friction overshot: hspeed=%v", slider.HSpeed())
	}
}

func TestMoveTowardsPointAndDistances(t *testing.T) {
	g := newRoomGame()
	box := g.NewSprite("box", 10, 10, 1)
	a := g.InstanceCreate(0, 0, nil)
	a.Sprite = box
	UpdateBBox(a)

	a.MoveTowardsPoint(0, 100, 3)
	if !approx(a.Direction(), 270) || !approx(a.VSpeed(), 3) {
		t.Errorf("dir=%v vspeed=%v", a.Direction(), a.VSpeed())
	}
	if d := a.DistanceToPoint(5, 5); d != 0 {
		t.Errorf("DistanceToPoint inside = %v, want 0", d)
	}
	if d := a.DistanceToPoint(13, 14); !approx(d, 5) {
		t.Errorf("DistanceToPoint = %v, want 5", d)
	}

	bp := g.NewBlueprint("target", nil)
	bp.Sprite = box
	g.InstanceCreate(30, 0, bp)
	g.InstanceCreate(0, 50, bp)
	if d := a.DistanceToObject(bp); !approx(d, 20) {
		t.Errorf("DistanceToObject = %v, want 20", d)
	}
	if d := a.DistanceToObject(g.NewBlueprint("none", nil)); !math.IsInf(d, 1) {
		t.Errorf("DistanceToObject(no instances) = %v, want +Inf", d)
	}
}

// --- Other phase ---

func TestAlarmFiresOnce(t *testing.T) {
	g := newRoomGame()
	fired := 0
	bp := g.NewBlueprint("b", nil)
	bp.OnAlarm(0, func(self *Instance) { fired++ })
	bp.OnAlarm(AlarmCount, func(*Instance) { t.Error("out-of-range alarm bound") })
	inst := g.InstanceCreate(0, 0, bp)
	inst.Alarm[0] = 3

	g.Update()
	g.Update()
	if fired != 0 {
		t.Fatalf("fired early after 2 updates")
	}
	g.Update()
	if fired != 1 {
		t.Errorf("fired = %d, want 1", fired)
	}
	g.Update()
	g.Update()
	if fired != 1 || inst.Alarm[0] != -1 {
		t.Errorf("fired=%d alarm=%d, want 1 -1", fired, inst.Alarm[0])
	}
}

func TestAlarmCanRearm(t *testing.T) {
	g := newRoomGame()
	fired := 0
	bp := g.NewBlueprint("b", nil)
	bp.OnAlarm(2, func(self *Instance) {
		fired++
		self.Alarm[2] = 2
	})
	g.InstanceCreate(0, 0, bp).Alarm[2] = 1
	for i := 0; i < 5; i++ {
		g.Update()
	}
	if fired != 3 {
		t.Errorf("fired = %d, want 3", fired)
	}
}

func TestAnimationWrapsAndSignalsEnd(t *testing.T) {
	g := newRoomGame()
	spr := g.NewSprite("walk", 8, 8, 4)
	ends := 0
	bp := g.NewBlueprint("b", nil)
	bp.Sprite = spr
	bp.OnAnimationEnd = func(*Instance) { ends++ }
	inst := g.InstanceCreate(0, 0, bp)
	inst.FrameRate = 1

	for i := 0; i < 3; i++ {
		g.Update()
	}
	if ends != 0 || inst.FrameIndex != 3 {
		t.Fatalf("after 3 updates ends=%d frame=%v", ends, inst.FrameIndex)
	}
	g.Update()
	if ends != 1 || inst.FrameIndex != 0 {
		t.Errorf("after 4 updates ends=%d frame=%v, want 1 0", ends, inst.FrameIndex)
	}
}

func TestOutsideRoomFiresOnLeaving(t *testing.T) {
	g := NewGame(Config{})
	g.RoomGoto(g.NewRoom("r", 100, 100))
	spr := g.NewSprite("s", 16, 16, 1)
	outside := 0
	bp := g.NewBlueprint("b", nil)
	bp.Sprite = spr
	bp.OnOutsideRoom = func(*Instance) { outside++ }
	inst := g.InstanceCreate(80, 10, bp)
	inst.SetHSpeed(10)

	g.Update() // x=90, still overlapping
	if outside != 0 {
		t.Fatalf("fired while inside")
	}
	g.Update() // x=100, left edge on the room's right edge
	g.Update()
	if outside != 1 {
		t.Errorf("outside = %d, want 1", outside)
	}
}

// --- Drawing ---

func TestDrawSelfUsesSpriteDrawer(t *testing.T) {
	g := newRoomGame()
	spr := g.NewSprite("s", 8, 8, 3)
	type call struct {
		frame int
		x, y  float64
		alpha float64
	}
	var calls []call
	g.SetSpriteDrawer(func(s *Sprite, frame int, x, y, sx, sy, angle float64, tint Color, alpha float64) {
		calls = append(calls, call{frame, x, y, alpha})
	})

	bp := g.NewBlueprint("b", nil)
	bp.Sprite = spr
	inst := g.InstanceCreate(12, 34, bp)
	inst.FrameIndex = 2.7
	inst.Alpha = 0.5
	hidden := g.InstanceCreate(0, 0, bp)
	hidden.Visible = false
	g.Update()
	g.Draw()

	if len(calls) != 1 {
		t.Fatalf("draw calls = %d, want 1", len(calls))
	}
	if c := calls[0]; c.frame != 2 || c.x != 12 || c.y != 34 || c.alpha != 0.5 {
		t.Errorf("call = %+v", c)
	}

	calls = nil
	inst.DrawSpriteExt(spr, -1, 0, 0, 1, 1, 0, ColorWhite, 1)
	if len(calls) != 1 || calls[0].frame != 2 {
		t.Errorf("negative frame wrapped to %+v, want frame 2", calls)
	}
}

func TestDrawHandlerReplacesDrawSelf(t *testing.T) {
	g := newRoomGame()
	spr := g.NewSprite("s", 8, 8, 1)
	drawn := 0
	g.SetSpriteDrawer(func(*Sprite, int, float64, float64, float64, float64, float64, Color, float64) { drawn++ })

	custom := 0
	bp := g.NewBlueprint("b", nil)
	bp.Sprite = spr
	bp.OnDraw = func(self *Instance) { custom++ }
	g.InstanceCreate(0, 0, bp)
	g.Update()
	g.Draw()
	if custom != 1 || drawn != 0 {
		t.Errorf("custom=%d drawn=%d, want 1 0", custom, drawn)
	}
}

func TestCallbacksWaitForCreate(t *testing.T) {
	g := newRoomGame()
	var log []string
	bp := g.NewBlueprint("b", nil)
	bp.OnCreate = func(*Instance) { log = append(log, "create") }
	bp.OnStepEnd = func(*Instance) { log = append(log, "step_end") }
	bp.OnDraw = func(*Instance) { log = append(log, "draw") }
	g.InstanceCreate(0, 0, bp)

	g.Draw()
	if len(log) != 0 {
		t.Fatalf("ran before create: %v", log)
	}
	g.Update()
	g.Draw()
	want := []string{"create", "step_end", "draw"}
	if !equalStrings(log, want) {
		t.Errorf("log = %v, want %v", log, want)
	}
}

func TestChildStepEndWaitsForCreate(t *testing.T) {
	g := newRoomGame()
	var log []string
	child := g.NewBlueprint("child", nil)
	child.OnCreate = func(*Instance) { log = append(log, "create") }
	child.OnStepEnd = func(*Instance) { log = append(log, "step_end") }

	spawned := false
	parent := g.NewBlueprint("spawner", nil)
	parent.OnStep = func(self *Instance) {
		if !spawned {
			spawned = true
			g.InstanceCreate(0, 0, child)
		}
	}
	g.InstanceCreate(0, 0, parent)

	g.Update()
	g.Update()
	want := []string{"create", "step_end"}
	if !equalStrings(log, want) {
		t.Errorf("log = %v, want %v", log, want)
	}
}

func TestAlarmHandlerAddedAfterCreate(t *testing.T) {
	g := newRoomGame()
	bp := g.NewBlueprint("b", nil)
	inst := g.InstanceCreate(0, 0, bp)
	g.Update()

	fired := 0
	bp.OnAlarm(1, func(*Instance) { fired++ })
	inst.Alarm[1] = 1
	g.Update()
	if fired != 1 {
		t.Errorf("fired = %d, want 1", fired)
	}
}

func TestZeroFrameSpriteDoesNotPanic(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)
	g := newRoomGame()
	g.SetLogger(zap.New(core))
	spr := g.NewSprite("s", 8, 8, 1)
	spr.Frames = 0
	var frames []int
	g.SetSpriteDrawer(func(_ *Sprite, frame int, _, _, _, _, _ float64, _ Color, _ float64) {
		frames = append(frames, frame)
	})

	bp := g.NewBlueprint("b", nil)
	bp.Sprite = spr
	inst := g.InstanceCreate(0, 0, bp)
	inst.FrameRate = 0.5
	for i := 0; i < 3; i++ {
		g.Update()
		g.Draw()
	}
	if math.IsNaN(inst.FrameIndex) || inst.FrameIndex < 0 || inst.FrameIndex >= 1 {
		t.Errorf("FrameIndex = %v, want in [0, 1)", inst.FrameIndex)
	}
	if len(frames) != 3 || frames[0] != 0 {
		t.Errorf("frames drawn = %v, want [0 0 0]", frames)
	}
	if logs.Len() != 0 {
		t.Errorf("logged %v", logs.All())
	}
}

func TestRestartAfterDestroySkipsDestroyHandler(t *testing.T) {
	g := NewGame(Config{})
	r := g.NewRoom("r", 100, 100)
	store := &recordStore{}
	g.SetEntityStore(store)

	destroyed := 0
	restarted := false
	bp := g.NewBlueprint("b", nil)
	bp.OnDestroy = func(*Instance) { destroyed++ }
	bp.OnStep = func(self *Instance) {
		if !restarted {
			restarted = true
			self.Destroy()
			g.RoomRestart()
		}
	}
	placed := g.NewInstance(bp)
	r.Place(0, 0, placed)
	g.RoomGoto(r)

	g.Update()
	if destroyed != 0 {
		t.Errorf("destroy handler ran %d times for a restored instance", destroyed)
	}
	if placed.IsDestroyed() || placed.Room() != r {
		t.Error("placed instance not restored")
	}
	for _, e := range store.events {
		if e.Type == LifecycleDestroyed {
			t.Errorf("destroyed event emitted: %+v", e)
		}
	}

	placed.Destroy()
	g.Update()
	if destroyed != 1 {
		t.Errorf("destroy handler ran %d times, want 1", destroyed)
	}
}

func TestDestroyRestartDestroyRunsHandlerOnce(t *testing.T) {
	g := NewGame(Config{})
	r := g.NewRoom("r", 100, 100)
	destroyed := 0
	bp := g.NewBlueprint("b", nil)
	bp.OnDestroy = func(*Instance) { destroyed++ }
	placed := g.NewInstance(bp)
	r.Place(0, 0, placed)
	g.RoomGoto(r)
	g.Update()

	placed.Destroy()
	g.RoomRestart()
	placed.Destroy()
	g.Update()
	if destroyed != 1 {
		t.Errorf("destroy handler ran %d times, want 1", destroyed)
	}
}
