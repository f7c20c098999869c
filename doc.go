// Package grove is the core of a small 2D game engine: a resource registry,
// instances built from blueprints, rooms with tiles and views, axis-aligned
// collision and a fixed-timestep scheduler that runs every update in a fixed
// order of phases.
//
// The core draws nothing and reads no devices. A host (see the ebitenhost
// package) installs a sprite drawer and frame hooks, feeds keyboard, mouse,
// touch and gamepad state into the input managers, and calls [Game.Tick]
// once per display frame.
//
// # Quick start
//
//	g := grove.NewGame(grove.DefaultConfig())
//	hero := g.NewSprite("hero", 16, 16, 4)
//
//	player := g.NewBlueprint("player", nil)
//	player.Sprite = hero
//	player.OnStep = func(self *grove.Instance) {
//		if g.Keyboard().Check(keyRight) {
//			self.MoveContactSolid(2, 0)
//		}
//	}
//
//	level := g.NewRoom("level1", 640, 480)
//	level.Place(32, 400, g.NewInstance(player))
//	g.RoomGoto(level)
//
//	if err := ebitenhost.Run(g, ebitenhost.Images{hero: heroImg}); err != nil {
//		log.Fatal(err)
//	}
//
// # Resources
//
// Sprites, blueprints, rooms, tiles and instances share one id space managed
// by the [Registry]. Ids only grow and are never reused, so a stale id can
// never name a newer resource: [Registry.Find] simply reports it missing.
//
// # Update phases
//
// Each call to [Game.Update] runs, in order: create, step begin, step (motion
// and animation integration, then the step handler), step end, room update
// (background scrolling and views), collision, keyboard, mouse, other
// (alarms, animation end, outside room), async and destroy. [Game.Draw] then
// runs draw, sorted by descending depth, and draw GUI.
//
// Callbacks registered during a phase first run the next time that phase is
// dispatched; callbacks removed during a phase never run again, including
// later in the same dispatch. [Instance.Destroy] takes effect immediately
// and the destroy handler runs in the destroy phase of the same update.
//
// # Collision
//
// Boxes are half-open: two boxes whose edges touch do not collide. This is
// what lets an instance stand exactly on top of a platform while
// [Instance.PlaceFree] still reports the position free.
//
// # Scripting and ECS
//
// Blueprint handlers can be written in Lua with the script package, and
// lifecycle events can be mirrored into a Donburi world with grove/ecs.
package grove
