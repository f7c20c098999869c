// Package ebitenhost runs a [grove.Game] on [Ebitengine].
//
// The host owns everything the core treats as an external collaborator: it
// draws sprites, tiles and background layers through the core's renderer
// hooks, captures keyboard, mouse, touch and gamepad state into the core's
// input managers, and overlays an FPS counter.
//
// The simplest way to start is [Run]:
//
//	game := grove.NewGame(cfg)
//	// ... sprites, blueprints, rooms ...
//	game.RoomGoto(first)
//	if err := ebitenhost.Run(game, ebitenhost.Images{hero: heroImg}); err != nil {
//		log.Fatal(err)
//	}
//
// Ebitengine's own update rate is synced to the display; the core's
// fixed-timestep loop decides how many simulation steps each frame runs.
//
// [Ebitengine]: https://ebitengine.org
package ebitenhost
