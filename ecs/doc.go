// Package ecs provides ECS adapters for grove's instance lifecycle events.
//
// The primary adapter is [NewDonburiStore], which publishes grove lifecycle
// events (instance created, instance destroyed, room entered) into a
// [Donburi] world as typed events. Subscribe to [LifecycleEventType] in your
// ECS systems to receive them.
//
// Usage:
//
//	store := ecs.NewDonburiStore(world)
//	game.SetEntityStore(store)
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
