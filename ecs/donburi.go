package ecs

import (
	"github.com/phanxgames/grove"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

// LifecycleEventType is the Donburi event type for grove lifecycle events.
// Subscribe to this in your ECS systems to mirror instance creation,
// destruction and room changes.
var LifecycleEventType = events.NewEventType[grove.LifecycleEvent]()

type donburiStore struct {
	world donburi.World
}

// NewDonburiStore creates an EntityStore backed by a Donburi world.
// Lifecycle events are published to LifecycleEventType and can be consumed
// with events.Subscribe and ProcessEvents.
func NewDonburiStore(world donburi.World) grove.EntityStore {
	return &donburiStore{world: world}
}

func (s *donburiStore) EmitEvent(event grove.LifecycleEvent) {
	LifecycleEventType.Publish(s.world, event)
}
