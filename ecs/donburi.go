package ecs

import (
	"github.com/phanxgames/globe"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

// EventType is the Donburi event type for globe events.
var EventType = events.NewEventType[globe.Event]()

type donburiSink struct {
	world donburi.World
}

// NewDonburiSink creates an EventSink backed by a Donburi world. Events are
// queued on EventType until ProcessEvents runs.
func NewDonburiSink(world donburi.World) globe.EventSink {
	return &donburiSink{world: world}
}

func (s *donburiSink) EmitEvent(event globe.Event) {
	EventType.Publish(s.world, event)
}
