package ecs

import (
	"testing"
	"time"

	"github.com/phanxgames/globe"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

func TestNewDonburiSink(t *testing.T) {
	world := donburi.NewWorld()
	if NewDonburiSink(world) == nil {
		t.Fatal("NewDonburiSink returned nil")
	}
}

func TestDonburiSink_EmitEvent(t *testing.T) {
	world := donburi.NewWorld()
	sink := NewDonburiSink(world)

	var received []globe.Event
	EventType.Subscribe(world, func(w donburi.World, e globe.Event) {
		received = append(received, e)
	})

	sink.EmitEvent(globe.Event{Type: globe.EventFeatureClick, FeatureID: "FRA", Lat: 46, Lng: 2, X: 400, Y: 300})
	sink.EmitEvent(globe.Event{Type: globe.EventViewChange, RotationX: 0.2, RotationY: -1, Zoom: 2})

	if len(received) != 0 {
		t.Fatal("events delivered before ProcessEvents")
	}
	EventType.ProcessEvents(world)

	if len(received) != 2 {
		t.Fatalf("expected 2 events, got %d", len(received))
	}
	if e := received[0]; e.Type != globe.EventFeatureClick || e.FeatureID != "FRA" || e.X != 400 {
		t.Errorf("event 0: %+v", e)
	}
	if e := received[1]; e.Type != globe.EventViewChange || e.Zoom != 2 {
		t.Errorf("event 1: %+v", e)
	}
}

func TestDonburiSink_FromGlobe(t *testing.T) {
	world := donburi.NewWorld()
	g := globe.NewGlobe(globe.Options{Width: 800, Height: 600})
	g.SetFeatures(globe.FallbackFeatures())
	g.SetEventSink(NewDonburiSink(world))

	var got []globe.Event
	EventType.Subscribe(world, func(w donburi.World, e globe.Event) {
		got = append(got, e)
	})

	now := time.Unix(1_700_000_000, 0)
	g.Gesture().PointerDown(10, 10, now)
	g.Gesture().PointerUp(10, 10, now.Add(50*time.Millisecond))
	events.ProcessAllEvents(world)

	if len(got) != 1 || got[0].Type != globe.EventClick || got[0].FeatureID != "" {
		t.Errorf("events = %+v, want one missed click", got)
	}
}

func TestDonburiSink_MultipleSubscribers(t *testing.T) {
	world := donburi.NewWorld()
	sink := NewDonburiSink(world)

	var count1, count2 int
	EventType.Subscribe(world, func(w donburi.World, e globe.Event) { count1++ })
	EventType.Subscribe(world, func(w donburi.World, e globe.Event) { count2++ })

	sink.EmitEvent(globe.Event{Type: globe.EventClick})
	events.ProcessAllEvents(world)

	if count1 != 1 || count2 != 1 {
		t.Errorf("expected both subscribers called once, got %d and %d", count1, count2)
	}
}
