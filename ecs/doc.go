// Package ecs bridges globe events into a Donburi ECS world.
//
// [NewDonburiSink] returns a [globe.EventSink] that publishes every outbound
// globe event (click, feature click, hover change, view change) to
// [EventType]. Subscribe to it in your ECS systems and drain the queue with
// ProcessEvents once per frame.
//
// Usage:
//
//	sink := ecs.NewDonburiSink(world)
//	g.SetEventSink(sink)
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
