package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventTraceGenerated EventType = "trace_generated"
	EventAdapterFailed  EventType = "adapter_failed"
	EventTick           EventType = "tick"
	EventStateChange    EventType = "state_change"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
}

// TraceEvent is emitted when a trace is (re)generated for a new input.
type TraceEvent struct {
	EventBase
	Problem string `json:"problem"`
	Steps   int    `json:"steps"`
	Err     error  `json:"-"`
}

// PlaybackEvent is emitted whenever the playback cursor or mode changes.
type PlaybackEvent struct {
	EventBase
	Previous PlaybackState `json:"previous"`
	Current  PlaybackState `json:"current"`
}

// LifecycleHooks defines callbacks for playback observability.
// Hooks run outside the engine's lock and must not block.
type LifecycleHooks struct {
	OnTraceGenerated func(context.Context, *TraceEvent)
	OnAdapterFailure func(context.Context, *TraceEvent)
	OnTick           func(context.Context, *PlaybackEvent)
	OnStateChange    func(context.Context, *PlaybackEvent)
}

// Merge returns hooks calling h first and then other, for each callback.
func (h LifecycleHooks) Merge(other LifecycleHooks) LifecycleHooks {
	return LifecycleHooks{
		OnTraceGenerated: chainTrace(h.OnTraceGenerated, other.OnTraceGenerated),
		OnAdapterFailure: chainTrace(h.OnAdapterFailure, other.OnAdapterFailure),
		OnTick:           chainPlayback(h.OnTick, other.OnTick),
		OnStateChange:    chainPlayback(h.OnStateChange, other.OnStateChange),
	}
}

func chainTrace(a, b func(context.Context, *TraceEvent)) func(context.Context, *TraceEvent) {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	return func(ctx context.Context, e *TraceEvent) {
		a(ctx, e)
		b(ctx, e)
	}
}

func chainPlayback(a, b func(context.Context, *PlaybackEvent)) func(context.Context, *PlaybackEvent) {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	return func(ctx context.Context, e *PlaybackEvent) {
		a(ctx, e)
		b(ctx, e)
	}
}
