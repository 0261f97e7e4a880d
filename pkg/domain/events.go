package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventTurn       EventType = "turn"
	EventOutOfScope EventType = "out_of_scope"
	EventStateFault EventType = "state_fault"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	SessionID string    `json:"session_id"`
}

// TurnEvent describes a processed utterance.
type TurnEvent struct {
	EventBase
	Intent   string        `json:"intent"`
	Rule     string        `json:"rule,omitempty"`
	Duration time.Duration `json:"duration"`
}

// FaultEvent describes a degraded collaborator (store or catalog).
type FaultEvent struct {
	EventBase
	Component string `json:"component"`
	Err       error  `json:"-"`
}

// LifecycleHooks defines callbacks for engine observability.
type LifecycleHooks struct {
	OnTurn       func(context.Context, *TurnEvent)
	OnOutOfScope func(context.Context, *TurnEvent)
	OnFault      func(context.Context, *FaultEvent)
}
