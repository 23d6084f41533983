package flow

import "time"

type Task string

const (
	TaskDiscovery Task = "discovery"
	TaskBooking   Task = "booking"
)

// Effect is work Reduce asks its caller to perform.
type Effect interface {
	isEffect()
}

// Schedule arms a one-shot task. When it fires, the caller feeds back the
// completion event carrying Token.
type Schedule struct {
	Task  Task
	Token uint64
	Delay time.Duration
}

// Cancel disarms a task scheduled earlier.
type Cancel struct {
	Task  Task
	Token uint64
}

func (Schedule) isEffect() {}
func (Cancel) isEffect()   {}
