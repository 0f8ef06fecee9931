// Package history keeps a local audit trail of lifecycle operations so an
// operator can reconstruct what serverctl did and when.
package history

import (
	"context"
	"time"
)

// Op identifies a state-changing operation.
type Op string

const (
	OpStart   Op = "start"
	OpStop    Op = "stop"
	OpRestart Op = "restart"
)

// Event is one audit row.
type Event struct {
	OccurredAt time.Time `json:"occurred_at"`
	Op         Op        `json:"op"`
	PID        int       `json:"pid"`
	OK         bool      `json:"ok"`
	Detail     string    `json:"detail,omitempty"`
}

// Recorder is the write side consumed by the supervisor. Implementations
// must be safe for concurrent use.
type Recorder interface {
	Record(ctx context.Context, e Event) error
}
