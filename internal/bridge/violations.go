package bridge

import (
	"time"

	"github.com/hostwire/hostwire/internal/bridge/contract"
	loggingpkg "github.com/hostwire/hostwire/internal/bridge/logging"
)

// ViolationKind classifies a recorded policy or schema failure.
type ViolationKind string

const (
	ViolationUnknownEvent      ViolationKind = "unknown_event"
	ViolationInvalidPayload    ViolationKind = "invalid_payload"
	ViolationMissingPermission ViolationKind = "missing_permission"
)

// Violation records a contract or permission failure. Violations are created
// by the router, never mutated, and never thrown: they are handed to an
// external collector.
type Violation struct {
	ID        string             `json:"id"`
	At        time.Time          `json:"at"`
	Direction contract.Direction `json:"direction"`
	Kind      ViolationKind      `json:"kind"`
	Event     string             `json:"event"`
	Payload   any                `json:"payload,omitempty"`
	Reason    string             `json:"reason"`
}

// Collector consumes violations recorded by the router.
type Collector interface {
	Collect(v Violation)
}

// CollectorFunc adapts a function to the Collector interface.
type CollectorFunc func(v Violation)

func (f CollectorFunc) Collect(v Violation) {
	f(v)
}

// NewLoggingCollector returns the default collector, which logs each
// violation as a warning.
func NewLoggingCollector(log loggingpkg.ServiceLogger) Collector {
	if log == nil {
		log = loggingpkg.NopLogger()
	}
	return CollectorFunc(func(v Violation) {
		log.Warn("contract violation", loggingpkg.LogFields{
			"violation_id": v.ID,
			"kind":         string(v.Kind),
			"direction":    string(v.Direction),
			"event":        v.Event,
			"reason":       v.Reason,
		})
	})
}
