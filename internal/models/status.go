package models

// DeliveryStatus is the tri-state lifecycle of a dispatched command record.
// Transitions are monotonic: Pending -> Submitted -> Acknowledged, never back.
type DeliveryStatus string

const (
	StatusPending      DeliveryStatus = "PENDING"
	StatusSubmitted    DeliveryStatus = "SUBMITTED"
	StatusAcknowledged DeliveryStatus = "ACKNOWLEDGED"
)

// rank orders the statuses; unknown statuses rank below Pending so a
// corrupt value can always be repaired forward.
func (s DeliveryStatus) rank() int {
	switch s {
	case StatusPending:
		return 1
	case StatusSubmitted:
		return 2
	case StatusAcknowledged:
		return 3
	}
	return 0
}

// Valid reports whether s is one of the three known states.
func (s DeliveryStatus) Valid() bool {
	return s.rank() > 0
}

// CanTransition reports whether moving from s to next keeps the
// monotonic ordering. A transition to the same state is allowed
// (idempotent rewrites happen when the agent re-sends an ack).
func (s DeliveryStatus) CanTransition(next DeliveryStatus) bool {
	if !next.Valid() {
		return false
	}
	return next.rank() >= s.rank()
}
