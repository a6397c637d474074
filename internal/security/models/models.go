package models

import (
	"time"

	id "consentvault/pkg/domain"
	dErrors "consentvault/pkg/domain-errors"
)

// EventType tags an access-relevant occurrence.
type EventType string

const (
	EventAuthenticationSucceeded EventType = "authentication_succeeded"
	EventAuthenticationFailed    EventType = "authentication_failed"
	EventDeletionCodeRequested   EventType = "deletion_code_requested"
	EventDeletionVerified        EventType = "deletion_verified"
	EventAdminLoginSucceeded     EventType = "admin_login_succeeded"
	EventAdminLoginFailed        EventType = "admin_login_failed"
)

func (t EventType) IsValid() bool {
	switch t {
	case EventAuthenticationSucceeded, EventAuthenticationFailed,
		EventDeletionCodeRequested, EventDeletionVerified,
		EventAdminLoginSucceeded, EventAdminLoginFailed:
		return true
	}
	return false
}

// Event is append-only. ExpiresAt is fixed at creation and drives the purge.
type Event struct {
	ID         id.EventID `json:"id"`
	Type       EventType  `json:"type"`
	IPAddress  string     `json:"ip_address"`
	Device     string     `json:"device"`
	OccurredAt time.Time  `json:"occurred_at"`
	ExpiresAt  time.Time  `json:"expires_at"`
}

// NewEvent builds an event whose purge time is occurredAt + horizon.
func NewEvent(eventID id.EventID, eventType EventType, ip, device string, occurredAt time.Time, horizon time.Duration) (*Event, error) {
	if eventID.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "event id required")
	}
	if !eventType.IsValid() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "unknown security event type")
	}
	if horizon <= 0 {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "security event horizon must be positive")
	}
	return &Event{
		ID:         eventID,
		Type:       eventType,
		IPAddress:  ip,
		Device:     device,
		OccurredAt: occurredAt,
		ExpiresAt:  occurredAt.Add(horizon),
	}, nil
}
