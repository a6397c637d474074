package models

import (
	"time"

	id "consentvault/pkg/domain"
	dErrors "consentvault/pkg/domain-errors"
)

// Action tags what an administrator did.
type Action string

const (
	ActionLogin      Action = "login"
	ActionLogout     Action = "logout"
	ActionDataFetch  Action = "data-fetch"
	ActionSoftDelete Action = "soft-delete"
	ActionOther      Action = "other"
)

func (a Action) IsValid() bool {
	switch a {
	case ActionLogin, ActionLogout, ActionDataFetch, ActionSoftDelete, ActionOther:
		return true
	}
	return false
}

// Record is append-only. ActorID is the administrator for privileged actions;
// self-service deletions are recorded with a nil actor and the subject's consent key.
type Record struct {
	ID         id.AuditID    `json:"id"`
	ActorID    id.AdminID    `json:"actor_id"`
	Action     Action        `json:"action"`
	ConsentKey id.ConsentKey `json:"consent_key,omitempty"`
	Detail     string        `json:"detail"`
	IPAddress  string        `json:"ip_address"`
	OccurredAt time.Time     `json:"occurred_at"`
}

func NewRecord(recordID id.AuditID, actor id.AdminID, action Action, key id.ConsentKey, detail, ip string, at time.Time) (*Record, error) {
	if recordID.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "audit id required")
	}
	if !action.IsValid() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "unknown audit action")
	}
	if actor.IsNil() && key.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "audit record needs an actor or a consent key")
	}
	if len(detail) > 1024 {
		detail = detail[:1024]
	}
	return &Record{
		ID:         recordID,
		ActorID:    actor,
		Action:     action,
		ConsentKey: key,
		Detail:     detail,
		IPAddress:  ip,
		OccurredAt: at,
	}, nil
}
