package models

import (
	"time"

	dErrors "consentvault/pkg/domain-errors"
	s "consentvault/pkg/string"
)

type RequestCodeRequest struct {
	Contact string `json:"contact" validate:"required,email,max=255"`
}

func (r *RequestCodeRequest) Sanitize() {
	s.TrimStrings(&r.Contact)
}

type VerifyCodeRequest struct {
	Code string `json:"code" validate:"required,otp"`
}

func (r *VerifyCodeRequest) Sanitize() {
	s.TrimStrings(&r.Code)
}

func (r *VerifyCodeRequest) Validate() error {
	if !ValidCodeFormat(r.Code) {
		return dErrors.New(dErrors.CodeValidation, "code must be exactly six digits")
	}
	return nil
}

type CodeIssued struct {
	ExpiresAt time.Time `json:"expires_at"`
}

// DeletionResult reports each ledger separately; the two soft-deletes are not atomic.
type DeletionResult struct {
	PreferencesDeleted bool `json:"preferences_deleted"`
	ContextDeleted     bool `json:"context_deleted"`
}
