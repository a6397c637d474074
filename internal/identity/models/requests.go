package models

import (
	"time"

	s "consentvault/pkg/string"
)

type RegisterRequest struct {
	Name     string `json:"name" validate:"required,notblank,max=100"`
	Contact  string `json:"contact" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

func (r *RegisterRequest) Sanitize() {
	s.TrimStrings(&r.Name, &r.Contact)
}

type AuthenticateRequest struct {
	Contact  string `json:"contact" validate:"required,max=255"`
	Password string `json:"password" validate:"required,max=72"`
}

func (r *AuthenticateRequest) Sanitize() {
	s.TrimStrings(&r.Contact)
}

// RegisterResult is returned once, at registration. It is the only response
// that carries the unmasked consent key.
type RegisterResult struct {
	Identity   *View  `json:"identity"`
	ConsentKey string `json:"consent_key"`
}

type AuthenticateResult struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}
