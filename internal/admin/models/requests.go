package models

import (
	"time"

	s "consentvault/pkg/string"
)

type LoginRequest struct {
	Login    string `json:"login" validate:"required,notblank,max=64"`
	Password string `json:"password" validate:"required,max=72"`
}

func (r *LoginRequest) Sanitize() {
	s.TrimStrings(&r.Login)
}

type LoginResult struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}
