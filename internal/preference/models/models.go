package models

import (
	"time"

	id "consentvault/pkg/domain"
)

// Preferences is the per-consent-key purpose ledger. StrictlyNecessary is not
// a stored choice: it is true for every record this package produces.
type Preferences struct {
	ConsentKey        id.ConsentKey `json:"-"`
	StrictlyNecessary bool          `json:"strictly_necessary"`
	Performance       bool          `json:"performance"`
	Functional        bool          `json:"functional"`
	Advertising       bool          `json:"advertising"`
	SocialMedia       bool          `json:"social_media"`
	CreatedAt         time.Time     `json:"created_at"`
	UpdatedAt         time.Time     `json:"updated_at"`
	DeletedAt         *time.Time    `json:"deleted_at,omitempty"`
}

// Purposes are the caller-controlled choices.
type Purposes struct {
	Performance bool
	Functional  bool
	Advertising bool
	SocialMedia bool
}

// NewPreferences builds the record a set operation writes.
func NewPreferences(key id.ConsentKey, p Purposes, now time.Time) *Preferences {
	return &Preferences{
		ConsentKey:        key,
		StrictlyNecessary: true,
		Performance:       p.Performance,
		Functional:        p.Functional,
		Advertising:       p.Advertising,
		SocialMedia:       p.SocialMedia,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
}

// Defaults is what an absent record reads as.
func Defaults(key id.ConsentKey) *Preferences {
	return &Preferences{ConsentKey: key, StrictlyNecessary: true}
}

// Qualifies reports whether the record justifies collecting a processing context.
func (p *Preferences) Qualifies() bool {
	return p.DeletedAt == nil && (p.Performance || p.Functional)
}

func (p *Preferences) IsDeleted() bool {
	return p.DeletedAt != nil
}

// Withdraw forces every optional purpose off and stamps the first deletion time.
// It reports whether anything changed.
func (p *Preferences) Withdraw(at time.Time) bool {
	changed := p.Performance || p.Functional || p.Advertising || p.SocialMedia || p.DeletedAt == nil
	p.StrictlyNecessary = true
	p.Performance = false
	p.Functional = false
	p.Advertising = false
	p.SocialMedia = false
	if p.DeletedAt == nil {
		deletedAt := at
		p.DeletedAt = &deletedAt
		p.UpdatedAt = at
	}
	return changed
}
