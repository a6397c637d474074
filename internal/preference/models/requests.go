package models

// SetRequest replaces the caller's preferences. Omitted purposes are false.
// StrictlyNecessary is accepted for compatibility and ignored.
type SetRequest struct {
	StrictlyNecessary *bool `json:"strictly_necessary,omitempty"`
	Performance       *bool `json:"performance,omitempty"`
	Functional        *bool `json:"functional,omitempty"`
	Advertising       *bool `json:"advertising,omitempty"`
	SocialMedia       *bool `json:"social_media,omitempty"`
}

func (r *SetRequest) Purposes() Purposes {
	return Purposes{
		Performance: deref(r.Performance),
		Functional:  deref(r.Functional),
		Advertising: deref(r.Advertising),
		SocialMedia: deref(r.SocialMedia),
	}
}

func deref(b *bool) bool {
	return b != nil && *b
}
