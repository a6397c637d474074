package models

import (
	"strings"
	"time"

	id "consentvault/pkg/domain"
	dErrors "consentvault/pkg/domain-errors"
)

type Purpose string

const (
	PurposeGDPRJurisdiction Purpose = "gdpr-jurisdiction"
	PurposeConsentLogging   Purpose = "consent-logging"
	PurposeSecurity         Purpose = "security"
)

func (p Purpose) IsValid() bool {
	switch p {
	case PurposeGDPRJurisdiction, PurposeConsentLogging, PurposeSecurity:
		return true
	}
	return false
}

type ConsentStatus string

const (
	StatusAccepted      ConsentStatus = "accepted"
	StatusRejected      ConsentStatus = "rejected"
	StatusNotApplicable ConsentStatus = "not-applicable"
)

func (s ConsentStatus) IsValid() bool {
	switch s {
	case StatusAccepted, StatusRejected, StatusNotApplicable:
		return true
	}
	return false
}

// Placeholders stored when the geolocation lookup cannot fill a field.
const (
	UnknownISP     = "Unknown ISP"
	UnknownCity    = "Unknown City"
	UnknownRegion  = "Unknown Region"
	UnknownCountry = "Unknown Country"
)

type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Valid reports whether both values fall inside the geographic range.
func (c Coordinates) Valid() bool {
	return c.Latitude >= -90 && c.Latitude <= 90 && c.Longitude >= -180 && c.Longitude <= 180
}

// Geo is a geography/ISP snapshot for one network address.
type Geo struct {
	ISP         string
	City        string
	Region      string
	Country     string
	Coordinates *Coordinates
}

// UnknownGeo is the fully degraded snapshot.
func UnknownGeo() Geo {
	return Geo{ISP: UnknownISP, City: UnknownCity, Region: UnknownRegion, Country: UnknownCountry}
}

// Normalized fills blanks with placeholders and drops out-of-range coordinates.
func (g Geo) Normalized() Geo {
	out := Geo{
		ISP:     orDefault(g.ISP, UnknownISP),
		City:    orDefault(g.City, UnknownCity),
		Region:  orDefault(g.Region, UnknownRegion),
		Country: orDefault(g.Country, UnknownCountry),
	}
	if g.Coordinates != nil && g.Coordinates.Valid() {
		c := *g.Coordinates
		out.Coordinates = &c
	}
	return out
}

func orDefault(v, def string) string {
	if v = strings.TrimSpace(v); v == "" {
		return def
	}
	return v
}

// Context is the processing-context record for one consent key.
type Context struct {
	ConsentKey  id.ConsentKey `json:"-"`
	IPAddress   string        `json:"ip_address"`
	ISP         string        `json:"isp"`
	City        string        `json:"city"`
	Region      string        `json:"region"`
	Country     string        `json:"country"`
	Coordinates *Coordinates  `json:"coordinates,omitempty"`
	Purpose     Purpose       `json:"purpose"`
	Status      ConsentStatus `json:"consent_status"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
	DeletedAt   *time.Time    `json:"deleted_at,omitempty"`
	PurgeAt     *time.Time    `json:"purge_at,omitempty"`
}

// NewAcceptedContext builds the consent-logging record written when a
// qualifying purpose is accepted.
func NewAcceptedContext(key id.ConsentKey, ip string, geo Geo, now time.Time) (*Context, error) {
	geo = geo.Normalized()
	c := &Context{
		ConsentKey:  key,
		IPAddress:   ip,
		ISP:         geo.ISP,
		City:        geo.City,
		Region:      geo.Region,
		Country:     geo.Country,
		Coordinates: geo.Coordinates,
		Purpose:     PurposeConsentLogging,
		Status:      StatusAccepted,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Context) IsDeleted() bool {
	return c.DeletedAt != nil
}

// Validate checks the record invariants. An active consent-logging record
// cannot carry a rejected status.
func (c *Context) Validate() error {
	if c.ConsentKey.IsNil() {
		return dErrors.New(dErrors.CodeInvariantViolation, "consent key required")
	}
	if !c.Purpose.IsValid() {
		return dErrors.New(dErrors.CodeInvariantViolation, "unknown processing purpose")
	}
	if !c.Status.IsValid() {
		return dErrors.New(dErrors.CodeInvariantViolation, "unknown consent status")
	}
	if c.Purpose == PurposeConsentLogging && c.Status == StatusRejected && c.DeletedAt == nil {
		return dErrors.New(dErrors.CodeInvariantViolation, "active consent-logging record cannot be rejected")
	}
	return nil
}

// Withdraw rejects the record and fixes its purge time. A record that is
// already withdrawn is left untouched and Withdraw reports false. A purge
// time set by an earlier withdrawal is kept: re-acceptance never extends it.
func (c *Context) Withdraw(at time.Time, grace time.Duration) bool {
	if c.DeletedAt != nil {
		return false
	}
	deletedAt := at
	c.Status = StatusRejected
	c.DeletedAt = &deletedAt
	if c.PurgeAt == nil {
		purgeAt := at.Add(grace)
		c.PurgeAt = &purgeAt
	}
	c.UpdatedAt = at
	return true
}

// Reaccept refreshes a record from an accepted snapshot. Creation time and
// any purge schedule survive; only a record recreated after a purge starts
// over.
func (c *Context) Reaccept(next *Context) {
	createdAt, purgeAt := c.CreatedAt, c.PurgeAt
	*c = *next
	c.CreatedAt = createdAt
	c.DeletedAt = nil
	c.PurgeAt = purgeAt
}
