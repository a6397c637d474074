package models

import (
	"sort"
	"strings"
	"time"

	identitymodels "consentvault/internal/identity/models"
	prefmodels "consentvault/internal/preference/models"
	procmodels "consentvault/internal/processing/models"
	id "consentvault/pkg/domain"
	dErrors "consentvault/pkg/domain-errors"
)

// Administrator is a privileged operator. It is not subject to consent retention.
type Administrator struct {
	ID           id.AdminID
	Login        string
	PasswordHash []byte
	CreatedAt    time.Time
	LastLogin    *time.Time
}

func NewAdministrator(adminID id.AdminID, login string, passwordHash []byte, now time.Time) (*Administrator, error) {
	if adminID.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "admin id required")
	}
	login = strings.TrimSpace(login)
	if login == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "login required")
	}
	if len(passwordHash) == 0 {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "password hash required")
	}
	return &Administrator{
		ID:           adminID,
		Login:        login,
		PasswordHash: passwordHash,
		CreatedAt:    now,
	}, nil
}

// Record is the consent-key-joined view an administrator reads. Any side may
// be missing: a key can have preferences without a processing context, or
// satellite records that outlived a purged identity.
type Record struct {
	ConsentKey  string                  `json:"consent_key"`
	Identity    *identitymodels.View    `json:"identity,omitempty"`
	Preferences *prefmodels.Preferences `json:"preferences,omitempty"`
	Context     *procmodels.Context     `json:"processing_context,omitempty"`
}

// Aggregate outer-joins the three ledgers on consent key. The result is
// ordered by consent key.
func Aggregate(identities []*identitymodels.Identity, preferences []*prefmodels.Preferences, contexts []*procmodels.Context) []*Record {
	byKey := make(map[id.ConsentKey]*Record)
	get := func(key id.ConsentKey) *Record {
		r, ok := byKey[key]
		if !ok {
			r = &Record{ConsentKey: key.String()}
			byKey[key] = r
		}
		return r
	}

	for _, identity := range identities {
		get(identity.ConsentKey).Identity = identity.View()
	}
	for _, p := range preferences {
		get(p.ConsentKey).Preferences = p
	}
	for _, c := range contexts {
		get(c.ConsentKey).Context = c
	}

	records := make([]*Record, 0, len(byKey))
	for _, r := range byKey {
		records = append(records, r)
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].ConsentKey < records[j].ConsentKey
	})
	return records
}

// NewRecord joins the single-key lookups. It returns nil when every side is absent.
func NewRecord(key id.ConsentKey, identity *identitymodels.Identity, preferences *prefmodels.Preferences, processing *procmodels.Context) *Record {
	if identity == nil && preferences == nil && processing == nil {
		return nil
	}
	r := &Record{ConsentKey: key.String(), Preferences: preferences, Context: processing}
	if identity != nil {
		r.Identity = identity.View()
	}
	return r
}

// SoftDeleteResult reports each step of an administrative deletion.
type SoftDeleteResult struct {
	IdentityDeleted    bool `json:"identity_deleted"`
	PreferencesDeleted bool `json:"preferences_deleted"`
	ContextDeleted     bool `json:"context_deleted"`
}
