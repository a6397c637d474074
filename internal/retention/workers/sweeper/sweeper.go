package sweeper

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"consentvault/internal/retention/metrics"
	id "consentvault/pkg/domain"
	"consentvault/pkg/requestcontext"
)

// SecurityEventStore removes events past their own expiry.
type SecurityEventStore interface {
	DeleteExpired(ctx context.Context, now time.Time) (int, error)
}

// ContextStore removes soft-deleted processing contexts whose grace period
// has elapsed, and contexts orphaned by an identity purge.
type ContextStore interface {
	DeletePurgeDue(ctx context.Context, now time.Time) (int, error)
	DeleteByConsentKeys(ctx context.Context, keys []id.ConsentKey) (int, error)
}

// PreferenceStore removes preference records by age and by consent key.
type PreferenceStore interface {
	DeleteCreatedBefore(ctx context.Context, cutoff time.Time) (int, error)
	DeleteByConsentKeys(ctx context.Context, keys []id.ConsentKey) (int, error)
}

// IdentityStore removes identities soft-deleted or idle past their windows
// and reports the consent keys it removed.
type IdentityStore interface {
	DeleteExpired(ctx context.Context, deletedBefore, inactiveBefore time.Time) ([]id.ConsentKey, error)
}

type AuditStore interface {
	DeleteOlderThan(ctx context.Context, before time.Time) (int, error)
}

type OutboxStore interface {
	DeleteProcessedBefore(ctx context.Context, before time.Time) (int64, error)
}

// Policy holds the windows measured back from the sweep time. A zero audit
// or outbox window disables that purge.
type Policy struct {
	PreferenceRetention         time.Duration
	IdentityDeletedRetention    time.Duration
	IdentityInactivityRetention time.Duration
	AuditRetention              time.Duration
	OutboxRetention             time.Duration
}

// Result summarizes the records removed by one sweep.
type Result struct {
	SecurityEvents      int
	Contexts            int
	Preferences         int
	Identities          int
	CascadedPreferences int
	CascadedContexts    int
	AuditRecords        int
	OutboxEntries       int
}

// Total counts every record removed by the sweep.
func (r Result) Total() int {
	return r.SecurityEvents + r.Contexts + r.Preferences + r.Identities +
		r.CascadedPreferences + r.CascadedContexts + r.AuditRecords + r.OutboxEntries
}

const (
	defaultInterval = time.Hour
	ledgerSecurity  = "security_events"
	ledgerContexts  = "processing_contexts"
	ledgerPrefs     = "preferences"
	ledgerIdentity  = "identities"
	ledgerAudit     = "audit_records"
	ledgerOutbox    = "outbox"
)

// ErrSweepInProgress is returned by RunOnce when another sweep is running.
var ErrSweepInProgress = errors.New("retention sweep already in progress")

// Sweeper permanently removes records whose retention window has elapsed.
type Sweeper struct {
	security    SecurityEventStore
	contexts    ContextStore
	preferences PreferenceStore
	identities  IdentityStore
	audit       AuditStore
	outbox      OutboxStore
	policy      Policy
	interval    time.Duration
	logger      *slog.Logger
	metrics     *metrics.Metrics
	tracer      trace.Tracer
	running     atomic.Bool
}

type Option func(*Sweeper)

// WithInterval overrides the sweep interval when greater than zero.
func WithInterval(interval time.Duration) Option {
	return func(s *Sweeper) {
		if interval > 0 {
			s.interval = interval
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Sweeper) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Sweeper) {
		s.metrics = m
	}
}

func WithTracer(t trace.Tracer) Option {
	return func(s *Sweeper) {
		if t != nil {
			s.tracer = t
		}
	}
}

// WithAuditStore enables purging audit records older than the audit window.
func WithAuditStore(store AuditStore) Option {
	return func(s *Sweeper) {
		s.audit = store
	}
}

// WithOutboxStore enables purging exported outbox entries.
func WithOutboxStore(store OutboxStore) Option {
	return func(s *Sweeper) {
		s.outbox = store
	}
}

func New(
	security SecurityEventStore,
	contexts ContextStore,
	preferences PreferenceStore,
	identities IdentityStore,
	policy Policy,
	opts ...Option,
) (*Sweeper, error) {
	if security == nil || contexts == nil || preferences == nil || identities == nil {
		return nil, fmt.Errorf("security, contexts, preferences, and identities stores are required")
	}
	if policy.PreferenceRetention <= 0 || policy.IdentityDeletedRetention <= 0 || policy.IdentityInactivityRetention <= 0 {
		return nil, fmt.Errorf("preference and identity retention windows must be positive")
	}
	s := &Sweeper{
		security:    security,
		contexts:    contexts,
		preferences: preferences,
		identities:  identities,
		policy:      policy,
		interval:    defaultInterval,
		logger:      slog.Default(),
		tracer:      otel.Tracer("consentvault/retention"),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s, nil
}

// Start sweeps periodically until ctx is cancelled.
func (s *Sweeper) Start(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.logger.InfoContext(ctx, "retention sweeper started", "interval", s.interval)
	for {
		select {
		case <-ticker.C:
			res, err := s.RunOnce(ctx)
			switch {
			case errors.Is(err, ErrSweepInProgress):
				s.logger.WarnContext(ctx, "retention sweep skipped, previous sweep still running")
			case err != nil:
				s.logger.ErrorContext(ctx, "retention sweep failed", "error", err)
			case res.Total() > 0:
				s.logger.InfoContext(ctx, "retention sweep completed",
					"security_events", res.SecurityEvents,
					"contexts", res.Contexts+res.CascadedContexts,
					"preferences", res.Preferences+res.CascadedPreferences,
					"identities", res.Identities,
					"audit_records", res.AuditRecords,
					"outbox_entries", res.OutboxEntries,
				)
			}
		case <-ctx.Done():
			s.logger.InfoContext(ctx, "retention sweeper stopped")
			return ctx.Err()
		}
	}
}

// RunOnce performs a single sweep. The independent purges run concurrently;
// a failing purge does not stop the others and all failures are joined.
// Every purge is idempotent, so a sweep that partially failed is safe to
// repeat.
func (s *Sweeper) RunOnce(ctx context.Context) (res Result, err error) {
	if !s.running.CompareAndSwap(false, true) {
		s.countRun("skipped")
		return Result{}, ErrSweepInProgress
	}
	defer s.running.Store(false)

	now := requestcontext.Now(ctx)
	start := time.Now()

	ctx, span := s.tracer.Start(ctx, "retention.sweep",
		trace.WithAttributes(attribute.String("retention.now", now.UTC().Format(time.RFC3339))),
	)
	defer func() {
		span.SetAttributes(attribute.Int("retention.purged", res.Total()))
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	// Each goroutine writes only its own result field and error slot.
	var g errgroup.Group
	var secErr, ctxErr, prefErr, identityErr, cascadeErr, auditErr, outboxErr error

	g.Go(func() error {
		res.SecurityEvents, secErr = s.purge(ctx, ledgerSecurity, func(ctx context.Context) (int, error) {
			return s.security.DeleteExpired(ctx, now)
		})
		return nil
	})
	g.Go(func() error {
		res.Contexts, ctxErr = s.purge(ctx, ledgerContexts, func(ctx context.Context) (int, error) {
			return s.contexts.DeletePurgeDue(ctx, now)
		})
		return nil
	})
	g.Go(func() error {
		cutoff := now.Add(-s.policy.PreferenceRetention)
		res.Preferences, prefErr = s.purge(ctx, ledgerPrefs, func(ctx context.Context) (int, error) {
			return s.preferences.DeleteCreatedBefore(ctx, cutoff)
		})
		return nil
	})
	g.Go(func() error {
		var keys []id.ConsentKey
		res.Identities, identityErr = s.purge(ctx, ledgerIdentity, func(ctx context.Context) (int, error) {
			var err error
			keys, err = s.identities.DeleteExpired(ctx,
				now.Add(-s.policy.IdentityDeletedRetention),
				now.Add(-s.policy.IdentityInactivityRetention),
			)
			return len(keys), err
		})
		if identityErr == nil && len(keys) > 0 {
			res.CascadedPreferences, res.CascadedContexts, cascadeErr = s.cascade(ctx, keys)
		}
		return nil
	})
	if s.audit != nil && s.policy.AuditRetention > 0 {
		g.Go(func() error {
			before := now.Add(-s.policy.AuditRetention)
			res.AuditRecords, auditErr = s.purge(ctx, ledgerAudit, func(ctx context.Context) (int, error) {
				return s.audit.DeleteOlderThan(ctx, before)
			})
			return nil
		})
	}
	if s.outbox != nil && s.policy.OutboxRetention > 0 {
		g.Go(func() error {
			before := now.Add(-s.policy.OutboxRetention)
			res.OutboxEntries, outboxErr = s.purge(ctx, ledgerOutbox, func(ctx context.Context) (int, error) {
				n, err := s.outbox.DeleteProcessedBefore(ctx, before)
				return int(n), err
			})
			return nil
		})
	}
	_ = g.Wait()

	err = errors.Join(secErr, ctxErr, prefErr, identityErr, cascadeErr, auditErr, outboxErr)

	if s.metrics != nil {
		s.metrics.ObserveRunDuration(time.Since(start))
		if err == nil {
			s.metrics.SetLastSuccess(now)
		}
	}
	if err != nil {
		s.countRun("partial")
		return res, err
	}
	s.countRun("ok")
	return res, nil
}

// cascade removes the satellite records of purged identities. Both ledgers
// are attempted even when one fails.
func (s *Sweeper) cascade(ctx context.Context, keys []id.ConsentKey) (int, int, error) {
	prefs, prefErr := s.purge(ctx, ledgerPrefs, func(ctx context.Context) (int, error) {
		return s.preferences.DeleteByConsentKeys(ctx, keys)
	})
	contexts, ctxErr := s.purge(ctx, ledgerContexts, func(ctx context.Context) (int, error) {
		return s.contexts.DeleteByConsentKeys(ctx, keys)
	})
	if prefErr != nil || ctxErr != nil {
		return prefs, contexts, fmt.Errorf("cascade %d purged identities: %w", len(keys), errors.Join(prefErr, ctxErr))
	}
	return prefs, contexts, nil
}

func (s *Sweeper) purge(ctx context.Context, ledger string, fn func(context.Context) (int, error)) (int, error) {
	ctx, span := s.tracer.Start(ctx, "retention.purge",
		trace.WithAttributes(attribute.String("retention.ledger", ledger)),
	)
	defer span.End()

	n, err := fn(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		if s.metrics != nil {
			s.metrics.IncrementPurgeFailures(ledger)
		}
		return 0, fmt.Errorf("purge %s: %w", ledger, err)
	}
	span.SetAttributes(attribute.Int("retention.deleted", n))
	if s.metrics != nil {
		s.metrics.AddPurged(ledger, n)
	}
	return n, nil
}

func (s *Sweeper) countRun(status string) {
	if s.metrics != nil {
		s.metrics.IncrementRuns(status)
	}
}
