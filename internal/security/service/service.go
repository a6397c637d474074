package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mssola/useragent"

	"consentvault/internal/platform/metrics"
	"consentvault/internal/security/models"
	id "consentvault/pkg/domain"
	dErrors "consentvault/pkg/domain-errors"
	"consentvault/pkg/platform/privacy"
	"consentvault/pkg/requestcontext"
)

// Store is the append-only persistence for security events.
type Store interface {
	Append(ctx context.Context, event *models.Event) error
	ListRecent(ctx context.Context, limit int) ([]*models.Event, error)
}

const (
	defaultHorizon   = 30 * 24 * time.Hour
	defaultListLimit = 100
	maxListLimit     = 1000
	writeTimeout     = time.Second
)

type Option func(*Service)

// Service records security events. Writes are best-effort: a failure is
// logged and counted but never returned to the caller.
type Service struct {
	store   Store
	logger  *slog.Logger
	metrics *metrics.Metrics
	policy  privacy.Policy
	horizon time.Duration
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithHorizon sets how long events live before the sweeper purges them.
func WithHorizon(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.horizon = d
		}
	}
}

// WithAnonymization toggles IP truncation before storage.
func WithAnonymization(enabled bool) Option {
	return func(s *Service) {
		s.policy = privacy.Policy{Anonymize: enabled}
	}
}

func New(store Store, opts ...Option) *Service {
	s := &Service{
		store:   store,
		logger:  slog.Default(),
		policy:  privacy.Policy{Anonymize: true},
		horizon: defaultHorizon,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Record appends an event using the client address and user agent carried by ctx.
func (s *Service) Record(ctx context.Context, eventType models.EventType) {
	now := requestcontext.Now(ctx)
	event, err := models.NewEvent(
		id.EventID(uuid.New()),
		eventType,
		s.policy.Apply(requestcontext.ClientIP(ctx)),
		DescribeDevice(requestcontext.UserAgent(ctx)),
		now,
		s.horizon,
	)
	if err != nil {
		s.logger.ErrorContext(ctx, "invalid security event", "error", err, "request_id", requestcontext.RequestID(ctx))
		return
	}

	// The request may already be finishing; the write gets its own short budget.
	writeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), writeTimeout)
	defer cancel()
	if err := s.store.Append(writeCtx, event); err != nil {
		s.logger.WarnContext(ctx, "security event dropped",
			"error", err,
			"event_type", string(eventType),
			"request_id", requestcontext.RequestID(ctx),
		)
		if s.metrics != nil {
			s.metrics.IncrementSecurityEventsDropped()
		}
	}
}

// ListRecent returns the newest events, capped at maxListLimit.
func (s *Service) ListRecent(ctx context.Context, limit int) ([]*models.Event, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	events, err := s.store.ListRecent(ctx, limit)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list security events")
	}
	return events, nil
}

// DescribeDevice reduces a User-Agent to "browser major on os (platform)".
func DescribeDevice(userAgent string) string {
	if strings.TrimSpace(userAgent) == "" {
		return "unknown"
	}
	ua := useragent.New(userAgent)
	if ua.Bot() {
		return "bot"
	}

	browser, version := ua.Browser()
	browser = strings.ToLower(strings.TrimSpace(browser))
	if browser == "" {
		browser = "unknown"
	}
	if major, _, _ := strings.Cut(version, "."); major != "" {
		browser += " " + major
	}

	os := strings.ToLower(strings.TrimSpace(ua.OS()))
	if os == "" {
		os = "unknown"
	}
	platform := "desktop"
	if ua.Mobile() {
		platform = "mobile"
	}
	return fmt.Sprintf("%s on %s (%s)", browser, os, platform)
}
