package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"consentvault/internal/security/models"
	"consentvault/internal/security/store"
	"consentvault/pkg/requestcontext"
)

type failingStore struct{}

func (failingStore) Append(context.Context, *models.Event) error {
	return errors.New("connection refused")
}

func (failingStore) ListRecent(context.Context, int) ([]*models.Event, error) {
	return nil, errors.New("connection refused")
}

type ServiceSuite struct {
	suite.Suite
	store   *store.InMemoryStore
	service *Service
	ctx     context.Context
	now     time.Time
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.store = store.NewInMemory()
	s.service = New(s.store,
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		WithHorizon(30*24*time.Hour),
	)
	s.now = time.Date(2026, 5, 4, 10, 0, 0, 0, time.UTC)
	s.ctx = requestcontext.WithTime(context.Background(), s.now)
	s.ctx = requestcontext.WithClientMetadata(s.ctx, "203.0.113.42",
		"Mozilla/5.0 (X11; Linux x86_64; rv:124.0) Gecko/20100101 Firefox/124.0")
}

func (s *ServiceSuite) TestRecordAnonymizesAndSetsHorizon() {
	s.service.Record(s.ctx, models.EventAuthenticationSucceeded)

	events, err := s.service.ListRecent(context.Background(), 10)
	s.Require().NoError(err)
	s.Require().Len(events, 1)
	s.Equal("203.0.113.0", events[0].IPAddress)
	s.Equal(s.now.Add(30*24*time.Hour), events[0].ExpiresAt)
	s.Contains(events[0].Device, "firefox 124")
	s.Contains(events[0].Device, "(desktop)")
}

func (s *ServiceSuite) TestRecordKeepsRawAddressWhenAnonymizationDisabled() {
	svc := New(s.store, WithAnonymization(false))
	svc.Record(s.ctx, models.EventAdminLoginFailed)

	events, _ := s.store.ListRecent(context.Background(), 1)
	s.Require().Len(events, 1)
	s.Equal("203.0.113.42", events[0].IPAddress)
}

func (s *ServiceSuite) TestRecordNeverFails() {
	svc := New(failingStore{}, WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	s.NotPanics(func() { svc.Record(s.ctx, models.EventAuthenticationFailed) })
}

func (s *ServiceSuite) TestListRecentWrapsStoreErrors() {
	svc := New(failingStore{})
	_, err := svc.ListRecent(s.ctx, 5)
	s.Error(err)
}

func (s *ServiceSuite) TestDescribeDevice() {
	s.Equal("unknown", DescribeDevice(""))
	s.Equal("bot", DescribeDevice("Mozilla/5.0 (compatible; Googlebot/2.1; +http://www.google.com/bot.html)"))
	mobile := DescribeDevice("Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.0 Mobile/15E148 Safari/604.1")
	s.Contains(mobile, "(mobile)")
}
