package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"consentvault/internal/audit/models"
	"consentvault/internal/audit/service/mocks"
	"consentvault/internal/audit/store"
	id "consentvault/pkg/domain"
	dErrors "consentvault/pkg/domain-errors"
	"consentvault/pkg/requestcontext"
)

type ServiceSuite struct {
	suite.Suite
	store   *store.InMemoryStore
	service *Service
	ctx     context.Context
	now     time.Time
	admin   id.AdminID
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.store = store.NewInMemory()
	s.service = New(s.store, WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	s.now = time.Date(2026, 6, 1, 8, 30, 0, 0, time.UTC)
	s.ctx = requestcontext.WithTime(context.Background(), s.now)
	s.ctx = requestcontext.WithClientMetadata(s.ctx, "192.0.2.77", "curl/8.0")
	s.ctx = requestcontext.WithRequestID(s.ctx, "req-1")
	s.admin = id.AdminID(uuid.New())
}

func (s *ServiceSuite) TestRecordStoresAnonymizedAddress() {
	s.Require().NoError(s.service.Record(s.ctx, s.admin, models.ActionDataFetch, "K1abcdef", "get record"))

	records, err := s.service.ListRecent(context.Background(), 0)
	s.Require().NoError(err)
	s.Require().Len(records, 1)
	r := records[0]
	s.Equal(s.admin, r.ActorID)
	s.Equal(models.ActionDataFetch, r.Action)
	s.Equal(id.ConsentKey("K1abcdef"), r.ConsentKey)
	s.Equal("192.0.2.0", r.IPAddress)
	s.Equal(s.now, r.OccurredAt)
}

func (s *ServiceSuite) TestRecordRejectsUnknownAction() {
	err := s.service.Record(s.ctx, s.admin, models.Action("export"), "", "")
	s.True(dErrors.HasCode(err, dErrors.CodeInvariantViolation))

	records, _ := s.store.ListRecent(context.Background(), 0)
	s.Empty(records)
}

func (s *ServiceSuite) TestStoreFailureIsAuditWriteFailed() {
	ctrl := gomock.NewController(s.T())
	mockStore := mocks.NewMockStore(ctrl)
	mockStore.EXPECT().Append(gomock.Any(), gomock.Any()).Return(errors.New("disk full"))

	svc := New(mockStore, WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	err := svc.Record(s.ctx, s.admin, models.ActionSoftDelete, "K1abcdef", "")
	s.True(dErrors.HasCode(err, dErrors.CodeAuditWriteFailed))
}

func (s *ServiceSuite) TestListRecentCapsLimit() {
	ctrl := gomock.NewController(s.T())
	mockStore := mocks.NewMockStore(ctrl)
	mockStore.EXPECT().ListRecent(gomock.Any(), maxListLimit).Return(nil, nil)

	_, err := New(mockStore).ListRecent(s.ctx, 50000)
	s.NoError(err)
}
