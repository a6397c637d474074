package handler

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"consentvault/internal/admin/handler/mocks"
	"consentvault/internal/admin/models"
	"consentvault/internal/admin/store"
	jwttoken "consentvault/internal/jwt_token"
	secmodels "consentvault/internal/security/models"
	id "consentvault/pkg/domain"
	dErrors "consentvault/pkg/domain-errors"
	"consentvault/pkg/platform/middleware/auth"
	"consentvault/pkg/requestcontext"
	"consentvault/pkg/testutil"
)

var ids = testutil.TestIDs

type HandlerSuite struct {
	suite.Suite
	ctrl        *gomock.Controller
	svc         *mocks.MockService
	tokens      *jwttoken.JWTService
	revocations *store.InMemoryRevocationList
	router      *chi.Mux
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerSuite))
}

func (s *HandlerSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.svc = mocks.NewMockService(s.ctrl)
	s.tokens = jwttoken.NewJWTService("test-signing-key", "consentvault", "consentvault-api", time.Hour, time.Hour)
	s.revocations = store.NewInMemoryRevocationList()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := New(s.svc, logger)
	s.router = chi.NewRouter()
	h.Register(s.router)
	s.router.Group(func(r chi.Router) {
		r.Use(auth.RequireAdmin(jwttoken.NewJWTServiceAdapter(s.tokens), s.revocations, logger))
		h.RegisterAuthenticated(r)
	})
}

func (s *HandlerSuite) adminToken(at time.Time) string {
	issued, err := s.tokens.IssueAdminToken(requestcontext.WithTime(context.Background(), at), ids.AdminID1)
	s.Require().NoError(err)
	return issued.Value
}

func (s *HandlerSuite) do(method, path, token, body string) (*httptest.ResponseRecorder, map[string]any) {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	s.router.ServeHTTP(rr, req)

	var decoded map[string]any
	_ = json.Unmarshal(rr.Body.Bytes(), &decoded)
	return rr, decoded
}

func (s *HandlerSuite) TestLogin() {
	s.Run("200 with token", func() {
		expiresAt := time.Date(2026, 5, 1, 11, 0, 0, 0, time.UTC)
		s.svc.EXPECT().Login(gomock.Any(), &models.LoginRequest{Login: "root", Password: "correct-horse"}).
			Return(&models.LoginResult{Token: "signed", ExpiresAt: expiresAt}, nil)

		rr, body := s.do(http.MethodPost, "/api/admin/login", "", `{"login":" root ","password":"correct-horse"}`)
		s.Equal(http.StatusOK, rr.Code)
		s.Equal("signed", body["token"])
	})

	s.Run("400 when fields are missing", func() {
		rr, _ := s.do(http.MethodPost, "/api/admin/login", "", `{"login":"root"}`)
		s.Equal(http.StatusBadRequest, rr.Code)
	})

	s.Run("401 on bad credentials", func() {
		s.svc.EXPECT().Login(gomock.Any(), gomock.Any()).Return(nil, dErrors.New(dErrors.CodeUnauthorized, "invalid credentials"))

		rr, body := s.do(http.MethodPost, "/api/admin/login", "", `{"login":"root","password":"nope"}`)
		s.Equal(http.StatusUnauthorized, rr.Code)
		s.Equal("unauthorized", body["error"])
	})
}

func (s *HandlerSuite) TestListRecordsRequiresSession() {
	s.svc.EXPECT().ListRecords(gomock.Any(), gomock.Any()).Times(0)

	rr, _ := s.do(http.MethodGet, "/api/admin/records", "", "")
	s.Equal(http.StatusUnauthorized, rr.Code)

	rr, body := s.do(http.MethodGet, "/api/admin/records", "garbage", "")
	s.Equal(http.StatusForbidden, rr.Code)
	s.Equal("forbidden", body["error"])
}

func (s *HandlerSuite) TestExpiredSessionIsForbiddenBeforeAnyWork() {
	s.svc.EXPECT().ListRecords(gomock.Any(), gomock.Any()).Times(0)

	expired := s.adminToken(time.Now().Add(-2 * time.Hour))
	rr, body := s.do(http.MethodGet, "/api/admin/records", expired, "")
	s.Equal(http.StatusForbidden, rr.Code)
	s.Equal("Invalid or expired session", body["error_description"])
}

func (s *HandlerSuite) TestUserTokenIsForbidden() {
	s.svc.EXPECT().ListRecords(gomock.Any(), gomock.Any()).Times(0)

	issued, err := s.tokens.IssueUserToken(context.Background(), ids.IdentityID1, ids.ConsentKey1)
	s.Require().NoError(err)
	rr, _ := s.do(http.MethodGet, "/api/admin/records", issued.Value, "")
	s.Equal(http.StatusForbidden, rr.Code)
}

func (s *HandlerSuite) TestListRecords() {
	s.svc.EXPECT().ListRecords(gomock.Any(), ids.AdminID1).Return([]*models.Record{
		{ConsentKey: "K1abcdef"},
		{ConsentKey: "K2ghijkl"},
	}, nil)

	rr, body := s.do(http.MethodGet, "/api/admin/records", s.adminToken(time.Now()), "")
	s.Equal(http.StatusOK, rr.Code)
	s.Equal(float64(2), body["total"])
}

func (s *HandlerSuite) TestListRecordsAuditFailureIs500() {
	s.svc.EXPECT().ListRecords(gomock.Any(), gomock.Any()).
		Return(nil, dErrors.New(dErrors.CodeAuditWriteFailed, "audit write failed"))

	rr, body := s.do(http.MethodGet, "/api/admin/records", s.adminToken(time.Now()), "")
	s.Equal(http.StatusInternalServerError, rr.Code)
	s.Nil(body["records"])
}

func (s *HandlerSuite) TestGetRecord() {
	s.Run("200", func() {
		s.svc.EXPECT().GetRecord(gomock.Any(), ids.AdminID1, id.ConsentKey("K1abcdef")).
			Return(&models.Record{ConsentKey: "K1abcdef"}, nil)

		rr, body := s.do(http.MethodGet, "/api/admin/records/K1abcdef", s.adminToken(time.Now()), "")
		s.Equal(http.StatusOK, rr.Code)
		s.Equal("K1abcdef", body["consent_key"])
	})

	s.Run("400 on malformed key", func() {
		rr, _ := s.do(http.MethodGet, "/api/admin/records/short", s.adminToken(time.Now()), "")
		s.Equal(http.StatusBadRequest, rr.Code)
	})

	s.Run("404 on unknown key", func() {
		s.svc.EXPECT().GetRecord(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil, dErrors.New(dErrors.CodeNotFound, "no records for consent key"))

		rr, _ := s.do(http.MethodGet, "/api/admin/records/K9zzzzzz", s.adminToken(time.Now()), "")
		s.Equal(http.StatusNotFound, rr.Code)
	})
}

func (s *HandlerSuite) TestSoftDeleteRecord() {
	s.svc.EXPECT().SoftDeleteRecord(gomock.Any(), ids.AdminID1, id.ConsentKey("K1abcdef")).
		Return(&models.SoftDeleteResult{IdentityDeleted: true, PreferencesDeleted: true, ContextDeleted: true}, nil)

	rr, body := s.do(http.MethodDelete, "/api/admin/records/K1abcdef", s.adminToken(time.Now()), "")
	s.Equal(http.StatusOK, rr.Code)
	s.Equal(true, body["identity_deleted"])
}

func (s *HandlerSuite) TestListSecurityEvents() {
	s.Run("passes the limit through", func() {
		s.svc.EXPECT().ListSecurityEvents(gomock.Any(), ids.AdminID1, 5).
			Return([]*secmodels.Event{{Type: secmodels.EventAdminLoginFailed}}, nil)

		rr, body := s.do(http.MethodGet, "/api/admin/security-events?limit=5", s.adminToken(time.Now()), "")
		s.Equal(http.StatusOK, rr.Code)
		s.Equal(float64(1), body["total"])
	})

	s.Run("400 on bad limit", func() {
		rr, _ := s.do(http.MethodGet, "/api/admin/security-events?limit=abc", s.adminToken(time.Now()), "")
		s.Equal(http.StatusBadRequest, rr.Code)
	})
}

func (s *HandlerSuite) TestLogoutThenTokenIsForbidden() {
	token := s.adminToken(time.Now())
	s.svc.EXPECT().Logout(gomock.Any(), ids.AdminID1).DoAndReturn(func(ctx context.Context, _ id.AdminID) error {
		return s.revocations.RevokeToken(ctx, requestcontext.TokenJTI(ctx), time.Until(requestcontext.TokenExpiry(ctx)))
	})
	s.svc.EXPECT().ListRecords(gomock.Any(), gomock.Any()).Times(0)

	rr, _ := s.do(http.MethodPost, "/api/admin/logout", token, "")
	s.Require().Equal(http.StatusOK, rr.Code)

	rr, _ = s.do(http.MethodGet, "/api/admin/records", token, "")
	s.Equal(http.StatusForbidden, rr.Code)
}
