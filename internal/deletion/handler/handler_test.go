package handler

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"consentvault/internal/deletion/handler/mocks"
	"consentvault/internal/deletion/models"
	dErrors "consentvault/pkg/domain-errors"
	"consentvault/pkg/requestcontext"
	"consentvault/pkg/testutil"
)

var ids = testutil.TestIDs

func newRouter(t *testing.T, authenticated bool) (*mocks.MockService, *chi.Mux) {
	ctrl := gomock.NewController(t)
	svc := mocks.NewMockService(ctrl)
	h := New(svc, slog.New(slog.NewTextHandler(io.Discard, nil)))

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			ctx := req.Context()
			if authenticated {
				ctx = requestcontext.WithIdentity(ctx, ids.IdentityID1, ids.ConsentKey1)
			}
			next.ServeHTTP(w, req.WithContext(ctx))
		})
	})
	h.Register(r)
	return svc, r
}

func post(router http.Handler, path, body string) (*httptest.ResponseRecorder, map[string]any) {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	var decoded map[string]any
	_ = json.Unmarshal(rr.Body.Bytes(), &decoded)
	return rr, decoded
}

func TestHandleRequestCode(t *testing.T) {
	t.Run("202 with expiry", func(t *testing.T) {
		svc, router := newRouter(t, true)
		expiresAt := time.Date(2026, 4, 1, 9, 5, 0, 0, time.UTC)
		svc.EXPECT().
			RequestCode(gomock.Any(), ids.IdentityID1, ids.ConsentKey1, &models.RequestCodeRequest{Contact: "ada@example.com"}).
			Return(&models.CodeIssued{ExpiresAt: expiresAt}, nil)

		rr, body := post(router, "/api/deletion/code", `{"contact":" ada@example.com "}`)
		assert.Equal(t, http.StatusAccepted, rr.Code)
		assert.Equal(t, "2026-04-01T09:05:00Z", body["expires_at"])
	})

	t.Run("400 on invalid contact", func(t *testing.T) {
		svc, router := newRouter(t, true)
		svc.EXPECT().RequestCode(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

		rr, body := post(router, "/api/deletion/code", `{"contact":"not-an-email"}`)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Equal(t, "validation_error", body["error"])
	})

	t.Run("409 when contact does not match", func(t *testing.T) {
		svc, router := newRouter(t, true)
		svc.EXPECT().RequestCode(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil, dErrors.New(dErrors.CodeNoContactOnFile, "no matching contact on file"))

		rr, body := post(router, "/api/deletion/code", `{"contact":"bob@example.com"}`)
		assert.Equal(t, http.StatusConflict, rr.Code)
		assert.Equal(t, "no_contact_on_file", body["error"])
	})

	t.Run("429 when throttled", func(t *testing.T) {
		svc, router := newRouter(t, true)
		svc.EXPECT().RequestCode(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil, dErrors.New(dErrors.CodeTooManyRequests, "too many code requests"))

		rr, _ := post(router, "/api/deletion/code", `{"contact":"ada@example.com"}`)
		assert.Equal(t, http.StatusTooManyRequests, rr.Code)
	})

	t.Run("502 when delivery fails", func(t *testing.T) {
		svc, router := newRouter(t, true)
		svc.EXPECT().RequestCode(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil, dErrors.New(dErrors.CodeUpstreamFatal, "code delivery failed"))

		rr, _ := post(router, "/api/deletion/code", `{"contact":"ada@example.com"}`)
		assert.Equal(t, http.StatusBadGateway, rr.Code)
	})

	t.Run("500 without identity in context", func(t *testing.T) {
		svc, router := newRouter(t, false)
		svc.EXPECT().RequestCode(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

		rr, _ := post(router, "/api/deletion/code", `{"contact":"ada@example.com"}`)
		assert.Equal(t, http.StatusInternalServerError, rr.Code)
	})
}

func TestHandleVerifyCode(t *testing.T) {
	t.Run("200 with per-ledger result", func(t *testing.T) {
		svc, router := newRouter(t, true)
		svc.EXPECT().VerifyCode(gomock.Any(), ids.IdentityID1, &models.VerifyCodeRequest{Code: "123456"}).
			Return(&models.DeletionResult{PreferencesDeleted: true, ContextDeleted: true}, nil)

		rr, body := post(router, "/api/deletion/verify", `{"code":"123456"}`)
		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, true, body["preferences_deleted"])
		assert.Equal(t, true, body["context_deleted"])
	})

	t.Run("400 on malformed code without calling service", func(t *testing.T) {
		svc, router := newRouter(t, true)
		svc.EXPECT().VerifyCode(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

		rr, _ := post(router, "/api/deletion/verify", `{"code":"12ab56"}`)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	cases := []struct {
		name   string
		code   dErrors.Code
		status int
		errKey string
	}{
		{"no code requested", dErrors.CodeNoCodeRequested, http.StatusNotFound, "no_code_requested"},
		{"expired", dErrors.CodeCodeExpired, http.StatusGone, "code_expired"},
		{"mismatch", dErrors.CodeCodeMismatch, http.StatusForbidden, "code_mismatch"},
		{"audit failure", dErrors.CodeAuditWriteFailed, http.StatusInternalServerError, "internal_error"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc, router := newRouter(t, true)
			svc.EXPECT().VerifyCode(gomock.Any(), gomock.Any(), gomock.Any()).
				Return(nil, dErrors.New(tc.code, "failed"))

			rr, body := post(router, "/api/deletion/verify", `{"code":"123456"}`)
			assert.Equal(t, tc.status, rr.Code)
			assert.Equal(t, tc.errKey, body["error"])
		})
	}
}

func TestRoutesRequireIdentityFromMiddleware(t *testing.T) {
	svc, router := newRouter(t, false)
	svc.EXPECT().VerifyCode(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	rr, _ := post(router, "/api/deletion/verify", `{"code":"123456"}`)
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}
