package handler

//go:generate mockgen -source=handler.go -destination=mocks/mocks.go -package=mocks

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"consentvault/internal/deletion/models"
	id "consentvault/pkg/domain"
	"consentvault/pkg/platform/httputil"
	"consentvault/pkg/requestcontext"
)

type Service interface {
	RequestCode(ctx context.Context, identityID id.IdentityID, key id.ConsentKey, req *models.RequestCodeRequest) (*models.CodeIssued, error)
	VerifyCode(ctx context.Context, identityID id.IdentityID, req *models.VerifyCodeRequest) (*models.DeletionResult, error)
}

type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts the deletion routes. The user auth middleware must run upstream.
func (h *Handler) Register(r chi.Router) {
	r.Post("/api/deletion/code", h.HandleRequestCode)
	r.Post("/api/deletion/verify", h.HandleVerifyCode)
}

// HandleRequestCode implements POST /api/deletion/code.
//
// Input: { "contact": "ada@example.com" }
// Output: 202 { "expires_at": "..." }
func (h *Handler) HandleRequestCode(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	identityID, key, err := httputil.RequireIdentity(ctx, h.logger, requestID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	req, ok := httputil.DecodeAndPrepare[models.RequestCodeRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	issued, err := h.service.RequestCode(ctx, identityID, key, req)
	if err != nil {
		h.logger.WarnContext(ctx, "deletion code request failed",
			"error", err,
			"request_id", requestID,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusAccepted, issued)
}

// HandleVerifyCode implements POST /api/deletion/verify.
//
// Input: { "code": "123456" }
// Output: 200 { "preferences_deleted": true, "context_deleted": true }
func (h *Handler) HandleVerifyCode(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	identityID, _, err := httputil.RequireIdentity(ctx, h.logger, requestID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	req, ok := httputil.DecodeAndPrepare[models.VerifyCodeRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	result, err := h.service.VerifyCode(ctx, identityID, req)
	if err != nil {
		h.logger.WarnContext(ctx, "deletion verification failed",
			"error", err,
			"request_id", requestID,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, result)
}
