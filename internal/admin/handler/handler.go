package handler

//go:generate mockgen -source=handler.go -destination=mocks/mocks.go -package=mocks

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"consentvault/internal/admin/models"
	secmodels "consentvault/internal/security/models"
	id "consentvault/pkg/domain"
	dErrors "consentvault/pkg/domain-errors"
	"consentvault/pkg/platform/httputil"
	"consentvault/pkg/requestcontext"
)

// Service defines the administrator operations exposed over HTTP.
type Service interface {
	Login(ctx context.Context, req *models.LoginRequest) (*models.LoginResult, error)
	Logout(ctx context.Context, adminID id.AdminID) error
	ListRecords(ctx context.Context, adminID id.AdminID) ([]*models.Record, error)
	GetRecord(ctx context.Context, adminID id.AdminID, key id.ConsentKey) (*models.Record, error)
	SoftDeleteRecord(ctx context.Context, adminID id.AdminID, key id.ConsentKey) (*models.SoftDeleteResult, error)
	ListSecurityEvents(ctx context.Context, adminID id.AdminID, limit int) ([]*secmodels.Event, error)
}

type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts the login route, which needs no session.
func (h *Handler) Register(r chi.Router) {
	r.Post("/api/admin/login", h.HandleLogin)
}

// RegisterAuthenticated mounts routes that expect the admin middleware upstream.
func (h *Handler) RegisterAuthenticated(r chi.Router) {
	r.Post("/api/admin/logout", h.HandleLogout)
	r.Get("/api/admin/records", h.HandleListRecords)
	r.Get("/api/admin/records/{consentKey}", h.HandleGetRecord)
	r.Delete("/api/admin/records/{consentKey}", h.HandleSoftDeleteRecord)
	r.Get("/api/admin/security-events", h.HandleListSecurityEvents)
}

// HandleLogin implements POST /api/admin/login.
//
// Input: { "login": "root", "password": "..." }
// Output: 200 { "token": "...", "expires_at": "..." }
func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[models.LoginRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	res, err := h.service.Login(ctx, req)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, res)
}

func (h *Handler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	adminID, err := httputil.RequireAdmin(ctx, h.logger, requestID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if err := h.service.Logout(ctx, adminID); err != nil {
		h.logger.ErrorContext(ctx, "admin logout failed", "error", err, "request_id", requestID)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "logged_out"})
}

func (h *Handler) HandleListRecords(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	adminID, err := httputil.RequireAdmin(ctx, h.logger, requestID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	records, err := h.service.ListRecords(ctx, adminID)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list records", "error", err, "request_id", requestID)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"records": records,
		"total":   len(records),
	})
}

func (h *Handler) HandleGetRecord(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	adminID, key, ok := h.adminAndKey(w, r)
	if !ok {
		return
	}
	record, err := h.service.GetRecord(ctx, adminID, key)
	if err != nil {
		h.logger.WarnContext(ctx, "failed to get record", "error", err, "request_id", requestID)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, record)
}

func (h *Handler) HandleSoftDeleteRecord(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	adminID, key, ok := h.adminAndKey(w, r)
	if !ok {
		return
	}
	result, err := h.service.SoftDeleteRecord(ctx, adminID, key)
	if err != nil {
		h.logger.WarnContext(ctx, "failed to soft delete record", "error", err, "request_id", requestID)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, result)
}

// HandleListSecurityEvents implements GET /api/admin/security-events?limit=N.
func (h *Handler) HandleListSecurityEvents(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	adminID, err := httputil.RequireAdmin(ctx, h.logger, requestID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil || limit < 0 {
			httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "limit must be a non-negative integer"))
			return
		}
	}

	events, err := h.service.ListSecurityEvents(ctx, adminID, limit)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list security events", "error", err, "request_id", requestID)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"events": events,
		"total":  len(events),
	})
}

func (h *Handler) adminAndKey(w http.ResponseWriter, r *http.Request) (id.AdminID, id.ConsentKey, bool) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	adminID, err := httputil.RequireAdmin(ctx, h.logger, requestID)
	if err != nil {
		httputil.WriteError(w, err)
		return id.AdminID{}, "", false
	}
	key, err := id.ParseConsentKey(chi.URLParam(r, "consentKey"))
	if err != nil {
		httputil.WriteError(w, err)
		return id.AdminID{}, "", false
	}
	return adminID, key, true
}
