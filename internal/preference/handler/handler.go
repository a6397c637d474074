package handler

//go:generate mockgen -source=handler.go -destination=mocks/mocks.go -package=mocks

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"consentvault/internal/preference/models"
	id "consentvault/pkg/domain"
	"consentvault/pkg/platform/httputil"
	"consentvault/pkg/requestcontext"
)

type Service interface {
	Get(ctx context.Context, key id.ConsentKey) (*models.Preferences, error)
	Set(ctx context.Context, key id.ConsentKey, req *models.SetRequest) (*models.Preferences, error)
}

type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts the preference routes. The user auth middleware must run upstream.
func (h *Handler) Register(r chi.Router) {
	r.Get("/api/preferences", h.HandleGet)
	r.Put("/api/preferences", h.HandleSet)
}

func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	_, key, err := httputil.RequireIdentity(ctx, h.logger, requestID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	prefs, err := h.service.Get(ctx, key)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, prefs)
}

// HandleSet implements PUT /api/preferences. The body fully replaces the
// optional purposes; omitted fields are stored as false.
func (h *Handler) HandleSet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	_, key, err := httputil.RequireIdentity(ctx, h.logger, requestID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	req, ok := httputil.DecodeAndPrepare[models.SetRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	prefs, err := h.service.Set(ctx, key, req)
	if err != nil {
		h.logger.ErrorContext(ctx, "set preferences failed",
			"error", err,
			"request_id", requestID,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, prefs)
}
