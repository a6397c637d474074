package httputil

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	id "consentvault/pkg/domain"
	dErrors "consentvault/pkg/domain-errors"
	"consentvault/pkg/requestcontext"
)

func WriteJSON(w http.ResponseWriter, status int, response any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// Headers are already sent, so an encoding error cannot change the status.
	_ = json.NewEncoder(w).Encode(response)
}

// WriteError centralizes domain error translation to HTTP responses.
func WriteError(w http.ResponseWriter, err error) {
	var domainErr *dErrors.Error
	if errors.As(err, &domainErr) {
		status := DomainCodeToHTTPStatus(domainErr.Code)
		response := map[string]string{
			"error": DomainCodeToHTTPCode(domainErr.Code),
		}
		// Internal failures never leak their message.
		if domainErr.Message != "" && status < http.StatusInternalServerError {
			response["error_description"] = domainErr.Message
		}
		WriteJSON(w, status, response)
		return
	}

	WriteJSON(w, http.StatusInternalServerError, map[string]string{
		"error": DomainCodeToHTTPCode(dErrors.CodeInternal),
	})
}

// DomainCodeToHTTPStatus translates domain error codes to HTTP status codes.
func DomainCodeToHTTPStatus(code dErrors.Code) int {
	switch code {
	case dErrors.CodeNotFound, dErrors.CodeNoCodeRequested:
		return http.StatusNotFound
	case dErrors.CodeBadRequest, dErrors.CodeValidation, dErrors.CodeInvalidInput, dErrors.CodeInvariantViolation:
		return http.StatusBadRequest
	case dErrors.CodeConflict, dErrors.CodeNoContactOnFile:
		return http.StatusConflict
	case dErrors.CodeUnauthorized:
		return http.StatusUnauthorized
	case dErrors.CodeForbidden, dErrors.CodeCodeMismatch:
		return http.StatusForbidden
	case dErrors.CodeCodeExpired:
		return http.StatusGone
	case dErrors.CodeTooManyRequests:
		return http.StatusTooManyRequests
	case dErrors.CodeUpstreamFatal:
		return http.StatusBadGateway
	case dErrors.CodeTimeout:
		return http.StatusGatewayTimeout
	case dErrors.CodeAuditWriteFailed, dErrors.CodeInternal, dErrors.CodeUpstreamDegraded:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// DomainCodeToHTTPCode translates domain error codes to the "error" field of the JSON body.
func DomainCodeToHTTPCode(code dErrors.Code) string {
	switch code {
	case dErrors.CodeNotFound:
		return "not_found"
	case dErrors.CodeBadRequest, dErrors.CodeInvalidInput:
		return "bad_request"
	case dErrors.CodeValidation, dErrors.CodeInvariantViolation:
		return "validation_error"
	case dErrors.CodeConflict:
		return "conflict"
	case dErrors.CodeUnauthorized:
		return "unauthorized"
	case dErrors.CodeForbidden:
		return "forbidden"
	case dErrors.CodeTooManyRequests:
		return "too_many_requests"
	case dErrors.CodeUpstreamFatal:
		return "upstream_unavailable"
	case dErrors.CodeTimeout:
		return "timeout"
	case dErrors.CodeNoContactOnFile, dErrors.CodeNoCodeRequested, dErrors.CodeCodeExpired, dErrors.CodeCodeMismatch:
		return string(code)
	default:
		return "internal_error"
	}
}

// RequireIdentity extracts the authenticated identity and consent key from context.
// Handlers behind the user auth middleware call this; a miss means a wiring bug.
func RequireIdentity(ctx context.Context, logger *slog.Logger, requestID string) (id.IdentityID, id.ConsentKey, error) {
	identityID := requestcontext.IdentityID(ctx)
	key := requestcontext.ConsentKey(ctx)
	if identityID.IsNil() || key.IsNil() {
		if logger != nil {
			logger.ErrorContext(ctx, "identity missing from context despite auth middleware",
				"request_id", requestID)
		}
		return id.IdentityID{}, "", dErrors.New(dErrors.CodeInternal, "authentication context error")
	}
	return identityID, key, nil
}

// RequireAdmin extracts the authenticated administrator from context.
func RequireAdmin(ctx context.Context, logger *slog.Logger, requestID string) (id.AdminID, error) {
	adminID := requestcontext.AdminID(ctx)
	if adminID.IsNil() {
		if logger != nil {
			logger.ErrorContext(ctx, "admin missing from context despite admin middleware",
				"request_id", requestID)
		}
		return id.AdminID{}, dErrors.New(dErrors.CodeInternal, "authentication context error")
	}
	return adminID, nil
}
