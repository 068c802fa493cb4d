package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"javis/internal/domain"
	"javis/internal/httputil"
)

// handleError converts domain errors to HTTP responses
func handleError(w http.ResponseWriter, err error) {
	var (
		upstreamErr *domain.UpstreamError
		httpErr     domain.HTTPError
	)

	switch {
	case errors.As(err, &httpErr):
		status := httpErr.StatusCode()
		detail := httpErr.Error()
		// Upstream answers are forwarded verbatim
		if errors.As(err, &upstreamErr) && domain.HTTPError(upstreamErr) == httpErr {
			detail = upstreamErr.Body
		}
		if status >= http.StatusInternalServerError {
			slog.Error("request failed", "status", status, "error", err)
		}
		httputil.RespondError(w, status, detail)
	case errors.Is(err, domain.ErrValidation):
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		httputil.RespondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		httputil.RespondError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, domain.ErrForbidden):
		httputil.RespondError(w, http.StatusForbidden, err.Error())
	default:
		slog.Error("unhandled error", "error", err)
		httputil.RespondError(w, http.StatusInternalServerError, "internal server error")
	}
}

// roomIDParam extracts the room_id path parameter, responding 400 on failure
func roomIDParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := httputil.PathInt64(r, "room_id")
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return 0, false
	}
	return id, true
}

// firstNonNil returns the first non-nil value
func firstNonNil(values ...*string) *string {
	for _, v := range values {
		if v != nil {
			return v
		}
	}
	return nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
