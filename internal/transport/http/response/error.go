package response

import (
	"net/http"

	"github.com/baechuer/company-registry/internal/domain"
	"github.com/baechuer/company-registry/internal/logger"
)

type ErrorBody struct {
	Error ErrorPayload `json:"error"`
}

type ErrorPayload struct {
	Code      string            `json:"code"`
	Message   string            `json:"message"`
	Meta      map[string]string `json:"meta,omitempty"`
	RequestID string            `json:"request_id,omitempty"`
}

var kindStatus = map[domain.ErrKind]int{
	domain.KindValidation:     http.StatusBadRequest,
	domain.KindAuth:           http.StatusUnauthorized,
	domain.KindNotFound:       http.StatusNotFound,
	domain.KindConflict:       http.StatusConflict,
	domain.KindRateLimited:    http.StatusTooManyRequests,
	domain.KindInfrastructure: http.StatusInternalServerError,
	domain.KindInternal:       http.StatusInternalServerError,
}

// Status is the HTTP status WriteError would use for err.
func Status(err error) int {
	if s, ok := kindStatus[domain.KindOf(err)]; ok {
		return s
	}
	return http.StatusInternalServerError
}

// WriteError renders err as {"error":{...}}. Client-facing domain errors expose
// their code, message and meta. Every 5xx, including store and broker outages,
// becomes a bare internal_error and is logged with its real code and cause.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	status := Status(err)
	payload := ErrorPayload{
		Code:      "internal_error",
		Message:   "internal error",
		RequestID: RequestIDFromContext(r),
	}
	de, isDomain := domain.As(err)
	if isDomain && status < http.StatusInternalServerError {
		payload.Code, payload.Message, payload.Meta = de.Code, de.Message, de.Meta
	}

	if status >= http.StatusInternalServerError {
		code := payload.Code
		if isDomain {
			code = de.Code
		}
		logger.WithCtx(r.Context()).Error().
			Err(err).
			Str("code", code).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Msg("request failed")
	}

	w.Header().Set("Content-Type", contentTypeJSON)
	writeJSON(w, status, ErrorBody{Error: payload})
}
