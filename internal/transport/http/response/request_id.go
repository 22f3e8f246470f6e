package response

import (
	"net/http"

	appCtx "github.com/baechuer/company-registry/internal/pkg/context"
)

// RequestIDFromContext returns the id set by the RequestID middleware, if any.
func RequestIDFromContext(r *http.Request) string {
	return appCtx.GetRequestID(r.Context())
}
