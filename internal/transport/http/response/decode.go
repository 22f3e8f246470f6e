package response

import (
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"

	"github.com/baechuer/company-registry/internal/domain"
)

// MaxJSONBody bounds request bodies read by DecodeJSON.
const MaxJSONBody = 1 << 20

var (
	errEmptyBody      = errors.New("empty body")
	errBodyTooLarge   = errors.New("body exceeds 1 MiB")
	errTrailingData   = errors.New("multiple JSON values")
	errNotJSONContent = errors.New("content type is not application/json")
)

// DecodeJSON strictly decodes a single JSON object into dst: unknown fields,
// trailing values, bodies over MaxJSONBody and non-JSON content types are all invalid_json.
// A missing Content-Type header is tolerated.
func DecodeJSON(r *http.Request, dst any) error {
	if ct := r.Header.Get("Content-Type"); ct != "" {
		if mt, _, err := mime.ParseMediaType(ct); err != nil || mt != "application/json" {
			return domain.ErrInvalidJSON(errNotJSONContent)
		}
	}
	if r.Body == nil || r.Body == http.NoBody {
		return domain.ErrInvalidJSON(errEmptyBody)
	}

	lr := &io.LimitedReader{R: r.Body, N: MaxJSONBody + 1}
	dec := json.NewDecoder(lr)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		if lr.N <= 0 {
			return domain.ErrInvalidJSON(errBodyTooLarge)
		}
		if errors.Is(err, io.EOF) {
			return domain.ErrInvalidJSON(errEmptyBody)
		}
		return domain.ErrInvalidJSON(err)
	}

	switch err := dec.Decode(&struct{}{}); {
	case errors.Is(err, io.EOF):
		return nil
	case lr.N <= 0:
		return domain.ErrInvalidJSON(errBodyTooLarge)
	case err != nil:
		return domain.ErrInvalidJSON(err)
	default:
		return domain.ErrInvalidJSON(errTrailingData)
	}
}
