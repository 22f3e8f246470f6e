package redis

import (
	"errors"
	"testing"

	"github.com/alicebob/miniredis/v2"

	"github.com/baechuer/company-registry/internal/domain"
)

// newMiniClient starts an in-process redis and a Client pointed at it.
func newMiniClient(t *testing.T) (*miniredis.Miniredis, *Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	c := New(mr.Addr(), "", 0)
	t.Cleanup(func() { _ = c.Close() })
	return mr, c
}

func isMissingField(err error, field string) bool {
	var de *domain.Error
	return errors.As(err, &de) && de.Code == "missing_field" && de.Meta["field"] == field
}
