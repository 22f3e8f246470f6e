package middleware

import (
	"context"

	appCtx "github.com/baechuer/company-registry/internal/pkg/context"
)

// WithUser records the authenticated caller on ctx.
func WithUser(ctx context.Context, userID, email string) context.Context {
	return appCtx.WithSubject(ctx, appCtx.Subject{UserID: userID, Email: email})
}

func UserIDFromContext(ctx context.Context) (string, bool) {
	s, ok := appCtx.SubjectFrom(ctx)
	return s.UserID, ok
}
