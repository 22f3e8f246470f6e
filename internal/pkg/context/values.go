// Package context carries request-scoped values shared by transport, logging and messaging.
package context

import "context"

type key int

const (
	requestIDKey key = iota
	subjectKey
)

// Subject is the authenticated caller of a request.
type Subject struct {
	UserID string
	Email  string
}

func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestID reports the id set for this request; ok is false when absent or blank.
func RequestID(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	id, ok := ctx.Value(requestIDKey).(string)
	return id, ok && id != ""
}

// GetRequestID is RequestID without the presence flag.
func GetRequestID(ctx context.Context) string {
	id, _ := RequestID(ctx)
	return id
}

func WithSubject(ctx context.Context, s Subject) context.Context {
	return context.WithValue(ctx, subjectKey, s)
}

// SubjectFrom returns the caller stored by the auth middleware. A subject without a user id counts as absent.
func SubjectFrom(ctx context.Context) (Subject, bool) {
	if ctx == nil {
		return Subject{}, false
	}
	s, ok := ctx.Value(subjectKey).(Subject)
	return s, ok && s.UserID != ""
}
