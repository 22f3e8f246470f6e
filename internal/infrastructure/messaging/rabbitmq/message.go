package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	appCtx "github.com/baechuer/company-registry/internal/pkg/context"
)

// Envelope wraps every payload published by this service.
type Envelope struct {
	EventID    string          `json:"event_id"`
	Type       string          `json:"type"`
	OccurredAt time.Time       `json:"occurred_at"`
	RequestID  string          `json:"request_id,omitempty"`
	Payload    json.RawMessage `json:"payload"`
}

type verifyEmailMessage struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	URL    string `json:"url"`
}

type verifyMobileMessage struct {
	UserID string `json:"user_id"`
	Mobile string `json:"mobile"`
	Code   string `json:"code"`
}

type companyCreatedMessage struct {
	CompanyID string `json:"company_id"`
	OwnerID   string `json:"owner_id"`
	Name      string `json:"name"`
}

func newEnvelope(ctx context.Context, eventType string, payload any, now time.Time) (Envelope, []byte, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return Envelope{}, nil, fmt.Errorf("marshal payload: %w", err)
	}

	env := Envelope{
		EventID:    uuid.NewString(),
		Type:       eventType,
		OccurredAt: now,
		RequestID:  appCtx.GetRequestID(ctx),
		Payload:    raw,
	}
	body, err := json.Marshal(env)
	if err != nil {
		return Envelope{}, nil, fmt.Errorf("marshal envelope: %w", err)
	}
	return env, body, nil
}
