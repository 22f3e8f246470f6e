package memory

import (
	"context"

	"github.com/baechuer/company-registry/internal/application/auth"
	"github.com/baechuer/company-registry/internal/application/company"
	"github.com/baechuer/company-registry/internal/logger"
)

// NoopPublisher logs events instead of sending them; used when RabbitMQ is unavailable in dev.
type NoopPublisher struct{}

func NewNoopPublisher() *NoopPublisher { return &NoopPublisher{} }

func (p *NoopPublisher) PublishVerifyEmail(ctx context.Context, evt auth.VerifyEmailEvent) error {
	logger.WithCtx(ctx).Info().
		Str("user_id", evt.UserID).
		Str("url", evt.URL).
		Msg("[noop-pub] verify email")
	return nil
}

func (p *NoopPublisher) PublishVerifyMobile(ctx context.Context, evt auth.VerifyMobileEvent) error {
	// the code is only ever logged here, in dev, so it can be entered manually
	logger.WithCtx(ctx).Info().
		Str("user_id", evt.UserID).
		Str("code", evt.Code).
		Msg("[noop-pub] verify mobile")
	return nil
}

func (p *NoopPublisher) PublishCompanyCreated(ctx context.Context, evt company.CreatedEvent) error {
	logger.WithCtx(ctx).Info().
		Str("company_id", evt.CompanyID).
		Str("owner_id", evt.OwnerID).
		Msg("[noop-pub] company created")
	return nil
}
