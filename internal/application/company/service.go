package company

import (
	"context"
	"strings"

	"github.com/baechuer/company-registry/internal/domain"
	"github.com/baechuer/company-registry/internal/logger"
)

const defaultMaxUploadSize = 5 << 20

type Service struct {
	repo  Repo
	media MediaStore
	pub   EventPublisher

	maxUploadSize int64
	audit         func(action string, fields map[string]string)
}

type Config struct {
	MaxUploadSize int64 // bytes
}

func NewService(repo Repo, media MediaStore, pub EventPublisher, cfg Config) *Service {
	limit := cfg.MaxUploadSize
	if limit <= 0 {
		limit = defaultMaxUploadSize
	}
	return &Service{
		repo:          repo,
		media:         media,
		pub:           pub,
		maxUploadSize: limit,
		audit:         func(string, map[string]string) {},
	}
}

func (s *Service) WithAudit(fn func(action string, fields map[string]string)) *Service {
	if fn != nil {
		s.audit = fn
	}
	return s
}

// MaxUploadSize is the byte limit enforced on logo/banner uploads.
func (s *Service) MaxUploadSize() int64 { return s.maxUploadSize }

func normalizeFields(f domain.CompanyFields) domain.CompanyFields {
	f.CompanyName = strings.TrimSpace(f.CompanyName)
	f.Address = strings.TrimSpace(f.Address)
	f.City = strings.TrimSpace(f.City)
	f.State = strings.TrimSpace(f.State)
	f.Country = strings.TrimSpace(f.Country)
	f.PostalCode = strings.TrimSpace(f.PostalCode)
	f.Website = strings.TrimSpace(f.Website)
	f.Industry = strings.TrimSpace(f.Industry)
	return f
}

func requireFields(f domain.CompanyFields) error {
	switch {
	case f.CompanyName == "":
		return domain.ErrMissingField("companyName")
	case f.City == "":
		return domain.ErrMissingField("city")
	case f.State == "":
		return domain.ErrMissingField("state")
	case f.Country == "":
		return domain.ErrMissingField("country")
	case f.PostalCode == "":
		return domain.ErrMissingField("postalCode")
	}
	return nil
}

// Create registers the caller's company profile.
func (s *Service) Create(ctx context.Context, ownerID string, f domain.CompanyFields) (domain.CompanyProfile, error) {
	f = normalizeFields(f)
	if err := requireFields(f); err != nil {
		return domain.CompanyProfile{}, err
	}

	c := domain.CompanyProfile{OwnerID: ownerID}
	c.Apply(f)

	created, err := s.repo.Create(ctx, c)
	if err != nil {
		return domain.CompanyProfile{}, err
	}

	// best-effort: the profile exists whether or not the event goes out
	if err := s.pub.PublishCompanyCreated(ctx, CreatedEvent{
		CompanyID: created.ID,
		OwnerID:   created.OwnerID,
		Name:      created.CompanyName,
	}); err != nil {
		logger.WithCtx(ctx).Warn().Err(err).Str("company_id", created.ID).Msg("company_created publish failed")
	}

	s.audit("company_created", map[string]string{"company_id": created.ID, "owner_id": ownerID})
	return created, nil
}

func (s *Service) Get(ctx context.Context, ownerID string) (domain.CompanyProfile, error) {
	return s.repo.GetByOwner(ctx, ownerID)
}

func (s *Service) Update(ctx context.Context, ownerID string, f domain.CompanyFields) (domain.CompanyProfile, error) {
	f = normalizeFields(f)
	if err := requireFields(f); err != nil {
		return domain.CompanyProfile{}, err
	}

	updated, err := s.repo.Update(ctx, ownerID, f)
	if err != nil {
		return domain.CompanyProfile{}, err
	}

	s.audit("company_updated", map[string]string{"company_id": updated.ID, "owner_id": ownerID})
	return updated, nil
}
