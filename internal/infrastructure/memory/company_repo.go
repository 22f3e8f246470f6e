package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/baechuer/company-registry/internal/domain"
)

// CompanyRepo keeps at most one profile per owner.
type CompanyRepo struct {
	mu      sync.RWMutex
	byOwner map[string]domain.CompanyProfile
}

func NewCompanyRepo() *CompanyRepo {
	return &CompanyRepo{byOwner: make(map[string]domain.CompanyProfile)}
}

func (r *CompanyRepo) GetByOwner(ctx context.Context, ownerID string) (domain.CompanyProfile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.byOwner[ownerID]
	if !ok {
		return domain.CompanyProfile{}, domain.ErrCompanyNotFound()
	}
	return c, nil
}

func (r *CompanyRepo) Create(ctx context.Context, c domain.CompanyProfile) (domain.CompanyProfile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if c.OwnerID == "" {
		return domain.CompanyProfile{}, domain.ErrMissingField("owner_id")
	}
	if _, exists := r.byOwner[c.OwnerID]; exists {
		return domain.CompanyProfile{}, domain.ErrCompanyAlreadyExists()
	}

	now := time.Now().UTC()
	c.ID = uuid.NewString()
	c.CreatedAt = now
	c.UpdatedAt = now
	r.byOwner[c.OwnerID] = c
	return c, nil
}

func (r *CompanyRepo) Update(ctx context.Context, ownerID string, f domain.CompanyFields) (domain.CompanyProfile, error) {
	return r.modify(ownerID, func(c *domain.CompanyProfile) { c.Apply(f) })
}

func (r *CompanyRepo) SetMediaURL(ctx context.Context, ownerID string, kind domain.MediaKind, url string) (domain.CompanyProfile, error) {
	return r.modify(ownerID, func(c *domain.CompanyProfile) {
		switch kind {
		case domain.MediaLogo:
			c.LogoURL = url
		case domain.MediaBanner:
			c.BannerURL = url
		}
	})
}

func (r *CompanyRepo) modify(ownerID string, fn func(c *domain.CompanyProfile)) (domain.CompanyProfile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.byOwner[ownerID]
	if !ok {
		return domain.CompanyProfile{}, domain.ErrCompanyNotFound()
	}
	fn(&c)
	c.UpdatedAt = time.Now().UTC()
	r.byOwner[ownerID] = c
	return c, nil
}
