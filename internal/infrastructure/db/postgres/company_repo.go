package postgres

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/baechuer/company-registry/internal/domain"
)

type CompanyRepo struct {
	db *sql.DB
}

func NewCompanyRepo(db *sql.DB) *CompanyRepo {
	return &CompanyRepo{db: db}
}

type companyRow struct {
	ID          string
	OwnerID     string
	CompanyName string
	Address     sql.NullString
	City        string
	State       string
	Country     string
	PostalCode  string
	Website     sql.NullString
	Industry    sql.NullString
	LogoURL     sql.NullString
	BannerURL   sql.NullString
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

const companyColumns = `id, owner_id, company_name, address, city, state, country, postal_code, website, industry, logo_url, banner_url, created_at, updated_at`

func (cr *companyRow) scanTargets() []any {
	return []any{
		&cr.ID, &cr.OwnerID, &cr.CompanyName, &cr.Address,
		&cr.City, &cr.State, &cr.Country, &cr.PostalCode,
		&cr.Website, &cr.Industry, &cr.LogoURL, &cr.BannerURL,
		&cr.CreatedAt, &cr.UpdatedAt,
	}
}

func toDomainCompany(cr companyRow) domain.CompanyProfile {
	return domain.CompanyProfile{
		ID:          cr.ID,
		OwnerID:     cr.OwnerID,
		CompanyName: cr.CompanyName,
		Address:     cr.Address.String,
		City:        cr.City,
		State:       cr.State,
		Country:     cr.Country,
		PostalCode:  cr.PostalCode,
		Website:     cr.Website.String,
		Industry:    cr.Industry.String,
		LogoURL:     cr.LogoURL.String,
		BannerURL:   cr.BannerURL.String,
		CreatedAt:   cr.CreatedAt,
		UpdatedAt:   cr.UpdatedAt,
	}
}

func (r *CompanyRepo) queryOne(ctx context.Context, q string, args ...any) (domain.CompanyProfile, error) {
	var cr companyRow
	if err := r.db.QueryRowContext(ctx, q, args...).Scan(cr.scanTargets()...); err != nil {
		return domain.CompanyProfile{}, lookupErr(err, domain.ErrCompanyNotFound)
	}
	return toDomainCompany(cr), nil
}

func (r *CompanyRepo) GetByOwner(ctx context.Context, ownerID string) (domain.CompanyProfile, error) {
	ownerID = strings.TrimSpace(ownerID)
	if ownerID == "" {
		return domain.CompanyProfile{}, domain.ErrMissingField("owner_id")
	}

	const q = `
SELECT ` + companyColumns + `
FROM company_profiles
WHERE owner_id = $1
LIMIT 1;
`
	return r.queryOne(ctx, q, ownerID)
}

func (r *CompanyRepo) Create(ctx context.Context, c domain.CompanyProfile) (domain.CompanyProfile, error) {
	if strings.TrimSpace(c.OwnerID) == "" {
		return domain.CompanyProfile{}, domain.ErrMissingField("owner_id")
	}

	const q = `
INSERT INTO company_profiles (owner_id, company_name, address, city, state, country, postal_code, website, industry)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
RETURNING ` + companyColumns + `;
`
	var cr companyRow
	err := r.db.QueryRowContext(ctx, q,
		c.OwnerID, c.CompanyName, nullString(c.Address), c.City, c.State, c.Country,
		c.PostalCode, nullString(c.Website), nullString(c.Industry),
	).Scan(cr.scanTargets()...)
	if err != nil {
		switch {
		case isUniqueViolation(err):
			return domain.CompanyProfile{}, domain.ErrCompanyAlreadyExists()
		case isForeignKeyViolation(err):
			// the owner row is gone
			return domain.CompanyProfile{}, domain.ErrUserNotFound()
		}
		return domain.CompanyProfile{}, domain.ErrDBUnavailable(err)
	}
	return toDomainCompany(cr), nil
}

func (r *CompanyRepo) Update(ctx context.Context, ownerID string, f domain.CompanyFields) (domain.CompanyProfile, error) {
	const q = `
UPDATE company_profiles
SET company_name = $2,
    address = $3,
    city = $4,
    state = $5,
    country = $6,
    postal_code = $7,
    website = $8,
    industry = $9,
    updated_at = NOW()
WHERE owner_id = $1
RETURNING ` + companyColumns + `;
`
	return r.queryOne(ctx, q,
		ownerID, f.CompanyName, nullString(f.Address), f.City, f.State, f.Country,
		f.PostalCode, nullString(f.Website), nullString(f.Industry),
	)
}

func (r *CompanyRepo) SetMediaURL(ctx context.Context, ownerID string, kind domain.MediaKind, url string) (domain.CompanyProfile, error) {
	// column names are fixed strings, never caller input
	var q string
	switch kind {
	case domain.MediaLogo:
		q = `
UPDATE company_profiles
SET logo_url = $2, updated_at = NOW()
WHERE owner_id = $1
RETURNING ` + companyColumns + `;
`
	case domain.MediaBanner:
		q = `
UPDATE company_profiles
SET banner_url = $2, updated_at = NOW()
WHERE owner_id = $1
RETURNING ` + companyColumns + `;
`
	default:
		return domain.CompanyProfile{}, domain.ErrInvalidField("kind", "must be logo or banner")
	}
	return r.queryOne(ctx, q, ownerID, url)
}
