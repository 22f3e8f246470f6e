package company

import (
	"context"
	"io"

	"github.com/baechuer/company-registry/internal/domain"
)

/*
Repo
----
Persistence port for company profiles. One profile per owner.

Lookups return domain.ErrCompanyNotFound when the owner has no profile.
Create returns domain.ErrCompanyAlreadyExists on the owner uniqueness constraint.
*/
type Repo interface {
	GetByOwner(ctx context.Context, ownerID string) (domain.CompanyProfile, error)
	Create(ctx context.Context, c domain.CompanyProfile) (domain.CompanyProfile, error)
	Update(ctx context.Context, ownerID string, f domain.CompanyFields) (domain.CompanyProfile, error)
	SetMediaURL(ctx context.Context, ownerID string, kind domain.MediaKind, url string) (domain.CompanyProfile, error)
}

/*
MediaStore
----------
Stores an uploaded object and returns its public URL.
A single awaited call: either the object is stored and a URL returned, or an error.
*/
type MediaStore interface {
	Put(ctx context.Context, key string, body io.Reader, contentType string, size int64) (url string, err error)
}

/*
EventPublisher
--------------
Best-effort domain events for downstream consumers.
*/
type EventPublisher interface {
	PublishCompanyCreated(ctx context.Context, evt CreatedEvent) error
}

type CreatedEvent struct {
	CompanyID string
	OwnerID   string
	Name      string
}
