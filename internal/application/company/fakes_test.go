package company

import (
	"context"
	"fmt"
	"io"
	"sync"
	"testing"

	"github.com/baechuer/company-registry/internal/domain"
)

type fakeRepo struct {
	mu      sync.Mutex
	byOwner map[string]domain.CompanyProfile
	nextID  int

	createErr error
	setURLErr error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{byOwner: map[string]domain.CompanyProfile{}}
}

func (r *fakeRepo) GetByOwner(ctx context.Context, ownerID string) (domain.CompanyProfile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.byOwner[ownerID]
	if !ok {
		return domain.CompanyProfile{}, domain.ErrCompanyNotFound()
	}
	return c, nil
}

func (r *fakeRepo) Create(ctx context.Context, c domain.CompanyProfile) (domain.CompanyProfile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.createErr != nil {
		return domain.CompanyProfile{}, r.createErr
	}
	if _, ok := r.byOwner[c.OwnerID]; ok {
		return domain.CompanyProfile{}, domain.ErrCompanyAlreadyExists()
	}
	r.nextID++
	c.ID = fmt.Sprintf("c%d", r.nextID)
	r.byOwner[c.OwnerID] = c
	return c, nil
}

func (r *fakeRepo) Update(ctx context.Context, ownerID string, f domain.CompanyFields) (domain.CompanyProfile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.byOwner[ownerID]
	if !ok {
		return domain.CompanyProfile{}, domain.ErrCompanyNotFound()
	}
	c.Apply(f)
	r.byOwner[ownerID] = c
	return c, nil
}

func (r *fakeRepo) SetMediaURL(ctx context.Context, ownerID string, kind domain.MediaKind, url string) (domain.CompanyProfile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.setURLErr != nil {
		return domain.CompanyProfile{}, r.setURLErr
	}
	c, ok := r.byOwner[ownerID]
	if !ok {
		return domain.CompanyProfile{}, domain.ErrCompanyNotFound()
	}
	if kind == domain.MediaLogo {
		c.LogoURL = url
	} else {
		c.BannerURL = url
	}
	r.byOwner[ownerID] = c
	return c, nil
}

type putCall struct {
	key         string
	contentType string
	size        int64
	body        []byte
}

type fakeMedia struct {
	err   error
	calls []putCall
}

func (m *fakeMedia) Put(ctx context.Context, key string, body io.Reader, contentType string, size int64) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	b, _ := io.ReadAll(body)
	m.calls = append(m.calls, putCall{key: key, contentType: contentType, size: size, body: b})
	return "https://cdn.test/" + key, nil
}

type fakePublisher struct {
	err  error
	evts []CreatedEvent
}

func (p *fakePublisher) PublishCompanyCreated(ctx context.Context, evt CreatedEvent) error {
	if p.err != nil {
		return p.err
	}
	p.evts = append(p.evts, evt)
	return nil
}

func newSvcForTest(t *testing.T, maxUpload int64) (*Service, *fakeRepo, *fakeMedia, *fakePublisher, *[]string) {
	t.Helper()

	repo := newFakeRepo()
	media := &fakeMedia{}
	pub := &fakePublisher{}
	actions := &[]string{}

	svc := NewService(repo, media, pub, Config{MaxUploadSize: maxUpload}).
		WithAudit(func(action string, _ map[string]string) {
			*actions = append(*actions, action)
		})
	return svc, repo, media, pub, actions
}

func validFields() domain.CompanyFields {
	return domain.CompanyFields{
		CompanyName: "Acme",
		City:        "Pune",
		State:       "MH",
		Country:     "India",
		PostalCode:  "411001",
	}
}

func requireCode(t *testing.T, err error, code string) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error code=%q, got nil", code)
	}
	if !domain.Is(err, code) {
		t.Fatalf("expected code=%q, got err=%v", code, err)
	}
}
