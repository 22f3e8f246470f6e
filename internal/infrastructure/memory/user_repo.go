package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/baechuer/company-registry/internal/domain"
)

// UserRepo is the dev credential store. It mirrors the database: emails are
// lowercased, and email and mobile are unique.
type UserRepo struct {
	mu    sync.RWMutex
	rows  map[string]domain.User
	index map[string]string // "email:<addr>" or "mobile:<number>" -> id
}

func NewUserRepo() *UserRepo {
	return &UserRepo{
		rows:  make(map[string]domain.User),
		index: make(map[string]string),
	}
}

func emailKey(email string) string   { return "email:" + strings.ToLower(strings.TrimSpace(email)) }
func mobileKey(mobile string) string { return "mobile:" + strings.TrimSpace(mobile) }

// lookup returns the first indexed user among keys. mu must be held.
func (r *UserRepo) lookup(keys ...string) (domain.User, error) {
	for _, k := range keys {
		if id, ok := r.index[k]; ok {
			return r.rows[id], nil
		}
	}
	return domain.User{}, domain.ErrUserNotFound()
}

func (r *UserRepo) GetByEmail(_ context.Context, email string) (domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.lookup(emailKey(email))
}

func (r *UserRepo) GetByEmailOrMobile(_ context.Context, email, mobile string) (domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.lookup(emailKey(email), mobileKey(mobile))
}

func (r *UserRepo) GetByID(_ context.Context, id string) (domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if u, ok := r.rows[id]; ok {
		return u, nil
	}
	return domain.User{}, domain.ErrUserNotFound()
}

// Create assigns the id and creation time, like the database would.
func (r *UserRepo) Create(_ context.Context, u domain.User) (domain.User, error) {
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	u.Mobile = strings.TrimSpace(u.Mobile)
	switch {
	case u.Email == "":
		return domain.User{}, domain.ErrMissingField("email")
	case u.Mobile == "":
		return domain.User{}, domain.ErrMissingField("mobile")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, err := r.lookup(emailKey(u.Email), mobileKey(u.Mobile)); err == nil {
		return domain.User{}, domain.ErrUserAlreadyExists()
	}

	u.ID = uuid.NewString()
	u.CreatedAt = time.Now().UTC()
	r.rows[u.ID] = u
	r.index[emailKey(u.Email)] = u.ID
	r.index[mobileKey(u.Mobile)] = u.ID
	return u, nil
}

func (r *UserRepo) SetEmailVerified(_ context.Context, userID string) error {
	return r.update(userID, func(u *domain.User) { u.IsEmailVerified = true })
}

func (r *UserRepo) SetMobileVerified(_ context.Context, userID string) error {
	return r.update(userID, func(u *domain.User) { u.IsMobileVerified = true })
}

func (r *UserRepo) update(userID string, apply func(*domain.User)) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.rows[userID]
	if !ok {
		return domain.ErrUserNotFound()
	}
	apply(&u)
	r.rows[userID] = u
	return nil
}
