package domain

import "time"

// User is a registered account. PasswordHash never leaves the service.
type User struct {
	ID               string
	Email            string
	Mobile           string
	PasswordHash     string
	FullName         string
	Gender           Gender
	IsEmailVerified  bool
	IsMobileVerified bool
	CreatedAt        time.Time
}

// PublicUser is the projection of a User returned to callers.
type PublicUser struct {
	ID               string
	Email            string
	Mobile           string
	FullName         string
	Gender           Gender
	IsEmailVerified  bool
	IsMobileVerified bool
	CreatedAt        time.Time
}

func (u User) Public() PublicUser {
	return PublicUser{
		ID:               u.ID,
		Email:            u.Email,
		Mobile:           u.Mobile,
		FullName:         u.FullName,
		Gender:           u.Gender,
		IsEmailVerified:  u.IsEmailVerified,
		IsMobileVerified: u.IsMobileVerified,
		CreatedAt:        u.CreatedAt,
	}
}
