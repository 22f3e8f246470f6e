package dto

import (
	"time"

	"github.com/baechuer/company-registry/internal/application/auth"
	"github.com/baechuer/company-registry/internal/domain"
)

// UserView is the public user payload. It has no password field on purpose.
type UserView struct {
	ID               string    `json:"id"`
	Email            string    `json:"email"`
	FullName         string    `json:"fullName"`
	Mobile           string    `json:"mobile"`
	Gender           string    `json:"gender,omitempty"`
	IsEmailVerified  bool      `json:"isEmailVerified"`
	IsMobileVerified bool      `json:"isMobileVerified"`
	CreatedAt        time.Time `json:"createdAt"`
}

func NewUserView(u domain.PublicUser) UserView {
	return UserView{
		ID:               u.ID,
		Email:            u.Email,
		FullName:         u.FullName,
		Mobile:           u.Mobile,
		Gender:           string(u.Gender),
		IsEmailVerified:  u.IsEmailVerified,
		IsMobileVerified: u.IsMobileVerified,
		CreatedAt:        u.CreatedAt,
	}
}

// AuthData is returned by register and login.
type AuthData struct {
	Token     string   `json:"token"`
	TokenType string   `json:"tokenType"`
	ExpiresIn int64    `json:"expiresIn"` // seconds
	User      UserView `json:"user"`
}

func NewAuthData(u domain.User, tok auth.AuthToken) AuthData {
	return AuthData{
		Token:     tok.Token,
		TokenType: tok.TokenType,
		ExpiresIn: tok.ExpiresIn,
		User:      NewUserView(u.Public()),
	}
}

type MeData struct {
	User UserView `json:"user"`
}

type StatusData struct {
	Status string `json:"status"`
}
