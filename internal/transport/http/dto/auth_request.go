package dto

import (
	"strings"

	"github.com/baechuer/company-registry/internal/application/auth"
	"github.com/baechuer/company-registry/internal/domain"
)

// -------- Core auth --------

type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email,max=254"`
	Password string `json:"password" validate:"required,password,max=72"`
	FullName string `json:"fullName" validate:"required,max=120"`
	Mobile   string `json:"mobile" validate:"required,mobile"`
	Gender   string `json:"gender,omitempty" validate:"omitempty,oneof=male female other"`
}

// Normalize trims the text fields and lower-cases the email. Password is left as sent.
func (r *RegisterRequest) Normalize() {
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	r.FullName = strings.TrimSpace(r.FullName)
	r.Mobile = strings.TrimSpace(r.Mobile)
	r.Gender = strings.ToLower(strings.TrimSpace(r.Gender))
}

func (r RegisterRequest) Input() auth.RegisterInput {
	return auth.RegisterInput{
		Email:    r.Email,
		Password: r.Password,
		FullName: r.FullName,
		Mobile:   r.Mobile,
		Gender:   domain.Gender(r.Gender),
	}
}

// LoginRequest is only shape-checked; credential problems are reported as
// invalid_credentials by the login flow.
type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

func (r *LoginRequest) Normalize() {
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
}

// -------- Verification --------

type VerifyMobileRequest struct {
	Code string `json:"code" validate:"required,numeric,len=6"`
}

func (r *VerifyMobileRequest) Normalize() {
	r.Code = strings.TrimSpace(r.Code)
}
