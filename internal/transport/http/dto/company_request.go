package dto

import (
	"strings"

	"github.com/baechuer/company-registry/internal/domain"
)

type CompanyRequest struct {
	CompanyName string `json:"companyName" validate:"required,max=200"`
	Address     string `json:"address,omitempty" validate:"omitempty,max=500"`
	City        string `json:"city" validate:"required,max=100"`
	State       string `json:"state" validate:"required,max=100"`
	Country     string `json:"country" validate:"required,max=100"`
	PostalCode  string `json:"postalCode" validate:"required,max=20"`
	Website     string `json:"website,omitempty" validate:"omitempty,url,max=2048"`
	Industry    string `json:"industry,omitempty" validate:"omitempty,max=100"`
}

func (r *CompanyRequest) Normalize() {
	r.CompanyName = strings.TrimSpace(r.CompanyName)
	r.Address = strings.TrimSpace(r.Address)
	r.City = strings.TrimSpace(r.City)
	r.State = strings.TrimSpace(r.State)
	r.Country = strings.TrimSpace(r.Country)
	r.PostalCode = strings.TrimSpace(r.PostalCode)
	r.Website = strings.TrimSpace(r.Website)
	r.Industry = strings.TrimSpace(r.Industry)
}

func (r CompanyRequest) Fields() domain.CompanyFields {
	return domain.CompanyFields{
		CompanyName: r.CompanyName,
		Address:     r.Address,
		City:        r.City,
		State:       r.State,
		Country:     r.Country,
		PostalCode:  r.PostalCode,
		Website:     r.Website,
		Industry:    r.Industry,
	}
}
