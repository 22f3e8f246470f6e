package dto

import (
	"time"

	"github.com/baechuer/company-registry/internal/domain"
)

type CompanyView struct {
	ID          string    `json:"id"`
	OwnerID     string    `json:"ownerId"`
	CompanyName string    `json:"companyName"`
	Address     string    `json:"address,omitempty"`
	City        string    `json:"city"`
	State       string    `json:"state"`
	Country     string    `json:"country"`
	PostalCode  string    `json:"postalCode"`
	Website     string    `json:"website,omitempty"`
	Industry    string    `json:"industry,omitempty"`
	LogoURL     string    `json:"logoUrl,omitempty"`
	BannerURL   string    `json:"bannerUrl,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func NewCompanyView(c domain.CompanyProfile) CompanyView {
	return CompanyView{
		ID:          c.ID,
		OwnerID:     c.OwnerID,
		CompanyName: c.CompanyName,
		Address:     c.Address,
		City:        c.City,
		State:       c.State,
		Country:     c.Country,
		PostalCode:  c.PostalCode,
		Website:     c.Website,
		Industry:    c.Industry,
		LogoURL:     c.LogoURL,
		BannerURL:   c.BannerURL,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

type CompanyData struct {
	Company CompanyView `json:"company"`
}

type LogoData struct {
	LogoURL string `json:"logoUrl"`
}

type BannerData struct {
	BannerURL string `json:"bannerUrl"`
}
