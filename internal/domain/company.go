package domain

import "time"

// CompanyProfile belongs to exactly one owner (a User id).
type CompanyProfile struct {
	ID          string
	OwnerID     string
	CompanyName string
	Address     string
	City        string
	State       string
	Country     string
	PostalCode  string
	Website     string
	Industry    string
	LogoURL     string
	BannerURL   string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// CompanyFields are the caller-editable columns of a profile.
type CompanyFields struct {
	CompanyName string
	Address     string
	City        string
	State       string
	Country     string
	PostalCode  string
	Website     string
	Industry    string
}

func (c *CompanyProfile) Apply(f CompanyFields) {
	c.CompanyName = f.CompanyName
	c.Address = f.Address
	c.City = f.City
	c.State = f.State
	c.Country = f.Country
	c.PostalCode = f.PostalCode
	c.Website = f.Website
	c.Industry = f.Industry
}

// MediaKind selects which image slot of a profile an upload targets.
type MediaKind string

const (
	MediaLogo   MediaKind = "logo"
	MediaBanner MediaKind = "banner"
)

// Folder is the object-key prefix on the media host.
func (k MediaKind) Folder() string {
	switch k {
	case MediaLogo:
		return "company_logos"
	case MediaBanner:
		return "company_banners"
	default:
		return "company_media"
	}
}
