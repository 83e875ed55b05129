// Package transport defines request/response DTOs for companies.
package transport

import "time"

// CreateCompanyRequest is the superadmin payload for onboarding a company.
type CreateCompanyRequest struct {
	CompanyName    string `json:"companyName" validate:"required,min=2,max=200"`
	CompanyEmail   string `json:"companyEmail" validate:"omitempty,email"`
	CompanyPhone   string `json:"companyPhone" validate:"omitempty,max=20"`
	CompanyDetails string `json:"companyDetails" validate:"omitempty,max=2000"`
}

// UpdateCompanyRequest is the superadmin payload for editing a company.
// Nil fields are left untouched.
type UpdateCompanyRequest struct {
	CompanyName    *string `json:"companyName" validate:"omitempty,min=2,max=200"`
	CompanyEmail   *string `json:"companyEmail" validate:"omitempty,email"`
	CompanyPhone   *string `json:"companyPhone" validate:"omitempty,max=20"`
	CompanyDetails *string `json:"companyDetails" validate:"omitempty,max=2000"`
}

// ListCompaniesQuery carries the filter parameters for company listings.
type ListCompaniesQuery struct {
	Page  int    `form:"page"`
	Query string `form:"query"`
}

// CompanyResponse is the wire shape of a company.
type CompanyResponse struct {
	ID             int64     `json:"id"`
	CompanyName    string    `json:"companyName"`
	CompanyEmail   *string   `json:"companyEmail,omitempty"`
	CompanyPhone   *string   `json:"companyPhone,omitempty"`
	CompanyDetails *string   `json:"companyDetails,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
}

// ListCompaniesResponse is the paginated company listing result.
type ListCompaniesResponse struct {
	Items []CompanyResponse `json:"items"`
	Count int64             `json:"count"`
}
