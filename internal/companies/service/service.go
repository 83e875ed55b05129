// Package service implements company management. Mutations are superadmin
// only; the listing is readable by any authenticated caller.
package service

import (
	"context"
	"strings"

	"leadhub_backend/internal/companies/repository"
	"leadhub_backend/internal/companies/transport"
	"leadhub_backend/platform/apperr"
	"leadhub_backend/platform/logger"
	"leadhub_backend/platform/validator"
)

const (
	opList   = "companies.Service.List"
	opCreate = "companies.Service.Create"
	opUpdate = "companies.Service.Update"
)

// CompanyRepository defines the persistence operations the service needs.
type CompanyRepository interface {
	Get(ctx context.Context, id int64) (*repository.Company, error)
	List(ctx context.Context, query string, page int) ([]repository.Company, int64, error)
	Create(ctx context.Context, c *repository.Company) (*repository.Company, error)
	Update(ctx context.Context, id int64, name, email, phone, details *string) (*repository.Company, error)
	Delete(ctx context.Context, id int64) error
}

// Service implements company use cases.
type Service struct {
	repo      CompanyRepository
	log       *logger.Logger
	validator *validator.Validator
}

func New(repo CompanyRepository, log *logger.Logger, v *validator.Validator) *Service {
	return &Service{repo: repo, log: log, validator: v}
}

// List returns one page of companies. Store failures degrade to an empty
// page, logged server-side.
func (s *Service) List(ctx context.Context, q transport.ListCompaniesQuery) (*transport.ListCompaniesResponse, error) {
	rows, total, err := s.repo.List(ctx, q.Query, q.Page)
	if err != nil {
		s.log.DatabaseError(opList, err)
		return &transport.ListCompaniesResponse{Items: []transport.CompanyResponse{}, Count: 0}, nil
	}

	items := make([]transport.CompanyResponse, 0, len(rows))
	for i := range rows {
		items = append(items, toResponse(&rows[i]))
	}
	return &transport.ListCompaniesResponse{Items: items, Count: total}, nil
}

// Get returns one company.
func (s *Service) Get(ctx context.Context, id int64) (*transport.CompanyResponse, error) {
	company, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := toResponse(company)
	return &resp, nil
}

// Create onboards a company.
func (s *Service) Create(ctx context.Context, req transport.CreateCompanyRequest) (*transport.CompanyResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, apperr.Validation(err.Error()).WithOp(opCreate)
	}

	created, err := s.repo.Create(ctx, &repository.Company{
		CompanyName:    strings.TrimSpace(req.CompanyName),
		CompanyEmail:   optional(req.CompanyEmail),
		CompanyPhone:   optional(req.CompanyPhone),
		CompanyDetails: optional(req.CompanyDetails),
	})
	if err != nil {
		return nil, err
	}
	resp := toResponse(created)
	return &resp, nil
}

// Update edits a company.
func (s *Service) Update(ctx context.Context, id int64, req transport.UpdateCompanyRequest) (*transport.CompanyResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, apperr.Validation(err.Error()).WithOp(opUpdate)
	}

	updated, err := s.repo.Update(ctx, id, req.CompanyName, req.CompanyEmail, req.CompanyPhone, req.CompanyDetails)
	if err != nil {
		return nil, err
	}
	resp := toResponse(updated)
	return &resp, nil
}

// Delete removes a company.
func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

func toResponse(c *repository.Company) transport.CompanyResponse {
	return transport.CompanyResponse{
		ID:             c.ID,
		CompanyName:    c.CompanyName,
		CompanyEmail:   c.CompanyEmail,
		CompanyPhone:   c.CompanyPhone,
		CompanyDetails: c.CompanyDetails,
		CreatedAt:      c.CreatedAt,
	}
}

func optional(value string) *string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
