// Package transport defines request/response DTOs for the identity module.
package transport

import "time"

// LoginRequest is the credential payload for token issuance.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// LoginResponse carries the issued access token and the caller's profile.
type LoginResponse struct {
	AccessToken string          `json:"accessToken"`
	ExpiresIn   int64           `json:"expiresIn"`
	Profile     ProfileResponse `json:"profile"`
}

// CreateUserRequest is the superadmin payload for onboarding a profile.
type CreateUserRequest struct {
	Name          string `json:"name" validate:"required,min=2,max=100"`
	Email         string `json:"email" validate:"required,email"`
	Password      string `json:"password" validate:"required,min=8"`
	Phone         string `json:"phone" validate:"omitempty"`
	Address       string `json:"address" validate:"omitempty,max=500"`
	Gender        string `json:"gender" validate:"omitempty,oneof=male female other"`
	Role          string `json:"role" validate:"required,oneof=user admin superadmin"`
	CompanyID     *int64 `json:"companyId" validate:"omitempty,gt=0"`
	CustomMessage string `json:"customMessage" validate:"omitempty,max=1000"`
}

// ListUsersQuery carries the filter parameters for the user listing.
type ListUsersQuery struct {
	Page      int    `form:"page"`
	Query     string `form:"query"`
	Role      string `form:"roleFilter"`
	CompanyID *int64 `form:"companyId"`
}

// ProfileResponse is the wire shape of a profile.
type ProfileResponse struct {
	ID            int64     `json:"id"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	Phone         *string   `json:"phone,omitempty"`
	Address       *string   `json:"address,omitempty"`
	Gender        *string   `json:"gender,omitempty"`
	Role          string    `json:"role"`
	CompanyID     *int64    `json:"companyId,omitempty"`
	CustomMessage *string   `json:"customMessage,omitempty"`
	CreatedTime   time.Time `json:"createdTime"`
}

// ListUsersResponse is the paginated user listing result.
type ListUsersResponse struct {
	Items []ProfileResponse `json:"items"`
	Count int64             `json:"count"`
}
