// Package service implements identity business logic: credential checks,
// token issuance, fresh actor resolution, and superadmin user management.
package service

import (
	"context"
	"strconv"
	"strings"
	"time"

	"leadhub_backend/internal/identity/repository"
	"leadhub_backend/internal/identity/transport"
	"leadhub_backend/internal/scope"
	"leadhub_backend/platform/apperr"
	"leadhub_backend/platform/config"
	"leadhub_backend/platform/logger"
	"leadhub_backend/platform/validator"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const (
	opLogin      = "identity.Service.Login"
	opResolve    = "identity.Service.Resolve"
	opListUsers  = "identity.Service.ListUsers"
	opCreateUser = "identity.Service.CreateUser"
	opDeleteUser = "identity.Service.DeleteUser"
)

// ProfileRepository defines the persistence operations the service needs.
type ProfileRepository interface {
	GetByID(ctx context.Context, id int64) (*repository.Profile, error)
	GetByEmail(ctx context.Context, email string) (*repository.Profile, error)
	List(ctx context.Context, params repository.ListParams) ([]repository.Profile, int64, error)
	Create(ctx context.Context, p *repository.Profile) (*repository.Profile, error)
	Delete(ctx context.Context, id int64) error
}

// Service implements identity use cases.
type Service struct {
	repo      ProfileRepository
	policies  *scope.Engine
	cfg       config.AuthServiceConfig
	log       *logger.Logger
	validator *validator.Validator
}

func New(repo ProfileRepository, policies *scope.Engine, cfg config.AuthServiceConfig, log *logger.Logger, v *validator.Validator) *Service {
	return &Service{repo: repo, policies: policies, cfg: cfg, log: log, validator: v}
}

// Login verifies credentials and issues an access token.
func (s *Service) Login(ctx context.Context, req transport.LoginRequest) (*transport.LoginResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, apperr.Validation("invalid credentials payload").WithOp(opLogin)
	}

	profile, err := s.repo.GetByEmail(ctx, req.Email)
	if err != nil {
		s.log.AuthEvent("login", req.Email, false, "unknown email")
		// Same message for unknown email and bad password.
		return nil, apperr.Unauthorized("invalid email or password").WithOp(opLogin)
	}

	if bcrypt.CompareHashAndPassword([]byte(profile.PasswordHash), []byte(req.Password)) != nil {
		s.log.AuthEvent("login", req.Email, false, "bad password")
		return nil, apperr.Unauthorized("invalid email or password").WithOp(opLogin)
	}

	token, err := s.signAccessToken(profile)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "sign access token", err).WithOp(opLogin)
	}

	s.log.AuthEvent("login", req.Email, true, "")
	return &transport.LoginResponse{
		AccessToken: token,
		ExpiresIn:   int64(s.cfg.GetAccessTokenTTL().Seconds()),
		Profile:     toProfileResponse(profile),
	}, nil
}

// Resolve loads the actor's current role and company from the profiles table.
// Token claims are never trusted for authorization; this runs once per request.
func (s *Service) Resolve(ctx context.Context, profileID int64) (scope.Actor, error) {
	profile, err := s.repo.GetByID(ctx, profileID)
	if err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			return scope.Actor{}, apperr.Unauthorized("profile no longer exists").WithOp(opResolve)
		}
		return scope.Actor{}, err
	}
	return scope.Actor{
		ProfileID: profile.ID,
		Email:     profile.Email,
		Role:      scope.Role(profile.RoleID),
		CompanyID: profile.CompanyID,
	}, nil
}

// Me returns the caller's own profile.
func (s *Service) Me(ctx context.Context, profileID int64) (*transport.ProfileResponse, error) {
	profile, err := s.repo.GetByID(ctx, profileID)
	if err != nil {
		return nil, err
	}
	resp := toProfileResponse(profile)
	return &resp, nil
}

// ListUsers returns a scoped page of profiles. Ordinary users get an empty
// page through the reject-all predicate, and store failures degrade to an
// empty page as well, logged server-side.
func (s *Service) ListUsers(ctx context.Context, actor scope.Actor, q transport.ListUsersQuery) (*transport.ListUsersResponse, error) {
	pred, err := s.policies.ForProfiles(ctx, actor, scope.Filter{CompanyID: q.CompanyID})
	if err != nil {
		return nil, err
	}

	params := repository.ListParams{Predicate: pred, Query: q.Query, Page: q.Page}
	if role := strings.TrimSpace(q.Role); role != "" {
		parsed := scope.ParseRole(role)
		params.Role = &parsed
	}

	profiles, total, err := s.repo.List(ctx, params)
	if err != nil {
		s.log.DatabaseError(opListUsers, err)
		return &transport.ListUsersResponse{Items: []transport.ProfileResponse{}, Count: 0}, nil
	}

	items := make([]transport.ProfileResponse, 0, len(profiles))
	for i := range profiles {
		items = append(items, toProfileResponse(&profiles[i]))
	}
	return &transport.ListUsersResponse{Items: items, Count: total}, nil
}

// CreateUser onboards a profile. Superadmin only, enforced at the route group.
func (s *Service) CreateUser(ctx context.Context, actor scope.Actor, req transport.CreateUserRequest) (*transport.ProfileResponse, error) {
	if actor.Role != scope.RoleSuperadmin {
		return nil, apperr.Forbidden("only superadmins can create users").WithOp(opCreateUser)
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, apperr.Validation(err.Error()).WithOp(opCreateUser)
	}

	role := scope.ParseRole(req.Role)
	if role != scope.RoleSuperadmin && req.CompanyID == nil {
		return nil, apperr.Validation("companyId is required for admin and user roles").WithOp(opCreateUser)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "hash password", err).WithOp(opCreateUser)
	}

	profile := &repository.Profile{
		Name:          req.Name,
		Email:         strings.ToLower(strings.TrimSpace(req.Email)),
		Phone:         optional(req.Phone),
		Address:       optional(req.Address),
		Gender:        optional(req.Gender),
		RoleID:        int(role),
		CompanyID:     req.CompanyID,
		CustomMessage: optional(req.CustomMessage),
		PasswordHash:  string(hash),
	}

	created, err := s.repo.Create(ctx, profile)
	if err != nil {
		return nil, err
	}

	s.log.Info("user created", "profile_id", created.ID, "role", role.String(), "created_by", actor.Email)
	resp := toProfileResponse(created)
	return &resp, nil
}

// DeleteUser removes a profile. A superadmin cannot delete their own profile.
func (s *Service) DeleteUser(ctx context.Context, actor scope.Actor, profileID int64) error {
	if actor.Role != scope.RoleSuperadmin {
		return apperr.Forbidden("only superadmins can delete users").WithOp(opDeleteUser)
	}
	if actor.ProfileID == profileID {
		return apperr.Validation("you cannot delete your own profile").WithOp(opDeleteUser)
	}
	if err := s.repo.Delete(ctx, profileID); err != nil {
		return err
	}
	s.log.Info("user deleted", "profile_id", profileID, "deleted_by", actor.Email)
	return nil
}

func (s *Service) signAccessToken(profile *repository.Profile) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   strconv.FormatInt(profile.ID, 10),
		"email": profile.Email,
		"role":  scope.Role(profile.RoleID).String(),
		"type":  "access",
		"iat":   now.Unix(),
		"exp":   now.Add(s.cfg.GetAccessTokenTTL()).Unix(),
	}
	if profile.CompanyID != nil {
		claims["company_id"] = *profile.CompanyID
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.GetJWTAccessSecret()))
}

func toProfileResponse(p *repository.Profile) transport.ProfileResponse {
	return transport.ProfileResponse{
		ID:            p.ID,
		Name:          p.Name,
		Email:         p.Email,
		Phone:         p.Phone,
		Address:       p.Address,
		Gender:        p.Gender,
		Role:          scope.Role(p.RoleID).String(),
		CompanyID:     p.CompanyID,
		CustomMessage: p.CustomMessage,
		CreatedTime:   p.CreatedTime,
	}
}

func optional(value string) *string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
