package users

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/flexbnb/flexbnb-backend/pkg/auth"
	"github.com/flexbnb/flexbnb-backend/pkg/db/models"
	pkgerrors "github.com/flexbnb/flexbnb-backend/pkg/errors"
)

// ServiceParams carries the dependencies for NewService.
type ServiceParams struct {
	Repo *Repository
}

// Service keeps the local user table in sync with the upstream identity
// provider. Rows are created the first time a verified subject is seen.
type Service interface {
	Sync(ctx context.Context, claims *auth.IdentityClaims) (UserDTO, error)
	Get(ctx context.Context, id uuid.UUID) (UserDTO, error)
}

type service struct {
	repo *Repository
	now  func() time.Time
}

// NewService builds a users service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "users repo is required")
	}
	return &service{repo: params.Repo, now: time.Now}, nil
}

// Sync resolves the token subject to a local user, creating or refreshing
// the row as needed. An email match without a subject match adopts the
// subject, so a provider migration does not duplicate accounts.
func (s *service) Sync(ctx context.Context, claims *auth.IdentityClaims) (UserDTO, error) {
	if claims == nil || claims.Subject == "" {
		return UserDTO{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "token has no subject")
	}
	email := strings.ToLower(strings.TrimSpace(claims.Email))
	if email == "" {
		return UserDTO{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "token has no email")
	}

	user, err := s.repo.FindByExternalID(ctx, claims.Subject)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return UserDTO{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup user")
		}
		user, err = s.repo.FindByEmail(ctx, email)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return UserDTO{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup user")
		}
	}

	if user == nil {
		return s.create(ctx, claims, email)
	}

	if !user.IsActive {
		return UserDTO{}, pkgerrors.New(pkgerrors.CodeForbidden, "account is deactivated")
	}

	changed := false
	if user.ExternalID != claims.Subject {
		user.ExternalID = claims.Subject
		changed = true
	}
	if name := strings.TrimSpace(claims.Name); name != "" && user.Name != name {
		user.Name = name
		changed = true
	}
	if claims.AvatarURL != "" {
		if user.AvatarURL == nil || *user.AvatarURL != claims.AvatarURL {
			avatar := claims.AvatarURL
			user.AvatarURL = &avatar
			changed = true
		}
	}
	if claims.IsHost && !user.IsHost {
		user.IsHost = true
		changed = true
	}

	if changed {
		if err := s.repo.Save(ctx, user); err != nil {
			return UserDTO{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "save user")
		}
	}
	if err := s.repo.TouchLastSeen(ctx, user.ID, s.now().UTC()); err != nil {
		return UserDTO{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "touch last seen")
	}

	return FromModel(user), nil
}

func (s *service) create(ctx context.Context, claims *auth.IdentityClaims, email string) (UserDTO, error) {
	now := s.now().UTC()
	name := strings.TrimSpace(claims.Name)
	if name == "" {
		name = email
	}
	user := &models.User{
		ID:         uuid.New(),
		ExternalID: claims.Subject,
		Email:      email,
		Name:       name,
		IsHost:     claims.IsHost,
		IsActive:   true,
		LastSeenAt: &now,
	}
	if claims.AvatarURL != "" {
		avatar := claims.AvatarURL
		user.AvatarURL = &avatar
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return UserDTO{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create user")
	}
	return FromModel(user), nil
}

// Get loads a user by ID.
func (s *service) Get(ctx context.Context, id uuid.UUID) (UserDTO, error) {
	if id == uuid.Nil {
		return UserDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return UserDTO{}, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return UserDTO{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load user")
	}
	return FromModel(user), nil
}
