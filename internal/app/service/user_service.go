package service

import (
	"context"
	"errors"
	"fmt"
	"unicode/utf8"

	"userhub/internal/common"
	"userhub/internal/common/security"
	"userhub/internal/common/validation"
	"userhub/internal/domain/model"
	"userhub/internal/domain/repository"

	"github.com/google/uuid"
)

const (
	PasswordMinLength = 6
	NameMaxLength     = 255
)

// UserService orchestrates registration, self-view, profile update and
// password change. Validation always runs to completion and reports
// every field error in one pass before any business rule (old-password
// check) is evaluated. Length rules count characters, not bytes.
type UserService struct {
	userRepo repository.UserRepository
}

func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

type RegisterRequest struct {
	Name                 string `json:"name"`
	Email                string `json:"email"`
	Password             string `json:"password"`
	PasswordConfirmation string `json:"password_confirmation"`
}

func (s *UserService) Register(ctx context.Context, req RegisterRequest) (*model.User, error) {
	ve := validation.NewErrors()
	if req.Name == "" {
		ve.Add("name", validation.Required("name"))
	}
	if req.Email == "" {
		ve.Add("email", validation.Required("email"))
	} else if !validation.ValidEmail(req.Email) {
		ve.Add("email", validation.Email("email"))
	} else if _, err := s.userRepo.FindByEmail(ctx, req.Email); err == nil {
		// Uniqueness reports alongside the other field errors. The
		// unique index remains the arbiter under concurrent
		// registration.
		ve.Add("email", validation.Unique("email"))
	} else if !errors.Is(err, common.ErrNotFound) {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if req.Password == "" {
		ve.Add("password", validation.Required("password"))
	} else {
		if req.PasswordConfirmation != req.Password {
			ve.Add("password", validation.Confirmed("password"))
		}
		if utf8.RuneCountInString(req.Password) < PasswordMinLength {
			ve.Add("password", validation.Min("password", PasswordMinLength))
		}
	}
	if !ve.Empty() {
		return nil, ve
	}

	hashed, err := security.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		ID:             uuid.NewString(),
		Name:           req.Name,
		Email:          req.Email,
		HashedPassword: hashed,
		Roles:          []string{},
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, common.ErrDuplicateEmail) {
			ve.Add("email", validation.Unique("email"))
			return nil, ve
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	user.HashedPassword = ""
	return user, nil
}

func (s *UserService) GetProfile(ctx context.Context, userID string) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	user.HashedPassword = ""
	return user, nil
}

// UpdateProfileRequest carries the mutable profile fields. Unknown
// holds payload keys outside the allowed set; their presence fails
// validation.
type UpdateProfileRequest struct {
	Name    *string
	Country *string
	Unknown []string
}

func (s *UserService) UpdateProfile(ctx context.Context, userID string, req UpdateProfileRequest) (*model.User, error) {
	ve := validation.NewErrors()
	if req.Name != nil {
		if *req.Name == "" {
			ve.Add("name", validation.Required("name"))
		} else if utf8.RuneCountInString(*req.Name) > NameMaxLength {
			ve.Add("name", validation.Max("name", NameMaxLength))
		}
	}
	for _, field := range req.Unknown {
		ve.Add(field, validation.NotAllowed(field))
	}
	if !ve.Empty() {
		return nil, ve
	}

	user, err := s.userRepo.UpdateProfile(ctx, userID, req.Name, req.Country)
	if err != nil {
		return nil, err
	}
	user.HashedPassword = ""
	return user, nil
}

type ChangePasswordRequest struct {
	OldPassword          string `json:"old_password"`
	Password             string `json:"password"`
	PasswordConfirmation string `json:"password_confirmation"`
}

func (s *UserService) ChangePassword(ctx context.Context, userID string, req ChangePasswordRequest) error {
	ve := validation.NewErrors()
	if req.OldPassword == "" {
		ve.Add("old_password", validation.Required("old_password"))
	} else if utf8.RuneCountInString(req.OldPassword) < PasswordMinLength {
		ve.Add("old_password", validation.Min("old_password", PasswordMinLength))
	}
	if req.Password == "" {
		ve.Add("password", validation.Required("password"))
	} else {
		if req.PasswordConfirmation != req.Password {
			ve.Add("password", validation.Confirmed("password"))
		}
		if utf8.RuneCountInString(req.Password) < PasswordMinLength {
			ve.Add("password", validation.Min("password", PasswordMinLength))
		}
	}
	if !ve.Empty() {
		return ve
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if !security.CheckPasswordHash(req.OldPassword, user.HashedPassword) {
		return common.ErrIncorrectOldPassword
	}

	hashed, err := security.HashPassword(req.Password)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	return s.userRepo.UpdatePassword(ctx, userID, hashed)
}
