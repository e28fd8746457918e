package service

import (
	"context"
	"errors"
	"fmt"

	"userhub/internal/common"
	"userhub/internal/common/security"
	"userhub/internal/common/validation"
	"userhub/internal/domain/model"
	"userhub/internal/domain/repository"
)

// AuthService verifies credentials and issues bearer tokens. Tokens are
// self-contained; there is no server-side session state to revoke.
type AuthService struct {
	userRepo repository.UserRepository
}

func NewAuthService(userRepo repository.UserRepository) *AuthService {
	return &AuthService{userRepo: userRepo}
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	User  *model.User `json:"user"`
	Token string      `json:"token"`
}

func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	ve := validation.NewErrors()
	if req.Email == "" {
		ve.Add("email", validation.Required("email"))
	}
	if req.Password == "" {
		ve.Add("password", validation.Required("password"))
	}
	if !ve.Empty() {
		return nil, ve
	}

	user, err := s.userRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrInvalidCredentials // Generic message for security
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if !security.CheckPasswordHash(req.Password, user.HashedPassword) {
		return nil, common.ErrInvalidCredentials
	}

	token, err := security.GenerateToken(user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}
	user.HashedPassword = ""
	return &LoginResponse{User: user, Token: token}, nil
}
