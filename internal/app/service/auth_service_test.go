package service

import (
	"context"
	"testing"

	"userhub/internal/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoginSuccess(t *testing.T) {
	userSvc, authSvc, _ := newTestServices(t)
	registerUser(t, userSvc, "Administrator", "admin@example.com", "123456")

	resp, err := authSvc.Login(context.Background(), LoginRequest{
		Email:    "admin@example.com",
		Password: "123456",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, "Administrator", resp.User.Name)
	assert.Empty(t, resp.User.HashedPassword)
}

func TestLoginEmailCaseInsensitive(t *testing.T) {
	userSvc, authSvc, _ := newTestServices(t)
	registerUser(t, userSvc, "Administrator", "admin@example.com", "123456")

	resp, err := authSvc.Login(context.Background(), LoginRequest{
		Email:    "Admin@Example.COM",
		Password: "123456",
	})
	require.NoError(t, err)
	assert.Equal(t, "admin@example.com", resp.User.Email)
}

func TestLoginWrongPassword(t *testing.T) {
	userSvc, authSvc, _ := newTestServices(t)
	registerUser(t, userSvc, "Administrator", "admin@example.com", "123456")

	_, err := authSvc.Login(context.Background(), LoginRequest{
		Email:    "admin@example.com",
		Password: "wrong-password",
	})
	assert.ErrorIs(t, err, common.ErrInvalidCredentials)
}

func TestLoginUnknownEmail(t *testing.T) {
	_, authSvc, _ := newTestServices(t)

	// The same generic error as a wrong password; lookups must not
	// reveal whether the account exists.
	_, err := authSvc.Login(context.Background(), LoginRequest{
		Email:    "ghost@example.com",
		Password: "123456",
	})
	assert.ErrorIs(t, err, common.ErrInvalidCredentials)
}

func TestLoginMissingFields(t *testing.T) {
	_, authSvc, _ := newTestServices(t)

	_, err := authSvc.Login(context.Background(), LoginRequest{})
	ve := asValidationErrors(t, err)
	assert.True(t, ve.Has("email"))
	assert.True(t, ve.Has("password"))
}
