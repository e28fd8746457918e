package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"userhub/internal/common"
	"userhub/internal/common/security"
	"userhub/internal/common/validation"
	"userhub/internal/domain/model"
	"userhub/internal/domain/repository"
	"userhub/internal/platform/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServices(t *testing.T) (*UserService, *AuthService, repository.UserRepository) {
	t.Helper()
	config.AppConfig = &config.Config{
		JWTKey: []byte("test-secret"),
		JWTExp: time.Hour,
	}
	security.InitJWT()
	repo := repository.NewMemoryUserRepository()
	return NewUserService(repo), NewAuthService(repo), repo
}

func registerUser(t *testing.T, svc *UserService, name, email, password string) *model.User {
	t.Helper()
	user, err := svc.Register(context.Background(), RegisterRequest{
		Name:                 name,
		Email:                email,
		Password:             password,
		PasswordConfirmation: password,
	})
	require.NoError(t, err)
	return user
}

func asValidationErrors(t *testing.T, err error) *validation.Errors {
	t.Helper()
	require.Error(t, err)
	ve, ok := err.(*validation.Errors)
	require.True(t, ok, "expected *validation.Errors, got %T: %v", err, err)
	return ve
}

func TestRegisterMissingFields(t *testing.T) {
	svc, _, _ := newTestServices(t)

	_, err := svc.Register(context.Background(), RegisterRequest{})
	ve := asValidationErrors(t, err)

	assert.Equal(t, []string{"The name field is required."}, ve.Fields()["name"])
	assert.Equal(t, []string{"The email field is required."}, ve.Fields()["email"])
	assert.Equal(t, []string{"The password field is required."}, ve.Fields()["password"])
	assert.Equal(t, "The name field is required.", ve.First())
}

func TestRegisterInvalidEmailAndWeakPassword(t *testing.T) {
	svc, _, _ := newTestServices(t)

	_, err := svc.Register(context.Background(), RegisterRequest{
		Name:     "Fish Bone",
		Email:    "Invalid email",
		Password: "123",
	})
	ve := asValidationErrors(t, err)

	assert.Equal(t, []string{"The email must be a valid email address."}, ve.Fields()["email"])
	// Confirmation mismatch is reported before the length rule.
	assert.Equal(t, []string{
		"The password confirmation does not match.",
		"The password must be at least 6 characters.",
	}, ve.Fields()["password"])
	assert.False(t, ve.Has("name"))
}

func TestRegisterMultibytePasswordLength(t *testing.T) {
	svc, _, _ := newTestServices(t)

	// 5 two-byte characters: under the minimum even though the byte
	// count is 10.
	password := strings.Repeat("é", 5)
	_, err := svc.Register(context.Background(), RegisterRequest{
		Name:                 "Fish Bone",
		Email:                "fish@example.com",
		Password:             password,
		PasswordConfirmation: password,
	})
	ve := asValidationErrors(t, err)
	assert.Equal(t, []string{"The password must be at least 6 characters."}, ve.Fields()["password"])

	password = strings.Repeat("é", 6)
	_, err = svc.Register(context.Background(), RegisterRequest{
		Name:                 "Fish Bone",
		Email:                "fish@example.com",
		Password:             password,
		PasswordConfirmation: password,
	})
	assert.NoError(t, err)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _, _ := newTestServices(t)
	registerUser(t, svc, "Administrator", "admin@example.com", "123456")

	_, err := svc.Register(context.Background(), RegisterRequest{
		Name:                 "Fish Bone",
		Email:                "Admin@Example.com", // case-insensitive match
		Password:             "123456",
		PasswordConfirmation: "123456",
	})
	ve := asValidationErrors(t, err)
	assert.Equal(t, []string{"The email has already been taken."}, ve.Fields()["email"])
	assert.False(t, ve.Has("name"))
	assert.False(t, ve.Has("password"))
}

func TestRegisterDuplicateEmailReportedWithOtherFieldErrors(t *testing.T) {
	svc, _, _ := newTestServices(t)
	registerUser(t, svc, "Administrator", "admin@example.com", "123456")

	// Uniqueness is part of the same validation pass: a missing name
	// and a taken email report together.
	_, err := svc.Register(context.Background(), RegisterRequest{
		Email:                "admin@example.com",
		Password:             "123456",
		PasswordConfirmation: "123456",
	})
	ve := asValidationErrors(t, err)
	assert.Equal(t, []string{"The name field is required."}, ve.Fields()["name"])
	assert.Equal(t, []string{"The email has already been taken."}, ve.Fields()["email"])
	assert.Equal(t, "The name field is required.", ve.First())
}

func TestRegisterSuccess(t *testing.T) {
	svc, _, repo := newTestServices(t)

	user := registerUser(t, svc, "Fish Bone", "fish@example.com", "123456")
	assert.NotEmpty(t, user.ID)
	assert.Equal(t, "Fish Bone", user.Name)
	assert.Equal(t, "fish@example.com", user.Email)
	assert.Empty(t, user.Roles)
	assert.Empty(t, user.HashedPassword)

	// The persisted record is retrievable by id with identical fields
	// and a hashed (never plaintext) password.
	stored, err := repo.FindByID(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Fish Bone", stored.Name)
	assert.Equal(t, "fish@example.com", stored.Email)
	assert.NotEmpty(t, stored.HashedPassword)
	assert.NotEqual(t, "123456", stored.HashedPassword)
	assert.True(t, security.CheckPasswordHash("123456", stored.HashedPassword))
}

func TestGetProfile(t *testing.T) {
	svc, _, _ := newTestServices(t)
	user := registerUser(t, svc, "Fish Bone", "fish@example.com", "123456")

	got, err := svc.GetProfile(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Fish Bone", got.Name)
	assert.Empty(t, got.HashedPassword)

	_, err = svc.GetProfile(context.Background(), "ghost")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestUpdateProfileNameTooLong(t *testing.T) {
	svc, _, _ := newTestServices(t)
	user := registerUser(t, svc, "Fish Bone", "fish@example.com", "123456")

	name := strings.Repeat("abc", 100)
	country := "USA"
	_, err := svc.UpdateProfile(context.Background(), user.ID, UpdateProfileRequest{
		Name:    &name,
		Country: &country,
	})
	ve := asValidationErrors(t, err)
	assert.Equal(t, []string{"The name may not be greater than 255 characters."}, ve.Fields()["name"])
	assert.Equal(t, "The name may not be greater than 255 characters.", ve.First())

	// Validation failure leaves the record untouched.
	got, err := svc.GetProfile(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Fish Bone", got.Name)
	assert.Equal(t, "", got.Country)
}

func TestUpdateProfileMultibyteNameLength(t *testing.T) {
	svc, _, _ := newTestServices(t)
	user := registerUser(t, svc, "Fish Bone", "fish@example.com", "123456")

	// 130 two-byte characters: within the 255-character limit even
	// though the byte count is 260.
	name := strings.Repeat("é", 130)
	updated, err := svc.UpdateProfile(context.Background(), user.ID, UpdateProfileRequest{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, name, updated.Name)

	long := strings.Repeat("é", 256)
	_, err = svc.UpdateProfile(context.Background(), user.ID, UpdateProfileRequest{Name: &long})
	ve := asValidationErrors(t, err)
	assert.Equal(t, []string{"The name may not be greater than 255 characters."}, ve.Fields()["name"])
}

func TestUpdateProfileDisallowedField(t *testing.T) {
	svc, _, _ := newTestServices(t)
	user := registerUser(t, svc, "Fish Bone", "fish@example.com", "123456")

	_, err := svc.UpdateProfile(context.Background(), user.ID, UpdateProfileRequest{
		Unknown: []string{"password"},
	})
	ve := asValidationErrors(t, err)
	assert.Equal(t, []string{"The password field is not allowed."}, ve.Fields()["password"])
}

func TestUpdateProfileSuccess(t *testing.T) {
	svc, _, _ := newTestServices(t)
	user := registerUser(t, svc, "Administrator", "admin@example.com", "123456")

	name := "Steven Adam"
	country := "USA"
	updated, err := svc.UpdateProfile(context.Background(), user.ID, UpdateProfileRequest{
		Name:    &name,
		Country: &country,
	})
	require.NoError(t, err)
	assert.Equal(t, "Steven Adam", updated.Name)
	assert.Equal(t, "USA", updated.Country)
	assert.Equal(t, "admin@example.com", updated.Email)

	// Partial update: only provided fields mutate.
	other := "France"
	updated, err = svc.UpdateProfile(context.Background(), user.ID, UpdateProfileRequest{Country: &other})
	require.NoError(t, err)
	assert.Equal(t, "Steven Adam", updated.Name)
	assert.Equal(t, "France", updated.Country)
}

func TestChangePasswordEmptyPayload(t *testing.T) {
	svc, _, _ := newTestServices(t)
	user := registerUser(t, svc, "Administrator", "admin@example.com", "123456")

	err := svc.ChangePassword(context.Background(), user.ID, ChangePasswordRequest{})
	ve := asValidationErrors(t, err)
	assert.Equal(t, []string{"The old password field is required."}, ve.Fields()["old_password"])
	assert.Equal(t, []string{"The password field is required."}, ve.Fields()["password"])
	assert.Equal(t, "The old password field is required.", ve.First())
}

func TestChangePasswordWeakInput(t *testing.T) {
	svc, _, _ := newTestServices(t)
	user := registerUser(t, svc, "Administrator", "admin@example.com", "123456")

	err := svc.ChangePassword(context.Background(), user.ID, ChangePasswordRequest{
		OldPassword:          "1234",
		Password:             "1234",
		PasswordConfirmation: "123",
	})
	ve := asValidationErrors(t, err)
	assert.Equal(t, []string{"The old password must be at least 6 characters."}, ve.Fields()["old_password"])
	assert.Equal(t, []string{
		"The password confirmation does not match.",
		"The password must be at least 6 characters.",
	}, ve.Fields()["password"])
}

func TestChangePasswordValidationPrecedesOldPasswordCheck(t *testing.T) {
	svc, _, _ := newTestServices(t)
	user := registerUser(t, svc, "Administrator", "admin@example.com", "123456")

	// Both a missing field and a wrong old password: only the
	// validation errors surface.
	err := svc.ChangePassword(context.Background(), user.ID, ChangePasswordRequest{
		OldPassword: "totally-wrong",
	})
	ve := asValidationErrors(t, err)
	assert.True(t, ve.Has("password"))
	assert.False(t, ve.Has("old_password"))
}

func TestChangePasswordWrongOldPassword(t *testing.T) {
	svc, _, _ := newTestServices(t)
	user := registerUser(t, svc, "Administrator", "admin@example.com", "123456")

	err := svc.ChangePassword(context.Background(), user.ID, ChangePasswordRequest{
		OldPassword:          "123456789",
		Password:             "12345678",
		PasswordConfirmation: "12345678",
	})
	assert.ErrorIs(t, err, common.ErrIncorrectOldPassword)
}

func TestChangePasswordSuccess(t *testing.T) {
	svc, authSvc, _ := newTestServices(t)
	user := registerUser(t, svc, "Administrator", "admin@example.com", "123456")

	err := svc.ChangePassword(context.Background(), user.ID, ChangePasswordRequest{
		OldPassword:          "123456",
		Password:             "12345678",
		PasswordConfirmation: "12345678",
	})
	require.NoError(t, err)

	// The new password authenticates; the old one no longer does.
	_, err = authSvc.Login(context.Background(), LoginRequest{Email: "admin@example.com", Password: "12345678"})
	assert.NoError(t, err)
	_, err = authSvc.Login(context.Background(), LoginRequest{Email: "admin@example.com", Password: "123456"})
	assert.ErrorIs(t, err, common.ErrInvalidCredentials)
}
