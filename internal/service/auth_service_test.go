package service

import (
	"context"
	"testing"
	"time"

	"boutique-pos/internal/domain"

	"github.com/golang-jwt/jwt/v5"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func fastProperties() *gopter.Properties {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 20
	return gopter.NewProperties(parameters)
}

func TestProperty_CreateUserHashesPasswords(t *testing.T) {
	properties := fastProperties()

	properties.Property("passwords are hashed with bcrypt and not stored as plaintext", prop.ForAll(
		func(username string, password string) bool {
			userRepo := newMockUserRepository()
			service := NewAuthService(userRepo, "test-secret", time.Hour)
			ctx := context.Background()

			user, err := service.CreateUser(ctx, username, password, domain.RoleStaff)
			if err != nil {
				t.Logf("FAIL: CreateUser failed: %v", err)
				return false
			}

			if user.PasswordHash == password {
				t.Logf("FAIL: Password stored as plaintext for %s", username)
				return false
			}

			stored, err := userRepo.FindByUsername(ctx, username)
			if err != nil {
				t.Logf("FAIL: Could not find stored user: %v", err)
				return false
			}

			return bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte(password)) == nil
		},
		gen.RegexMatch(`[a-z]{3,12}`),
		gen.RegexMatch(`[A-Za-z0-9!@#$%]{8,20}`),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestProperty_AccessTokensCarryPrincipal(t *testing.T) {
	properties := fastProperties()

	properties.Property("access tokens contain user id, username and role claims", prop.ForAll(
		func(username string, password string, role string) bool {
			userRepo := newMockUserRepository()
			service := NewAuthService(userRepo, "test-secret-key", time.Hour)
			ctx := context.Background()

			created, err := service.CreateUser(ctx, username, password, role)
			if err != nil {
				t.Logf("FAIL: CreateUser failed: %v", err)
				return false
			}

			accessToken, user, err := service.Login(ctx, username, password)
			if err != nil {
				t.Logf("FAIL: Login failed: %v", err)
				return false
			}

			claims, err := service.ValidateToken(accessToken)
			if err != nil {
				t.Logf("FAIL: Token validation failed: %v", err)
				return false
			}

			principal := claims.Principal()
			return principal.UserID == created.ID &&
				principal.Username == user.Username &&
				principal.Role == role &&
				claims.ExpiresAt != nil &&
				claims.IssuedAt != nil &&
				claims.ID != ""
		},
		gen.RegexMatch(`[a-z]{3,12}`),
		gen.RegexMatch(`[A-Za-z0-9!@#$%]{8,20}`),
		gen.OneConstOf(domain.RoleStaff, domain.RoleAdmin),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestAuthenticate_DoesNotLeakUnknownUser(t *testing.T) {
	userRepo := newMockUserRepository()
	service := NewAuthService(userRepo, "secret", time.Hour)
	ctx := context.Background()

	_, err := service.CreateUser(ctx, "clerk", "correct-horse", "")
	require.NoError(t, err)

	_, err = service.Authenticate(ctx, "nobody", "correct-horse")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	assert.NotErrorIs(t, err, domain.ErrNotFound)

	_, err = service.Authenticate(ctx, "clerk", "wrong")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	user, err := service.Authenticate(ctx, " clerk ", "correct-horse")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleStaff, user.Role)
}

func TestCreateUser_RejectsUnknownRole(t *testing.T) {
	service := NewAuthService(newMockUserRepository(), "secret", time.Hour)

	_, err := service.CreateUser(context.Background(), "clerk", "password1", "owner")
	assert.ErrorIs(t, err, ErrInvalidRole)
}

func TestValidateToken_Rejections(t *testing.T) {
	userRepo := newMockUserRepository()
	service := NewAuthService(userRepo, "secret", time.Hour)
	ctx := context.Background()

	_, err := service.CreateUser(ctx, "clerk", "password1", domain.RoleStaff)
	require.NoError(t, err)

	token, _, err := service.Login(ctx, "clerk", "password1")
	require.NoError(t, err)

	other := NewAuthService(userRepo, "another-secret", time.Hour)
	_, err = other.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		UserID: 1,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	})
	signed, err := expired.SignedString([]byte("secret"))
	require.NoError(t, err)
	_, err = service.ValidateToken(signed)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = service.ValidateToken("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
