package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/lettings-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/lettings-backend/internal/dto"
	mailer "github.com/ahmetcoskunkizilkaya/lettings-backend/internal/mail"
	"github.com/ahmetcoskunkizilkaya/lettings-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/lettings-backend/internal/principal"
	"github.com/ahmetcoskunkizilkaya/lettings-backend/internal/testutil"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type recordingMailer struct {
	mu   sync.Mutex
	sent []mailer.Message
	err  error
}

func (m *recordingMailer) Send(_ context.Context, msg mailer.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, msg)
	return m.err
}

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret:                "test-secret",
		JWTAccessExpiry:          15 * time.Minute,
		JWTRefreshExpiry:         time.Hour,
		AppBaseURL:               "http://portal.test",
		RequireEmailVerification: true,
	}
}

func newAuthService(t *testing.T) (*AuthService, *gorm.DB, *recordingMailer) {
	t.Helper()
	db := testutil.NewDB(t)
	m := &recordingMailer{}
	return NewAuthService(db, testConfig(), m), db, m
}

func registerLandlord(t *testing.T, svc *AuthService, email string) *models.User {
	t.Helper()
	user, err := svc.Register(context.Background(), &dto.RegisterRequest{
		Email:    email,
		Password: "password123",
		Name:     "Lena Lord",
	})
	require.NoError(t, err)
	return user
}

func TestRegisterLandlordSendsVerificationLink(t *testing.T) {
	svc, db, m := newAuthService(t)

	user := registerLandlord(t, svc, "  Lena@Example.com ")
	assert.Equal(t, "lena@example.com", user.Email)
	assert.Equal(t, models.RoleLandlord, user.Role)
	assert.Equal(t, models.UserStatusPendingVerification, user.Status)
	assert.False(t, user.EmailVerified)
	require.NotNil(t, user.VerificationToken)
	assert.Len(t, *user.VerificationToken, 64)

	var landlord models.Landlord
	require.NoError(t, db.Where("user_id = ?", user.ID).First(&landlord).Error)
	assert.Equal(t, "Lena", landlord.FirstName)
	assert.Equal(t, "Lord", landlord.LastName)

	require.Len(t, m.sent, 1)
	assert.Equal(t, "lena@example.com", m.sent[0].To)
	assert.Contains(t, m.sent[0].Text, "http://portal.test/api/auth/verify-email?token="+*user.VerificationToken)
}

func TestRegisterValidation(t *testing.T) {
	svc, _, _ := newAuthService(t)
	ctx := context.Background()

	cases := map[string]dto.RegisterRequest{
		"bad email":      {Email: "nope", Password: "password123", Name: "A"},
		"short password": {Email: "a@example.com", Password: "short", Name: "A"},
		"missing name":   {Email: "a@example.com", Password: "password123"},
		"bad role":       {Email: "a@example.com", Password: "password123", Name: "A", Role: "ADMIN"},
		"tenant no landlord email": {
			Email: "a@example.com", Password: "password123", Name: "A", Role: "TENANT",
		},
	}
	for name, req := range cases {
		req := req
		t.Run(name, func(t *testing.T) {
			_, err := svc.Register(ctx, &req)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _, _ := newAuthService(t)
	registerLandlord(t, svc, "dup@example.com")

	_, err := svc.Register(context.Background(), &dto.RegisterRequest{
		Email: "DUP@example.com", Password: "password123", Name: "Other",
	})
	assert.ErrorIs(t, err, ErrEmailTaken)
	assert.ErrorIs(t, err, ErrConflict)
}

func TestRegisterDuplicateEmailInsertedConcurrently(t *testing.T) {
	svc, db, _ := newAuthService(t)

	// Another registration for the same address lands after the
	// pre-check but before this insert.
	fired := false
	require.NoError(t, db.Callback().Create().Before("gorm:create").Register("test:racing_signup", func(tx *gorm.DB) {
		if fired || tx.Statement.Table != "users" {
			return
		}
		fired = true
		tx.AddError(tx.Session(&gorm.Session{NewDB: true}).Create(&models.User{
			Email: "race@example.com", Password: "x", Role: models.RoleLandlord, Status: models.UserStatusActive,
		}).Error)
	}))

	_, err := svc.Register(context.Background(), &dto.RegisterRequest{
		Email: "race@example.com", Password: "password123", Name: "Lena Lord",
	})
	require.True(t, fired)
	assert.ErrorIs(t, err, ErrEmailTaken)
	assert.ErrorIs(t, err, ErrConflict)
}

func TestRegisterTenantWithUnknownLandlordLeavesNoUser(t *testing.T) {
	svc, db, m := newAuthService(t)

	_, err := svc.Register(context.Background(), &dto.RegisterRequest{
		Email:         "tom@example.com",
		Password:      "password123",
		Name:          "Tom Tenant",
		Role:          "tenant",
		LandlordEmail: "ghost@example.com",
	})
	require.ErrorIs(t, err, ErrLandlordNotFound)

	var users int64
	require.NoError(t, db.Model(&models.User{}).Where("email = ?", "tom@example.com").Count(&users).Error)
	assert.Zero(t, users)
	assert.Empty(t, m.sent)
}

func TestRegisterTenantLinksLandlord(t *testing.T) {
	svc, db, _ := newAuthService(t)
	landlordUser := registerLandlord(t, svc, "lena@example.com")

	user, err := svc.Register(context.Background(), &dto.RegisterRequest{
		Email:         "tom@example.com",
		Password:      "password123",
		Name:          "Tom Tenant",
		Role:          "TENANT",
		LandlordEmail: "LENA@example.com",
	})
	require.NoError(t, err)

	var landlord models.Landlord
	require.NoError(t, db.Where("user_id = ?", landlordUser.ID).First(&landlord).Error)
	var tenant models.Tenant
	require.NoError(t, db.Where("user_id = ?", user.ID).First(&tenant).Error)
	require.NotNil(t, tenant.LandlordID)
	assert.Equal(t, landlord.ID, *tenant.LandlordID)
}

func TestRegisterSucceedsWhenMailFails(t *testing.T) {
	svc, _, m := newAuthService(t)
	m.err = errors.New("relay down")

	user := registerLandlord(t, svc, "lena@example.com")
	assert.NotEqual(t, "", user.ID.String())
}

func TestLoginRequiresVerifiedEmail(t *testing.T) {
	svc, _, _ := newAuthService(t)
	ctx := context.Background()
	user := registerLandlord(t, svc, "lena@example.com")

	_, err := svc.Login(ctx, &dto.LoginRequest{Email: "lena@example.com", Password: "password123"})
	require.ErrorIs(t, err, ErrEmailNotVerified)
	assert.ErrorIs(t, err, ErrForbidden)

	require.NoError(t, svc.VerifyEmail(ctx, *user.VerificationToken))

	resp, err := svc.Login(ctx, &dto.LoginRequest{Email: "LENA@example.com", Password: "password123"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.EqualValues(t, 900, resp.ExpiresIn)
	assert.Equal(t, models.UserStatusActive, resp.User.Status)

	claims := jwt.MapClaims{}
	_, err = jwt.ParseWithClaims(resp.AccessToken, claims, func(*jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	require.NoError(t, err)
	assert.Equal(t, user.ID.String(), claims["sub"])
	assert.Equal(t, models.RoleLandlord, claims["role"])
	assert.Equal(t, "lena@example.com", claims["email"])
}

func TestLoginBadCredentials(t *testing.T) {
	svc, _, _ := newAuthService(t)
	registerLandlord(t, svc, "lena@example.com")

	_, err := svc.Login(context.Background(), &dto.LoginRequest{Email: "lena@example.com", Password: "wrong-password"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(context.Background(), &dto.LoginRequest{Email: "nobody@example.com", Password: "password123"})
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestVerificationTokenIsSingleUse(t *testing.T) {
	svc, db, _ := newAuthService(t)
	ctx := context.Background()
	user := registerLandlord(t, svc, "lena@example.com")
	token := *user.VerificationToken

	require.NoError(t, svc.VerifyEmail(ctx, token))
	assert.ErrorIs(t, svc.VerifyEmail(ctx, token), ErrInvalidVerifyToken)

	var stored models.User
	require.NoError(t, db.First(&stored, "id = ?", user.ID).Error)
	assert.True(t, stored.EmailVerified)
	assert.Nil(t, stored.VerificationToken)
	assert.Equal(t, models.UserStatusActive, stored.Status)
}

func TestResendVerification(t *testing.T) {
	svc, db, m := newAuthService(t)
	ctx := context.Background()
	user := registerLandlord(t, svc, "lena@example.com")
	first := *user.VerificationToken

	require.NoError(t, svc.ResendVerification(ctx, "lena@example.com"))
	require.Len(t, m.sent, 2)

	var stored models.User
	require.NoError(t, db.First(&stored, "id = ?", user.ID).Error)
	require.NotNil(t, stored.VerificationToken)
	assert.NotEqual(t, first, *stored.VerificationToken)
	assert.ErrorIs(t, svc.VerifyEmail(ctx, first), ErrInvalidVerifyToken)

	require.NoError(t, svc.VerifyEmail(ctx, *stored.VerificationToken))
	assert.ErrorIs(t, svc.ResendVerification(ctx, "lena@example.com"), ErrUserNotFound)
}

func TestRegisterWithoutVerificationGate(t *testing.T) {
	db := testutil.NewDB(t)
	cfg := testConfig()
	cfg.RequireEmailVerification = false
	m := &recordingMailer{}
	svc := NewAuthService(db, cfg, m)

	user := registerLandlord(t, svc, "lena@example.com")
	assert.True(t, user.EmailVerified)
	assert.Equal(t, models.UserStatusActive, user.Status)
	assert.Empty(t, m.sent)

	_, err := svc.Login(context.Background(), &dto.LoginRequest{Email: "lena@example.com", Password: "password123"})
	assert.NoError(t, err)
}

func TestRefreshRotatesToken(t *testing.T) {
	svc, _, _ := newAuthService(t)
	ctx := context.Background()
	user := registerLandlord(t, svc, "lena@example.com")
	require.NoError(t, svc.VerifyEmail(ctx, *user.VerificationToken))

	login, err := svc.Login(ctx, &dto.LoginRequest{Email: "lena@example.com", Password: "password123"})
	require.NoError(t, err)

	refreshed, err := svc.Refresh(ctx, &dto.RefreshRequest{RefreshToken: login.RefreshToken})
	require.NoError(t, err)
	assert.NotEqual(t, login.RefreshToken, refreshed.RefreshToken)

	_, err = svc.Refresh(ctx, &dto.RefreshRequest{RefreshToken: login.RefreshToken})
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestRefreshLosesToConcurrentRedemption(t *testing.T) {
	svc, db, _ := newAuthService(t)
	ctx := context.Background()
	user := registerLandlord(t, svc, "lena@example.com")
	require.NoError(t, svc.VerifyEmail(ctx, *user.VerificationToken))

	login, err := svc.Login(ctx, &dto.LoginRequest{Email: "lena@example.com", Password: "password123"})
	require.NoError(t, err)

	// A second refresh of the same token revokes it between our read and
	// our revoke.
	fired := false
	require.NoError(t, db.Callback().Query().After("gorm:query").Register("test:racing_refresh", func(tx *gorm.DB) {
		if fired || tx.Statement.Table != "refresh_tokens" {
			return
		}
		fired = true
		tx.AddError(tx.Session(&gorm.Session{NewDB: true}).
			Exec("UPDATE refresh_tokens SET revoked = ?", true).Error)
	}))

	_, err = svc.Refresh(ctx, &dto.RefreshRequest{RefreshToken: login.RefreshToken})
	require.True(t, fired)
	assert.ErrorIs(t, err, ErrInvalidToken)

	var issued int64
	require.NoError(t, db.Model(&models.RefreshToken{}).Where("user_id = ?", user.ID).Count(&issued).Error)
	assert.EqualValues(t, 1, issued)
}

func TestLogoutRevokesRefreshToken(t *testing.T) {
	svc, _, _ := newAuthService(t)
	ctx := context.Background()
	user := registerLandlord(t, svc, "lena@example.com")
	require.NoError(t, svc.VerifyEmail(ctx, *user.VerificationToken))

	login, err := svc.Login(ctx, &dto.LoginRequest{Email: "lena@example.com", Password: "password123"})
	require.NoError(t, err)

	p := principal.Principal{UserID: user.ID, Email: user.Email, Role: user.Role}
	require.NoError(t, svc.Logout(ctx, p, &dto.LogoutRequest{RefreshToken: login.RefreshToken}))

	_, err = svc.Refresh(ctx, &dto.RefreshRequest{RefreshToken: login.RefreshToken})
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestLandlordExistsAndMe(t *testing.T) {
	svc, _, _ := newAuthService(t)
	ctx := context.Background()
	user := registerLandlord(t, svc, "lena@example.com")

	exists, err := svc.LandlordExists(ctx, "Lena@example.com")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = svc.LandlordExists(ctx, "ghost@example.com")
	require.NoError(t, err)
	assert.False(t, exists)

	me, err := svc.Me(ctx, principal.Principal{UserID: user.ID, Role: user.Role})
	require.NoError(t, err)
	require.NotNil(t, me.Landlord)
	assert.Nil(t, me.Tenant)
}

func TestMarkVerified(t *testing.T) {
	svc, db, _ := newAuthService(t)
	ctx := context.Background()
	registerLandlord(t, svc, "lena@example.com")

	require.NoError(t, MarkVerified(ctx, db, "lena@example.com"))
	_, err := svc.Login(ctx, &dto.LoginRequest{Email: "lena@example.com", Password: "password123"})
	assert.NoError(t, err)

	assert.ErrorIs(t, MarkVerified(ctx, db, "ghost@example.com"), ErrUserNotFound)
}

func TestSplitName(t *testing.T) {
	first, last := splitName("  Mary Ann  Smith ")
	assert.Equal(t, "Mary", first)
	assert.Equal(t, "Ann Smith", last)

	first, last = splitName("Cher")
	assert.Equal(t, "Cher", first)
	assert.Empty(t, last)
	assert.False(t, strings.Contains(first, " "))
}
