package services

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"time"

	"github.com/ahmetcoskunkizilkaya/lettings-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/lettings-backend/internal/dto"
	mailer "github.com/ahmetcoskunkizilkaya/lettings-backend/internal/mail"
	"github.com/ahmetcoskunkizilkaya/lettings-backend/internal/metrics"
	"github.com/ahmetcoskunkizilkaya/lettings-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/lettings-backend/internal/principal"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const minPasswordLength = 8

type AuthService struct {
	db     *gorm.DB
	cfg    *config.Config
	mailer mailer.Mailer
}

func NewAuthService(db *gorm.DB, cfg *config.Config, m mailer.Mailer) *AuthService {
	return &AuthService{db: db, cfg: cfg, mailer: m}
}

// Register creates the user and its landlord or tenant profile in one
// transaction, then sends the verification e-mail. A tenant whose landlord
// cannot be found leaves nothing behind.
func (s *AuthService) Register(ctx context.Context, req *dto.RegisterRequest) (user *models.User, err error) {
	role := strings.ToUpper(strings.TrimSpace(req.Role))
	if role == "" {
		role = models.RoleLandlord
	}
	defer func() {
		metrics.AuthRegistrationsTotal.WithLabelValues(role, metrics.Result(err)).Inc()
	}()

	email, err := normalizeEmail(req.Email)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.Name) == "" {
		return nil, validationf("name is required")
	}
	if len(req.Password) < minPasswordLength {
		return nil, validationf("password must be at least %d characters", minPasswordLength)
	}
	if err := oneOf("role", role, []string{models.RoleLandlord, models.RoleTenant}); err != nil {
		return nil, err
	}

	var landlordEmail string
	if role == models.RoleTenant {
		if landlordEmail, err = normalizeEmail(req.LandlordEmail); err != nil {
			return nil, validationf("landlordEmail is required for tenants")
		}
	}

	var existing int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).Where("email = ?", email).Count(&existing).Error; err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if existing > 0 {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	firstName, lastName := strings.TrimSpace(req.FirstName), strings.TrimSpace(req.LastName)
	if firstName == "" && lastName == "" {
		firstName, lastName = splitName(req.Name)
	}

	user = &models.User{
		Email:    email,
		Name:     strings.TrimSpace(req.Name),
		Password: string(hash),
		Role:     role,
		Status:   models.UserStatusPendingVerification,
	}
	var token string
	if s.cfg.RequireEmailVerification {
		if token, err = newVerificationToken(); err != nil {
			return nil, err
		}
		user.VerificationToken = &token
	} else {
		user.Status = models.UserStatusActive
		user.EmailVerified = true
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrEmailTaken
			}
			return fmt.Errorf("failed to create user: %w", err)
		}

		if role == models.RoleLandlord {
			landlord := models.Landlord{
				UserID:      user.ID,
				FirstName:   firstName,
				LastName:    lastName,
				Phone:       strings.TrimSpace(req.Phone),
				CompanyName: strings.TrimSpace(req.CompanyName),
			}
			if err := tx.Create(&landlord).Error; err != nil {
				return fmt.Errorf("failed to create landlord profile: %w", err)
			}
			return nil
		}

		var landlord models.Landlord
		err := tx.Where("user_id IN (?)", tx.Session(&gorm.Session{NewDB: true}).
			Model(&models.User{}).
			Select("id").
			Where("email = ? AND role = ?", landlordEmail, models.RoleLandlord)).
			First(&landlord).Error
		if err != nil {
			return notFound(err, ErrLandlordNotFound, "landlord")
		}

		tenant := models.Tenant{
			UserID:     user.ID,
			LandlordID: &landlord.ID,
			FirstName:  firstName,
			LastName:   lastName,
			Phone:      strings.TrimSpace(req.Phone),
		}
		if err := tx.Create(&tenant).Error; err != nil {
			return fmt.Errorf("failed to create tenant profile: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if token != "" {
		if err := s.mailer.Send(ctx, mailer.VerificationMessage(user.Email, s.cfg.AppBaseURL, token)); err != nil {
			slog.Error("verification email failed", "user_id", user.ID.String(), "action", "register", "error", err)
		}
	}

	slog.Info("user registered", "user_id", user.ID.String(), "role", role)
	return user, nil
}

// VerifyEmail consumes a verification token and activates the account.
func (s *AuthService) VerifyEmail(ctx context.Context, token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return validationf("token is required")
	}

	result := s.db.WithContext(ctx).Model(&models.User{}).
		Where("verification_token = ? AND email_verified = ?", token, false).
		Updates(map[string]interface{}{
			"email_verified":     true,
			"verification_token": nil,
			"status":             models.UserStatusActive,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to verify email: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrInvalidVerifyToken
	}
	return nil
}

// ResendVerification issues a fresh token to an unverified user.
func (s *AuthService) ResendVerification(ctx context.Context, email string) error {
	email, err := normalizeEmail(email)
	if err != nil {
		return err
	}

	var user models.User
	if err := s.db.WithContext(ctx).Where("email = ? AND email_verified = ?", email, false).First(&user).Error; err != nil {
		return notFound(err, ErrUserNotFound, "user")
	}

	token, err := newVerificationToken()
	if err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Model(&user).Update("verification_token", token).Error; err != nil {
		return fmt.Errorf("failed to store verification token: %w", err)
	}

	if err := s.mailer.Send(ctx, mailer.VerificationMessage(user.Email, s.cfg.AppBaseURL, token)); err != nil {
		return fmt.Errorf("failed to send verification email: %w", err)
	}
	return nil
}

// LandlordExists reports whether a landlord account is registered under email.
func (s *AuthService) LandlordExists(ctx context.Context, email string) (bool, error) {
	email, err := normalizeEmail(email)
	if err != nil {
		return false, err
	}

	var count int64
	err = s.db.WithContext(ctx).Model(&models.Landlord{}).
		Where("user_id IN (?)", s.db.Model(&models.User{}).Select("id").
			Where("email = ? AND role = ?", email, models.RoleLandlord)).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to look up landlord: %w", err)
	}
	return count > 0, nil
}

func (s *AuthService) Login(ctx context.Context, req *dto.LoginRequest) (resp *dto.AuthResponse, err error) {
	defer func() {
		metrics.AuthLoginsTotal.WithLabelValues(metrics.Result(err)).Inc()
	}()

	email := strings.ToLower(strings.TrimSpace(req.Email))
	var user models.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	if s.cfg.RequireEmailVerification && !user.EmailVerified {
		return nil, ErrEmailNotVerified
	}

	return s.generateTokenPair(ctx, "login", &user)
}

func (s *AuthService) Refresh(ctx context.Context, req *dto.RefreshRequest) (*dto.AuthResponse, error) {
	tokenHash := hashToken(req.RefreshToken)
	db := s.db.WithContext(ctx)

	var stored models.RefreshToken
	if err := db.Where("token_hash = ? AND revoked = ?", tokenHash, false).First(&stored).Error; err != nil {
		return nil, ErrInvalidToken
	}

	// Only one caller can flip the row, so a token is never redeemed twice.
	res := db.Model(&models.RefreshToken{}).
		Where("id = ? AND revoked = ?", stored.ID, false).
		Update("revoked", true)
	if res.Error != nil {
		return nil, fmt.Errorf("failed to revoke refresh token: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrInvalidToken
	}
	if time.Now().After(stored.ExpiresAt) {
		return nil, ErrInvalidToken
	}

	var user models.User
	if err := db.First(&user, "id = ?", stored.UserID).Error; err != nil {
		return nil, ErrInvalidToken
	}
	if s.cfg.RequireEmailVerification && !user.EmailVerified {
		return nil, ErrEmailNotVerified
	}

	return s.generateTokenPair(ctx, "refresh", &user)
}

func (s *AuthService) Logout(ctx context.Context, p principal.Principal, req *dto.LogoutRequest) error {
	tokenHash := hashToken(req.RefreshToken)
	return s.db.WithContext(ctx).Model(&models.RefreshToken{}).
		Where("token_hash = ? AND user_id = ?", tokenHash, p.UserID).
		Update("revoked", true).Error
}

// Me returns the caller with its profile loaded.
func (s *AuthService) Me(ctx context.Context, p principal.Principal) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Preload("Landlord").Preload("Tenant").First(&user, "id = ?", p.UserID).Error; err != nil {
		return nil, notFound(err, ErrUserNotFound, "user")
	}
	return &user, nil
}

func (s *AuthService) generateTokenPair(ctx context.Context, flow string, user *models.User) (resp *dto.AuthResponse, err error) {
	defer func() {
		metrics.TokensIssuedTotal.WithLabelValues(flow, metrics.Result(err)).Inc()
	}()

	accessToken, err := s.generateAccessToken(user)
	if err != nil {
		return nil, err
	}

	refreshToken, err := s.generateRefreshToken(ctx, user)
	if err != nil {
		return nil, err
	}

	return &dto.AuthResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(s.cfg.JWTAccessExpiry.Seconds()),
		User:         dto.NewUserResponse(user),
	}, nil
}

func (s *AuthService) generateAccessToken(user *models.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   user.ID.String(),
		"email": user.Email,
		"role":  user.Role,
		"iat":   now.Unix(),
		"exp":   now.Add(s.cfg.JWTAccessExpiry).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}

func (s *AuthService) generateRefreshToken(ctx context.Context, user *models.User) (string, error) {
	rawBytes := make([]byte, 32)
	if _, err := rand.Read(rawBytes); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}

	rawToken := base64.URLEncoding.EncodeToString(rawBytes)
	record := models.RefreshToken{
		UserID:    user.ID,
		TokenHash: hashToken(rawToken),
		ExpiresAt: time.Now().Add(s.cfg.JWTRefreshExpiry),
	}

	if err := s.db.WithContext(ctx).Create(&record).Error; err != nil {
		return "", fmt.Errorf("failed to store refresh token: %w", err)
	}

	return rawToken, nil
}

// MarkVerified activates a user without a token. Used by the ops CLI.
func MarkVerified(ctx context.Context, db *gorm.DB, email string) error {
	email, err := normalizeEmail(email)
	if err != nil {
		return err
	}
	result := db.WithContext(ctx).Model(&models.User{}).
		Where("email = ?", email).
		Updates(map[string]interface{}{
			"email_verified":     true,
			"verification_token": nil,
			"status":             models.UserStatusActive,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to verify user: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

func newVerificationToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate verification token: %w", err)
	}
	return hex.EncodeToString(b), nil
}

func normalizeEmail(s string) (string, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return "", validationf("email is required")
	}
	addr, err := mail.ParseAddress(s)
	if err != nil || addr.Address != s {
		return "", validationf("email is invalid")
	}
	return s, nil
}

func splitName(name string) (string, string) {
	parts := strings.Fields(name)
	switch len(parts) {
	case 0:
		return "", ""
	case 1:
		return parts[0], ""
	default:
		return parts[0], strings.Join(parts[1:], " ")
	}
}

func hashToken(token string) string {
	h := sha256.Sum256([]byte(token))
	return fmt.Sprintf("%x", h)
}
