package services

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/fnt-jany/day4/internal/config"
	"github.com/fnt-jany/day4/internal/dto"
	"github.com/fnt-jany/day4/internal/models"
	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrInvalidCredential = errors.New("invalid token")
	ErrUserNotFound      = errors.New("user not found")
)

type AuthService struct {
	db       *gorm.DB
	cfg      *config.Config
	verifier IdentityVerifier
}

func NewAuthService(db *gorm.DB, cfg *config.Config) *AuthService {
	return &AuthService{
		db:       db,
		cfg:      cfg,
		verifier: NewGoogleJWKSClient(),
	}
}

// NewAuthServiceWithVerifier injects a verifier, used by tests.
func NewAuthServiceWithVerifier(db *gorm.DB, cfg *config.Config, verifier IdentityVerifier) *AuthService {
	return &AuthService{db: db, cfg: cfg, verifier: verifier}
}

// GoogleSignIn verifies the ID token, upserts the user on google_sub
// (profile fields are refreshed on every login) and issues a session token.
func (s *AuthService) GoogleSignIn(req *dto.GoogleSignInRequest) (*dto.AuthResponse, error) {
	if req.Credential == "" {
		return nil, ErrInvalidCredential
	}

	claims, err := s.verifier.VerifyToken(req.Credential, s.cfg.GoogleClientID)
	if err != nil {
		slog.Error("google token verification failed", "error", err)
		return nil, ErrInvalidCredential
	}
	if claims.Sub == "" {
		return nil, ErrInvalidCredential
	}

	user, err := s.upsertUser(claims.Sub, nullable(claims.Email), nullable(claims.Name), nullable(claims.Picture))
	if err != nil {
		return nil, err
	}
	return s.buildAuthResponse(user)
}

// GuestSignIn boots (or reuses) the shared guest account.
func (s *AuthService) GuestSignIn() (*dto.AuthResponse, error) {
	guestName := "Guest"
	user, err := s.upsertUser(models.GuestSub, nil, &guestName, nil)
	if err != nil {
		return nil, err
	}
	return s.buildAuthResponse(user)
}

func (s *AuthService) GetUser(userID int) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (s *AuthService) upsertUser(googleSub string, email, name, pictureURL *string) (*models.User, error) {
	user := models.User{
		GoogleSub:  googleSub,
		Email:      email,
		Name:       name,
		PictureURL: pictureURL,
	}
	err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "google_sub"}},
		DoUpdates: clause.AssignmentColumns([]string{"email", "name", "picture_url", "updated_at"}),
	}).Create(&user).Error
	if err != nil {
		return nil, fmt.Errorf("failed to upsert user: %w", err)
	}

	// Re-read: on the conflict path the insert doesn't report the
	// existing row's id.
	var stored models.User
	if err := s.db.First(&stored, "google_sub = ?", googleSub).Error; err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	return &stored, nil
}

func (s *AuthService) buildAuthResponse(user *models.User) (*dto.AuthResponse, error) {
	token, err := s.signToken(user)
	if err != nil {
		return nil, err
	}
	return &dto.AuthResponse{
		Token: token,
		User: dto.UserResponse{
			ID:         user.ID,
			Email:      user.Email,
			Name:       user.Name,
			PictureURL: user.PictureURL,
		},
	}, nil
}

func (s *AuthService) signToken(user *models.User) (string, error) {
	claims := jwt.MapClaims{
		"sub":        strconv.Itoa(user.ID),
		"google_sub": user.GoogleSub,
		"iat":        time.Now().Unix(),
		"exp":        time.Now().Add(s.cfg.JWTExpiry).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
