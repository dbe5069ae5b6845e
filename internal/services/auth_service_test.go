package services

import (
	"errors"
	"testing"

	"github.com/fnt-jany/day4/internal/config"
	"github.com/fnt-jany/day4/internal/dto"
	"github.com/fnt-jany/day4/internal/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubVerifier struct {
	claims *GoogleClaims
	err    error
}

func (v *stubVerifier) VerifyToken(idToken, audience string) (*GoogleClaims, error) {
	if v.err != nil {
		return nil, v.err
	}
	return v.claims, nil
}

func testConfig() *config.Config {
	cfg := config.Load()
	cfg.JWTSecret = "test-secret"
	return cfg
}

func TestGoogleSignInCreatesUser(t *testing.T) {
	db := openTestDB(t)
	svc := NewAuthServiceWithVerifier(db, testConfig(), &stubVerifier{
		claims: &GoogleClaims{
			Sub:     "google-123",
			Email:   "jane@example.com",
			Name:    "Jane",
			Picture: "https://example.com/jane.png",
		},
	})

	resp, err := svc.GoogleSignIn(&dto.GoogleSignInRequest{Credential: "id-token"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	require.NotNil(t, resp.User.Email)
	assert.Equal(t, "jane@example.com", *resp.User.Email)

	// token carries the user id as sub
	parsed, err := jwt.Parse(resp.Token, func(token *jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	require.NoError(t, err)
	sub, err := parsed.Claims.GetSubject()
	require.NoError(t, err)
	assert.Equal(t, "1", sub)
}

func TestGoogleSignInRefreshesProfileOnRepeat(t *testing.T) {
	db := openTestDB(t)
	verifier := &stubVerifier{claims: &GoogleClaims{Sub: "google-123", Name: "Jane"}}
	svc := NewAuthServiceWithVerifier(db, testConfig(), verifier)

	first, err := svc.GoogleSignIn(&dto.GoogleSignInRequest{Credential: "t1"})
	require.NoError(t, err)

	verifier.claims = &GoogleClaims{Sub: "google-123", Name: "Jane Doe"}
	second, err := svc.GoogleSignIn(&dto.GoogleSignInRequest{Credential: "t2"})
	require.NoError(t, err)

	assert.Equal(t, first.User.ID, second.User.ID, "same google_sub must stay the same user")
	require.NotNil(t, second.User.Name)
	assert.Equal(t, "Jane Doe", *second.User.Name)

	var count int64
	require.NoError(t, db.Model(&models.User{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestGoogleSignInRejectsBadTokens(t *testing.T) {
	db := openTestDB(t)

	svc := NewAuthServiceWithVerifier(db, testConfig(), &stubVerifier{err: errors.New("bad signature")})
	_, err := svc.GoogleSignIn(&dto.GoogleSignInRequest{Credential: "forged"})
	assert.ErrorIs(t, err, ErrInvalidCredential)

	_, err = svc.GoogleSignIn(&dto.GoogleSignInRequest{Credential: ""})
	assert.ErrorIs(t, err, ErrInvalidCredential)

	svc = NewAuthServiceWithVerifier(db, testConfig(), &stubVerifier{claims: &GoogleClaims{Sub: ""}})
	_, err = svc.GoogleSignIn(&dto.GoogleSignInRequest{Credential: "no-sub"})
	assert.ErrorIs(t, err, ErrInvalidCredential)
}

func TestGuestSignInReusesSharedAccount(t *testing.T) {
	db := openTestDB(t)
	svc := NewAuthServiceWithVerifier(db, testConfig(), &stubVerifier{})

	first, err := svc.GuestSignIn()
	require.NoError(t, err)
	second, err := svc.GuestSignIn()
	require.NoError(t, err)

	assert.Equal(t, first.User.ID, second.User.ID)

	var count int64
	require.NoError(t, db.Model(&models.User{}).Where("google_sub = ?", models.GuestSub).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestGetUser(t *testing.T) {
	db := openTestDB(t)
	svc := NewAuthServiceWithVerifier(db, testConfig(), &stubVerifier{})
	user := seedUser(t, db, "lookup-user")

	found, err := svc.GetUser(user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.ID, found.ID)

	_, err = svc.GetUser(999)
	assert.ErrorIs(t, err, ErrUserNotFound)
}
