package services

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fnt-jany/day4/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// APIKeyPrefix tags every chatbot key. Presented keys that don't carry it
// are rejected before any lookup.
const APIKeyPrefix = "day4_ck_"

// keyPrefixLen is how many leading characters of a key are safe to show
// in the UI after issuance.
const keyPrefixLen = 16

// Credential settings. Exactly one active credential per user; issuing a
// new key overwrites all four rows. The plaintext value is retained only
// so the UI can show the current key again — a deliberate UX tradeoff.
const (
	settingAPIKeyHash     = "chatbot_api_key_hash"
	settingAPIKeyPrefix   = "chatbot_api_key_prefix"
	settingAPIKeyIssuedAt = "chatbot_api_key_issued_at"
	settingAPIKeyValue    = "chatbot_api_key_value"
)

var (
	ErrInvalidAPIKey      = errors.New("invalid api key")
	ErrCredentialConflict = errors.New("api key matches multiple users")
)

// APIKeyService issues, validates and revokes scoped chatbot API keys.
type APIKeyService struct {
	db *gorm.DB
}

func NewAPIKeyService(db *gorm.DB) *APIKeyService {
	return &APIKeyService{db: db}
}

type IssuedKey struct {
	Key      string
	Prefix   string
	IssuedAt string
}

type KeyStatus struct {
	HasKey       bool
	Prefix       string
	IssuedAt     string
	PlaintextKey string
}

// Issue generates a new key and overwrites the user's previous credential.
// The old key stops resolving the moment the new hash lands.
func (s *APIKeyService) Issue(userID int) (*IssuedKey, error) {
	rawBytes := make([]byte, 32)
	if _, err := rand.Read(rawBytes); err != nil {
		return nil, fmt.Errorf("failed to generate random bytes: %w", err)
	}

	key := APIKeyPrefix + base64.RawURLEncoding.EncodeToString(rawBytes)
	prefix := key[:keyPrefixLen]
	issuedAt := time.Now().UTC().Format(time.RFC3339)

	settings := map[string]string{
		settingAPIKeyHash:     hashAPIKey(key),
		settingAPIKeyPrefix:   prefix,
		settingAPIKeyIssuedAt: issuedAt,
		settingAPIKeyValue:    key,
	}
	for k, v := range settings {
		if err := s.setSetting(userID, k, v); err != nil {
			return nil, fmt.Errorf("failed to store credential: %w", err)
		}
	}

	return &IssuedKey{Key: key, Prefix: prefix, IssuedAt: issuedAt}, nil
}

// Status is read-only; it never recomputes or regenerates anything.
func (s *APIKeyService) Status(userID int) (*KeyStatus, error) {
	hash, ok, err := s.getSetting(userID, settingAPIKeyHash)
	if err != nil {
		return nil, err
	}
	if !ok || hash == "" {
		return &KeyStatus{}, nil
	}

	status := &KeyStatus{HasKey: true}
	if v, ok, err := s.getSetting(userID, settingAPIKeyPrefix); err != nil {
		return nil, err
	} else if ok {
		status.Prefix = v
	}
	if v, ok, err := s.getSetting(userID, settingAPIKeyIssuedAt); err != nil {
		return nil, err
	} else if ok {
		status.IssuedAt = v
	}
	if v, ok, err := s.getSetting(userID, settingAPIKeyValue); err != nil {
		return nil, err
	} else if ok {
		status.PlaintextKey = v
	}
	return status, nil
}

// Revoke deletes the credential. Subsequent Resolve calls with the old key
// fail.
func (s *APIKeyService) Revoke(userID int) error {
	return s.db.
		Where("user_id = ? AND key IN ?", userID, []string{
			settingAPIKeyHash,
			settingAPIKeyPrefix,
			settingAPIKeyIssuedAt,
			settingAPIKeyValue,
		}).
		Delete(&models.UserSetting{}).Error
}

// Resolve maps a presented key to its owning user. The stored hash is never
// compared to the plaintext: the presented key is re-hashed and looked up.
func (s *APIKeyService) Resolve(presentedKey string) (*models.User, error) {
	if !strings.HasPrefix(presentedKey, APIKeyPrefix) {
		return nil, ErrInvalidAPIKey
	}

	digest := hashAPIKey(presentedKey)

	var matches []models.UserSetting
	if err := s.db.
		Where("key = ? AND value = ?", settingAPIKeyHash, digest).
		Find(&matches).Error; err != nil {
		return nil, fmt.Errorf("credential lookup failed: %w", err)
	}

	switch len(matches) {
	case 0:
		return nil, ErrInvalidAPIKey
	case 1:
		// fall through
	default:
		// One credential per user means one hash per key. More than one
		// owner is corrupt state, not a valid match.
		return nil, ErrCredentialConflict
	}

	var user models.User
	if err := s.db.First(&user, "id = ?", matches[0].UserID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidAPIKey
		}
		return nil, fmt.Errorf("credential owner lookup failed: %w", err)
	}
	return &user, nil
}

func (s *APIKeyService) setSetting(userID int, key, value string) error {
	setting := models.UserSetting{UserID: userID, Key: key, Value: value}
	return s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&setting).Error
}

func (s *APIKeyService) getSetting(userID int, key string) (string, bool, error) {
	var setting models.UserSetting
	err := s.db.Where("user_id = ? AND key = ?", userID, key).First(&setting).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return setting.Value, true, nil
}

func hashAPIKey(key string) string {
	h := sha256.Sum256([]byte(key))
	return fmt.Sprintf("%x", h)
}
