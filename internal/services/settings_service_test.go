package services

import (
	"testing"

	"github.com/fnt-jany/day4/internal/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strp(s string) *string { return &s }

func TestSettingsDefaults(t *testing.T) {
	db := openTestDB(t)
	svc := NewSettingsService(db)
	user := seedUser(t, db, "settings-user")

	settings, err := svc.Get(user.ID)
	require.NoError(t, err)
	assert.Equal(t, "equal", settings.ChartSpacingMode)
	assert.Equal(t, "ko", settings.Language)
}

func TestSettingsUpdateRoundTrip(t *testing.T) {
	db := openTestDB(t)
	svc := NewSettingsService(db)
	user := seedUser(t, db, "settings-user")

	err := svc.Update(user.ID, &dto.UpdateSettingsRequest{
		ChartSpacingMode: strp("actual"),
		Language:         strp("en"),
	})
	require.NoError(t, err)

	settings, err := svc.Get(user.ID)
	require.NoError(t, err)
	assert.Equal(t, "actual", settings.ChartSpacingMode)
	assert.Equal(t, "en", settings.Language)

	// partial update leaves the other value alone
	require.NoError(t, svc.Update(user.ID, &dto.UpdateSettingsRequest{Language: strp("ko")}))
	settings, err = svc.Get(user.ID)
	require.NoError(t, err)
	assert.Equal(t, "actual", settings.ChartSpacingMode)
	assert.Equal(t, "ko", settings.Language)
}

func TestSettingsUpdateRejectsUnknownValues(t *testing.T) {
	db := openTestDB(t)
	svc := NewSettingsService(db)
	user := seedUser(t, db, "settings-user")

	err := svc.Update(user.ID, &dto.UpdateSettingsRequest{ChartSpacingMode: strp("diagonal")})
	assert.ErrorIs(t, err, ErrInvalidSetting)

	err = svc.Update(user.ID, &dto.UpdateSettingsRequest{})
	assert.ErrorIs(t, err, ErrInvalidSetting)
}
