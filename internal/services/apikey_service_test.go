package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueProducesResolvableKey(t *testing.T) {
	db := openTestDB(t)
	svc := NewAPIKeyService(db)
	user := seedUser(t, db, "key-owner")

	issued, err := svc.Issue(user.ID)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(issued.Key, APIKeyPrefix))
	assert.Len(t, issued.Prefix, keyPrefixLen)
	assert.Equal(t, issued.Key[:keyPrefixLen], issued.Prefix)
	assert.NotEmpty(t, issued.IssuedAt)

	resolved, err := svc.Resolve(issued.Key)
	require.NoError(t, err)
	assert.Equal(t, user.ID, resolved.ID)
}

func TestResolveRejectsUnknownAndMalformedKeys(t *testing.T) {
	db := openTestDB(t)
	svc := NewAPIKeyService(db)

	_, err := svc.Resolve("not-a-day4-key")
	assert.ErrorIs(t, err, ErrInvalidAPIKey)

	_, err = svc.Resolve(APIKeyPrefix + "AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA")
	assert.ErrorIs(t, err, ErrInvalidAPIKey)
}

func TestReissueInvalidatesPreviousKey(t *testing.T) {
	db := openTestDB(t)
	svc := NewAPIKeyService(db)
	user := seedUser(t, db, "reissue-owner")

	old, err := svc.Issue(user.ID)
	require.NoError(t, err)

	fresh, err := svc.Issue(user.ID)
	require.NoError(t, err)
	require.NotEqual(t, old.Key, fresh.Key)

	_, err = svc.Resolve(old.Key)
	assert.ErrorIs(t, err, ErrInvalidAPIKey)

	resolved, err := svc.Resolve(fresh.Key)
	require.NoError(t, err)
	assert.Equal(t, user.ID, resolved.ID)
}

func TestRevokeDropsCredential(t *testing.T) {
	db := openTestDB(t)
	svc := NewAPIKeyService(db)
	user := seedUser(t, db, "revoke-owner")

	issued, err := svc.Issue(user.ID)
	require.NoError(t, err)

	require.NoError(t, svc.Revoke(user.ID))

	_, err = svc.Resolve(issued.Key)
	assert.ErrorIs(t, err, ErrInvalidAPIKey)

	status, err := svc.Status(user.ID)
	require.NoError(t, err)
	assert.False(t, status.HasKey)
}

func TestStatusReportsStoredCredential(t *testing.T) {
	db := openTestDB(t)
	svc := NewAPIKeyService(db)
	user := seedUser(t, db, "status-owner")

	empty, err := svc.Status(user.ID)
	require.NoError(t, err)
	assert.False(t, empty.HasKey)

	issued, err := svc.Issue(user.ID)
	require.NoError(t, err)

	status, err := svc.Status(user.ID)
	require.NoError(t, err)
	assert.True(t, status.HasKey)
	assert.Equal(t, issued.Prefix, status.Prefix)
	assert.Equal(t, issued.IssuedAt, status.IssuedAt)
	assert.Equal(t, issued.Key, status.PlaintextKey)
}

func TestKeysAreScopedToTheirOwner(t *testing.T) {
	db := openTestDB(t)
	svc := NewAPIKeyService(db)
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")

	aliceKey, err := svc.Issue(alice.ID)
	require.NoError(t, err)
	bobKey, err := svc.Issue(bob.ID)
	require.NoError(t, err)

	resolved, err := svc.Resolve(aliceKey.Key)
	require.NoError(t, err)
	assert.Equal(t, alice.ID, resolved.ID)

	resolved, err = svc.Resolve(bobKey.Key)
	require.NoError(t, err)
	assert.Equal(t, bob.ID, resolved.ID)
}
