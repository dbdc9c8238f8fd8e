package models

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueAPIKey(t *testing.T) {
	u := &User{Name: "Vibhu", Email: "vibhu@example.com"}

	raw, err := u.IssueAPIKey()
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(raw, "aether_"))
	assert.Equal(t, HashAPIKey(raw), u.APIKeyHash)
	assert.Equal(t, raw[:16], u.APIKeyPrefix)
	assert.NotNil(t, u.APIKeyCreatedAt)
	assert.Nil(t, u.APIKeyLastUsedAt)

	second, err := u.IssueAPIKey()
	require.NoError(t, err)
	assert.NotEqual(t, raw, second)
}

func TestHashAPIKeyTrimsWhitespace(t *testing.T) {
	assert.Equal(t, HashAPIKey("aether_key"), HashAPIKey("  aether_key \n"))
}

func TestCheckPasswordHash(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	require.NoError(t, err)

	assert.True(t, CheckPasswordHash("correct horse battery staple", hash))
	assert.False(t, CheckPasswordHash("wrong password", hash))
}

func TestPreferenceList(t *testing.T) {
	p := &UserProfile{Preferences: "likes hiking\n\n  prefers short answers  \n"}
	assert.Equal(t, []string{"likes hiking", "prefers short answers"}, p.PreferenceList())

	assert.Empty(t, (&UserProfile{}).PreferenceList())
}
