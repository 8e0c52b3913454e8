// AngelaMos | 2026
// security_test.go

package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("correct horse battery")
	require.NoError(t, err)
	assert.Contains(t, hash, "$argon2id$")

	ok, err := VerifyPassword("correct horse battery", hash)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = VerifyPassword("wrong", hash)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestVerifyPasswordWithRehash(t *testing.T) {
	weak := Argon2Params{Time: 1, Memory: 8 * 1024, Threads: 1, KeyLen: 32}
	stale, err := hashWithParams("password123", weak)
	require.NoError(t, err)

	ok, newHash, err := VerifyPasswordWithRehash("password123", stale)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.NotEmpty(t, newHash)
	assert.False(t, needsRehash(newHash))

	current, err := HashPassword("password123")
	require.NoError(t, err)
	ok, newHash, err = VerifyPasswordWithRehash("password123", current)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Empty(t, newHash)
}

func TestVerifyPasswordTimingSafeMissingAccount(t *testing.T) {
	ok, newHash, err := VerifyPasswordTimingSafe("anything", nil)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, newHash)

	empty := ""
	ok, _, err = VerifyPasswordTimingSafe("anything", &empty)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestDecodeHashRejectsGarbage(t *testing.T) {
	_, err := VerifyPassword("x", "not-a-hash")
	assert.Error(t, err)

	_, err = VerifyPassword("x", "$bcrypt$v=19$m=1,t=1,p=1$c2FsdA$aGFzaA")
	assert.Error(t, err)
}
