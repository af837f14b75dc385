package auth

import (
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var saltPattern = regexp.MustCompile(`^[0-9a-f]{64}$`)

func TestBcryptHasher_SaltGeneration(t *testing.T) {
	h := NewBcryptHasher(10)

	first, err := h.GenerateSalt()
	require.NoError(t, err)
	assert.Regexp(t, saltPattern, first)

	second, err := h.GenerateSalt()
	require.NoError(t, err)
	assert.NotEqual(t, first, second, "salts must be random")
}

func TestBcryptHasher_Roundtrip(t *testing.T) {
	h := NewBcryptHasher(10)
	salt, err := h.GenerateSalt()
	require.NoError(t, err)

	hash, err := h.Hash(salt, "correct horse battery staple")
	require.NoError(t, err)
	require.NotEmpty(t, hash)

	assert.NoError(t, h.Compare(hash, salt, "correct horse battery staple"))
	assert.Error(t, h.Compare(hash, salt, "incorrect horse"))

	other, err := h.GenerateSalt()
	require.NoError(t, err)
	assert.Error(t, h.Compare(hash, other, "correct horse battery staple"), "a different salt must not verify")
}

func TestBcryptHasher_LongPassword(t *testing.T) {
	// The SHA256 prehash keeps inputs under bcrypt's 72-byte cap, so passwords
	// longer than the cap still verify and differ past byte 72.
	h := NewBcryptHasher(10)
	salt, err := h.GenerateSalt()
	require.NoError(t, err)

	long := strings.Repeat("a", 100)
	hash, err := h.Hash(salt, long)
	require.NoError(t, err)

	require.NoError(t, h.Compare(hash, salt, long))
	assert.Error(t, h.Compare(hash, salt, long+"b"))
}
