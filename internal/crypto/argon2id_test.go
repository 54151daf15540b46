package crypto_test

import (
	"strings"
	"testing"

	"pencil/internal/crypto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArgon2idHasher(t *testing.T) {
	t.Parallel()
	hasher := crypto.NewArgon2idHasher(1, 1024*8, 32, 16, 1)

	hash, err := hasher.Hash("secret room")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(hash, "$argon2id$"))

	match, err := hasher.Compare(hash, "secret room")
	assert.NoError(t, err)
	assert.True(t, match)

	match, err = hasher.Compare(hash, "wrong")
	assert.NoError(t, err)
	assert.False(t, match)

	_, err = hasher.Compare("not-a-hash", "secret room")
	assert.Error(t, err)
}
