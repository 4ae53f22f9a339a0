package keys

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"
)

func TestKeyringStoreRoundTrip(t *testing.T) {
	keyring.MockInit()
	store := &KeyringStore{}

	_, err := store.Get(TokenID)
	assert.ErrorIs(t, err, ErrKeyNotFound)

	require.NoError(t, store.Put(TokenID, "secret"))
	got, err := store.Get(TokenID)
	require.NoError(t, err)
	assert.Equal(t, "secret", got)

	require.NoError(t, store.Delete(TokenID))
	require.NoError(t, store.Delete(TokenID), "deleting a missing entry is fine")
	_, err = store.Get(TokenID)
	assert.ErrorIs(t, err, ErrKeyNotFound)

	assert.Error(t, store.Put(TokenID, "  "))
	assert.True(t, KeyringAvailable())
}

func TestResolveToken(t *testing.T) {
	keyring.MockInit()
	store := &KeyringStore{Service: "sprout-test"}

	assert.Equal(t, "", ResolveToken("", store))
	assert.Equal(t, "", ResolveToken("", nil))

	require.NoError(t, store.Put(TokenID, "from-keyring"))
	assert.Equal(t, "from-keyring", ResolveToken("", store))
	assert.Equal(t, "from-config", ResolveToken(" from-config ", store))
}
