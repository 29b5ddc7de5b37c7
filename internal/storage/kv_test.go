package storage

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forexadvisor/forexadvisor/internal/database"
)

func setupBlob(t *testing.T) *Blob {
	t.Helper()

	db, err := database.NewInMemory()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	blob, err := NewBlob(db.Conn(), zerolog.Nop())
	require.NoError(t, err)
	return blob
}

func TestBlobGetSetRemove(t *testing.T) {
	blob := setupBlob(t)

	// Missing key
	_, ok, err := blob.Get("missing")
	require.NoError(t, err)
	assert.False(t, ok)

	// Set then get
	require.NoError(t, blob.Set("wallet_balance_v1", "40000"))
	val, ok, err := blob.Get("wallet_balance_v1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "40000", val)

	// Overwrite
	require.NoError(t, blob.Set("wallet_balance_v1", "35000"))
	val, _, err = blob.Get("wallet_balance_v1")
	require.NoError(t, err)
	assert.Equal(t, "35000", val)

	// Remove, then removing again is a no-op
	require.NoError(t, blob.Remove("wallet_balance_v1"))
	_, ok, err = blob.Get("wallet_balance_v1")
	require.NoError(t, err)
	assert.False(t, ok)
	require.NoError(t, blob.Remove("wallet_balance_v1"))
}

func TestBlobJSONRoundTrip(t *testing.T) {
	blob := setupBlob(t)

	type record struct {
		Pair   string  `json:"pair"`
		Amount float64 `json:"amount"`
	}

	in := []record{
		{Pair: "USD/PKR", Amount: 10000},
		{Pair: "EUR/USD", Amount: 2500},
	}
	require.NoError(t, blob.SetJSON("investments_v1", in))

	var out []record
	ok, err := blob.GetJSON("investments_v1", &out)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, in, out)
}

func TestBlobJSONMissingKey(t *testing.T) {
	blob := setupBlob(t)

	var out []string
	ok, err := blob.GetJSON("forex_rate_alerts_v1", &out)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, out)
}
