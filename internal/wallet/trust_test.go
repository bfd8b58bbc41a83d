package wallet

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTrust(t *testing.T) *TrustCache {
	t.Helper()
	key := make([]byte, 32)
	for i := range key {
		key[i] = byte(i)
	}
	tc, err := NewTrustCache(filepath.Join(t.TempDir(), "trust.bin"), key)
	require.NoError(t, err)
	return tc
}

// ---------------------------------------------------------------------------
// Grant / Trusted / Revoke
// ---------------------------------------------------------------------------

func TestTrustEmptyByDefault(t *testing.T) {
	tc := newTestTrust(t)
	assert.False(t, tc.Trusted("alice"))
}

func TestGrantAndTrusted(t *testing.T) {
	tc := newTestTrust(t)
	require.NoError(t, tc.Grant("alice"))
	assert.True(t, tc.Trusted("alice"))
	assert.False(t, tc.Trusted("bob"))
}

func TestRevoke(t *testing.T) {
	tc := newTestTrust(t)
	require.NoError(t, tc.Grant("alice"))
	require.NoError(t, tc.Revoke("alice"))
	assert.False(t, tc.Trusted("alice"))
}

func TestRevokeAbsentIsNoOp(t *testing.T) {
	tc := newTestTrust(t)
	assert.NoError(t, tc.Revoke("nobody"))
}

func TestClearRemovesAllGrants(t *testing.T) {
	tc := newTestTrust(t)
	require.NoError(t, tc.Grant("alice"))
	require.NoError(t, tc.Grant("bob"))
	require.NoError(t, tc.Clear())
	assert.False(t, tc.Trusted("alice"))
	assert.False(t, tc.Trusted("bob"))
}

func TestClearMissingFileIsNoOp(t *testing.T) {
	tc := newTestTrust(t)
	assert.NoError(t, tc.Clear())
}

// ---------------------------------------------------------------------------
// sealing
// ---------------------------------------------------------------------------

func TestGrantsPersistAcrossInstances(t *testing.T) {
	key := make([]byte, 32)
	path := filepath.Join(t.TempDir(), "trust.bin")

	tc, err := NewTrustCache(path, key)
	require.NoError(t, err)
	require.NoError(t, tc.Grant("alice"))

	tc2, err := NewTrustCache(path, key)
	require.NoError(t, err)
	assert.True(t, tc2.Trusted("alice"))
}

func TestTamperedFileReadsEmpty(t *testing.T) {
	key := make([]byte, 32)
	path := filepath.Join(t.TempDir(), "trust.bin")

	tc, err := NewTrustCache(path, key)
	require.NoError(t, err)
	require.NoError(t, tc.Grant("alice"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	data[len(data)-1] ^= 0xFF
	require.NoError(t, os.WriteFile(path, data, 0o600))

	assert.False(t, tc.Trusted("alice"), "a tampered cache must not grant trust")
}

func TestWrongKeyReadsEmpty(t *testing.T) {
	key := make([]byte, 32)
	path := filepath.Join(t.TempDir(), "trust.bin")

	tc, err := NewTrustCache(path, key)
	require.NoError(t, err)
	require.NoError(t, tc.Grant("alice"))

	other := make([]byte, 32)
	other[0] = 1
	tc2, err := NewTrustCache(path, other)
	require.NoError(t, err)
	assert.False(t, tc2.Trusted("alice"))
}

func TestTrustCacheRejectsShortKey(t *testing.T) {
	_, err := NewTrustCache(filepath.Join(t.TempDir(), "trust.bin"), []byte("short"))
	assert.Error(t, err)
}

// ---------------------------------------------------------------------------
// OpenTrustCache — key bootstrap through the keystore
// ---------------------------------------------------------------------------

func TestOpenTrustCacheGeneratesAndReusesKey(t *testing.T) {
	ks := NewInMemoryKeystore()

	tc, err := OpenTrustCache(ks)
	require.NoError(t, err)
	require.NotNil(t, tc)

	first, err := ks.Retrieve(keychainService + "." + trustKeyName)
	require.NoError(t, err)

	_, err = OpenTrustCache(ks)
	require.NoError(t, err)
	second, err := ks.Retrieve(keychainService + "." + trustKeyName)
	require.NoError(t, err)
	assert.Equal(t, first, second, "second open must reuse the stored key")
}
