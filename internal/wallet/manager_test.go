package wallet

import (
	"path/filepath"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager() *Manager {
	return NewManager(WithInMemoryStore(), WithKeystore(NewInMemoryKeystore()))
}

// ---------------------------------------------------------------------------
// Add / Get / Remove
// ---------------------------------------------------------------------------

func TestAddAndGetWatchOnly(t *testing.T) {
	m := newTestManager()
	addr := solana.NewWallet().PrivateKey.PublicKey().String()

	err := m.Add("watcher", &Wallet{Name: "watcher", Address: addr, Type: TypeWatchOnly})
	require.NoError(t, err)

	w, err := m.Get("watcher")
	require.NoError(t, err)
	assert.Equal(t, addr, w.Address)
	assert.Equal(t, TypeWatchOnly, w.Type)
	assert.NotEmpty(t, w.CreatedAt)
}

func TestAddWatchValidAddress(t *testing.T) {
	m := newTestManager()
	addr := solana.NewWallet().PrivateKey.PublicKey().String()

	require.NoError(t, m.AddWatch("watcher", addr))

	w, err := m.Get("watcher")
	require.NoError(t, err)
	assert.Equal(t, addr, w.Address)
	assert.Equal(t, TypeWatchOnly, w.Type)
}

func TestAddWatchRejectsBadAddress(t *testing.T) {
	m := newTestManager()
	err := m.AddWatch("typo", "not-a-base58-address!")
	assert.ErrorIs(t, err, ErrInvalidAddress)
	_, err = m.Get("typo")
	assert.ErrorIs(t, err, ErrWalletNotFound)
}

func TestAddDuplicateFails(t *testing.T) {
	m := newTestManager()
	require.NoError(t, m.Add("a", &Wallet{Name: "a"}))
	assert.ErrorIs(t, m.Add("a", &Wallet{Name: "a"}), ErrWalletExists)
}

func TestGetMissing(t *testing.T) {
	m := newTestManager()
	_, err := m.Get("ghost")
	assert.ErrorIs(t, err, ErrWalletNotFound)
}

func TestRemove(t *testing.T) {
	m := newTestManager()
	require.NoError(t, m.Add("a", &Wallet{Name: "a"}))
	require.NoError(t, m.Remove("a"))
	_, err := m.Get("a")
	assert.ErrorIs(t, err, ErrWalletNotFound)
}

func TestRemoveMissing(t *testing.T) {
	m := newTestManager()
	assert.ErrorIs(t, m.Remove("ghost"), ErrWalletNotFound)
}

// ---------------------------------------------------------------------------
// AddWithKey / Generate — signing wallets
// ---------------------------------------------------------------------------

func TestAddWithKeyDerivesAddress(t *testing.T) {
	m := newTestManager()
	key := solana.NewWallet().PrivateKey

	require.NoError(t, m.AddWithKey("signer", key.String()))

	w, err := m.Get("signer")
	require.NoError(t, err)
	assert.Equal(t, key.PublicKey().String(), w.Address)
	assert.Equal(t, TypeSigning, w.Type)
	assert.NotEmpty(t, w.KeyRef)

	stored, err := m.Keystore().Retrieve(w.KeyRef)
	require.NoError(t, err)
	assert.Equal(t, key.String(), stored)
}

func TestAddWithKeyInvalid(t *testing.T) {
	m := newTestManager()
	assert.ErrorIs(t, m.AddWithKey("bad", "not-base58!"), ErrInvalidKey)
}

func TestGenerateCreatesSigningWallet(t *testing.T) {
	m := newTestManager()
	w, err := m.Generate("fresh")
	require.NoError(t, err)
	assert.Equal(t, TypeSigning, w.Type)
	assert.NotEmpty(t, w.Address)
}

func TestRemoveEvictsKey(t *testing.T) {
	m := newTestManager()
	key := solana.NewWallet().PrivateKey
	require.NoError(t, m.AddWithKey("signer", key.String()))
	w, _ := m.Get("signer")

	require.NoError(t, m.Remove("signer"))

	_, err := m.Keystore().Retrieve(w.KeyRef)
	assert.Error(t, err, "key must be evicted with the wallet")
}

// ---------------------------------------------------------------------------
// default wallet
// ---------------------------------------------------------------------------

func TestSetDefaultIsExclusive(t *testing.T) {
	m := newTestManager()
	require.NoError(t, m.Add("a", &Wallet{Name: "a"}))
	require.NoError(t, m.Add("b", &Wallet{Name: "b"}))

	require.NoError(t, m.SetDefault("a"))
	require.NoError(t, m.SetDefault("b"))

	def := m.Default()
	require.NotNil(t, def)
	assert.Equal(t, "b", def.Name)

	a, _ := m.Get("a")
	assert.False(t, a.IsDefault)
}

func TestDefaultFallsBackToOnlyWallet(t *testing.T) {
	m := newTestManager()
	require.NoError(t, m.Add("only", &Wallet{Name: "only"}))

	def := m.Default()
	require.NotNil(t, def)
	assert.Equal(t, "only", def.Name)
}

func TestDefaultNoneConfigured(t *testing.T) {
	m := newTestManager()
	require.NoError(t, m.Add("a", &Wallet{Name: "a"}))
	require.NoError(t, m.Add("b", &Wallet{Name: "b"}))
	assert.Nil(t, m.Default())
}

// ---------------------------------------------------------------------------
// JSON store round trip
// ---------------------------------------------------------------------------

func TestJSONStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wallets.json")

	m := NewManager(WithStore(NewJSONStore(path)), WithKeystore(NewInMemoryKeystore()))
	require.NoError(t, m.Add("a", &Wallet{Name: "a", Address: "addr", Type: TypeWatchOnly}))

	reloaded := NewManager(WithStore(NewJSONStore(path)), WithKeystore(NewInMemoryKeystore()))
	w, err := reloaded.Get("a")
	require.NoError(t, err)
	assert.Equal(t, "addr", w.Address)
}

func TestJSONStoreMissingFileIsEmpty(t *testing.T) {
	store := NewJSONStore(filepath.Join(t.TempDir(), "nope.json"))
	wallets, err := store.Load()
	require.NoError(t, err)
	assert.Empty(t, wallets)
}
