package wallet

import (
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/crypto/chacha20poly1305"
)

// trustKeyName is the keychain entry holding the trust-cache sealing key.
const trustKeyName = "trust-key"

// TrustCache records which wallets the user has approved for silent
// connects. It is the moral equivalent of a browser wallet's per-site
// trust list: a trusted-only connect succeeds without prompting exactly
// when a grant is present here. Grants key on the wallet address, so a
// grant covers one keypair and dies with it; removing a wallet and
// re-adding the name with a different key requires a fresh approval.
//
// The cache file is sealed with XChaCha20-Poly1305 under a key held in
// the OS keychain, so another local user cannot forge a grant by editing
// the file. An unreadable or tampered file reads as an empty cache.
type TrustCache struct {
	path string
	aead cipher.AEAD
}

// trustFilePath returns the per-user trust cache file.
//
//	macOS:   ~/Library/Caches/solpay/trust.bin
//	Linux:   ~/.cache/solpay/trust.bin
//	Windows: %LocalAppData%\solpay\trust.bin
func trustFilePath() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "solpay", "trust.bin")
}

// NewTrustCache creates a trust cache at path sealed with key.
func NewTrustCache(path string, key []byte) (*TrustCache, error) {
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, fmt.Errorf("trust cache key: %w", err)
	}
	return &TrustCache{path: path, aead: aead}, nil
}

// OpenTrustCache opens the default trust cache, fetching the sealing key
// from the keystore or generating one on first use.
func OpenTrustCache(ks KeystoreBackend) (*TrustCache, error) {
	encoded, err := ks.Retrieve(keychainService + "." + trustKeyName)
	if err != nil {
		key := make([]byte, chacha20poly1305.KeySize)
		if _, err := rand.Read(key); err != nil {
			return nil, fmt.Errorf("generating trust key: %w", err)
		}
		if _, err := ks.Store(trustKeyName, base64.StdEncoding.EncodeToString(key)); err != nil {
			return nil, fmt.Errorf("storing trust key: %w", err)
		}
		return NewTrustCache(trustFilePath(), key)
	}

	key, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("decoding trust key: %w", err)
	}
	return NewTrustCache(trustFilePath(), key)
}

// Trusted reports whether a prior grant exists for the wallet.
func (t *TrustCache) Trusted(name string) bool {
	_, ok := t.read()[name]
	return ok
}

// Grant records an approval for the wallet.
func (t *TrustCache) Grant(name string) error {
	grants := t.read()
	grants[name] = time.Now().UTC().Format(time.RFC3339)
	return t.write(grants)
}

// Revoke removes the wallet's grant. Revoking an absent grant is a no-op.
func (t *TrustCache) Revoke(name string) error {
	grants := t.read()
	if _, ok := grants[name]; !ok {
		return nil
	}
	delete(grants, name)
	return t.write(grants)
}

// Clear removes all grants by deleting the cache file.
func (t *TrustCache) Clear() error {
	err := os.Remove(t.path)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// --- internal ---

// read returns the grant map. Returns an empty map (never nil) on any
// error, including a tampered or truncated file.
func (t *TrustCache) read() map[string]string {
	sealed, err := os.ReadFile(t.path)
	if err != nil || len(sealed) < t.aead.NonceSize() {
		return make(map[string]string)
	}

	nonce, ct := sealed[:t.aead.NonceSize()], sealed[t.aead.NonceSize():]
	plain, err := t.aead.Open(nil, nonce, ct, nil)
	if err != nil {
		return make(map[string]string)
	}

	var grants map[string]string
	if err := json.Unmarshal(plain, &grants); err != nil {
		return make(map[string]string)
	}
	return grants
}

func (t *TrustCache) write(grants map[string]string) error {
	if err := os.MkdirAll(filepath.Dir(t.path), 0o700); err != nil {
		return err
	}
	plain, err := json.Marshal(grants)
	if err != nil {
		return err
	}

	nonce := make([]byte, t.aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return err
	}
	sealed := append(nonce, t.aead.Seal(nil, nonce, plain, nil)...)

	return os.WriteFile(t.path, sealed, 0o600)
}
