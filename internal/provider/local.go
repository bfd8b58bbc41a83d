package provider

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/gagliardetto/solana-go"

	"github.com/CodexEmmzy/solpay/internal/wallet"
)

// ApprovalFunc asks the user to approve an interactive connect. Returning
// false rejects the connection.
type ApprovalFunc func(walletName string) bool

// LocalProvider is a wallet provider backed by the OS keychain keystore
// and the sealed trust cache. "Previously trusted" means an earlier
// interactive connect recorded a grant, so a trusted-only connect can
// succeed without prompting.
type LocalProvider struct {
	emitter

	mu      sync.Mutex
	wallet  *wallet.Wallet
	ks      wallet.KeystoreBackend
	trust   *wallet.TrustCache
	approve ApprovalFunc
	key     *solana.PrivateKey // non-nil while connected
}

// LocalOption configures a LocalProvider.
type LocalOption func(*LocalProvider)

// WithApproval sets the interactive approval prompt.
func WithApproval(fn ApprovalFunc) LocalOption {
	return func(p *LocalProvider) { p.approve = fn }
}

// NewLocalProvider creates a provider for a signing wallet.
func NewLocalProvider(w *wallet.Wallet, ks wallet.KeystoreBackend, trust *wallet.TrustCache, opts ...LocalOption) *LocalProvider {
	p := &LocalProvider{
		wallet:  w,
		ks:      ks,
		trust:   trust,
		approve: func(string) bool { return false },
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// WalletName returns the name of the backing wallet.
func (p *LocalProvider) WalletName() string {
	return p.wallet.Name
}

// Connect unlocks the wallet key and emits EventConnect. With
// OnlyIfTrusted set it never prompts: it returns ErrNotTrusted unless a
// prior grant exists. An interactive connect prompts through the approval
// func and records a grant on success.
func (p *LocalProvider) Connect(ctx context.Context, opts ConnectOptions) (solana.PublicKey, error) {
	p.mu.Lock()
	if p.key != nil {
		pub := p.key.PublicKey()
		p.mu.Unlock()
		return pub, nil
	}

	trusted := p.trust.Trusted(p.wallet.Address)
	if opts.OnlyIfTrusted && !trusted {
		p.mu.Unlock()
		return solana.PublicKey{}, ErrNotTrusted
	}

	if !trusted {
		// Prompt outside any network work but inside the connect flow;
		// only one connect runs at a time.
		if !p.approve(p.wallet.Name) {
			p.mu.Unlock()
			return solana.PublicKey{}, ErrConnectionRejected
		}
	}

	base58Key, err := p.ks.Retrieve(p.wallet.KeyRef)
	if err != nil {
		p.mu.Unlock()
		return solana.PublicKey{}, fmt.Errorf("%w: %v", ErrConnectionRejected, err)
	}
	key, err := solana.PrivateKeyFromBase58(base58Key)
	if err != nil {
		p.mu.Unlock()
		return solana.PublicKey{}, fmt.Errorf("%w: %v", ErrConnectionRejected, err)
	}

	pub := key.PublicKey()
	if p.wallet.Address != "" && pub.String() != p.wallet.Address {
		p.mu.Unlock()
		return solana.PublicKey{}, fmt.Errorf("%w: stored key does not match wallet address", ErrConnectionRejected)
	}

	if !trusted {
		// Grants key on the address, not the wallet name: approval covers
		// this key, and must not carry over to a wallet later re-added
		// under the same name with a different key.
		if err := p.trust.Grant(pub.String()); err != nil {
			slog.Warn("recording trust grant", "wallet", p.wallet.Name, "err", err)
		}
	}

	p.key = &key
	p.mu.Unlock()

	p.emit(EventConnect, Payload{PublicKey: pub})
	return pub, nil
}

// Disconnect locks the wallet, revokes its trust grant, and emits
// EventDisconnect. Disconnecting an already-disconnected provider is a
// no-op.
func (p *LocalProvider) Disconnect(ctx context.Context) error {
	p.mu.Lock()
	if p.key == nil {
		p.mu.Unlock()
		return nil
	}
	pub := p.key.PublicKey()
	p.key = nil
	p.mu.Unlock()

	if err := p.trust.Revoke(pub.String()); err != nil {
		slog.Warn("revoking trust grant", "wallet", p.wallet.Name, "err", err)
	}

	p.emit(EventDisconnect, Payload{})
	return nil
}

// PublicKey returns the connected key, if any.
func (p *LocalProvider) PublicKey() (solana.PublicKey, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.key == nil {
		return solana.PublicKey{}, false
	}
	return p.key.PublicKey(), true
}

// SignTransaction signs tx in place with the connected key.
func (p *LocalProvider) SignTransaction(ctx context.Context, tx *solana.Transaction) error {
	p.mu.Lock()
	key := p.key
	p.mu.Unlock()

	if key == nil {
		return ErrNotConnected
	}

	pub := key.PublicKey()
	_, err := tx.Sign(func(k solana.PublicKey) *solana.PrivateKey {
		if k.Equals(pub) {
			return key
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSigningRejected, err)
	}
	return nil
}
