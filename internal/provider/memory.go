package provider

import (
	"context"
	"fmt"
	"sync"

	"github.com/gagliardetto/solana-go"
)

// MemoryProvider is an in-memory wallet provider holding an ephemeral
// keypair. It backs tests and `--ephemeral` runs, where no OS keychain or
// trust cache should be touched.
type MemoryProvider struct {
	emitter

	mu        sync.Mutex
	key       solana.PrivateKey
	trusted   bool
	connected bool

	// Test hooks: force the next connect or sign to fail.
	RejectConnect bool
	RejectSign    bool
}

// NewMemoryProvider creates a provider around a fresh keypair. trusted
// seeds the prior-approval state used by trusted-only connects.
func NewMemoryProvider(trusted bool) *MemoryProvider {
	return &MemoryProvider{
		key:     solana.NewWallet().PrivateKey,
		trusted: trusted,
	}
}

// NewMemoryProviderWithKey creates a provider around an existing key.
func NewMemoryProviderWithKey(key solana.PrivateKey, trusted bool) *MemoryProvider {
	return &MemoryProvider{key: key, trusted: trusted}
}

func (p *MemoryProvider) Connect(ctx context.Context, opts ConnectOptions) (solana.PublicKey, error) {
	p.mu.Lock()
	if p.connected {
		pub := p.key.PublicKey()
		p.mu.Unlock()
		return pub, nil
	}
	if opts.OnlyIfTrusted && !p.trusted {
		p.mu.Unlock()
		return solana.PublicKey{}, ErrNotTrusted
	}
	if p.RejectConnect {
		p.mu.Unlock()
		return solana.PublicKey{}, ErrConnectionRejected
	}
	p.trusted = true
	p.connected = true
	pub := p.key.PublicKey()
	p.mu.Unlock()

	p.emit(EventConnect, Payload{PublicKey: pub})
	return pub, nil
}

func (p *MemoryProvider) Disconnect(ctx context.Context) error {
	p.mu.Lock()
	if !p.connected {
		p.mu.Unlock()
		return nil
	}
	p.connected = false
	p.trusted = false
	p.mu.Unlock()

	p.emit(EventDisconnect, Payload{})
	return nil
}

func (p *MemoryProvider) PublicKey() (solana.PublicKey, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.connected {
		return solana.PublicKey{}, false
	}
	return p.key.PublicKey(), true
}

func (p *MemoryProvider) SignTransaction(ctx context.Context, tx *solana.Transaction) error {
	p.mu.Lock()
	connected := p.connected
	reject := p.RejectSign
	key := p.key
	p.mu.Unlock()

	if !connected {
		return ErrNotConnected
	}
	if reject {
		return ErrSigningRejected
	}

	pub := key.PublicKey()
	_, err := tx.Sign(func(k solana.PublicKey) *solana.PrivateKey {
		if k.Equals(pub) {
			return &key
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSigningRejected, err)
	}
	return nil
}
