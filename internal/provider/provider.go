// Package provider defines the wallet provider capability: an external
// collaborator exposing connect, disconnect, event subscription, a public
// key, and transaction signing. The application never owns the wallet; it
// holds a Provider reference for the duration of a run.
package provider

import (
	"context"
	"errors"
	"os"
	"sync"

	"github.com/gagliardetto/solana-go"

	"github.com/CodexEmmzy/solpay/internal/config"
	"github.com/CodexEmmzy/solpay/internal/wallet"
)

// Events emitted by a provider.
type Event string

const (
	// EventConnect fires after a successful connect. Payload carries the
	// wallet public key.
	EventConnect Event = "connect"
	// EventDisconnect fires after a disconnect. No payload fields are set.
	EventDisconnect Event = "disconnect"
)

// Payload accompanies an emitted event.
type Payload struct {
	PublicKey solana.PublicKey
}

// Handler receives an event payload.
type Handler func(Payload)

// Subscription is an owned registration handle. Unsubscribe releases the
// handler; it is safe to call more than once.
type Subscription interface {
	Unsubscribe()
}

// ConnectOptions constrains a connect request.
type ConnectOptions struct {
	// OnlyIfTrusted makes the connect succeed silently only when the user
	// previously approved this wallet, and otherwise fail with
	// ErrNotTrusted without prompting.
	OnlyIfTrusted bool
}

// Errors.
var (
	ErrProviderUnavailable = errors.New("no wallet provider available")
	ErrNotTrusted          = errors.New("wallet not previously trusted")
	ErrConnectionRejected  = errors.New("connection rejected")
	ErrNotConnected        = errors.New("provider not connected")
	ErrSigningRejected     = errors.New("signing rejected")
)

// Provider is the wallet capability handle.
type Provider interface {
	Connect(ctx context.Context, opts ConnectOptions) (solana.PublicKey, error)
	Disconnect(ctx context.Context) error
	On(event Event, fn Handler) Subscription
	PublicKey() (solana.PublicKey, bool)
	SignTransaction(ctx context.Context, tx *solana.Transaction) error
}

// Detect inspects the environment for a usable wallet and returns its
// provider. Returns ErrProviderUnavailable when none exists; callers treat
// that as terminal and do not retry.
func Detect(cfg *config.Config, mgr *wallet.Manager, opts ...LocalOption) (Provider, error) {
	if os.Getenv("SOLPAY_NO_WALLET") != "" {
		return nil, ErrProviderUnavailable
	}

	var w *wallet.Wallet
	if cfg.DefaultWallet != "" {
		w, _ = mgr.Get(cfg.DefaultWallet)
	}
	if w == nil {
		w = mgr.Default()
	}
	if w == nil || w.Type != wallet.TypeSigning {
		return nil, ErrProviderUnavailable
	}

	trust, err := wallet.OpenTrustCache(mgr.Keystore())
	if err != nil {
		return nil, ErrProviderUnavailable
	}
	return NewLocalProvider(w, mgr.Keystore(), trust, opts...), nil
}

// --- event emitter ---

// emitter is a small observer registry shared by provider implementations.
type emitter struct {
	mu       sync.Mutex
	handlers map[Event]map[int]Handler
	nextID   int
}

func (e *emitter) On(event Event, fn Handler) Subscription {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.handlers == nil {
		e.handlers = make(map[Event]map[int]Handler)
	}
	if e.handlers[event] == nil {
		e.handlers[event] = make(map[int]Handler)
	}
	e.nextID++
	id := e.nextID
	e.handlers[event][id] = fn
	return &subscription{emitter: e, event: event, id: id}
}

// emit invokes registered handlers outside the lock so a handler may
// subscribe or unsubscribe without deadlocking.
func (e *emitter) emit(event Event, p Payload) {
	e.mu.Lock()
	fns := make([]Handler, 0, len(e.handlers[event]))
	for _, fn := range e.handlers[event] {
		fns = append(fns, fn)
	}
	e.mu.Unlock()

	for _, fn := range fns {
		fn(p)
	}
}

type subscription struct {
	emitter *emitter
	event   Event
	id      int
}

func (s *subscription) Unsubscribe() {
	s.emitter.mu.Lock()
	defer s.emitter.mu.Unlock()
	delete(s.emitter.handlers[s.event], s.id)
}
