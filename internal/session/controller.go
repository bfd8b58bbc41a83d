// Package session owns the wallet-connection lifecycle: detect the
// provider, run the silent trusted-only connect, expose the manual
// connect/disconnect actions, and track state off the provider's events.
package session

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/gagliardetto/solana-go"

	"github.com/CodexEmmzy/solpay/internal/provider"
)

// State is the session's externally visible condition.
//
// Available is false forever when no provider was detected; that state is
// terminal. Connected flips only on provider events, never on actions, so
// the final state always agrees with the last event delivered.
type State struct {
	Available bool
	Connected bool
	PublicKey solana.PublicKey
}

// Controller drives the session state machine:
//
//	Uninitialized -> [detect] -> Unavailable (terminal)
//	                          -> Disconnected -> [connect event] -> Connected
//	Connected -> [disconnect event or action] -> Disconnected
type Controller struct {
	mu       sync.Mutex
	provider provider.Provider
	state    State
	subs     []provider.Subscription
	onChange func(State)
	closed   bool
}

// NewController builds a controller around a detected provider. Pass nil
// when detection failed; the controller then stays Unavailable forever.
func NewController(p provider.Provider) *Controller {
	c := &Controller{provider: p}
	if p == nil {
		return c
	}
	c.state.Available = true
	c.subscribe(p)
	return c
}

// Start attempts the trusted-only silent connect. It must not prompt: a
// missing prior approval is a silent no-op. Failures are logged, never
// surfaced or retried.
func (c *Controller) Start(ctx context.Context) {
	p := c.currentProvider()
	if p == nil {
		return
	}
	if _, err := p.Connect(ctx, provider.ConnectOptions{OnlyIfTrusted: true}); err != nil {
		if errors.Is(err, provider.ErrNotTrusted) {
			slog.Debug("silent connect skipped: wallet not trusted")
		} else {
			slog.Warn("silent connect failed", "err", err)
		}
	}
}

// Connect is the user-triggered interactive connect; it may prompt.
// Fire-and-forget: errors are caught and logged, state is left to the
// provider's connect event.
func (c *Controller) Connect(ctx context.Context) {
	p := c.currentProvider()
	if p == nil {
		return
	}
	if _, err := p.Connect(ctx, provider.ConnectOptions{}); err != nil {
		slog.Warn("connect failed", "err", err)
	}
}

// Disconnect is the user-triggered disconnect. Fire-and-forget, same
// discipline as Connect.
func (c *Controller) Disconnect(ctx context.Context) {
	p := c.currentProvider()
	if p == nil {
		return
	}
	if err := p.Disconnect(ctx); err != nil {
		slog.Warn("disconnect failed", "err", err)
	}
}

// State returns a snapshot of the session state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Provider returns the live provider handle, or nil when unavailable.
func (c *Controller) Provider() provider.Provider {
	return c.currentProvider()
}

// OnChange registers a single observer invoked after every event-driven
// state transition.
func (c *Controller) OnChange(fn func(State)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onChange = fn
}

// SetProvider replaces the provider handle, releasing the old handle's
// subscriptions before subscribing to the new one.
func (c *Controller) SetProvider(p provider.Provider) {
	c.mu.Lock()
	old := c.subs
	c.subs = nil
	c.provider = p
	c.state = State{}
	if p != nil {
		c.state.Available = true
	}
	c.mu.Unlock()

	for _, s := range old {
		s.Unsubscribe()
	}
	if p != nil {
		c.subscribe(p)
	}
}

// Close releases all event subscriptions. The controller is unusable
// afterwards.
func (c *Controller) Close() {
	c.mu.Lock()
	subs := c.subs
	c.subs = nil
	c.closed = true
	c.mu.Unlock()

	for _, s := range subs {
		s.Unsubscribe()
	}
}

// --- internal ---

func (c *Controller) currentProvider() provider.Provider {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	return c.provider
}

func (c *Controller) subscribe(p provider.Provider) {
	connectSub := p.On(provider.EventConnect, func(payload provider.Payload) {
		c.apply(func(s *State) {
			s.Connected = true
			s.PublicKey = payload.PublicKey
		})
	})
	disconnectSub := p.On(provider.EventDisconnect, func(provider.Payload) {
		c.apply(func(s *State) {
			s.Connected = false
			s.PublicKey = solana.PublicKey{}
		})
	})

	c.mu.Lock()
	c.subs = append(c.subs, connectSub, disconnectSub)
	c.mu.Unlock()
}

// apply mutates state under the lock and notifies the observer outside it.
func (c *Controller) apply(mutate func(*State)) {
	c.mu.Lock()
	mutate(&c.state)
	state := c.state
	fn := c.onChange
	c.mu.Unlock()

	if fn != nil {
		fn(state)
	}
}
