package session

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CodexEmmzy/solpay/internal/provider"
)

// ---------------------------------------------------------------------------
// detection outcome
// ---------------------------------------------------------------------------

func TestNoProviderIsTerminal(t *testing.T) {
	c := NewController(nil)
	defer c.Close()

	st := c.State()
	assert.False(t, st.Available)
	assert.False(t, st.Connected)

	// Actions on an unavailable session are no-ops, never panics.
	c.Start(context.Background())
	c.Connect(context.Background())
	c.Disconnect(context.Background())

	st = c.State()
	assert.False(t, st.Available, "no transition out of unavailable")
	assert.False(t, st.Connected)
}

func TestAvailableStartsDisconnected(t *testing.T) {
	c := NewController(provider.NewMemoryProvider(false))
	defer c.Close()

	st := c.State()
	assert.True(t, st.Available)
	assert.False(t, st.Connected)
}

// ---------------------------------------------------------------------------
// silent trusted-only connect
// ---------------------------------------------------------------------------

func TestStartConnectsWhenTrusted(t *testing.T) {
	p := provider.NewMemoryProvider(true)
	c := NewController(p)
	defer c.Close()

	c.Start(context.Background())

	st := c.State()
	assert.True(t, st.Connected)
	pub, ok := p.PublicKey()
	require.True(t, ok)
	assert.Equal(t, pub, st.PublicKey)
}

func TestStartNoOpsWhenNotTrusted(t *testing.T) {
	c := NewController(provider.NewMemoryProvider(false))
	defer c.Close()

	c.Start(context.Background())

	assert.False(t, c.State().Connected, "silent connect must not establish an untrusted session")
}

// ---------------------------------------------------------------------------
// event-driven state
// ---------------------------------------------------------------------------

func TestConnectEventSetsConnected(t *testing.T) {
	p := provider.NewMemoryProvider(false)
	c := NewController(p)
	defer c.Close()

	c.Connect(context.Background())

	st := c.State()
	assert.True(t, st.Connected)
	assert.False(t, st.PublicKey.IsZero())
}

func TestDisconnectEventClearsConnected(t *testing.T) {
	p := provider.NewMemoryProvider(true)
	c := NewController(p)
	defer c.Close()

	c.Start(context.Background())
	require.True(t, c.State().Connected)

	c.Disconnect(context.Background())

	st := c.State()
	assert.False(t, st.Connected)
	assert.True(t, st.PublicKey.IsZero())
	assert.True(t, st.Available, "disconnect returns to available, not unavailable")
}

func TestRejectedConnectLeavesStateUnchanged(t *testing.T) {
	p := provider.NewMemoryProvider(false)
	p.RejectConnect = true
	c := NewController(p)
	defer c.Close()

	c.Connect(context.Background())

	assert.False(t, c.State().Connected)
}

func TestFinalStateFollowsLastEvent(t *testing.T) {
	// Disconnect action followed by connect action: the state must agree
	// with the last event delivered, not the order actions were issued.
	p := provider.NewMemoryProvider(true)
	c := NewController(p)
	defer c.Close()

	c.Start(context.Background())
	c.Disconnect(context.Background())
	c.Connect(context.Background())

	assert.True(t, c.State().Connected, "connect event was delivered last")
}

// ---------------------------------------------------------------------------
// observer notification
// ---------------------------------------------------------------------------

func TestOnChangeFiresPerTransition(t *testing.T) {
	p := provider.NewMemoryProvider(false)
	c := NewController(p)
	defer c.Close()

	var seen []State
	c.OnChange(func(s State) { seen = append(seen, s) })

	c.Connect(context.Background())
	c.Disconnect(context.Background())

	require.Len(t, seen, 2)
	assert.True(t, seen[0].Connected)
	assert.False(t, seen[1].Connected)
}

// ---------------------------------------------------------------------------
// subscription lifecycle
// ---------------------------------------------------------------------------

func TestCloseReleasesSubscriptions(t *testing.T) {
	p := provider.NewMemoryProvider(false)
	c := NewController(p)

	c.Close()

	// Events after Close must not mutate controller state.
	_, err := p.Connect(context.Background(), provider.ConnectOptions{})
	require.NoError(t, err)
	assert.False(t, c.State().Connected)
}

func TestSetProviderReplacesSubscriptions(t *testing.T) {
	oldProvider := provider.NewMemoryProvider(false)
	c := NewController(oldProvider)
	defer c.Close()

	newProvider := provider.NewMemoryProvider(false)
	c.SetProvider(newProvider)

	// The old handle's events are ignored after replacement.
	_, err := oldProvider.Connect(context.Background(), provider.ConnectOptions{})
	require.NoError(t, err)
	assert.False(t, c.State().Connected)

	// The new handle's events drive state.
	c.Connect(context.Background())
	assert.True(t, c.State().Connected)
}
