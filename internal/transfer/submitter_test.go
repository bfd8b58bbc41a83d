package transfer

import (
	"context"
	"errors"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CodexEmmzy/solpay/internal/provider"
)

// ---------------------------------------------------------------------------
// fake chain client — counts every network invocation
// ---------------------------------------------------------------------------

type fakeClient struct {
	calls      int
	sendErr    error
	confirmErr error
	lastWire   []byte
}

func (f *fakeClient) LatestBlockhash(ctx context.Context) (solana.Hash, error) {
	f.calls++
	return solana.Hash{1, 2, 3}, nil
}

func (f *fakeClient) SendTransaction(ctx context.Context, wire []byte) (solana.Signature, error) {
	f.calls++
	f.lastWire = wire
	if f.sendErr != nil {
		return solana.Signature{}, f.sendErr
	}
	return solana.Signature{9}, nil
}

func (f *fakeClient) WaitForConfirmation(ctx context.Context, sig solana.Signature) error {
	f.calls++
	return f.confirmErr
}

func connectedProvider(t *testing.T) *provider.MemoryProvider {
	t.Helper()
	p := provider.NewMemoryProvider(true)
	_, err := p.Connect(context.Background(), provider.ConnectOptions{OnlyIfTrusted: true})
	require.NoError(t, err)
	return p
}

// ---------------------------------------------------------------------------
// Submit — happy path
// ---------------------------------------------------------------------------

func TestSubmitTransfersExactLamports(t *testing.T) {
	p := connectedProvider(t)
	client := &fakeClient{}
	recipient := solana.NewWallet().PrivateKey.PublicKey()

	receipt, err := NewSubmitter(p, client).Submit(context.Background(), Request{
		Recipient: recipient.String(),
		Amount:    "1.5",
	})
	require.NoError(t, err)

	assert.Equal(t, uint64(1_500_000_000), receipt.Lamports)
	assert.Equal(t, recipient, receipt.Recipient)
	assert.NotEmpty(t, client.lastWire, "a signed wire transaction must be sent")
	assert.Equal(t, 3, client.calls, "blockhash + send + confirmation")
}

// ---------------------------------------------------------------------------
// Submit — local validation fails before any network call
// ---------------------------------------------------------------------------

func TestSubmitInvalidRecipientMakesNoNetworkCall(t *testing.T) {
	p := connectedProvider(t)
	client := &fakeClient{}

	_, err := NewSubmitter(p, client).Submit(context.Background(), Request{
		Recipient: "not-a-base58-address!",
		Amount:    "1",
	})
	assert.ErrorIs(t, err, ErrInvalidRecipient)
	assert.Zero(t, client.calls, "invalid recipient must not reach the network")
}

func TestSubmitInvalidAmountMakesNoNetworkCall(t *testing.T) {
	p := connectedProvider(t)
	client := &fakeClient{}
	recipient := solana.NewWallet().PrivateKey.PublicKey()

	_, err := NewSubmitter(p, client).Submit(context.Background(), Request{
		Recipient: recipient.String(),
		Amount:    "1.0000000001",
	})
	assert.ErrorIs(t, err, ErrInvalidAmount)
	assert.Zero(t, client.calls)
}

func TestSubmitZeroAmountRejected(t *testing.T) {
	p := connectedProvider(t)
	client := &fakeClient{}
	recipient := solana.NewWallet().PrivateKey.PublicKey()

	_, err := NewSubmitter(p, client).Submit(context.Background(), Request{
		Recipient: recipient.String(),
		Amount:    "0",
	})
	assert.ErrorIs(t, err, ErrInvalidAmount)
	assert.Zero(t, client.calls)
}

// ---------------------------------------------------------------------------
// Submit — stage failures
// ---------------------------------------------------------------------------

func TestSubmitRequiresConnectedProvider(t *testing.T) {
	p := provider.NewMemoryProvider(true) // never connected
	client := &fakeClient{}
	recipient := solana.NewWallet().PrivateKey.PublicKey()

	_, err := NewSubmitter(p, client).Submit(context.Background(), Request{
		Recipient: recipient.String(),
		Amount:    "1",
	})
	assert.ErrorIs(t, err, provider.ErrNotConnected)
	assert.Zero(t, client.calls)
}

func TestSubmitSigningRejected(t *testing.T) {
	p := connectedProvider(t)
	p.RejectSign = true
	client := &fakeClient{}
	recipient := solana.NewWallet().PrivateKey.PublicKey()

	_, err := NewSubmitter(p, client).Submit(context.Background(), Request{
		Recipient: recipient.String(),
		Amount:    "1",
	})
	assert.ErrorIs(t, err, provider.ErrSigningRejected)
	assert.Equal(t, 1, client.calls, "only the blockhash fetch may have happened")
}

func TestSubmitSendFailure(t *testing.T) {
	p := connectedProvider(t)
	client := &fakeClient{sendErr: errors.New("node rejected")}
	recipient := solana.NewWallet().PrivateKey.PublicKey()

	_, err := NewSubmitter(p, client).Submit(context.Background(), Request{
		Recipient: recipient.String(),
		Amount:    "1",
	})
	assert.ErrorIs(t, err, ErrSubmissionFailed)
}

func TestSubmitConfirmationFailure(t *testing.T) {
	p := connectedProvider(t)
	client := &fakeClient{confirmErr: errors.New("timed out")}
	recipient := solana.NewWallet().PrivateKey.PublicKey()

	_, err := NewSubmitter(p, client).Submit(context.Background(), Request{
		Recipient: recipient.String(),
		Amount:    "1",
	})
	assert.ErrorIs(t, err, ErrSubmissionFailed)
}
