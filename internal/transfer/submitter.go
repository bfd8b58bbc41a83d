// Package transfer builds and submits single-instruction value transfers
// through a connected wallet provider.
package transfer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/programs/system"
	"github.com/google/uuid"

	"github.com/CodexEmmzy/solpay/internal/provider"
)

// Errors.
var (
	ErrInvalidRecipient = errors.New("invalid recipient address")
	ErrSubmissionFailed = errors.New("transaction submission failed")
)

// Client is the network-submission surface the submitter needs. chain.Client
// satisfies it; tests substitute a counting fake.
type Client interface {
	LatestBlockhash(ctx context.Context) (solana.Hash, error)
	SendTransaction(ctx context.Context, wire []byte) (solana.Signature, error)
	WaitForConfirmation(ctx context.Context, sig solana.Signature) error
}

// Request is one transfer attempt: recipient address and display-unit
// amount, both as the user typed them. It lives for the duration of one
// Submit call.
type Request struct {
	Recipient string
	Amount    string
}

// Receipt describes a confirmed transfer.
type Receipt struct {
	Signature solana.Signature
	Recipient solana.PublicKey
	Lamports  uint64
}

// Submitter submits transfers through a live provider. It does not acquire
// the provider; the session controller hands it over only while connected.
type Submitter struct {
	provider provider.Provider
	client   Client
}

// NewSubmitter creates a submitter around a connected provider.
func NewSubmitter(p provider.Provider, c Client) *Submitter {
	return &Submitter{provider: p, client: c}
}

// Submit validates the request, builds exactly one system transfer
// instruction, has the provider sign it, sends it, and waits for
// confirmation. Validation failures happen before any network call. No
// stage is retried and no local state needs rollback on failure.
func (s *Submitter) Submit(ctx context.Context, req Request) (*Receipt, error) {
	recipient, err := solana.PublicKeyFromBase58(req.Recipient)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidRecipient, req.Recipient)
	}

	lamports, err := ParseSOL(req.Amount)
	if err != nil {
		return nil, err
	}
	if lamports == 0 {
		return nil, fmt.Errorf("%w: zero amount", ErrInvalidAmount)
	}

	from, ok := s.provider.PublicKey()
	if !ok {
		return nil, provider.ErrNotConnected
	}

	log := slog.With("id", uuid.NewString(), "to", recipient.String(), "lamports", lamports)

	blockhash, err := s.client.LatestBlockhash(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSubmissionFailed, err)
	}

	tx, err := solana.NewTransaction(
		[]solana.Instruction{
			system.NewTransferInstruction(lamports, from, recipient).Build(),
		},
		blockhash,
		solana.TransactionPayer(from),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSubmissionFailed, err)
	}

	if err := s.provider.SignTransaction(ctx, tx); err != nil {
		log.Warn("signing failed", "err", err)
		return nil, err
	}

	wire, err := tx.MarshalBinary()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSubmissionFailed, err)
	}

	sig, err := s.client.SendTransaction(ctx, wire)
	if err != nil {
		log.Warn("send failed", "err", err)
		return nil, fmt.Errorf("%w: %v", ErrSubmissionFailed, err)
	}

	log.Debug("transaction sent, awaiting confirmation", "sig", sig.String())
	if err := s.client.WaitForConfirmation(ctx, sig); err != nil {
		log.Warn("confirmation failed", "sig", sig.String(), "err", err)
		return nil, fmt.Errorf("%w: %v", ErrSubmissionFailed, err)
	}

	log.Info("transfer confirmed", "sig", sig.String())
	return &Receipt{Signature: sig, Recipient: recipient, Lamports: lamports}, nil
}
