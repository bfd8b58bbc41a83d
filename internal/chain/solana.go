package chain

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"math/big"
	"net/http"
	"strings"

	"github.com/gagliardetto/solana-go"
	"github.com/jonboulle/clockwork"

	"github.com/CodexEmmzy/solpay/internal/config"
)

// Client is a minimal JSON-RPC client for Solana.
type Client struct {
	url    string
	client *http.Client
	clock  clockwork.Clock
}

// Balance holds a native balance result.
type Balance struct {
	Lamports *big.Int
	SOL      string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets a custom http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.client = hc }
}

// WithClock sets the clock used for confirmation polling (useful for tests).
func WithClock(clock clockwork.Clock) Option {
	return func(c *Client) { c.clock = clock }
}

// NewClient creates a new Solana RPC client pointed at url.
func NewClient(url string, opts ...Option) *Client {
	c := &Client{
		url:    url,
		client: &http.Client{Timeout: config.RPCTimeout},
		clock:  clockwork.NewRealClock(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// URL returns the endpoint this client talks to.
func (c *Client) URL() string { return c.url }

// GetBalance returns the native balance for a public key.
func (c *Client) GetBalance(ctx context.Context, pubkey solana.PublicKey) (*Balance, error) {
	result, err := c.call(ctx, "getBalance", pubkey.String())
	if err != nil {
		return nil, err
	}

	// result is {"context":{"slot":N},"value":N}
	var resp struct {
		Value uint64 `json:"value"`
	}
	if err := json.Unmarshal(result, &resp); err != nil {
		return nil, fmt.Errorf("parsing balance: %w", err)
	}

	lamports := new(big.Int).SetUint64(resp.Value)
	return &Balance{
		Lamports: lamports,
		SOL:      LamportsToSOL(lamports),
	}, nil
}

// GetSlot returns the current slot (analogous to block number).
func (c *Client) GetSlot(ctx context.Context) (uint64, error) {
	result, err := c.call(ctx, "getSlot")
	if err != nil {
		return 0, err
	}
	var slot uint64
	if err := json.Unmarshal(result, &slot); err != nil {
		return 0, fmt.Errorf("parsing slot: %w", err)
	}
	return slot, nil
}

// LatestBlockhash returns a recent blockhash usable for a new transaction.
func (c *Client) LatestBlockhash(ctx context.Context) (solana.Hash, error) {
	result, err := c.call(ctx, "getLatestBlockhash", map[string]string{"commitment": "finalized"})
	if err != nil {
		return solana.Hash{}, err
	}

	var resp struct {
		Value struct {
			Blockhash string `json:"blockhash"`
		} `json:"value"`
	}
	if err := json.Unmarshal(result, &resp); err != nil {
		return solana.Hash{}, fmt.Errorf("parsing blockhash: %w", err)
	}

	hash, err := solana.HashFromBase58(resp.Value.Blockhash)
	if err != nil {
		return solana.Hash{}, fmt.Errorf("decoding blockhash %q: %w", resp.Value.Blockhash, err)
	}
	return hash, nil
}

// SendTransaction submits a signed wire transaction and returns its signature.
func (c *Client) SendTransaction(ctx context.Context, wire []byte) (solana.Signature, error) {
	encoded := base64.StdEncoding.EncodeToString(wire)
	result, err := c.call(ctx, "sendTransaction", encoded, map[string]string{"encoding": "base64"})
	if err != nil {
		return solana.Signature{}, err
	}

	var sigStr string
	if err := json.Unmarshal(result, &sigStr); err != nil {
		return solana.Signature{}, fmt.Errorf("parsing signature: %w", err)
	}

	sig, err := solana.SignatureFromBase58(sigStr)
	if err != nil {
		return solana.Signature{}, fmt.Errorf("decoding signature %q: %w", sigStr, err)
	}
	return sig, nil
}

// SignatureStatus returns the confirmation status of a signature:
// "processed", "confirmed", "finalized", or "" when the cluster does not
// know the signature yet.
func (c *Client) SignatureStatus(ctx context.Context, sig solana.Signature) (string, error) {
	result, err := c.call(ctx, "getSignatureStatuses",
		[]string{sig.String()},
		map[string]bool{"searchTransactionHistory": false},
	)
	if err != nil {
		return "", err
	}

	var resp struct {
		Value []*struct {
			ConfirmationStatus string          `json:"confirmationStatus"`
			Err                json.RawMessage `json:"err"`
		} `json:"value"`
	}
	if err := json.Unmarshal(result, &resp); err != nil {
		return "", fmt.Errorf("parsing signature status: %w", err)
	}
	if len(resp.Value) == 0 || resp.Value[0] == nil {
		return "", nil
	}
	if status := resp.Value[0]; len(status.Err) > 0 && string(status.Err) != "null" {
		return "", fmt.Errorf("transaction failed on-chain: %s", status.Err)
	}
	return resp.Value[0].ConfirmationStatus, nil
}

// WaitForConfirmation polls the signature status until it reaches at least
// "confirmed", the context is done, or the poll errors.
func (c *Client) WaitForConfirmation(ctx context.Context, sig solana.Signature) error {
	for {
		status, err := c.SignatureStatus(ctx, sig)
		if err != nil {
			return err
		}
		if status == "confirmed" || status == "finalized" {
			return nil
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("confirmation wait: %w", ctx.Err())
		case <-c.clock.After(config.TxConfirmInterval):
		}
	}
}

// --- internal ---

type rpcRequest struct {
	JSONRPC string        `json:"jsonrpc"`
	ID      int           `json:"id"`
	Method  string        `json:"method"`
	Params  []interface{} `json:"params"`
}

type rpcResponse struct {
	Result json.RawMessage `json:"result"`
	Error  *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func (c *Client) call(ctx context.Context, method string, params ...interface{}) (json.RawMessage, error) {
	body, _ := json.Marshal(rpcRequest{
		JSONRPC: "2.0",
		ID:      1,
		Method:  method,
		Params:  params,
	})

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, strings.NewReader(string(body)))
	if err != nil {
		return nil, fmt.Errorf("building RPC request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("RPC request: %w", err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	var rpcResp rpcResponse
	if err := json.Unmarshal(respBody, &rpcResp); err != nil {
		return nil, fmt.Errorf("parsing RPC response: %w", err)
	}
	if rpcResp.Error != nil {
		return nil, fmt.Errorf("RPC error %d: %s", rpcResp.Error.Code, rpcResp.Error.Message)
	}

	return rpcResp.Result, nil
}

// LamportsToSOL renders a lamport amount as a fixed 9-decimal SOL string.
func LamportsToSOL(lamports *big.Int) string {
	f := new(big.Float).SetInt(lamports)
	f.Quo(f, new(big.Float).SetUint64(config.LamportsPerSOL))
	return f.Text('f', 9)
}

// Timeout wraps ctx with the standard confirmation deadline.
func Timeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, config.TxConfirmTimeout)
}
