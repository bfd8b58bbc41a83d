package config

import "time"

// LamportsPerSOL is the base-unit scale of the native asset:
// 1 SOL = 1e9 lamports. On-the-wire amounts are always lamports.
const LamportsPerSOL = uint64(1_000_000_000)

// Public RPC endpoints used when no custom RPC is configured.
const (
	MainnetRPC = "https://api.mainnet-beta.solana.com"
	DevnetRPC  = "https://api.devnet.solana.com"
)

// Timeout constants used across cmd and the transfer submitter.
const (
	RPCTimeout        = 15 * time.Second // single JSON-RPC round trip
	TxConfirmTimeout  = 90 * time.Second // transaction confirmation wait
	TxConfirmInterval = 2 * time.Second  // confirmation poll interval
)
