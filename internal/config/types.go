package config

// Config holds all solpay configuration.
type Config struct {
	DefaultWallet string              `json:"default_wallet"`
	Cluster       string              `json:"cluster"`     // "mainnet" | "devnet"
	LogFormat     string              `json:"log_format"`  // "text" | "json"
	CustomRPCs    map[string][]string `json:"custom_rpcs"` // cluster -> RPC URLs

	// internal: config dir path used for Save()
	configDir string
}
