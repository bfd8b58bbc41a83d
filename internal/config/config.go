package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
)

const (
	defaultCluster   = "mainnet"
	defaultLogFormat = "text"

	configFile  = "config.json"
	walletsFile = "wallets.json"
)

// Load reads config from dir (or creates defaults). dir defaults to ~/.solpay.
func Load(dir string) (*Config, error) {
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("could not determine home dir: %w", err)
		}
		dir = filepath.Join(home, ".solpay")
	}

	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("could not create config dir: %w", err)
	}

	cfg := defaults(dir)

	path := filepath.Join(dir, configFile)
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	cfg.configDir = dir
	if cfg.Cluster == "" {
		cfg.Cluster = defaultCluster
	}
	if cfg.LogFormat == "" {
		cfg.LogFormat = defaultLogFormat
	}
	if cfg.CustomRPCs == nil {
		cfg.CustomRPCs = make(map[string][]string)
	}

	return cfg, nil
}

// Save writes the config to disk.
func (c *Config) Save() error {
	if err := os.MkdirAll(c.configDir, 0o700); err != nil {
		return err
	}
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(c.configDir, configFile), data, 0o600)
}

// RPCURL returns the RPC endpoint for the configured cluster.
// A custom RPC, if any is registered, wins over the public default.
func (c *Config) RPCURL() string {
	if rpcs := c.CustomRPCs[c.Cluster]; len(rpcs) > 0 {
		return rpcs[0]
	}
	if c.Cluster == "devnet" {
		return DevnetRPC
	}
	return MainnetRPC
}

// AddRPC adds a custom RPC URL for a cluster.
func (c *Config) AddRPC(cluster, url string) error {
	if c.CustomRPCs == nil {
		c.CustomRPCs = make(map[string][]string)
	}
	if slices.Contains(c.CustomRPCs[cluster], url) {
		return fmt.Errorf("RPC %s already exists for cluster %s", url, cluster)
	}
	c.CustomRPCs[cluster] = append(c.CustomRPCs[cluster], url)
	return nil
}

// RemoveRPC removes a custom RPC URL for a cluster.
func (c *Config) RemoveRPC(cluster, url string) error {
	rpcs := c.CustomRPCs[cluster]
	idx := slices.Index(rpcs, url)
	if idx == -1 {
		return fmt.Errorf("RPC %s not found for cluster %s", url, cluster)
	}
	c.CustomRPCs[cluster] = slices.Delete(rpcs, idx, idx+1)
	return nil
}

// Dir returns the config directory.
func (c *Config) Dir() string {
	return c.configDir
}

// WalletsPath returns the path of wallets.json inside the config dir.
func (c *Config) WalletsPath() string {
	return filepath.Join(c.configDir, walletsFile)
}

// --- helpers ---

func defaults(dir string) *Config {
	return &Config{
		Cluster:    defaultCluster,
		LogFormat:  defaultLogFormat,
		CustomRPCs: make(map[string][]string),
		configDir:  dir,
	}
}
