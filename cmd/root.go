package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/CodexEmmzy/solpay/internal/chain"
	"github.com/CodexEmmzy/solpay/internal/config"
	"github.com/CodexEmmzy/solpay/internal/logging"
	"github.com/CodexEmmzy/solpay/internal/wallet"
)

// Version is the current release. Overridable via build ldflags:
//
//	go build -ldflags "-X github.com/CodexEmmzy/solpay/cmd.Version=1.2.3" .
var Version = "1.0.0"

var (
	cfgDir  string
	cfg     *config.Config
	verbose bool
	devnet  bool
	mainnet bool
)

// rootCmd is the top-level command.
var rootCmd = &cobra.Command{
	Use:   "solpay",
	Short: "Wallet front-end for SOL transfers",
	Long: `solpay — connect a wallet and send SOL from your terminal.

  Detects the configured wallet, connects silently when previously
  trusted, and submits single-instruction transfers. Run with no
  subcommand arguments via 'solpay app' for the interactive surface.

Global flags --devnet and --mainnet override the configured cluster for
a single invocation. Persist with: solpay config set-cluster <cluster>`,
	Version: Version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "help" || cmd.Name() == "completion" {
			return nil
		}
		var err error
		cfg, err = config.Load(cfgDir)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		if devnet {
			cfg.Cluster = "devnet"
		}
		if mainnet {
			cfg.Cluster = "mainnet"
		}
		logging.Init(verbose, cfg.LogFormat)
		return nil
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	// SOLPAY_CONFIG_DIR env var overrides --config flag.
	if envDir := os.Getenv("SOLPAY_CONFIG_DIR"); envDir != "" {
		cfgDir = envDir
	}

	rootCmd.PersistentFlags().StringVar(&cfgDir, "config", cfgDir, "config directory (default: ~/.solpay)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVar(&devnet, "devnet", false, "use devnet instead of mainnet")
	rootCmd.PersistentFlags().BoolVar(&mainnet, "mainnet", false, "use mainnet instead of devnet")
	rootCmd.MarkFlagsMutuallyExclusive("devnet", "mainnet")

	// Register all sub-commands.
	rootCmd.AddCommand(
		appCmd,
		connectCmd,
		disconnectCmd,
		statusCmd,
		sendCmd,
		balanceCmd,
		walletCmd,
		configCmd,
	)
}

// newManager builds the wallet manager over the config dir's wallets.json.
func newManager() *wallet.Manager {
	return wallet.NewManager(wallet.WithStore(wallet.NewJSONStore(cfg.WalletsPath())))
}

// newClient builds the RPC client for the active cluster.
func newClient() *chain.Client {
	return chain.NewClient(cfg.RPCURL())
}
