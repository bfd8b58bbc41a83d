package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/CodexEmmzy/solpay/internal/ui"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or change configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println(ui.KeyValueBlock("Config", [][2]string{
			{"Cluster", cfg.Cluster},
			{"Default wallet", orMeta(cfg.DefaultWallet, "(none)")},
			{"RPC", ui.Meta(cfg.RPCURL())},
			{"Log format", cfg.LogFormat},
			{"Dir", ui.Meta(cfg.Dir())},
		}))
		return nil
	},
}

var configSetClusterCmd = &cobra.Command{
	Use:   "set-cluster <mainnet|devnet>",
	Short: "Persist the active cluster",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cluster := args[0]
		if cluster != "mainnet" && cluster != "devnet" {
			return fmt.Errorf("unknown cluster %q", cluster)
		}
		cfg.Cluster = cluster
		if err := cfg.Save(); err != nil {
			return err
		}
		fmt.Println(ui.Success("Cluster: " + cluster))
		return nil
	},
}

var configAddRPCCmd = &cobra.Command{
	Use:   "add-rpc <cluster> <url>",
	Short: "Register a custom RPC endpoint",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.AddRPC(args[0], args[1]); err != nil {
			return err
		}
		if err := cfg.Save(); err != nil {
			return err
		}
		fmt.Println(ui.Success("Added RPC for " + args[0]))
		return nil
	},
}

var configRemoveRPCCmd = &cobra.Command{
	Use:   "remove-rpc <cluster> <url>",
	Short: "Remove a custom RPC endpoint",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.RemoveRPC(args[0], args[1]); err != nil {
			return err
		}
		if err := cfg.Save(); err != nil {
			return err
		}
		fmt.Println(ui.Success("Removed RPC for " + args[0]))
		return nil
	},
}

func orMeta(s, fallback string) string {
	if s == "" {
		return ui.Meta(fallback)
	}
	return s
}

func init() {
	configCmd.AddCommand(configShowCmd, configSetClusterCmd, configAddRPCCmd, configRemoveRPCCmd)
}
