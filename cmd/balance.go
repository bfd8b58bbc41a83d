package cmd

import (
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/spf13/cobra"

	"github.com/CodexEmmzy/solpay/internal/ui"
	"github.com/CodexEmmzy/solpay/internal/wallet"
)

var balanceAddress string

var balanceCmd = &cobra.Command{
	Use:   "balance",
	Short: "Show the SOL balance of the default wallet or an address",
	RunE: func(cmd *cobra.Command, args []string) error {
		address := balanceAddress
		if address == "" {
			var w *wallet.Wallet
			if cfg.DefaultWallet != "" {
				w, _ = newManager().Get(cfg.DefaultWallet)
			}
			if w == nil {
				w = newManager().Default()
			}
			if w == nil {
				fmt.Println(ui.Warn("No wallet configured. Pass --address or add a wallet."))
				return nil
			}
			address = w.Address
		}

		pubkey, err := solana.PublicKeyFromBase58(address)
		if err != nil {
			return fmt.Errorf("invalid address %q: %w", address, err)
		}

		bal, err := newClient().GetBalance(cmd.Context(), pubkey)
		if err != nil {
			return err
		}

		fmt.Println(ui.KeyValueBlock("Balance", [][2]string{
			{"Address", ui.Addr(ui.TruncateAddr(address))},
			{"SOL", ui.Val(bal.SOL)},
			{"Lamports", bal.Lamports.String()},
			{"Cluster", cfg.Cluster},
		}))
		return nil
	},
}

func init() {
	balanceCmd.Flags().StringVar(&balanceAddress, "address", "", "address to query (default: default wallet)")
}
