package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/CodexEmmzy/solpay/internal/chain"
	"github.com/CodexEmmzy/solpay/internal/provider"
	"github.com/CodexEmmzy/solpay/internal/session"
	"github.com/CodexEmmzy/solpay/internal/transfer"
	"github.com/CodexEmmzy/solpay/internal/ui"
)

var (
	sendTo     string
	sendAmount string
)

var sendCmd = &cobra.Command{
	Use:   "send",
	Short: "Send SOL to an address",
	RunE: func(cmd *cobra.Command, args []string) error {
		if sendTo == "" {
			return fmt.Errorf("--to is required")
		}
		if sendAmount == "" {
			return fmt.Errorf("--amount is required")
		}

		p, err := provider.Detect(cfg, newManager())
		if errors.Is(err, provider.ErrProviderUnavailable) {
			fmt.Println(ui.Warn("No wallet detected. Add one with `solpay wallet add`."))
			return nil
		}
		if err != nil {
			return err
		}

		ctrl := session.NewController(p)
		defer ctrl.Close()

		// One-shot sends ride on the trusted session only; they never prompt
		// for connection approval.
		ctrl.Start(cmd.Context())
		st := ctrl.State()
		if !st.Connected {
			fmt.Println(ui.Warn("Wallet not connected. Run `solpay connect` first."))
			return nil
		}

		fmt.Println(ui.KeyValueBlock("Transfer Preview", [][2]string{
			{"From", ui.Addr(st.PublicKey.String())},
			{"To", ui.Addr(sendTo)},
			{"Amount", ui.Val(sendAmount + " SOL")},
			{"Cluster", cfg.Cluster},
		}))

		if !ui.Confirm("Submit this transfer?") {
			fmt.Println(ui.Meta("Cancelled."))
			return nil
		}

		client := newClient()
		spin := ui.NewSpinner("Submitting transfer...")
		spin.Start()

		ctx, cancel := chain.Timeout(cmd.Context())
		defer cancel()
		receipt, err := transfer.NewSubmitter(ctrl.Provider(), client).Submit(ctx, transfer.Request{
			Recipient: sendTo,
			Amount:    sendAmount,
		})
		spin.Stop()
		if err != nil {
			fmt.Println(ui.Err(err.Error()))
			return nil
		}

		fmt.Println(ui.Success("Transfer confirmed!"))
		fmt.Println(ui.Addr("Signature: " + receipt.Signature.String()))
		fmt.Println(ui.Meta(explorerTxURL(receipt.Signature.String())))
		return nil
	},
}

func init() {
	sendCmd.Flags().StringVar(&sendTo, "to", "", "recipient address (required)")
	sendCmd.Flags().StringVar(&sendAmount, "amount", "", "amount in SOL (required)")
}

func explorerTxURL(sig string) string {
	url := "https://explorer.solana.com/tx/" + sig
	if cfg.Cluster == "devnet" {
		url += "?cluster=devnet"
	}
	return url
}
