package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/CodexEmmzy/solpay/internal/ui"
)

var (
	walletAddKey      string
	walletAddWatch    string
	walletAddGenerate bool
)

var walletCmd = &cobra.Command{
	Use:   "wallet",
	Short: "Manage wallets",
}

var walletAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add a wallet (signing with --key/--generate, watch-only with --watch)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		mgr := newManager()

		switch {
		case walletAddGenerate:
			w, err := mgr.Generate(name)
			if err != nil {
				return err
			}
			fmt.Println(ui.Success("Generated wallet " + name))
			fmt.Println(ui.Addr(w.Address))

		case walletAddKey != "":
			if err := mgr.AddWithKey(name, walletAddKey); err != nil {
				return err
			}
			w, _ := mgr.Get(name)
			fmt.Println(ui.Success("Added signing wallet " + name))
			fmt.Println(ui.Addr(w.Address))

		case walletAddWatch != "":
			if err := mgr.AddWatch(name, walletAddWatch); err != nil {
				return err
			}
			fmt.Println(ui.Success("Added watch-only wallet " + name))

		default:
			return fmt.Errorf("one of --key, --generate or --watch is required")
		}

		// First wallet becomes the default automatically.
		if len(mgr.List()) == 1 {
			if err := mgr.SetDefault(name); err != nil {
				return err
			}
		}
		return nil
	},
}

var walletListCmd = &cobra.Command{
	Use:   "list",
	Short: "List wallets",
	RunE: func(cmd *cobra.Command, args []string) error {
		wallets := newManager().List()
		if len(wallets) == 0 {
			fmt.Println(ui.Meta("No wallets. Add one with `solpay wallet add`."))
			return nil
		}
		for _, w := range wallets {
			marker := "  "
			if w.IsDefault {
				marker = ui.Success("* ")
			}
			fmt.Printf("%s%s  %s  %s\n", marker, w.Name, ui.Addr(ui.TruncateAddr(w.Address)), ui.Meta(w.Type))
		}
		return nil
	},
}

var walletRemoveCmd = &cobra.Command{
	Use:   "remove <name>",
	Short: "Remove a wallet and its stored key",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := newManager().Remove(args[0]); err != nil {
			return err
		}
		fmt.Println(ui.Success("Removed wallet " + args[0]))
		return nil
	},
}

var walletDefaultCmd = &cobra.Command{
	Use:   "set-default <name>",
	Short: "Mark a wallet as the default",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := newManager().SetDefault(args[0]); err != nil {
			return err
		}
		cfg.DefaultWallet = args[0]
		if err := cfg.Save(); err != nil {
			return err
		}
		fmt.Println(ui.Success("Default wallet: " + args[0]))
		return nil
	},
}

func init() {
	walletAddCmd.Flags().StringVar(&walletAddKey, "key", "", "base58 private key")
	walletAddCmd.Flags().StringVar(&walletAddWatch, "watch", "", "public address for a watch-only wallet")
	walletAddCmd.Flags().BoolVar(&walletAddGenerate, "generate", false, "generate a fresh keypair")
	walletAddCmd.MarkFlagsMutuallyExclusive("key", "watch", "generate")

	walletCmd.AddCommand(walletAddCmd, walletListCmd, walletRemoveCmd, walletDefaultCmd)
}
