package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/CodexEmmzy/solpay/internal/provider"
	"github.com/CodexEmmzy/solpay/internal/session"
	"github.com/CodexEmmzy/solpay/internal/ui"
)

var disconnectCmd = &cobra.Command{
	Use:   "disconnect",
	Short: "Disconnect the wallet and revoke its trust grant",
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := provider.Detect(cfg, newManager())
		if errors.Is(err, provider.ErrProviderUnavailable) {
			fmt.Println(ui.Warn("No wallet detected."))
			return nil
		}
		if err != nil {
			return err
		}

		ctrl := session.NewController(p)
		defer ctrl.Close()

		// Restore the trusted session first; without one there is nothing
		// to disconnect.
		ctrl.Start(cmd.Context())
		if !ctrl.State().Connected {
			fmt.Println(ui.Meta("No active wallet session."))
			return nil
		}

		ctrl.Disconnect(cmd.Context())
		if !ctrl.State().Connected {
			fmt.Println(ui.Success("Disconnected. Trust grant revoked."))
		}
		return nil
	},
}
