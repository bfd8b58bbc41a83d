package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/CodexEmmzy/solpay/internal/provider"
	"github.com/CodexEmmzy/solpay/internal/session"
	"github.com/CodexEmmzy/solpay/internal/ui"
)

var connectCmd = &cobra.Command{
	Use:   "connect",
	Short: "Connect the wallet (interactive, records a trust grant)",
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := provider.Detect(cfg, newManager(),
			provider.WithApproval(func(name string) bool {
				return ui.Confirm(fmt.Sprintf("Allow this terminal to use wallet %q?", name))
			}))
		if errors.Is(err, provider.ErrProviderUnavailable) {
			fmt.Println(ui.Warn("No wallet detected. Add one with `solpay wallet add`."))
			return nil
		}
		if err != nil {
			return err
		}

		ctrl := session.NewController(p)
		defer ctrl.Close()

		ctrl.Connect(cmd.Context())

		if st := ctrl.State(); st.Connected {
			fmt.Println(ui.Success("Connected"))
			fmt.Println(ui.Addr(st.PublicKey.String()))
			fmt.Println(ui.Meta("Future connects succeed silently until you disconnect."))
		} else {
			fmt.Println(ui.Meta("Connection not established."))
		}
		return nil
	},
}
