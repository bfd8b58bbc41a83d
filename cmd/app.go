package cmd

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/CodexEmmzy/solpay/internal/provider"
	"github.com/CodexEmmzy/solpay/internal/session"
	"github.com/CodexEmmzy/solpay/internal/ui"
)

var appEphemeral bool

var appCmd = &cobra.Command{
	Use:   "app",
	Short: "Open the interactive wallet surface",
	RunE: func(cmd *cobra.Command, args []string) error {
		var p provider.Provider
		if appEphemeral {
			p = provider.NewMemoryProvider(false)
		} else {
			// Inside the TUI the connect keybinding is itself the approval
			// gesture, so the provider's prompt auto-approves.
			detected, err := provider.Detect(cfg, newManager(),
				provider.WithApproval(func(string) bool { return true }))
			if err != nil && !errors.Is(err, provider.ErrProviderUnavailable) {
				return err
			}
			p = detected // nil when unavailable; the dashboard shows the notice
		}

		ctrl := session.NewController(p)
		defer ctrl.Close()

		return ui.NewDashboard(ctrl, newClient(), cfg.Cluster).Run()
	},
}

func init() {
	appCmd.Flags().BoolVar(&appEphemeral, "ephemeral", false, "use a throwaway in-memory wallet")
}
