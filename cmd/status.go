package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/CodexEmmzy/solpay/internal/provider"
	"github.com/CodexEmmzy/solpay/internal/session"
	"github.com/CodexEmmzy/solpay/internal/ui"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show wallet session state",
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := provider.Detect(cfg, newManager())
		if errors.Is(err, provider.ErrProviderUnavailable) {
			fmt.Println(ui.KeyValueBlock("Session", [][2]string{
				{"Provider", ui.Err("unavailable")},
				{"Cluster", cfg.Cluster},
			}))
			return nil
		}
		if err != nil {
			return err
		}

		ctrl := session.NewController(p)
		defer ctrl.Close()

		ctrl.Start(cmd.Context())
		st := ctrl.State()

		rows := [][2]string{
			{"Provider", ui.Success("available")},
			{"Cluster", cfg.Cluster},
			{"RPC", ui.Meta(cfg.RPCURL())},
		}
		if st.Connected {
			rows = append(rows,
				[2]string{"Connected", ui.Success("yes")},
				[2]string{"Public key", ui.Addr(st.PublicKey.String())},
			)
		} else {
			rows = append(rows, [2]string{"Connected", ui.Meta("no (run `solpay connect`)")})
		}

		fmt.Println(ui.KeyValueBlock("Session", rows))
		return nil
	},
}
