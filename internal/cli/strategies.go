package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pkgscout/pkgscout"
)

func newStrategiesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "strategies",
		Short: "List the available discovery strategies in selection order",
		Run: func(cmd *cobra.Command, args []string) {
			for _, name := range pkgscout.StrategyNames() {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
		},
	}
}
