package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kilianp07/failpredict/app/plugins"
)

var pluginsCmd = &cobra.Command{
	Use:   "plugins",
	Short: "List the registered model, metrics and notifier types",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, kind := range []string{plugins.KindModel, plugins.KindMetrics, plugins.KindNotifier} {
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", kind, strings.Join(plugins.Registered()[kind], ", "))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(pluginsCmd)
}
