package cli

import (
	"fmt"

	"github.com/cargostow/stowage/internal/repo"
	"github.com/spf13/cobra"
)

var logsAction string

var logsCmd = &cobra.Command{
	Use:   "logs",
	Short: "List action log entries, optionally filtered by action type",
	Run: func(cmd *cobra.Command, args []string) {
		engine, _, err := bootstrap()
		if err != nil {
			exitFor(err)
			return
		}

		entries, err := engine.Logs(cmd.Context(), repo.LogFilter{ActionType: logsAction})
		if err != nil {
			exitFor(err)
			return
		}
		for _, e := range entries {
			fmt.Printf("%s %-10s item=%s details=%v\n", e.Timestamp.Format("2006-01-02T15:04:05Z"), e.ActionType, e.ItemID, e.Details)
		}
		exitFor(nil)
	},
}

func init() {
	logsCmd.Flags().StringVar(&logsAction, "action", "", "filter by action type")
}
