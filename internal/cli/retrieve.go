package cli

import (
	"fmt"

	"github.com/cargostow/stowage/internal/domain/cargo"
	"github.com/spf13/cobra"
)

var retrieveID string

var retrieveCmd = &cobra.Command{
	Use:   "retrieve",
	Short: "Retrieve an item through its container's open face",
	Run: func(cmd *cobra.Command, args []string) {
		if retrieveID == "" {
			exitFor(cargo.ErrValidation)
			return
		}
		engine, _, err := bootstrap()
		if err != nil {
			exitFor(err)
			return
		}

		plan, err := engine.Retrieve(cmd.Context(), retrieveID)
		if err != nil {
			exitFor(err)
			return
		}
		for _, step := range plan.Steps {
			fmt.Printf("[%d] %s %s (%s)\n", step.Seq, step.Action, step.ItemID, step.ItemName)
		}
		if plan.FromWaste {
			fmt.Println("retrieved from waste")
		}
		exitFor(nil)
	},
}

func init() {
	retrieveCmd.Flags().StringVar(&retrieveID, "id", "", "item id")
	_ = retrieveCmd.MarkFlagRequired("id")
}
