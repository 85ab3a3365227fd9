package cli

import (
	"fmt"

	"github.com/cargostow/stowage/internal/domain/cargo"
	"github.com/spf13/cobra"
)

var wasteID string

// wasteCmd reports an item's waste status. The core only transitions
// items to waste automatically (expiry or usage depletion via the
// time simulator); this command surfaces that state rather than
// forcing it, since a forced transition would violate I4.
var wasteCmd = &cobra.Command{
	Use:   "waste",
	Short: "Report whether an item is marked as waste, and why",
	Run: func(cmd *cobra.Command, args []string) {
		if wasteID == "" {
			exitFor(cargo.ErrValidation)
			return
		}
		engine, _, err := bootstrap()
		if err != nil {
			exitFor(err)
			return
		}

		result, err := engine.Search(cmd.Context(), wasteID)
		if err != nil {
			exitFor(err)
			return
		}
		if !result.Found {
			exitFor(cargo.ErrNotFound)
			return
		}
		if result.Item.Status != cargo.StatusWaste {
			fmt.Printf("%s is not waste (status=%s)\n", result.Item.ItemID, result.Item.Status)
			exitFor(nil)
			return
		}
		fmt.Printf("%s is waste: reason=%s container=%s\n", result.Item.ItemID, result.Item.WasteReason, result.Item.ContainerID)
		exitFor(nil)
	},
}

func init() {
	wasteCmd.Flags().StringVar(&wasteID, "id", "", "item id")
	_ = wasteCmd.MarkFlagRequired("id")
}
