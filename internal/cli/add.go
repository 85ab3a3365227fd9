package cli

import (
	"fmt"
	"time"

	"github.com/cargostow/stowage/internal/domain/cargo"
	"github.com/spf13/cobra"
)

var addFlags struct {
	id         string
	name       string
	width      int
	depth      int
	height     int
	mass       float64
	priority   int
	expiry     string
	usageLimit int
	zone       string
}

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a new item in the pending state",
	Run: func(cmd *cobra.Command, args []string) {
		engine, _, err := bootstrap()
		if err != nil {
			exitFor(err)
			return
		}

		item := &cargo.Item{
			ItemID:        addFlags.id,
			Name:          addFlags.name,
			W:             addFlags.width,
			D:             addFlags.depth,
			H:             addFlags.height,
			MassKg:        addFlags.mass,
			Priority:      addFlags.priority,
			UsageLimit:    addFlags.usageLimit,
			RemainingUses: addFlags.usageLimit,
			PreferredZone: addFlags.zone,
		}
		if addFlags.expiry != "" && addFlags.expiry != "none" {
			ts, perr := time.Parse("2006-01-02", addFlags.expiry)
			if perr != nil {
				exitFor(cargo.ErrValidation)
				return
			}
			item.ExpiryDate = &ts
		}

		if err := engine.AddItem(cmd.Context(), item); err != nil {
			exitFor(err)
			return
		}
		fmt.Printf("added %s (%s)\n", item.ItemID, item.Name)
		exitFor(nil)
	},
}

func init() {
	addCmd.Flags().StringVar(&addFlags.id, "id", "", "item id")
	addCmd.Flags().StringVar(&addFlags.name, "name", "", "item name")
	addCmd.Flags().IntVar(&addFlags.width, "width", 0, "item width")
	addCmd.Flags().IntVar(&addFlags.depth, "depth", 0, "item depth")
	addCmd.Flags().IntVar(&addFlags.height, "height", 0, "item height")
	addCmd.Flags().Float64Var(&addFlags.mass, "mass", 0, "item mass (kg)")
	addCmd.Flags().IntVar(&addFlags.priority, "priority", 50, "item priority (1-100)")
	addCmd.Flags().StringVar(&addFlags.expiry, "expiry", "none", "expiry date (YYYY-MM-DD) or none")
	addCmd.Flags().IntVar(&addFlags.usageLimit, "usage", 1, "usage limit")
	addCmd.Flags().StringVar(&addFlags.zone, "zone", "General", "preferred zone")

	_ = addCmd.MarkFlagRequired("id")
	_ = addCmd.MarkFlagRequired("name")
}
