package cli

import (
	"fmt"

	"github.com/cargostow/stowage/internal/domain/cargo"
	"github.com/spf13/cobra"
)

var searchName string

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Search for an item by id or name",
	Run: func(cmd *cobra.Command, args []string) {
		if searchName == "" {
			exitFor(cargo.ErrValidation)
			return
		}
		engine, _, err := bootstrap()
		if err != nil {
			exitFor(err)
			return
		}

		result, err := engine.Search(cmd.Context(), searchName)
		if err != nil {
			exitFor(err)
			return
		}
		if !result.Found {
			fmt.Println("no matching item")
			exitFor(cargo.ErrNotFound)
			return
		}

		fmt.Printf("%s %q status=%s container=%s\n", result.Item.ItemID, result.Item.Name, result.Item.Status, result.Item.ContainerID)
		if result.Plan != nil {
			for _, step := range result.Plan.Steps {
				fmt.Printf("  [%d] %s %s (%s)\n", step.Seq, step.Action, step.ItemID, step.ItemName)
			}
		}
		exitFor(nil)
	},
}

func init() {
	searchCmd.Flags().StringVar(&searchName, "name", "", "item id or name")
}
