package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"writook/internal/controller"
)

var worksJSON bool

var worksCmd = &cobra.Command{
	Use:   "works [username]",
	Short: "List your stories, or another author's public ones",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()
		ctx := cmd.Context()
		a.restore(ctx)

		ctrl := controller.NewMyWorksController(a.deps)
		if len(args) == 1 {
			stories, err := ctrl.ByAuthor(ctx, args[0])
			if err != nil {
				return err
			}
			if worksJSON {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(stories)
			}
			for _, s := range stories {
				fmt.Printf("%s  %s (%d chapters)\n", s.ID, s.Title, len(s.Chapters))
			}
			return nil
		}

		items, err := ctrl.Load(ctx)
		if err != nil {
			return err
		}
		if worksJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(items)
		}
		for _, item := range items {
			line := fmt.Sprintf("%s  %s (%d chapters, %d local views",
				item.Story.ID, item.Story.Title, len(item.Story.Chapters), item.LocalViews)
			if item.Stats != nil {
				line += fmt.Sprintf(", %.1f stars from %d ratings", item.Stats.AverageRating, item.Stats.TotalRatings)
			}
			fmt.Println(line + ")")
		}
		return nil
	},
}

func init() {
	worksCmd.Flags().BoolVar(&worksJSON, "json", false, "output as JSON")
	rootCmd.AddCommand(worksCmd)
}
