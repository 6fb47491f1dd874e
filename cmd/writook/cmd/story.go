package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"writook/internal/controller"
)

var storyCmd = &cobra.Command{
	Use:   "story",
	Short: "Read and manage stories",
}

var storyShowJSON bool

var storyShowCmd = &cobra.Command{
	Use:   "show [story-id]",
	Short: "Show a story's public page",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()
		ctx := cmd.Context()
		a.restore(ctx)

		story, err := a.deps.Stories.Get(ctx, args[0])
		if err != nil {
			return err
		}
		if storyShowJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(story)
		}
		fmt.Printf("%s\nby %s\n\n%s\n\n", story.Title, story.Author.Username, story.Synopsis)
		for _, ch := range story.Chapters {
			marker := ""
			if a.deps.Views.HasViewed(ctx, story.ID, ch.Number) {
				marker = "  (read)"
			}
			fmt.Printf("  %d. %s%s\n", ch.Number, ch.Title, marker)
		}
		if stats, err := a.deps.Stories.Stats(ctx, story.ID); err == nil {
			fmt.Printf("\n%.1f stars (%d ratings), %d comments\n", stats.AverageRating, stats.TotalRatings, stats.TotalComments)
		}
		if snap := a.sessions.Current(); snap.LoggedIn() {
			if mine, err := a.deps.Social.MyRating(ctx, snap.Token, story.ID); err == nil && mine != nil {
				fmt.Printf("your rating: %d\n", mine.Value)
			}
		}
		return nil
	},
}

var (
	storyTitle    string
	storySynopsis string
	storyGenres   []string
	storyTags     []string
)

var storyCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Publish a new story",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()
		ctx := cmd.Context()
		a.restore(ctx)

		ctrl := controller.NewCreateStoryController(a.deps)
		story, err := ctrl.Create(ctx, storyTitle, storySynopsis, storyGenres, storyTags)
		if err != nil {
			return err
		}
		fmt.Printf("created story %s\n", story.ID)
		return nil
	},
}

var storyEditCmd = &cobra.Command{
	Use:   "edit [story-id]",
	Short: "Edit a story's title, synopsis, genres or tags",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()
		ctx := cmd.Context()
		a.restore(ctx)

		ctrl := controller.NewStoryDetailsController(a.deps)
		return ctrl.UpdateMetadata(ctx, args[0], storyTitle, storySynopsis, storyGenres, storyTags)
	},
}

var storyWorkspaceCmd = &cobra.Command{
	Use:   "workspace [story-id]",
	Short: "Show the owner workspace for one of your stories",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()
		ctx := cmd.Context()
		a.restore(ctx)

		ctrl := controller.NewStoryDetailsController(a.deps)
		view, err := ctrl.Load(ctx, args[0])
		if err != nil || view == nil {
			return err
		}
		fmt.Printf("%s\n\n%s\n\n", view.Story.Title, view.Story.Synopsis)
		for _, ch := range view.Story.Chapters {
			fmt.Printf("  %d. %s\n", ch.Number, ch.Title)
		}
		fmt.Printf("\nlocal views: %d\nshare: %s\n", view.LocalViews, view.ShareURL)
		return nil
	},
}

var storyRateCmd = &cobra.Command{
	Use:   "rate [story-id] [1-5]",
	Short: "Rate a story",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()
		ctx := cmd.Context()
		a.restore(ctx)

		value, err := strconv.Atoi(args[1])
		if err != nil || value < 1 || value > 5 {
			return fmt.Errorf("rating must be a number between 1 and 5")
		}
		snap := a.sessions.Current()
		if !snap.LoggedIn() {
			return fmt.Errorf("log in to rate stories")
		}
		if _, err := a.deps.Social.RateStory(ctx, snap.Token, args[0], value); err != nil {
			return err
		}
		a.deps.Views.RememberStoryRating(ctx, args[0], value)
		fmt.Printf("rated %s: %d\n", args[0], value)
		return nil
	},
}

var storyUnrateCmd = &cobra.Command{
	Use:   "unrate [story-id]",
	Short: "Remove your rating from a story",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()
		ctx := cmd.Context()
		a.restore(ctx)

		snap := a.sessions.Current()
		if !snap.LoggedIn() {
			return fmt.Errorf("log in to manage ratings")
		}
		return a.deps.Social.DeleteRating(ctx, snap.Token, args[0])
	},
}

var storyCommentCmd = &cobra.Command{
	Use:   "comment [story-id] [text]",
	Short: "Comment on a story",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()
		ctx := cmd.Context()
		a.restore(ctx)

		snap := a.sessions.Current()
		if !snap.LoggedIn() {
			return fmt.Errorf("log in to comment")
		}
		_, err = a.deps.Social.CreateComment(ctx, snap.Token, args[0], args[1])
		return err
	},
}

var storyCommentsCmd = &cobra.Command{
	Use:   "comments [story-id]",
	Short: "List a story's comments",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		comments, err := a.deps.Social.StoryComments(cmd.Context(), args[0], 0, 20)
		if err != nil {
			return err
		}
		for _, c := range comments {
			fmt.Printf("%s: %s\n", c.Author.Username, c.Content)
		}
		return nil
	},
}

func init() {
	storyShowCmd.Flags().BoolVar(&storyShowJSON, "json", false, "output as JSON")
	for _, c := range []*cobra.Command{storyCreateCmd, storyEditCmd} {
		c.Flags().StringVar(&storyTitle, "title", "", "story title")
		c.Flags().StringVar(&storySynopsis, "synopsis", "", "story synopsis")
		c.Flags().StringSliceVar(&storyGenres, "genre", nil, "genre (repeatable)")
		c.Flags().StringSliceVar(&storyTags, "tag", nil, "tag (repeatable)")
	}
	storyCreateCmd.MarkFlagRequired("title")
	storyCmd.AddCommand(storyShowCmd, storyCreateCmd, storyEditCmd, storyWorkspaceCmd,
		storyRateCmd, storyUnrateCmd, storyCommentCmd, storyCommentsCmd)
	rootCmd.AddCommand(storyCmd)
}
