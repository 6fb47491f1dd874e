package cmd

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"writook/internal/controller"
	"writook/internal/richtext"
)

var chapterCmd = &cobra.Command{
	Use:   "chapter",
	Short: "Read and write chapters",
}

var chapterReadCmd = &cobra.Command{
	Use:   "read [story-id] [number]",
	Short: "Read a chapter",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()
		ctx := cmd.Context()
		a.restore(ctx)

		number, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("chapter number must be an integer")
		}
		ctrl := controller.NewReadChapterController(a.deps)
		view, err := ctrl.Load(ctx, args[0], number)
		if err != nil || view == nil {
			return err
		}
		fmt.Printf("%s · %d. %s\n\n", view.Story.Title, view.Chapter.Number, view.Chapter.Title)
		fmt.Println(richtext.PlainText(view.Chapter.Content))
		if len(view.Comments) > 0 {
			fmt.Println()
			for _, c := range view.Comments {
				fmt.Printf("%s: %s\n", c.Author.Username, c.Content)
			}
		}
		fmt.Printf("\nread %d time(s) on this device\n", view.LocalViews)
		return nil
	},
}

var (
	chapterTitle string
	chapterFile  string
)

// loadChapterContent reads the chapter body from --from, importing PDF and
// HTML manuscripts as plain text.
func loadChapterContent(a *app) (string, error) {
	if chapterFile == "" {
		return "", fmt.Errorf("--from is required")
	}
	ctrl := controller.NewChapterEditorController(a.deps)
	content, words, err := ctrl.ImportDraft(chapterFile)
	if err != nil {
		return "", err
	}
	fmt.Fprintf(os.Stderr, "imported %d words from %s\n", words, chapterFile)
	return content, nil
}

var chapterAddCmd = &cobra.Command{
	Use:   "add [story-id]",
	Short: "Append a new chapter to one of your stories",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()
		ctx := cmd.Context()
		a.restore(ctx)

		content, err := loadChapterContent(a)
		if err != nil {
			return err
		}
		ctrl := controller.NewCreateChapterController(a.deps)
		chapter, err := ctrl.Create(ctx, args[0], chapterTitle, content)
		if err != nil || chapter == nil {
			return err
		}
		fmt.Printf("published chapter %d\n", chapter.Number)
		return nil
	},
}

var chapterEditCmd = &cobra.Command{
	Use:   "edit [story-id] [number]",
	Short: "Replace a chapter of one of your stories",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()
		ctx := cmd.Context()
		a.restore(ctx)

		number, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("chapter number must be an integer")
		}
		ctrl := controller.NewChapterEditorController(a.deps)
		draft, err := ctrl.Load(ctx, args[0], number)
		if err != nil || draft == nil {
			return err
		}

		chapter := draft.Chapter
		if chapterTitle != "" {
			chapter.Title = chapterTitle
		}
		if chapterFile != "" {
			content, err := loadChapterContent(a)
			if err != nil {
				return err
			}
			chapter.Content = content
		}
		return ctrl.Save(ctx, args[0], chapter)
	},
}

var chapterRateCmd = &cobra.Command{
	Use:   "rate [story-id] [number] [1-5]",
	Short: "Rate a chapter",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()
		ctx := cmd.Context()
		a.restore(ctx)

		number, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("chapter number must be an integer")
		}
		value, err := strconv.Atoi(args[2])
		if err != nil {
			return fmt.Errorf("rating must be a number between 1 and 5")
		}
		return controller.NewReadChapterController(a.deps).Rate(ctx, args[0], number, value)
	},
}

var chapterCommentCmd = &cobra.Command{
	Use:   "comment [story-id] [number] [text]",
	Short: "Comment on a chapter",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()
		ctx := cmd.Context()
		a.restore(ctx)

		number, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("chapter number must be an integer")
		}
		return controller.NewReadChapterController(a.deps).Comment(ctx, args[0], number, args[2])
	},
}

var chapterWordsCmd = &cobra.Command{
	Use:   "words [file]",
	Short: "Count the words in a manuscript file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		ctrl := controller.NewChapterEditorController(a.deps)
		_, words, err := ctrl.ImportDraft(args[0])
		if err != nil {
			return err
		}
		fmt.Println(words)
		return nil
	},
}

func init() {
	for _, c := range []*cobra.Command{chapterAddCmd, chapterEditCmd} {
		c.Flags().StringVar(&chapterTitle, "title", "", "chapter title")
		c.Flags().StringVar(&chapterFile, "from", "", "manuscript file (.txt, .html or .pdf)")
	}
	chapterAddCmd.MarkFlagRequired("title")
	chapterAddCmd.MarkFlagRequired("from")
	chapterCmd.AddCommand(chapterReadCmd, chapterAddCmd, chapterEditCmd, chapterRateCmd, chapterCommentCmd, chapterWordsCmd)
	rootCmd.AddCommand(chapterCmd)
}
