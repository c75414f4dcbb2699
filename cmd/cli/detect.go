package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gratia-app/backend/internal/directory"
	"github.com/gratia-app/backend/internal/editor"
	"github.com/gratia-app/backend/internal/richtext"
)

var caretOffset int

func init() {
	detectCmd.Flags().IntVar(&caretOffset, "caret", -1, "Caret offset in runes (default: end of text)")
}

var detectCmd = &cobra.Command{
	Use:   "detect <text>",
	Short: "Detect an in-progress mention trigger",
	Long: `Detect rebuilds the composition document from plain text and reports
whether the caret sits inside an in-progress @query, plus matching
username suggestions from the --user list.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		text := args[0]
		dir := directory.NewStatic(userList...)

		valid, err := dir.ValidSet(context.Background(), richtext.ReferencedUsernames(text))
		if err != nil {
			return err
		}
		doc := richtext.ParseDocument(text, valid)

		caret := caretOffset
		if caret < 0 {
			caret = doc.Len()
		}

		state, err := richtext.DetectTrigger(doc, caret)
		if err != nil {
			return err
		}

		var suggestions []string
		if state.Active {
			suggestions, err = dir.Search(context.Background(), state.Query, editor.DefaultSuggestionLimit)
			if err != nil {
				return err
			}
		}

		if output == "json" {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(map[string]interface{}{
				"trigger":     state,
				"suggestions": suggestions,
			})
		}

		if !state.Active {
			fmt.Println("no active trigger")
			return nil
		}
		fmt.Printf("trigger: query=%q start=%d\n", state.Query, state.QueryStart)
		for _, s := range suggestions {
			fmt.Printf("  @%s\n", s)
		}
		return nil
	},
}
