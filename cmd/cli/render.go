package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/gratia-app/backend/internal/directory"
	"github.com/gratia-app/backend/internal/richtext"
)

var renderCmd = &cobra.Command{
	Use:   "render [content]",
	Short: "Render content into display segments",
	Long: `Render runs content through the full pipeline and prints the
resulting segments and direction. Content is read from the argument, or
from stdin when no argument is given. Markup input is sanitized first.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		content, err := contentFromArgsOrStdin(args)
		if err != nil {
			return err
		}

		dir := directory.NewStatic(userList...)
		valid, err := dir.ValidSet(context.Background(), richtext.ReferencedUsernames(content))
		if err != nil {
			return err
		}

		renderer := richtext.NewRenderer(nil)
		result := renderer.Render(content, valid, nil)

		if output == "json" {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(result)
		}

		fmt.Printf("direction: %s\n", result.Direction)
		if result.Markup {
			fmt.Printf("sanitized: %s\n", result.SafeMarkup)
		}
		for _, seg := range result.Segments {
			switch seg.Kind {
			case richtext.SegmentMention:
				fmt.Printf("  mention   %q -> %s\n", seg.Text, seg.Username)
			case richtext.SegmentPlainAt:
				fmt.Printf("  plain-at  %q\n", seg.Text)
			default:
				fmt.Printf("  text      %q\n", seg.Text)
			}
		}
		return nil
	},
}

func contentFromArgsOrStdin(args []string) (string, error) {
	if len(args) == 1 {
		return args[0], nil
	}
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", fmt.Errorf("reading stdin: %w", err)
	}
	return string(data), nil
}
