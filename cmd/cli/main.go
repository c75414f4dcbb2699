package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	userList []string
	output   string = "text" // "text" or "json"
)

var rootCmd = &cobra.Command{
	Use:   "gratia",
	Short: "Gratia content CLI - Preview the rich content pipeline",
	Long: `Gratia content CLI runs post content through the rendering pipeline
without a server: mention resolution, sanitization, and direction
classification. Supply known usernames with --user to control which
mentions resolve.`,
}

func init() {
	rootCmd.PersistentFlags().StringSliceVar(&userList, "user", nil, "Known username (repeatable)")
	rootCmd.PersistentFlags().StringVar(&output, "output", output, "Output format: text or json")

	rootCmd.AddCommand(renderCmd)
	rootCmd.AddCommand(detectCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
