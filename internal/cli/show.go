package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"fourtumon/internal/api"

	"github.com/spf13/cobra"
)

// showCmd represents the show command
var showCmd = &cobra.Command{
	Use:   "show <article-id>",
	Short: "Fetch and print one article's full metadata record",
	Long: `Show fetches the detail record of a single article straight from the
API (the detail endpoint is never cached) and prints it as JSON.

Example:
  fourtumon show 12345678`,
	Args: cobra.ExactArgs(1),
	RunE: runShow,
}

func init() {
	rootCmd.AddCommand(showCmd)
}

func runShow(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	client := api.NewClient(cfg.API)

	if verbose {
		fmt.Fprintf(os.Stderr, "GET %s\n", client.Endpoints().ArticleDetail(args[0]))
	}

	record, err := client.ArticleDetail(context.Background(), args[0])
	if err != nil {
		return fmt.Errorf("fetch article %s: %w", args[0], err)
	}

	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return fmt.Errorf("render record: %w", err)
	}
	fmt.Println(string(data))
	return nil
}
