package cli

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"fourtumon/internal/api"
	"fourtumon/internal/cache"
	"fourtumon/internal/digest"
	"fourtumon/internal/export"
	"fourtumon/internal/filter"
	"fourtumon/internal/model"
	"fourtumon/internal/pipeline"

	"github.com/spf13/cobra"
)

var (
	itemTypeFlag string
	sinceFlag    string
	pageSize     int
	maxPages     int
	noCache      bool
	strictFlag   bool
	formatFlag   string
	outPath      string
	groupFlag    string
	keywordFlag  string
	fromFlag     string
	toFlag       string
	digestFlag   bool
)

// fetchCmd represents the fetch command
var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Fetch recent deposits and render the monitoring table",
	Long: `Fetch pulls recent article metadata for one item type, joins it with
group names, and prints the normalized table.

Results come from the local cache when available; pass --no-cache to
force a network fetch. Filters are applied after normalization and do
not affect what gets cached.

Example:
  fourtumon fetch
  fourtumon fetch --item-type software --since 2025-03-01
  fourtumon fetch --group "TU Delft" --keyword turbine --format csv --out delft.csv`,
	RunE: runFetch,
}

func init() {
	rootCmd.AddCommand(fetchCmd)

	// Query flags
	fetchCmd.Flags().StringVar(&itemTypeFlag, "item-type", "dataset", "item type: dataset, software, or a numeric code")
	fetchCmd.Flags().StringVar(&sinceFlag, "since", "", "only records published on/after this date (YYYY-MM-DD)")
	fetchCmd.Flags().IntVar(&pageSize, "page-size", 0, "records per page (default from config)")
	fetchCmd.Flags().IntVar(&maxPages, "max-pages", 0, "page ceiling per fetch (default from config)")
	fetchCmd.Flags().BoolVar(&noCache, "no-cache", false, "bypass the cache (force fresh fetch, skip cache writes)")
	fetchCmd.Flags().BoolVar(&strictFlag, "strict", false, "fail on mid-pagination request errors instead of returning partial results")

	// Filter flags
	fetchCmd.Flags().StringVar(&groupFlag, "group", "", "keep rows with this exact group name")
	fetchCmd.Flags().StringVar(&keywordFlag, "keyword", "", "keep rows whose title contains this keyword")
	fetchCmd.Flags().StringVar(&fromFlag, "from", "", "keep rows published on/after this date (YYYY-MM-DD)")
	fetchCmd.Flags().StringVar(&toFlag, "to", "", "keep rows published on/before this date (YYYY-MM-DD)")

	// Output flags
	fetchCmd.Flags().StringVar(&formatFlag, "format", "table", "output format: table, csv, json")
	fetchCmd.Flags().StringVar(&outPath, "out", "", "write output to a file instead of stdout")
	fetchCmd.Flags().BoolVar(&digestFlag, "digest", false, "append an LLM digest of the results (needs OPENAI_API_KEY)")
}

func runFetch(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	if sinceFlag != "" {
		cfg.Fetch.PublishedSince = sinceFlag
	}
	if pageSize > 0 {
		cfg.Fetch.PageSize = pageSize
	}
	if maxPages > 0 {
		cfg.Fetch.MaxPages = maxPages
	}
	if noCache {
		cfg.Cache.Enabled = false
	}
	if strictFlag {
		cfg.Fetch.Strict = true
	}

	itemType, err := parseItemType(itemTypeFlag)
	if err != nil {
		return err
	}

	filterOpts, err := parseFilterFlags()
	if err != nil {
		return err
	}

	client := api.NewClient(cfg.API)
	store := cache.NewLayeredStore(cfg.Cache.Dir)
	p := pipeline.New(client, store, cfg)

	if verbose {
		fmt.Fprintf(os.Stderr, "Base URL: %s\n", cfg.API.BaseURL)
		fmt.Fprintf(os.Stderr, "Item type: %d, since %s, %d page(s) of %d\n",
			itemType, cfg.Fetch.PublishedSince, cfg.Fetch.MaxPages, cfg.Fetch.PageSize)
		fmt.Fprintf(os.Stderr, "Cache: %v (%s)\n\n", cfg.Cache.Enabled, cfg.Cache.Dir)
	}

	table, err := p.BuildTable(context.Background(), itemType)
	if err != nil {
		return fmt.Errorf("fetch failed: %w", err)
	}

	if table.Truncated {
		fmt.Fprintln(os.Stderr, "Warning: pagination stopped early on a request failure; results are partial.")
	}
	if verbose && table.DroppedGroups > 0 {
		fmt.Fprintf(os.Stderr, "Skipped %d malformed group record(s)\n", table.DroppedGroups)
	}
	if verbose && table.UnparsableDates > 0 {
		fmt.Fprintf(os.Stderr, "Could not parse %d publication date(s)\n", table.UnparsableDates)
	}

	rows := filter.Apply(table.Rows, filterOpts)
	if len(rows) == 0 {
		fmt.Println("No results. Try --no-cache, a different --item-type, or wider filters.")
		return nil
	}

	if err := writeOutput(rows); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "%d result(s)\n", len(rows))

	if digestFlag {
		printDigest(cfg, table, rows)
	}
	return nil
}

// parseItemType accepts the item-type names or the raw upstream code.
func parseItemType(s string) (int, error) {
	switch s {
	case "dataset", "datasets":
		return model.ItemTypeDataset, nil
	case "software":
		return model.ItemTypeSoftware, nil
	}
	if n, err := strconv.Atoi(s); err == nil && n > 0 {
		return n, nil
	}
	return 0, fmt.Errorf("unknown item type %q (want dataset, software, or a numeric code)", s)
}

func parseFilterFlags() (filter.Options, error) {
	opts := filter.Options{
		GroupName: groupFlag,
		Keyword:   keywordFlag,
	}
	var err error
	if fromFlag != "" {
		if opts.From, err = time.Parse("2006-01-02", fromFlag); err != nil {
			return opts, fmt.Errorf("invalid --from date %q (want YYYY-MM-DD)", fromFlag)
		}
	}
	if toFlag != "" {
		if opts.To, err = time.Parse("2006-01-02", toFlag); err != nil {
			return opts, fmt.Errorf("invalid --to date %q (want YYYY-MM-DD)", toFlag)
		}
	}
	return opts, nil
}

func writeOutput(rows []model.Row) error {
	out := os.Stdout
	if outPath != "" {
		f, err := os.Create(outPath)
		if err != nil {
			return fmt.Errorf("create output file: %w", err)
		}
		defer f.Close()
		out = f
	}

	switch formatFlag {
	case "table":
		export.RenderTable(out, rows)
		return nil
	case "csv":
		return export.WriteCSV(out, rows)
	case "json":
		return export.WriteJSON(out, rows)
	default:
		return fmt.Errorf("unknown format %q (want table, csv, or json)", formatFlag)
	}
}

// printDigest is best-effort: a digest failure warns and leaves the
// rendered table untouched.
func printDigest(cfg *model.Config, table *model.Table, rows []model.Row) {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		fmt.Fprintln(os.Stderr, "Warning: --digest needs OPENAI_API_KEY, skipping digest")
		return
	}

	s, err := digest.NewSummarizer(digest.Config{
		APIKey:    apiKey,
		Model:     cfg.Digest.Model,
		MaxTokens: cfg.Digest.MaxTokens,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: digest unavailable: %v\n", err)
		return
	}

	digestTable := *table
	digestTable.Rows = rows
	summary, err := s.Summarize(context.Background(), &digestTable)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: digest generation failed: %v\n", err)
		return
	}
	fmt.Printf("\nDigest:\n%s\n", summary)
}
