package cli

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"fourtumon/internal/model"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	verbose bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "fourtumon",
	Short: "fourtumon - monitoring dashboard for 4TU.ResearchData deposits",
	Long: `Fourtumon queries the public 4TU.ResearchData API for recent dataset
and software metadata, joins it with organizational group names, and
renders a filterable, exportable table.

Fetched responses are cached on disk per query, so repeated runs stay
cheap and kind to the public API. Use 'fourtumon cache clear' or
'fetch --no-cache' to force a fresh fetch.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("fourtumon v0.1.0")
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.fourtumon/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))

	// Add subcommands
	rootCmd.AddCommand(versionCmd)
}

// initConfig reads in config file and FOURTU_* environment variables
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error finding home directory: %v\n", err)
			return
		}

		viper.AddConfigPath(home + "/.fourtumon")
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	viper.SetEnvPrefix("FOURTU")
	viper.AutomaticEnv()

	// Environment names kept from the original workshop setup.
	_ = viper.BindEnv("api.base_url", "FOURTU_BASE_URL")
	_ = viper.BindEnv("api.token", "FOURTU_TOKEN")
	_ = viper.BindEnv("api.timeout", "FOURTU_TIMEOUT")
	_ = viper.BindEnv("api.requests_per_second", "FOURTU_RPS")
	_ = viper.BindEnv("fetch.published_since", "FOURTU_PUBLISHED_SINCE")
	_ = viper.BindEnv("fetch.page_size", "FOURTU_PAGE_SIZE")
	_ = viper.BindEnv("fetch.max_pages", "FOURTU_MAX_PAGES")
	_ = viper.BindEnv("fetch.strict", "FOURTU_STRICT")
	_ = viper.BindEnv("cache.dir", "FOURTU_CACHE_DIR")
	_ = viper.BindEnv("digest.model", "FOURTU_DIGEST_MODEL")

	if err := viper.ReadInConfig(); err == nil && verbose {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	}
}

// loadConfig resolves the effective configuration: defaults overlaid
// with config-file and environment values.
func loadConfig() *model.Config {
	cfg := model.DefaultConfig()

	if v := viper.GetString("api.base_url"); v != "" {
		cfg.API.BaseURL = v
	}
	if v := viper.GetString("api.token"); v != "" {
		cfg.API.Token = v
	}
	if v, ok := configTimeout(); ok {
		cfg.API.Timeout = v
	}
	if v := viper.GetFloat64("api.requests_per_second"); v > 0 {
		cfg.API.RequestsPerSecond = v
	}
	if v := viper.GetString("fetch.published_since"); v != "" {
		cfg.Fetch.PublishedSince = v
	}
	if v := viper.GetInt("fetch.page_size"); v > 0 {
		cfg.Fetch.PageSize = v
	}
	if v := viper.GetInt("fetch.max_pages"); v > 0 {
		cfg.Fetch.MaxPages = v
	}
	if viper.IsSet("fetch.strict") {
		cfg.Fetch.Strict = viper.GetBool("fetch.strict")
	}
	if v := viper.GetString("cache.dir"); v != "" {
		cfg.Cache.Dir = v
	}
	if v := viper.GetString("digest.model"); v != "" {
		cfg.Digest.Model = v
	}

	return cfg
}

// configTimeout reads the request timeout. Config files carry a
// duration string ("30s"); FOURTU_TIMEOUT keeps the original bare
// seconds form ("30").
func configTimeout() (time.Duration, bool) {
	raw := viper.GetString("api.timeout")
	if raw == "" {
		return 0, false
	}
	if d, err := time.ParseDuration(raw); err == nil && d > 0 {
		return d, true
	}
	// Bare values beyond a day are not seconds; ignore them rather
	// than overflow into a negative duration.
	if n, err := strconv.Atoi(raw); err == nil && n > 0 && n <= 86400 {
		return time.Duration(n) * time.Second, true
	}
	return 0, false
}
