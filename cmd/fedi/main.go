package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/jmerrifield20/fedikit/internal/transport"
	"github.com/jmerrifield20/fedikit/pkg/apps"
	"github.com/jmerrifield20/fedikit/pkg/client"
)

// version is overridden at build time via -ldflags "-X main.version=...".
var version = "dev"

var (
	cfgFile     string
	baseURL     string
	verbose     bool
	dumpMetrics bool
	rps         float64

	logger   *zap.Logger
	registry *prometheus.Registry
)

func main() {
	if err := run(); err != nil {
		os.Exit(1)
	}
}

// run executes the root command. The metrics dump and log flush happen
// whether or not the command fails.
func run() error {
	defer finish()
	return rootCmd.Execute()
}

func finish() {
	if dumpMetrics && registry != nil {
		if err := writeMetrics(rootCmd.ErrOrStderr(), registry); err != nil && logger != nil {
			logger.Warn("dump metrics", zap.Error(err))
		}
	}
	if logger != nil {
		_ = logger.Sync()
	}
}

var rootCmd = &cobra.Command{
	Use:   "fedi",
	Short: "Command-line client for Mastodon-compatible servers",
	Long: `fedi talks to a Mastodon-compatible server with the credentials in
~/.fedi/config.yaml (or FEDI_* environment variables).

Getting a token is a three-step flow:

  fedi register --base https://mastodon.social --name my-app
  fedi authorize-url        # open it, approve, copy the code
  fedi exchange <code>      # prints the token to add to the config`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default ~/.fedi/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&baseURL, "base", "", "server base URL, e.g. https://mastodon.social")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log every request")
	rootCmd.PersistentFlags().BoolVar(&dumpMetrics, "metrics", false, "print request metrics to stderr on exit")
	rootCmd.PersistentFlags().Float64Var(&rps, "rps", 0, "client-side requests per second (overrides rate_limit_rps; 0 means no limit)")

	rootCmd.AddCommand(versionCmd)
}

func setup(cmd *cobra.Command, args []string) error {
	path := cfgFile
	if path == "" {
		home, _ := os.UserHomeDir()
		path = filepath.Join(home, ".fedi", "config.yaml")
	}
	viper.SetConfigFile(path)
	viper.SetEnvPrefix("fedi")
	viper.AutomaticEnv()
	viper.SetDefault("redirect", apps.OOBRedirect)
	viper.SetDefault("scopes", "read")
	viper.SetDefault("rate_limit_rps", 0)
	viper.SetDefault("rate_limit_burst", 1)
	_ = viper.ReadInConfig()

	if baseURL == "" {
		baseURL = viper.GetString("base")
	}

	var err error
	if verbose {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}

	registry = nil
	if dumpMetrics {
		registry = prometheus.NewRegistry()
	}
	return nil
}

// httpClient builds the instrumented client shared by every command.
func httpClient() *http.Client {
	limit := rps
	if limit == 0 {
		limit = viper.GetFloat64("rate_limit_rps")
	}
	opts := []transport.Option{
		transport.WithLogger(logger),
		transport.WithRateLimit(limit, viper.GetInt("rate_limit_burst")),
	}
	if registry != nil {
		opts = append(opts, transport.WithMetrics(registry))
	}
	return transport.NewHTTPClient(opts...)
}

func clientOptions() []client.Option {
	return []client.Option{
		client.WithHTTPClient(httpClient()),
		client.WithUserAgent("fedi/" + version),
	}
}

// newClient builds an authenticated client from the configured bundle.
func newClient() (*client.Client, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("no server configured: pass --base or set base in the config")
	}
	return client.New(client.Data{
		Base:         baseURL,
		ClientID:     viper.GetString("client_id"),
		ClientSecret: viper.GetString("client_secret"),
		Redirect:     viper.GetString("redirect"),
		Token:        viper.GetString("token"),
	}, clientOptions()...)
}

// printJSON writes v to the command's stdout as indented JSON.
func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeMetrics(w io.Writer, g prometheus.Gatherer) error {
	families, err := g.Gather()
	if err != nil {
		return err
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return err
		}
	}
	return nil
}

func parseID(s string) (uint64, error) {
	id, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid id %q: must be a positive integer", s)
	}
	return id, nil
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// ── version ──────────────────────────────────────────────────────────────────

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the CLI version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "fedi %s\n", version)
	},
}
