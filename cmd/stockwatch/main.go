package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/phuslu/log"
	"github.com/spf13/cobra"

	"StockWatch/internal/calendar"
	"StockWatch/internal/collector"
	"StockWatch/internal/config"
	"StockWatch/internal/store"
	"StockWatch/internal/watchlist"
)

var (
	cfgPath string
	cfg     *config.Config
)

var rootCmd = &cobra.Command{
	Use:           "stockwatch",
	Short:         "Track a watchlist of stocks and their fundamentals",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(cfgPath)
		if err != nil {
			return err
		}
		setupLogger(cfg.LogLevel)
		return cfg.Validate()
	},
}

func init() {
	def := config.DefaultPath
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		def = v
	}
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", def, "path to the YAML config file")

	rootCmd.AddCommand(addCmd, listCmd, searchCmd, dropCmd, updateCmd, updateAllCmd,
		historyCmd, infoCmd, initCmd, modeCmd, watchCmd)
}

func setupLogger(level string) {
	log.DefaultLogger = log.Logger{
		Level:  log.ParseLevel(level),
		Writer: &log.ConsoleWriter{Writer: os.Stderr},
	}
}

// openService builds the watchlist service for the configured mode.
func openService() (*watchlist.Service, func(), error) {
	st, err := store.Open(cfg.Mode, cfg.Storage.StocksFile, cfg.Storage.SQLitePath)
	if err != nil {
		return nil, nil, err
	}
	fetcher := collector.NewYahooFetcher(collector.YahooOptions{
		QuoteURL:          cfg.Yahoo.QuoteURL,
		ChartURL:          cfg.Yahoo.ChartURL,
		UserAgent:         cfg.Yahoo.UserAgent,
		Proxy:             cfg.Proxy,
		RequestsPerSecond: cfg.Yahoo.RequestsPerSecond,
	})
	log.Debug().Str("mode", cfg.Mode).Str("source", fetcher.Name()).Msg("watchlist opened")
	closeFn := func() {
		if err := st.Close(); err != nil {
			log.Error().Err(err).Msg("close store")
		}
	}
	return watchlist.New(st, fetcher), closeFn, nil
}

// exitCode reports err on w and returns the process status: 2 with the
// date usage for a rejected date, 1 for any other failure.
func exitCode(w io.Writer, err error) int {
	if err == nil {
		return 0
	}
	var de *calendar.DateError
	if errors.As(err, &de) {
		fmt.Fprintln(w, calendar.Usage)
		return 2
	}
	fmt.Fprintln(w, "Error:", err)
	return 1
}

func main() {
	if code := exitCode(os.Stderr, rootCmd.Execute()); code != 0 {
		os.Exit(code)
	}
}
