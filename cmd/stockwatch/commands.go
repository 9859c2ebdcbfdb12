package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"StockWatch/internal/glossary"
	"StockWatch/internal/notifier"
	"StockWatch/internal/store"
)

var addCmd = &cobra.Command{
	Use:   "add <symbol>",
	Short: "Add a stock to the watchlist",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, done, err := openService()
		if err != nil {
			return err
		}
		defer done()
		if _, err := svc.Add(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Stock was added!")
		return nil
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the watched symbols",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, done, err := openService()
		if err != nil {
			return err
		}
		defer done()
		symbols, err := svc.List()
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), notifier.FormatList(symbols))
		return nil
	},
}

var searchCmd = &cobra.Command{
	Use:   "search <symbol>",
	Short: "Show the stored fundamentals of a stock",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, done, err := openService()
		if err != nil {
			return err
		}
		defer done()
		snap, err := svc.Get(args[0])
		if errors.Is(err, store.ErrNotFound) {
			fmt.Fprintln(cmd.OutOrStdout(), "Stock was not found.")
			return nil
		}
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), notifier.FormatSnapshot(snap))
		return nil
	},
}

var dropCmd = &cobra.Command{
	Use:   "drop <symbol>",
	Short: "Remove a stock from the watchlist",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, done, err := openService()
		if err != nil {
			return err
		}
		defer done()
		err = svc.Drop(args[0])
		if errors.Is(err, store.ErrNotFound) {
			fmt.Fprintln(cmd.OutOrStdout(), "Stock was not found.")
			return nil
		}
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Stock was deleted!")
		return nil
	},
}

var updateCmd = &cobra.Command{
	Use:   "update <symbol>",
	Short: "Refresh one stock",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, done, err := openService()
		if err != nil {
			return err
		}
		defer done()
		snap, err := svc.Update(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Stock %s was updated!\n", strings.ToUpper(snap.Symbol))
		return nil
	},
}

var updateAllCmd = &cobra.Command{
	Use:   "update-all",
	Short: "Refresh every stock on the watchlist",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, done, err := openService()
		if err != nil {
			return err
		}
		defer done()
		sum, err := svc.UpdateAll(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), notifier.FormatUpdateSummary(sum))
		if !sum.OK() {
			return fmt.Errorf("%d stock(s) failed to update", len(sum.Failed))
		}
		return nil
	},
}

var historyCmd = &cobra.Command{
	Use:   "history <symbol> <date>",
	Short: "Compare the current price with the close on a past day",
	Long: `Compare the current price with the close on a past day.

The date is either absolute (DD.MM.YYYY) or relative to today
(NUMBER.days, NUMBER.weeks, NUMBER.months, NUMBER.years).
Weekend days move to the following Monday.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, done, err := openService()
		if err != nil {
			return err
		}
		defer done()
		r, err := svc.History(cmd.Context(), args[0], args[1])
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), r.String())
		return nil
	},
}

var infoCmd = &cobra.Command{
	Use:   "info [term]",
	Short: "Explain a financial ratio or term",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		if len(args) == 0 {
			fmt.Fprintln(out, "Supported terms:")
			for _, t := range glossary.Terms() {
				fmt.Fprintln(out, "  - "+t)
			}
			return nil
		}
		e, err := glossary.Lookup(args[0])
		if err != nil {
			fmt.Fprintln(out, err.Error())
			return nil
		}
		fmt.Fprintln(out, e.String())
		return nil
	},
}

var initMode string

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Choose the storage mode and create the store",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg.Mode = initMode
		if err := cfg.Validate(); err != nil {
			return err
		}
		st, err := store.Open(cfg.Mode, cfg.Storage.StocksFile, cfg.Storage.SQLitePath)
		if err != nil {
			return err
		}
		if err := st.Close(); err != nil {
			return err
		}
		if err := cfg.Save(cfgPath); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Storage mode set to %s.\n", cfg.Mode)
		return nil
	},
}

func init() {
	initCmd.Flags().StringVar(&initMode, "mode", store.ModeFile, "storage mode: file or database")
}

var modeCmd = &cobra.Command{
	Use:   "mode",
	Short: "Print the storage mode",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), cfg.Mode)
	},
}
