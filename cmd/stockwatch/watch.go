package main

import (
	"os/signal"
	"sync"
	"syscall"

	"github.com/phuslu/log"
	"github.com/spf13/cobra"

	"StockWatch/internal/notifier"
	"StockWatch/internal/scheduler"
)

var watchNow bool

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Refresh the watchlist on a schedule and answer Telegram commands",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, done, err := openService()
		if err != nil {
			return err
		}
		defer done()

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		var tn *notifier.TelegramNotifier
		sched := scheduler.NewScheduler(ctx, svc, nil)
		if cfg.NotifyEnabled() {
			tn = notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy)
			if cfg.Telegram.APIBase != "" {
				tn.APIBase = cfg.Telegram.APIBase
			}
			sched.Notifier = tn
		} else {
			log.Info().Msg("telegram not configured, summaries go to the log")
		}

		if err := sched.Register(cfg.Schedule.UpdateCron); err != nil {
			return err
		}
		sched.Start()
		defer sched.Stop()

		// Deferred calls run after wg.Wait, so the store stays open until
		// polling and the startup update have returned.
		var wg sync.WaitGroup
		if tn != nil {
			wg.Add(1)
			go func() {
				defer wg.Done()
				tn.StartPolling(ctx, sched.HandleCommand)
			}()
			log.Info().Msg("telegram polling started")
		}
		if watchNow {
			wg.Add(1)
			go func() {
				defer wg.Done()
				sched.RunUpdateNow()
			}()
		}

		log.Info().Str("cron", cfg.Schedule.UpdateCron).Msg("stockwatch is running, press Ctrl+C to stop")
		<-ctx.Done()
		log.Info().Msg("shutdown signal received, stopping")
		wg.Wait()
		return nil
	},
}

func init() {
	watchCmd.Flags().BoolVar(&watchNow, "now", false, "run an update immediately on start")
}
