package scheduler

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/phuslu/log"
	"github.com/robfig/cron/v3"

	"StockWatch/internal/calendar"
	"StockWatch/internal/history"
	"StockWatch/internal/notifier"
	"StockWatch/internal/store"
	"StockWatch/internal/watchlist"
)

// Sender delivers a text notification.
type Sender interface {
	SendWithRetry(ctx context.Context, text string, maxRetries int) error
}

// Scheduler runs the periodic watchlist refresh and answers chat commands.
// Work that hits the quote source holds mu, so refreshes never overlap.
type Scheduler struct {
	Cron     *cron.Cron
	Service  *watchlist.Service
	Notifier Sender // nil disables notifications
	Ctx      context.Context

	mu sync.Mutex
}

// NewScheduler creates a new Scheduler. A tick that fires while the
// previous refresh is still running is skipped.
func NewScheduler(ctx context.Context, svc *watchlist.Service, n Sender) *Scheduler {
	return &Scheduler{
		Cron: cron.New(
			cron.WithSeconds(),
			cron.WithChain(cron.SkipIfStillRunning(cronLogger{})),
		),
		Service:  svc,
		Notifier: n,
		Ctx:      ctx,
	}
}

// cronLogger routes cron's own messages to the default logger.
type cronLogger struct{}

func (cronLogger) Info(msg string, keysAndValues ...any) {
	log.Debug().KeysAndValues(keysAndValues...).Msg("cron: " + msg)
}

func (cronLogger) Error(err error, msg string, keysAndValues ...any) {
	log.Error().Err(err).KeysAndValues(keysAndValues...).Msg("cron: " + msg)
}

// Register adds the refresh task on updateCron (six fields, seconds first).
func (s *Scheduler) Register(updateCron string) error {
	if _, err := s.Cron.AddFunc(updateCron, s.updateTask); err != nil {
		return fmt.Errorf("register update task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Info().Msg("scheduler started")
}

// Stop stops the cron scheduler and waits for a running task to finish.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	log.Info().Msg("scheduler stopped")
}

// RunUpdateNow executes the refresh task immediately.
func (s *Scheduler) RunUpdateNow() {
	s.updateTask()
}

func (s *Scheduler) updateTask() {
	log.Info().Msg("running update task")
	sum, err := s.updateAll(s.Ctx)
	if err != nil {
		log.Error().Err(err).Msg("update all")
		s.trySend(fmt.Sprintf("Update failed: %v", err))
		return
	}
	s.trySend(notifier.FormatUpdateSummary(sum))
}

func (s *Scheduler) updateAll(ctx context.Context) (*watchlist.UpdateSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Service.UpdateAll(ctx)
}

func (s *Scheduler) historyReport(ctx context.Context, symbol, expr string) (*history.Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Service.History(ctx, symbol, expr)
}

const help = "Commands:\n/list\n/search <symbol>\n/update\n/history <symbol> <date>"

// HandleCommand processes a chat command and returns the reply. Errors,
// including rejected dates, are replied to and never stop polling.
func (s *Scheduler) HandleCommand(ctx context.Context, command string) string {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return help
	}
	args := fields[1:]

	switch strings.ToLower(fields[0]) {
	case "/list":
		symbols, err := s.Service.List()
		if err != nil {
			return "Error: " + err.Error()
		}
		return notifier.FormatList(symbols)

	case "/search":
		if len(args) != 1 {
			return "Usage: /search <symbol>"
		}
		snap, err := s.Service.Get(args[0])
		if errors.Is(err, store.ErrNotFound) {
			return "Stock was not found."
		}
		if err != nil {
			return "Error: " + err.Error()
		}
		return notifier.FormatSnapshot(snap)

	case "/update":
		sum, err := s.updateAll(ctx)
		if err != nil {
			return "Error: " + err.Error()
		}
		return notifier.FormatUpdateSummary(sum)

	case "/history":
		if len(args) != 2 {
			return "Usage: /history <symbol> <date>"
		}
		r, err := s.historyReport(ctx, args[0], args[1])
		var de *calendar.DateError
		if errors.As(err, &de) {
			return calendar.Usage
		}
		if err != nil {
			return "Error: " + err.Error()
		}
		return r.String()

	default:
		return help
	}
}

func (s *Scheduler) trySend(text string) {
	if s.Notifier == nil {
		log.Info().Msg(text)
		return
	}
	if err := s.Notifier.SendWithRetry(s.Ctx, text, 3); err != nil {
		log.Error().Err(err).Msg("send notification")
	}
}
