package mdash

import (
	"fmt"
	"time"

	"github.com/go-co-op/gocron/v2"
	"go.uber.org/zap"

	"kyri56xcaesar/pms-dash/internal/board"
)

// Digest periodically logs the upcoming and overdue deadlines.
type Digest struct {
	scheduler gocron.Scheduler
	store     *board.Store
	window    time.Duration
	log       *zap.Logger
	now       func() time.Time
}

// StartDigest schedules the digest job every interval. A zero interval
// returns a stopped digest that does nothing.
func StartDigest(store *board.Store, interval, window time.Duration, log *zap.Logger) (*Digest, error) {
	d := &Digest{store: store, window: window, log: log, now: time.Now}
	if interval <= 0 {
		log.Info("deadline digest disabled")
		return d, nil
	}

	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("create scheduler: %w", err)
	}
	_, err = s.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() { d.Run() }),
		gocron.WithName("deadline-digest"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		_ = s.Shutdown()
		return nil, fmt.Errorf("register digest job: %w", err)
	}

	d.scheduler = s
	s.Start()
	log.Info("deadline digest scheduled", zap.Duration("interval", interval))

	return d, nil
}

// Run computes and logs one digest.
func (d *Digest) Run() board.DashboardStats {
	stats := board.ComputeDashboardStats(d.store.Projects(), d.now(), d.window)

	fields := []zap.Field{
		zap.Int("total_tasks", stats.TotalTasks),
		zap.Int("completed", stats.CompletedTasks),
		zap.Int("completion_rate", stats.CompletionRate),
		zap.Int("upcoming", len(stats.UpcomingDeadlines)),
		zap.Int("overdue", len(stats.OverdueDeadlines)),
	}
	if len(stats.OverdueDeadlines) > 0 {
		ids := make([]string, len(stats.OverdueDeadlines))
		for i, t := range stats.OverdueDeadlines {
			ids[i] = t.ID
		}
		fields = append(fields, zap.Strings("overdue_tasks", ids))
		d.log.Warn("deadline digest", fields...)
		return stats
	}
	d.log.Info("deadline digest", fields...)
	return stats
}

func (d *Digest) Stop() {
	if d.scheduler == nil {
		return
	}
	if err := d.scheduler.Shutdown(); err != nil {
		d.log.Error("failed to shutdown scheduler", zap.Error(err))
	}
}
