// Package alert sweeps the warehouse for loads whose paid storage window
// is about to run out and posts a Slack notice so the yard team can chase
// devanning before charges accrue.
package alert

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/wharfline/depot/internal/models"
	"github.com/wharfline/depot/internal/warehouse"
)

// cronParser uses standard 5-field cron expressions (minute, hour, dom, month, dow).
var cronParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

const expiryDateLayout = "02/01/2006"

// Notifier delivers one alert message to a channel. Implemented by
// SlackNotifier in production and mocked in tests.
type Notifier interface {
	Notify(channel, text string) error
}

// WatcherOpts holds parameters for creating a Watcher.
type WatcherOpts struct {
	Engine   *warehouse.Engine
	Notifier Notifier
	Channel  string
	Schedule string // 5-field cron expression
	WarnDays int
	Logger   *zap.Logger
}

// Watcher fires on a cron schedule and reports loads expiring within the
// warning window. Devanned loads are done with storage and never alert.
type Watcher struct {
	engine   *warehouse.Engine
	notifier Notifier
	channel  string
	sched    cron.Schedule
	warnDays int
	log      *zap.Logger
	now      func() time.Time
}

// NewWatcher creates a Watcher.
func NewWatcher(opts WatcherOpts) (*Watcher, error) {
	if opts.Engine == nil {
		return nil, fmt.Errorf("alert: engine is required")
	}
	if opts.Notifier == nil {
		return nil, fmt.Errorf("alert: notifier is required")
	}
	if opts.Channel == "" {
		return nil, fmt.Errorf("alert: channel is required")
	}
	sched, err := cronParser.Parse(opts.Schedule)
	if err != nil {
		return nil, fmt.Errorf("alert: parse schedule %q: %w", opts.Schedule, err)
	}
	if opts.WarnDays < 1 {
		opts.WarnDays = 7
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &Watcher{
		engine:   opts.Engine,
		notifier: opts.Notifier,
		channel:  opts.Channel,
		sched:    sched,
		warnDays: opts.WarnDays,
		log:      opts.Logger,
		now:      time.Now,
	}, nil
}

// Run blocks, sweeping at each scheduled fire time until ctx is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	for {
		next := w.sched.Next(w.now())
		timer := time.NewTimer(time.Until(next))
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
			w.Sweep()
		}
	}
}

// Sweep finds expiring loads and posts a single notice covering all of
// them. Delivery is best effort; a failed post is logged and retried at
// the next fire time.
func (w *Watcher) Sweep() []models.Load {
	expiring := w.expiringLoads()
	if len(expiring) == 0 {
		return nil
	}

	text := formatAlert(expiring, w.warnDays)
	if err := w.notifier.Notify(w.channel, text); err != nil {
		w.log.Warn("expiry alert delivery failed",
			zap.Int("loads", len(expiring)), zap.Error(err))
		return expiring
	}
	w.log.Info("expiry alert sent",
		zap.Int("loads", len(expiring)), zap.String("channel", w.channel))
	return expiring
}

// expiringLoads returns loads whose storage expiry falls inside the
// warning window, including already-lapsed dates, oldest expiry first
// in list order.
func (w *Watcher) expiringLoads() []models.Load {
	cutoff := w.now().AddDate(0, 0, w.warnDays)

	var out []models.Load
	for _, l := range w.engine.Loads() {
		if l.Status == models.StatusDevanned {
			continue
		}
		if l.StorageExpiryDate == nil || l.StorageExpiryDate.IsZero() {
			continue
		}
		if l.StorageExpiryDate.Before(cutoff) {
			out = append(out, l)
		}
	}
	return out
}

func formatAlert(loads []models.Load, warnDays int) string {
	var b strings.Builder
	fmt.Fprintf(&b, ":warning: %d load(s) with storage expiring within %d days:\n", len(loads), warnDays)
	for _, l := range loads {
		fmt.Fprintf(&b, "• %s", l.ID)
		if l.Company != "" {
			fmt.Fprintf(&b, " (%s)", l.Company)
		}
		fmt.Fprintf(&b, " expires %s\n", l.StorageExpiryDate.Format(expiryDateLayout))
	}
	return strings.TrimRight(b.String(), "\n")
}
