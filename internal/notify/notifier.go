package notify

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/ykvlv/forecast-bot/internal/domain"
	"github.com/ykvlv/forecast-bot/internal/magnetic"
	"github.com/ykvlv/forecast-bot/internal/metrics"
	"github.com/ykvlv/forecast-bot/internal/scheduler"
	"github.com/ykvlv/forecast-bot/internal/store"
	"github.com/ykvlv/forecast-bot/internal/weather"
)

// Sender delivers a text message to a chat.
type Sender interface {
	SendMessage(chatID int64, text string) error
}

// StormSource returns the Kp forecast for a region; nil, nil means no data.
type StormSource interface {
	Forecast(ctx context.Context, region string) (*magnetic.Forecast, error)
}

// Scheduler is the part of scheduler.Scheduler the notifier drives.
type Scheduler interface {
	ScheduleDaily(key int64, at domain.Clock, name string, task scheduler.Task) error
	Submit(name string, task scheduler.Task) error
	Len() int
}

// Deps are the notifier's collaborators.
type Deps struct {
	Store     store.Store
	Weather   *weather.Registry
	Storm     StormSource
	Locator   Locator
	Scheduler Scheduler
	Sender    Sender
	Defaults  domain.Preferences
	Metrics   *metrics.Metrics
	Log       *zap.Logger
}

// Notifier builds and delivers the daily weather + storm digest.
type Notifier struct {
	store    store.Store
	weather  *weather.Registry
	storm    StormSource
	locator  Locator
	sched    Scheduler
	sender   Sender
	defaults domain.Preferences
	metrics  *metrics.Metrics
	log      *zap.Logger
}

func New(d Deps) *Notifier {
	return &Notifier{
		store:    d.Store,
		weather:  d.Weather,
		storm:    d.Storm,
		locator:  d.Locator,
		sched:    d.Scheduler,
		sender:   d.Sender,
		defaults: d.Defaults,
		metrics:  d.Metrics,
		log:      d.Log.Named("notify"),
	}
}

// Schedule (re)registers the user's daily job with a snapshot of p.
// Any job previously registered for the user is replaced.
func (n *Notifier) Schedule(userID int64, p domain.Preferences) error {
	p = p.WithDefaults(n.defaults)
	at, err := domain.ParseClock(p.NotifyTime)
	if err != nil {
		return fmt.Errorf("user %d: %w", userID, err)
	}
	job := domain.Job{UserID: userID, Prefs: p}
	if err := n.sched.ScheduleDaily(userID, at, fmt.Sprintf("notify:%d", userID), func(ctx context.Context) error {
		return n.Deliver(ctx, job)
	}); err != nil {
		return err
	}
	n.metrics.ScheduledJobs.Set(float64(n.sched.Len()))
	return nil
}

// Restore schedules every stored user. Users with unusable settings are logged and skipped.
func (n *Notifier) Restore(ctx context.Context) (int, error) {
	users, err := n.store.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("list users: %w", err)
	}
	scheduled := 0
	for id, p := range users {
		if err := n.Schedule(id, p); err != nil {
			n.log.Warn("skip user on restore", zap.Int64("chatID", id), zap.Error(err))
			continue
		}
		scheduled++
	}
	return scheduled, nil
}

// Deliver composes the digest for job and sends it.
func (n *Notifier) Deliver(ctx context.Context, job domain.Job) error {
	text := n.Compose(ctx, job.Prefs)
	if err := n.sender.SendMessage(job.UserID, text); err != nil {
		n.metrics.Notifications.WithLabelValues("send_failed").Inc()
		return fmt.Errorf("send to %d: %w", job.UserID, err)
	}
	n.metrics.Notifications.WithLabelValues("sent").Inc()
	return nil
}

// Compose returns the weather section (if any) and the storm section separated by a blank line.
func (n *Notifier) Compose(ctx context.Context, p domain.Preferences) string {
	p = p.WithDefaults(n.defaults)
	sections := make([]string, 0, 2)
	if f := n.fetchWeather(ctx, p); f != nil {
		sections = append(sections, weather.Format(f))
	}
	sections = append(sections, n.StormText(ctx, p))
	return strings.Join(sections, "\n\n")
}

// WeatherText is the on-demand weather answer.
func (n *Notifier) WeatherText(ctx context.Context, p domain.Preferences) string {
	return weather.Format(n.fetchWeather(ctx, p.WithDefaults(n.defaults)))
}

// StormText is the storm section; any failure renders the no-data line.
func (n *Notifier) StormText(ctx context.Context, p domain.Preferences) string {
	region := p.WithDefaults(n.defaults).MagneticRegion
	f, err := n.storm.Forecast(ctx, region)
	if err != nil {
		n.log.Warn("storm fetch failed", zap.String("region", region), zap.Error(err))
		n.metrics.FetchFailures.WithLabelValues("xras").Inc()
		return magnetic.Format(nil)
	}
	if f == nil {
		n.metrics.FetchFailures.WithLabelValues("xras").Inc()
	}
	return magnetic.Format(f)
}

// Submit runs fn on the worker pool.
func (n *Notifier) Submit(name string, fn scheduler.Task) error {
	return n.sched.Submit(name, fn)
}

// Providers lists selectable weather providers.
func (n *Notifier) Providers() []string {
	return n.weather.Names()
}

func (n *Notifier) fetchWeather(ctx context.Context, p domain.Preferences) *weather.Forecast {
	at, err := n.locator.Locate(ctx, p.City)
	if err != nil {
		n.log.Warn("locate failed", zap.String("city", p.City), zap.Error(err))
		n.metrics.FetchFailures.WithLabelValues("locator").Inc()
		return nil
	}

	provider := n.weather.Lookup(p.Provider)
	if provider.Name() != p.Provider {
		n.log.Debug("unknown provider, using default",
			zap.String("provider", p.Provider), zap.String("default", provider.Name()))
	}

	f, err := provider.Fetch(ctx, at)
	if err != nil {
		n.log.Warn("weather fetch failed", zap.String("provider", provider.Name()), zap.Error(err))
		n.metrics.FetchFailures.WithLabelValues(provider.Name()).Inc()
		return nil
	}
	if f == nil {
		n.log.Info("weather provider returned no data", zap.String("provider", provider.Name()))
		n.metrics.FetchFailures.WithLabelValues(provider.Name()).Inc()
	}
	return f
}
