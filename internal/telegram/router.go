package telegram

import (
	"context"
	"strings"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/ykvlv/forecast-bot/internal/domain"
	"github.com/ykvlv/forecast-bot/internal/magnetic"
	"github.com/ykvlv/forecast-bot/internal/metrics"
	"github.com/ykvlv/forecast-bot/internal/scheduler"
	"github.com/ykvlv/forecast-bot/internal/store"
)

// Pending state keys used in conversational flows.
const (
	pendingCity   = "await_city"
	pendingTime   = "await_time"
	pendingRegion = "await_region"
)

// Notifier is what the router needs from notify.Notifier.
type Notifier interface {
	Schedule(userID int64, p domain.Preferences) error
	WeatherText(ctx context.Context, p domain.Preferences) string
	StormText(ctx context.Context, p domain.Preferences) string
	Submit(name string, fn scheduler.Task) error
	Providers() []string
}

// RegionLookup resolves a storm region code to its catalog entry.
type RegionLookup interface {
	Lookup(ctx context.Context, code string) (magnetic.Region, bool, error)
}

// Deps are the router's collaborators.
type Deps struct {
	Bot      BotAPI
	Store    store.Store
	Notifier Notifier
	Regions  RegionLookup
	Defaults domain.Preferences
	Metrics  *metrics.Metrics
	Log      *zap.Logger
}

// Router wires Telegram updates to handlers and holds minimal in-memory state.
type Router struct {
	bot      BotAPI
	log      *zap.Logger
	repo     store.Store
	notifier Notifier
	regions  RegionLookup
	defaults domain.Preferences
	metrics  *metrics.Metrics

	state map[int64]string // chatID -> pending state
	mu    sync.RWMutex
}

// NewRouter creates a new Telegram router.
func NewRouter(d Deps) *Router {
	return &Router{
		bot:      d.Bot,
		log:      d.Log.Named("telegram"),
		repo:     d.Store,
		notifier: d.Notifier,
		regions:  d.Regions,
		defaults: d.Defaults,
		metrics:  d.Metrics,
		state:    make(map[int64]string),
	}
}

func (r *Router) setPending(chatID int64, s string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.state[chatID] = s
}

func (r *Router) getPending(chatID int64) string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.state[chatID]
}

func (r *Router) clearPending(chatID int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.state, chatID)
}

// HandleUpdate routes a single update to appropriate handler.
func (r *Router) HandleUpdate(ctx context.Context, upd tgbotapi.Update) {
	r.metrics.Updates.Inc()

	if upd.Message != nil && upd.Message.Chat != nil {
		msg := upd.Message
		chatID := msg.Chat.ID

		if msg.IsCommand() {
			cmd := msg.Command()
			// A command abandons any half-finished input flow.
			r.clearPending(chatID)
			switch cmd {
			case "start":
				r.handleStart(ctx, chatID)
			case "settings":
				r.handleSettings(ctx, chatID)
			case "weather":
				r.handleWeather(ctx, chatID)
			case "magnetic":
				r.handleMagnetic(ctx, chatID)
			case "status":
				r.handleStatus(ctx, chatID)
			default:
				cmd = "unknown"
			}
			r.metrics.Commands.WithLabelValues(cmd).Inc()
			return
		}

		r.handleFreeForm(ctx, chatID, strings.TrimSpace(msg.Text))
		return
	}

	if cb := upd.CallbackQuery; cb != nil {
		if cb.Message == nil || cb.Message.Chat == nil {
			_ = r.answerCallback(cb.ID, "")
			return
		}
		chatID := cb.Message.Chat.ID
		messageID := cb.Message.MessageID

		switch data := cb.Data; {
		case data == cbCity:
			r.askInput(chatID, messageID, cb.ID, pendingCity, askCityText)
		case data == cbTime:
			r.askInput(chatID, messageID, cb.ID, pendingTime, askTimeText)
		case data == cbMagnetic:
			r.askInput(chatID, messageID, cb.ID, pendingRegion, askRegionText)
		case data == cbProvider:
			r.askProvider(chatID, messageID, cb.ID)
		case strings.HasPrefix(data, cbProviderPrefix):
			r.handleProviderCallback(ctx, chatID, messageID, cb.ID, strings.TrimPrefix(data, cbProviderPrefix))
		default:
			_ = r.answerCallback(cb.ID, "")
		}
	}
}
