package telegram

import (
	"context"
	"fmt"
	"slices"
	"time"
	"unicode/utf8"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/ykvlv/forecast-bot/internal/domain"
)

const maxCityLen = 100

// regionLookupTimeout bounds the catalog lookup made while handling an update.
var regionLookupTimeout = 2 * time.Second

// ensureUser returns the stored preferences with missing fields filled from
// the defaults, writing them back when anything was filled in.
func (r *Router) ensureUser(ctx context.Context, chatID int64) (domain.Preferences, error) {
	p, err := r.repo.Get(ctx, chatID)
	if err != nil {
		return domain.Preferences{}, err
	}
	full := p.WithDefaults(r.defaults)
	if full != p {
		if err := r.repo.Set(ctx, chatID, full); err != nil {
			return domain.Preferences{}, err
		}
	}
	return full, nil
}

// update applies mutate to the user's preferences, saves them and
// re-registers the daily job with the new snapshot.
func (r *Router) update(ctx context.Context, chatID int64, mutate func(*domain.Preferences)) (domain.Preferences, error) {
	p, err := r.ensureUser(ctx, chatID)
	if err != nil {
		return domain.Preferences{}, err
	}
	mutate(&p)
	if err := r.repo.Set(ctx, chatID, p); err != nil {
		return domain.Preferences{}, err
	}
	r.reschedule(chatID, p)
	return p, nil
}

func (r *Router) reschedule(chatID int64, p domain.Preferences) {
	if err := r.notifier.Schedule(chatID, p); err != nil {
		r.log.Error("schedule failed", zap.Int64("chatID", chatID), zap.Error(err))
	}
}

// --- Generic helpers ---

func (r *Router) sendText(chatID int64, text string) {
	if _, err := r.bot.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		r.log.Warn("send failed", zap.Int64("chatID", chatID), zap.Error(err))
	}
}

func (r *Router) editText(chatID int64, messageID int, text string) {
	if _, err := r.bot.Send(tgbotapi.NewEditMessageText(chatID, messageID, text)); err != nil {
		r.log.Warn("edit failed", zap.Int64("chatID", chatID), zap.Error(err))
	}
}

func (r *Router) answerCallback(id, text string) error {
	_, err := r.bot.Request(tgbotapi.NewCallback(id, text))
	return err
}

// --- Commands ---

// handleStart (re)initializes the user with the default preferences.
func (r *Router) handleStart(ctx context.Context, chatID int64) {
	if err := r.repo.Set(ctx, chatID, r.defaults); err != nil {
		r.log.Error("init defaults failed", zap.Error(err))
		r.sendText(chatID, saveFailedText)
		return
	}
	r.reschedule(chatID, r.defaults)

	msg := tgbotapi.NewMessage(chatID, startText)
	msg.ReplyMarkup = mainMenuKeyboard()
	_, _ = r.bot.Send(msg)
}

func (r *Router) handleSettings(ctx context.Context, chatID int64) {
	if _, err := r.ensureUser(ctx, chatID); err != nil {
		r.log.Error("ensureUser failed", zap.Error(err))
		r.sendText(chatID, loadFailedText)
		return
	}
	msg := tgbotapi.NewMessage(chatID, settingsText)
	msg.ReplyMarkup = settingsInlineKeyboard()
	_, _ = r.bot.Send(msg)
}

func (r *Router) handleStatus(ctx context.Context, chatID int64) {
	p, err := r.ensureUser(ctx, chatID)
	if err != nil {
		r.log.Error("ensureUser failed", zap.Error(err))
		r.sendText(chatID, loadFailedText)
		return
	}
	next := "—"
	if at, err := domain.ParseClock(p.NotifyTime); err == nil {
		next = domain.NextDaily(time.Now().UTC(), at).Format("02.01.2006 15:04 UTC")
	}

	msg := tgbotapi.NewMessage(chatID, statusText(p.City, p.Provider, p.NotifyTime, p.MagneticRegion, next))
	msg.ReplyMarkup = mainMenuKeyboard()
	_, _ = r.bot.Send(msg)
}

// handleWeather answers with the weather section for the user's settings.
// The fetch runs on the worker pool so the update loop is never blocked on upstreams.
func (r *Router) handleWeather(ctx context.Context, chatID int64) {
	r.runOnDemand(ctx, chatID, "weather", r.notifier.WeatherText)
}

func (r *Router) handleMagnetic(ctx context.Context, chatID int64) {
	r.runOnDemand(ctx, chatID, "magnetic", r.notifier.StormText)
}

func (r *Router) runOnDemand(ctx context.Context, chatID int64, kind string, render func(context.Context, domain.Preferences) string) {
	p, err := r.ensureUser(ctx, chatID)
	if err != nil {
		r.log.Error("ensureUser failed", zap.Error(err))
		r.sendText(chatID, loadFailedText)
		return
	}
	name := fmt.Sprintf("%s:%d", kind, chatID)
	err = r.notifier.Submit(name, func(ctx context.Context) error {
		_, err := r.bot.Send(tgbotapi.NewMessage(chatID, render(ctx, p)))
		return err
	})
	if err != nil {
		r.log.Warn("submit failed", zap.String("task", name), zap.Error(err))
		r.sendText(chatID, busyText)
	}
}

// --- Settings callbacks ---

// askInput replaces the settings menu with a prompt and waits for a text reply.
func (r *Router) askInput(chatID int64, messageID int, cbID, pending, prompt string) {
	_ = r.answerCallback(cbID, "")
	r.editText(chatID, messageID, prompt)
	r.setPending(chatID, pending)
}

func (r *Router) askProvider(chatID int64, messageID int, cbID string) {
	_ = r.answerCallback(cbID, "")
	edit := tgbotapi.NewEditMessageTextAndMarkup(chatID, messageID, askProvider, providersKeyboard(r.notifier.Providers()))
	_, _ = r.bot.Send(edit)
}

func (r *Router) handleProviderCallback(ctx context.Context, chatID int64, messageID int, cbID, name string) {
	if !slices.Contains(r.notifier.Providers(), name) {
		_ = r.answerCallback(cbID, unknownSource)
		return
	}
	_ = r.answerCallback(cbID, "")
	if _, err := r.update(ctx, chatID, func(p *domain.Preferences) { p.Provider = name }); err != nil {
		r.log.Error("save provider failed", zap.Error(err))
		r.editText(chatID, messageID, saveFailedText)
		return
	}
	r.editText(chatID, messageID, providerChangedText(name))
}

// --- Free-form input ---

func (r *Router) handleFreeForm(ctx context.Context, chatID int64, text string) {
	switch r.getPending(chatID) {
	case pendingCity:
		if text == "" || utf8.RuneCountInString(text) > maxCityLen {
			r.sendText(chatID, badCityText)
			return
		}
		r.clearPending(chatID)
		if _, err := r.update(ctx, chatID, func(p *domain.Preferences) { p.City = text }); err != nil {
			r.log.Error("save city failed", zap.Error(err))
			r.sendText(chatID, saveFailedText)
			return
		}
		r.sendText(chatID, cityChangedText(text))

	case pendingTime:
		at, err := domain.ParseClock(text)
		if err != nil {
			r.sendText(chatID, badTimeText)
			return
		}
		r.clearPending(chatID)
		if _, err := r.update(ctx, chatID, func(p *domain.Preferences) { p.NotifyTime = at.String() }); err != nil {
			r.log.Error("save time failed", zap.Error(err))
			r.sendText(chatID, saveFailedText)
			return
		}
		r.sendText(chatID, timeChangedText(at.String()))

	case pendingRegion:
		code := domain.NormalizeRegion(text)
		if !domain.IsRegionCode(code) {
			r.sendText(chatID, badRegionText)
			return
		}
		r.clearPending(chatID)
		if _, err := r.update(ctx, chatID, func(p *domain.Preferences) { p.MagneticRegion = code }); err != nil {
			r.log.Error("save region failed", zap.Error(err))
			r.sendText(chatID, saveFailedText)
			return
		}
		r.sendText(chatID, regionChangedText(r.describeRegion(ctx, code)))

	default:
		// No pending flow: ignore free-form message
	}
}

// describeRegion returns "CODE (Name)" when the catalog knows the code.
// Catalog errors are logged and the bare code is returned.
func (r *Router) describeRegion(ctx context.Context, code string) string {
	if r.regions == nil {
		return code
	}
	ctx, cancel := context.WithTimeout(ctx, regionLookupTimeout)
	defer cancel()
	region, ok, err := r.regions.Lookup(ctx, code)
	switch {
	case err != nil:
		r.log.Warn("region catalog unavailable", zap.Error(err))
		return code
	case !ok:
		return code + regionNotFound
	case region.Name != "":
		return code + " (" + region.Name + ")"
	default:
		return code
	}
}
