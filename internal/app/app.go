package app

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/ykvlv/forecast-bot/internal/config"
	"github.com/ykvlv/forecast-bot/internal/httpx"
	"github.com/ykvlv/forecast-bot/internal/magnetic"
	"github.com/ykvlv/forecast-bot/internal/metrics"
	"github.com/ykvlv/forecast-bot/internal/notify"
	"github.com/ykvlv/forecast-bot/internal/scheduler"
	"github.com/ykvlv/forecast-bot/internal/store"
	"github.com/ykvlv/forecast-bot/internal/telegram"
	"github.com/ykvlv/forecast-bot/internal/weather"
)

type App struct {
	cfg      config.Config
	log      *zap.Logger
	bot      *tgbotapi.BotAPI
	httpSrv  *http.Server
	repo     store.Store
	sched    *scheduler.Scheduler
	catalog  *magnetic.Catalog
	notifier *notify.Notifier
	router   *telegram.Router
}

func New(ctx context.Context, cfg config.Config, log *zap.Logger) (*App, error) {
	bot, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		return nil, err
	}
	bot.Debug = false

	repo, err := store.Open(ctx, cfg, log)
	if err != nil {
		return nil, err
	}
	log.Info("store ready", zap.String("driver", cfg.StoreDriver))

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	httpClient := &http.Client{Timeout: cfg.HTTPTimeout}

	providers := []weather.Provider{}
	if cfg.YandexWeatherKey != "" {
		providers = append(providers, weather.NewYandexProvider(
			httpx.New(weather.Yandex, httpClient), cfg.YandexWeatherURL, cfg.YandexWeatherKey))
	}
	registry := weather.NewRegistry(
		weather.NewOpenMeteoProvider(httpx.New(weather.OpenMeteo, httpClient), cfg.OpenMeteoURL),
		providers...,
	)

	xras := magnetic.NewClient(httpx.New("xras", httpClient), cfg.XRASBaseURL)
	catalog := magnetic.NewCatalog(xras)

	pool := scheduler.NewPool(log, scheduler.PoolConfig{
		Workers:   cfg.Workers,
		QueueSize: cfg.Workers * 32,
		// Weather and storm are fetched one after another.
		TaskTimeout: 3 * cfg.HTTPTimeout,
		OnDone: func(r scheduler.Result) {
			status := "ok"
			if r.Err != nil {
				status = "error"
			}
			m.TaskDuration.WithLabelValues(status).Observe(r.Finished.Sub(r.Started).Seconds())
		},
	})
	sched := scheduler.New(log, pool)

	notifier := notify.New(notify.Deps{
		Store:     repo,
		Weather:   registry,
		Storm:     xras,
		Locator:   notify.StubLocator{},
		Scheduler: sched,
		Sender:    telegram.NewMessenger(bot),
		Defaults:  cfg.Defaults(),
		Metrics:   m,
		Log:       log,
	})
	router := telegram.NewRouter(telegram.Deps{
		Bot:      bot,
		Store:    repo,
		Notifier: notifier,
		Regions:  catalog,
		Defaults: cfg.Defaults(),
		Metrics:  m,
		Log:      log,
	})

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	srv := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      mux,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	}

	return &App{
		cfg:      cfg,
		log:      log,
		bot:      bot,
		httpSrv:  srv,
		repo:     repo,
		sched:    sched,
		catalog:  catalog,
		notifier: notifier,
		router:   router,
	}, nil
}

func (a *App) Run(ctx context.Context) error {
	a.log.Info("starting forecast-bot",
		zap.String("bot", a.bot.Self.UserName),
		zap.String("http", a.cfg.HTTPAddr),
		zap.Strings("providers", a.notifier.Providers()),
	)

	a.sched.Start()
	n, err := a.notifier.Restore(ctx)
	if err != nil {
		a.log.Error("restore schedules failed", zap.Error(err))
	} else {
		a.log.Info("schedules restored", zap.Int("users", n))
	}

	go a.warmCatalog(ctx)

	go func() {
		if err := a.httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.log.Error("http server error", zap.Error(err))
		}
	}()

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30
	updCh := a.bot.GetUpdatesChan(u)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	for {
		select {
		case <-ctx.Done():
			a.log.Info("shutdown signal received")
			a.shutdown()
			return nil

		case upd := <-updCh:
			a.router.HandleUpdate(ctx, upd)
		}
	}
}

// warmCatalog loads the region catalog in the background so the first
// region change does not wait for the download.
func (a *App) warmCatalog(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, 2*a.cfg.HTTPTimeout)
	defer cancel()
	regions, err := a.catalog.Regions(ctx)
	if err != nil {
		a.log.Warn("region catalog warm-up failed", zap.Error(err))
		return
	}
	a.log.Info("region catalog loaded", zap.Int("regions", len(regions)))
}

func (a *App) shutdown() {
	a.bot.StopReceivingUpdates()
	a.sched.Stop()

	shCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	err := a.httpSrv.Shutdown(shCtx)
	cancel()
	if err != nil {
		a.log.Warn("http server shutdown error", zap.Error(err))
	}
	if err := a.repo.Close(); err != nil {
		a.log.Warn("store close error", zap.Error(err))
	}
}
