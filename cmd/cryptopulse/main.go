package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"

	"CryptoPulse/internal/asset"
	"CryptoPulse/internal/collector"
	"CryptoPulse/internal/config"
	"CryptoPulse/internal/dashboard"
	"CryptoPulse/internal/lexicon"
	"CryptoPulse/internal/logging"
	"CryptoPulse/internal/metrics"
	"CryptoPulse/internal/model"
	"CryptoPulse/internal/notifier"
	"CryptoPulse/internal/scheduler"
	"CryptoPulse/internal/sentiment"
	"CryptoPulse/internal/server"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Warnf("load .env: %v", err)
	}

	// Load config
	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config validation: %v", err)
	}

	logCloser, err := logging.Setup(logging.Options{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		File:       cfg.Log.File,
		MaxSize:    cfg.Log.MaxSize,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAge:     cfg.Log.MaxAge,
		Compress:   cfg.Log.Compress,
	})
	if err != nil {
		log.Fatalf("init logging: %v", err)
	}
	defer logCloser.Close()
	log.Info("CryptoPulse starting...")

	lex := lexicon.Default()
	if cfg.Lexicon.Path != "" {
		if lex, err = lexicon.Load(cfg.Lexicon.Path); err != nil {
			log.Fatalf("load lexicon: %v", err)
		}
	}
	log.Infof("sentiment lexicon %s: %d positive, %d negative terms", lex.Version, len(lex.Positive()), len(lex.Negative()))

	m := metrics.New()
	catalog := asset.NewCatalog()

	// Init fetchers
	var prices collector.PriceFetcher
	var news collector.NewsFetcher
	if cfg.Dashboard.Offline {
		mock := &collector.MockFetcher{Price: 100, Delay: 200 * time.Millisecond}
		prices, news = mock, mock
	} else {
		prices = collector.NewCoinGeckoFetcher(cfg.CoinGecko.BaseURL, cfg.CoinGecko.APIKey, cfg.Proxy, cfg.CoinGecko.RateLimit)
		news = collector.NewNewsAPIFetcher(cfg.NewsAPI.BaseURL, cfg.NewsAPI.APIKey, cfg.Proxy,
			cfg.NewsAPI.PageSize, cfg.NewsAPI.Language, cfg.NewsAPI.RateLimit)
	}
	log.Infof("data sources: %s, %s", prices.Name(), news.Name())

	col := collector.NewCollector(prices, news, catalog, sentiment.NewScorer(lex))
	col.HistoryDays = cfg.Dashboard.HistoryDays
	col.Metrics = m

	// Context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	dash := newDashboard(ctx, col, catalog, cfg.Dashboard.DefaultAsset, m)
	defer dash.Close()
	if cfg.User.Name != "" {
		if err := dash.SetUser(model.User{Name: cfg.User.Name, Email: cfg.User.Email}); err != nil {
			log.Fatalf("configured user: %v", err)
		}
	}

	// Init Telegram notifier
	var sender scheduler.Sender
	var tn *notifier.TelegramNotifier
	if cfg.TelegramEnabled() {
		tn = notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy)
		tn.Metrics = m
		sender = tn
	} else {
		log.Info("telegram not configured, digest and commands disabled")
	}

	// Init scheduler
	sched := scheduler.NewScheduler(ctx, dash, col, catalog, sender, cfg.Dashboard.ListingSize)
	if err := sched.RegisterAll(cfg.Schedule.RefreshCron, cfg.Schedule.ListingsCron, cfg.Schedule.DigestCron); err != nil {
		log.Fatalf("register cron tasks: %v", err)
	}
	sched.Start()
	defer sched.Stop()

	go sched.SyncListingsNow()
	if _, err := dash.Refresh(); err != nil {
		log.Errorf("initial refresh: %v", err)
	}

	if tn != nil {
		go tn.StartPolling(ctx, sched.HandleCommand)
		log.Info("telegram polling started")
	}

	srv := server.New(cfg.Server.Addr, dash, catalog, m)
	go func() {
		if err := srv.Start(); err != nil {
			log.Errorf("api server: %v", err)
			cancel()
		}
	}()

	log.Info("CryptoPulse is running. Press Ctrl+C to stop.")

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sigCh:
		log.Info("shutdown signal received, stopping...")
	case <-ctx.Done():
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Stop(shutdownCtx); err != nil {
		log.Errorf("%v", err)
	}
	cancel()
	log.Info("CryptoPulse stopped")
}

// newDashboard resolves the configured default asset through the catalog, so
// a name or ticker symbol selects the matching id.
func newDashboard(ctx context.Context, col dashboard.Collector, catalog *asset.Catalog, defaultAsset string, m *metrics.Metrics) *dashboard.Dashboard {
	id := catalog.Resolve(defaultAsset)
	if id != asset.Normalize(defaultAsset) {
		log.Infof("default asset %q resolved to %q", defaultAsset, id)
	}
	return dashboard.New(ctx, col, id, m)
}
