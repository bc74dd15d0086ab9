package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/ziadkadry99/shopassist/internal/cart"
	"github.com/ziadkadry99/shopassist/internal/catalog"
	"github.com/ziadkadry99/shopassist/internal/chat"
	"github.com/ziadkadry99/shopassist/internal/config"
	"github.com/ziadkadry99/shopassist/internal/db"
	"github.com/ziadkadry99/shopassist/internal/logging"
	"github.com/ziadkadry99/shopassist/internal/metrics"
	"github.com/ziadkadry99/shopassist/internal/notifications"
	"github.com/ziadkadry99/shopassist/internal/orders"
	"github.com/ziadkadry99/shopassist/internal/statestore"
	"github.com/ziadkadry99/shopassist/internal/support"
	"github.com/ziadkadry99/shopassist/internal/transcript"
)

// loadConfig loads and validates the config, providing a user-friendly error.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w\nRun `shopassist init` to create a config file", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", cfgFile, err)
	}
	return cfg, nil
}

// newLogger builds the process logger. --verbose forces debug level.
func newLogger(cfg *config.Config) (*logrus.Logger, error) {
	level := cfg.Log.Level
	if verbose {
		level = "debug"
	}
	return logging.New(os.Stderr, level, cfg.Log.Format)
}

// app holds every service the commands share. Fields for optional
// backends stay nil when the backend is not configured.
type app struct {
	cfg *config.Config
	log *logrus.Logger

	db    *db.DB
	redis *redis.Client
	mongo *mongo.Client

	products    *catalog.Store
	catalog     catalog.Reader
	cache       *catalog.CachedStore
	orders      *orders.Store
	carts       *cart.Store
	tickets     support.TicketStore
	transcripts *transcript.Store
	states      chat.StateStore
	toasts      *notifications.Store
	dispatcher  *notifications.Dispatcher
	registry    *prometheus.Registry
	metrics     *metrics.Recorder
	manager     *chat.Manager
}

// newApp opens the database and the optional Redis and MongoDB backends
// and assembles the conversation manager over them.
func newApp(ctx context.Context, cfg *config.Config, log *logrus.Logger) (*app, error) {
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data dir: %w", err)
	}

	database, err := db.Open(cfg.DBPath())
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	a := &app{cfg: cfg, log: log, db: database}

	a.products = catalog.NewStore(database)
	a.catalog = a.products
	a.orders = orders.NewStore(database)
	a.carts = cart.NewStore(database)
	a.transcripts = transcript.NewStore(database)
	a.states = statestore.NewMemory()
	a.tickets = support.NewStore(database)

	if cfg.Redis.URL != "" {
		client, err := statestore.Dial(ctx, cfg.Redis.URL)
		if err != nil {
			a.Close()
			return nil, err
		}
		a.redis = client
		a.states = statestore.NewRedis(client, cfg.Redis.KeyPrefix, cfg.Redis.StateTTL)
		a.cache = catalog.NewCachedStore(a.products, client, cfg.Redis.KeyPrefix, cfg.Redis.CatalogTTL, log.WithField("component", "catalog-cache"))
		a.catalog = a.cache
		log.WithField("prefix", cfg.Redis.KeyPrefix).Info("using redis for conversation state and catalog cache")
	}

	if cfg.Support.Backend == config.SupportMongo {
		client, err := support.DialMongo(ctx, cfg.Mongo.URI)
		if err != nil {
			a.Close()
			return nil, err
		}
		a.mongo = client
		a.tickets = support.NewMongoStore(client.Database(cfg.Mongo.Database))
		log.WithField("database", cfg.Mongo.Database).Info("writing support tickets to mongodb")
	}

	minLevel, err := notifications.ParseLevel(cfg.Notifications.MinLevel)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.toasts = notifications.NewStore(notifications.DefaultCapacity)
	a.dispatcher = notifications.NewDispatcher(a.toasts, cfg.Notifications.WebhookURL, minLevel, log.WithField("component", "notifications"))

	a.registry = prometheus.NewRegistry()
	a.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	a.metrics = metrics.New(a.registry)

	a.manager = chat.NewManager(chat.Deps{
		Catalog:     a.catalog,
		Orders:      a.orders,
		Cart:        a.carts,
		Tickets:     a.tickets,
		Transcripts: a.transcripts,
		States:      a.states,
		Notifier:    a.dispatcher,
		Metrics:     a.metrics,
		Log:         log.WithField("component", "chat"),
	}, chat.Options{
		TypingDelay:  cfg.Chat.TypingDelay,
		SupportPhone: cfg.Chat.SupportPhone,
	})

	return a, nil
}

// Close tears down conversations, waits for webhook deliveries and closes
// every connection newApp opened.
func (a *app) Close() {
	if a.manager != nil {
		a.manager.Close()
	}
	if a.dispatcher != nil {
		a.dispatcher.Wait()
	}
	if a.mongo != nil {
		if err := a.mongo.Disconnect(context.Background()); err != nil {
			a.log.WithError(err).Warn("closing mongodb client")
		}
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.log.WithError(err).Warn("closing redis client")
		}
	}
	if err := a.db.Close(); err != nil {
		a.log.WithError(err).Warn("closing database")
	}
}
