package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"ratedesk/internal/app/commands"
	calendarapp "ratedesk/internal/app/handlers/calendar"
	noteapp "ratedesk/internal/app/handlers/notes"
	ruleapp "ratedesk/internal/app/handlers/rules"
	"ratedesk/internal/app/middleware"
	appoutbox "ratedesk/internal/app/outbox"
	"ratedesk/internal/app/queries"
	domainnotes "ratedesk/internal/domain/notes"
	"ratedesk/internal/domain/pricing"
	"ratedesk/internal/domain/properties"
	domainrules "ratedesk/internal/domain/rules"
	"ratedesk/internal/infra/broker/kafka"
	"ratedesk/internal/infra/config"
	mongodb "ratedesk/internal/infra/db/mongo"
	ginserver "ratedesk/internal/infra/http/gin"
	"ratedesk/internal/infra/obs"
	infraoutbox "ratedesk/internal/infra/outbox"
	"ratedesk/internal/infra/storage/memory"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	env := getenv("APP_ENV", "dev")
	logger := obs.NewLogger(env)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("configuration invalid", "error", err)
		os.Exit(1)
	}

	app, cleanup, err := buildApplication(ctx, cfg, logger)
	if err != nil {
		logger.Error("application wiring failed", "error", err)
		os.Exit(1)
	}
	defer cleanup()

	server := ginserver.NewServer(cfg, obs.Middleware{Logger: logger}, obs.HealthHandlers{
		Ready: app.ready,
	}, app.handlers)

	fixturesPath := cfg.PropertyFixtures
	if fixturesPath == "" {
		fixturesPath = defaultPropertyFixturesPath()
	}
	if err := app.loadPropertyFixtures(ctx, fixturesPath, logger); err != nil {
		logger.Warn("property fixtures load failed", "error", err, "path", fixturesPath)
	}

	if app.worker != nil {
		go func() {
			if err := app.worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("outbox worker stopped", "error", err)
			}
		}()
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("http shutdown failed", "error", err)
		}
	}()

	logger.Info("HTTP server starting", "addr", cfg.HTTPAddr, "store", cfg.StoreMode)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("http server failed", "error", err)
		os.Exit(1)
	}
	logger.Info("HTTP server stopped")
}

type application struct {
	handlers   ginserver.Handlers
	properties *memory.PropertyStore
	worker     *infraoutbox.Worker
	ready      func() error
}

func buildApplication(ctx context.Context, cfg config.Config, logger *slog.Logger) (application, func(), error) {
	cleanup := func() {}

	propertyStore := memory.NewPropertyStore()
	outboxQueue := memory.NewOutboxQueue()

	var (
		ruleRepo domainrules.Repository
		noteRepo domainnotes.Repository
		ready    = func() error { return nil }
	)
	switch cfg.StoreMode {
	case "mongo":
		client, err := mongodb.New(cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			return application{}, cleanup, fmt.Errorf("mongo connect: %w", err)
		}
		cleanup = func() {
			disconnectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := client.Close(disconnectCtx); err != nil {
				logger.Error("mongo disconnect failed", "error", err)
			}
		}
		ruleRepo = mongodb.NewRuleRepository(client.DB)
		noteRepo = mongodb.NewNoteRepository(client.DB)
		ready = func() error {
			pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			return client.Ping(pingCtx)
		}
	default:
		ruleRepo = memory.NewRuleStore()
		noteRepo = memory.NewNoteStore()
	}

	ruleDeps := ruleapp.Deps{
		Rules:   ruleRepo,
		Outbox:  outboxQueue,
		Encoder: appoutbox.JSONEventEncoder{},
	}
	noteDeps := noteapp.Deps{Notes: noteRepo}
	resolver := pricing.NewResolver(ruleRepo)

	commandBus := commands.NewInMemoryBus()
	commands.RegisterHandler(commandBus, ruleapp.CreateRuleCommand{}.Key(), &ruleapp.CreateRuleHandler{Deps: ruleDeps})
	commands.RegisterHandler(commandBus, ruleapp.UpdateRuleCommand{}.Key(), &ruleapp.UpdateRuleHandler{Deps: ruleDeps})
	commands.RegisterHandler(commandBus, ruleapp.DeleteRuleCommand{}.Key(), &ruleapp.DeleteRuleHandler{Deps: ruleDeps})
	commands.RegisterHandler(commandBus, ruleapp.DuplicateRuleCommand{}.Key(), &ruleapp.DuplicateRuleHandler{Deps: ruleDeps})
	commands.RegisterHandler(commandBus, ruleapp.ApplyRuleToAllCommand{}.Key(), &ruleapp.ApplyRuleToAllHandler{Deps: ruleDeps})
	commands.RegisterHandler(commandBus, noteapp.AddNoteCommand{}.Key(), &noteapp.AddNoteHandler{Deps: noteDeps})
	commands.RegisterHandler(commandBus, noteapp.UpdateNoteCommand{}.Key(), &noteapp.UpdateNoteHandler{Deps: noteDeps})
	commands.RegisterHandler(commandBus, noteapp.DeleteNoteCommand{}.Key(), &noteapp.DeleteNoteHandler{Deps: noteDeps})

	queryBus := queries.NewInMemoryBus()
	queries.RegisterHandler(queryBus, ruleapp.ListRulesQuery{}.Key(), &ruleapp.ListRulesHandler{Rules: ruleRepo})
	queries.RegisterHandler(queryBus, calendarapp.GetCalendarQuery{}.Key(), &calendarapp.GetCalendarHandler{
		Properties: propertyStore,
		Rules:      ruleRepo,
	})
	queries.RegisterHandler(queryBus, calendarapp.GetChannelPriceQuery{}.Key(), &calendarapp.GetChannelPriceHandler{
		Properties: propertyStore,
		Resolver:   resolver,
	})
	queries.RegisterHandler(queryBus, calendarapp.GetMinStayQuery{}.Key(), &calendarapp.GetMinStayHandler{
		Resolver: resolver,
	})
	queries.RegisterHandler(queryBus, noteapp.GetCellNoteQuery{}.Key(), &noteapp.GetCellNoteHandler{Notes: noteRepo})

	commandBusWithMiddleware := middleware.ChainCommands(
		commandBus,
		middleware.CommandLogging(logger),
	)
	queryBusWithMiddleware := middleware.ChainQueries(
		queryBus,
		middleware.QueryLogging(logger, 250*time.Millisecond),
	)

	app := application{
		handlers: ginserver.Handlers{
			Rules: ginserver.RuleHandler{
				Commands: commandBusWithMiddleware,
				Queries:  queryBusWithMiddleware,
			},
			Calendar: ginserver.CalendarHandler{
				Queries: queryBusWithMiddleware,
			},
			Notes: ginserver.NoteHandler{
				Commands: commandBusWithMiddleware,
				Queries:  queryBusWithMiddleware,
			},
		},
		properties: propertyStore,
		ready:      ready,
	}

	if len(cfg.KafkaBrokers) > 0 {
		producer, err := kafka.NewProducer(cfg.KafkaBrokers, nil)
		if err != nil {
			return application{}, cleanup, fmt.Errorf("kafka connect: %w", err)
		}
		prevCleanup := cleanup
		cleanup = func() {
			if err := producer.Close(); err != nil {
				logger.Error("kafka close failed", "error", err)
			}
			prevCleanup()
		}
		app.worker = &infraoutbox.Worker{
			Queue:       outboxQueue,
			Producer:    producer,
			Interval:    cfg.OutboxPollInterval,
			TopicPrefix: cfg.KafkaTopicPrefix,
			Backoff:     cfg.RetryBackoff,
		}
	}

	return app, cleanup, nil
}

func (a application) loadPropertyFixtures(ctx context.Context, path string, logger *slog.Logger) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logger.Info("property fixtures file not found, skipping", "path", path)
			return nil
		}
		return fmt.Errorf("read fixtures: %w", err)
	}
	if len(data) == 0 {
		logger.Warn("property fixtures file empty", "path", path)
		return nil
	}

	var fixtures []propertyFixture
	if err := json.Unmarshal(data, &fixtures); err != nil {
		return fmt.Errorf("decode fixtures: %w", err)
	}

	now := time.Now()
	for _, fx := range fixtures {
		property, err := properties.New(properties.PropertyID(fx.ID), fx.Name, fx.NightlyRateCents, now)
		if err != nil {
			logger.Error("fixture invalid", "property_id", fx.ID, "error", err)
			continue
		}
		if err := a.properties.Save(ctx, property); err != nil {
			logger.Error("cannot store fixture property", "property_id", fx.ID, "error", err)
			continue
		}
		logger.Info("property fixture imported", "property_id", property.ID)
	}
	return nil
}

type propertyFixture struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	NightlyRateCents int64  `json:"nightly_rate_cents"`
}

func defaultPropertyFixturesPath() string {
	return filepath.Join("data", "properties.json")
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
