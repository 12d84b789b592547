// package main provides the entry point for the EffiMapPro server: the
// marketing site, the territory management API and the GraphQL dashboard.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/effiwise/effimappro/database"
	"github.com/effiwise/effimappro/internal/api"
	"github.com/effiwise/effimappro/internal/config"
	"github.com/effiwise/effimappro/internal/geocode"
	"github.com/effiwise/effimappro/internal/kafka"
	"github.com/effiwise/effimappro/internal/services"
	"github.com/effiwise/effimappro/internal/site"
	"github.com/effiwise/effimappro/internal/store"
	"github.com/effiwise/effimappro/restapi"
	"github.com/effiwise/effimappro/restapi/modules/auth"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	config.LoadDotEnv()
	cfg := config.Load()
	logger := database.InitLogger()
	defer func() { _ = logger.Sync() }()

	if err := cfg.Validate(); err != nil {
		logger.Sugar().Fatalf("Invalid configuration: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize document database
	docs, err := database.Open(cfg.DBBackend)
	if err != nil {
		logger.Sugar().Fatalf("Failed to open database: %v", err)
	}

	// Activity events are optional
	kafkaCfg := kafka.Config{
		Brokers:   cfg.KafkaBrokers,
		Username:  cfg.KafkaAPIKey,
		Password:  cfg.KafkaAPISecret,
		Topic:     cfg.KafkaActivityTopic,
		GroupName: "effimappro",
	}
	var publisher services.ActivityPublisher
	if producer := kafka.NewProducer(kafkaCfg); producer != nil {
		defer producer.Close()
		publisher = producer
	}

	activityService := services.NewActivityService(docs, publisher, logger)
	registry := store.NewRegistry(store.Services{
		Branches:        services.NewBranchService(docs),
		Representatives: services.NewRepresentativeService(docs),
		Territories:     services.NewTerritoryService(docs),
		Activities:      activityService,
	}, logger)

	sweepEvery := cfg.SessionIdle / 4
	if sweepEvery < time.Minute {
		sweepEvery = time.Minute
	}
	go registry.RunSweeper(ctx, sweepEvery, cfg.SessionIdle)

	if kafkaCfg.Enabled() {
		if err := kafka.RunActivityProcessor(ctx, kafkaCfg, registry, logger); err != nil {
			logger.Warn("Activity events from other instances disabled", zap.Error(err))
		}
	}

	geocoder := geocode.New(geocode.Config{
		BaseURL:   cfg.NominatimURL,
		UserAgent: cfg.NominatimUserAgent,
		RPS:       cfg.NominatimRPS,
		CacheTTL:  cfg.GeocodeCacheTTL,
	}, openRedis(ctx, cfg, logger), logger)

	pages, err := site.NewPages()
	if err != nil {
		logger.Sugar().Fatalf("Failed to load page templates: %v", err)
	}
	mailer := site.NewMailer(site.MailConfig{
		SMTPHost:     cfg.SMTPHost,
		SMTPPort:     cfg.SMTPPort,
		SMTPUsername: cfg.SMTPUsername,
		SMTPPassword: cfg.SMTPPassword,
		FromEmail:    cfg.SMTPFrom,
		FromName:     cfg.SMTPFromName,
		SalesEmail:   cfg.SalesEmail,
	}, logger)

	if cfg.JWTSecret != "" {
		auth.SetJWTSecret(cfg.JWTSecret)
	} else {
		logger.Warn("JWT_SECRET not set, using the development secret")
	}
	auth.SetJWTExpirationTime(cfg.TokenTTL)

	var roles *auth.RoleConfig
	if cfg.RBACConfigPath != "" {
		roles, err = auth.LoadRoleConfig(cfg.RBACConfigPath)
		if err != nil {
			logger.Sugar().Fatalf("Failed to load role file: %v", err)
		}
	}

	app, err := api.NewFiberApp(restapi.Deps{
		Sessions:   registry,
		Activities: activityService,
		Geocoder:   geocoder,
		Pages:      pages,
		Mailer:     mailer,
		GitHub: auth.GitHubConfig{
			ClientID:     cfg.GitHubClientID,
			ClientSecret: cfg.GitHubClientSecret,
			BaseURL:      cfg.BaseURL,
			DefaultRole:  cfg.DefaultRole,
			Roles:        roles,
		},
		ContactRateLimit: cfg.ContactRateLimit,
		Logger:           logger,
	}, api.Options{AllowOrigins: cfg.CORSOrigins, AccessLog: true})
	if err != nil {
		logger.Sugar().Fatalf("Failed to create GraphQL schema: %v", err)
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			logger.Warn("Shutdown did not complete", zap.Error(err))
		}
	}()

	logger.Sugar().Infof("Starting server on port %s", cfg.Port)
	logger.Info("GraphQL endpoint available at /api/v1/graphql")
	if err := app.Listen(":" + cfg.Port); err != nil {
		logger.Sugar().Fatalf("Failed to start server: %v", err)
	}
}

// openRedis connects the geocode cache, or returns nil to run uncached when
// no Redis host is configured or it cannot be reached.
func openRedis(ctx context.Context, cfg config.Config, logger *zap.Logger) *redis.Client {
	addr := cfg.RedisAddr()
	if addr == "" {
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: cfg.RedisPass,
		DB:       cfg.RedisDB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		logger.Warn("Redis unavailable, geocoding without cache", zap.String("addr", addr), zap.Error(err))
		_ = client.Close()
		return nil
	}
	return client
}
