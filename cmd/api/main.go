package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"agriconnect-api/internal/config"
	"agriconnect-api/internal/events"
	"agriconnect-api/internal/idempotency"
	"agriconnect-api/internal/repository"
	"agriconnect-api/internal/router"
	"agriconnect-api/internal/service"
	"agriconnect-api/internal/ws"
	"agriconnect-api/pkg/ai"
	"agriconnect-api/pkg/database"
	"agriconnect-api/pkg/jwt"
	"agriconnect-api/pkg/logger"
	"agriconnect-api/pkg/weather"

	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog/log"
)

func main() {
	// 1. Load Env
	cfg := config.Load()
	logger.Setup(cfg.LogLevel, os.Stdout)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 2. Setup Database
	db, err := database.ConnectDB(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	if err := repository.AutoMigrate(db); err != nil {
		log.Fatal().Err(err).Msg("failed to migrate schema")
	}

	// 3. Setup WebSocket Hub
	wsHub := ws.NewHub()
	go wsHub.Run(ctx)

	// 4. Optional infrastructure: Redis for idempotency keys, Kafka for events
	publishers := events.Multi{wsHub}
	if len(cfg.KafkaBrokers) > 0 {
		kafkaPub := events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
		defer kafkaPub.Close()
		publishers = append(publishers, kafkaPub)
		log.Info().Strs("brokers", cfg.KafkaBrokers).Str("topic", cfg.KafkaTopic).Msg("kafka publishing enabled")
	}

	var idem idempotency.Store
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Warn().Err(err).Str("addr", cfg.RedisAddr).Msg("redis unreachable, idempotency keys disabled")
		} else {
			idem = idempotency.NewRedisStore(rdb, 0)
		}
	}

	var llm ai.Client
	if cfg.LLMAPIKey == "" {
		log.Warn().Msg("LLM_API_KEY not set, ask-ai answers come from the offline mock")
		llm = ai.NewMock()
	} else {
		llm = ai.NewOpenAI(cfg.LLMEndpoint, cfg.LLMAPIKey, cfg.LLMModel, cfg.LLMTimeout)
	}

	// 5. Dependency Injection (Wiring Layers)
	userRepo := repository.NewUserRepo(db)
	productRepo := repository.NewProductRepo(db)
	orderRepo := repository.NewOrderRepo(db)
	weatherRepo := repository.NewWeatherRepo(db)
	updateRepo := repository.NewUpdateRepo(db)

	tokens := jwt.NewManager(cfg.JWTSecret, cfg.AccessTTL, cfg.RefreshTTL)
	contentService := service.NewContentService(updateRepo)

	// 6. Seed the farming updates feed
	if err := contentService.SeedDefaults(ctx); err != nil {
		log.Warn().Err(err).Msg("failed to seed farming updates")
	}

	app := router.New(router.Services{
		Auth:    service.NewAuthService(userRepo, tokens),
		Users:   service.NewUserService(userRepo, productRepo, orderRepo),
		Catalog: service.NewCatalogService(productRepo, publishers),
		Orders:  service.NewOrderService(productRepo, orderRepo, db, idem, publishers),
		Weather: service.NewWeatherService(weatherRepo, weather.NewOpenWeather(cfg.WeatherEndpoint, cfg.WeatherAPIKey, cfg.WeatherTimeout), publishers),
		Content: contentService,
		AI:      service.NewAIService(llm),
	}, wsHub, router.Options{AskAIRate: cfg.AskAIRate, AccessLog: true})

	// 7. Graceful Shutdown
	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Panic().Err(err).Msg("server stopped")
		}
	}()

	<-ctx.Done()

	log.Info().Msg("Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}
