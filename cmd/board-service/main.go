package main

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"stock-board/internal/board/config"
	delivery "stock-board/internal/board/delivery/http"
	"stock-board/internal/board/digest"
	_ "stock-board/internal/board/docs"
	"stock-board/internal/board/event"
	"stock-board/internal/board/repository"
	"stock-board/internal/board/seed"
	"stock-board/internal/board/usecase"
	"stock-board/pkg/database"
	"stock-board/pkg/logger"
	"stock-board/pkg/redis"
	"stock-board/pkg/telegram"

	"github.com/spf13/cobra"
)

var (
	configPath     string
	seedCount      int
	serveSeedCount int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Starts the board API",
	Run:   runServe,
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Inserts random sample posts",
	Run:   runSeed,
}

func runServe(cmd *cobra.Command, args []string) {
	// Create a context that is canceled on interrupt signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, appLogger := bootstrap()
	defer func() { _ = appLogger.Sync() }()

	appLogger.Info("Starting Board Service",
		logger.Field("name", cfg.App.Name),
		logger.StringField("driver", cfg.Database.Driver),
	)

	repo, closeDB := openRepository(cfg, appLogger)
	defer closeDB()

	if serveSeedCount > 0 {
		if err := seed.Run(ctx, repo, serveSeedCount, rand.New(rand.NewSource(time.Now().UnixNano())), appLogger); err != nil {
			appLogger.Fatal("Failed to seed posts", logger.ErrorField(err))
		}
	}

	var publishers []event.Publisher
	var digestNotifier telegram.Notifier
	if cfg.Events.Enabled {
		redisClient, err := redis.NewClient(redisConfig(cfg))
		if err != nil {
			appLogger.Fatal("Failed to initialize Redis", logger.ErrorField(err))
		}
		defer redisClient.Close()
		publishers = append(publishers, event.NewRedisStreamPublisher(redisClient.Client, cfg.Redis.StreamMaxLen))
	}
	if cfg.Events.Notify.Enabled {
		notifier, err := telegram.NewClient(cfg.Events.Notify.BotToken, cfg.Events.Notify.ChatID)
		if err != nil {
			appLogger.Fatal("Failed to initialize Telegram notifier", logger.ErrorField(err))
		}
		notifications := event.NewNotificationPublisher(notifier, event.ParseTypes(cfg.Events.Notify.Types), cfg.Events.Notify.QueueSize, appLogger)
		go notifications.Run(ctx)
		publishers = append(publishers, notifications)
		digestNotifier = notifier
	}

	var publisher event.Publisher = event.NoopPublisher{}
	if len(publishers) > 0 {
		publisher = event.NewMultiPublisher(publishers...)
	}

	useCases := usecase.New(repo, publisher, cfg.Board.TrendingCacheTTL, appLogger)
	if digestNotifier != nil && cfg.Events.Notify.DigestCron != "" {
		digestSvc, err := digest.NewDigestService(useCases.GetTrending, digestNotifier, cfg.Events.Notify.DigestCron,
			cfg.Events.Notify.DigestLimit, cfg.Events.Notify.DigestDays, appLogger)
		if err != nil {
			appLogger.Fatal("Failed to initialize digest service", logger.ErrorField(err))
		}
		go digestSvc.Start(ctx)
	}

	e := delivery.NewRouter(useCases, repo, delivery.RouterConfig{
		AllowOrigins:       cfg.Board.AllowOrigins,
		RateLimitPerSecond: cfg.Board.RateLimitPerSecond,
		RateLimitBurst:     cfg.Board.RateLimitBurst,
		DefaultPageSize:    cfg.Board.DefaultPageSize,
	}, appLogger)

	// Start server
	go func() {
		addr := fmt.Sprintf("%s:%d", cfg.API.Host, cfg.API.Port)
		appLogger.Info("HTTP server starting", logger.Field("address", addr))
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			appLogger.Error("HTTP server failed to start", logger.ErrorField(err))
			stop() // trigger shutdown
		}
	}()

	// Wait for shutdown signal
	<-ctx.Done()

	appLogger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("Server forced to shutdown", logger.ErrorField(err))
	}

	appLogger.Info("Server exiting")
}

func runSeed(cmd *cobra.Command, args []string) {
	cfg, appLogger := bootstrap()
	defer func() { _ = appLogger.Sync() }()

	if cfg.Database.Driver == database.DriverMemory {
		appLogger.Fatal("Seeding the memory driver has no effect; use serve --seed instead")
	}

	repo, closeDB := openRepository(cfg, appLogger)
	defer closeDB()

	appLogger.Info("Seeding posts", logger.IntField("count", seedCount))
	if err := seed.Run(cmd.Context(), repo, seedCount, rand.New(rand.NewSource(time.Now().UnixNano())), appLogger); err != nil {
		appLogger.Fatal("Failed to seed posts", logger.ErrorField(err))
	}
	appLogger.Info("Seeding finished")
}

func bootstrap() (*config.Config, *logger.Logger) {
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	appLogger, err := logger.New(cfg.Logger.Level, cfg.Logger.Encoding)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	return cfg, appLogger
}

// openRepository returns the post repository for the configured driver and a
// func that releases its connections.
func openRepository(cfg *config.Config, appLogger *logger.Logger) (repository.PostRepository, func()) {
	if cfg.Database.Driver == database.DriverMemory {
		appLogger.Warn("Using in-memory storage; posts are lost on restart")
		return repository.NewMemoryPostRepository(), func() {}
	}

	db, err := database.NewDB(database.Config{
		Driver:          cfg.Database.Driver,
		Host:            cfg.Database.Host,
		Port:            cfg.Database.Port,
		User:            cfg.Database.User,
		Password:        cfg.Database.Password,
		DBName:          cfg.Database.DBName,
		SSLMode:         cfg.Database.SSLMode,
		TimeZone:        cfg.Database.TimeZone,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		LogLevel:        cfg.Database.LogLevel,
	})
	if err != nil {
		appLogger.Fatal("Failed to initialize database", logger.ErrorField(err))
	}

	return repository.NewPostRepository(db.DB), func() {
		if sqlDB, err := db.DB.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
}

func redisConfig(cfg *config.Config) redis.Config {
	return redis.Config{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		PoolSize: cfg.Redis.PoolSize,
	}
}

// @title Stock Board API
// @version 1.0
// @description Stock discussion board: posts tagged with a stock, sentiment and position, plus trending stocks.
// @BasePath /
func main() {
	rootCmd := &cobra.Command{Use: "board-service"}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "configs/config-board.yaml", "Path to the configuration file")

	serveCmd.Flags().IntVar(&serveSeedCount, "seed", 0, "Insert this many random posts before serving")
	seedCmd.Flags().IntVar(&seedCount, "count", 50, "Number of posts to insert")

	rootCmd.AddCommand(serveCmd, seedCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error executing board-service CLI: %s\n", err)
		os.Exit(1)
	}
}
