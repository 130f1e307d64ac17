package cli

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"quiz-api-service/internal/app"
	"quiz-api-service/internal/config"
	"quiz-api-service/internal/infra/memory"
	redisstore "quiz-api-service/internal/infra/redis"
	transport "quiz-api-service/internal/transport/http"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the quiz server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	finalPort := cfg.ListenPort(portFlag)

	ctx, cancelRelay := context.WithCancel(ctx)
	defer cancelRelay()

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()
	}

	service, healthCheck, err := buildService(ctx, cfg, redisClient)
	if err != nil {
		return err
	}
	handler := transport.NewHandler(service, transport.Options{
		StrictNotFound: cfg.Server.StrictNotFound,
		HealthCheck:    healthCheck,
	})

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      handler.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Printf("starting quiz service on :%s", finalPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("failed to start server: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		log.Println("shutting down server...")
	case <-ctx.Done():
		log.Println("context canceled, shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// buildService wires the stores: Redis when configured so instances share one
// registry and one live answer feed, process memory otherwise. The feed relay
// runs until ctx is canceled.
func buildService(ctx context.Context, cfg config.Config, redisClient *redis.Client) (*app.QuizService, func(context.Context) error, error) {
	feed := app.NewAnswerFeed()
	if redisClient == nil {
		log.Printf("using in-memory stores")
		return app.NewQuizService(memory.NewQuizStore(), memory.NewAnswerStore(), memory.NewResultStore(), feed), nil, nil
	}

	log.Printf("using redis stores at %s", cfg.Redis.Addr)
	ttl := cfg.RedisTTL()
	quizzes := memory.NewCachedQuizRepository(
		redisstore.NewQuizStore(redisClient, ttl),
		cfg.QuizCacheTTL(),
	)
	relay := redisstore.NewFeedRelay(redisClient, feed)
	if err := relay.Start(ctx); err != nil {
		return nil, nil, fmt.Errorf("start answer feed relay: %w", err)
	}
	service := app.NewQuizService(
		quizzes,
		redisstore.NewAnswerStore(redisClient, ttl),
		redisstore.NewResultStore(redisClient, ttl),
		feed,
	).WithRelay(relay)
	return service, func(ctx context.Context) error {
		return redisClient.Ping(ctx).Err()
	}, nil
}
