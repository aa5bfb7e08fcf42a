package cli

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"live-quiz-service/internal/config"
	"live-quiz-service/internal/domain"
	"live-quiz-service/internal/game"
	"live-quiz-service/internal/infra/memory"
	pgloader "live-quiz-service/internal/infra/postgres"
	redisinfra "live-quiz-service/internal/infra/redis"
	transport "live-quiz-service/internal/transport/http"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the quiz coordinator server",
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

	if cfg.Postgres.URL != "" {
		if err := runMigrationsWithConfig(ctx, cfg); err != nil {
			return err
		}
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	}
	redisTTL := config.TTLDuration(cfg.Redis.TTL, 10*time.Minute)

	var pool *pgxpool.Pool
	if cfg.Postgres.URL != "" {
		pool, err = pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
	}

	var loader memory.QuizLoader = memory.NewStaticQuizLoader(sampleQuizzes(cfg))
	if pool != nil {
		loader = pgloader.NewQuizLoader(pool)
	}

	quizTTL := config.TTLDuration(cfg.Quiz.TTL, 10*time.Minute)
	var quizRepo game.QuizRepository
	if redisClient != nil {
		quizRepo = redisinfra.NewQuizRepository(redisClient, loader, quizTTL)
	} else {
		quizRepo = memory.NewQuizRepository(loader, quizTTL)
	}

	var sessions game.SessionRegistry
	if redisClient != nil {
		sessions = redisinfra.NewSessionRegistry(redisClient, redisTTL)
	} else {
		sessions = memory.NewSessionRegistry()
	}

	coordinator := game.NewCoordinator(sessions, quizRepo, game.NewBroadcaster())
	wsHandler := transport.NewWSHandler(coordinator)

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	mux.HandleFunc("/ws/play", wsHandler.ServePlayer)
	mux.HandleFunc("/ws/host", wsHandler.ServeHost)

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Printf("starting live quiz service on :%s", finalPort)
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

// sampleQuizzes provides a minimal demo quiz; production runs load from
// Postgres via the authoring flow.
func sampleQuizzes(cfg config.Config) map[string]domain.Quiz {
	return map[string]domain.Quiz{
		"DEMO01": {
			ID:       "quiz-demo",
			Title:    "Demo Quiz",
			GameCode: "DEMO01",
			Questions: []domain.Question{
				{
					Prompt:        "What is 2 + 2?",
					Options:       []string{"3", "4", "5", "22"},
					CorrectAnswer: "B",
					Explanation:   "Basic arithmetic.",
				},
				{
					Prompt:        "Which planet is known as the Red Planet?",
					Options:       []string{"Venus", "Jupiter", "Mars", "Saturn"},
					CorrectAnswer: "C",
				},
			},
			TimePerQuestion:   config.IntOr(cfg.Game.TimePerQuestion, 30),
			PointsPerQuestion: config.IntOr(cfg.Game.PointsPerQuestion, 1000),
			MaxPlayers:        config.IntOr(cfg.Game.MaxPlayers, 200),
		},
	}
}
