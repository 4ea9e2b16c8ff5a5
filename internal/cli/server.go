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

	"classquiz-service/internal/app"
	"classquiz-service/internal/config"
	"classquiz-service/internal/domain"
	"classquiz-service/internal/infra/memory"
	pgloader "classquiz-service/internal/infra/postgres"
	infraredis "classquiz-service/internal/infra/redis"
	transport "classquiz-service/internal/transport/http"
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

	var pool *pgxpool.Pool
	if cfg.Postgres.URL != "" {
		pool, err = pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
	}

	var loader memory.QuestionLoader = memory.NewStaticQuestionLoader(sampleQuestions())
	if pool != nil {
		loader = pgloader.NewQuestionLoader(pool)
	}

	cacheTTL := config.ParseDuration(cfg.Question.CacheTTL, 10*time.Minute)
	if redisClient != nil {
		loader = infraredis.NewQuestionCache(redisClient, loader, cacheTTL)
	} else {
		loader = memory.NewCachedQuestionLoader(loader, cacheTTL)
	}

	questions := memory.NewQuestionStore(loader)
	if all, err := loader.ListQuestions(ctx); err == nil {
		for _, q := range all {
			// Imported questions without point bounds pick up the
			// configured defaults.
			if q.MinPoints == 0 && cfg.Question.MinPoints > 0 {
				q.MinPoints = cfg.Question.MinPoints
			}
			if q.MaxPoints == 0 && cfg.Question.MaxPoints > 0 {
				q.MaxPoints = cfg.Question.MaxPoints
			}
			questions.Put(q)
		}
	} else {
		log.Printf("seeding questions: %v", err)
	}

	users := memory.NewUserStore()
	if pool != nil {
		userLoader := pgloader.NewUserLoader(pool)
		list, err := userLoader.ListUsers(ctx)
		if err != nil {
			return err
		}
		for _, u := range list {
			if err := users.Register(ctx, u); err != nil {
				return err
			}
		}
	} else {
		for _, u := range sampleUsers() {
			_ = users.Register(ctx, u)
		}
	}

	var locks app.AttemptLockStore = memory.NewAttemptLockStore()
	if redisClient != nil {
		locks = infraredis.NewAttemptLockStore(redisClient)
	}

	service := app.NewService(questions, users, locks, config.NewSettings(cfg))
	handler := transport.NewHandler(service)
	wsHandler := transport.NewWSHandler(service)

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	handler.Register(mux)
	mux.HandleFunc("/ws/leaderboard", wsHandler.ServeWS)

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Printf("starting classquiz service on :%s", finalPort)
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

// sampleQuestions provides a minimal question set for running without a
// database.
func sampleQuestions() map[string]domain.Question {
	return map[string]domain.Question{
		"q-capital": {
			ID:            "q-capital",
			Type:          domain.QuestionRegular,
			Topic:         "geography",
			Prompt:        "What is the capital of France?",
			Hint:          "City of Light",
			AnswerPattern: "paris",
			MinPoints:     10,
			MaxPoints:     100,
			Visible:       true,
		},
		"q-arith": {
			ID:            "q-arith",
			Type:          domain.QuestionMultipleChoice,
			Topic:         "math",
			Prompt:        "What is 2 + 2?",
			CorrectOption: "o2",
			Options: []domain.Option{
				{ID: "o1", Text: "3"},
				{ID: "o2", Text: "4"},
				{ID: "o3", Text: "5"},
			},
			MinPoints: 10,
			MaxPoints: 50,
			Visible:   true,
		},
	}
}

func sampleUsers() []domain.User {
	return []domain.User{
		{ID: "admin", DisplayName: "Quiz Admin", Role: domain.RoleAdmin},
		{ID: "s1", DisplayName: "Alice Martin", Role: domain.RoleStudent},
		{ID: "s2", DisplayName: "Bob Chen", Role: domain.RoleStudent},
	}
}
