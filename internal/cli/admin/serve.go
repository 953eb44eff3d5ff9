package admin

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/spf13/cobra"

	"github.com/studyhub-ai/studyhub/internal/api/handlers"
	"github.com/studyhub-ai/studyhub/internal/chunker"
	"github.com/studyhub-ai/studyhub/internal/config"
	"github.com/studyhub-ai/studyhub/internal/database"
	"github.com/studyhub-ai/studyhub/internal/genai"
	"github.com/studyhub-ai/studyhub/internal/jobs"
	"github.com/studyhub-ai/studyhub/internal/repository"
	"github.com/studyhub-ai/studyhub/internal/server"
	"github.com/studyhub-ai/studyhub/internal/service"
	"github.com/studyhub-ai/studyhub/internal/storage"
	"github.com/studyhub-ai/studyhub/internal/telemetry"
)

// ServeCmd returns the serve command
func ServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		Long:  "Start the studyhub API server and the background index worker",
		RunE:  runServe,
	}

	cmd.Flags().StringP("port", "p", "8080", "Port to listen on")
	cmd.Flags().Bool("no-migrate", false, "Skip automatic database migrations on startup")
	cmd.Flags().Bool("no-worker", false, "Do not start the background index worker")

	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if cfg.SentryDSN != "" {
		environment := cfg.SentryEnvironment
		if environment == "" {
			environment = "development"
		}

		sampleRate := cfg.SentryTracesSampleRate
		if sampleRate == 0 {
			sampleRate = 0.1
			if environment == "development" {
				sampleRate = 1.0
			}
		}

		shutdownTelemetry, err := telemetry.Init(telemetry.Config{
			DSN:              cfg.SentryDSN,
			Environment:      environment,
			TracesSampleRate: sampleRate,
			Debug:            cfg.Debug,
		})
		if err != nil {
			log.Printf("telemetry init failed (continuing without tracing): %v", err)
		} else {
			defer shutdownTelemetry()
		}
	}

	cfg.Port = resolvePort(cmd, cfg.Port)

	pool, err := database.NewPool(ctx, cfg.DatabaseURL, 0)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer pool.Close()
	log.Println("connected to database")

	noMigrate, _ := cmd.Flags().GetBool("no-migrate")
	if !noMigrate {
		if err := runMigrations(cfg.DatabaseURL); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
	}

	userRepo := repository.NewUserRepository(pool)
	courseRepo := repository.NewCourseRepository(pool)
	uploadRepo := repository.NewUploadRepository(pool)
	chunkRepo := repository.NewChunkRepository(pool)
	chatRepo := repository.NewChatRepository(pool)
	quizRepo := repository.NewQuizRepository(pool)
	indexJobRepo := repository.NewIndexJobRepository(pool)
	enrollmentRepo := repository.NewEnrollmentRepository(pool)
	statsRepo := repository.NewStatsRepository(pool)

	var objectStore service.ObjectStore
	if cfg.HasS3() {
		s3Client, err := storage.NewS3Client(ctx, storage.S3ClientConfig{
			Endpoint:        cfg.S3Endpoint,
			Region:          cfg.S3Region,
			AccessKeyID:     cfg.S3AccessKey,
			SecretAccessKey: cfg.S3SecretKey,
			Bucket:          cfg.S3Bucket,
			UsePathStyle:    true,
		})
		if err != nil {
			return fmt.Errorf("failed to create S3 client: %w", err)
		}
		if err := s3Client.EnsureBucket(ctx); err != nil {
			return fmt.Errorf("failed to ensure S3 bucket: %w", err)
		}
		log.Printf("S3 bucket '%s' ready", cfg.S3Bucket)
		objectStore = s3Client
	}

	var embeddingClient service.EmbeddingClient
	var generator service.TextGenerator
	if cfg.HasOpenAI() {
		client := genai.NewClient(cfg.OpenAIAPIKey)
		embeddingClient = client
		generator = client
	} else {
		log.Println("OPENAI_API_KEY not set: embeddings use placeholders, chat and quizzes run degraded")
	}

	chunkCfg := chunker.Config{
		ChunkSize: cfg.ChunkSize,
		Overlap:   cfg.ChunkOverlap,
	}
	if err := chunkCfg.Validate(); err != nil {
		return fmt.Errorf("invalid chunking config: %w", err)
	}

	embedder := service.NewEmbedder(embeddingClient)
	indexer := service.NewIndexer(chunkCfg, embedder, chunkRepo)
	retriever := service.NewRetriever(embedder, chunkRepo)

	uuidGen := &service.DefaultUUIDGenerator{}

	authSvc := service.NewAuthService(userRepo, uuidGen)
	courseSvc := service.NewCourseService(courseRepo, indexJobRepo, indexer, uuidGen)
	uploadSvc := service.NewUploadService(uploadRepo, objectStore, indexJobRepo, indexer, uuidGen)
	chatSvc := service.NewChatService(chatRepo, retriever, generator, uuidGen)
	quizSvc := service.NewQuizService(quizRepo, courseRepo, generator, uuidGen)
	enrollmentSvc := service.NewEnrollmentService(enrollmentRepo, courseRepo, uuidGen)
	dashboardSvc := service.NewDashboardService(statsRepo, courseRepo)

	var indexWorker *jobs.Worker
	noWorker, _ := cmd.Flags().GetBool("no-worker")
	if !noWorker {
		processor := jobs.NewIndexWorker(indexJobRepo, courseRepo, uploadRepo, indexer)
		indexWorker = jobs.NewWorker(processor, time.Duration(cfg.JobPollSeconds)*time.Second)
		go indexWorker.Start(ctx)
		log.Println("index worker started")
	}

	router := server.NewRouter(server.RouterConfig{
		TokenValidator: authSvc,
		AuthHandler:    handlers.NewAuthHandler(authSvc),
		CourseHandler:  handlers.NewCourseHandler(courseSvc),
		UploadHandler:  handlers.NewUploadHandler(uploadSvc),
		ChatHandler:    handlers.NewChatHandler(chatSvc),
		SearchHandler:  handlers.NewSearchHandler(retriever),
		QuizHandler:    handlers.NewQuizHandler(quizSvc),

		EnrollmentHandler: handlers.NewEnrollmentHandler(enrollmentSvc),
		DashboardHandler:  handlers.NewDashboardHandler(dashboardSvc),
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Printf("starting server on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("shutting down...")

	if indexWorker != nil {
		indexWorker.Stop()
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Println("server exited")
	return nil
}

// resolvePort prefers an explicitly passed --port flag over the configured
// port, even when the flag value equals its default.
func resolvePort(cmd *cobra.Command, configured string) string {
	if cmd.Flags().Changed("port") {
		port, _ := cmd.Flags().GetString("port")
		return port
	}
	return configured
}

func runMigrations(databaseURL string) error {
	// golang-migrate drives a database/sql connection, not the pgx pool.
	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return fmt.Errorf("failed to open database for migrations: %w", err)
	}
	defer db.Close()

	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("failed to create migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(
		"file://migrations",
		"postgres",
		driver,
	)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}

	err = m.Up()
	if err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	version, dirty, err := m.Version()
	if err != nil && err != migrate.ErrNilVersion {
		return fmt.Errorf("failed to get migration version: %w", err)
	}

	if err == migrate.ErrNilVersion {
		log.Println("migrations: database is up to date (no migrations applied)")
	} else if dirty {
		return fmt.Errorf("migration version %d is dirty - manual intervention required", version)
	} else {
		log.Printf("migrations: database at version %d", version)
	}

	return nil
}
