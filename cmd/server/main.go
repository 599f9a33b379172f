package main

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	config "github.com/maheshrc27/postpilot/configs"
	"github.com/maheshrc27/postpilot/internal/api/handlers"
	job "github.com/maheshrc27/postpilot/internal/jobs"
	"github.com/maheshrc27/postpilot/internal/queue"
	"github.com/maheshrc27/postpilot/internal/repository"
	"github.com/maheshrc27/postpilot/internal/service"
	"github.com/robfig/cron"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: Failed to load environment variables", err)
	}

	cfg := config.LoadConfig()

	var postRepo repository.PostRepository
	var credsRepo repository.CredentialsRepository
	var db *sql.DB

	if cfg.PostgresURI != "" {
		var err error
		db, err = sql.Open("postgres", cfg.PostgresURI)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer closeDB(db)

		if err := db.Ping(); err != nil {
			log.Fatalf("Database is unreachable: %v", err)
		}

		postRepo = repository.NewPostRepository(db)
		credsRepo = repository.NewCredentialsRepository(db)
	} else {
		log.Println("Warning: POSTGRES_URI not set, using in-memory store")
		postRepo = repository.NewMemoryPostRepository()
		credsRepo = repository.NewMemoryCredentialsRepository()
	}

	credentialStore := service.NewCredentialStore(*cfg, credsRepo)
	publisher := service.NewInstagramPublisher(*cfg)
	postService := service.NewPostService(postRepo)

	sweepJob := job.NewPublishSweepJob(postRepo, credentialStore, publisher, cfg.ClaimTTL)

	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Minute,
		WriteTimeout: time.Minute,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			log.Printf("Error: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		},
	})

	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOriginsFunc: func(origin string) bool {
			return true
		},
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
		MaxAge:           3600,
	}))

	var asynqClient *asynq.Client
	if cfg.RedisURI != "" {
		redisConn := asynq.RedisClientOpt{Addr: cfg.RedisURI}
		asynqClient = asynq.NewClient(redisConn)
		defer asynqClient.Close()

		queueW := queue.NewQueue(sweepJob)

		go func() {
			server := asynq.NewServer(redisConn, asynq.Config{
				Concurrency: 1,
			})

			mux := asynq.NewServeMux()
			mux.HandleFunc(queue.TaskTypePublishPost, queueW.HandlePublishPostTask)

			log.Println("Starting the Asynq server...")
			if err := server.Run(mux); err != nil {
				log.Fatalf("Could not start Asynq server: %v", err)
			}
		}()
	} else {
		log.Println("Warning: REDIS_URI not set, relying on the periodic sweep only")
	}

	app.Get("/healthz", func(c *fiber.Ctx) error {
		if db != nil {
			if err := db.PingContext(c.Context()); err != nil {
				return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "unhealthy"})
			}
		}
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "ok"})
	})

	api := app.Group("/api")

	post := handlers.NewPostHandler(postService, asynqClient)
	api.Post("/schedule", post.Schedule)
	api.Get("/posts", post.ListPosts)
	api.Post("/posts/remove", post.RemovePost)

	credentials := handlers.NewCredentialsHandler(credentialStore)
	api.Put("/credentials", credentials.Update)

	c := cron.New()
	c.AddFunc(cfg.SweepSpec, sweepJob.Run)
	c.AddFunc("@every 0h5m0s", sweepJob.ReleaseStaleClaims)
	c.Start()
	defer c.Stop()

	go func() {
		if err := app.Listen(cfg.ServerAddr); err != nil {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()
	log.Printf("Server is running on %s", cfg.ServerAddr)

	gracefulShutdown(app)
}

func closeDB(db *sql.DB) {
	fmt.Fprint(os.Stdout, "Closing database connection... ")
	if err := db.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to close database: %v", err)
		return
	}
	fmt.Fprintln(os.Stdout, "Done")
}

func gracefulShutdown(app *fiber.App) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	<-quit
	log.Println("Shutting down server...")

	if err := app.Shutdown(); err != nil {
		log.Fatalf("Failed to shut down server: %v", err)
	}

	log.Println("Server shutdown complete.")
}
