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
	config "github.com/maheshrc27/clipcast/configs"
	"github.com/maheshrc27/clipcast/internal/api/handlers"
	"github.com/maheshrc27/clipcast/internal/api/middleware"
	job "github.com/maheshrc27/clipcast/internal/jobs"
	"github.com/maheshrc27/clipcast/internal/queue"
	"github.com/maheshrc27/clipcast/internal/repository"
	"github.com/maheshrc27/clipcast/internal/service"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: Failed to load environment variables", err)
	}

	cfg := config.LoadConfig()

	db, err := sql.Open("postgres", cfg.PostgresURI)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer closeDB(db)

	if err := db.Ping(); err != nil {
		log.Fatalf("Database is unreachable: %v", err)
	}

	redisConn := asynq.RedisClientOpt{Addr: cfg.RedisURI}
	client := asynq.NewClient(redisConn)
	defer client.Close()

	app := fiber.New(fiber.Config{
		ReadTimeout:  10 * time.Minute,
		WriteTimeout: 10 * time.Minute,
		BodyLimit:    100 * 1024 * 1024, // 100 MB
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

	userRepo := repository.NewUserRepository(db)
	ideaRepo := repository.NewIdeaRepository(db)
	scriptRepo := repository.NewScriptRepository(db)
	mediaRepo := repository.NewMediaRepository(db)
	scheduleRepo := repository.NewScheduleRepository(db)
	analyticsRepo := repository.NewAnalyticsRepository(db)
	preferenceRepo := repository.NewPreferenceRepository(db)
	socialAccountRepo := repository.NewSocialAccountRepository(db)
	apiKeyRepo := repository.NewApiKeyRepository(db)

	authService := service.NewAuthService(*cfg, userRepo)
	userService := service.NewUserService(userRepo)
	apiKeyService := service.NewApiKeyService(apiKeyRepo)
	r2Service := service.NewR2Service(*cfg)
	openaiService := service.NewOpenAIService(*cfg)
	speechService := service.NewSpeechService(*cfg)
	videoGenService := service.NewVideoGenService(*cfg)
	tiktokService := service.NewTiktokService(*cfg, socialAccountRepo)
	platformService := service.NewPlatformService(*cfg, socialAccountRepo)
	generationService := service.NewGenerationService(ideaRepo, scriptRepo, mediaRepo, openaiService, speechService, videoGenService, r2Service)
	publishService := service.NewPublishService(scheduleRepo, ideaRepo, mediaRepo, scriptRepo, socialAccountRepo, analyticsRepo, tiktokService, r2Service)
	mediaService := service.NewMediaService(mediaRepo)
	scheduleService := service.NewScheduleService(scheduleRepo, mediaRepo, ideaRepo, socialAccountRepo, publishService)
	preferenceService := service.NewPreferenceService(preferenceRepo)
	dashboardService := service.NewDashboardService(ideaRepo, analyticsRepo)

	queueW := queue.NewQueue(client, generationService)
	ideaService := service.NewIdeaService(ideaRepo, queueW)

	authMiddleware := middleware.NewAuthMiddleware(*cfg, apiKeyService)

	auth := handlers.NewAuthHandler(*cfg, authService)
	app.Get("/login", auth.Login)
	app.Get("/login/callback", auth.LoginCallbackHandler)

	platform := handlers.NewPlatformHandler(platformService, tiktokService, *cfg)
	app.Get("/auth/:platform", platform.AddSocialAccount)
	app.Get("/auth/:platform/callback", platform.CallbackHandler)

	api := app.Group("/api")
	api.Use(authMiddleware.AuthMiddleware())

	user := handlers.NewUserHandler(userService)
	api.Get("/user/info", user.GetUserInfo)

	apiKeys := handlers.NewApiKeyHandler(apiKeyService)
	api.Post("/api_key/new", apiKeys.CreateApiKey)
	api.Get("/api_key/list", apiKeys.ListKeys)
	api.Post("/api_key/remove", apiKeys.RemoveAPIKey)

	idea := handlers.NewIdeaHandler(ideaService)
	api.Post("/ideas/create", idea.CreateIdea)
	api.Get("/ideas", idea.ListIdeas)
	api.Get("/ideas/info", idea.GetIdea)

	media := handlers.NewMediaHandler(mediaService)
	api.Get("/media", media.ListMedia)
	api.Get("/media/info", media.GetMedia)

	schedule := handlers.NewScheduleHandler(scheduleService)
	api.Post("/schedules/create", schedule.CreateSchedule)
	api.Post("/schedules/post_now", schedule.PostNow)
	api.Post("/schedules/cancel", schedule.CancelSchedule)
	api.Get("/schedules", schedule.ListSchedules)

	preference := handlers.NewPreferenceHandler(preferenceService)
	api.Get("/preferences", preference.GetPreferences)
	api.Post("/preferences/update", preference.UpdatePreferences)

	dashboard := handlers.NewDashboardHandler(dashboardService)
	api.Get("/dashboard/stats", dashboard.GetPipelineStats)
	api.Get("/dashboard/analytics", dashboard.GetAnalyticsSummary)

	// social accounts api routes
	api.Get("/accounts", platform.ListSocialAccounts)
	api.Post("/accounts/remove", platform.DeleteSocialAccount)

	// periodic jobs
	schedulerJob := job.NewSchedulerJob(mediaRepo, scheduleRepo, ideaRepo, preferenceRepo, publishService)
	analyticsJob := job.NewAnalyticsJob(scheduleRepo, socialAccountRepo, analyticsRepo, preferenceRepo, tiktokService)
	recycleJob := job.NewRecycleJob(ideaRepo, queueW)
	tokenRefreshJob := job.NewTokenRefreshJob(socialAccountRepo, tiktokService)

	runner := job.NewRunner(schedulerJob, analyticsJob, recycleJob, tokenRefreshJob)
	runner.Start()
	defer runner.Stop()

	go func() {
		server := asynq.NewServer(redisConn, asynq.Config{
			Concurrency: 10,
		})

		mux := asynq.NewServeMux()
		mux.HandleFunc(queue.TaskTypeGeneratePipeline, queueW.HandleGeneratePipelineTask)

		log.Println("Starting the Asynq server...")
		if err := server.Run(mux); err != nil {
			log.Fatalf("Could not start Asynq server: %v", err)
		}
	}()

	go func() {
		if err := app.Listen(":3000"); err != nil {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()
	log.Println("Server is running on http://localhost:3000")

	gracefulShutdown(app, db)
}

func closeDB(db *sql.DB) {
	fmt.Fprint(os.Stdout, "Closing database connection... ")
	if err := db.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to close database: %v", err)
		return
	}
	fmt.Fprintln(os.Stdout, "Done")
}

func gracefulShutdown(app *fiber.App, db *sql.DB) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	<-quit
	log.Println("Shutting down server...")

	if err := app.Shutdown(); err != nil {
		log.Fatalf("Failed to shut down server: %v", err)
	}

	closeDB(db)
	log.Println("Server shutdown complete.")
}
