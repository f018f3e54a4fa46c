package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bulk-ingest/core/config"
	"bulk-ingest/core/database"
	"bulk-ingest/core/loader"
	"bulk-ingest/core/logger"
	"bulk-ingest/core/middleware/auth"
	"bulk-ingest/core/middleware/rayid"
	"bulk-ingest/core/storage"
	"bulk-ingest/feature/bulkupload"
	"bulk-ingest/feature/bulkupload/engine"
	"bulk-ingest/feature/bulkupload/jobs"

	"github.com/cockroachdb/errors"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	_ "bulk-ingest/docs/swagger"
)

var startSandbox bool

// @title Bulk Ingest API
// @version 1.0
// @description API for queuing and tracking bulk XML feed ingestion into the entry-management service.
// @host localhost:8080
// @BasePath /

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the bulk ingest server",
	Long:  `Starts the HTTP server, the job scheduler and initializes all enabled features.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		// 1. Load Configuration
		cfg, err := config.LoadConfig(".")
		if err != nil {
			return errors.Wrap(err, "failed to load configuration")
		}

		// 2. Initialize Logger
		logg, err := logger.New(&cfg.Log)
		if err != nil {
			return errors.Wrap(err, "failed to initialize logger")
		}
		defer logg.Sync()
		zap.ReplaceGlobals(logg)

		// 3. Job ledger
		db, err := database.Connect(cfg.Database)
		if err != nil {
			return err
		}
		repo := jobs.NewRepository(db)
		if err := repo.Migrate(); err != nil {
			return err
		}
		logg.Info("Connected to job ledger", zap.String("driver", cfg.Database.Driver))

		// 4. Storage for uploaded feeds
		store, err := storage.NewClient(cfg.Storage)
		if err != nil {
			return errors.Wrap(err, "failed to create storage client")
		}
		ctx, cancel := context.WithTimeout(cmd.Context(), time.Duration(cfg.Storage.TimeoutSeconds)*time.Second)
		err = storage.EnsureBucket(ctx, store, cfg.Storage.Bucket, cfg.Storage.Region)
		cancel()
		if err != nil {
			return err
		}
		source := jobs.NewSource(store, cfg.Storage.Bucket)

		// 5. Engine and scheduler
		s, err := loadSchema(cfg)
		if err != nil {
			return err
		}
		client, err := remoteClient(cfg, logg, startSandbox)
		if err != nil {
			return err
		}
		eng := engine.New(client, s, engine.WithLogger(logg), engine.WithHooks(loggingHook{logger: logg}))
		runner := jobs.NewRunner(eng, repo, source, logg, cfg.Ingest.MaxInvocations)
		scheduler := jobs.NewScheduler(runner, repo, time.Duration(cfg.Ingest.ScheduleIntervalSeconds)*time.Second, cfg.Ingest.ScheduleConcurrency, logg)
		if err := scheduler.Start(); err != nil {
			return err
		}
		defer scheduler.Stop()

		// 6. Initialize Fiber App
		app := fiber.New(fiber.Config{
			DisableStartupMessage: true,
			BodyLimit:             cfg.Server.BodyLimit(),
		})

		// 7. Feature Loader
		mgr := loader.NewManager()
		svc := bulkupload.NewService(repo, source, s, bulkupload.Defaults{
			MaxRecordsPerRun:   cfg.Ingest.MaxRecordsPerRun,
			IngestionProfileID: defaultIngestionProfile(cfg),
		}, logg)
		mgr.Register(bulkupload.NewFeature(svc))

		// RayID first so every log line carries it
		app.Use(rayid.New())

		app.Use(func(c *fiber.Ctx) error {
			l := logger.WithRayID(logg, c)
			l.Info("Request started",
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.String("ip", c.IP()),
			)
			err := c.Next()
			if err != nil {
				l.Error("Request error", zap.Error(err))
			}
			return err
		})

		// Swagger stays public
		app.Get("/swagger/*", swagger.HandlerDefault)

		app.Use(auth.New(auth.Config{ApiKey: cfg.Server.ApiKey}))

		if err := mgr.LoadAll(app); err != nil {
			return errors.Wrap(err, "failed to load features")
		}

		// 8. Start Server
		go func() {
			logg.Info("Starting server", zap.String("port", cfg.Server.Port))
			if err := app.Listen(":" + cfg.Server.Port); err != nil {
				logg.Fatal("Server failed to start", zap.Error(err))
			}
		}()

		// 9. Graceful Shutdown
		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		<-c
		logg.Info("Shutting down server...")
		return app.Shutdown()
	},
}

func init() {
	startCmd.Flags().BoolVar(&startSandbox, "sandbox", false, "use an in-memory entry service")
	RootCmd.AddCommand(startCmd)
}
