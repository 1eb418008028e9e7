package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"bug-bounty-system/config"
	"bug-bounty-system/handlers"
	"bug-bounty-system/middleware"
	"bug-bounty-system/services"
	"bug-bounty-system/store"
	"bug-bounty-system/workers"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("invalid configuration: ", err)
	}

	var st store.Store
	switch cfg.StoreDriver {
	case config.DriverMemory:
		log.Println("⚠️  STORE_DRIVER=memory, data is lost on restart")
		st = store.NewMemoryStore()
	default:
		pg, err := store.OpenPostgres(cfg.DatabaseURL)
		if err != nil {
			log.Fatal(err)
		}
		st = pg
	}

	bugService := services.NewBugService(st)
	submissionService := services.NewSubmissionService(st)
	approvalService := services.NewApprovalService(st)
	userService := services.NewUserService(st)

	app := fiber.New(fiber.Config{
		BodyLimit:    cfg.BodyLimitMB * 1024 * 1024,
		ErrorHandler: handlers.ErrorHandler,
		Immutable:    true, // ids from headers and params are stored past the request
	})

	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     strings.Join(cfg.AllowedOrigins, ","),
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS,PATCH,HEAD",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Requested-With, X-Request-ID, X-User-ID, X-User-Name, X-User-Email",
		ExposeHeaders:    "Content-Length, Content-Type, X-Request-ID",
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	// 🔐 Behind the gateway every request carries the service token and the caller's identity
	// headers; standalone, callers present their own bearer token.
	var auth fiber.Handler
	if cfg.ServiceToken != "" {
		app.Use(middleware.GatewayAuthMiddleware(cfg.ServiceToken))
		auth = middleware.UserContextMiddleware(userService)
		log.Println("✅ Gateway mode: GatewayAuthMiddleware enforced globally")
	} else {
		auth = middleware.BearerAuthMiddleware(services.NewAuthServiceClient(cfg.AuthServiceURL, ""), userService)
		log.Printf("✅ Standalone mode: bearer tokens validated by %s", cfg.AuthServiceURL)
	}

	handlers.SetupRoutes(app, &handlers.Handler{
		Bugs:        bugService,
		Submissions: submissionService,
		Approvals:   approvalService,
		Users:       userService,
		Timeout:     cfg.RequestTimeout,
	}, auth)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.AuditInterval > 0 {
		sched, err := services.NewIntegrityAuditor(st).StartAuditScheduler(cfg.AuditInterval)
		if err != nil {
			log.Fatal("failed to start audit scheduler: ", err)
		}
		defer func() {
			if err := sched.Shutdown(); err != nil {
				log.Printf("audit scheduler shutdown: %v", err)
			}
		}()
		log.Printf("✅ Integrity audit running (every %s)", cfg.AuditInterval)
	}

	if cfg.SyncServiceURL != "" {
		syncWorker := workers.NewUserSyncWorker(st, cfg.SyncServiceURL, "/api/v1/public/profiles", cfg.ServiceToken, cfg.SyncInterval)
		syncWorker.Start(ctx)
	}

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Printf("Server error: %v", err)
			stop()
		}
	}()

	log.Printf("✅ Server running on http://localhost:%s", cfg.Port)
	log.Printf("✅ CORS configured for origins: %s", strings.Join(cfg.AllowedOrigins, ","))

	<-ctx.Done()
	log.Println("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}
}
