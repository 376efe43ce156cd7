package main // Entry point package

import (
	"log"  // Logging library
	"time" // Session TTL arithmetic

	"github.com/joho/godotenv"    // .env loader for local development
	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/iliyamo/access-control/internal/auth"       // Authentication and authorization engine
	"github.com/iliyamo/access-control/internal/config"     // Internal config loader
	"github.com/iliyamo/access-control/internal/database"   // MySQL connection pool
	"github.com/iliyamo/access-control/internal/handler"    // HTTP handlers
	"github.com/iliyamo/access-control/internal/middleware" // Rate limiting middleware
	"github.com/iliyamo/access-control/internal/queue"      // RabbitMQ consumer
	"github.com/iliyamo/access-control/internal/repository" // MySQL repositories
	"github.com/iliyamo/access-control/internal/router"     // Internal router setup
	queuepub "github.com/iliyamo/access-control/internal/service"
)

func main() {
	// Load .env if present; real deployments set the variables
	// directly and the file is absent.
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded: %v", err)
	}

	cfg := config.Load() // Load environment config

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Redis backs login rate limiting and the permission-decision
	// cache. Both degrade to pass-through when it is unreachable.
	rdb := config.NewRedisClient()

	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	roles := repository.NewRoleRepo(db)
	resources := repository.NewResourceRepo(db)
	perms := repository.NewPermissionRepo(db)

	sessions := auth.NewSessions(tokens, users)
	authenticator := auth.NewAuthenticator(sessions)

	evaluator := auth.NewEvaluator(resources, roles, perms)
	if pc := config.LoadPermCacheConfig(); pc.Enabled && rdb != nil {
		evaluator.EnableCache(rdb, pc.TTL, pc.Prefix)
	}

	svc := auth.NewService(users, sessions, time.Duration(cfg.SessionTTLDays)*24*time.Hour, cfg.BcryptCost)
	svc.SetPublisher(queuepub.PublishSessionsRevoked)

	// Consume session revocation events in the background. The
	// consumer reconnects on its own; a startup failure only means
	// the broker is not up yet.
	go func() {
		if err := queue.StartSessionConsumer(); err != nil {
			log.Printf("session consumer: %v", err)
		}
	}()

	e := echo.New() // Create Echo instance
	router.RegisterRoutes(e, router.Deps{
		Auth:          handler.NewAuthHandler(svc),
		Admin:         handler.NewAdminHandler(users, roles, resources, perms),
		Projects:      handler.NewProjectHandler(),
		Tasks:         handler.NewTaskHandler(),
		Authenticator: authenticator,
		Evaluator:     evaluator,
		LoginLimit:    middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb),
	})

	addr := ":" + cfg.Port                                // Address string with port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env) // Print startup info

	if err := e.Start(addr); err != nil { // Start HTTP server
		log.Fatal(err) // Log and exit if server fails
	}
}
