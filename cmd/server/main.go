package main // main bootstraps the API server

import (
	"context"
	"log"

	"github.com/labstack/echo/v4"           // Echo web framework
	echomw "github.com/labstack/echo/v4/middleware" // built-in middleware (logger, recover)

	"github.com/taskhive/taskhive/internal/authz"
	"github.com/taskhive/taskhive/internal/config"
	"github.com/taskhive/taskhive/internal/database"
	"github.com/taskhive/taskhive/internal/email"
	"github.com/taskhive/taskhive/internal/handler"
	"github.com/taskhive/taskhive/internal/middleware"
	"github.com/taskhive/taskhive/internal/queue"
	"github.com/taskhive/taskhive/internal/repository"
	"github.com/taskhive/taskhive/internal/router"
	"github.com/taskhive/taskhive/internal/storage"
	"github.com/taskhive/taskhive/internal/utils"
)

func main() {
	cfg := config.Load() // read .env / environment; exits on missing required vars

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Repositories own all SQL.
	users := repository.NewUserRepo(db)
	roles := repository.NewRoleRepo(db)
	projects := repository.NewProjectRepo(db)
	tasks := repository.NewTaskRepo(db)

	// Seed the role catalog on first boot when asked to.
	if cfg.SeedRoles {
		if err := roles.Seed(context.Background(), authz.AllRoles()); err != nil {
			log.Fatalf("seed roles: %v", err)
		}
		log.Println("role catalog seeded")
	}

	// The authorization pipeline: token verification, the static
	// role→permission matrix, and the ownership resolver over the
	// project and task stores.
	resolver := authz.NewResolver(projects, tasks)
	pipeline := authz.NewPipeline(utils.AccessSecret(cfg.JWTSecret), resolver)

	// Optional S3 uploader for profile pictures; nil when unconfigured.
	uploader, err := storage.NewClient(cfg)
	if err != nil {
		log.Fatalf("s3: %v", err)
	}

	// Welcome emails ride the message broker so a mail outage never
	// slows registration down.
	mailer := email.NewMailer(cfg.MailAPIURL, cfg.MailAPIKey, cfg.MailFrom, cfg.AppName)
	go func() {
		if err := queue.StartWelcomeConsumer(mailer); err != nil {
			log.Printf("welcome consumer stopped: %v", err)
		}
	}()

	h := router.Handlers{
		Auth:     &handler.AuthHandler{Cfg: cfg, Users: users},
		Users:    &handler.UserHandler{Users: users, Uploader: uploader},
		Projects: &handler.ProjectHandler{Projects: projects},
		Tasks:    &handler.TaskHandler{Tasks: tasks, Projects: projects},
		Roles:    &handler.RoleHandler{Roles: roles},
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	if cfg.Env != "production" {
		e.Use(echomw.Logger())
	}

	// Redis-backed token bucket on the credential endpoints.  When Redis
	// is unreachable the limiter falls open and requests pass.
	rlCfg := config.LoadRateLimitConfig()
	limiter := middleware.NewTokenBucket(rlCfg, config.NewRedisClient())

	router.RegisterRoutes(e)
	router.RegisterAPI(e, h, pipeline, limiter)

	log.Printf("%s listening on :%s", cfg.AppName, cfg.Port)
	if err := e.Start(":" + cfg.Port); err != nil {
		log.Fatalf("server: %v", err)
	}
}
