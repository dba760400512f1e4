package main

import (
	"context"
	"database/sql"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-print"
	accounts "github.com/teamforge/go-accounts"
	"github.com/teamforge/go-accounts/middleware/gate"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := accounts.LoadConfig()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	log.Printf("starting with config:\n%s", print.MaybePrettyJSON(cfg))

	sqldb, err := sql.Open(sqliteshim.ShimName, cfg.DatabaseDSN)
	if err != nil {
		log.Fatalf("database open: %v", err)
	}

	db := bun.NewDB(sqldb, sqlitedialect.New())
	defer db.Close()

	if err := accounts.CreateSchema(ctx, db); err != nil {
		log.Fatalf("schema: %v", err)
	}

	repo := accounts.NewRepositoryManager(db)
	repo.MustValidate()

	tokens := accounts.NewTokenService([]byte(cfg.SecretKey), cfg.JWTAlgorithm, nil)
	issuer := accounts.NewTokenIssuer(tokens, cfg.AccessTTL(), cfg.RefreshTTL())

	renderer, err := accounts.NewTemplateRenderer(cfg.TemplatesDir)
	if err != nil {
		log.Fatalf("templates: %v", err)
	}

	mailer := accounts.NewSMTPMailer(cfg.EmailHost, cfg.EmailPort, cfg.EmailUser, cfg.EmailPassword)
	registry := accounts.NewFNSClient(cfg.RegistryAPIKey)

	auther := accounts.NewAuthenticator(repo.Users(), tokens, issuer).
		WithVerifiedEmailPolicy(cfg.RequireVerifiedEmail)

	verify := accounts.NewVerificationRequestHandler(tokens, mailer, renderer, cfg.ServiceURL).
		WithTTL(cfg.VerifyTTL())

	register := accounts.NewRegisterUserHandler(repo).
		WithCompanyRegistry(registry).
		WithVerification(verify)

	initiate := accounts.NewInitializePasswordResetHandler(repo.Users(), repo.SecureCodes(), mailer, renderer)
	finalize := accounts.NewFinalizePasswordResetHandler(repo.Users(), repo.SecureCodes())

	if err := os.MkdirAll(cfg.UploadsDir, 0o755); err != nil {
		log.Fatalf("uploads dir: %v", err)
	}

	app := fiber.New(fiber.Config{
		AppName: "go-accounts",
	})

	app.Use(gate.New(gate.Config{
		Decoder:    tokens,
		AuthScheme: cfg.TokenType,
		ContextKey: cfg.AuthContextKey,
		Protected: []string{
			"/api/v1/users/me/",
			"/api/v1/media/me/avatar/",
			"/api/v1/users/get_projects/",
			"/api/v1/projects/*",
		},
	}))

	authCtrl := accounts.NewAuthController(auther, register, initiate, finalize).
		WithCompanyRegistry(registry)
	usersCtrl := accounts.NewUsersController(repo.Users(), repo.Projects(), cfg.ServiceURL, cfg.UploadsDir)
	projectsCtrl := accounts.NewProjectsController(repo.Projects())

	api := app.Group("/api/v1")
	authCtrl.Routes(api.Group("/users"))
	usersCtrl.Routes(api.Group("/users"))
	usersCtrl.MediaRoutes(api.Group("/media"))
	projectsCtrl.Routes(api.Group("/projects"))

	app.Static("/uploads", cfg.UploadsDir)

	go func() {
		if err := app.Listen(cfg.Addr()); err != nil {
			log.Printf("server stopped: %v", err)
			stop()
		}
	}()

	<-ctx.Done()
	log.Println("shutting down")

	if err := app.Shutdown(); err != nil {
		log.Printf("shutdown error: %v", err)
	}
}
