package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"

	"github.com/githunt/githunt/client"
	"github.com/githunt/githunt/internal/config"
	"github.com/githunt/githunt/internal/infra/database"
	"github.com/githunt/githunt/internal/infra/repository"
	"github.com/githunt/githunt/internal/infra/session"
	"github.com/githunt/githunt/internal/infra/telemetry"
	"github.com/githunt/githunt/internal/present/graph"
	"github.com/githunt/githunt/internal/present/rest"
	restmiddleware "github.com/githunt/githunt/internal/present/rest/middleware"
	"github.com/githunt/githunt/internal/service"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	configPath := os.Getenv("GITHUNT_CONFIG")
	if configPath == "" {
		configPath = "config.yaml"
	}

	conf, err := config.Load(configPath)
	if err != nil {
		logger.Error("failed to load config", slog.String("path", configPath), slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx := context.Background()

	if conf.Server.EnableTrace {
		shutdown, err := telemetry.SetupTraceProvider(ctx, conf.Server.TraceEndpoint, "githunt")
		if err != nil {
			logger.Error("failed to set up tracing", slog.String("error", err.Error()))
			os.Exit(1)
		}
		defer shutdown(ctx)
	}

	db, err := database.NewPostgres(conf.Server.PostgresDsn)
	if err != nil {
		panic("failed to connect database")
	}
	if err := database.MigratePostgres(db); err != nil {
		panic("failed to migrate database")
	}

	rdb := database.NewRedis(conf.Server.RedisAddr, "", conf.Server.RedisDB)

	var etags client.ETagCache
	if conf.Server.MemcachedAddr != "" {
		etags = database.NewMemcached(conf.Server.MemcachedAddr)
	}

	gh := client.New(conf.GitHub.APIBase, etags, logger)
	store := repository.NewEngagementRepository(db)

	sessionRepo := session.NewRepository(rdb)
	sessionService := service.NewSessionService(sessionRepo, logger)
	oauthService := service.NewOAuthService(
		conf.GitHub.ClientID,
		conf.GitHub.ClientSecret,
		conf.GitHub.CallbackURL,
		gh,
		sessionRepo,
	)

	schema, err := graph.NewSchema()
	if err != nil {
		panic("failed to build graphql schema: " + err.Error())
	}

	graphHandler := graph.NewHandler(schema, conf.Server.QueryLimit, logger)
	sessionMiddleware := restmiddleware.NewSessionMiddleware(sessionService, gh, store)
	handler := rest.NewHandler(oauthService, sessionService, graphHandler)

	e := echo.New()
	e.Use(echomiddleware.Logger())
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORS())
	if conf.Server.EnableTrace {
		e.Use(otelecho.Middleware("githunt"))
	}

	handler.RegisterRoutes(e, sessionMiddleware)

	e.Logger.Fatal(e.Start(conf.Server.ListenAddr))
}
