// @title           Freelanza Auth API
// @version         1.0
// @description     Account registration, bearer tokens and role-based profiles for the Freelanza marketplace.
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in              header
// @name            Authorization
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/freelanza/freelanza-backend/internal/api"
	"github.com/freelanza/freelanza-backend/internal/core/ports"
	"github.com/freelanza/freelanza-backend/internal/core/service"
	"github.com/freelanza/freelanza-backend/internal/infrastructure/config"
	mongodb "github.com/freelanza/freelanza-backend/internal/infrastructure/db/mongo"
	redisdb "github.com/freelanza/freelanza-backend/internal/infrastructure/db/redis"
	httpserver "github.com/freelanza/freelanza-backend/internal/infrastructure/http"
	"github.com/freelanza/freelanza-backend/internal/infrastructure/http/handlers"
	"github.com/freelanza/freelanza-backend/internal/infrastructure/queue"
	"github.com/freelanza/freelanza-backend/pkg/logger"
)

const serviceName = "freelanza-auth"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		// The logger is not configured yet; fall back to defaults.
		log := logger.Init(logger.Options{Service: serviceName})
		log.Fatal().Err(err).Msg("load configuration")
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.LogPretty || cfg.IsDevelopment(),
		Service: serviceName,
		Env:     cfg.Env,
	})

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("service stopped")
	}
	log.Info().Msg("service stopped")
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	mongoClient, db, err := mongodb.Connect(ctx, mongodb.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		return err
	}
	defer func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			log.Warn().Err(err).Msg("mongo disconnect")
		}
	}()

	rdb, err := redisdb.Connect(ctx, redisdb.Config{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
	if err != nil {
		return err
	}
	defer func() {
		if err := rdb.Close(); err != nil {
			log.Warn().Err(err).Msg("redis close")
		}
	}()

	// --- Storage ---
	credentialStore := mongodb.NewCredentialRepository(db)
	clientStore := mongodb.NewClientRepository(db)
	freelancerStore := mongodb.NewFreelancerRepository(db)
	if err := mongodb.EnsureIndexes(ctx, credentialStore, clientStore, freelancerStore); err != nil {
		return err
	}
	credentials := redisdb.NewCachedCredentialRepository(credentialStore, rdb, cfg.Redis.CredentialCacheTTL, logger.Component("credential_cache"))

	// --- Core ---
	clients := service.NewClientService(clientStore, logger.Component("clients"))
	freelancers := service.NewFreelancerService(freelancerStore, logger.Component("freelancers"))
	provisioner := service.NewProvisioner(clients, freelancers, logger.Component("provisioner"))

	retries := queue.NewDispatcher(queue.Config{
		Workers:     cfg.Provisioning.RetryWorkers,
		MaxAttempts: cfg.Provisioning.RetryAttempts,
		Backoff:     cfg.Provisioning.RetryBackoff,
	}, provisioner, logger.Component("provisioning_retry"))
	workerCtx, stopWorkers := context.WithCancel(ctx)
	retries.Start(workerCtx)
	defer func() {
		stopWorkers()
		retries.Wait()
	}()
	provisioner.SetRetrier(retries)

	auth, err := newAuthService(cfg.Auth, credentialStore, credentials, provisioner, logger.Component("auth"))
	if err != nil {
		return err
	}

	// --- HTTP ---
	router := api.NewRouter(api.Dependencies{
		Auth:        auth,
		Clients:     clients,
		Freelancers: freelancers,
		Health: handlers.NewHealthHandler(map[string]handlers.Check{
			"mongodb": handlers.MongoCheck(db),
			"redis":   handlers.RedisCheck(rdb),
		}),
		Logger:             logger.Component("http"),
		LoginRatePerMinute: cfg.Auth.LoginRatePerMinute,
	})

	srv := httpserver.NewServer(httpserver.ServerConfig{
		Addr:            ":" + cfg.Port,
		ReadTimeout:     cfg.HTTP.ReadTimeout,
		WriteTimeout:    cfg.HTTP.WriteTimeout,
		IdleTimeout:     cfg.HTTP.IdleTimeout,
		ShutdownTimeout: cfg.HTTP.ShutdownTimeout,
	}, router, log)

	return srv.Run(ctx)
}

// newAuthService wires the auth facade. Registration, login and password
// changes read credentials through cached. Bearer-token account lookups read
// store directly so an account removed from the store stops resolving at once.
func newAuthService(cfg config.AuthConfig, store, cached ports.CredentialRepository, provisioner *service.Provisioner, log zerolog.Logger) (*service.AuthService, error) {
	tokens, err := service.NewTokenService(service.TokenConfig{
		Secret: cfg.JWTSecret,
		Issuer: cfg.JWTIssuer,
		TTL:    cfg.TokenTTL,
	}, store)
	if err != nil {
		return nil, err
	}
	hasher := service.NewBcryptHasher(cfg.BcryptCost)
	return service.NewAuthService(cached, hasher, tokens, provisioner, log), nil
}
