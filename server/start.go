package server

import (
	"context"
	"net/http"
	"os"
	"strings"

	"heroes-service/auth"
	cachepackage "heroes-service/cache"
	"heroes-service/config"
	"heroes-service/database"
	"heroes-service/handlers"
	"heroes-service/repository"

	"github.com/umakantv/go-utils/httpserver"
	"github.com/umakantv/go-utils/logger"
	"go.uber.org/zap"
)

// newBearerCheck builds the authentication hook for routes registered
// with AuthType "bearer". It verifies the HS256 token and exposes the
// subject to handlers through the request auth claims.
func newBearerCheck(tokens *auth.TokenIssuer) func(r *http.Request) (bool, httpserver.RequestAuth) {
	return func(r *http.Request) (bool, httpserver.RequestAuth) {
		header := r.Header.Get("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			return false, httpserver.RequestAuth{}
		}

		subject, err := tokens.Verify(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			return false, httpserver.RequestAuth{}
		}

		return true, httpserver.RequestAuth{
			Type:   "bearer",
			Client: subject,
			Claims: map[string]interface{}{"sub": subject},
		}
	}
}

func StartServer() {
	// Initialize logger
	logger.Init(logger.LoggerConfig{
		CallerKey:  "file",
		TimeKey:    "timestamp",
		CallerSkip: 1,
	})

	logger.Info("Starting Heroes Service...")

	// Load configuration; a missing secret key is fatal here, before any
	// request is served.
	cfg := config.Load()
	if cfg.SecretKey == "" {
		logger.Error("SECRET_KEY is not set")
		os.Exit(1)
	}

	// Initialize database
	dbConn := database.InitializeDatabase(cfg)
	defer dbConn.Close()

	// Initialize cache
	cache := cachepackage.InitializeCache(cfg.RedisAddr)
	defer cache.Close()

	// Token issuer for login and the bearer check
	tokens := auth.NewTokenIssuer(cfg.SecretKey, cfg.TokenTTL)

	// Repositories
	characterRepo := repository.NewCharacterRepo(dbConn)
	powerRepo := repository.NewPowerRepo(dbConn)
	characterPowerRepo := repository.NewCharacterPowerRepo(dbConn)
	userRepo := repository.NewUserRepo(dbConn)

	// Handlers
	characterHandler := handlers.NewCharacterHandler(characterRepo, cache)
	powerHandler := handlers.NewPowerHandler(powerRepo, cache)
	characterPowerHandler := handlers.NewCharacterPowerHandler(characterPowerRepo, cache)
	authHandler := handlers.NewAuthHandler(userRepo, tokens)

	// Create HTTP server with bearer authentication hook
	server := httpserver.New(cfg.Port, newBearerCheck(tokens))

	// Register routes
	server.Register(httpserver.Route{
		Name:     "Welcome",
		Method:   "GET",
		Path:     "/",
		AuthType: "none",
	}, httpserver.HandlerFunc(func(ctx context.Context, w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"message": "Welcome to Heroes and Villains API!"}`))
	}))

	server.Register(httpserver.Route{
		Name:     "HealthCheck",
		Method:   "GET",
		Path:     "/health",
		AuthType: "none",
	}, httpserver.HandlerFunc(func(ctx context.Context, w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "healthy", "service": "heroes-service"}`))
	}))

	// Characters
	server.Register(httpserver.Route{
		Name:     "CreateCharacter",
		Method:   "POST",
		Path:     "/characters",
		AuthType: "none",
	}, httpserver.HandlerFunc(characterHandler.CreateCharacter))

	server.Register(httpserver.Route{
		Name:     "ListCharacters",
		Method:   "GET",
		Path:     "/characters",
		AuthType: "none",
	}, httpserver.HandlerFunc(characterHandler.GetCharacters))

	server.Register(httpserver.Route{
		Name:     "ListCharactersByType",
		Method:   "GET",
		Path:     "/characters/type/{character_type}",
		AuthType: "none",
	}, httpserver.HandlerFunc(characterHandler.GetCharactersByType))

	server.Register(httpserver.Route{
		Name:     "GetCharacter",
		Method:   "GET",
		Path:     "/characters/{id}",
		AuthType: "none",
	}, httpserver.HandlerFunc(characterHandler.GetCharacter))

	server.Register(httpserver.Route{
		Name:     "UpdateCharacter",
		Method:   "PATCH",
		Path:     "/characters/{id}",
		AuthType: "none",
	}, httpserver.HandlerFunc(characterHandler.UpdateCharacter))

	server.Register(httpserver.Route{
		Name:     "DeleteCharacter",
		Method:   "DELETE",
		Path:     "/characters/{id}",
		AuthType: "none",
	}, httpserver.HandlerFunc(characterHandler.DeleteCharacter))

	// Powers; create and delete require a valid bearer token
	server.Register(httpserver.Route{
		Name:     "CreatePower",
		Method:   "POST",
		Path:     "/powers",
		AuthType: "bearer",
	}, httpserver.HandlerFunc(powerHandler.CreatePower))

	server.Register(httpserver.Route{
		Name:     "ListPowers",
		Method:   "GET",
		Path:     "/powers",
		AuthType: "none",
	}, httpserver.HandlerFunc(powerHandler.GetPowers))

	server.Register(httpserver.Route{
		Name:     "GetPower",
		Method:   "GET",
		Path:     "/powers/{id}",
		AuthType: "none",
	}, httpserver.HandlerFunc(powerHandler.GetPower))

	server.Register(httpserver.Route{
		Name:     "UpdatePower",
		Method:   "PATCH",
		Path:     "/powers/{id}",
		AuthType: "none",
	}, httpserver.HandlerFunc(powerHandler.UpdatePower))

	server.Register(httpserver.Route{
		Name:     "DeletePower",
		Method:   "DELETE",
		Path:     "/powers/{id}",
		AuthType: "bearer",
	}, httpserver.HandlerFunc(powerHandler.DeletePower))

	// Character power associations
	server.Register(httpserver.Route{
		Name:     "AssignPower",
		Method:   "POST",
		Path:     "/characters/{character_id}/powers/{power_id}",
		AuthType: "none",
	}, httpserver.HandlerFunc(characterPowerHandler.AssignPower))

	server.Register(httpserver.Route{
		Name:     "ListCharacterPowers",
		Method:   "GET",
		Path:     "/characters/{character_id}/powers",
		AuthType: "none",
	}, httpserver.HandlerFunc(characterPowerHandler.GetCharacterPowers))

	server.Register(httpserver.Route{
		Name:     "UnassignPower",
		Method:   "DELETE",
		Path:     "/characters/{character_id}/powers/{power_id}",
		AuthType: "none",
	}, httpserver.HandlerFunc(characterPowerHandler.UnassignPower))

	// Login and admin
	server.Register(httpserver.Route{
		Name:     "Login",
		Method:   "POST",
		Path:     "/login",
		AuthType: "none",
	}, httpserver.HandlerFunc(authHandler.Login))

	server.Register(httpserver.Route{
		Name:     "CreateUser",
		Method:   "POST",
		Path:     "/admin",
		AuthType: "none",
	}, httpserver.HandlerFunc(authHandler.CreateUser))

	logger.Info("Heroes Service started on port " + cfg.Port)
	logger.Info("Health check: GET /health")
	logger.Info("API endpoints: /characters /powers /login /admin")

	// Start server
	if err := server.Start(); err != nil {
		logger.Error("Server failed to start", zap.Error(err))
		os.Exit(1)
	}
}
