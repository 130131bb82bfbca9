package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/q-ots/siteauth/internal/api"
	"github.com/q-ots/siteauth/internal/oauth"
	"github.com/q-ots/siteauth/internal/providers"
	"github.com/q-ots/siteauth/internal/storage"
	"github.com/redis/go-redis/v9"
)

func main() {
	// Setup structured logging
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := LoadConfig()
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	// Setup user/contact storage
	var userStore storage.UserStore
	var contactStore storage.ContactStore
	switch cfg.StoreMode {
	case "s3":
		s3Store, err := storage.NewS3Store(cfg.S3.Endpoint, cfg.S3.AccessKey, cfg.S3.SecretKey, cfg.S3.Bucket, cfg.S3.UseSSL)
		if err != nil {
			slog.Error("Failed to create S3 store", "error", err)
			os.Exit(1)
		}
		userStore, contactStore = s3Store, s3Store
		slog.Info("Using S3 storage", "endpoint", cfg.S3.Endpoint, "bucket", cfg.S3.Bucket)
	case "sqlite":
		sqliteStore, err := storage.NewSQLiteStore(cfg.SQLitePath)
		if err != nil {
			slog.Error("Failed to create SQLite store", "error", err)
			os.Exit(1)
		}
		defer sqliteStore.Close()
		userStore, contactStore = sqliteStore, sqliteStore
		slog.Info("Using SQLite storage", "path", cfg.SQLitePath)
	default:
		slog.Error("Invalid STORE_MODE", "mode", cfg.StoreMode, "valid_modes", []string{"sqlite", "s3"})
		os.Exit(1)
	}

	// Setup session storage
	var sessionStore storage.SessionStore
	switch cfg.SessionMode {
	case "redis":
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})

		// Test Redis connection
		ctx := context.Background()
		if err := redisClient.Ping(ctx).Err(); err != nil {
			slog.Error("Failed to connect to Redis", "error", err)
			os.Exit(1)
		}

		sessionStore = storage.NewRedisStore(redisClient)
		slog.Info("Using Redis sessions", "addr", cfg.Redis.Addr)
	case "memory":
		sessionStore = storage.NewMemoryStore()
		slog.Warn("Using in-memory sessions (not persistent)")
	default:
		slog.Error("Invalid SESSION_MODE", "mode", cfg.SessionMode, "valid_modes", []string{"memory", "redis"})
		os.Exit(1)
	}

	// Setup identity providers
	provs, err := loadProviders(cfg)
	if err != nil {
		slog.Error("Failed to load providers", "error", err)
		os.Exit(1)
	}
	if len(provs) == 0 {
		slog.Warn("No OAuth providers configured; logins will fail until credentials are set")
	}

	// Setup services
	oauthService := oauth.NewService(cfg.SiteURL, sessionStore, userStore, provs...)
	apiServer := api.NewServer(sessionStore, contactStore)

	// Setup routes
	mux := http.NewServeMux()

	// Auth flow (the provider route is also the registered redirect URI)
	mux.HandleFunc("GET /api/auth/{provider}", oauthService.HandleAuth)
	mux.HandleFunc("GET /api/auth/me", apiServer.MeHandler)
	mux.HandleFunc("POST /api/auth/logout", apiServer.LogoutHandler)

	// Site API
	mux.HandleFunc("POST /api/contact", apiServer.ContactHandler)
	mux.HandleFunc("GET /health", apiServer.HealthHandler)

	// Apply middleware
	handler := api.LoggingMiddleware(api.CORSMiddleware(mux))

	// Create HTTP server
	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: handler,
	}

	fmt.Printf("Q-OTS site auth service starting on http://localhost:%s\n", cfg.Port)
	fmt.Println("Endpoints:")
	fmt.Println("  GET  /api/auth/{provider}    - Begin OAuth login / provider callback")
	fmt.Println("  GET  /api/auth/me            - Session introspection")
	fmt.Println("  POST /api/auth/logout        - Logout")
	fmt.Println("  POST /api/contact            - Contact form")
	fmt.Println("  GET  /health                 - Health check")
	fmt.Println()
	for _, p := range provs {
		fmt.Printf("Provider configured: %s (redirect URI %s/api/auth/%s)\n", p.Name(), cfg.SiteURL, p.Name())
	}

	if err := server.ListenAndServe(); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}

// loadProviders builds the descriptor table from credentials, applying
// endpoint overrides from the optional providers file.
func loadProviders(cfg *Config) ([]providers.Provider, error) {
	overrides := map[string]providers.Override{}
	if cfg.ProvidersFile != "" {
		loaded, err := providers.LoadOverrides(cfg.ProvidersFile)
		if err != nil {
			return nil, err
		}
		overrides = loaded
	}

	var provs []providers.Provider

	if cfg.Google.ClientID != "" && cfg.Google.ClientSecret != "" {
		google := providers.NewGoogle(cfg.Google.ClientID, cfg.Google.ClientSecret)
		if o, ok := overrides["google"]; ok {
			google.Apply(o)
		}
		provs = append(provs, google)
	}

	if cfg.GitHub.ClientID != "" && cfg.GitHub.ClientSecret != "" {
		github := providers.NewGitHub(cfg.GitHub.ClientID, cfg.GitHub.ClientSecret)
		if o, ok := overrides["github"]; ok {
			github.Apply(o)
		}
		provs = append(provs, github)
	}

	return provs, nil
}
