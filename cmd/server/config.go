package main

import (
	"fmt"
	"os"

	"github.com/jessevdk/go-flags"
)

// Config holds all configuration options
type Config struct {
	// Server config
	Port    string `long:"port" env:"PORT" default:"8080" description:"Server port"`
	SiteURL string `long:"site-url" env:"SITE_URL" default:"http://localhost:8080" description:"Public base URL; must exactly match the redirect URIs registered with the providers"`

	// Provider credentials
	Google struct {
		ClientID     string `long:"google-client-id" env:"GOOGLE_CLIENT_ID" description:"Google OAuth client ID"`
		ClientSecret string `long:"google-client-secret" env:"GOOGLE_CLIENT_SECRET" description:"Google OAuth client secret"`
	} `group:"Google OAuth Options"`

	GitHub struct {
		ClientID     string `long:"github-client-id" env:"GITHUB_CLIENT_ID" description:"GitHub OAuth client ID"`
		ClientSecret string `long:"github-client-secret" env:"GITHUB_CLIENT_SECRET" description:"GitHub OAuth client secret"`
	} `group:"GitHub OAuth Options"`

	ProvidersFile string `long:"providers-file" env:"PROVIDERS_FILE" description:"Optional YAML file overriding provider endpoints and scopes"`

	// Storage config
	StoreMode   string `long:"store-mode" env:"STORE_MODE" default:"sqlite" choice:"sqlite" choice:"s3" description:"User/contact storage backend"`
	SessionMode string `long:"session-mode" env:"SESSION_MODE" default:"memory" choice:"memory" choice:"redis" description:"Session storage backend"`

	// SQLite storage
	SQLitePath string `long:"sqlite-path" env:"SQLITE_PATH" default:"./data/siteauth.db" description:"SQLite database path"`

	// S3 storage
	S3 struct {
		Endpoint  string `long:"s3-endpoint" env:"S3_ENDPOINT" default:"localhost:9000" description:"S3 endpoint (host:port)"`
		Bucket    string `long:"s3-bucket" env:"S3_BUCKET" default:"qots-site" description:"S3 bucket name"`
		AccessKey string `long:"s3-access-key" env:"S3_ACCESS_KEY" default:"minioadmin" description:"S3 access key"`
		SecretKey string `long:"s3-secret-key" env:"S3_SECRET_KEY" default:"minioadmin" description:"S3 secret key"`
		UseSSL    bool   `long:"s3-use-ssl" env:"S3_USE_SSL" description:"Use SSL for S3 connections"`
	} `group:"S3 Storage Options"`

	// Redis config
	Redis struct {
		Addr     string `long:"redis-addr" env:"REDIS_ADDR" default:"localhost:6379" description:"Redis address"`
		Password string `long:"redis-password" env:"REDIS_PASSWORD" description:"Redis password"`
		DB       int    `long:"redis-db" env:"REDIS_DB" default:"0" description:"Redis database number"`
	} `group:"Redis Options"`
}

// LoadConfig parses configuration from environment variables and command line flags
func LoadConfig() (*Config, error) {
	var config Config

	parser := flags.NewParser(&config, flags.Default)
	parser.Usage = "[OPTIONS]"

	if _, err := parser.Parse(); err != nil {
		if flags.WroteHelp(err) {
			os.Exit(0)
		}
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return &config, nil
}
