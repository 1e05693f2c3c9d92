package config

import (
	"time"

	"github.com/spf13/viper"
)

type (
	Config struct {
		HTTP
		Backend
		BooksAPI
		Catalog
		Sessions
		Database
		Global
	}

	// HTTP is the listener of the catalog UI.
	HTTP struct {
		Port int32
		Host string
	}
	// Backend is the listener of the REST book service.
	Backend struct {
		Port          int32
		Host          string
		Seed          bool   // Seed a sample catalog when the database is empty
		ResetSchedule string // Cron format; empty disables resets
	}
	BooksAPI struct {
		URL     string
		Timeout time.Duration
	}
	Catalog struct {
		PageSize           int
		RemoteWriteTimeout time.Duration // Bound on background create/update/delete calls
	}
	Sessions struct {
		DBPath        string
		Lifetime      time.Duration
		Secret        string // CSRF secret; generated if empty
		SecureCookies bool   // Set to false for local dev without HTTPS
	}
	Database struct {
		Path string
	}
	Global struct {
		ShutdownTimeoutInSeconds int
	}
)

func NewConfig() *Config {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("port", 8080)
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("shutdown_timeout_in_seconds", 5)

	v.SetDefault("backend_port", 3001)
	v.SetDefault("backend_host", "0.0.0.0")
	v.SetDefault("backend_seed", true)
	v.SetDefault("backend_reset_schedule", "")
	v.SetDefault("database_path", DefaultDatabasePath)

	v.SetDefault("books_api_url", "http://localhost:3001")
	v.SetDefault("books_api_timeout", "10s")

	v.SetDefault("page_size", 5)
	v.SetDefault("remote_write_timeout", "10s")

	v.SetDefault("session_db_path", DefaultSessionDBPath)
	v.SetDefault("session_lifetime", "24h")
	v.SetDefault("session_secret", "")
	v.SetDefault("secure_cookies", false)

	return &Config{
		HTTP: HTTP{
			Port: v.GetInt32("PORT"),
			Host: v.GetString("HOST"),
		},
		Backend: Backend{
			Port:          v.GetInt32("BACKEND_PORT"),
			Host:          v.GetString("BACKEND_HOST"),
			Seed:          v.GetBool("BACKEND_SEED"),
			ResetSchedule: v.GetString("BACKEND_RESET_SCHEDULE"),
		},
		BooksAPI: BooksAPI{
			URL:     v.GetString("BOOKS_API_URL"),
			Timeout: v.GetDuration("BOOKS_API_TIMEOUT"),
		},
		Catalog: Catalog{
			PageSize:           v.GetInt("PAGE_SIZE"),
			RemoteWriteTimeout: v.GetDuration("REMOTE_WRITE_TIMEOUT"),
		},
		Sessions: Sessions{
			DBPath:        v.GetString("SESSION_DB_PATH"),
			Lifetime:      v.GetDuration("SESSION_LIFETIME"),
			Secret:        v.GetString("SESSION_SECRET"),
			SecureCookies: v.GetBool("SECURE_COOKIES"),
		},
		Database: Database{
			Path: v.GetString("DATABASE_PATH"),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
		},
	}
}
