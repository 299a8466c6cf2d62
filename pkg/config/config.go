package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/github"
)

var (
	RepoPath   = "."
	ContentDir = "src/content"

	// Server settings
	ServerAddr    = ":8080"
	SessionSecret = ""

	// Cache settings
	CacheConcurrency = 20

	// Logging
	LogLevel       = "info"
	LogDevelopment = false
)

var OauthConf *oauth2.Config

func Init() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "Error loading .env file: %v\n", err)
	}

	// Helper to get env with default
	getEnv := func(key, fallback string) string {
		if v := os.Getenv(key); v != "" {
			return v
		}
		return fallback
	}

	RepoPath = getEnv("REPO_PATH", ".")
	ContentDir = getEnv("CONTENT_DIR", "src/content")

	ServerAddr = getEnv("SERVER_ADDR", ":8080")
	SessionSecret = getEnv("SESSION_SECRET", "")

	LogLevel = getEnv("LOG_LEVEL", "info")
	if v, err := strconv.ParseBool(os.Getenv("LOG_DEVELOPMENT")); err == nil {
		LogDevelopment = v
	}

	if cc := os.Getenv("CACHE_CONCURRENCY"); cc != "" {
		if val, err := strconv.Atoi(cc); err == nil && val > 0 {
			CacheConcurrency = val
		}
	}

	appURL := GetAppURL()
	OauthConf = &oauth2.Config{
		ClientID:     os.Getenv("GITHUB_CLIENT_ID"),
		ClientSecret: os.Getenv("GITHUB_CLIENT_SECRET"),
		Scopes:       []string{"read:user"},
		Endpoint:     github.Endpoint,
		RedirectURL:  getEnv("GITHUB_REDIRECT_URL", appURL+"/auth/callback"),
	}
}

// ContentRoot is the directory holding one subdirectory per collection.
func ContentRoot() string {
	if filepath.IsAbs(ContentDir) {
		return ContentDir
	}
	return filepath.Join(RepoPath, ContentDir)
}

// AuthEnabled reports whether the API sits behind GitHub login.
func AuthEnabled() bool {
	return OauthConf != nil && OauthConf.ClientID != ""
}

func GetAppURL() string {
	appURL := os.Getenv("APP_URL")
	if appURL == "" {
		appURL = "http://localhost:8080"
	}
	return appURL
}
