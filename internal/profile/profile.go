// Package profile holds the runtime configuration assembled from flags
// and TROLYAI_* environment variables.
package profile

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/pkg/errors"
)

// Profile is the configuration to start main server.
type Profile struct {
	// Mode can be "prod" or "dev"
	Mode string
	// Addr is the binding address for server
	Addr string
	// Port is the binding port for server
	Port int
	// Data is the data directory
	Data string
	// DSN points to the conversation database
	DSN string
	// Driver is the database driver (sqlite)
	Driver string
	// Version is the current version of server
	Version string

	// LLM configuration
	LLMProvider string // TROLYAI_LLM_PROVIDER (default: openai)
	LLMAPIKey   string // TROLYAI_LLM_API_KEY
	LLMBaseURL  string // TROLYAI_LLM_BASE_URL (provider default when empty)
	LLMModel    string // TROLYAI_LLM_MODEL (provider default when empty)

	// Google Calendar configuration
	GoogleCredentials string // TROLYAI_GOOGLE_CREDENTIALS (default: credentials.json in data dir)
	GoogleToken       string // TROLYAI_GOOGLE_TOKEN (default: token.json in data dir)
}

func (p *Profile) IsDev() bool {
	return p.Mode != "prod"
}

// getEnvOrDefault returns the environment variable value or the default value.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// FromEnv loads configuration from TROLYAI_* environment variables.
// Values already set from flags win over the environment.
func (p *Profile) FromEnv() {
	p.LLMProvider = getEnvOrDefault("TROLYAI_LLM_PROVIDER", "openai")
	p.LLMAPIKey = os.Getenv("TROLYAI_LLM_API_KEY")
	p.LLMBaseURL = os.Getenv("TROLYAI_LLM_BASE_URL")
	p.LLMModel = os.Getenv("TROLYAI_LLM_MODEL")

	p.GoogleCredentials = os.Getenv("TROLYAI_GOOGLE_CREDENTIALS")
	p.GoogleToken = os.Getenv("TROLYAI_GOOGLE_TOKEN")
}

func checkDataDir(dataDir string) (string, error) {
	// Convert to absolute path if relative path is supplied.
	if !filepath.IsAbs(dataDir) {
		relativeDir := filepath.Join(filepath.Dir(os.Args[0]), dataDir)
		absDir, err := filepath.Abs(relativeDir)
		if err != nil {
			return "", err
		}
		dataDir = absDir
	}

	// Trim trailing \ or / in case user supplies
	dataDir = strings.TrimRight(dataDir, "\\/")
	if _, err := os.Stat(dataDir); err != nil {
		return "", errors.Wrapf(err, "unable to access data folder %s", dataDir)
	}
	return dataDir, nil
}

func (p *Profile) Validate() error {
	if p.Mode != "dev" && p.Mode != "prod" {
		p.Mode = "dev"
	}

	if p.Mode == "prod" && p.Data == "" {
		if runtime.GOOS == "windows" {
			p.Data = filepath.Join(os.Getenv("ProgramData"), "trolyai")
			if _, err := os.Stat(p.Data); os.IsNotExist(err) {
				if err := os.MkdirAll(p.Data, 0770); err != nil {
					slog.Error("failed to create data directory", slog.String("data", p.Data), slog.String("error", err.Error()))
					return err
				}
			}
		} else {
			p.Data = "/var/opt/trolyai"
		}
	}

	dataDir, err := checkDataDir(p.Data)
	if err != nil {
		slog.Error("failed to check data dir", slog.String("data", dataDir), slog.String("error", err.Error()))
		return err
	}
	p.Data = dataDir

	if p.Driver == "" {
		p.Driver = "sqlite"
	}
	if p.Driver == "sqlite" && p.DSN == "" {
		dbFile := fmt.Sprintf("trolyai_%s.db", p.Mode)
		p.DSN = filepath.Join(dataDir, dbFile)
	}

	if p.GoogleCredentials == "" {
		p.GoogleCredentials = filepath.Join(dataDir, "credentials.json")
	}
	if p.GoogleToken == "" {
		p.GoogleToken = filepath.Join(dataDir, "token.json")
	}

	return nil
}
