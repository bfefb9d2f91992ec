package profile

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// Profile is configuration to start main server.
type Profile struct {
	// LLM configuration (OpenAI-compatible protocol). All providers
	// (openai, deepseek, openrouter, ollama) share the same fields.
	AIProvider string // Provider identifier: openai, deepseek, openrouter, ollama
	AIAPIKey   string // LLM API key; empty disables the recommendation engine
	AIBaseURL  string // LLM base URL (optional, has default per provider)
	AIModel    string // Model name: gpt-4o-mini, deepseek-chat, etc.
	AITimeout  int    // LLM request timeout in seconds (default: 30)

	// Digest configuration. The Telegram token enables the daily digest
	// plugin; per-user chat IDs and hours live in user settings.
	TelegramBotToken string
	DigestTimezone   string // IANA zone for digest scheduling (default: UTC)

	// JWTSecret verifies bearer tokens minted by the account backend.
	// Empty secret runs the server in single-user mode.
	JWTSecret string

	// PremiumOpen lifts the premium gate on advanced analytics. Meant for
	// self-hosted deployments without a billing backend.
	PremiumOpen bool

	Mode        string
	Addr        string
	UNIXSock    string
	Data        string
	Driver      string
	DSN         string
	InstanceURL string
	Version     string
	Port        int
}

// Provider default configurations for the LLM client.
// Used when MOODTRACKER_AI_BASE_URL is not explicitly set.
var llmProviderDefaults = map[string]struct {
	BaseURL string
	Model   string
}{
	"openai": {
		BaseURL: "https://api.openai.com/v1",
		Model:   "gpt-4o-mini",
	},
	"deepseek": {
		BaseURL: "https://api.deepseek.com",
		Model:   "deepseek-chat",
	},
	"openrouter": {
		BaseURL: "https://openrouter.ai/api/v1",
		Model:   "deepseek/deepseek-chat",
	},
	"ollama": {
		BaseURL: "http://localhost:11434",
		Model:   "llama3.1",
	},
}

func (p *Profile) IsDev() bool {
	return p.Mode != "prod"
}

// IsAIEnabled returns true if an LLM API key is configured.
func (p *Profile) IsAIEnabled() bool {
	return p.AIAPIKey != ""
}

// IsDigestEnabled returns true if the Telegram bot token is configured.
func (p *Profile) IsDigestEnabled() bool {
	return p.TelegramBotToken != ""
}

// getEnvOrDefault returns environment variable value or default value.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvOrDefaultInt returns environment variable value as int or default value.
func getEnvOrDefaultInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

// FromEnv loads configuration from environment variables.
func (p *Profile) FromEnv() {
	p.AIProvider = getEnvOrDefault("MOODTRACKER_AI_PROVIDER", "openai")
	p.AIAPIKey = getEnvOrDefault("MOODTRACKER_AI_API_KEY", "")
	p.AIBaseURL = getEnvOrDefault("MOODTRACKER_AI_BASE_URL", "")
	p.AIModel = getEnvOrDefault("MOODTRACKER_AI_MODEL", "")
	p.AITimeout = getEnvOrDefaultInt("MOODTRACKER_AI_TIMEOUT_SECONDS", 30)

	if p.AIProvider != "" {
		if _, ok := llmProviderDefaults[p.AIProvider]; !ok {
			slog.Warn("Unknown LLM provider, using default: openai", "provider", p.AIProvider)
			p.AIProvider = "openai"
		}
	}
	if p.AIBaseURL == "" || p.AIModel == "" {
		if defaults, ok := llmProviderDefaults[p.AIProvider]; ok {
			if p.AIBaseURL == "" {
				p.AIBaseURL = defaults.BaseURL
			}
			if p.AIModel == "" {
				p.AIModel = defaults.Model
			}
		}
	}

	p.TelegramBotToken = getEnvOrDefault("MOODTRACKER_TELEGRAM_BOT_TOKEN", "")
	p.DigestTimezone = getEnvOrDefault("MOODTRACKER_DIGEST_TIMEZONE", "UTC")

	p.JWTSecret = getEnvOrDefault("MOODTRACKER_JWT_SECRET", "")
	p.PremiumOpen = getEnvOrDefault("MOODTRACKER_PREMIUM_OPEN", "false") == "true"
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
	if p.Mode != "demo" && p.Mode != "dev" && p.Mode != "prod" {
		p.Mode = "demo"
	}

	if p.Mode == "prod" && p.Data == "" {
		if runtime.GOOS == "windows" {
			p.Data = filepath.Join(os.Getenv("ProgramData"), "moodtracker")
			if _, err := os.Stat(p.Data); os.IsNotExist(err) {
				if err := os.MkdirAll(p.Data, 0770); err != nil {
					slog.Error("failed to create data directory", slog.String("data", p.Data), slog.String("error", err.Error()))
					return err
				}
			}
		} else {
			p.Data = "/var/opt/moodtracker"
		}
	}

	dataDir, err := checkDataDir(p.Data)
	if err != nil {
		slog.Error("failed to check data dir", slog.String("data", dataDir), slog.String("error", err.Error()))
		return err
	}

	p.Data = dataDir
	if p.Driver == "sqlite" && p.DSN == "" {
		dbFile := fmt.Sprintf("moodtracker_%s.db", p.Mode)
		p.DSN = filepath.Join(dataDir, dbFile)
	}

	if _, err := time.LoadLocation(p.DigestTimezone); err != nil {
		slog.Warn("invalid digest timezone, falling back to UTC", "timezone", p.DigestTimezone)
		p.DigestTimezone = "UTC"
	}

	return nil
}
