package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

const defaultConfigPath = "focusforge.yaml"

type Config struct {
	Port              string `yaml:"port"`
	LLMProvider       string `yaml:"llm_provider"`
	LLMModel          string `yaml:"llm_model"`
	LLMPlannerModel   string `yaml:"llm_planner_model"`
	LLMBaseURL        string `yaml:"llm_base_url"`
	GeminiAPIKey      string `yaml:"gemini_api_key"`
	OpenAIAPIKey      string `yaml:"openai_api_key"`
	LLMTimeoutSec     int    `yaml:"llm_timeout_sec"`
	MaxToolIterations int    `yaml:"max_tool_iterations"`
	CalendarToken     string `yaml:"calendar_token"`
	GmailToken        string `yaml:"gmail_token"`
	SMTPServer        string `yaml:"smtp_server"`
	SMTPPort          int    `yaml:"smtp_port"`
	SMTPUser          string `yaml:"smtp_user"`
	SMTPPassword      string `yaml:"smtp_password"`
	LogLevel          string `yaml:"log_level"`
}

func defaults() Config {
	return Config{
		Port:              "8787",
		LLMProvider:       "gemini",
		LLMModel:          "gemini-2.0-flash",
		LLMTimeoutSec:     35,
		MaxToolIterations: 3,
		SMTPServer:        "smtp.gmail.com",
		SMTPPort:          587,
		LogLevel:          "info",
	}
}

// Load builds the configuration from defaults, then an optional YAML file,
// then environment variables. A missing default file is not an error; a
// missing explicit path is.
func Load(path string) (Config, error) {
	cfg := defaults()

	explicit := path != ""
	if path == "" {
		path = defaultConfigPath
	}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parsing config file %s: %w", path, err)
		}
	case os.IsNotExist(err) && !explicit:
	default:
		return Config{}, fmt.Errorf("reading config file %s: %w", path, err)
	}

	cfg.Port = getEnv("FOCUSFORGE_PORT", cfg.Port)
	cfg.LLMProvider = getEnv("LLM_PROVIDER", cfg.LLMProvider)
	cfg.LLMModel = getEnv("LLM_MODEL", cfg.LLMModel)
	cfg.LLMPlannerModel = getEnv("LLM_PLANNER_MODEL", cfg.LLMPlannerModel)
	cfg.LLMBaseURL = getEnv("LLM_BASE_URL", cfg.LLMBaseURL)
	cfg.GeminiAPIKey = getEnv("GEMINI_API_KEY", cfg.GeminiAPIKey)
	cfg.OpenAIAPIKey = getEnv("OPENAI_API_KEY", cfg.OpenAIAPIKey)
	cfg.LLMTimeoutSec = getEnvInt("LLM_TIMEOUT_SEC", cfg.LLMTimeoutSec)
	cfg.MaxToolIterations = getEnvInt("MAX_TOOL_ITERATIONS", cfg.MaxToolIterations)
	cfg.CalendarToken = getEnv("GOOGLE_CALENDAR_TOKEN", cfg.CalendarToken)
	cfg.GmailToken = getEnv("GMAIL_API_TOKEN", cfg.GmailToken)
	cfg.SMTPServer = getEnv("SMTP_SERVER", cfg.SMTPServer)
	cfg.SMTPPort = getEnvInt("SMTP_PORT", cfg.SMTPPort)
	cfg.SMTPUser = getEnv("SMTP_USER", cfg.SMTPUser)
	cfg.SMTPPassword = getEnv("SMTP_PASSWORD", cfg.SMTPPassword)
	cfg.LogLevel = getEnv("LOG_LEVEL", cfg.LogLevel)

	if cfg.LLMPlannerModel == "" {
		cfg.LLMPlannerModel = cfg.LLMModel
	}
	return cfg, nil
}

// Capabilities are resolved once at startup and injected; nothing probes for
// credentials at request time.
type Capabilities struct {
	AIEnrichment bool
	Calendar     bool
	Email        bool
}

func (c Config) Capabilities() Capabilities {
	var ai bool
	switch c.LLMProvider {
	case "disabled", "none":
		ai = false
	case "openai":
		ai = c.OpenAIAPIKey != ""
	default:
		ai = c.GeminiAPIKey != ""
	}
	return Capabilities{
		AIEnrichment: ai,
		Calendar:     c.CalendarToken != "",
		Email:        c.GmailToken != "" || (c.SMTPUser != "" && c.SMTPPassword != ""),
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		parsed, err := strconv.Atoi(value)
		if err == nil {
			return parsed
		}
	}
	return fallback
}
