package config

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"github.com/mauv0809/matchpoint/internal/scoring"
	"gopkg.in/yaml.v3"
)

// Load reads configuration from environment variables and .env file.
func Load() Config {
	err := godotenv.Load()
	if err != nil {
		log.Info("No .env file found, reading from environment variables")
	}

	cfg, err := FromEnv(os.LookupEnv)
	if err != nil {
		log.Fatalf("Error: %s", err)
	}
	return cfg
}

// FromEnv builds a Config from lookup, which is os.LookupEnv outside tests.
func FromEnv(lookup func(string) (string, bool)) (Config, error) {
	getEnv := func(key, fallback string) string {
		if value, ok := lookup(key); ok && value != "" {
			return value
		}
		return fallback
	}

	cfg := Config{
		DBName:   getEnv("DB_NAME", "matchpoint.db"),
		Port:     getEnv("PORT", "8080"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		Slack: SlackConfig{
			Token:     getEnv("SLACK_BOT_TOKEN", ""),
			ChannelID: getEnv("SLACK_CHANNEL_ID", ""),
		},
		Turso: TursoConfig{
			PrimaryURL: getEnv("TURSO_PRIMARY_URL", ""),
			AuthToken:  getEnv("TURSO_AUTH_TOKEN", ""),
		},
		ProjectID: getEnv("GCP_PROJECT", ""),
		Playtomic: PlaytomicConfig{
			BaseURL:  getEnv("PLAYTOMIC_BASE_URL", "https://api.playtomic.io"),
			TenantID: getEnv("PLAYTOMIC_TENANT_ID", ""),
		},
		RulesFile: getEnv("RULES_FILE", ""),
		Rules:     scoring.DefaultRules(),
	}

	if cfg.Turso.PrimaryURL != "" && cfg.Turso.AuthToken == "" {
		return Config{}, fmt.Errorf("TURSO_AUTH_TOKEN is required when TURSO_PRIMARY_URL is set")
	}
	if !cfg.Slack.Enabled() {
		log.Warn("Slack is not configured, result notifications are disabled")
	}
	if cfg.ProjectID == "" {
		log.Warn("GCP_PROJECT is not set, result events will not be published")
	}

	if cfg.RulesFile != "" {
		rules, err := LoadRules(cfg.RulesFile)
		if err != nil {
			return Config{}, err
		}
		cfg.Rules = rules
	}
	return cfg, nil
}

// LoadRules reads scoring thresholds from a YAML file. Fields missing from
// the file keep their default values.
func LoadRules(path string) (scoring.Rules, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return scoring.Rules{}, fmt.Errorf("read rules file: %w", err)
	}
	file := rulesFile{Scoring: scoring.DefaultRules()}
	if err := yaml.Unmarshal(data, &file); err != nil {
		return scoring.Rules{}, fmt.Errorf("parse rules file %s: %w", path, err)
	}
	if err := file.Scoring.Validate(); err != nil {
		return scoring.Rules{}, fmt.Errorf("rules file %s: %w", path, err)
	}
	log.Info("Loaded scoring rules", "path", path, "rules", file.Scoring)
	return file.Scoring, nil
}

// ParseLevel maps LOG_LEVEL onto a logger level, defaulting to info.
func ParseLevel(level string) log.Level {
	l, err := log.ParseLevel(level)
	if err != nil {
		return log.InfoLevel
	}
	return l
}
