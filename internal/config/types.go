package config

import "github.com/mauv0809/matchpoint/internal/scoring"

// Config holds all configuration for the application.
type Config struct {
	DBName    string
	Port      string
	LogLevel  string
	Slack     SlackConfig
	Turso     TursoConfig
	ProjectID string
	Playtomic PlaytomicConfig
	RulesFile string
	Rules     scoring.Rules
}

type SlackConfig struct {
	Token     string
	ChannelID string
}

// Enabled reports whether notifications can be sent.
func (s SlackConfig) Enabled() bool {
	return s.Token != "" && s.ChannelID != ""
}

type TursoConfig struct {
	PrimaryURL string
	AuthToken  string
}

type PlaytomicConfig struct {
	BaseURL string
	// TenantID is the club whose matches /sync pulls in.
	TenantID string
}

// rulesFile is the YAML shape of the scoring rules override file.
type rulesFile struct {
	Scoring scoring.Rules `yaml:"scoring"`
}
