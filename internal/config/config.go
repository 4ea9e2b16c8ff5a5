package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"classquiz-service/internal/domain"
)

type Config struct {
	Server struct {
		Port string `yaml:"port"`
	} `yaml:"server"`
	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
	} `yaml:"redis"`
	Postgres struct {
		URL string `yaml:"url"`
	} `yaml:"postgres"`
	Question struct {
		Cooldown  string `yaml:"cooldown"` // e.g. "10s"; empty or "0" disables the attempt lock
		CacheTTL  string `yaml:"cache_ttl"`
		MinPoints int    `yaml:"min_points"` // defaults applied to imported questions without bounds
		MaxPoints int    `yaml:"max_points"`
	} `yaml:"question"`
	Leaderboard struct {
		Limited bool `yaml:"limited"`
		Limit   int  `yaml:"limit"`
	} `yaml:"leaderboard"`
	Discussion struct {
		Visibility      string `yaml:"visibility"` // none | answered | all
		DislikesEnabled bool   `yaml:"dislikes_enabled"`
	} `yaml:"discussion"`
}

// Load reads YAML config from path.
func Load(path string) (Config, error) {
	cfg := Config{}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// ParseDuration parses a duration string or returns the fallback if empty
// or invalid.
func ParseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	return fallback
}

// Settings adapts a loaded Config to the read-only settings surface the
// app layer consults.
type Settings struct {
	cooldown   time.Duration
	limited    bool
	limit      int
	visibility domain.Visibility
	dislikes   bool
}

func NewSettings(cfg Config) *Settings {
	visibility := domain.Visibility(cfg.Discussion.Visibility)
	switch visibility {
	case domain.VisibilityNone, domain.VisibilityAnswered, domain.VisibilityAll:
	default:
		visibility = domain.VisibilityAll
	}
	return &Settings{
		cooldown:   ParseDuration(cfg.Question.Cooldown, 0),
		limited:    cfg.Leaderboard.Limited,
		limit:      cfg.Leaderboard.Limit,
		visibility: visibility,
		dislikes:   cfg.Discussion.DislikesEnabled,
	}
}

func (s *Settings) AttemptCooldown() time.Duration          { return s.cooldown }
func (s *Settings) LeaderboardLimited() bool                { return s.limited }
func (s *Settings) LeaderboardLimit() int                   { return s.limit }
func (s *Settings) DiscussionVisibility() domain.Visibility { return s.visibility }
func (s *Settings) DislikesEnabled() bool                   { return s.dislikes }
