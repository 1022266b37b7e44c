package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
	"mathquest/internal/domain"
	"mathquest/internal/game"
)

type Config struct {
	Server struct {
		Port string `yaml:"port"`
	} `yaml:"server"`
	Storage struct {
		Backend   string `yaml:"backend"`
		Dir       string `yaml:"dir"`
		OnCorrupt string `yaml:"on_corrupt"`
	} `yaml:"storage"`
	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
		TTL      string `yaml:"ttl"`
	} `yaml:"redis"`
	Postgres struct {
		URL string `yaml:"url"`
	} `yaml:"postgres"`
	Quiz struct {
		APIURL  string `yaml:"api_url"`
		TTL     string `yaml:"ttl"`
		Timeout string `yaml:"timeout"`
	} `yaml:"quiz"`
	Games Games `yaml:"games"`
}

// Award overrides the reward of one mini-game.
type Award struct {
	Points int `yaml:"points"`
	Badge  int `yaml:"badge"`
}

type Games struct {
	Matching  Award `yaml:"matching"`
	TrueFalse Award `yaml:"truefalse"`
	Adventure Award `yaml:"adventure"`
	Timed     struct {
		Duration   string `yaml:"duration"`
		Multiplier int    `yaml:"multiplier"`
		Badge      int    `yaml:"badge"`
	} `yaml:"timed"`
	FeedbackDelay string `yaml:"feedback_delay"`
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

// StorageBackend resolves the configured backend: file when a directory is set, memory otherwise.
func (c Config) StorageBackend() string {
	if c.Storage.Backend != "" {
		return c.Storage.Backend
	}
	if c.Storage.Dir != "" {
		return "file"
	}
	return "memory"
}

// Rewards converts the games section. Zero values are filled in by the game package.
func (g Games) Rewards() game.Rewards {
	return game.Rewards{
		Matching:  game.Award{Points: g.Matching.Points, Badge: domain.BadgeID(g.Matching.Badge)},
		TrueFalse: game.Award{Points: g.TrueFalse.Points, Badge: domain.BadgeID(g.TrueFalse.Badge)},
		Adventure: game.Award{Points: g.Adventure.Points, Badge: domain.BadgeID(g.Adventure.Badge)},
		Timed: game.TimedAward{
			Duration:   Duration(g.Timed.Duration, 0),
			Multiplier: g.Timed.Multiplier,
			Badge:      domain.BadgeID(g.Timed.Badge),
		},
		FeedbackDelay: Duration(g.FeedbackDelay, 0),
	}
}

// Duration parses a duration string or returns the fallback if empty or invalid.
func Duration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	return fallback
}
