package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/jobscout/jobscout/internal/model"
	"github.com/jobscout/jobscout/internal/score"
)

// Config is the root configuration for jobscout.
type Config struct {
	DBPath     string
	Profile    model.Profile
	Sources    SourcesConfig
	Aggregator AggregatorConfig
	Scoring    ScoringConfig
	Retry      RetryConfig
	RateLimit  RateLimitConfig
	AI         AIConfig
}

// SourcesConfig controls which job boards are searched.
type SourcesConfig struct {
	Remotive   SourceToggle
	Arbeitnow  SourceToggle
	Greenhouse []GreenhouseBoard
}

// SourceToggle is a single on/off switch for a public board.
type SourceToggle struct {
	Enabled bool `yaml:"enabled"`
}

// GreenhouseBoard describes one company's Greenhouse board.
type GreenhouseBoard struct {
	Company    string `yaml:"company"`
	BoardToken string `yaml:"board_token"`
	Enabled    bool   `yaml:"enabled"`
}

// AggregatorConfig controls the concurrent fan-out.
type AggregatorConfig struct {
	MaxWorkers     int
	AdapterTimeout time.Duration
}

// ScoringConfig optionally overrides the default match weights.
type ScoringConfig struct {
	Weights *score.Weights // nil means defaults
}

// RetryConfig controls the transient-failure retry decorator.
type RetryConfig struct {
	MaxRetries int
	BaseDelay  time.Duration
}

// RateLimitConfig controls platform-level rate limiting.
type RateLimitConfig struct {
	MinDelay time.Duration
}

// AIConfig controls the optional OpenAI enrichment layer.
type AIConfig struct {
	Enabled bool
	BaseURL string        // defaults to https://api.openai.com/v1
	Model   string        // OpenAI model identifier, e.g. "gpt-4o-mini"
	APIKey  string        // expanded from env var by Load
	Timeout time.Duration // per-request timeout
}

const defaultOpenAIBaseURL = "https://api.openai.com/v1"

// rawConfig is used for YAML unmarshaling (snake_case fields and durations as strings).
type rawConfig struct {
	DBPath     string              `yaml:"db_path"`
	Profile    rawProfile          `yaml:"profile"`
	Sources    rawSources          `yaml:"sources"`
	Aggregator rawAggregatorConfig `yaml:"aggregator"`
	Scoring    rawScoringConfig    `yaml:"scoring"`
	Retry      rawRetryConfig      `yaml:"retry"`
	RateLimit  rawRateLimitConfig  `yaml:"rate_limit"`
	AI         rawAIConfig         `yaml:"ai"`
}

type rawProfile struct {
	Skills           []string `yaml:"skills"`
	DesiredRoles     []string `yaml:"desired_roles"`
	DesiredLocations []string `yaml:"desired_locations"`
	SalaryMin        *int64   `yaml:"salary_min"`
	WorkType         string   `yaml:"work_type"`
	ExperienceYears  int      `yaml:"experience_years"`
}

type rawSources struct {
	Remotive   SourceToggle      `yaml:"remotive"`
	Arbeitnow  SourceToggle      `yaml:"arbeitnow"`
	Greenhouse []GreenhouseBoard `yaml:"greenhouse"`
}

type rawAggregatorConfig struct {
	MaxWorkers     int    `yaml:"max_workers"`
	AdapterTimeout string `yaml:"adapter_timeout"`
}

type rawScoringConfig struct {
	Weights *rawWeights `yaml:"weights"`
}

type rawWeights struct {
	Skills   float64 `yaml:"skills"`
	Role     float64 `yaml:"role"`
	Location float64 `yaml:"location"`
	Salary   float64 `yaml:"salary"`
	WorkType float64 `yaml:"work_type"`
}

type rawRetryConfig struct {
	MaxRetries *int   `yaml:"max_retries"`
	BaseDelay  string `yaml:"base_delay"`
}

type rawRateLimitConfig struct {
	MinDelay string `yaml:"min_delay"`
}

type rawAIConfig struct {
	Enabled bool   `yaml:"enabled"`
	BaseURL string `yaml:"base_url"`
	Model   string `yaml:"model"`
	APIKey  string `yaml:"api_key"`
	Timeout string `yaml:"timeout"`
}

// Load reads and parses the YAML config file at path, validates it, and returns Config.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	// Expand environment variables
	expanded := os.ExpandEnv(string(data))

	var raw rawConfig
	if err := yaml.Unmarshal([]byte(expanded), &raw); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	dbPath := raw.DBPath
	if dbPath == "" {
		dbPath = "jobscout.db"
	}

	adapterTimeout := 30 * time.Second
	if raw.Aggregator.AdapterTimeout != "" {
		adapterTimeout, err = time.ParseDuration(raw.Aggregator.AdapterTimeout)
		if err != nil {
			return nil, fmt.Errorf("parse aggregator.adapter_timeout %q: %w", raw.Aggregator.AdapterTimeout, err)
		}
	}

	maxWorkers := raw.Aggregator.MaxWorkers
	if maxWorkers == 0 {
		maxWorkers = 3
	}

	maxRetries := 2
	if raw.Retry.MaxRetries != nil {
		maxRetries = *raw.Retry.MaxRetries
	}

	baseDelay := 5 * time.Second
	if raw.Retry.BaseDelay != "" {
		baseDelay, err = time.ParseDuration(raw.Retry.BaseDelay)
		if err != nil {
			return nil, fmt.Errorf("parse retry.base_delay %q: %w", raw.Retry.BaseDelay, err)
		}
	}

	minDelay := 2 * time.Second
	if raw.RateLimit.MinDelay != "" {
		minDelay, err = time.ParseDuration(raw.RateLimit.MinDelay)
		if err != nil {
			return nil, fmt.Errorf("parse rate_limit.min_delay %q: %w", raw.RateLimit.MinDelay, err)
		}
	}

	aiTimeout := 30 * time.Second
	if raw.AI.Timeout != "" {
		aiTimeout, err = time.ParseDuration(raw.AI.Timeout)
		if err != nil {
			return nil, fmt.Errorf("parse ai.timeout %q: %w", raw.AI.Timeout, err)
		}
	}

	aiBaseURL := raw.AI.BaseURL
	if aiBaseURL == "" {
		aiBaseURL = defaultOpenAIBaseURL
	}

	var weights *score.Weights
	if raw.Scoring.Weights != nil {
		weights = &score.Weights{
			Skills:   raw.Scoring.Weights.Skills,
			Role:     raw.Scoring.Weights.Role,
			Location: raw.Scoring.Weights.Location,
			Salary:   raw.Scoring.Weights.Salary,
			WorkType: raw.Scoring.Weights.WorkType,
		}
	}

	cfg := &Config{
		DBPath: dbPath,
		Profile: model.Profile{
			Skills:           raw.Profile.Skills,
			DesiredRoles:     raw.Profile.DesiredRoles,
			DesiredLocations: raw.Profile.DesiredLocations,
			SalaryMin:        raw.Profile.SalaryMin,
			WorkType:         model.ParseWorkType(raw.Profile.WorkType),
			ExperienceYears:  raw.Profile.ExperienceYears,
		},
		Sources: SourcesConfig{
			Remotive:   raw.Sources.Remotive,
			Arbeitnow:  raw.Sources.Arbeitnow,
			Greenhouse: raw.Sources.Greenhouse,
		},
		Aggregator: AggregatorConfig{
			MaxWorkers:     maxWorkers,
			AdapterTimeout: adapterTimeout,
		},
		Scoring: ScoringConfig{Weights: weights},
		Retry: RetryConfig{
			MaxRetries: maxRetries,
			BaseDelay:  baseDelay,
		},
		RateLimit: RateLimitConfig{MinDelay: minDelay},
		AI: AIConfig{
			Enabled: raw.AI.Enabled,
			BaseURL: aiBaseURL,
			Model:   raw.AI.Model,
			APIKey:  raw.AI.APIKey,
			Timeout: aiTimeout,
		},
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func validate(cfg *Config) error {
	enabled := 0
	if cfg.Sources.Remotive.Enabled {
		enabled++
	}
	if cfg.Sources.Arbeitnow.Enabled {
		enabled++
	}
	for _, b := range cfg.Sources.Greenhouse {
		if !b.Enabled {
			continue
		}
		if b.BoardToken == "" {
			return fmt.Errorf("sources.greenhouse: board_token is required for enabled board %q", b.Company)
		}
		enabled++
	}
	if enabled == 0 {
		return fmt.Errorf("at least one source must be enabled")
	}

	if len(cfg.Profile.Skills) == 0 && len(cfg.Profile.DesiredRoles) == 0 {
		return fmt.Errorf("profile must list at least one skill or desired role")
	}

	if cfg.Aggregator.MaxWorkers < 1 {
		return fmt.Errorf("aggregator.max_workers must be positive, got %d", cfg.Aggregator.MaxWorkers)
	}
	if cfg.Aggregator.AdapterTimeout <= 0 {
		return fmt.Errorf("aggregator.adapter_timeout must be positive, got %v", cfg.Aggregator.AdapterTimeout)
	}
	if cfg.Retry.MaxRetries < 0 {
		return fmt.Errorf("retry.max_retries must not be negative, got %d", cfg.Retry.MaxRetries)
	}

	if cfg.Scoring.Weights != nil {
		// Surface bad weights at load time rather than first use.
		if _, err := score.NewScorerWithWeights(*cfg.Scoring.Weights); err != nil {
			return fmt.Errorf("scoring.weights: %w", err)
		}
	}

	if cfg.AI.Enabled {
		if cfg.AI.APIKey == "" {
			return fmt.Errorf("ai.api_key is required when ai.enabled is true")
		}
		if cfg.AI.Model == "" {
			return fmt.Errorf("ai.model is required when ai.enabled is true")
		}
	}

	return nil
}
