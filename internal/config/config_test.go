package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/jobscout/jobscout/internal/model"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

const validConfig = `
db_path: jobs.db
profile:
  skills: [go, sql]
  desired_roles: [backend engineer]
  desired_locations: [berlin]
  salary_min: 80000
  work_type: remote
  experience_years: 6
sources:
  remotive:
    enabled: true
  arbeitnow:
    enabled: true
  greenhouse:
    - company: Acme Corp
      board_token: acme
      enabled: true
aggregator:
  max_workers: 5
  adapter_timeout: 10s
retry:
  max_retries: 3
  base_delay: 1s
rate_limit:
  min_delay: 500ms
`

func TestLoad_Valid(t *testing.T) {
	path := writeConfig(t, validConfig)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.DBPath != "jobs.db" {
		t.Errorf("expected db path jobs.db, got %s", cfg.DBPath)
	}
	if len(cfg.Profile.Skills) != 2 || cfg.Profile.Skills[0] != "go" {
		t.Errorf("unexpected skills: %v", cfg.Profile.Skills)
	}
	if cfg.Profile.SalaryMin == nil || *cfg.Profile.SalaryMin != 80000 {
		t.Errorf("unexpected salary min: %v", cfg.Profile.SalaryMin)
	}
	if cfg.Profile.WorkType != model.WorkRemote {
		t.Errorf("expected remote work type, got %v", cfg.Profile.WorkType)
	}
	if cfg.Profile.ExperienceLevel() != model.ExperienceSenior {
		t.Errorf("expected senior tier, got %v", cfg.Profile.ExperienceLevel())
	}
	if !cfg.Sources.Remotive.Enabled || !cfg.Sources.Arbeitnow.Enabled {
		t.Error("expected remotive and arbeitnow enabled")
	}
	if len(cfg.Sources.Greenhouse) != 1 || cfg.Sources.Greenhouse[0].BoardToken != "acme" {
		t.Errorf("unexpected greenhouse boards: %v", cfg.Sources.Greenhouse)
	}
	if cfg.Aggregator.MaxWorkers != 5 {
		t.Errorf("expected 5 workers, got %d", cfg.Aggregator.MaxWorkers)
	}
	if cfg.Aggregator.AdapterTimeout != 10*time.Second {
		t.Errorf("expected 10s adapter timeout, got %v", cfg.Aggregator.AdapterTimeout)
	}
	if cfg.Retry.MaxRetries != 3 || cfg.Retry.BaseDelay != time.Second {
		t.Errorf("unexpected retry config: %+v", cfg.Retry)
	}
	if cfg.RateLimit.MinDelay != 500*time.Millisecond {
		t.Errorf("unexpected rate limit: %v", cfg.RateLimit.MinDelay)
	}
	if cfg.Scoring.Weights != nil {
		t.Errorf("expected nil weights (defaults), got %+v", cfg.Scoring.Weights)
	}
}

func TestLoad_Defaults(t *testing.T) {
	path := writeConfig(t, `
profile:
  skills: [go]
sources:
  remotive:
    enabled: true
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.DBPath != "jobscout.db" {
		t.Errorf("expected default db path, got %s", cfg.DBPath)
	}
	if cfg.Aggregator.MaxWorkers != 3 {
		t.Errorf("expected default 3 workers, got %d", cfg.Aggregator.MaxWorkers)
	}
	if cfg.Aggregator.AdapterTimeout != 30*time.Second {
		t.Errorf("expected default 30s timeout, got %v", cfg.Aggregator.AdapterTimeout)
	}
	if cfg.Retry.MaxRetries != 2 || cfg.Retry.BaseDelay != 5*time.Second {
		t.Errorf("unexpected retry defaults: %+v", cfg.Retry)
	}
	if cfg.RateLimit.MinDelay != 2*time.Second {
		t.Errorf("unexpected rate limit default: %v", cfg.RateLimit.MinDelay)
	}
	if cfg.AI.BaseURL != "https://api.openai.com/v1" {
		t.Errorf("unexpected AI base URL default: %s", cfg.AI.BaseURL)
	}
}

func TestLoad_EnvExpansion(t *testing.T) {
	t.Setenv("JOBSCOUT_TEST_KEY", "sk-test-123")
	path := writeConfig(t, `
profile:
  skills: [go]
sources:
  remotive:
    enabled: true
ai:
  enabled: true
  model: gpt-4o-mini
  api_key: ${JOBSCOUT_TEST_KEY}
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.AI.APIKey != "sk-test-123" {
		t.Errorf("expected expanded API key, got %q", cfg.AI.APIKey)
	}
}

func TestLoad_WeightOverrides(t *testing.T) {
	path := writeConfig(t, `
profile:
  skills: [go]
sources:
  remotive:
    enabled: true
scoring:
  weights:
    skills: 0.5
    role: 0.2
    location: 0.1
    salary: 0.1
    work_type: 0.1
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Scoring.Weights == nil || cfg.Scoring.Weights.Skills != 0.5 {
		t.Fatalf("unexpected weights: %+v", cfg.Scoring.Weights)
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			name: "no sources enabled",
			content: `
profile:
  skills: [go]
sources:
  remotive:
    enabled: false
`,
			wantErr: "at least one source",
		},
		{
			name: "empty profile",
			content: `
profile: {}
sources:
  remotive:
    enabled: true
`,
			wantErr: "at least one skill",
		},
		{
			name: "greenhouse board without token",
			content: `
profile:
  skills: [go]
sources:
  greenhouse:
    - company: Acme
      enabled: true
`,
			wantErr: "board_token",
		},
		{
			name: "weights do not sum to one",
			content: `
profile:
  skills: [go]
sources:
  remotive:
    enabled: true
scoring:
  weights:
    skills: 0.9
    role: 0.9
`,
			wantErr: "scoring.weights",
		},
		{
			name: "ai enabled without key",
			content: `
profile:
  skills: [go]
sources:
  remotive:
    enabled: true
ai:
  enabled: true
  model: gpt-4o-mini
`,
			wantErr: "ai.api_key",
		},
		{
			name: "bad adapter timeout",
			content: `
profile:
  skills: [go]
sources:
  remotive:
    enabled: true
aggregator:
  adapter_timeout: soon
`,
			wantErr: "adapter_timeout",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			path := writeConfig(t, tc.content)
			_, err := Load(path)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tc.wantErr) {
				t.Errorf("expected error containing %q, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing file, got nil")
	}
}
