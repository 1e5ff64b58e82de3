package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoadWithFileOverrides(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	configYAML := `
target:
  base_url: http://staging.example.com/api
http:
  timeout_seconds: 45
  user_agent: custom-agent
expect:
  seed_districts: 6
  seed_qualifications: 7
  seed_categories: 6
  seed_jobs: 2
  district_names: ["Chennai", "Salem"]
report:
  json_path: out/report.json
  color: never
store:
  provider: postgres
  dsn: postgres://localhost/apicheck
artifact:
  provider: local
  base_dir: /tmp/reports
notify:
  provider: pubsub
  project_id: proj
  topic_id: runs
server:
  port: 9090
logging:
  development: false
  level: warn
`
	if err := os.WriteFile(path, []byte(configYAML), 0o600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Target.BaseURL != "http://staging.example.com/api" {
		t.Fatalf("expected base URL override, got %q", cfg.Target.BaseURL)
	}
	if cfg.HTTP.UserAgent != "custom-agent" {
		t.Fatalf("expected user agent override, got %q", cfg.HTTP.UserAgent)
	}
	if cfg.Store.Provider != "postgres" || cfg.Store.DSN == "" {
		t.Fatalf("expected postgres store config, got %+v", cfg.Store)
	}
	if len(cfg.Expect.DistrictNames) != 2 || cfg.Expect.DistrictNames[1] != "Salem" {
		t.Fatalf("expected district names override, got %v", cfg.Expect.DistrictNames)
	}
	if cfg.Server.Port != 9090 {
		t.Fatalf("expected port 9090, got %d", cfg.Server.Port)
	}
	if cfg.Logging.Development || cfg.Logging.Level != "warn" {
		t.Fatalf("expected logging overrides, got %+v", cfg.Logging)
	}
	if got := cfg.Timeout(); got != 45*time.Second {
		t.Fatalf("expected timeout 45s, got %v", got)
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Target.BaseURL != "http://localhost:3000/api" {
		t.Fatalf("expected default base URL, got %q", cfg.Target.BaseURL)
	}
	if cfg.HTTP.TimeoutSeconds != 15 {
		t.Fatalf("expected default timeout 15, got %d", cfg.HTTP.TimeoutSeconds)
	}
	if cfg.Expect.SeedDistricts != 6 || cfg.Expect.SeedJobs != 2 {
		t.Fatalf("expected default seed counts, got %+v", cfg.Expect)
	}
	if cfg.Store.Provider != "noop" || cfg.Artifact.Provider != "noop" || cfg.Notify.Provider != "noop" {
		t.Fatalf("expected noop providers by default, got %+v %+v %+v", cfg.Store, cfg.Artifact, cfg.Notify)
	}
}

func TestConfigValidateErrors(t *testing.T) {
	t.Parallel()

	base := Config{
		Target: TargetConfig{BaseURL: "http://localhost:3000/api"},
		HTTP:   HTTPConfig{TimeoutSeconds: 10},
		Server: ServerConfig{Port: 8080},
	}

	tests := []struct {
		name string
		cfg  Config
		want string
	}{
		{
			name: "missing base url",
			cfg: func() Config {
				c := base
				c.Target.BaseURL = " "
				return c
			}(),
			want: "target.base_url",
		},
		{
			name: "invalid timeout",
			cfg: func() Config {
				c := base
				c.HTTP.TimeoutSeconds = 0
				return c
			}(),
			want: "http.timeout_seconds",
		},
		{
			name: "invalid port",
			cfg: func() Config {
				c := base
				c.Server.Port = 0
				return c
			}(),
			want: "server.port",
		},
		{
			name: "postgres store missing dsn",
			cfg: func() Config {
				c := base
				c.Store.Provider = "postgres"
				return c
			}(),
			want: "store.dsn",
		},
		{
			name: "unknown store provider",
			cfg: func() Config {
				c := base
				c.Store.Provider = "redis"
				return c
			}(),
			want: "store.provider",
		},
		{
			name: "local artifact missing base dir",
			cfg: func() Config {
				c := base
				c.Artifact.Provider = "local"
				return c
			}(),
			want: "artifact.base_dir",
		},
		{
			name: "gcs artifact missing bucket",
			cfg: func() Config {
				c := base
				c.Artifact.Provider = "gcs"
				return c
			}(),
			want: "artifact.gcs_bucket",
		},
		{
			name: "pubsub notify missing topic",
			cfg: func() Config {
				c := base
				c.Notify.Provider = "pubsub"
				c.Notify.ProjectID = "proj"
				return c
			}(),
			want: "notify.project_id and notify.topic_id",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := tt.cfg.Validate()
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected error containing %q, got %v", tt.want, err)
			}
		})
	}
}
