// Package config loads and validates checker configuration via Viper.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config captures all service configuration knobs loaded via Viper.
type Config struct {
	Target   TargetConfig   `mapstructure:"target"`
	HTTP     HTTPConfig     `mapstructure:"http"`
	Expect   ExpectConfig   `mapstructure:"expect"`
	Report   ReportConfig   `mapstructure:"report"`
	Store    StoreConfig    `mapstructure:"store"`
	Artifact ArtifactConfig `mapstructure:"artifact"`
	Notify   NotifyConfig   `mapstructure:"notify"`
	Server   ServerConfig   `mapstructure:"server"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// TargetConfig identifies the API under test.
type TargetConfig struct {
	BaseURL string `mapstructure:"base_url"`
}

// HTTPConfig configures the probe HTTP client.
type HTTPConfig struct {
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
	UserAgent      string `mapstructure:"user_agent"`
}

// ExpectConfig holds the seed tallies and reference names the suite asserts.
type ExpectConfig struct {
	SeedDistricts      int      `mapstructure:"seed_districts"`
	SeedQualifications int      `mapstructure:"seed_qualifications"`
	SeedCategories     int      `mapstructure:"seed_categories"`
	SeedJobs           int      `mapstructure:"seed_jobs"`
	DistrictNames      []string `mapstructure:"district_names"`
	QualificationNames []string `mapstructure:"qualification_names"`
	CategoryNames      []string `mapstructure:"category_names"`
}

// ReportConfig controls console and JSON report output.
type ReportConfig struct {
	JSONPath string `mapstructure:"json_path"`
	Color    string `mapstructure:"color"`
}

// StoreConfig selects the run persistence backend.
type StoreConfig struct {
	Provider string `mapstructure:"provider"`
	DSN      string `mapstructure:"dsn"`
	MaxConns int32  `mapstructure:"max_conns"`
}

// ArtifactConfig selects where the JSON report blob is saved.
type ArtifactConfig struct {
	Provider  string `mapstructure:"provider"`
	BaseDir   string `mapstructure:"base_dir"`
	GCSBucket string `mapstructure:"gcs_bucket"`
	Prefix    string `mapstructure:"prefix"`
}

// NotifyConfig holds metadata for publish-subscribe run notifications.
type NotifyConfig struct {
	Provider  string `mapstructure:"provider"`
	ProjectID string `mapstructure:"project_id"`
	TopicID   string `mapstructure:"topic_id"`
}

// ServerConfig controls the serve-mode HTTP server.
type ServerConfig struct {
	Port int `mapstructure:"port"`
}

// LoggingConfig toggles zap development features.
type LoggingConfig struct {
	Development bool   `mapstructure:"development"`
	Level       string `mapstructure:"level"`
}

// Load builds a Config from disk/environment.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("APICHECK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("target.base_url", "http://localhost:3000/api")
	v.SetDefault("http.timeout_seconds", 15)
	v.SetDefault("http.user_agent", "tamilansjob-apicheck/1.0")
	v.SetDefault("expect.seed_districts", 6)
	v.SetDefault("expect.seed_qualifications", 7)
	v.SetDefault("expect.seed_categories", 6)
	v.SetDefault("expect.seed_jobs", 2)
	v.SetDefault("expect.district_names", []string{"Chennai", "Coimbatore", "Madurai"})
	v.SetDefault("expect.qualification_names", []string{"10th", "12th/HSC", "B.E/B.Tech", "Any Degree"})
	v.SetDefault("expect.category_names", []string{"TNPSC", "TRB", "Police", "Banking"})
	v.SetDefault("report.color", "auto")
	v.SetDefault("store.provider", "noop")
	v.SetDefault("artifact.provider", "noop")
	v.SetDefault("artifact.prefix", "reports")
	v.SetDefault("notify.provider", "noop")
	v.SetDefault("server.port", 8080)
	v.SetDefault("logging.development", true)
}

// Validate enforces required values and reasonable limits.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Target.BaseURL) == "" {
		return fmt.Errorf("target.base_url must be set")
	}
	if c.HTTP.TimeoutSeconds <= 0 {
		return fmt.Errorf("http.timeout_seconds must be > 0")
	}
	if c.Server.Port <= 0 {
		return fmt.Errorf("server.port must be > 0")
	}
	switch c.Store.Provider {
	case "", "noop":
	case "postgres":
		if c.Store.DSN == "" {
			return fmt.Errorf("store.dsn must be set when store.provider is postgres")
		}
	default:
		return fmt.Errorf("store.provider must be noop or postgres")
	}
	switch c.Artifact.Provider {
	case "", "noop":
	case "local":
		if c.Artifact.BaseDir == "" {
			return fmt.Errorf("artifact.base_dir must be set when artifact.provider is local")
		}
	case "gcs":
		if c.Artifact.GCSBucket == "" {
			return fmt.Errorf("artifact.gcs_bucket must be set when artifact.provider is gcs")
		}
	default:
		return fmt.Errorf("artifact.provider must be noop, local, or gcs")
	}
	switch c.Notify.Provider {
	case "", "noop":
	case "pubsub":
		if c.Notify.ProjectID == "" || c.Notify.TopicID == "" {
			return fmt.Errorf("notify.project_id and notify.topic_id must be set when notify.provider is pubsub")
		}
	default:
		return fmt.Errorf("notify.provider must be noop or pubsub")
	}
	return nil
}

// Timeout converts the HTTP timeout config into a duration.
func (c Config) Timeout() time.Duration {
	return time.Duration(c.HTTP.TimeoutSeconds) * time.Second
}
