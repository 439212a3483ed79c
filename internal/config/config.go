package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"survey_wizard/internal/model"
)

type Config struct {
	Server    ServerConfig
	Log       LogConfig `mapstructure:"log"`
	API       APIConfig `mapstructure:"api"`
	Survey    SurveyConfig
	Store     StoreConfig `mapstructure:"store"`
	Redis     RedisConfig
	Tracing   TracingConfig   `mapstructure:"tracing"`
	CORS      CORSConfig      `mapstructure:"cors"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
}

type ServerConfig struct {
	Port string `validate:"required"`
	Mode string `validate:"omitempty,oneof=debug release test"`
}

type LogConfig struct {
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
}

// APIConfig points at the remote survey backend. Paths may contain a
// {session} placeholder.
type APIConfig struct {
	CatalogBaseURL    string `mapstructure:"catalog_base_url" validate:"required,url"`
	SubmissionBaseURL string `mapstructure:"submission_base_url" validate:"required,url"`
	OptionsBaseURL    string `mapstructure:"options_base_url" validate:"omitempty,url"`

	QuestionsPath     string `mapstructure:"questions_path" validate:"required"`
	ParticipationPath string `mapstructure:"participation_path" validate:"required"`
	OptionsPath       string `mapstructure:"options_path"`
	SubmissionPath    string `mapstructure:"submission_path" validate:"required"`

	Timeout time.Duration `mapstructure:"timeout_seconds"`
}

// OptionsEnabled reports whether the option list is fetched. Without
// options_base_url the list is read from the catalog base URL.
func (c APIConfig) OptionsEnabled() bool {
	return c.OptionsPath != ""
}

type SurveyConfig struct {
	Rating                model.RatingScale `mapstructure:"rating"`
	ParticipationFailOpen bool              `mapstructure:"participation_fail_open"`
}

type StoreConfig struct {
	Type string        `mapstructure:"type" validate:"oneof=memory redis"`
	TTL  time.Duration `mapstructure:"ttl_minutes"`
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type TracingConfig struct {
	Enabled           bool   `mapstructure:"enabled"`
	CollectorEndpoint string `mapstructure:"collector_endpoint"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type RateLimitConfig struct {
	MaxRequests   int `mapstructure:"max_requests"`
	WindowMinutes int `mapstructure:"window_minutes"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.mode", "debug")

	v.SetDefault("log.file", "logs/app.log")
	v.SetDefault("log.max_size_mb", 100)
	v.SetDefault("log.max_backups", 5)
	v.SetDefault("log.max_age_days", 30)

	v.SetDefault("api.questions_path", "/api/questions")
	v.SetDefault("api.participation_path", "/api/participation/{session}")
	v.SetDefault("api.options_path", "/api/options")
	v.SetDefault("api.submission_path", "/api/responses/{session}")
	v.SetDefault("api.timeout_seconds", 10)

	v.SetDefault("survey.rating.min", 0)
	v.SetDefault("survey.rating.max", 5)
	v.SetDefault("survey.rating.allow_fraction", false)
	v.SetDefault("survey.rating.explain_on", []float64{1})
	v.SetDefault("survey.rating.required", true)
	v.SetDefault("survey.participation_fail_open", true)

	v.SetDefault("store.type", "memory")
	v.SetDefault("store.ttl_minutes", 60)

	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)

	v.SetDefault("rate_limit.max_requests", 600)
	v.SetDefault("rate_limit.window_minutes", 1)
}

func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	v.SetEnvPrefix("SURVEY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	// Backend
	v.BindEnv("api.catalog_base_url", "CATALOG_BASE_URL")
	v.BindEnv("api.submission_base_url", "SUBMISSION_BASE_URL")
	v.BindEnv("api.options_base_url", "OPTIONS_BASE_URL")

	// Server
	v.BindEnv("server.mode", "SERVER_MODE")
	v.BindEnv("server.port", "SERVER_PORT")

	// Redis
	v.BindEnv("redis.host", "REDIS_HOST")
	v.BindEnv("redis.port", "REDIS_PORT")
	v.BindEnv("redis.password", "REDIS_PASSWORD")

	// Tracing
	v.BindEnv("tracing.enabled", "TRACING_ENABLED")
	v.BindEnv("tracing.collector_endpoint", "TRACING_COLLECTOR_ENDPOINT")

	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	cfg.API.Timeout = cfg.API.Timeout * time.Second
	cfg.Store.TTL = cfg.Store.TTL * time.Minute

	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks struct constraints and the cross-field rules the tags
// cannot express.
func Validate(cfg *Config) error {
	if err := validator.New().Struct(cfg); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	r := cfg.Survey.Rating
	if r.Max <= r.Min {
		return fmt.Errorf("invalid config: survey.rating.max (%g) must be greater than min (%g)", r.Max, r.Min)
	}
	for _, s := range r.ExplainOn {
		if s < r.Min || s > r.Max {
			return fmt.Errorf("invalid config: survey.rating.explain_on value %g outside [%g, %g]", s, r.Min, r.Max)
		}
	}
	if cfg.API.Timeout <= 0 {
		return fmt.Errorf("invalid config: api.timeout_seconds must be positive")
	}
	if cfg.Store.Type == "redis" && cfg.Store.TTL <= 0 {
		return fmt.Errorf("invalid config: store.ttl_minutes must be positive for the redis store")
	}
	return nil
}
