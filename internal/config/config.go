package config

import (
	"fmt"
	"os"
	"reflect"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

// Config captures the runtime configuration for the trevord service.
type Config struct {
	Server        ServerConfig        `mapstructure:"server"`
	Database      DatabaseConfig      `mapstructure:"database"`
	Redis         RedisConfig         `mapstructure:"redis"`
	Auth          AuthConfig          `mapstructure:"auth"`
	Upstream      UpstreamConfig      `mapstructure:"upstream"`
	RateLimits    RateLimitConfig     `mapstructure:"rate_limits"`
	Audio         AudioConfig         `mapstructure:"audio"`
	Email         EmailConfig         `mapstructure:"email"`
	CORS          CORSConfig          `mapstructure:"cors"`
	Observability ObservabilityConfig `mapstructure:"observability"`
}

type ServerConfig struct {
	ListenAddr            string        `mapstructure:"listen_addr"`
	BodyLimitMB           int           `mapstructure:"body_limit_mb"`
	SyncTimeout           time.Duration `mapstructure:"sync_timeout"`
	StreamMaxDuration     time.Duration `mapstructure:"stream_max_duration"`
	GracefulShutdownDelay time.Duration `mapstructure:"graceful_shutdown_delay"`
}

type DatabaseConfig struct {
	URL             string        `mapstructure:"url"`
	RunMigrations   bool          `mapstructure:"run_migrations"`
	MigrationsDir   string        `mapstructure:"migrations_dir"`
	MaxConns        int32         `mapstructure:"max_conns"`
	MinConns        int32         `mapstructure:"min_conns"`
	MaxConnIdleTime time.Duration `mapstructure:"max_conn_idle_time"`
	MaxConnLifetime time.Duration `mapstructure:"max_conn_lifetime"`
}

type RedisConfig struct {
	URL      string `mapstructure:"url"`
	DB       int    `mapstructure:"db"`
	PoolSize int    `mapstructure:"pool_size"`
}

type AuthConfig struct {
	JWTSecret string `mapstructure:"jwt_secret"`
	Issuer    string `mapstructure:"issuer"`
}

// UpstreamConfig points at the hosted completions gateway.
type UpstreamConfig struct {
	BaseURL         string        `mapstructure:"base_url"`
	APIKey          string        `mapstructure:"api_key"`
	ChatModel       string        `mapstructure:"chat_model"`
	TranscribeModel string        `mapstructure:"transcribe_model"`
	MaxTokens       int32         `mapstructure:"max_tokens"`
	Temperature     float32       `mapstructure:"temperature"`
	Timeout         time.Duration `mapstructure:"timeout"`
}

// LimitPolicy is a (max requests, trailing window) admission pair.
type LimitPolicy struct {
	MaxRequests int           `mapstructure:"max_requests"`
	Window      time.Duration `mapstructure:"window"`
}

type RateLimitConfig struct {
	Transcription LimitPolicy `mapstructure:"transcription"`
	Demo          LimitPolicy `mapstructure:"demo"`
}

type AudioConfig struct {
	MinBase64Chars int `mapstructure:"min_base64_chars"`
	MaxBase64Chars int `mapstructure:"max_base64_chars"`
}

type EmailConfig struct {
	FromName    string `mapstructure:"from_name"`
	FromAddress string `mapstructure:"from_address"`
}

type CORSConfig struct {
	AllowOrigins string `mapstructure:"allow_origins"`
	AllowHeaders string `mapstructure:"allow_headers"`
}

type ObservabilityConfig struct {
	EnableMetrics bool   `mapstructure:"enable_metrics"`
	EnableOTLP    bool   `mapstructure:"enable_otlp"`
	OTLPEndpoint  string `mapstructure:"otlp_endpoint"`
}

// Options controls the config loader behavior.
type Options struct {
	ConfigFile string
	EnvFile    string
}

// Load returns the merged configuration sourced from YAML and environment variables.
func Load(opts Options) (*Config, error) {
	if opts.EnvFile != "" {
		_ = godotenv.Load(opts.EnvFile)
	} else {
		_ = godotenv.Load()
	}

	v := viper.New()
	setDefaults(v)

	explicitFile := false
	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
		explicitFile = true
	} else if cfg := os.Getenv("TREVOR_CONFIG_FILE"); cfg != "" {
		v.SetConfigFile(cfg)
		explicitFile = true
	}

	if !explicitFile {
		// Allow standard lookup locations when no explicit file is provided.
		v.SetConfigName("trevor")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	v.SetEnvPrefix("TREVOR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg, viper.DecodeHook(timeStringToDurationHook())); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate ensures required values are set.
func (c *Config) Validate() error {
	var missing []string

	if c.Database.URL == "" {
		missing = append(missing, "TREVOR_DATABASE_URL")
	}
	if c.Redis.URL == "" {
		missing = append(missing, "TREVOR_REDIS_URL")
	}
	if c.Auth.JWTSecret == "" {
		missing = append(missing, "TREVOR_AUTH_JWT_SECRET")
	}
	if c.Upstream.BaseURL == "" {
		missing = append(missing, "TREVOR_UPSTREAM_BASE_URL")
	}
	if c.Upstream.APIKey == "" {
		missing = append(missing, "TREVOR_UPSTREAM_API_KEY")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}

	if c.RateLimits.Transcription.MaxRequests <= 0 || c.RateLimits.Transcription.Window <= 0 {
		return fmt.Errorf("rate_limits.transcription must have max_requests and window > 0")
	}
	if c.RateLimits.Demo.MaxRequests <= 0 || c.RateLimits.Demo.Window <= 0 {
		return fmt.Errorf("rate_limits.demo must have max_requests and window > 0")
	}
	if c.Audio.MinBase64Chars <= 0 || c.Audio.MaxBase64Chars <= c.Audio.MinBase64Chars {
		return fmt.Errorf("audio base64 bounds are invalid")
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.listen_addr", ":8080")
	v.SetDefault("server.body_limit_mb", 20)
	v.SetDefault("server.sync_timeout", "120s")
	v.SetDefault("server.stream_max_duration", "300s")
	v.SetDefault("server.graceful_shutdown_delay", "5s")

	v.SetDefault("database.run_migrations", true)
	v.SetDefault("database.migrations_dir", "./migrations")
	v.SetDefault("database.max_conns", 10)
	v.SetDefault("database.min_conns", 1)
	v.SetDefault("database.max_conn_idle_time", "10m")
	v.SetDefault("database.max_conn_lifetime", "1h")

	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.pool_size", 10)

	v.SetDefault("auth.issuer", "asktrevor")

	v.SetDefault("upstream.chat_model", "google/gemini-2.5-flash")
	v.SetDefault("upstream.transcribe_model", "whisper-1")
	v.SetDefault("upstream.max_tokens", 2048)
	v.SetDefault("upstream.temperature", 0.7)
	v.SetDefault("upstream.timeout", "120s")

	v.SetDefault("rate_limits.transcription.max_requests", 10)
	v.SetDefault("rate_limits.transcription.window", "1h")
	v.SetDefault("rate_limits.demo.max_requests", 5)
	v.SetDefault("rate_limits.demo.window", "1h")

	v.SetDefault("audio.min_base64_chars", 100)
	v.SetDefault("audio.max_base64_chars", 15_000_000)

	v.SetDefault("email.from_name", "Ask Trevor")
	v.SetDefault("email.from_address", "trevor@asktrevor.au")

	v.SetDefault("cors.allow_origins", "*")
	v.SetDefault("cors.allow_headers", "authorization, x-client-info, apikey, content-type")

	v.SetDefault("observability.enable_metrics", true)
	v.SetDefault("observability.enable_otlp", false)
	v.SetDefault("observability.otlp_endpoint", "http://localhost:4317")
}

func timeStringToDurationHook() mapstructure.DecodeHookFunc {
	return func(from reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
		if to != reflect.TypeOf(time.Duration(0)) {
			return data, nil
		}

		switch v := data.(type) {
		case time.Duration:
			return v, nil
		case string:
			d, err := time.ParseDuration(v)
			if err != nil {
				return nil, err
			}
			return d, nil
		default:
			return nil, fmt.Errorf("cannot decode %T into time.Duration", data)
		}
	}
}
