package config

import (
	"errors"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type AppConfig struct {
	HTTP      HTTPConfig      `mapstructure:"http"`
	Postgres  PostgresConfig  `mapstructure:"postgres"`
	Mongo     MongoConfig     `mapstructure:"mongo"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Auth      AuthConfig      `mapstructure:"auth"`
	AI        AIConfig        `mapstructure:"ai"`
	RateLimit RateLimitConfig `mapstructure:"ratelimit"`
	Storage   StorageConfig   `mapstructure:"storage"`
	Workers   WorkersConfig   `mapstructure:"workers"`
	LogLevel  string          `mapstructure:"log_level"`
}

type HTTPConfig struct {
	Port        string   `mapstructure:"port"`
	CORSOrigins []string `mapstructure:"cors_origins"`
}

type PostgresConfig struct {
	URI string `mapstructure:"uri"`
}

type MongoConfig struct {
	URI string `mapstructure:"uri"`
	DB  string `mapstructure:"db"`
}

type RedisConfig struct {
	Addr string `mapstructure:"addr"`
}

type AuthConfig struct {
	JWTSecret   string `mapstructure:"jwt_secret"`
	JWTIssuer   string `mapstructure:"jwt_issuer"`
	JWTAudience string `mapstructure:"jwt_audience"`
}

type AIConfig struct {
	// Provider is one of genai, vertex, langchain.
	Provider          string        `mapstructure:"provider"`
	APIKey            string        `mapstructure:"api_key"`
	APIKeyFile        string        `mapstructure:"api_key_file"`
	Model             string        `mapstructure:"model"`
	LiveModel         string        `mapstructure:"live_model"`
	LiveURL           string        `mapstructure:"live_url"`
	Voice             string        `mapstructure:"voice"`
	Project           string        `mapstructure:"project"`
	Location          string        `mapstructure:"location"`
	Timeout           time.Duration `mapstructure:"timeout"`
	RequestsPerSecond float64       `mapstructure:"requests_per_second"`
	Burst             int           `mapstructure:"burst"`
}

type RateLimitConfig struct {
	// Store is memory or redis.
	Store     string      `mapstructure:"store"`
	Questions LimitConfig `mapstructure:"questions"`
	Assist    LimitConfig `mapstructure:"assist"`
	Interview LimitConfig `mapstructure:"interview"`
}

type LimitConfig struct {
	MaxRequests int           `mapstructure:"max_requests"`
	Window      time.Duration `mapstructure:"window"`
}

type StorageConfig struct {
	Bucket string `mapstructure:"bucket"`
}

type WorkersConfig struct {
	Count int `mapstructure:"count"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("http.port", "8080")
	v.SetDefault("http.cors_origins", []string{"*"})
	v.SetDefault("postgres.uri", "")
	v.SetDefault("mongo.uri", "")
	v.SetDefault("mongo.db", "careerpilot")
	v.SetDefault("redis.addr", "")
	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("auth.jwt_issuer", "")
	v.SetDefault("auth.jwt_audience", "")
	v.SetDefault("ai.provider", "genai")
	v.SetDefault("ai.api_key", "")
	v.SetDefault("ai.api_key_file", "")
	v.SetDefault("ai.model", "gemini-2.5-flash")
	v.SetDefault("ai.live_model", "models/gemini-2.0-flash-live-001")
	v.SetDefault("ai.live_url", "wss://generativelanguage.googleapis.com/ws/google.ai.generativelanguage.v1beta.GenerativeService.BidiGenerateContent")
	v.SetDefault("ai.voice", "Puck")
	v.SetDefault("ai.project", "")
	v.SetDefault("ai.location", "us-central1")
	v.SetDefault("ai.timeout", 30*time.Second)
	v.SetDefault("ai.requests_per_second", 2.0)
	v.SetDefault("ai.burst", 4)
	v.SetDefault("ratelimit.store", "memory")
	v.SetDefault("ratelimit.questions.max_requests", 5)
	v.SetDefault("ratelimit.questions.window", time.Minute)
	v.SetDefault("ratelimit.assist.max_requests", 10)
	v.SetDefault("ratelimit.assist.window", time.Minute)
	v.SetDefault("ratelimit.interview.max_requests", 3)
	v.SetDefault("ratelimit.interview.window", 10*time.Minute)
	v.SetDefault("storage.bucket", "")
	v.SetDefault("workers.count", 3)
	v.SetDefault("log_level", "info")
}

// Load reads defaults, the optional config file at path and the environment.
// Environment keys use underscores, e.g. AI_API_KEY or RATELIMIT_STORE.
func Load(path string) (*AppConfig, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, err
		}
	}

	var cfg AppConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *AppConfig) validate() error {
	switch c.AI.Provider {
	case "genai", "vertex", "langchain":
	default:
		return errors.New("ai.provider must be one of genai, vertex, langchain")
	}
	switch c.RateLimit.Store {
	case "memory", "redis":
	default:
		return errors.New("ratelimit.store must be memory or redis")
	}
	if c.AI.Timeout <= 0 {
		c.AI.Timeout = 30 * time.Second
	}
	return nil
}
