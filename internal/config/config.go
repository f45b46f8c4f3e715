package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

type AppConfig struct {
	API       *APIConfig       `mapstructure:"api"`
	Gin       *GinConfig       `mapstructure:"gin"`
	Postgres  *PostgresConfig  `mapstructure:"postgres"`
	Upstream  *UpstreamConfig  `mapstructure:"upstream"`
	Recommend *RecommendConfig `mapstructure:"recommend"`
	NewsFeed  *NewsFeedConfig  `mapstructure:"newsfeed"`
}

type APIConfig struct {
	Environment        string        `mapstructure:"environment"`
	Port               string        `mapstructure:"port"`
	Host               string        `mapstructure:"host"`
	AllowedCORSDomains []string      `mapstructure:"allowed_cors_domains"`
	JWTSigningKey      string        `mapstructure:"jwt_signing_key"`
	SessionTTL         time.Duration `mapstructure:"session_ttl"`
	LogLevel           string        `mapstructure:"log_level"`
}

type GinConfig struct {
	Mode string `mapstructure:"mode"`
}

type PostgresConfig struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DB       string `mapstructure:"db"`
	SSLMode  string `mapstructure:"sslmode"`
}

// UpstreamConfig points at the portal's REST backend.
type UpstreamConfig struct {
	BaseURL string `mapstructure:"base_url"`
	// Timeout of zero leaves upstream requests unbounded.
	Timeout time.Duration `mapstructure:"timeout"`
	// ViewIdleTTL bounds how long a list view's cached state survives without use.
	ViewIdleTTL time.Duration `mapstructure:"view_idle_ttl"`
}

type RecommendConfig struct {
	DefaultCity       string        `mapstructure:"default_city"`
	EmbeddingsURL     string        `mapstructure:"embeddings_url"`
	EmbeddingsAPIKey  string        `mapstructure:"embeddings_api_key"`
	ModelLoadingDelay time.Duration `mapstructure:"model_loading_delay"`
}

type NewsFeedConfig struct {
	Sources []FeedSource `mapstructure:"sources"`
	// Refresh is how long fetched partner items are served before refetching.
	Refresh time.Duration `mapstructure:"refresh"`
}

type FeedSource struct {
	URL  string `mapstructure:"url"`
	City string `mapstructure:"city"`
}

func Load(path string) (*AppConfig, error) {
	v := newViper(path)
	if err := v.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("v.ReadInConfig -> %w", err)
	}

	return decode(v)
}

// Watch re-reads the file at path whenever it changes and hands the fresh
// configuration to onChange. Decoding failures are reported through onError.
func Watch(path string, onChange func(*AppConfig), onError func(error)) error {
	v := newViper(path)
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("v.ReadInConfig -> %w", err)
	}

	v.OnConfigChange(func(fsnotify.Event) {
		conf, err := decode(v)
		if err != nil {
			onError(err)
			return
		}
		onChange(conf)
	})
	v.WatchConfig()

	return nil
}

func newViper(path string) *viper.Viper {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// The frontends always called this API_BASE_URL.
	_ = v.BindEnv("upstream.base_url", "UPSTREAM_BASE_URL", "API_BASE_URL")

	v.SetDefault("api.environment", "development")
	v.SetDefault("api.port", "8080")
	v.SetDefault("api.host", "localhost:8080")
	v.SetDefault("api.allowed_cors_domains", []string{"http://localhost:3000"})
	v.SetDefault("api.jwt_signing_key", "")
	v.SetDefault("api.session_ttl", 24*time.Hour)
	v.SetDefault("api.log_level", "info")
	v.SetDefault("gin.mode", "debug")
	v.SetDefault("postgres.host", "localhost")
	v.SetDefault("postgres.port", "5432")
	v.SetDefault("postgres.user", "postgres")
	v.SetDefault("postgres.password", "postgres")
	v.SetDefault("postgres.db", "portal")
	v.SetDefault("postgres.sslmode", "disable")
	v.SetDefault("upstream.base_url", "http://localhost:8000/api")
	v.SetDefault("upstream.timeout", time.Duration(0))
	v.SetDefault("upstream.view_idle_ttl", 30*time.Minute)
	v.SetDefault("recommend.default_city", "Ангарск")
	v.SetDefault("recommend.embeddings_url", "https://api-inference.huggingface.co/models/sentence-transformers/all-MiniLM-L6-v2")
	v.SetDefault("recommend.embeddings_api_key", "")
	v.SetDefault("recommend.model_loading_delay", 10*time.Second)
	v.SetDefault("newsfeed.sources", []FeedSource{})
	v.SetDefault("newsfeed.refresh", 15*time.Minute)

	return v
}

func decode(v *viper.Viper) (*AppConfig, error) {
	conf := &AppConfig{}
	if err := v.Unmarshal(conf); err != nil {
		return nil, fmt.Errorf("v.Unmarshal -> %w", err)
	}

	if conf.API.JWTSigningKey == "" {
		return nil, errors.New("api.jwt_signing_key must be set")
	}

	return conf, nil
}
