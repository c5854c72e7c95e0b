package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Metrics    MetricsConfig    `mapstructure:"metrics"`
	Anonymizer AnonymizerConfig `mapstructure:"anonymizer"`
	Detection  DetectionConfig  `mapstructure:"detection"`
	Store      StoreConfig      `mapstructure:"store"`
	Redis      RedisConfig      `mapstructure:"redis"`
}

type ServerConfig struct {
	Port        int    `mapstructure:"port"`
	MetricsPort int    `mapstructure:"metrics_port"`
	BodyLimit   int    `mapstructure:"body_limit"`
	StaticDir   string `mapstructure:"static_dir"`
	DocsURL     string `mapstructure:"docs_url"`
}

type MetricsConfig struct {
	Enabled        bool `mapstructure:"enabled"`
	EnableLatency  bool `mapstructure:"enable_latency"`
	EnableDetector bool `mapstructure:"enable_detector"`
}

type AnonymizerConfig struct {
	PlaceholderMode   string `mapstructure:"placeholder_mode"`
	StrictDeanonymize bool   `mapstructure:"strict_deanonymize"`
}

type DetectionConfig struct {
	Regex RegexConfig `mapstructure:"regex"`
	NER   NERConfig   `mapstructure:"ner"`
	LLM   LLMConfig   `mapstructure:"llm"`
}

type RegexConfig struct {
	Enabled bool `mapstructure:"enabled"`
	// Labels restricts the regex matchers; empty means all.
	Labels []string `mapstructure:"labels"`
}

type NERConfig struct {
	Enabled             bool              `mapstructure:"enabled"`
	Endpoint            string            `mapstructure:"endpoint"`
	APIKey              string            `mapstructure:"api_key"`
	Model               string            `mapstructure:"model"`
	AggregationStrategy string            `mapstructure:"aggregation_strategy"`
	MinScore            float64           `mapstructure:"min_score"`
	Labels              []string          `mapstructure:"labels"`
	LabelMap            map[string]string `mapstructure:"label_map"`
	Timeout             time.Duration     `mapstructure:"timeout"`
	BreakerTimeout      time.Duration     `mapstructure:"breaker_timeout"`
	BreakerMaxFailures  uint32            `mapstructure:"breaker_max_failures"`
}

type LLMConfig struct {
	Enabled     bool          `mapstructure:"enabled"`
	BaseURL     string        `mapstructure:"base_url"`
	APIKey      string        `mapstructure:"api_key"`
	Model       string        `mapstructure:"model"`
	MaxAttempts int           `mapstructure:"max_attempts"`
	BaseBackoff time.Duration `mapstructure:"base_backoff"`
	MaxBackoff  time.Duration `mapstructure:"max_backoff"`
}

type StoreConfig struct {
	Driver   string        `mapstructure:"driver"`
	TTL      time.Duration `mapstructure:"ttl"`
	BoltPath string        `mapstructure:"bolt_path"`
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	TLS      bool   `mapstructure:"tls"`
}

var globalConfig Config

// Load reads config.yaml from configPath (falling back to ./config and .),
// applies environment overrides such as DETECTION_NER_ENDPOINT and fills in
// defaults. A missing file is not an error.
func Load(configPath string) error {
	cfg, err := loadConfigFile(configPath, "config")
	if err != nil {
		return err
	}
	globalConfig = *cfg
	return nil
}

func loadConfigFile(configPath, fileName string) (*Config, error) {
	v := viper.New()
	v.SetConfigName(fileName)
	v.SetConfigType("yaml")
	v.AddConfigPath(configPath)
	v.AddConfigPath("./config")
	v.AddConfigPath(".")

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaultValues(v)

	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return nil, fmt.Errorf("error reading config file %s.yaml: %w", fileName, err)
		}
	}

	cfg := new(Config)
	if err := v.Unmarshal(cfg, viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	))); err != nil {
		return nil, fmt.Errorf("failed to unmarshal %s config: %w", fileName, err)
	}
	return cfg, nil
}

// Every key needs a default so AutomaticEnv can override it during Unmarshal.
func setDefaultValues(v *viper.Viper) {
	v.SetDefault("server.port", 8000)
	v.SetDefault("server.metrics_port", 9090)
	v.SetDefault("server.body_limit", 4*1024*1024)
	v.SetDefault("server.static_dir", "./static")
	v.SetDefault("server.docs_url", "/swagger.json")

	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.enable_latency", true)
	v.SetDefault("metrics.enable_detector", true)

	v.SetDefault("anonymizer.placeholder_mode", "indexed")
	v.SetDefault("anonymizer.strict_deanonymize", false)

	v.SetDefault("detection.regex.enabled", true)
	v.SetDefault("detection.regex.labels", []string{})

	v.SetDefault("detection.ner.enabled", false)
	v.SetDefault("detection.ner.endpoint", "")
	v.SetDefault("detection.ner.api_key", "")
	v.SetDefault("detection.ner.model", "EvanD/xlm-roberta-base-romanian-ner-ronec")
	v.SetDefault("detection.ner.aggregation_strategy", "simple")
	v.SetDefault("detection.ner.min_score", 0.5)
	v.SetDefault("detection.ner.labels", []string{"PERSON", "ORG", "GPE", "LOC", "FACILITY"})
	v.SetDefault("detection.ner.label_map", map[string]string{})
	v.SetDefault("detection.ner.timeout", 10*time.Second)
	v.SetDefault("detection.ner.breaker_timeout", 30*time.Second)
	v.SetDefault("detection.ner.breaker_max_failures", 5)

	v.SetDefault("detection.llm.enabled", false)
	v.SetDefault("detection.llm.base_url", "")
	v.SetDefault("detection.llm.api_key", "")
	v.SetDefault("detection.llm.model", "gpt-4o-mini")
	v.SetDefault("detection.llm.max_attempts", 5)
	v.SetDefault("detection.llm.base_backoff", time.Second)
	v.SetDefault("detection.llm.max_backoff", 30*time.Second)

	v.SetDefault("store.driver", "none")
	v.SetDefault("store.ttl", time.Hour)
	v.SetDefault("store.bolt_path", "./data/anonymizations.db")

	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.tls", false)
}

func GetConfig() *Config {
	return &globalConfig
}
