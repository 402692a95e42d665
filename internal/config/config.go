// Package config loads application configuration with viper: a YAML config
// file, environment variables, and defaults, in that precedence order below
// explicit flags.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config is the full application configuration.
type Config struct {
	Detector DetectorConfig `mapstructure:"detector"`
	OCR      OCRConfig      `mapstructure:"ocr"`
	Engine   EngineConfig   `mapstructure:"engine"`
	LLM      LLMConfig      `mapstructure:"llm"`
	Server   ServerConfig   `mapstructure:"server"`
}

// DetectorConfig selects and tunes the diagram detector. With an empty
// Endpoint the built-in heuristic detector is used.
type DetectorConfig struct {
	Endpoint    string        `mapstructure:"endpoint"`
	ModelConfig string        `mapstructure:"model_config"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

// OCRConfig tunes text recognition.
type OCRConfig struct {
	Language string `mapstructure:"language"`
}

// EngineConfig tunes reconstruction geometry. Thresholds are plain pixel
// distances; the engine squares them internally.
type EngineConfig struct {
	ConnectThreshold     float64 `mapstructure:"connect_threshold"`
	CardinalityThreshold float64 `mapstructure:"cardinality_threshold"`
}

// LLMConfig configures the code generation model. APIKey is usually supplied
// via the OPENAI_API_KEY environment variable rather than the config file.
type LLMConfig struct {
	APIKey      string  `mapstructure:"api_key"`
	Model       string  `mapstructure:"model"`
	Temperature float64 `mapstructure:"temperature"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Port         int    `mapstructure:"port"`
	DownloadsDir string `mapstructure:"downloads_dir"`
	WorkDir      string `mapstructure:"work_dir"`
}

// SetDefaults registers every default on v. Exposed to the CLI so flags,
// config file, and defaults resolve through one viper instance.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("detector.endpoint", "")
	v.SetDefault("detector.model_config", "")
	v.SetDefault("detector.timeout", 60*time.Second)
	v.SetDefault("ocr.language", "eng")
	v.SetDefault("engine.connect_threshold", 100.0)
	v.SetDefault("engine.cardinality_threshold", 50.0)
	v.SetDefault("llm.model", "gpt-4o-mini")
	v.SetDefault("llm.temperature", 0.2)
	v.SetDefault("server.port", 8000)
	v.SetDefault("server.downloads_dir", "downloads")
	v.SetDefault("server.work_dir", "")
}

// Load reads configuration from cfgFile (optional) plus the environment and
// returns the resolved Config. Environment variables use the ERD prefix with
// underscores, e.g. ERD_SERVER_PORT; the OpenAI key additionally falls back
// to the conventional OPENAI_API_KEY.
func Load(cfgFile string) (*Config, error) {
	v := viper.New()
	SetDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("erd-codegen")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix("ERD")
	v.AutomaticEnv()
	v.BindEnv("detector.endpoint", "ERD_DETECTOR_ENDPOINT")
	v.BindEnv("llm.api_key", "ERD_LLM_API_KEY", "OPENAI_API_KEY")
	v.BindEnv("llm.model", "ERD_LLM_MODEL")
	v.BindEnv("server.port", "ERD_SERVER_PORT")

	if err := v.ReadInConfig(); err != nil {
		// A missing default config file is fine; a broken one is not
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	return Unmarshal(v)
}

// Unmarshal decodes a resolved viper instance into a Config.
func Unmarshal(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return &cfg, nil
}
