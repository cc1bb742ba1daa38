package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// Conf holds the application configuration, making it accessible globally.
var Conf *Config

// Config struct is the top-level configuration structure.
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Services   ServicesConfig   `mapstructure:"services"`
	Transcribe TranscribeConfig `mapstructure:"transcribe"`
	Evaluate   EvaluateConfig   `mapstructure:"evaluate"`
	Status     StatusConfig     `mapstructure:"status"`
	Logging    LoggingConfig    `mapstructure:"logging"`
}

// ServerConfig holds settings for the dashboard's own HTTP server.
type ServerConfig struct {
	Port string `mapstructure:"port"`
}

// ServicesConfig holds the base URLs of the remote services the dashboard
// talks to. All heavy computation happens behind these URLs.
type ServicesConfig struct {
	Transcriptor string `mapstructure:"transcriptor"`
	Judge        string `mapstructure:"judge"`
	Ollama       string `mapstructure:"ollama"`
}

// TranscribeConfig holds defaults for transcription requests.
type TranscribeConfig struct {
	NumSpeakers    int  `mapstructure:"num_speakers"`
	UseGPU         bool `mapstructure:"use_gpu"`
	RevealDelayMs  int  `mapstructure:"reveal_delay_ms"`
	TimeoutMinutes int  `mapstructure:"timeout_minutes"`
}

// EvaluateConfig holds defaults for AI-judge evaluation requests.
type EvaluateConfig struct {
	VisionModel    string `mapstructure:"vision_model"`
	EvalModel      string `mapstructure:"eval_model"`
	TimeoutMinutes int    `mapstructure:"timeout_minutes"`
}

// StatusConfig holds settings for the background health poller.
type StatusConfig struct {
	PollIntervalSeconds int `mapstructure:"poll_interval_seconds"`
	ProbeTimeoutSeconds int `mapstructure:"probe_timeout_seconds"`
}

// LoggingConfig holds settings for the logger.
type LoggingConfig struct {
	Directory  string `mapstructure:"directory"`
	MaxSize    int    `mapstructure:"max_size"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAge     int    `mapstructure:"max_age"`
	Compress   bool   `mapstructure:"compress"`
}

// RevealDelay returns the artificial pause between revealed segments in
// simulated-streaming transcription mode.
func (c TranscribeConfig) RevealDelay() time.Duration {
	return time.Duration(c.RevealDelayMs) * time.Millisecond
}

// Timeout returns the request timeout for blocking transcription calls.
func (c TranscribeConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutMinutes) * time.Minute
}

// Timeout returns the request timeout for a full evaluation stream.
func (c EvaluateConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutMinutes) * time.Minute
}

// PollInterval returns how often the health poller fires.
func (c StatusConfig) PollInterval() time.Duration {
	return time.Duration(c.PollIntervalSeconds) * time.Second
}

// ProbeTimeout returns the per-probe timeout. Kept short so a down
// dependency is reported promptly.
func (c StatusConfig) ProbeTimeout() time.Duration {
	return time.Duration(c.ProbeTimeoutSeconds) * time.Second
}

// setDefaults sets the default values for the configuration.
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8501")

	// Remote service defaults
	v.SetDefault("services.transcriptor", "http://localhost:8000")
	v.SetDefault("services.judge", "http://localhost:8080")
	v.SetDefault("services.ollama", "http://localhost:11434")

	// Transcription defaults
	v.SetDefault("transcribe.num_speakers", 4)
	v.SetDefault("transcribe.use_gpu", true)
	v.SetDefault("transcribe.reveal_delay_ms", 150)
	v.SetDefault("transcribe.timeout_minutes", 10)

	// Evaluation defaults
	v.SetDefault("evaluate.vision_model", "llava")
	v.SetDefault("evaluate.eval_model", "llama3.2")
	v.SetDefault("evaluate.timeout_minutes", 10)

	// Health poller defaults
	v.SetDefault("status.poll_interval_seconds", 30)
	v.SetDefault("status.probe_timeout_seconds", 5)

	// Logging defaults
	v.SetDefault("logging.directory", "logs")
	v.SetDefault("logging.max_size", 10)   // 10 MB
	v.SetDefault("logging.max_backups", 3) // Keep 3 backups
	v.SetDefault("logging.max_age", 7)     // 7 days
	v.SetDefault("logging.compress", true) // Compress old logs
}

// Init initializes the configuration with Viper.
func Init(projectRoot string, log *zap.Logger) error {
	v := viper.New()

	// Set default values
	setDefaults(v)

	// --- File Configuration ---
	v.AddConfigPath(filepath.Join(projectRoot, "config"))
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	// --- Environment Variable Binding ---
	v.SetEnvPrefix("JUDGEBOARD") // e.g., JUDGEBOARD_SERVER_PORT
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read the initial configuration from the file.
	// It's okay if the file doesn't exist; defaults and env vars will be used.
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}

	// Unmarshal the config into our global Conf variable
	if err := v.Unmarshal(&Conf); err != nil {
		return fmt.Errorf("unable to decode config into struct: %w", err)
	}

	// Set up a watch for configuration changes for hot-reloading
	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		log.Info("Configuration file changed, reloading.", zap.String("file", e.Name))
		if err := v.Unmarshal(&Conf); err != nil {
			log.Error("Error reloading configuration", zap.Error(err))
		}
	})

	log.Info("Configuration loaded successfully")
	return nil
}
