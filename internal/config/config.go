package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"gazequest/internal/engine"
)

// Conf holds the application configuration, making it accessible globally.
var Conf *Config

// Config struct is the top-level configuration structure.
type Config struct {
	Server        ServerConfig   `mapstructure:"server"`
	Database      DatabaseConfig `mapstructure:"database"`
	Logging       LoggingConfig  `mapstructure:"logging"`
	Engine        engine.Config  `mapstructure:"engine"`
	Questionnaire string         `mapstructure:"questionnaire"`
}

// ServerConfig holds server-related settings.
type ServerConfig struct {
	Port          string `mapstructure:"port"`
	SessionSecret string `mapstructure:"session_secret"`
	// Idle runs older than this many minutes are abandoned by the janitor.
	RunExpiryMinutes int `mapstructure:"run_expiry_minutes"`
}

// DatabaseConfig holds database connection settings.
type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
}

// LoggingConfig holds settings for the logger.
type LoggingConfig struct {
	Directory  string `mapstructure:"directory"`
	MaxSize    int    `mapstructure:"max_size"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAge     int    `mapstructure:"max_age"`
	Compress   bool   `mapstructure:"compress"`
}

// setDefaults sets the default values for the configuration.
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "5050")
	v.SetDefault("server.session_secret", "change-me")
	v.SetDefault("server.run_expiry_minutes", 120)

	// Database defaults
	v.SetDefault("database.host", "db")
	v.SetDefault("database.port", "5432")
	v.SetDefault("database.user", "user")
	v.SetDefault("database.password", "password")
	v.SetDefault("database.dbname", "gazequest-db")

	// Logging defaults
	v.SetDefault("logging.directory", "logs")
	v.SetDefault("logging.max_size", 10)   // 10 MB
	v.SetDefault("logging.max_backups", 3) // Keep 3 backups
	v.SetDefault("logging.max_age", 7)     // 7 days
	v.SetDefault("logging.compress", true) // Compress old logs

	// Questionnaire definition
	v.SetDefault("questionnaire", "config/questionnaire.yaml")

	// Engine defaults mirror the stock question presets; any of these can be
	// overridden per questionnaire or per question.
	def := engine.DefaultConfig()
	v.SetDefault("engine.window_ms", def.WindowMS)
	v.SetDefault("engine.corr_threshold", def.CorrThreshold)
	v.SetDefault("engine.toggle_stable_samples", def.ToggleStableSamples)
	v.SetDefault("engine.submit_stable_samples", def.SubmitStableSamples)
	v.SetDefault("engine.use_lag_compensation", def.UseLagCompensation)
	v.SetDefault("engine.max_lag_ms", def.MaxLagMS)
	v.SetDefault("engine.option_frequency_hz", def.OptionFrequencyHz)
	v.SetDefault("engine.submit_frequency_hz", def.SubmitFrequencyHz)
	v.SetDefault("engine.proximity_sigma_px", def.ProximitySigmaPx)
	v.SetDefault("engine.proximity_weight", def.ProximityWeight)
	v.SetDefault("engine.toggle_cooldown_ms", def.ToggleCooldownMS)
	v.SetDefault("engine.submit_cooldown_ms", def.SubmitCooldownMS)
	v.SetDefault("engine.allow_empty_submit", def.AllowEmptySubmit)
	v.SetDefault("engine.dwell_threshold_ms", def.DwellThresholdMS)
	v.SetDefault("engine.blink_threshold_ms", def.BlinkThresholdMS)
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
	v.SetEnvPrefix("GAZEQUEST") // e.g., GAZEQUEST_SERVER_PORT
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
