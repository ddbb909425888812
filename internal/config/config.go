package config

import (
	"fmt"
	"path/filepath"
	"strings"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

type Config struct {
	Catalog  CatalogConfig  `mapstructure:"catalog"`
	Learning LearningConfig `mapstructure:"learning"`
	Database DatabaseConfig `mapstructure:"database"`
	Assets   AssetsConfig   `mapstructure:"assets"`
	Settings SettingsConfig `mapstructure:"settings"`
	Matching MatchingConfig `mapstructure:"matching"`
}

type CatalogConfig struct {
	WordsFile  string `mapstructure:"words_file" validate:"required,file"`
	VoicesFile string `mapstructure:"voices_file" validate:"omitempty,file"`
}

type LearningConfig struct {
	// Backend is where the known/ignored/favorite sets are stored: yaml or database.
	Backend   string `mapstructure:"backend" validate:"oneof=yaml database"`
	StateFile string `mapstructure:"state_file" validate:"required_if=Backend yaml"`
}

type DatabaseConfig struct {
	Driver          string            `mapstructure:"driver" validate:"oneof=mysql sqlite3"`
	Path            string            `mapstructure:"path" validate:"required_if=Driver sqlite3"`
	Host            string            `mapstructure:"host"`
	Port            int               `mapstructure:"port"`
	Database        string            `mapstructure:"database"`
	Username        string            `mapstructure:"username"`
	Password        string            `mapstructure:"password"`
	TLS             bool              `mapstructure:"tls"`
	Params          map[string]string `mapstructure:"params"`
	MaxOpenConns    int               `mapstructure:"max_open_conns"`
	MaxIdleConns    int               `mapstructure:"max_idle_conns"`
	ConnMaxLifetime int               `mapstructure:"conn_max_lifetime_seconds"`
}

type AssetsConfig struct {
	BaseURL        string `mapstructure:"base_url" validate:"omitempty,url"`
	CacheDirectory string `mapstructure:"cache_directory" validate:"required"`
	RetryAttempts  uint   `mapstructure:"retry_attempts" validate:"max=10"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds" validate:"min=1"`
	// Player is the command used to play audio files. Empty picks one by OS.
	Player string `mapstructure:"player"`
}

type SettingsConfig struct {
	File string `mapstructure:"file" validate:"required"`
}

type MatchingConfig struct {
	BoardSize int `mapstructure:"board_size" validate:"min=1,max=20"`
}

type ConfigLoader struct {
	viper      *viper.Viper
	validator  *validator.Validate
	translator ut.Translator
}

func NewConfigLoader(configFile string) (*ConfigLoader, error) {
	validate, trans, err := NewValidator()
	if err != nil {
		return nil, fmt.Errorf("failed to create new validator: %w", err)
	}

	v := viper.New()
	v.SetConfigType("yaml")
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/alg")
	}

	return &ConfigLoader{
		viper:      v,
		validator:  validate,
		translator: trans,
	}, nil
}

func (loader *ConfigLoader) Load() (*Config, error) {
	v := loader.viper

	v.SetDefault("catalog.words_file", filepath.Join("catalog", "word.json"))
	v.SetDefault("catalog.voices_file", "")
	v.SetDefault("learning.backend", "yaml")
	v.SetDefault("learning.state_file", filepath.Join("data", "learning_state.yml"))
	v.SetDefault("database.driver", "sqlite3")
	v.SetDefault("database.path", filepath.Join("data", "alg.db"))
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 3306)
	v.SetDefault("database.database", "local")
	v.SetDefault("database.username", "user")
	v.SetDefault("assets.base_url", "https://algaudio.blob.core.windows.net")
	v.SetDefault("assets.cache_directory", filepath.Join("cache", "assets"))
	v.SetDefault("assets.retry_attempts", 2)
	v.SetDefault("assets.timeout_seconds", 15)
	v.SetDefault("settings.file", filepath.Join("data", "settings.yml"))
	v.SetDefault("matching.board_size", 5)

	// Bind the asset host to an environment variable so it can be switched per environment
	if err := v.BindEnv("assets.base_url", "ALG_ASSETS_BASE_URL"); err != nil {
		return nil, fmt.Errorf("failed to bind ALG_ASSETS_BASE_URL environment variable: %w", err)
	}

	// Bind database password to environment variable
	if err := v.BindEnv("database.password", "DB_PASSWORD"); err != nil {
		return nil, fmt.Errorf("failed to bind DB_PASSWORD environment variable: %w", err)
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("configuration file found but could not be read: %w. Please check the file format and permissions", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration format: %w", err)
	}

	if err := loader.validator.Struct(cfg); err != nil {
		validationErrors := err.(validator.ValidationErrors)
		var errorMsgs []string
		for _, e := range validationErrors {
			errorMsgs = append(errorMsgs, e.Translate(loader.translator))
		}
		return nil, fmt.Errorf("invalid configuration: %s", strings.Join(errorMsgs, ", "))
	}

	return &cfg, nil
}
