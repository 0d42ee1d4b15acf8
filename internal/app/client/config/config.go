package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	defaultServerAddress = "localhost:8080"
	defaultLogLevel      = "info"
	defaultEnv           = "local"
	defaultDataDir       = ".grampos"
	defaultGSTPercent    = 18.0
	defaultSettleMS      = 800
	defaultPollSeconds   = 15
)

type Config struct {
	Env           string  `mapstructure:"app_env"`
	ServerAddress string  `mapstructure:"server_address"`
	LogLevel      string  `mapstructure:"log_level"`
	DataDir       string  `mapstructure:"data_dir"`
	StorePath     string  `mapstructure:"store_path"`
	GSTPercent    float64 `mapstructure:"gst_percent"`
	SettleMS      int     `mapstructure:"sync_settle_ms"`
	PollSeconds   int     `mapstructure:"connectivity_poll_seconds"`
	EnableTLS     bool    `mapstructure:"enable_tls"`
}

// MustLoad loads the device configuration from environment variables and an
// optional .env file, resolving the per-device data directory.
func MustLoad() *Config {
	envPath := ".env"
	if _, err := os.Stat(envPath); os.IsNotExist(err) {
		envPath = "../.env"
	}
	if _, err := os.Stat(envPath); err == nil {
		if err := godotenv.Load(envPath); err != nil {
			fmt.Printf("failed to load .env file: %v\n", err)
		}
	}

	viper.AutomaticEnv()

	viper.SetDefault("APP_ENV", defaultEnv)
	viper.SetDefault("SERVER_ADDRESS", defaultServerAddress)
	viper.SetDefault("LOG_LEVEL", defaultLogLevel)
	viper.SetDefault("DATA_DIR", defaultDataDir)
	viper.SetDefault("GST_PERCENT", defaultGSTPercent)
	viper.SetDefault("SYNC_SETTLE_MS", defaultSettleMS)
	viper.SetDefault("CONNECTIVITY_POLL_SECONDS", defaultPollSeconds)
	viper.SetDefault("ENABLE_TLS", false)

	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = "."
	}

	dataDir := viper.GetString("DATA_DIR")
	if dataDir == defaultDataDir {
		dataDir = filepath.Join(homeDir, dataDir)
	}
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		fmt.Printf("failed to create data directory: %v\n", err)
	}

	storePath := viper.GetString("STORE_PATH")
	if storePath == "" {
		storePath = filepath.Join(dataDir, "pos.db")
	}

	config := &Config{
		Env:           viper.GetString("APP_ENV"),
		ServerAddress: viper.GetString("SERVER_ADDRESS"),
		LogLevel:      viper.GetString("LOG_LEVEL"),
		DataDir:       dataDir,
		StorePath:     storePath,
		GSTPercent:    viper.GetFloat64("GST_PERCENT"),
		SettleMS:      viper.GetInt("SYNC_SETTLE_MS"),
		PollSeconds:   viper.GetInt("CONNECTIVITY_POLL_SECONDS"),
		EnableTLS:     viper.GetBool("ENABLE_TLS"),
	}

	if err := config.validate(); err != nil {
		panic(fmt.Sprintf("invalid configuration: %v", err))
	}

	return config
}

func (c *Config) validate() error {
	if c.ServerAddress == "" {
		return fmt.Errorf("server_address must not be empty")
	}
	if c.GSTPercent < 0 || c.GSTPercent > 100 {
		return fmt.Errorf("gst_percent must be within [0,100]")
	}
	return nil
}

// IsProd reports whether the client runs against a production backend.
func (c *Config) IsProd() bool {
	return c.Env == "prod"
}

// IsLocal reports whether the client runs in a local environment.
func (c *Config) IsLocal() bool {
	return c.Env == "local" || c.Env == ""
}
