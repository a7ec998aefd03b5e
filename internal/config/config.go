package config

import (
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config captures process level settings. All values come from the
// environment (optionally via a .env file).
type Config struct {
	ServerAddr       string
	ModelPath        string
	InferenceTimeout time.Duration
	DatabaseURL      string
	AMQPURL          string
	RetentionQueue   string
	LogLevel         string
	LogFormat        string
}

const (
	DefaultModelPath      = "models/churn_model.json"
	DefaultRetentionQueue = "retention_offers"
)

// LoadDotEnv loads .env into the process environment. It reports whether a
// file was found; a missing file is not an error.
func LoadDotEnv(files ...string) bool {
	return godotenv.Load(files...) == nil
}

// New returns a viper instance bound to the environment with defaults set.
// Commands can bind flags onto it before calling FromViper.
func New() *viper.Viper {
	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	v.SetDefault("server_addr", ":8080")
	v.SetDefault("model_path", DefaultModelPath)
	v.SetDefault("inference_timeout", 2*time.Second)
	v.SetDefault("database_url", "")
	v.SetDefault("amqp_url", "")
	v.SetDefault("retention_queue", DefaultRetentionQueue)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "json")
	return v
}

// FromViper reads a Config out of v.
func FromViper(v *viper.Viper) Config {
	timeout := v.GetDuration("inference_timeout")
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	return Config{
		ServerAddr:       v.GetString("server_addr"),
		ModelPath:        v.GetString("model_path"),
		InferenceTimeout: timeout,
		DatabaseURL:      v.GetString("database_url"),
		AMQPURL:          v.GetString("amqp_url"),
		RetentionQueue:   v.GetString("retention_queue"),
		LogLevel:         v.GetString("log_level"),
		LogFormat:        v.GetString("log_format"),
	}
}

// Load is New followed by FromViper.
func Load() Config {
	return FromViper(New())
}
