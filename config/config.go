package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const AppName = "sportzone-cli"

// DefaultCheckoutURL is Razorpay's hosted checkout page.
const DefaultCheckoutURL = "https://api.razorpay.com/v1/checkout/embedded"

type CacheBackend string

const (
	CacheFile  CacheBackend = "file"
	CacheRedis CacheBackend = "redis"
)

// Config holds every tunable of the client.
type Config struct {
	APIURL      string        `mapstructure:"api_url"`
	Timeout     time.Duration `mapstructure:"timeout"`
	MaxAttempts int           `mapstructure:"max_attempts"`
	RateLimit   float64       `mapstructure:"rate_limit"`
	RateBurst   int           `mapstructure:"rate_burst"`

	Env      string `mapstructure:"env"`
	LogLevel string `mapstructure:"log_level"`
	LogFile  string `mapstructure:"log_file"`

	Cache         CacheBackend `mapstructure:"cache"`
	RedisAddr     string       `mapstructure:"redis_addr"`
	RedisPassword string       `mapstructure:"redis_password"`
	RedisDB       int          `mapstructure:"redis_db"`

	CallbackAddr    string        `mapstructure:"callback_addr"`
	CheckoutURL     string        `mapstructure:"checkout_url"`
	CheckoutTimeout time.Duration `mapstructure:"checkout_timeout"`
	Currency        string        `mapstructure:"currency"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("api_url", "http://localhost:8080")
	v.SetDefault("timeout", 12*time.Second)
	v.SetDefault("max_attempts", 3)
	v.SetDefault("rate_limit", 10.0)
	v.SetDefault("rate_burst", 5)
	v.SetDefault("env", "development")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_file", "")
	v.SetDefault("cache", string(CacheFile))
	v.SetDefault("redis_addr", "localhost:6379")
	v.SetDefault("redis_password", "")
	v.SetDefault("redis_db", 0)
	v.SetDefault("callback_addr", "127.0.0.1:8765")
	v.SetDefault("checkout_url", DefaultCheckoutURL)
	v.SetDefault("checkout_timeout", 10*time.Minute)
	v.SetDefault("currency", "INR")
}

// BindFlags registers the persistent flags that override config values.
func BindFlags(flags *pflag.FlagSet) {
	flags.String("config", "", "path to a config file (default: "+AppName+"/config.yaml in the user config dir)")
	flags.String("api-url", "", "base URL of the SportZone API")
	flags.String("log-level", "", "log level (debug, info, warn, error)")
	flags.String("log-file", "", "log file path, or - for stderr")
	flags.String("cache", "", "cache backend (file or redis)")
}

var flagKeys = map[string]string{
	"api-url":   "api_url",
	"log-level": "log_level",
	"log-file":  "log_file",
	"cache":     "cache",
}

// Load resolves configuration from defaults, an optional YAML file,
// SPORTZONE_* environment variables and, when given, command-line flags.
func Load(flags *pflag.FlagSet) (Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("SPORTZONE")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	explicit := ""
	if flags != nil {
		if f := flags.Lookup("config"); f != nil {
			explicit = strings.TrimSpace(f.Value.String())
		}
		for flag, key := range flagKeys {
			if f := flags.Lookup(flag); f != nil && f.Changed {
				if err := v.BindPFlag(key, f); err != nil {
					return Config{}, fmt.Errorf("bind flag %s: %w", flag, err)
				}
			}
		}
	}

	if explicit != "" {
		v.SetConfigFile(explicit)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		if dir, err := os.UserConfigDir(); err == nil {
			v.AddConfigPath(filepath.Join(dir, AppName))
		}
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if explicit != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.APIURL) == "" {
		return errors.New("api_url is required")
	}
	switch c.Cache {
	case CacheFile, CacheRedis:
	default:
		return fmt.Errorf("unknown cache backend %q", c.Cache)
	}
	if c.MaxAttempts < 1 {
		return errors.New("max_attempts must be at least 1")
	}
	return nil
}

func (c Config) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}

// LogPath returns where logs go; "-" means stderr.
func (c Config) LogPath() (string, error) {
	if strings.TrimSpace(c.LogFile) != "" {
		return c.LogFile, nil
	}
	return CachePath("sportzone.log")
}

// ConfigPath returns a file path inside the per-user config directory.
func ConfigPath(name string) (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, AppName, name), nil
}

// CachePath returns a file path inside the per-user cache directory.
func CachePath(name string) (string, error) {
	dir, err := os.UserCacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, AppName, name), nil
}
