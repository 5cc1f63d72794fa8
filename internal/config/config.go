package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds the application configuration loaded from files and environment variables.
type Config struct {
	AppName  string `mapstructure:"app_name"`
	Env      string `mapstructure:"app_env"`
	LogLevel string `mapstructure:"log_level"`

	APIBaseURL   string        `mapstructure:"api_base_url"`
	APITimeoutMs int64         `mapstructure:"api_timeout_ms"`
	APITimeout   time.Duration `mapstructure:"-"`

	CameraPermission   string `mapstructure:"camera_permission"`
	CameraMaxDimension int    `mapstructure:"camera_max_dimension"`
	CameraQuality      int    `mapstructure:"camera_quality"`

	LocationPermission string   `mapstructure:"location_permission"`
	LocationProvider   string   `mapstructure:"location_provider"`
	LocationURL        string   `mapstructure:"location_url"`
	LocationLatitude   *float64 `mapstructure:"location_latitude"`
	LocationLongitude  *float64 `mapstructure:"location_longitude"`

	PublishersFile string `mapstructure:"publishers_file"`
}

const (
	PermissionAsk     = "ask"
	PermissionGranted = "granted"
	PermissionDenied  = "denied"

	LocationProviderStatic = "static"
	LocationProviderHTTP   = "http"
)

// Load reads configuration from environment variables and config files.
func Load() (*Config, error) {
	_ = godotenv.Load("configs/.env")

	v := viper.New()

	v.SetDefault("app_name", "defect-reporter")
	v.SetDefault("app_env", "development")
	v.SetDefault("log_level", "info")
	v.SetDefault("api_base_url", "http://localhost:3000/api")
	v.SetDefault("api_timeout_ms", 10000)
	v.SetDefault("camera_permission", PermissionAsk)
	v.SetDefault("camera_max_dimension", 1024)
	v.SetDefault("camera_quality", 50)
	v.SetDefault("location_permission", PermissionAsk)
	v.SetDefault("location_provider", LocationProviderStatic)
	v.SetDefault("location_url", "https://ipapi.co/json/")
	v.SetDefault("publishers_file", "")

	v.AutomaticEnv()
	// Static coordinates have no default: an unset fix must fail rather than read
	// as (0, 0).
	_ = v.BindEnv("location_latitude")
	_ = v.BindEnv("location_longitude")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// StaticFix reports the configured static coordinates, if both are set.
func (c *Config) StaticFix() (lat, lon float64, ok bool) {
	if c.LocationLatitude == nil || c.LocationLongitude == nil {
		return 0, 0, false
	}
	return *c.LocationLatitude, *c.LocationLongitude, true
}

// normalize validates raw values and derives durations.
func (c *Config) normalize() error {
	c.APIBaseURL = strings.TrimRight(strings.TrimSpace(c.APIBaseURL), "/")
	if c.APIBaseURL == "" {
		return fmt.Errorf("api_base_url is required")
	}
	if u, err := url.Parse(c.APIBaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid api_base_url %q", c.APIBaseURL)
	}

	if c.APITimeoutMs <= 0 {
		return fmt.Errorf("invalid api_timeout_ms (must be positive milliseconds)")
	}
	c.APITimeout = time.Duration(c.APITimeoutMs) * time.Millisecond

	var err error
	if c.CameraPermission, err = normalizePermission("camera_permission", c.CameraPermission); err != nil {
		return err
	}
	if c.LocationPermission, err = normalizePermission("location_permission", c.LocationPermission); err != nil {
		return err
	}

	if c.CameraMaxDimension <= 0 {
		return fmt.Errorf("invalid camera_max_dimension (must be positive pixels)")
	}
	if c.CameraQuality < 1 || c.CameraQuality > 100 {
		return fmt.Errorf("invalid camera_quality (must be between 1 and 100)")
	}

	c.LocationProvider = strings.ToLower(strings.TrimSpace(c.LocationProvider))
	switch c.LocationProvider {
	case LocationProviderStatic:
	case LocationProviderHTTP:
		if strings.TrimSpace(c.LocationURL) == "" {
			return fmt.Errorf("location_url is required for the http location provider")
		}
	default:
		return fmt.Errorf("unsupported location_provider %q", c.LocationProvider)
	}

	if (c.LocationLatitude == nil) != (c.LocationLongitude == nil) {
		return fmt.Errorf("location_latitude and location_longitude must be set together")
	}

	c.PublishersFile = strings.TrimSpace(c.PublishersFile)
	return nil
}

func normalizePermission(key, val string) (string, error) {
	val = strings.ToLower(strings.TrimSpace(val))
	switch val {
	case PermissionAsk, PermissionGranted, PermissionDenied:
		return val, nil
	default:
		return "", fmt.Errorf("invalid %s %q (expected ask, granted or denied)", key, val)
	}
}
