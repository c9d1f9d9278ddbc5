package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	toml "github.com/pelletier/go-toml/v2"
)

const (
	defaultFIRMSBaseURL = "https://firms.modaps.eosdis.nasa.gov/api/area/csv"
	defaultFIRMSTimeout = 60 * time.Second
	defaultConfigFile   = "config.toml"
	defaultCertName     = "cert.pem"
	defaultKeyName      = "key.pem"
)

// Config holds environment-driven settings for the fire data API.
type Config struct {
	MapKey         string
	Port           int
	FIRMSBaseURL   string
	FIRMSTimeout   time.Duration
	PinStartDate   bool
	CertFile       string
	KeyFile        string
	LogLevel       string
	MetricsEnabled bool
}

type fileConfig struct {
	MapKey         string `toml:"map_key"`
	Port           int    `toml:"port"`
	FIRMSBaseURL   string `toml:"firms_base_url"`
	FIRMSTimeout   string `toml:"firms_timeout"`
	PinStartDate   *bool  `toml:"pin_start_date"`
	CertFile       string `toml:"cert_file"`
	KeyFile        string `toml:"key_file"`
	LogLevel       string `toml:"log_level"`
	MetricsEnabled *bool  `toml:"metrics_enabled"`
}

// Load reads configuration from an optional TOML file and environment
// variables (optionally .env). Environment values win over the file.
func Load() (Config, error) {
	_ = godotenv.Load() // ignore missing file

	baseDir := executableDir()
	cfg := Config{
		Port:           8000,
		FIRMSBaseURL:   defaultFIRMSBaseURL,
		FIRMSTimeout:   defaultFIRMSTimeout,
		CertFile:       filepath.Join(baseDir, defaultCertName),
		KeyFile:        filepath.Join(baseDir, defaultKeyName),
		LogLevel:       "info",
		MetricsEnabled: true,
	}

	path := strings.TrimSpace(os.Getenv("CONFIG_FILE"))
	if path == "" {
		path = defaultConfigFile
	}
	if err := applyFile(&cfg, path); err != nil {
		return cfg, err
	}

	if v := strings.TrimSpace(os.Getenv("MAP_KEY")); v != "" {
		cfg.MapKey = v
	}
	if cfg.MapKey == "" {
		return cfg, errors.New("MAP_KEY is required")
	}

	if portStr := os.Getenv("PORT"); portStr != "" {
		if port, err := strconv.Atoi(portStr); err == nil && port > 0 {
			cfg.Port = port
		} else {
			return cfg, fmt.Errorf("invalid PORT: %s", portStr)
		}
	} else if portStr := os.Getenv("API_PORT"); portStr != "" {
		if port, err := strconv.Atoi(portStr); err == nil && port > 0 {
			cfg.Port = port
		} else {
			return cfg, fmt.Errorf("invalid API_PORT: %s", portStr)
		}
	}

	if v := strings.TrimSpace(os.Getenv("FIRMS_BASE_URL")); v != "" {
		cfg.FIRMSBaseURL = v
	}
	cfg.FIRMSBaseURL = strings.TrimRight(cfg.FIRMSBaseURL, "/")

	if v := strings.TrimSpace(os.Getenv("FIRMS_TIMEOUT")); v != "" {
		d, err := parseTimeout(v)
		if err != nil {
			return cfg, fmt.Errorf("invalid FIRMS_TIMEOUT: %w", err)
		}
		cfg.FIRMSTimeout = d
	}

	if v := strings.TrimSpace(os.Getenv("FIRMS_PIN_START_DATE")); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return cfg, fmt.Errorf("invalid FIRMS_PIN_START_DATE: %s", v)
		}
		cfg.PinStartDate = b
	}

	if v := strings.TrimSpace(os.Getenv("TLS_CERT_FILE")); v != "" {
		cfg.CertFile = v
	}
	if v := strings.TrimSpace(os.Getenv("TLS_KEY_FILE")); v != "" {
		cfg.KeyFile = v
	}

	if v := strings.TrimSpace(os.Getenv("LOG_LEVEL")); v != "" {
		cfg.LogLevel = v
	}

	if v := strings.TrimSpace(os.Getenv("METRICS_ENABLED")); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return cfg, fmt.Errorf("invalid METRICS_ENABLED: %s", v)
		}
		cfg.MetricsEnabled = b
	}

	return cfg, nil
}

// ListenAddr returns the host:port string for the HTTP server.
func (c Config) ListenAddr() string {
	return fmt.Sprintf(":%d", c.Port)
}

// TLSEnabled reports whether both the certificate and key files exist.
func (c Config) TLSEnabled() bool {
	return fileExists(c.CertFile) && fileExists(c.KeyFile)
}

func applyFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}

	var raw fileConfig
	if err := toml.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	if v := strings.TrimSpace(raw.MapKey); v != "" {
		cfg.MapKey = v
	}
	if raw.Port < 0 {
		return fmt.Errorf("invalid port in %s: %d", path, raw.Port)
	}
	if raw.Port > 0 {
		cfg.Port = raw.Port
	}
	if v := strings.TrimSpace(raw.FIRMSBaseURL); v != "" {
		cfg.FIRMSBaseURL = v
	}
	if v := strings.TrimSpace(raw.FIRMSTimeout); v != "" {
		d, err := parseTimeout(v)
		if err != nil {
			return fmt.Errorf("invalid firms_timeout in %s: %w", path, err)
		}
		cfg.FIRMSTimeout = d
	}
	if raw.PinStartDate != nil {
		cfg.PinStartDate = *raw.PinStartDate
	}
	if v := strings.TrimSpace(raw.CertFile); v != "" {
		cfg.CertFile = v
	}
	if v := strings.TrimSpace(raw.KeyFile); v != "" {
		cfg.KeyFile = v
	}
	if v := strings.TrimSpace(raw.LogLevel); v != "" {
		cfg.LogLevel = v
	}
	if raw.MetricsEnabled != nil {
		cfg.MetricsEnabled = *raw.MetricsEnabled
	}
	return nil
}

// parseTimeout accepts Go durations ("90s") or plain seconds ("90").
func parseTimeout(v string) (time.Duration, error) {
	if secs, err := strconv.Atoi(v); err == nil {
		if secs <= 0 {
			return 0, fmt.Errorf("must be positive: %s", v)
		}
		return time.Duration(secs) * time.Second, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, err
	}
	if d <= 0 {
		return 0, fmt.Errorf("must be positive: %s", v)
	}
	return d, nil
}

func executableDir() string {
	exe, err := os.Executable()
	if err != nil {
		return "."
	}
	return filepath.Dir(exe)
}

func fileExists(path string) bool {
	if strings.TrimSpace(path) == "" {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
