package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/spf13/viper"
)

// Holiday source types
const (
	HolidaySourceBuiltin = "builtin"
	HolidaySourceFile    = "file"
	HolidaySourceRemote  = "remote"
)

// Config represents application configuration
type Config struct {
	WorkingHours WorkingHoursConfig `mapstructure:"working_hours"`
	Zones        ZonesConfig        `mapstructure:"zones"`
	Holidays     HolidaysConfig     `mapstructure:"holidays"`
	Appointments AppointmentsConfig `mapstructure:"appointments"`
	Integration  IntegrationConfig  `mapstructure:"integration"`
	Clock        ClockConfig        `mapstructure:"clock"`
	Server       ServerConfig       `mapstructure:"server"`
	Logging      LoggingConfig      `mapstructure:"logging"`
}

// WorkingHoursConfig is the shared working-hours window
type WorkingHoursConfig struct {
	Start int `mapstructure:"start"`
	End   int `mapstructure:"end"`
	// Reference is the IANA zone whose wall-clock hours are the base hours;
	// empty means the local zone.
	Reference string `mapstructure:"reference"`
}

// ZonesConfig represents the default zone selection
type ZonesConfig struct {
	Default []string `mapstructure:"default"` // city IDs or names
}

// HolidaysConfig represents holiday source configuration
type HolidaysConfig struct {
	Source    string   `mapstructure:"source"` // "builtin", "file" or "remote"
	File      string   `mapstructure:"file"`
	APIURL    string   `mapstructure:"api_url"`
	Countries []string `mapstructure:"countries"`
	CacheTTL  string   `mapstructure:"cache_ttl"`
}

// AppointmentsConfig represents appointment storage configuration
type AppointmentsConfig struct {
	StateFile string `mapstructure:"state_file"`
}

// IntegrationConfig represents the calendar integration
type IntegrationConfig struct {
	ConnectDelay string  `mapstructure:"connect_delay"`
	SyncDelay    string  `mapstructure:"sync_delay"`
	DelayJitter  float64 `mapstructure:"delay_jitter"` // ±percent
	AutoSync     bool    `mapstructure:"auto_sync"`
	AutoSyncCron string  `mapstructure:"auto_sync_cron"`
	ExportFile   string  `mapstructure:"export_file"`
}

// ClockConfig represents world clock configuration
type ClockConfig struct {
	RefreshInterval string   `mapstructure:"refresh_interval"`
	Zones           []string `mapstructure:"zones"`
	SystemTray      bool     `mapstructure:"system_tray"` // Windows only
}

// ServerConfig represents HTTP API configuration
type ServerConfig struct {
	Listen          string `mapstructure:"listen"`
	RateLimit       int    `mapstructure:"rate_limit"` // requests per window per IP
	RateWindow      string `mapstructure:"rate_window"`
	ShutdownTimeout string `mapstructure:"shutdown_timeout"`
}

// LoggingConfig represents logging configuration
type LoggingConfig struct {
	File  string `mapstructure:"file"`
	Level string `mapstructure:"level"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("working_hours.start", 9)
	v.SetDefault("working_hours.end", 17)
	v.SetDefault("working_hours.reference", "")
	v.SetDefault("zones.default", []string{"New York", "London", "Tokyo"})
	v.SetDefault("holidays.source", HolidaySourceBuiltin)
	v.SetDefault("holidays.api_url", "https://date.nager.at")
	v.SetDefault("holidays.cache_ttl", "24h")
	v.SetDefault("appointments.state_file", "appointments.json")
	v.SetDefault("integration.connect_delay", "2s")
	v.SetDefault("integration.sync_delay", "1500ms")
	v.SetDefault("integration.delay_jitter", 10.0)
	v.SetDefault("integration.auto_sync", true)
	v.SetDefault("integration.auto_sync_cron", "@every 15m")
	v.SetDefault("integration.export_file", "appointments.ics")
	v.SetDefault("clock.refresh_interval", "1s")
	v.SetDefault("clock.system_tray", false)
	v.SetDefault("server.listen", ":8080")
	v.SetDefault("server.rate_limit", 100)
	v.SetDefault("server.rate_window", "1m")
	v.SetDefault("server.shutdown_timeout", "10s")
	v.SetDefault("logging.level", "info")
}

// Load loads configuration from file.
// With no explicit path a missing config file is not an error; defaults apply.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.global-calendar")
		v.AddConfigPath("/etc/global-calendar")
	}

	// GLOBAL_CALENDAR_SERVER_LISTEN overrides server.listen
	v.SetEnvPrefix("GLOBAL_CALENDAR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configPath != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	config.ExpandEnvVars()

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.WorkingHours.Start < 0 || c.WorkingHours.Start > 23 {
		return fmt.Errorf("working_hours.start must be between 0 and 23")
	}
	if c.WorkingHours.End < 0 || c.WorkingHours.End > 23 {
		return fmt.Errorf("working_hours.end must be between 0 and 23")
	}
	if c.WorkingHours.Start >= c.WorkingHours.End {
		return fmt.Errorf("working_hours.start must be before working_hours.end")
	}
	if c.WorkingHours.Reference != "" {
		if _, err := time.LoadLocation(c.WorkingHours.Reference); err != nil {
			return fmt.Errorf("working_hours.reference: unknown timezone '%s'", c.WorkingHours.Reference)
		}
	}

	if len(c.Zones.Default) > 3 {
		return fmt.Errorf("zones.default allows at most 3 zones, got %d", len(c.Zones.Default))
	}

	switch c.Holidays.Source {
	case HolidaySourceBuiltin:
	case HolidaySourceFile:
		if c.Holidays.File == "" {
			return fmt.Errorf("holidays.file is required for file source")
		}
	case HolidaySourceRemote:
		if c.Holidays.APIURL == "" {
			return fmt.Errorf("holidays.api_url is required for remote source")
		}
		if len(c.Holidays.Countries) == 0 {
			return fmt.Errorf("holidays.countries is required for remote source")
		}
	default:
		return fmt.Errorf("holidays.source must be 'builtin', 'file' or 'remote', got '%s'", c.Holidays.Source)
	}

	if c.Integration.DelayJitter < 0 || c.Integration.DelayJitter > 100 {
		return fmt.Errorf("integration.delay_jitter must be between 0 and 100")
	}
	if c.Integration.AutoSync {
		if _, err := cron.ParseStandard(c.Integration.AutoSyncCron); err != nil {
			return fmt.Errorf("integration.auto_sync_cron is invalid: %w", err)
		}
	}

	if c.Server.RateLimit < 0 {
		return fmt.Errorf("server.rate_limit must not be negative")
	}

	return nil
}

// parseDuration parses s, falling back to def when empty or malformed
func parseDuration(s string, def time.Duration) time.Duration {
	if s == "" {
		return def
	}
	duration, err := time.ParseDuration(s)
	if err != nil || duration < 0 {
		return def
	}
	return duration
}

// GetCacheTTL returns holiday cache TTL duration
func (c *HolidaysConfig) GetCacheTTL() time.Duration {
	return parseDuration(c.CacheTTL, 24*time.Hour)
}

// GetConnectDelay returns the simulated connect latency
func (c *IntegrationConfig) GetConnectDelay() time.Duration {
	return parseDuration(c.ConnectDelay, 2*time.Second)
}

// GetSyncDelay returns the simulated sync latency
func (c *IntegrationConfig) GetSyncDelay() time.Duration {
	return parseDuration(c.SyncDelay, 1500*time.Millisecond)
}

// GetRefreshInterval returns the world clock refresh interval
func (c *ClockConfig) GetRefreshInterval() time.Duration {
	d := parseDuration(c.RefreshInterval, time.Second)
	if d == 0 {
		return time.Second
	}
	return d
}

// GetRateWindow returns the rate limit window
func (c *ServerConfig) GetRateWindow() time.Duration {
	return parseDuration(c.RateWindow, time.Minute)
}

// GetShutdownTimeout returns the graceful shutdown timeout
func (c *ServerConfig) GetShutdownTimeout() time.Duration {
	return parseDuration(c.ShutdownTimeout, 10*time.Second)
}

// GetReferenceLocation returns the base-hour reference zone
func (c *WorkingHoursConfig) GetReferenceLocation() *time.Location {
	if c.Reference == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(c.Reference)
	if err != nil {
		return time.Local
	}
	return loc
}

// ExpandEnvVars expands environment variables in config paths
func (c *Config) ExpandEnvVars() {
	c.Holidays.File = os.ExpandEnv(c.Holidays.File)
	c.Appointments.StateFile = os.ExpandEnv(c.Appointments.StateFile)
	c.Integration.ExportFile = os.ExpandEnv(c.Integration.ExportFile)
	c.Logging.File = os.ExpandEnv(c.Logging.File)
}
