package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	AdminAPI AdminAPIConfig `mapstructure:"admin_api"`
	Calendar CalendarConfig `mapstructure:"calendar"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Auth     AuthConfig     `mapstructure:"auth"`
}

type ServerConfig struct {
	Port           int           `mapstructure:"port"`
	LogLevel       string        `mapstructure:"log_level"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	RateLimitRPS   float64       `mapstructure:"rate_limit_rps"`
	RateLimitBurst int           `mapstructure:"rate_limit_burst"`
}

// AdminAPIConfig describes the external admin API that owns the appointment
// and service data.
type AdminAPIConfig struct {
	BaseURL                string        `mapstructure:"base_url"`
	APIKey                 string        `mapstructure:"api_key"`
	AppointmentsPath       string        `mapstructure:"appointments_path"`
	PublicAppointmentsPath string        `mapstructure:"public_appointments_path"`
	ServicesPath           string        `mapstructure:"services_path"`
	DoctorsPath            string        `mapstructure:"doctors_path"`
	RequestTimeout         time.Duration `mapstructure:"request_timeout"`
	CatalogTTL             time.Duration `mapstructure:"catalog_ttl"`
}

// CalendarConfig is the clinic calendar policy: fixed hours of operation and
// the rules that govern slot generation. One clinic, one local timezone.
type CalendarConfig struct {
	OpenMinuteOfDay     int `mapstructure:"open_minute_of_day"`
	CloseMinuteOfDay    int `mapstructure:"close_minute_of_day"`
	SlotIntervalMinutes int `mapstructure:"slot_interval_minutes"`
	SameDayLeadMinutes  int `mapstructure:"same_day_lead_minutes"`
	MaxRangeDays        int `mapstructure:"max_range_days"`
}

type RedisConfig struct {
	URL        string        `mapstructure:"url"`
	SummaryTTL time.Duration `mapstructure:"summary_ttl"`
}

type AuthConfig struct {
	// Secret verifies tokens minted by the identity provider. Empty disables
	// authenticated bookings; anonymous bookings still work.
	PatientTokenSecret string `mapstructure:"patient_token_secret"`
}

func setDefaults() {
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.log_level", "info")
	viper.SetDefault("server.request_timeout", 30*time.Second)
	viper.SetDefault("server.rate_limit_rps", 50.0)
	viper.SetDefault("server.rate_limit_burst", 100)

	viper.SetDefault("admin_api.appointments_path", "/api/appointments")
	viper.SetDefault("admin_api.public_appointments_path", "/api/public/appointments")
	viper.SetDefault("admin_api.services_path", "/api/services")
	viper.SetDefault("admin_api.doctors_path", "/api/doctors")
	viper.SetDefault("admin_api.request_timeout", 10*time.Second)
	viper.SetDefault("admin_api.catalog_ttl", 10*time.Minute)

	viper.SetDefault("calendar.open_minute_of_day", 540)
	viper.SetDefault("calendar.close_minute_of_day", 1080)
	viper.SetDefault("calendar.slot_interval_minutes", 15)
	viper.SetDefault("calendar.same_day_lead_minutes", 60)
	viper.SetDefault("calendar.max_range_days", 60)

	viper.SetDefault("redis.summary_ttl", 5*time.Second)
}

func LoadConfig() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")

	setDefaults()
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := config.Calendar.Validate(); err != nil {
		return nil, fmt.Errorf("invalid calendar config: %w", err)
	}

	return &config, nil
}

// Validate rejects calendar policies that cannot produce a slot grid.
func (c CalendarConfig) Validate() error {
	if c.OpenMinuteOfDay < 0 || c.CloseMinuteOfDay > 24*60 {
		return fmt.Errorf("clinic hours must fall within a single day")
	}
	if c.OpenMinuteOfDay >= c.CloseMinuteOfDay {
		return fmt.Errorf("open minute %d must be before close minute %d", c.OpenMinuteOfDay, c.CloseMinuteOfDay)
	}
	if c.SlotIntervalMinutes <= 0 {
		return fmt.Errorf("slot interval must be positive")
	}
	if c.SameDayLeadMinutes < 0 {
		return fmt.Errorf("same-day lead time cannot be negative")
	}
	if c.MaxRangeDays <= 0 {
		return fmt.Errorf("max range days must be positive")
	}
	return nil
}

// DefaultCalendarConfig returns the clinic's stock policy: 09:00-18:00, a
// 15 minute grid, one hour of same-day lead time, 60 day query ceiling.
func DefaultCalendarConfig() CalendarConfig {
	return CalendarConfig{
		OpenMinuteOfDay:     540,
		CloseMinuteOfDay:    1080,
		SlotIntervalMinutes: 15,
		SameDayLeadMinutes:  60,
		MaxRangeDays:        60,
	}
}
