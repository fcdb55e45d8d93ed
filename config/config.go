// Package config loads application settings from a .env file and environment variables.
// Environment variables always take precedence over .env file values.
package config

import (
	"fmt"
	"log"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	// PostgreSQL – either set DatabaseURL directly, or the individual fields.
	DatabaseURL string
	DBUser      string
	DBPass      string
	DBHost      string
	DBPort      string
	DBName      string
	DBSSLMode   string

	// JWT signing secret (required in production).
	JWTSecret string

	// Server
	Debug      bool
	Port       string
	TLSDomains []string

	// Race defaults, used when a start-race request leaves them unset.
	RaceDistanceKM float64
	EntryFee       float64
	PrizeFirst     float64
	PrizeSecond    float64
	PrizeThird     float64

	// Starting budget for newly created teams.
	DefaultTeamBudget float64

	// MySQL – used only by cmd/migrate for the legacy rally database.
	MySQLDSN string
}

// Load reads configuration from a .env file (if present) and then from
// environment variables. Environment variables always win.
func Load() *Config {
	v := newViper()

	// Defaults
	v.SetDefault("DB_USER", "rally")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_NAME", "rallydata")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("PORT", ":9000")
	v.SetDefault("TLS_DOMAINS", "")
	v.SetDefault("DEBUG", false)
	v.SetDefault("RACE_DISTANCE_KM", 100.0)
	v.SetDefault("ENTRY_FEE", 1000.0)
	v.SetDefault("PRIZE_FIRST", 5000.0)
	v.SetDefault("PRIZE_SECOND", 3000.0)
	v.SetDefault("PRIZE_THIRD", 1000.0)
	v.SetDefault("DEFAULT_TEAM_BUDGET", 5000.0)

	cfg := &Config{
		DatabaseURL:       v.GetString("DATABASE_URL"),
		DBUser:            v.GetString("DB_USER"),
		DBPass:            v.GetString("DB_PASS"),
		DBHost:            v.GetString("DB_HOST"),
		DBPort:            v.GetString("DB_PORT"),
		DBName:            v.GetString("DB_NAME"),
		DBSSLMode:         v.GetString("DB_SSLMODE"),
		JWTSecret:         v.GetString("JWT_SECRET"),
		Debug:             v.GetBool("DEBUG"),
		Port:              v.GetString("PORT"),
		TLSDomains:        splitTrimmed(v.GetString("TLS_DOMAINS")),
		RaceDistanceKM:    v.GetFloat64("RACE_DISTANCE_KM"),
		EntryFee:          v.GetFloat64("ENTRY_FEE"),
		PrizeFirst:        v.GetFloat64("PRIZE_FIRST"),
		PrizeSecond:       v.GetFloat64("PRIZE_SECOND"),
		PrizeThird:        v.GetFloat64("PRIZE_THIRD"),
		DefaultTeamBudget: v.GetFloat64("DEFAULT_TEAM_BUDGET"),
		MySQLDSN:          v.GetString("MYSQL_DSN"),
	}

	cfg.validate()
	return cfg
}

// PostgresDSN returns the full PostgreSQL connection string.
// DATABASE_URL takes precedence over individual fields.
func (c *Config) PostgresDSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.DBUser,
		c.DBPass,
		c.DBHost,
		c.DBPort,
		c.DBName,
		c.DBSSLMode,
	)
}

// JWTKey returns the JWT signing key as a byte slice.
func (c *Config) JWTKey() []byte {
	return []byte(c.JWTSecret)
}

// Prizes returns the three default prize amounts for positions 1..3.
func (c *Config) Prizes() []float64 {
	return []float64{c.PrizeFirst, c.PrizeSecond, c.PrizeThird}
}

func (c *Config) validate() {
	if c.DatabaseURL == "" && c.DBPass == "" {
		log.Fatal("config: DATABASE_URL or DB_PASS must be set")
	}
	if c.JWTSecret == "" {
		log.Fatal("config: JWT_SECRET must be set")
	}
	if c.RaceDistanceKM <= 0 {
		log.Fatal("config: RACE_DISTANCE_KM must be positive")
	}
	if c.EntryFee < 0 || c.PrizeFirst < 0 || c.PrizeSecond < 0 || c.PrizeThird < 0 {
		log.Fatal("config: fee and prize amounts must be non-negative")
	}
}

func newViper() *viper.Viper {
	// Silently load .env – OK if the file doesn't exist (production uses real env vars).
	if err := godotenv.Load(); err != nil {
		log.Println("config: no .env file found, using environment variables only")
	}

	v := viper.New()
	v.AutomaticEnv()
	return v
}

func splitTrimmed(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}
