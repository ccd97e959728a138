package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Config struct {
	Env      string
	HTTPAddr string

	DBDriver   string
	DBHost     string
	DBPort     int
	DBUser     string
	DBPassword string
	DBName     string
	SQLitePath string

	JWTSecret   string
	CORSOrigins []string

	LogLevel string
	LogJSON  bool

	CalendarBaseURL string
}

// Load reads the environment. A .env file in the working directory is
// applied first when present; real environment variables win.
func Load() *Config {
	_ = godotenv.Load()

	port, err := strconv.Atoi(os.Getenv("DB_PORT"))
	if err != nil {
		port = 5432 // fallback
	}
	logJSON, _ := strconv.ParseBool(os.Getenv("LOG_JSON"))

	return &Config{
		Env:      getenv("APP_ENV", "development"),
		HTTPAddr: getenv("HTTP_ADDR", ":8080"),

		DBDriver:   strings.ToLower(getenv("DB_DRIVER", DriverPostgres)),
		DBHost:     os.Getenv("DB_HOST"),
		DBPort:     port,
		DBUser:     os.Getenv("DB_USER"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     os.Getenv("DB_NAME"),
		SQLitePath: getenv("SQLITE_PATH", "./data/voicetracker.db"),

		JWTSecret:   os.Getenv("JWT_SECRET"),
		CORSOrigins: splitList(getenv("CORS_ORIGINS", "*")),

		LogLevel: getenv("LOG_LEVEL", "info"),
		LogJSON:  logJSON,

		CalendarBaseURL: getenv("CALENDAR_BASE_URL", "https://calendar.google.com/calendar/render"),
	}
}

// Validate rejects configurations the server cannot start with.
func (c *Config) Validate() error {
	var errs []error
	switch c.DBDriver {
	case DriverPostgres:
		if c.DBHost == "" || c.DBName == "" {
			errs = append(errs, errors.New("DB_HOST and DB_NAME are required for postgres"))
		}
	case DriverSQLite:
		if c.SQLitePath == "" {
			errs = append(errs, errors.New("SQLITE_PATH is required for sqlite"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown DB_DRIVER %q", c.DBDriver))
	}
	if c.JWTSecret == "" && c.Env != "development" {
		errs = append(errs, errors.New("JWT_SECRET is required outside development"))
	}
	return errors.Join(errs...)
}

// DSN is the data source name for the configured driver.
func (c *Config) DSN() string {
	if c.DBDriver == DriverSQLite {
		return c.SQLitePath
	}
	return c.ConnString()
}

func (c *Config) ConnString() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName,
	)
}

func getenv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
