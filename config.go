package main

import (
	"net"
	"os"

	"github.com/go-sql-driver/mysql"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

// Config holds everything read from the environment at startup.
type Config struct {
	DBUser    string
	DBPass    string
	DBHost    string
	DBPort    string
	DBName    string
	JWTSecret string
	LogLevel  string
}

// LoadConfig reads .env (if present) and the process environment.
func LoadConfig() Config {
	if err := godotenv.Load(); err != nil {
		logger.Info().Msg("No .env file found, using process environment")
	}

	return Config{
		DBUser:    getEnv("DB_USER", "root"),
		DBPass:    os.Getenv("DB_PASS"),
		DBHost:    getEnv("DB_HOST", "localhost"),
		DBPort:    getEnv("DB_PORT", "3306"),
		DBName:    getEnv("DB_NAME", "productdb"),
		JWTSecret: os.Getenv("JWT_SECRET"),
		LogLevel:  getEnv("LOG_LEVEL", "info"),
	}
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

// ServerDSN points at the MySQL server without selecting a schema, so the
// schema itself can be created.
func (c Config) ServerDSN() string {
	return c.mysqlConfig("").FormatDSN()
}

// DSN points at the application schema.
func (c Config) DSN() string {
	return c.mysqlConfig(c.DBName).FormatDSN()
}

func (c Config) mysqlConfig(dbName string) *mysql.Config {
	cfg := mysql.NewConfig()
	cfg.User = c.DBUser
	cfg.Passwd = c.DBPass
	cfg.Net = "tcp"
	cfg.Addr = net.JoinHostPort(c.DBHost, c.DBPort)
	cfg.DBName = dbName
	cfg.ParseTime = true
	return cfg
}

// Level parses LogLevel, falling back to info.
func (c Config) Level() zerolog.Level {
	lvl, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil || c.LogLevel == "" {
		return zerolog.InfoLevel
	}
	return lvl
}
