package config

import (
	"os"
	"time"
)

type Config struct {
	// Database
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Session auth
	JWTSecret      string
	JWTExpiry      time.Duration
	GoogleClientID string

	// Server
	Port        string
	CORSOrigins string

	// MCP gateway (cmd/mcp)
	APIBase    string
	MCPAddr    string
	APITimeout time.Duration
}

func Load() *Config {
	return &Config{
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "day4"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		JWTSecret:      getEnv("JWT_SECRET", ""),
		JWTExpiry:      parseDuration(getEnv("JWT_EXPIRY", "168h")),
		GoogleClientID: getEnv("GOOGLE_CLIENT_ID", ""),

		Port:        getEnv("PORT", "8787"),
		CORSOrigins: getEnv("CORS_ORIGINS", "*"),

		APIBase:    getEnv("DAY4_API_BASE", "http://localhost:8787/api/chatbot"),
		MCPAddr:    getEnv("MCP_ADDR", ""),
		APITimeout: parseDuration(getEnv("DAY4_API_TIMEOUT", "10s")),
	}
}

func (c *Config) DSN() string {
	return "host=" + c.DBHost +
		" user=" + c.DBUser +
		" password=" + c.DBPassword +
		" dbname=" + c.DBName +
		" port=" + c.DBPort +
		" sslmode=" + c.DBSSLMode +
		" TimeZone=UTC"
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func parseDuration(s string) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return 10 * time.Second
	}
	return d
}
