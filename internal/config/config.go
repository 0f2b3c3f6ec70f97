package config

import (
	"errors"
	"log/slog"
	"net"
	"os"
	"strconv"
	"strings"
	"time"
)

var ErrPublicBind = errors.New("BIND_ADDR must be a loopback address in production unless ALLOW_PUBLIC_BIND=true")

type Config struct {
	Port            string
	BindAddr        string
	Env             string
	RateLimitRPS    float64
	RateLimitBurst  int
	ShutdownTimeout time.Duration
	AllowPublicBind bool
}

// Addr is the listen address for the HTTP server.
func (c Config) Addr() string {
	return net.JoinHostPort(c.BindAddr, c.Port)
}

func Load() Config {
	cfg := Config{
		Port:            getEnv("PORT", "8080"),
		BindAddr:        getEnv("BIND_ADDR", "127.0.0.1"),
		Env:             getEnv("ENV", "development"),
		RateLimitRPS:    getEnvFloat("RATE_LIMIT_RPS", 10),
		RateLimitBurst:  getEnvInt("RATE_LIMIT_BURST", 20),
		ShutdownTimeout: getEnvDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
		AllowPublicBind: getEnvBool("ALLOW_PUBLIC_BIND", false),
	}

	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	return cfg
}

// Validate rejects settings that would expose generated passwords beyond
// the local machine in production.
func (c Config) Validate() error {
	if c.Env == "production" && !c.AllowPublicBind && !isLoopback(c.BindAddr) {
		return ErrPublicBind
	}
	return nil
}

func isLoopback(host string) bool {
	if strings.EqualFold(host, "localhost") {
		return true
	}
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v, err := strconv.Atoi(getEnv(key, ""))
	if err != nil {
		return fallback
	}
	return v
}

func getEnvFloat(key string, fallback float64) float64 {
	v, err := strconv.ParseFloat(getEnv(key, ""), 64)
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}

func getEnvBool(key string, fallback bool) bool {
	v, err := strconv.ParseBool(getEnv(key, ""))
	if err != nil {
		return fallback
	}
	return v
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v, err := time.ParseDuration(getEnv(key, ""))
	if err != nil {
		return fallback
	}
	return v
}
