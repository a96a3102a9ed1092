package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type APIConfig struct {
	Addr            string
	CatalogPath     string
	Seed            int64
	ShutdownTimeout time.Duration
}

type CLIConfig struct {
	APIBaseURL  string
	CatalogPath string
	Seed        int64
}

func LoadAPIFromEnv() APIConfig {
	addr := os.Getenv("PORT")
	if addr != "" {
		if !strings.HasPrefix(addr, ":") {
			addr = ":" + addr
		}
	} else {
		addr = envDefault("FINOPOLY_API_ADDR", ":8080")
	}

	return APIConfig{
		Addr:            addr,
		CatalogPath:     strings.TrimSpace(os.Getenv("FINOPOLY_CATALOG")),
		Seed:            envInt64Default("FINOPOLY_SEED", 0),
		ShutdownTimeout: envDurationDefault("FINOPOLY_SHUTDOWN_TIMEOUT", 10*time.Second),
	}
}

func LoadCLIFromEnv() CLIConfig {
	return CLIConfig{
		APIBaseURL:  strings.TrimRight(envDefault("FINOPOLY_API_BASE_URL", "http://localhost:8080"), "/"),
		CatalogPath: strings.TrimSpace(os.Getenv("FINOPOLY_CATALOG")),
		Seed:        envInt64Default("FINOPOLY_SEED", 0),
	}
}

func envDefault(key, fallback string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	return v
}

func envDurationDefault(key string, fallback time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}

func envInt64Default(key string, fallback int64) int64 {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return fallback
	}
	return n
}
