// Package config collects configuration from command-line flags and
// environment variables; environment variables win.
package config

import (
	"flag"
	"os"
	"strconv"
)

// Options holds the configuration values for the application.
type Options struct {
	// Port is the HTTP listen port.
	Port string

	// BaseURL is used to compose the short links returned to clients.
	BaseURL string

	// DatabaseDSN is the store connection string. Empty selects the
	// in-memory store.
	DatabaseDSN string

	// LogServerURL is the remote log collector endpoint.
	LogServerURL string

	// Environment gates the local console echo of shipped logs; anything
	// but "production" echoes.
	Environment string

	// RedisAddr enables the redirect lookup cache when set.
	RedisAddr string

	// RedisPassword is the optional password for RedisAddr.
	RedisPassword string

	// GeoIPDB is an optional path to a MaxMind city database; when empty
	// click locations come from the stub resolver.
	GeoIPDB string

	// EnableHTTPS serves the API over TLS with autocert.
	EnableHTTPS bool
}

var options = &Options{}

func init() {
	flag.StringVar(&options.Port, "p", "3000", "HTTP listen port")
	flag.StringVar(&options.BaseURL, "b", "http://localhost:3000", "base url for returned short links")
	flag.StringVar(&options.DatabaseDSN, "d", "", "store connection string")
	flag.StringVar(&options.LogServerURL, "l", "https://test-server.com/api/logs", "remote log collector url")
	flag.StringVar(&options.Environment, "e", "development", "deployment environment")
	flag.StringVar(&options.RedisAddr, "r", "", "redis address for the lookup cache")
	flag.StringVar(&options.GeoIPDB, "g", "", "path to a MaxMind city database")
	flag.BoolVar(&options.EnableHTTPS, "s", false, "enable https")
}

// Parse parses the flags and applies environment overrides.
func Parse() *Options {
	flag.Parse()

	if port := os.Getenv("PORT"); port != "" {
		options.Port = port
	}

	if baseURL := os.Getenv("BASE_URL"); baseURL != "" {
		options.BaseURL = baseURL
	}

	if dsn := os.Getenv("DATABASE_DSN"); dsn != "" {
		options.DatabaseDSN = dsn
	}

	if logServer := os.Getenv("LOG_SERVER_URL"); logServer != "" {
		options.LogServerURL = logServer
	}

	if env := os.Getenv("APP_ENV"); env != "" {
		options.Environment = env
	}

	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		options.RedisAddr = addr
	}

	if password := os.Getenv("REDIS_PASSWORD"); password != "" {
		options.RedisPassword = password
	}

	if path := os.Getenv("GEOIP_DB"); path != "" {
		options.GeoIPDB = path
	}

	if enableHTTPS := os.Getenv("ENABLE_HTTPS"); enableHTTPS != "" {
		httpsMode, err := strconv.ParseBool(enableHTTPS)
		if err != nil {
			httpsMode = false
		}
		options.EnableHTTPS = httpsMode
	}

	return options
}

// Production reports whether the service runs in production mode.
func (o *Options) Production() bool {
	return o.Environment == "production"
}
