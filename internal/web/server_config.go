package web

import (
	"fmt"
	"os"
	"strconv"
)

const (
	EnvListenAddr = "RINGPFP_LISTEN"
	EnvDevMode    = "RINGPFP_DEV"
	EnvStaticDir  = "RINGPFP_STATIC_DIR"
)

// ServerConfig contains settings for running the HTTP server.
//
// The device binary listens on :8080 by default, the preview window on :8081.
type ServerConfig struct {
	ListenAddr string
	DevMode    bool
	// StaticDir replaces the embedded UI when set.
	StaticDir string
}

// DefaultServerConfigFromEnv reads the RINGPFP_* server variables, falling
// back to defaultListenAddr.
func DefaultServerConfigFromEnv(defaultListenAddr string) (ServerConfig, error) {
	return serverConfigFrom(os.Getenv, defaultListenAddr)
}

func serverConfigFrom(getenv func(string) string, defaultListenAddr string) (ServerConfig, error) {
	cfg := ServerConfig{
		ListenAddr: getenv(EnvListenAddr),
		StaticDir:  getenv(EnvStaticDir),
	}
	if cfg.ListenAddr == "" {
		cfg.ListenAddr = defaultListenAddr
	}
	if raw := getenv(EnvDevMode); raw != "" {
		dev, err := strconv.ParseBool(raw)
		if err != nil {
			return ServerConfig{}, fmt.Errorf("%s must be a boolean (got %q): %w", EnvDevMode, raw, err)
		}
		cfg.DevMode = dev
	}
	return cfg, nil
}
