// Package config collects runtime settings from flags, environment and
// params files.
package config

import (
	"flag"
	"fmt"
	"io"
	"strconv"

	"github.com/mitchellh/go-homedir"

	"github.com/rook-computer/ringpfp/internal/schedule"
	"github.com/rook-computer/ringpfp/internal/variant"
)

const (
	EnvVariant     = "RINGPFP_VARIANT"
	EnvVariantFile = "RINGPFP_VARIANT_FILE"
	EnvParams      = "RINGPFP_PARAMS"
	EnvDebug       = "RINGPFP_DEBUG"
	EnvStdioLog    = "RINGPFP_STDIO_LOG"
	EnvRefreshRate = "RINGPFP_REFRESH_HZ"
)

// DefaultOutput is where a one-shot render writes when no -out is given.
const DefaultOutput = "ring-pfp.png"

// Config holds the settings shared by both binaries.
type Config struct {
	Avatar      string
	Stamp       string
	Variant     string
	VariantFile string
	ParamsFile  string
	Out         string
	Serve       bool
	Watch       bool
	Framebuffer bool
	Debug       bool
	StdioLog    string
	RefreshRate int
}

// Parse reads flags from args. Environment values, looked up with getenv,
// become the flag defaults so an explicit flag always wins.
func Parse(name string, args []string, getenv func(string) string, output io.Writer) (Config, error) {
	var cfg Config
	debugDefault, err := envBool(getenv, EnvDebug)
	if err != nil {
		return Config{}, err
	}
	rateDefault := schedule.DefaultRefreshRate
	if raw := getenv(EnvRefreshRate); raw != "" {
		rateDefault, err = strconv.Atoi(raw)
		if err != nil || rateDefault <= 0 {
			return Config{}, fmt.Errorf("%s must be a positive integer (got %q)", EnvRefreshRate, raw)
		}
	}
	variantDefault := getenv(EnvVariant)
	if variantDefault == "" {
		variantDefault = variant.ThemeA().Name
	}

	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	if output != nil {
		fs.SetOutput(output)
	}
	fs.StringVar(&cfg.Avatar, "avatar", "", "avatar image to load at startup")
	fs.StringVar(&cfg.Stamp, "stamp", "", "custom stamp image (replaces the bundled stamp)")
	fs.StringVar(&cfg.Variant, "variant", variantDefault, "preset name; also "+EnvVariant)
	fs.StringVar(&cfg.VariantFile, "variant-file", getenv(EnvVariantFile), "TOML variant override; also "+EnvVariantFile)
	fs.StringVar(&cfg.ParamsFile, "params", getenv(EnvParams), "TOML or YAML params file; also "+EnvParams)
	fs.StringVar(&cfg.Out, "out", DefaultOutput, "PNG output path for one-shot renders")
	fs.BoolVar(&cfg.Serve, "serve", false, "run the HTTP control surface")
	fs.BoolVar(&cfg.Watch, "watch", false, "re-apply the params file whenever it changes")
	fs.BoolVar(&cfg.Framebuffer, "fb", false, "present frames on the Linux framebuffer")
	fs.BoolVar(&cfg.Debug, "debug", debugDefault, "enable debug logging; also "+EnvDebug)
	fs.StringVar(&cfg.StdioLog, "stdio-log", getenv(EnvStdioLog), "redirect stdout+stderr (including panics) to this file; also "+EnvStdioLog)
	fs.IntVar(&cfg.RefreshRate, "refresh", rateDefault, "frame rate of the headless render loop; also "+EnvRefreshRate)
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	if cfg.RefreshRate <= 0 {
		return Config{}, fmt.Errorf("refresh rate must be positive (got %d)", cfg.RefreshRate)
	}
	if cfg.Watch && cfg.ParamsFile == "" {
		return Config{}, fmt.Errorf("-watch needs a params file")
	}

	for _, p := range []*string{&cfg.Avatar, &cfg.Stamp, &cfg.VariantFile, &cfg.ParamsFile, &cfg.Out, &cfg.StdioLog} {
		if *p == "" {
			continue
		}
		if *p, err = homedir.Expand(*p); err != nil {
			return Config{}, err
		}
	}
	return cfg, nil
}

// LoadVariant resolves the configured preset, applying the override file if set.
func (c Config) LoadVariant() (variant.Variant, error) {
	if c.VariantFile != "" {
		return variant.LoadFile(c.VariantFile)
	}
	return variant.Lookup(c.Variant)
}

func envBool(getenv func(string) string, key string) (bool, error) {
	raw := getenv(key)
	if raw == "" {
		return false, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("%s must be a boolean (got %q): %w", key, raw, err)
	}
	return v, nil
}
