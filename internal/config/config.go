package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/charmbracelet/log"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"pathshadow/internal/shadow"
)

const (
	// AppName is the application name.
	AppName = "pathshadow"
	// EnvPrefix prefixes every environment override, e.g. PATHSHADOW_WORKERS.
	EnvPrefix = "PATHSHADOW"
	// DefaultAddr is where web mode listens.
	DefaultAddr = "localhost:8080"
)

// Config holds everything a scan needs. The search path lives here so the
// core never reads the environment itself.
type Config struct {
	Path       string
	Separator  rune
	Extensions []string
	Timeout    time.Duration
	Workers    int
	Addr       string
	Verbose    bool
}

// DefaultExtensions returns the platform's executable extensions. Outside
// Windows executables rarely carry one, so every file is a candidate.
func DefaultExtensions() []string {
	if runtime.GOOS == "windows" {
		return append([]string(nil), shadow.DefaultExtensions...)
	}
	return []string{shadow.AnyExtension}
}

// RegisterFlags adds the configuration flags to fs.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.String("config", "", "Read configuration from this file")
	fs.String("path", "", "Search path to analyze (default $PATH)")
	fs.String("separator", "", "Path list separator (default the platform separator)")
	fs.StringSlice("ext", nil, "Executable extensions to consider, e.g. .exe,.cmd (* for all files)")
	fs.Duration("timeout", 0, "Per-directory listing timeout (default 5s)")
	fs.Int("workers", 0, "Number of directories listed concurrently (default 1)")
	fs.String("addr", "", "Listen address for web mode (default "+DefaultAddr+")")
}

// Load layers defaults, the config file, PATHSHADOW_* environment variables
// and flags, in increasing priority. It returns the config file used, if any.
func Load(fs *pflag.FlagSet) (Config, string, error) {
	v := viper.New()

	v.SetDefault("path", os.Getenv("PATH"))
	v.SetDefault("separator", string(os.PathListSeparator))
	v.SetDefault("extensions", DefaultExtensions())
	v.SetDefault("timeout", shadow.DefaultTimeout)
	v.SetDefault("workers", 1)
	v.SetDefault("addr", DefaultAddr)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if fs != nil {
		bindings := map[string]string{
			"path":       "path",
			"separator":  "separator",
			"extensions": "ext",
			"timeout":    "timeout",
			"workers":    "workers",
			"addr":       "addr",
			"verbose":    "verbose",
		}
		for key, name := range bindings {
			if f := fs.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return Config{}, "", fmt.Errorf("bind flag %s: %w", name, err)
				}
			}
		}
	}

	configFile := ""
	if fs != nil {
		configFile, _ = fs.GetString("config")
	}
	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, "", fmt.Errorf("failed to read config %s: %w", configFile, err)
		}
	} else {
		v.SetConfigName(AppName)
		if dir, err := os.UserConfigDir(); err == nil {
			v.AddConfigPath(filepath.Join(dir, AppName))
		}
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return Config{}, "", fmt.Errorf("failed to read config: %w", err)
			}
		}
	}

	sep := v.GetString("separator")
	if utf8.RuneCountInString(sep) != 1 {
		return Config{}, "", fmt.Errorf("separator must be a single character, got %q", sep)
	}
	r, _ := utf8.DecodeRuneInString(sep)

	workers := v.GetInt("workers")
	if workers < 1 {
		return Config{}, "", fmt.Errorf("workers must be at least 1, got %d", workers)
	}
	timeout := v.GetDuration("timeout")
	if timeout < 0 {
		return Config{}, "", fmt.Errorf("timeout must not be negative, got %s", timeout)
	}

	cfg := Config{
		Path:       v.GetString("path"),
		Separator:  r,
		Extensions: v.GetStringSlice("extensions"),
		Timeout:    timeout,
		Workers:    workers,
		Addr:       v.GetString("addr"),
		Verbose:    v.GetBool("verbose"),
	}
	return cfg, v.ConfigFileUsed(), nil
}

// ShadowOptions converts the config into aggregator options.
func (c Config) ShadowOptions(logger *log.Logger) shadow.Options {
	return shadow.Options{
		Extensions: shadow.NewExtensionSet(c.Extensions...),
		Timeout:    c.Timeout,
		Workers:    c.Workers,
		Logger:     logger,
	}
}
