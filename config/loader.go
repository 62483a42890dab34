package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// LoaderConfig holds the optional overrides for LoadConfig.
type LoaderConfig struct {
	ConfigFile string // explicit config.yml path; skipped when missing
	EnvFile    string // explicit .env path; skipped when missing
	Defaults   map[string]any
}

// LoaderOption is a functional option for LoadConfig.
type LoaderOption func(*LoaderConfig)

// WithConfigFile sets an explicit config file path.
func WithConfigFile(path string) LoaderOption {
	return func(lc *LoaderConfig) { lc.ConfigFile = path }
}

// WithEnvFile sets an explicit .env file path.
func WithEnvFile(path string) LoaderOption {
	return func(lc *LoaderConfig) { lc.EnvFile = path }
}

// WithDefaults registers default values for keys that neither the config
// file nor the environment set.
func WithDefaults(defaults map[string]any) LoaderOption {
	return func(lc *LoaderConfig) {
		if lc.Defaults == nil {
			lc.Defaults = make(map[string]any, len(defaults))
		}
		for k, v := range defaults {
			lc.Defaults[k] = v
		}
	}
}

// LoadConfig loads configuration for a service into cfg, which must be a
// pointer to a struct with mapstructure tags.
//
// Without WithConfigFile, config.yml is looked up in cmd/<serviceName>
// (from the working directory or up to two parents) and then in the
// working directory. Without WithEnvFile, .env is read from the directory
// of the config file in use, or the working directory.
func LoadConfig(serviceName string, cfg any, opts ...LoaderOption) error {
	var lc LoaderConfig
	for _, opt := range opts {
		opt(&lc)
	}

	// Struct binding lets HTTP_PORT reach http.port even when neither the
	// file nor the defaults mention the key.
	v := viper.NewWithOptions(
		viper.ExperimentalBindStruct(),
		viper.EnvKeyReplacer(strings.NewReplacer(".", "_")),
	)
	for k, val := range lc.Defaults {
		v.SetDefault(k, val)
	}

	if err := readConfigFile(v, serviceName, lc.ConfigFile); err != nil {
		return err
	}

	envFile := lc.EnvFile
	if envFile == "" {
		envFile = ".env"
		if used := v.ConfigFileUsed(); used != "" {
			envFile = filepath.Join(filepath.Dir(used), ".env")
		}
	}
	// godotenv never overrides variables already set in the process.
	if fileExists(envFile) {
		if err := godotenv.Load(envFile); err != nil {
			return fmt.Errorf("load env file %s: %w", envFile, err)
		}
	}

	v.AutomaticEnv()
	if err := v.Unmarshal(cfg); err != nil {
		return fmt.Errorf("failed to unmarshal config for service %s: %w", serviceName, err)
	}
	return nil
}

func readConfigFile(v *viper.Viper, serviceName, path string) error {
	if path != "" {
		if !fileExists(path) {
			return nil
		}
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("read config file %s: %w", path, err)
		}
		return nil
	}

	v.SetConfigName("config")
	v.SetConfigType("yml")
	for _, dir := range []string{".", "..", filepath.Join("..", "..")} {
		v.AddConfigPath(filepath.Join(dir, "cmd", serviceName))
	}
	v.AddConfigPath(".")

	var notFound viper.ConfigFileNotFoundError
	if err := v.ReadInConfig(); err != nil && !errors.As(err, &notFound) {
		return fmt.Errorf("read config file: %w", err)
	}
	return nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
