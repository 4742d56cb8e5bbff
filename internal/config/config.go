package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Kitchen sizes the simulation.
type Kitchen struct {
	Customers            int `toml:"customers"`
	Cooks                int `toml:"cooks"`
	MaxOrdersPerCustomer int `toml:"max_orders_per_customer"`
	MaxItemsPerOrder     int `toml:"max_items_per_order"`
	QueueCapacity        int `toml:"queue_capacity"`
}

// Timing holds wait bounds and pacing, in milliseconds unless noted.
type Timing struct {
	PushTimeoutMS          int     `toml:"push_timeout_ms"`
	PopTimeoutMS           int     `toml:"pop_timeout_ms"`
	BackpressurePauseMS    int     `toml:"backpressure_pause_ms"`
	BackpressureMaxPauseMS int     `toml:"backpressure_max_pause_ms"`
	MaxPushAttempts        int     `toml:"max_push_attempts"`
	ArrivalMinMS           int     `toml:"arrival_min_ms"`
	ArrivalMaxMS           int     `toml:"arrival_max_ms"`
	CookTimeScale          float64 `toml:"cook_time_scale"`
}

// Dish is a raw menu entry as it appears in TOML.
type Dish struct {
	Name     string  `toml:"name"`
	Seconds  float64 `toml:"seconds"`
	Priority string  `toml:"priority"`
	Weight   float64 `toml:"weight"`
}

// Menu lists the dishes customers may order.
type Menu struct {
	Dishes []Dish `toml:"dishes"`
}

// Paths contains directory configuration.
type Paths struct {
	StateDir string `toml:"state_dir"`
}

// Journal controls the run history database.
type Journal struct {
	Enabled bool `toml:"enabled"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
	File   string `toml:"file"`
}

// Config encapsulates all configuration values for brigade.
//
// Configuration sections:
//   - Kitchen: customer/cook counts, order sizes, queue capacity
//   - Timing: push/pop timeouts, backpressure pacing, arrival gaps
//   - Menu: dish table (name, cook time, priority, weight)
//   - Paths: state directory for the journal and run lock
//   - Journal: run history toggle
//   - Logging: log format, level, and optional file
type Config struct {
	Seed    int64   `toml:"seed"`
	Kitchen Kitchen `toml:"kitchen"`
	Timing  Timing  `toml:"timing"`
	Menu    Menu    `toml:"menu"`
	Paths   Paths   `toml:"paths"`
	Journal Journal `toml:"journal"`
	Logging Logging `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		// Dishes from the file replace the default menu.
		cfg.Menu.Dishes = nil
		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath(defaultConfigPath)
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("brigade.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the state directory when the journal needs it.
func (c *Config) EnsureDirectories() error {
	if !c.Journal.Enabled {
		return nil
	}
	if err := os.MkdirAll(c.Paths.StateDir, 0o755); err != nil {
		return fmt.Errorf("create directory %q: %w", c.Paths.StateDir, err)
	}
	return nil
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
