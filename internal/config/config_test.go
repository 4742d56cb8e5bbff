package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pelletier/go-toml/v2"

	"brigade/internal/config"
)

func TestLoadDefaultConfigExpandsPaths(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv("BRIGADE_SEED", "")

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantState := filepath.Join(tempHome, ".local", "share", "brigade")
	if cfg.Paths.StateDir != wantState {
		t.Fatalf("unexpected state dir: got %q want %q", cfg.Paths.StateDir, wantState)
	}
	if cfg.Kitchen.Customers != 5 || cfg.Kitchen.Cooks != 3 || cfg.Kitchen.QueueCapacity != 10 {
		t.Fatalf("unexpected kitchen defaults: %+v", cfg.Kitchen)
	}
	if cfg.Kitchen.MaxOrdersPerCustomer != 3 || cfg.Kitchen.MaxItemsPerOrder != 4 {
		t.Fatalf("unexpected order size defaults: %+v", cfg.Kitchen)
	}
	if got := cfg.Timing.PushTimeout(); got != 2*time.Second {
		t.Fatalf("unexpected push timeout: %v", got)
	}
	if got := cfg.Timing.PopTimeout(); got != time.Second {
		t.Fatalf("unexpected pop timeout: %v", got)
	}
	if len(cfg.Menu.Dishes) != 6 {
		t.Fatalf("expected 6 default dishes, got %d", len(cfg.Menu.Dishes))
	}
	if !cfg.Journal.Enabled {
		t.Fatal("expected journal enabled by default")
	}
	if cfg.Seed != 0 {
		t.Fatalf("expected time-based seed by default, got %d", cfg.Seed)
	}
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories failed: %v", err)
	}
	info, err := os.Stat(cfg.Paths.StateDir)
	if err != nil || !info.IsDir() {
		t.Fatalf("expected state dir %q to exist: %v", cfg.Paths.StateDir, err)
	}
}

func TestLoadCustomPath(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "brigade.toml")

	type payload struct {
		Seed    int64 `toml:"seed"`
		Kitchen struct {
			Customers     int `toml:"customers"`
			QueueCapacity int `toml:"queue_capacity"`
		} `toml:"kitchen"`
		Menu struct {
			Dishes []config.Dish `toml:"dishes"`
		} `toml:"menu"`
		Paths struct {
			StateDir string `toml:"state_dir"`
		} `toml:"paths"`
	}
	custom := payload{Seed: 42}
	custom.Kitchen.Customers = 2
	custom.Kitchen.QueueCapacity = 4
	custom.Menu.Dishes = []config.Dish{{Name: " tacos ", Seconds: 0.5, Priority: "ALTA"}}
	custom.Paths.StateDir = filepath.Join(tempDir, "state")

	data, err := toml.Marshal(custom)
	if err != nil {
		t.Fatalf("marshal custom config: %v", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		t.Fatalf("write custom config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected exists to be true")
	}
	if resolved != configPath {
		t.Fatalf("unexpected resolved path: got %q want %q", resolved, configPath)
	}
	if cfg.Seed != 42 {
		t.Fatalf("expected seed 42, got %d", cfg.Seed)
	}
	if cfg.Kitchen.Customers != 2 || cfg.Kitchen.QueueCapacity != 4 {
		t.Fatalf("unexpected kitchen values: %+v", cfg.Kitchen)
	}
	if cfg.Kitchen.Cooks != 3 {
		t.Fatalf("expected unset cooks to keep default, got %d", cfg.Kitchen.Cooks)
	}
	if len(cfg.Menu.Dishes) != 1 {
		t.Fatalf("expected file menu to replace defaults, got %d dishes", len(cfg.Menu.Dishes))
	}
	dish := cfg.Menu.Dishes[0]
	if dish.Name != "tacos" || dish.Priority != "alta" || dish.Weight != 1 {
		t.Fatalf("unexpected normalized dish: %+v", dish)
	}
}

func TestSeedFallsBackToEnv(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("BRIGADE_SEED", "1234")

	cfg, _, _, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Seed != 1234 {
		t.Fatalf("expected seed from env, got %d", cfg.Seed)
	}

	t.Setenv("BRIGADE_SEED", "not-a-number")
	if _, _, _, err := config.Load(""); !errors.Is(err, config.ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig for bad seed, got %v", err)
	}
}

func TestCreateSample(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "sample.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample failed: %v", err)
	}

	contents, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	if !strings.Contains(string(contents), "[[menu.dishes]]") {
		t.Fatalf("sample config missing menu: %s", contents)
	}

	var cfg config.Config
	if err := toml.Unmarshal(contents, &cfg); err != nil {
		t.Fatalf("unmarshal sample: %v", err)
	}
	defaults := config.Default()
	if cfg.Kitchen != defaults.Kitchen {
		t.Fatalf("sample kitchen %+v differs from defaults %+v", cfg.Kitchen, defaults.Kitchen)
	}
	if cfg.Timing != defaults.Timing {
		t.Fatalf("sample timing %+v differs from defaults %+v", cfg.Timing, defaults.Timing)
	}
	if len(cfg.Menu.Dishes) != len(defaults.Menu.Dishes) {
		t.Fatalf("sample has %d dishes, defaults have %d", len(cfg.Menu.Dishes), len(defaults.Menu.Dishes))
	}
	if !strings.Contains(cfg.Paths.StateDir, "brigade") {
		t.Fatalf("expected state dir to contain brigade, got %q", cfg.Paths.StateDir)
	}
}

func TestValidateDetectsInvalidValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
		field  string
	}{
		{"zero customers", func(c *config.Config) { c.Kitchen.Customers = 0 }, "kitchen.customers"},
		{"negative cooks", func(c *config.Config) { c.Kitchen.Cooks = -1 }, "kitchen.cooks"},
		{"zero capacity", func(c *config.Config) { c.Kitchen.QueueCapacity = 0 }, "kitchen.queue_capacity"},
		{"zero items per order", func(c *config.Config) { c.Kitchen.MaxItemsPerOrder = 0 }, "kitchen.max_items_per_order"},
		{"zero pop timeout", func(c *config.Config) { c.Timing.PopTimeoutMS = 0 }, "timing.pop_timeout_ms"},
		{"negative push timeout", func(c *config.Config) { c.Timing.PushTimeoutMS = -1 }, "timing.push_timeout_ms"},
		{"negative pop timeout", func(c *config.Config) { c.Timing.PopTimeoutMS = -5 }, "timing.pop_timeout_ms"},
		{"zero backpressure pause", func(c *config.Config) { c.Timing.BackpressurePauseMS = 0 }, "timing.backpressure_pause_ms"},
		{"zero pause with zero push timeout", func(c *config.Config) {
			c.Timing.PushTimeoutMS = 0
			c.Timing.BackpressurePauseMS = 0
			c.Timing.BackpressureMaxPauseMS = 0
		}, "timing.backpressure_pause_ms"},
		{"arrival window inverted", func(c *config.Config) { c.Timing.ArrivalMaxMS = c.Timing.ArrivalMinMS - 1 }, "timing.arrival_max_ms"},
		{"pause cap below pause", func(c *config.Config) { c.Timing.BackpressureMaxPauseMS = 10 }, "timing.backpressure_max_pause_ms"},
		{"zero cook scale", func(c *config.Config) { c.Timing.CookTimeScale = 0 }, "timing.cook_time_scale"},
		{"empty menu", func(c *config.Config) { c.Menu.Dishes = nil }, "menu.dishes"},
		{"dish without time", func(c *config.Config) { c.Menu.Dishes[2].Seconds = 0 }, "menu.dishes[2].seconds"},
		{"dish bad priority", func(c *config.Config) { c.Menu.Dishes[0].Priority = "urgent" }, "menu.dishes[0].priority"},
		{"all weights zero", func(c *config.Config) {
			for i := range c.Menu.Dishes {
				c.Menu.Dishes[i].Weight = 0
			}
		}, "menu.dishes"},
		{"unknown log level", func(c *config.Config) { c.Logging.Level = "loud" }, "logging.level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if !errors.Is(err, config.ErrInvalidConfig) {
				t.Fatalf("expected ErrInvalidConfig, got %v", err)
			}
			var verr *config.ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected *ValidationError, got %T", err)
			}
			if verr.Field != tt.field {
				t.Fatalf("field = %q, want %q", verr.Field, tt.field)
			}
		})
	}
}

func TestDefaultConfigValidates(t *testing.T) {
	cfg := config.Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
}
