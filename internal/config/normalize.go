package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizeSeed(); err != nil {
		return err
	}
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeMenu()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizeSeed() error {
	if c.Seed != 0 {
		return nil
	}
	value, ok := os.LookupEnv(seedEnv)
	if !ok || strings.TrimSpace(value) == "" {
		return nil
	}
	seed, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
	if err != nil {
		return &ValidationError{Field: "seed", Reason: fmt.Sprintf("%s=%q is not an integer", seedEnv, value)}
	}
	c.Seed = seed
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.StateDir) == "" {
		c.Paths.StateDir = defaultStateDir
	}
	if c.Paths.StateDir, err = expandPath(c.Paths.StateDir); err != nil {
		return fmt.Errorf("paths.state_dir: %w", err)
	}
	if c.Logging.File, err = expandPath(strings.TrimSpace(c.Logging.File)); err != nil {
		return fmt.Errorf("logging.file: %w", err)
	}
	return nil
}

func (c *Config) normalizeMenu() {
	if len(c.Menu.Dishes) == 0 {
		c.Menu.Dishes = defaultDishes()
		return
	}
	for i := range c.Menu.Dishes {
		d := &c.Menu.Dishes[i]
		d.Name = strings.TrimSpace(d.Name)
		d.Priority = strings.ToLower(strings.TrimSpace(d.Priority))
		if d.Weight == 0 {
			d.Weight = defaultDishWeight
		}
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json", "auto":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
