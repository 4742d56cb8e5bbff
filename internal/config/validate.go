package config

import (
	"fmt"
	"sort"

	"brigade/internal/order"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateKitchen(); err != nil {
		return err
	}
	if err := c.validateTiming(); err != nil {
		return err
	}
	if err := c.validateMenu(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateKitchen() error {
	return ensurePositiveMap(map[string]int{
		"kitchen.customers":               c.Kitchen.Customers,
		"kitchen.cooks":                   c.Kitchen.Cooks,
		"kitchen.max_orders_per_customer": c.Kitchen.MaxOrdersPerCustomer,
		"kitchen.max_items_per_order":     c.Kitchen.MaxItemsPerOrder,
		"kitchen.queue_capacity":          c.Kitchen.QueueCapacity,
	})
}

func (c *Config) validateTiming() error {
	t := c.Timing
	if t.PopTimeoutMS <= 0 {
		// Cooks poll with this bound; zero would spin.
		return invalid("timing.pop_timeout_ms", "must be positive")
	}
	if err := ensureNonNegativeMap(map[string]int{
		"timing.push_timeout_ms":           t.PushTimeoutMS,
		"timing.backpressure_pause_ms":     t.BackpressurePauseMS,
		"timing.backpressure_max_pause_ms": t.BackpressureMaxPauseMS,
		"timing.max_push_attempts":         t.MaxPushAttempts,
		"timing.arrival_min_ms":            t.ArrivalMinMS,
		"timing.arrival_max_ms":            t.ArrivalMaxMS,
	}); err != nil {
		return err
	}
	if t.BackpressurePauseMS <= 0 {
		// Customers retry a full queue after this pause; zero would spin.
		return invalid("timing.backpressure_pause_ms", "must be positive")
	}
	if t.ArrivalMaxMS < t.ArrivalMinMS {
		return invalid("timing.arrival_max_ms", "must be >= timing.arrival_min_ms")
	}
	if t.BackpressureMaxPauseMS < t.BackpressurePauseMS {
		return invalid("timing.backpressure_max_pause_ms", "must be >= timing.backpressure_pause_ms")
	}
	if t.CookTimeScale <= 0 {
		return invalid("timing.cook_time_scale", "must be positive")
	}
	return nil
}

func (c *Config) validateMenu() error {
	if len(c.Menu.Dishes) == 0 {
		return invalid("menu.dishes", "must include at least one dish")
	}
	for i, d := range c.Menu.Dishes {
		field := fmt.Sprintf("menu.dishes[%d]", i)
		if d.Name == "" {
			return invalid(field+".name", "must be set")
		}
		if d.Seconds <= 0 {
			return invalid(field+".seconds", "must be positive")
		}
		if _, err := order.ParsePriority(d.Priority); err != nil {
			return invalid(field+".priority", "%v", err)
		}
		if d.Weight < 0 {
			return invalid(field+".weight", "must be >= 0")
		}
	}
	var total float64
	for _, d := range c.Menu.Dishes {
		total += d.Weight
	}
	if total <= 0 {
		return invalid("menu.dishes", "weights must not all be zero")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "warning", "error":
		return nil
	default:
		return invalid("logging.level", "must be one of debug, info, warn, error (got %q)", c.Logging.Level)
	}
}

// ensurePositiveMap reports the first offending key in sorted order so the
// message is stable.
func ensurePositiveMap(values map[string]int) error {
	for _, key := range sortedKeys(values) {
		if values[key] <= 0 {
			return invalid(key, "must be positive")
		}
	}
	return nil
}

func ensureNonNegativeMap(values map[string]int) error {
	for _, key := range sortedKeys(values) {
		if values[key] < 0 {
			return invalid(key, "must be >= 0")
		}
	}
	return nil
}

func sortedKeys(values map[string]int) []string {
	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
