package menu

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"brigade/internal/config"
	"brigade/internal/order"
)

// ErrEmptyMenu is returned when no dish can be picked.
var ErrEmptyMenu = errors.New("menu has no orderable dishes")

// Dish is one orderable entry.
type Dish struct {
	Name     string
	Duration time.Duration
	Priority order.Priority
	Weight   float64
}

// Menu is an immutable weighted dish table.
type Menu struct {
	dishes []Dish
	total  float64
}

// New validates dishes and builds a Menu. Names are normalized to title case.
func New(dishes []Dish) (*Menu, error) {
	m := &Menu{dishes: make([]Dish, 0, len(dishes))}
	for i, d := range dishes {
		d.Name = NormalizeName(d.Name)
		switch {
		case d.Name == "":
			return nil, fmt.Errorf("dish %d: name is empty", i)
		case d.Duration <= 0:
			return nil, fmt.Errorf("dish %q: duration must be positive", d.Name)
		case !d.Priority.Valid():
			return nil, fmt.Errorf("dish %q: invalid %s", d.Name, d.Priority)
		case d.Weight < 0:
			return nil, fmt.Errorf("dish %q: weight must be >= 0", d.Name)
		}
		m.dishes = append(m.dishes, d)
		m.total += d.Weight
	}
	if m.total <= 0 {
		return nil, ErrEmptyMenu
	}
	return m, nil
}

// FromConfig converts the TOML dish table into a Menu.
func FromConfig(entries []config.Dish) (*Menu, error) {
	dishes := make([]Dish, 0, len(entries))
	for _, e := range entries {
		p, err := order.ParsePriority(e.Priority)
		if err != nil {
			return nil, fmt.Errorf("dish %q: %w", e.Name, err)
		}
		dishes = append(dishes, Dish{
			Name:     e.Name,
			Duration: time.Duration(e.Seconds * float64(time.Second)),
			Priority: p,
			Weight:   e.Weight,
		})
	}
	return New(dishes)
}

// Default returns the built-in six-dish menu.
func Default() *Menu {
	m, err := FromConfig(config.Default().Menu.Dishes)
	if err != nil {
		panic(fmt.Sprintf("menu: default menu invalid: %v", err))
	}
	return m
}

// Dishes returns a copy of the dish table in declaration order.
func (m *Menu) Dishes() []Dish {
	out := make([]Dish, len(m.dishes))
	copy(out, m.dishes)
	return out
}

// Len reports the number of dishes.
func (m *Menu) Len() int {
	return len(m.dishes)
}

// Pick draws one dish in proportion to its weight.
func (m *Menu) Pick(rng *rand.Rand) Dish {
	target := rng.Float64() * m.total
	var last Dish
	for _, d := range m.dishes {
		if d.Weight <= 0 {
			continue
		}
		last = d
		target -= d.Weight
		if target < 0 {
			return d
		}
	}
	// Float rounding can leave a sliver past the final bucket.
	return last
}

// NormalizeName collapses whitespace and title-cases a dish name.
func NormalizeName(name string) string {
	fields := strings.FieldsFunc(name, unicode.IsSpace)
	if len(fields) == 0 {
		return ""
	}
	return cases.Title(language.Und).String(strings.Join(fields, " "))
}
