package order

import (
	"fmt"
	"strconv"
	"strings"
)

// Priority orders work by urgency. Lower values are dequeued first.
type Priority int

const (
	PriorityHigh   Priority = 1
	PriorityMedium Priority = 2
	PriorityLow    Priority = 3
)

var allPriorities = []Priority{PriorityHigh, PriorityMedium, PriorityLow}

// AllPriorities returns the known priorities from most to least urgent.
func AllPriorities() []Priority {
	cp := make([]Priority, len(allPriorities))
	copy(cp, allPriorities)
	return cp
}

func (p Priority) String() string {
	switch p {
	case PriorityHigh:
		return "high"
	case PriorityMedium:
		return "medium"
	case PriorityLow:
		return "low"
	default:
		return fmt.Sprintf("priority(%d)", int(p))
	}
}

// Valid reports whether p is one of the known priorities.
func (p Priority) Valid() bool {
	return p >= PriorityHigh && p <= PriorityLow
}

// ParsePriority accepts either a name ("high", "medium", "low") or the
// numeric value ("1".."3").
func ParsePriority(value string) (Priority, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	switch normalized {
	case "high", "alta":
		return PriorityHigh, nil
	case "medium", "media":
		return PriorityMedium, nil
	case "low", "baja":
		return PriorityLow, nil
	}
	n, err := strconv.Atoi(normalized)
	if err != nil {
		return 0, fmt.Errorf("unknown priority %q", value)
	}
	p := Priority(n)
	if !p.Valid() {
		return 0, fmt.Errorf("priority %d out of range", n)
	}
	return p, nil
}
