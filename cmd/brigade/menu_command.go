package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"brigade/internal/menu"
)

func newMenuCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "menu",
		Short: "Show the configured dishes",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			m, err := menu.FromConfig(cfg.Menu.Dishes)
			if err != nil {
				return fmt.Errorf("build menu: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderMenu(m, cfg.Timing.CookTimeScale))
			return nil
		},
	}
}

func renderMenu(m *menu.Menu, scale float64) string {
	dishes := m.Dishes()
	var total float64
	for _, d := range dishes {
		total += d.Weight
	}

	rows := make([][]string, 0, len(dishes))
	for _, d := range dishes {
		share := 0.0
		if total > 0 {
			share = d.Weight / total * 100
		}
		rows = append(rows, []string{
			d.Name,
			d.Priority.String(),
			d.Duration.String(),
			time.Duration(float64(d.Duration) * scale).Round(time.Millisecond).String(),
			strconv.FormatFloat(d.Weight, 'f', -1, 64),
			fmt.Sprintf("%.1f%%", share),
		})
	}
	return tableSpec{
		title:   "Menu",
		headers: []string{"Dish", "Priority", "Cook time", "Scaled", "Weight", "Share"},
		rows:    rows,
		aligns:  []columnAlignment{alignLeft, alignLeft, alignRight, alignRight, alignRight, alignRight},
		footer:  []string{fmt.Sprintf("%d dishes", len(dishes)), "", "", fmt.Sprintf("x%g", scale)},
	}.render()
}
