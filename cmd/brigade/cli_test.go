package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"brigade/internal/config"
	"brigade/internal/journal"
	"brigade/internal/testsupport"
)

type cliTestEnv struct {
	baseDir    string
	stateDir   string
	configPath string
}

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	t.Setenv("HOME", filepath.Join(base, "home"))
	t.Setenv("BRIGADE_SEED", "")

	env := &cliTestEnv{
		baseDir:    base,
		stateDir:   filepath.Join(base, "state"),
		configPath: filepath.Join(base, "brigade.toml"),
	}
	testsupport.WriteFile(t, env.configPath, fmt.Sprintf(`seed = 42

[kitchen]
customers = 2
cooks = 2
max_orders_per_customer = 2
max_items_per_order = 2
queue_capacity = 3

[timing]
push_timeout_ms = 20
pop_timeout_ms = 10
backpressure_pause_ms = 1
backpressure_max_pause_ms = 5
arrival_min_ms = 0
arrival_max_ms = 1
cook_time_scale = 0.001

[paths]
state_dir = %q

[logging]
level = "error"

[[menu.dishes]]
name = "pizza"
seconds = 2
priority = "medium"
weight = 3

[[menu.dishes]]
name = "sopa   de  ajo"
seconds = 1
priority = "alta"
`, env.stateDir))
	return env
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func TestRunCommandRecordsHistory(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"run"}, env.configPath)
	if err != nil {
		t.Fatalf("run: %v\n%s", err, out)
	}
	for _, want := range []string{"Summary", "complete in", "Seed:", "42", "By priority", "Cook 1", "Cook 2"} {
		if !strings.Contains(out, want) {
			t.Fatalf("run output missing %q:\n%s", want, out)
		}
	}

	store, err := journal.OpenReader(env.stateDir)
	if err != nil {
		t.Fatalf("OpenReader: %v", err)
	}
	runs, err := store.ListRuns(context.Background(), 0)
	store.Close()
	if err != nil {
		t.Fatalf("ListRuns: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("expected 1 journaled run, got %d", len(runs))
	}
	run := runs[0]
	if run.Status != journal.StatusComplete || run.Enqueued == 0 || run.Enqueued != run.Completed {
		t.Fatalf("unexpected run summary: %+v", run)
	}
	if run.Seed != 42 || run.Customers != 2 || run.Cooks != 2 || run.Capacity != 3 {
		t.Fatalf("run info mismatch: %+v", run)
	}

	list, _, err := runCLI(t, []string{"history"}, env.configPath)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if !strings.Contains(list, shortID(run.ID)) || !strings.Contains(list, journal.StatusComplete) {
		t.Fatalf("history list missing run:\n%s", list)
	}

	detail, _, err := runCLI(t, []string{"history", "--run", shortID(run.ID)}, env.configPath)
	if err != nil {
		t.Fatalf("history --run: %v", err)
	}
	for _, want := range []string{run.ID, "item_enqueued", "item_completed", "run_complete", "consumer_done"} {
		if !strings.Contains(detail, want) {
			t.Fatalf("history detail missing %q:\n%s", want, detail)
		}
	}
}

func TestRunCommandFlagOverrides(t *testing.T) {
	env := setupCLITestEnv(t)

	_, _, err := runCLI(t, []string{"run", "--cooks", "0"}, env.configPath)
	if !errors.Is(err, config.ErrInvalidConfig) {
		t.Fatalf("expected invalid config error, got %v", err)
	}
	var verr *config.ValidationError
	if !errors.As(err, &verr) || verr.Field != "kitchen.cooks" {
		t.Fatalf("expected kitchen.cooks validation error, got %v", err)
	}

	out, _, err := runCLI(t, []string{"run", "--customers", "1", "--cooks", "1", "--capacity", "1", "--seed", "7", "--no-journal"}, env.configPath)
	if err != nil {
		t.Fatalf("run with overrides: %v", err)
	}
	if !strings.Contains(out, "Seed:") || !strings.Contains(out, " 7") {
		t.Fatalf("expected seed 7 in output:\n%s", out)
	}
	if _, err := os.Stat(filepath.Join(env.stateDir, "journal.db")); !os.IsNotExist(err) {
		t.Fatalf("expected no journal with --no-journal, stat err=%v", err)
	}
}

func TestRunCommandFailsWhenJournalLocked(t *testing.T) {
	env := setupCLITestEnv(t)

	held, err := journal.Open(env.stateDir)
	if err != nil {
		t.Fatalf("journal.Open: %v", err)
	}
	defer held.Close()

	_, _, err = runCLI(t, []string{"run"}, env.configPath)
	if !errors.Is(err, journal.ErrLocked) {
		t.Fatalf("expected ErrLocked, got %v", err)
	}
}

func TestHistoryEmpty(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"history"}, env.configPath)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if !strings.Contains(out, "No runs recorded") {
		t.Fatalf("unexpected output:\n%s", out)
	}

	if _, _, err := runCLI(t, []string{"history", "--run", "deadbeef"}, env.configPath); !errors.Is(err, journal.ErrRunNotFound) {
		t.Fatalf("expected ErrRunNotFound, got %v", err)
	}
}

func TestMenuCommand(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"menu"}, env.configPath)
	if err != nil {
		t.Fatalf("menu: %v", err)
	}
	for _, want := range []string{"Pizza", "Sopa De Ajo", "high", "medium", "75.0%", "25.0%", "2 dishes"} {
		if !strings.Contains(out, want) {
			t.Fatalf("menu output missing %q:\n%s", want, out)
		}
	}
}

func TestConfigInitAndValidate(t *testing.T) {
	env := setupCLITestEnv(t)
	target := filepath.Join(env.baseDir, "conf", "sample.toml")

	out, _, err := runCLI(t, []string{"config", "init", "--path", target}, "")
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	if !strings.Contains(out, target) {
		t.Fatalf("expected target path in output:\n%s", out)
	}

	if _, _, err := runCLI(t, []string{"config", "init", "--path", target}, ""); err == nil {
		t.Fatal("expected error when config exists without --overwrite")
	}
	if _, _, err := runCLI(t, []string{"config", "init", "--path", target, "--overwrite"}, ""); err != nil {
		t.Fatalf("config init --overwrite: %v", err)
	}

	out, _, err = runCLI(t, []string{"config", "validate"}, target)
	if err != nil {
		t.Fatalf("config validate: %v", err)
	}
	if !strings.Contains(out, "Configuration valid") || !strings.Contains(out, "6 dishes") {
		t.Fatalf("unexpected validate output:\n%s", out)
	}
}

func TestConfigValidateReportsField(t *testing.T) {
	env := setupCLITestEnv(t)
	bad := filepath.Join(env.baseDir, "bad.toml")
	testsupport.WriteFile(t, bad, "[kitchen]\nqueue_capacity = 0\n")

	_, _, err := runCLI(t, []string{"config", "validate"}, bad)
	if err == nil || !strings.Contains(err.Error(), "kitchen.queue_capacity") {
		t.Fatalf("expected queue_capacity error, got %v", err)
	}

	if _, _, err := runCLI(t, []string{"menu"}, bad); !errors.Is(err, config.ErrInvalidConfig) {
		t.Fatalf("expected commands to refuse invalid config, got %v", err)
	}
}

func TestRunStatus(t *testing.T) {
	cases := []struct {
		err  error
		want string
	}{
		{nil, journal.StatusComplete},
		{context.Canceled, journal.StatusCancelled},
		{fmt.Errorf("run: %w", context.DeadlineExceeded), journal.StatusCancelled},
		{errors.New("boom"), journal.StatusFailed},
	}
	for _, tc := range cases {
		if got := runStatus(tc.err); got != tc.want {
			t.Fatalf("runStatus(%v) = %q, want %q", tc.err, got, tc.want)
		}
	}
}
