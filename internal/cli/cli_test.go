package cli

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"checklist-cli/internal/memstore"
	"checklist-cli/internal/model"

	"go.uber.org/zap"
)

func clearEnv(t *testing.T) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	for _, k := range []string{envURL, envConfig, envTimeout, envSelectDelay, envLog, envLogLevel, envFormat, envTheme} {
		t.Setenv(k, "")
	}
}

func newTestServer(t *testing.T) (*memstore.Store, string) {
	t.Helper()
	n := 0
	s := memstore.New(
		memstore.WithTemplate([]memstore.TemplateTask{
			{Name: "milk", Category: "dairy"},
			{Name: "bread", Category: "bakery"},
			{Name: "cheese", Category: "dairy"},
		}),
		memstore.WithIDFunc(func() model.TaskID {
			n++
			return model.TaskID(strconv.Itoa(n))
		}),
	)
	srv := httptest.NewServer(memstore.NewRouter(s, zap.NewNop()))
	t.Cleanup(srv.Close)
	return s, srv.URL
}

func runCLI(t *testing.T, args []string) ([]byte, []byte, error) {
	t.Helper()
	cmd := NewRootCmd()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.Bytes(), stderr.Bytes(), err
}

func mustData(t *testing.T, args ...string) any {
	t.Helper()
	stdout, stderr, err := runCLI(t, args)
	if err != nil {
		t.Fatalf("command failed: checklist %v\nerr: %v\nstderr:\n%s", args, err, stderr)
	}
	var env map[string]any
	if err := json.Unmarshal(stdout, &env); err != nil {
		t.Fatalf("unmarshal stdout as json envelope: %v\nstdout:\n%s", err, stdout)
	}
	data, ok := env["data"]
	if !ok {
		t.Fatalf("expected data key, got %v", env)
	}
	return data
}

func TestCLI_CreateListGroupAndToggle(t *testing.T) {
	clearEnv(t)
	_, url := newTestServer(t)

	mustData(t, "--url", url, "users", "create", "alice")

	names, _ := mustData(t, "--url", url, "names").([]any)
	if len(names) != 1 || names[0] != "alice" {
		t.Fatalf("unexpected names: %v", names)
	}

	groups, _ := mustData(t, "--url", url, "tasks", "alice").([]any)
	if len(groups) != 2 {
		t.Fatalf("expected two categories, got %v", groups)
	}
	first := groups[0].(map[string]any)
	if first["category"] != "dairy" {
		t.Fatalf("expected first-seen category dairy, got %v", first["category"])
	}
	if tasks := first["tasks"].([]any); len(tasks) != 2 {
		t.Fatalf("expected milk and cheese under dairy, got %v", tasks)
	}

	task, _ := mustData(t, "--url", url, "toggle", "1").(map[string]any)
	if task["checked"] != true {
		t.Fatalf("expected task 1 checked after toggle, got %v", task)
	}
	task, _ = mustData(t, "--url", url, "toggle", "1").(map[string]any)
	if task["checked"] != false {
		t.Fatalf("expected task 1 unchecked after second toggle, got %v", task)
	}
	task, _ = mustData(t, "--url", url, "toggle", "1", "--set", "true").(map[string]any)
	if task["checked"] != true {
		t.Fatalf("expected --set true to stick, got %v", task)
	}
}

func TestCLI_UnknownUserIsNotFound(t *testing.T) {
	clearEnv(t)
	_, url := newTestServer(t)

	_, stderr, err := runCLI(t, []string{"--url", url, "tasks", "nobody"})
	if err == nil {
		t.Fatalf("expected an error")
	}
	if _, ok := err.(notFoundError); !ok {
		t.Fatalf("expected notFoundError, got %T: %v", err, err)
	}
	if !strings.Contains(string(stderr), "user not found: nobody") {
		t.Fatalf("unexpected stderr: %s", stderr)
	}
}

func TestCLI_UnreachableServer(t *testing.T) {
	clearEnv(t)
	dead := httptest.NewServer(nil)
	deadURL := dead.URL
	dead.Close()

	_, _, err := runCLI(t, []string{"--url", deadURL, "names"})
	if _, ok := err.(unreachableError); !ok {
		t.Fatalf("expected unreachableError, got %T: %v", err, err)
	}
}

func TestCLI_EDNOutput(t *testing.T) {
	clearEnv(t)
	_, url := newTestServer(t)
	mustData(t, "--url", url, "users", "create", "alice")

	stdout, _, err := runCLI(t, []string{"--url", url, "--format", "edn", "names"})
	if err != nil {
		t.Fatalf("names: %v", err)
	}
	if got := strings.TrimSpace(string(stdout)); got != `{:data ["alice"]}` {
		t.Fatalf("unexpected edn: %s", got)
	}
}

func TestSettings_Precedence(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	body := "url = \"http://file:1\"\ntimeout = \"2s\"\nselect_delay = \"700ms\"\n"
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv(envTimeout, "3s")

	app := &App{}
	sub, _, err := NewRootCmd().Find([]string{"names"})
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if err := sub.ParseFlags([]string{"--config", path, "--url", "http://flag:2"}); err != nil {
		t.Fatalf("parse: %v", err)
	}
	app.ConfigPath, _ = sub.Flags().GetString("config")
	app.URL, _ = sub.Flags().GetString("url")
	app.Timeout, _ = sub.Flags().GetDuration("timeout")
	app.SelectDelay, _ = sub.Flags().GetDuration("select-delay")
	app.LogLevel, _ = sub.Flags().GetString("log-level")

	cfg, err := app.settings(sub)
	if err != nil {
		t.Fatalf("settings: %v", err)
	}
	if cfg.URL != "http://flag:2" {
		t.Fatalf("flag should beat file, got %q", cfg.URL)
	}
	if cfg.Timeout.String() != "3s" {
		t.Fatalf("env should beat file, got %v", cfg.Timeout)
	}
	if cfg.SelectDelay.String() != "700ms" {
		t.Fatalf("file should beat default, got %v", cfg.SelectDelay)
	}
}

func TestSettings_MissingExplicitConfigFails(t *testing.T) {
	clearEnv(t)
	_, _, err := runCLI(t, []string{"--config", filepath.Join(t.TempDir(), "nope.toml"), "names"})
	if err == nil || !strings.Contains(err.Error(), "config file not found") {
		t.Fatalf("expected missing config error, got %v", err)
	}
}

func TestSettings_BadEnvDuration(t *testing.T) {
	clearEnv(t)
	t.Setenv(envTimeout, "soon")
	_, _, err := runCLI(t, []string{"names"})
	if err == nil || !strings.Contains(err.Error(), envTimeout) {
		t.Fatalf("expected env parse error, got %v", err)
	}
}

func TestGroupTasks_KeepsFirstSeenOrder(t *testing.T) {
	got := groupTasks([]model.Task{
		{ID: "1", Category: "b"},
		{ID: "2", Category: "a"},
		{ID: "3", Category: "b"},
	})
	if len(got) != 2 || got[0].Category != "b" || got[1].Category != "a" {
		t.Fatalf("unexpected grouping: %+v", got)
	}
	if len(got[0].Tasks) != 2 || got[0].Tasks[1].ID != "3" {
		t.Fatalf("unexpected bucket: %+v", got[0].Tasks)
	}
	if out := groupTasks(nil); out == nil || len(out) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", out)
	}
}

func TestDocs_ListAndShow(t *testing.T) {
	clearEnv(t)
	data, _ := mustData(t, "docs").(map[string]any)
	if topics, _ := data["topics"].([]any); len(topics) == 0 {
		t.Fatalf("expected topics, got %v", data)
	}

	stdout, _, err := runCLI(t, []string{"docs", "contract", "--raw"})
	if err != nil {
		t.Fatalf("docs contract: %v", err)
	}
	if !strings.Contains(string(stdout), "/tasks/{id}") {
		t.Fatalf("unexpected contract doc:\n%s", stdout)
	}

	if _, _, err := runCLI(t, []string{"docs", "nope"}); err == nil {
		t.Fatalf("expected unknown topic error")
	}
}
