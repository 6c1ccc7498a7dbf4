package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/trajview/internal/config"
	"github.com/rshade/trajview/internal/trajectory"
	"github.com/rshade/trajview/internal/tui"
)

const fixture = "../trajectory/testdata/claude-task-7.json"

func noEnv(string) (string, bool) { return "", false }

type cmdResult struct {
	stdout string
	stderr string
	err    error
}

// execute runs the CLI with a config path in a temp dir and plain output.
func execute(t *testing.T, args ...string) cmdResult {
	t.Helper()
	cfgPath := filepath.Join(t.TempDir(), "config.yaml")
	return executeWith(t, cfgPath, args...)
}

func executeWith(t *testing.T, cfgPath string, args ...string) cmdResult {
	t.Helper()
	opts := &rootOptions{
		lookupEnv:  noEnv,
		detectMode: func(bool, bool) tui.OutputMode { return tui.OutputModePlain },
	}
	cmd := newRootCmd("test", opts)

	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(append([]string{"--config", cfgPath}, args...))

	err := cmd.Execute()
	return cmdResult{stdout: out.String(), stderr: errOut.String(), err: err}
}

func TestNewRootCmd(t *testing.T) {
	cmd := NewRootCmd("1.2.3")
	assert.Equal(t, "trajview", cmd.Use)
	assert.Equal(t, "1.2.3", cmd.Version)

	names := make([]string, 0, len(cmd.Commands()))
	for _, c := range cmd.Commands() {
		names = append(names, c.Name())
	}
	assert.Subset(t, names, []string{"view", "list", "window", "export", "config"})

	for _, flag := range []string{"debug", "config", "plain", "no-color"} {
		assert.NotNil(t, cmd.PersistentFlags().Lookup(flag), flag)
	}
}

func TestViewCmd_PlainFallback(t *testing.T) {
	res := execute(t, "view", fixture)
	require.NoError(t, res.err)

	assert.Contains(t, res.stdout, "claude-task-7: Completed")
	assert.Contains(t, res.stdout, "tool-result-claude-task-7-1")
	assert.Contains(t, res.stdout, "filesystem list_directory")
	assert.Contains(t, res.stdout, "python-execute")
}

func TestViewCmd_Errors(t *testing.T) {
	res := execute(t, "view")
	require.Error(t, res.err)

	res = execute(t, "view", filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, res.err)
	assert.Contains(t, res.err.Error(), "opening trajectory")

	res = execute(t, "view", fixture, "--category", "bogus")
	require.ErrorIs(t, res.err, trajectory.ErrUnknownCategory)
}

func TestListCmd_Formats(t *testing.T) {
	t.Run("table", func(t *testing.T) {
		res := execute(t, "list", fixture)
		require.NoError(t, res.err)
		assert.Contains(t, res.stdout, "ID")
		assert.Contains(t, res.stdout, "Error In Tool Call")
		assert.Contains(t, res.stdout, "Tool Name Not Found")
	})

	t.Run("json with category", func(t *testing.T) {
		res := execute(t, "list", fixture, "--output", "json", "--category", "error")
		require.NoError(t, res.err)

		var pages []trajectory.Page
		require.NoError(t, json.Unmarshal([]byte(res.stdout), &pages))
		require.Len(t, pages, 1)
		require.Len(t, pages[0].Results, 1)
		assert.Equal(t, trajectory.CategoryError, pages[0].Results[0].Category)
		assert.Equal(t, "read_file", pages[0].Results[0].Function)
		require.Len(t, pages[0].Messages, 2)
		assert.Equal(t, "Done.", pages[0].Messages[1].Text)
		assert.Equal(t, 1, pages[0].Messages[1].Position)
	})

	t.Run("json sorted drops messages", func(t *testing.T) {
		res := execute(t, "list", fixture, "-o", "json", "--sort", "tool")
		require.NoError(t, res.err)

		var pages []trajectory.Page
		require.NoError(t, json.Unmarshal([]byte(res.stdout), &pages))
		require.Len(t, pages, 1)
		assert.Len(t, pages[0].Results, 4)
		assert.Empty(t, pages[0].Messages)
	})

	t.Run("ndjson", func(t *testing.T) {
		res := execute(t, "list", fixture, "-o", "ndjson")
		require.NoError(t, res.err)
		lines := strings.Split(strings.TrimSpace(res.stdout), "\n")
		assert.Len(t, lines, 4)
		assert.Contains(t, lines[0], `"trajectory":"claude-task-7"`)
	})

	t.Run("unknown format", func(t *testing.T) {
		res := execute(t, "list", fixture, "-o", "xml")
		require.Error(t, res.err)
	})
}

func TestListCmd_SortAndPage(t *testing.T) {
	res := execute(t, "list", fixture, "-o", "ndjson", "--sort", "turn:desc", "--limit", "2")
	require.NoError(t, res.err)
	lines := strings.Split(strings.TrimSpace(res.stdout), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], `"id":"tool-result-claude-task-7-3"`)
	assert.Contains(t, lines[1], `"id":"tool-result-claude-task-7-4"`)

	res = execute(t, "list", fixture, "--page", "2", "--page-size", "3")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "tool-result-claude-task-7-4")
	assert.NotContains(t, res.stdout, "tool-result-claude-task-7-1")
	assert.Contains(t, res.stderr, "page 2 of 2")

	res = execute(t, "list", fixture, "--sort", "savings")
	require.Error(t, res.err)

	res = execute(t, "list", fixture, "--page", "1", "--offset", "2", "--page-size", "1")
	require.Error(t, res.err)
}

func TestWindowCmd(t *testing.T) {
	tests := []struct {
		name       string
		args       []string
		wantActive bool
		wantStart  int
		wantEnd    int
		wantShown  int
	}{
		{name: "top", args: []string{"--count", "25"}, wantActive: true, wantStart: 0, wantEnd: 10, wantShown: 10},
		{name: "scrolled", args: []string{"--count", "25", "--offset", "400"}, wantActive: true, wantStart: 5, wantEnd: 15, wantShown: 10},
		{name: "huge offset", args: []string{"--count", "25", "--offset", "1000000"}, wantActive: true, wantStart: 15, wantEnd: 25, wantShown: 10},
		{name: "below threshold", args: []string{"--count", "10", "--offset", "400"}, wantStart: 0, wantEnd: 10, wantShown: 10},
		{name: "custom buffer", args: []string{"--count", "25", "--buffer", "0"}, wantActive: true, wantStart: 0, wantEnd: 8, wantShown: 8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := execute(t, append([]string{"window", "-o", "json"}, tt.args...)...)
			require.NoError(t, res.err)

			var report windowReport
			require.NoError(t, json.Unmarshal([]byte(res.stdout), &report))
			assert.Equal(t, tt.wantActive, report.Active)
			assert.Equal(t, tt.wantStart, report.Start)
			assert.Equal(t, tt.wantEnd, report.End)
			assert.Equal(t, tt.wantShown, report.Rendered)
			if tt.wantActive {
				assert.Equal(t, report.Items, report.Positioned)
			} else {
				assert.Zero(t, report.Positioned)
			}
		})
	}
}

func TestWindowCmd_Table(t *testing.T) {
	res := execute(t, "window", "--count", "25", "--offset", "400")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "windowing:")
	assert.Contains(t, res.stdout, "active")
	assert.Contains(t, res.stdout, "[5, 15)")
}

func TestWindowCmd_InvalidParameters(t *testing.T) {
	res := execute(t, "window", "--count", "25", "--item-height", "0")
	require.Error(t, res.err)
	assert.Contains(t, res.err.Error(), "invalid window parameters")

	res = execute(t, "window")
	require.Error(t, res.err, "--count is required")
}

func TestExportCmd(t *testing.T) {
	out := filepath.Join(t.TempDir(), "page.html")
	res := execute(t, "export", fixture, "-o", out, "--title", "Nightly")
	require.NoError(t, res.err)
	assert.Contains(t, res.stderr, "Wrote "+out)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	page := string(data)
	assert.Contains(t, page, "<title>Nightly</title>")
	assert.Contains(t, page, `id="tool-result-claude-task-7-1"`)
	assert.Contains(t, page, `class="error-box"`)
	assert.Contains(t, page, `class="thinking-box"`)
	assert.Contains(t, page, "Let me look around.")

	res = execute(t, "export", fixture)
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "<!DOCTYPE html>")
}

func TestConfigCmds(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "trajview", "config.yaml")

	res := executeWith(t, cfgPath, "config", "init")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "Configuration initialized at "+cfgPath)
	assert.FileExists(t, cfgPath)

	res = executeWith(t, cfgPath, "config", "init")
	require.Error(t, res.err)
	assert.Contains(t, res.err.Error(), "already exists")

	res = executeWith(t, cfgPath, "config", "show")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "threshold: 20")
	assert.Contains(t, res.stdout, "reveal_delay: 300ms")

	res = executeWith(t, cfgPath, "config", "validate", "--verbose")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "Configuration is valid")
	assert.Contains(t, res.stdout, "threshold 20")
}

func TestConfigValidate_Invalid(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("window:\n  item_height: 0\n"), 0o600))

	res := executeWith(t, cfgPath, "config", "validate")
	require.Error(t, res.err)
	assert.Contains(t, res.err.Error(), "configuration validation failed")

	res = executeWith(t, cfgPath, "list", fixture)
	require.Error(t, res.err, "other commands fail on an invalid config")
}

func TestConfigOverridesWindowDefaults(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "config.yaml")
	cfg := config.New()
	cfg.Window.Threshold = 5
	cfg.Window.ItemHeight = 100
	require.NoError(t, cfg.WriteFile(cfgPath))

	res := executeWith(t, cfgPath, "window", "-o", "json", "--count", "10", "--offset", "250")
	require.NoError(t, res.err)

	var report windowReport
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &report))
	assert.True(t, report.Active)
	assert.Equal(t, 100, report.ItemHeight)
	assert.Equal(t, 8, report.VisibleCount, "ceil(600/100) plus the default buffer")
	assert.Equal(t, 2, report.Start)
}
