package cli

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// execute runs the CLI with a fresh root command.
func execute(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	code := run(cmd, args)
	return code, stdout.String(), stderr.String()
}

// writeConfig points storage at a temp dir and the site at baseURL.
func writeConfig(t *testing.T, baseURL string) string {
	t.Helper()
	dir := t.TempDir()
	cfg := "log:\n  level: error\n" +
		"storage:\n  driver: file\n  data_dir: " + filepath.Join(dir, "data") + "\n" +
		"fetch:\n  timeout: 5s\n"
	if baseURL != "" {
		cfg += "site:\n  base_url: " + baseURL + "/competitions\n  quote_url: " + baseURL + "/quote\n"
	}
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(cfg), 0o600))
	return path
}

func fixtureSite(t *testing.T) *httptest.Server {
	t.Helper()
	read := func(name string) []byte {
		data, err := os.ReadFile(filepath.Join("..", "scraper", "testdata", name))
		require.NoError(t, err)
		return data
	}
	pages := map[string][]byte{
		"/competitions":                              read("search.html"),
		"/competitions/WarsawOpen2030.ics":           read("competition.ics"),
		"/competitions/WarsawOpen2030":               read("info.html"),
		"/competitions/WarsawOpen2030/register":      read("register.html"),
		"/competitions/WarsawOpen2030/registrations": read("registrations.html"),
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, ok := pages[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Write(body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestSubscribeListUnsubscribe(t *testing.T) {
	cfg := writeConfig(t, "")

	code, out, errOut := execute(t, "--config", cfg, "subscribe",
		"--email", "Cuber@Example.com", "--currency", "pln", "--events", "333,444",
		"--mode", "any", "--continent", "_Europe", "--fee", "10-25", "--accept-full")
	require.Equal(t, ExitSuccess, code, errOut)
	assert.Contains(t, out, "Subscribed cuber@example.com")

	code, _, errOut = execute(t, "--config", cfg, "subscribe", "--email", "cuber@example.com", "--events", "333")
	assert.Equal(t, ExitError, code)
	assert.Contains(t, errOut, "already exists")

	code, out, _ = execute(t, "--config", cfg, "list")
	require.Equal(t, ExitSuccess, code)
	assert.Contains(t, out, "cuber@example.com")
	assert.Contains(t, out, "PLN")

	code, out, _ = execute(t, "--config", cfg, "list", "--format", "json")
	require.Equal(t, ExitSuccess, code)
	assert.Contains(t, out, `"emailAddress": "cuber@example.com"`)

	code, out, _ = execute(t, "--config", cfg, "unsubscribe", "cuber@example.com", "other@example.com")
	require.Equal(t, ExitSuccess, code)
	assert.Contains(t, out, "Removed 1 subscription(s)")

	code, out, _ = execute(t, "--config", cfg, "list")
	require.Equal(t, ExitSuccess, code)
	assert.Contains(t, out, "No subscriptions.")
}

func TestSubscribeValidation(t *testing.T) {
	cfg := writeConfig(t, "")

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"unknown event", []string{"--email", "a@example.com", "--events", "999"}, "filter.events[0]"},
		{"unknown currency", []string{"--email", "a@example.com", "--events", "333", "--currency", "ABC"}, "preferredCurrency"},
		{"bad fee", []string{"--email", "a@example.com", "--events", "333", "--fee", "cheap"}, "fee"},
		{"missing events", []string{"--email", "a@example.com"}, "events"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"--config", cfg, "subscribe"}, tt.args...)
			code, _, errOut := execute(t, args...)
			assert.Equal(t, ExitError, code)
			assert.Contains(t, errOut, tt.want)
		})
	}
}

func TestDiscoverAndRun(t *testing.T) {
	site := fixtureSite(t)
	cfg := writeConfig(t, site.URL)

	code, _, errOut := execute(t, "--config", cfg, "subscribe",
		"--email", "cuber@example.com", "--currency", "EUR", "--events", "333")
	require.Equal(t, ExitSuccess, code, errOut)

	code, out, errOut := execute(t, "--config", cfg, "--verbose", "discover", "--email", "cuber@example.com")
	require.Equal(t, ExitNewEvents, code, errOut)
	assert.Contains(t, out, "NEW: Warsaw Open 2030 (Fri, 12 Apr 2030) - Warsaw, Poland")
	assert.Contains(t, out, "/competitions/WarsawOpen2030#general-info")
	assert.Contains(t, out, "Fee: 25.50 EUR (25.50 converted)")
	assert.Contains(t, out, "FAIL: KrakowCube2030")

	code, out, _ = execute(t, "--config", cfg, "discover", "--email", "cuber@example.com", "--format", "ics")
	require.Equal(t, ExitNewEvents, code)
	assert.True(t, strings.HasPrefix(out, "BEGIN:VCALENDAR"))
	assert.Contains(t, out, "Warsaw Open 2030")

	// discover is read-only, so the run still finds the event
	code, out, errOut = execute(t, "--config", cfg, "run")
	require.Equal(t, ExitSuccess, code, errOut)
	assert.Contains(t, out, "--- Email to cuber@example.com ---")
	assert.Contains(t, out, "Subject: New WCA Competition!")
	assert.Contains(t, errOut, "1 notified with 1 event(s)")

	code, out, _ = execute(t, "--config", cfg, "discover", "--email", "cuber@example.com")
	assert.Equal(t, ExitSuccess, code)
	assert.Contains(t, out, "No new events found.")

	code, out, _ = execute(t, "--config", cfg, "run", "--unsubscribe", "cuber@example.com")
	require.Equal(t, ExitSuccess, code)
	assert.NotContains(t, out, "--- Email to")
}

func TestDiscoverUnknownSubscriber(t *testing.T) {
	cfg := writeConfig(t, "")
	code, _, errOut := execute(t, "--config", cfg, "discover", "--email", "nobody@example.com")
	assert.Equal(t, ExitError, code)
	assert.Contains(t, errOut, "subscription not found")
}

func TestDiscoverInvalidFormat(t *testing.T) {
	cfg := writeConfig(t, "")
	code, _, errOut := execute(t, "--config", cfg, "discover", "--email", "a@example.com", "--format", "xml")
	assert.Equal(t, ExitError, code)
	assert.Contains(t, errOut, "invalid format")
}

func TestMissingConfigFile(t *testing.T) {
	code, _, errOut := execute(t, "--config", filepath.Join(t.TempDir(), "missing.yaml"), "list")
	assert.Equal(t, ExitError, code)
	assert.Contains(t, errOut, "loading config")
}
