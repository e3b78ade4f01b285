package main

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/pflag"

	"github.com/obentoo/pluginutils/internal/common/config"
	"github.com/obentoo/pluginutils/internal/update"
)

// TestCommandsRegistered tests that every subcommand is attached to the root
func TestCommandsRegistered(t *testing.T) {
	want := []string{"init", "check-update", "lang", "config", "version", "completion"}
	for _, name := range want {
		t.Run(name, func(t *testing.T) {
			found := false
			for _, cmd := range rootCmd.Commands() {
				if cmd.Name() == name {
					found = true
					break
				}
			}
			if !found {
				t.Errorf("%s subcommand should exist", name)
			}
		})
	}
}

// TestPersistentFlags tests that settings flags are available to every command
func TestPersistentFlags(t *testing.T) {
	tests := []struct {
		flagName string
		flagType string
	}{
		{"verbose", "bool"},
		{"quiet", "bool"},
		{"no-color", "bool"},
		{"log-file", "bool"},
		{KeyDataDir, "string"},
		{KeyServerLanguage, "string"},
		{KeyFallbackLanguage, "string"},
		{KeyUpdateURL, "string"},
		{KeyUserAgent, "string"},
		{KeyWorkers, "int"},
	}

	for _, tt := range tests {
		t.Run(tt.flagName, func(t *testing.T) {
			flag := rootCmd.PersistentFlags().Lookup(tt.flagName)
			if flag == nil {
				t.Fatalf("root command should have --%s flag", tt.flagName)
			}
			if flag.Value.Type() != tt.flagType {
				t.Errorf("flag %s should be %s type, got %s", tt.flagName, tt.flagType, flag.Value.Type())
			}
		})
	}
}

// TestCheckUpdateFlags tests check-update flag types and defaults
func TestCheckUpdateFlags(t *testing.T) {
	for name, typ := range map[string]string{"interval": "duration", "timeout": "duration", "force": "bool"} {
		flag := checkUpdateCmd.Flags().Lookup(name)
		if flag == nil {
			t.Errorf("check-update should have --%s flag", name)
			continue
		}
		if flag.Value.Type() != typ {
			t.Errorf("flag %s should be %s type, got %s", name, typ, flag.Value.Type())
		}
	}
	if got := checkUpdateCmd.Flags().Lookup("interval").DefValue; got != "0s" {
		t.Errorf("interval default = %s, want 0s", got)
	}
}

// TestCommandDescriptions tests that every command documents itself
func TestCommandDescriptions(t *testing.T) {
	for _, cmd := range rootCmd.Commands() {
		if cmd.Short == "" {
			t.Errorf("%s should have a short description", cmd.Name())
		}
	}
}

func TestSettingsFromEnvironment(t *testing.T) {
	t.Setenv("PLUGINUTILS_DATA_DIR", "/tmp/plugin-data")
	t.Setenv("PLUGINUTILS_UPDATE_URL", "https://example.test/latest")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String(KeyDataDir, "", "")
	flags.String(KeyUpdateURL, "", "")
	flags.String(KeyServerLanguage, "eng", "")

	v, err := newSettings(flags)
	if err != nil {
		t.Fatal(err)
	}
	if got := v.GetString(KeyDataDir); got != "/tmp/plugin-data" {
		t.Errorf("data-dir = %q", got)
	}
	if got := v.GetString(KeyUpdateURL); got != "https://example.test/latest" {
		t.Errorf("update-url = %q", got)
	}
	if got := v.GetString(KeyServerLanguage); got != "eng" {
		t.Errorf("language = %q, want default eng", got)
	}
}

func TestSettingsFlagBeatsEnvironment(t *testing.T) {
	t.Setenv("PLUGINUTILS_LANGUAGE", "jpn")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String(KeyServerLanguage, "eng", "")
	if err := flags.Parse([]string{"--language", "deu"}); err != nil {
		t.Fatal(err)
	}

	v, err := newSettings(flags)
	if err != nil {
		t.Fatal(err)
	}
	if got := v.GetString(KeyServerLanguage); got != "deu" {
		t.Errorf("language = %q, want flag value deu", got)
	}
}

func TestUserAgentOverride(t *testing.T) {
	if got := (userAgent{override: "ExampleServer/5"}).UserAgent(); got != "ExampleServer/5" {
		t.Errorf("UserAgent() = %q", got)
	}
	if got := (userAgent{}).UserAgent(); !strings.HasPrefix(got, "pluginutils/") {
		t.Errorf("UserAgent() = %q, want build user agent", got)
	}
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	checkInterval = 0
	checkForce = false
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(new(bytes.Buffer))
	rootCmd.SetArgs(append(args, "--quiet", "--no-color"))
	err := rootCmd.Execute()
	return buf.String(), err
}

func TestCheckUpdateCommand(t *testing.T) {
	var gotAgent string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAgent = r.Header.Get("User-Agent")
		w.Write([]byte(`{"tag_name":"v9.0.0","name":"Nine","published_at":"2024-01-01T00:00:00Z","html_url":"https://example.test/r/9"}`))
	}))
	defer server.Close()

	dir := t.TempDir()
	_, err := execute(t, "check-update", "--data-dir", dir, "--update-url", server.URL, "--user-agent", "ExampleServer/5")
	if err != nil {
		t.Fatalf("check-update error = %v", err)
	}
	if gotAgent != "ExampleServer/5" {
		t.Errorf("User-Agent = %q", gotAgent)
	}
	if _, err := os.Stat(filepath.Join(dir, config.FileName)); err != nil {
		t.Errorf("config should be saved: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "locale", "eng.toml")); err != nil {
		t.Errorf("catalogs should be extracted: %v", err)
	}
}

func TestCheckUpdateCommandFailure(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	defer server.Close()

	_, err := execute(t, "check-update", "--data-dir", t.TempDir(), "--update-url", server.URL)
	if !errors.Is(err, update.ErrCheckFailed) {
		t.Fatalf("check-update error = %v, want a failed check", err)
	}
	var cerr *update.CheckError
	if !errors.As(err, &cerr) || cerr.Kind != update.KindHTTP || cerr.Code != http.StatusNotFound {
		t.Errorf("error = %#v, want HTTP 404", err)
	}
}

func TestCheckUpdateDisabled(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, config.FileName), []byte("language: eng\nupdate:\n  enabled: false\n"), 0644); err != nil {
		t.Fatal(err)
	}
	// no server: a request would fail the command
	if _, err := execute(t, "check-update", "--data-dir", dir, "--update-url", "http://127.0.0.1:1/"); err != nil {
		t.Errorf("disabled check should not run, got %v", err)
	}
}

func TestLangCommand(t *testing.T) {
	dir := t.TempDir()
	out, err := execute(t, "lang", "--data-dir", dir, "update.check.uptodate", "1.2.0")
	if err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(out) != "You are running the latest version (1.2.0)" {
		t.Errorf("lang output = %q", out)
	}
}

func TestConfigSetAndGet(t *testing.T) {
	dir := t.TempDir()
	if _, err := execute(t, "config", "set", "update.interval", "6h", "--data-dir", dir); err != nil {
		t.Fatal(err)
	}
	out, err := execute(t, "config", "get", "update.interval", "--data-dir", dir)
	if err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(out) != "6h" {
		t.Errorf("config get = %q, want 6h", out)
	}
}
