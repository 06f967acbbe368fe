package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"reclaim/internal/config"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestDefaultsValidateWithMatcherURL(t *testing.T) {
	cfg := config.Default()
	cfg.Matcher.BaseURL = "http://matcher.local"
	cfg.Moderation.BaseURL = "http://moderation.local"
	cfg.Email.BaseURL = "http://mail.local"

	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
	if cfg.Notifications.SubmissionThreshold != 60 {
		t.Fatalf("submission threshold default %d, want 60", cfg.Notifications.SubmissionThreshold)
	}
	if cfg.Notifications.VerificationThreshold != 75 {
		t.Fatalf("verification threshold default %d, want 75", cfg.Notifications.VerificationThreshold)
	}
	if cfg.Notifications.TopMatchLimit != 4 {
		t.Fatalf("top match limit default %d, want 4", cfg.Notifications.TopMatchLimit)
	}
	if cfg.Notifications.PendingWindowHours != 24 {
		t.Fatalf("pending window default %d, want 24", cfg.Notifications.PendingWindowHours)
	}
}

func TestLoadParsesAndNormalizes(t *testing.T) {
	base := t.TempDir()
	path := writeConfig(t, `
[paths]
data_dir = "`+filepath.Join(base, "data")+`"
log_dir = "`+filepath.Join(base, "logs")+`"
api_bind = " 127.0.0.1:0 "

[matcher]
base_url = "http://matcher.local/"

[moderation]
enabled = false

[email]
enabled = false

[notifications]
submission_threshold = 55
back_office_uid = "desk-1"
`)

	cfg, resolved, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !exists {
		t.Fatal("expected config file to be reported as existing")
	}
	if resolved != path {
		t.Fatalf("resolved path %q, want %q", resolved, path)
	}
	if cfg.Matcher.BaseURL != "http://matcher.local" {
		t.Fatalf("base URL not trimmed: %q", cfg.Matcher.BaseURL)
	}
	if cfg.Paths.APIBind != "127.0.0.1:0" {
		t.Fatalf("api bind not trimmed: %q", cfg.Paths.APIBind)
	}
	if cfg.Notifications.SubmissionThreshold != 55 {
		t.Fatalf("submission threshold %d, want 55", cfg.Notifications.SubmissionThreshold)
	}
	// Unset values keep their defaults.
	if cfg.Notifications.VerificationThreshold != 75 {
		t.Fatalf("verification threshold %d, want default 75", cfg.Notifications.VerificationThreshold)
	}
	if cfg.Notifications.BackOfficeUID != "desk-1" {
		t.Fatalf("back office uid %q", cfg.Notifications.BackOfficeUID)
	}
	if cfg.DatabasePath() != filepath.Join(base, "data", "reclaim.db") {
		t.Fatalf("database path %q", cfg.DatabasePath())
	}
}

func TestLoadRejectsMissingMatcherURL(t *testing.T) {
	base := t.TempDir()
	path := writeConfig(t, `
[paths]
data_dir = "`+filepath.Join(base, "data")+`"
log_dir = "`+filepath.Join(base, "logs")+`"
`)

	_, _, _, err := config.Load(path)
	if err == nil {
		t.Fatal("expected error when matcher.base_url missing")
	}
	if !strings.Contains(err.Error(), "matcher.base_url") {
		t.Fatalf("error should name the missing key, got %q", err)
	}
}

func TestValidateRejectsOutOfRangeThreshold(t *testing.T) {
	cfg := config.Default()
	cfg.Matcher.BaseURL = "http://matcher.local"
	cfg.Moderation.Enabled = false
	cfg.Email.Enabled = false
	cfg.Notifications.SubmissionThreshold = 120

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected threshold range error")
	}
}

func TestValidateRejectsUnknownLoggingFormat(t *testing.T) {
	cfg := config.Default()
	cfg.Matcher.BaseURL = "http://matcher.local"
	cfg.Moderation.Enabled = false
	cfg.Email.Enabled = false
	cfg.Logging.Format = "yaml"

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected logging format error")
	}
}

func TestSampleConfigParses(t *testing.T) {
	path := writeConfig(t, config.SampleConfig())
	if _, _, _, err := config.Load(path); err != nil {
		t.Fatalf("sample config should load cleanly: %v", err)
	}
}

func TestEnsureDirectories(t *testing.T) {
	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.DataDir = filepath.Join(base, "nested", "data")
	cfg.Paths.LogDir = filepath.Join(base, "nested", "logs")

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories failed: %v", err)
	}
	for _, dir := range []string{cfg.Paths.DataDir, cfg.Paths.LogDir} {
		info, err := os.Stat(dir)
		if err != nil || !info.IsDir() {
			t.Fatalf("directory %q not created", dir)
		}
	}
}
