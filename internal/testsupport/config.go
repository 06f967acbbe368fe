package testsupport

import (
	"path/filepath"
	"testing"

	"reclaim/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.DataDir = filepath.Join(base, "data")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Paths.APIBind = "127.0.0.1:0"
	cfg.Matcher.BaseURL = "http://127.0.0.1:1"
	cfg.Moderation.BaseURL = "http://127.0.0.1:1"
	cfg.Email.BaseURL = "http://127.0.0.1:1"
	cfg.Notifications.BackOfficeUID = "back-office"

	for _, opt := range opts {
		opt(&cfg)
	}
	return &cfg
}

// WithThresholds overrides the fan-out thresholds on the test config.
func WithThresholds(submission, verification int) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Notifications.SubmissionThreshold = submission
		cfg.Notifications.VerificationThreshold = verification
	}
}

// WithAPIToken sets the API bearer token on the test config.
func WithAPIToken(token string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Paths.APIToken = token
	}
}
