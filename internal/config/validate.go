package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateMatcher(); err != nil {
		return err
	}
	if err := c.validateModeration(); err != nil {
		return err
	}
	if err := c.validateEmail(); err != nil {
		return err
	}
	if err := c.validateNotifications(); err != nil {
		return err
	}
	if err := c.validateWorkflow(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validatePaths() error {
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		return errors.New("paths.data_dir must be set")
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		return errors.New("paths.log_dir must be set")
	}
	return nil
}

func (c *Config) validateMatcher() error {
	if c.Matcher.BaseURL == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			defaultPath = "~/.config/reclaim/config.toml"
		}
		return fmt.Errorf("matcher.base_url is required. Edit %s (create with 'reclaim config init')", defaultPath)
	}
	if c.Matcher.TimeoutSeconds <= 0 {
		return errors.New("matcher.timeout_seconds must be positive")
	}
	return nil
}

func (c *Config) validateModeration() error {
	if !c.Moderation.Enabled {
		return nil
	}
	if c.Moderation.BaseURL == "" {
		return errors.New("moderation.base_url is required when moderation is enabled")
	}
	if c.Moderation.TimeoutSeconds <= 0 {
		return errors.New("moderation.timeout_seconds must be positive")
	}
	return nil
}

func (c *Config) validateEmail() error {
	if !c.Email.Enabled {
		return nil
	}
	if c.Email.BaseURL == "" {
		return errors.New("email.base_url is required when email is enabled")
	}
	if strings.TrimSpace(c.Email.FromAddress) == "" {
		return errors.New("email.from_address must be set when email is enabled")
	}
	if c.Email.TimeoutSeconds <= 0 {
		return errors.New("email.timeout_seconds must be positive")
	}
	return nil
}

func (c *Config) validateNotifications() error {
	n := c.Notifications
	for name, value := range map[string]int{
		"notifications.submission_threshold":   n.SubmissionThreshold,
		"notifications.verification_threshold": n.VerificationThreshold,
	} {
		if value < 0 || value > 100 {
			return fmt.Errorf("%s must be between 0 and 100", name)
		}
	}
	if n.TopMatchLimit <= 0 {
		return errors.New("notifications.top_match_limit must be positive")
	}
	if n.PendingWindowHours <= 0 {
		return errors.New("notifications.pending_window_hours must be positive")
	}
	return nil
}

func (c *Config) validateWorkflow() error {
	if c.Workflow.ExpirySweepInterval <= 0 {
		return errors.New("workflow.expiry_sweep_interval must be positive")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch strings.ToLower(strings.TrimSpace(c.Logging.Format)) {
	case "", "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch strings.ToLower(strings.TrimSpace(c.Logging.Level)) {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error, got %q", c.Logging.Level)
	}
	return nil
}
