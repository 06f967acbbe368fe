package config

const (
	defaultDataDir               = "~/.local/share/reclaim/data"
	defaultLogDir                = "~/.local/share/reclaim/logs"
	defaultAPIBind               = "127.0.0.1:7910"
	defaultMatcherTimeout        = 30
	defaultModerationTimeout     = 15
	defaultEmailTimeout          = 10
	defaultEmailFrom             = "no-reply@campus.example"
	defaultSubmissionThreshold   = 60
	defaultVerificationThreshold = 75
	defaultTopMatchLimit         = 4
	defaultPendingWindowHours    = 24
	defaultExpirySweepInterval   = 300
	defaultLogFormat             = "console"
	defaultLogLevel              = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir: defaultDataDir,
			LogDir:  defaultLogDir,
			APIBind: defaultAPIBind,
		},
		Matcher: Matcher{
			TimeoutSeconds: defaultMatcherTimeout,
		},
		Moderation: Moderation{
			Enabled:        true,
			TimeoutSeconds: defaultModerationTimeout,
		},
		Email: Email{
			Enabled:        true,
			FromAddress:    defaultEmailFrom,
			TimeoutSeconds: defaultEmailTimeout,
		},
		Notifications: Notifications{
			SubmissionThreshold:   defaultSubmissionThreshold,
			VerificationThreshold: defaultVerificationThreshold,
			TopMatchLimit:         defaultTopMatchLimit,
			PendingWindowHours:    defaultPendingWindowHours,
		},
		Workflow: Workflow{
			ExpirySweepInterval: defaultExpirySweepInterval,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
