package constants

// FrequencyType represents the cadence rule of a habit
type FrequencyType string

// PaceStatus classifies progress against the (possibly prorated) monthly goal
type PaceStatus string

const (
	AppName            = "habitd"
	DefaultKeyringUser = "database-connection"
	DefaultConfigDir   = "~/.config/habitd"
	Version            = "v0.3.0"

	// DateFormat is the standard civil date format used throughout the application (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// Frequency constants
	FrequencyDaily    FrequencyType = "daily"
	FrequencyWeekdays FrequencyType = "weekdays"
	FrequencyWeekends FrequencyType = "weekends"
	FrequencyWeekly   FrequencyType = "weekly"
	FrequencyCustom   FrequencyType = "custom"

	// Pace Status constants
	PaceAhead   PaceStatus = "ahead"
	PaceOnTrack PaceStatus = "on_track"
	PaceBehind  PaceStatus = "behind"

	// ReconcileDebounceMs is the coalescing window for remote change
	// notifications, in milliseconds
	ReconcileDebounceMs = 300
)
