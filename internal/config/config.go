package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server    ServerConfig    `mapstructure:"server" validate:"required"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Scheduler SchedulerConfig `mapstructure:"scheduler" validate:"required"`
	Round     RoundConfig     `mapstructure:"round" validate:"required"`
	DueQueue  DueQueueConfig  `mapstructure:"due_queue" validate:"required"`
	Events    EventsConfig    `mapstructure:"events" validate:"required"`
	Sessions  SessionsConfig  `mapstructure:"sessions"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port            int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel        string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
	ShutdownSeconds int    `mapstructure:"shutdown_seconds" validate:"gte=0"`
}

// DatabaseConfig contains all database-related configuration settings.
// An empty URL selects the in-memory card store.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"omitempty,url"`
}

// SchedulerConfig selects and tunes the scheduling policy.
// Zero values keep the policy defaults.
type SchedulerConfig struct {
	Policy            string  `mapstructure:"policy" validate:"required,oneof=sm2 binary tiered"`
	AgainRetryMinutes int     `mapstructure:"again_retry_minutes" validate:"gte=0"`
	MaxIntervalDays   int     `mapstructure:"max_interval_days" validate:"gte=0,lte=36500"`
	MinEaseFactor     float64 `mapstructure:"min_ease_factor" validate:"omitempty,gte=1.3"`
}

// RoundConfig configures the weighted round builder.
type RoundConfig struct {
	TargetSize         int     `mapstructure:"target_size" validate:"required,gt=0"`
	NeedsReinforcement float64 `mapstructure:"needs_reinforcement_weight" validate:"gte=0"`
	SomewhatFamiliar   float64 `mapstructure:"somewhat_familiar_weight" validate:"gte=0"`
	WellKnown          float64 `mapstructure:"well_known_weight" validate:"gte=0"`
}

// DueQueueConfig configures the due-priority queue builder.
type DueQueueConfig struct {
	Limit int `mapstructure:"limit" validate:"required,gt=0"`
}

// EventsConfig configures asynchronous delivery of review events.
type EventsConfig struct {
	WorkerCount int `mapstructure:"worker_count" validate:"required,gt=0"`
	QueueSize   int `mapstructure:"queue_size" validate:"required,gt=0"`
}

// SessionsConfig bounds how many study sessions stay open. Zero disables a
// limit.
type SessionsConfig struct {
	TTLMinutes  int `mapstructure:"ttl_minutes" validate:"gte=0"`
	MaxSessions int `mapstructure:"max_sessions" validate:"gte=0"`
}
