package tasks

import "time"

// Config tunes the background task queue. Zero values are replaced with
// the defaults noted per field when the client is created.
type Config struct {
	// Workers is how many tasks may run concurrently (default 2).
	Workers int

	// MaxRetries caps retry attempts for a failing task (default 3).
	MaxRetries int

	// RetryDelay is the backoff between attempts (default 1m).
	RetryDelay time.Duration

	// TaskTimeout bounds a single task execution (default 5m).
	TaskTimeout time.Duration

	// ReleaseAfter returns tasks from crashed workers to the queue (default 15m).
	ReleaseAfter time.Duration

	// CleanupInterval is how often completed tasks are purged (default 1h).
	CleanupInterval time.Duration

	// RetentionDuration is how long completed tasks stay queryable (default 24h).
	RetentionDuration time.Duration
}

// withDefaults fills any unset field so a partially populated Config
// still produces a working queue.
func (c Config) withDefaults() Config {
	if c.Workers <= 0 {
		c.Workers = 2
	}
	if c.MaxRetries <= 0 {
		c.MaxRetries = 3
	}
	if c.RetryDelay <= 0 {
		c.RetryDelay = time.Minute
	}
	if c.TaskTimeout <= 0 {
		c.TaskTimeout = 5 * time.Minute
	}
	if c.ReleaseAfter <= 0 {
		c.ReleaseAfter = 15 * time.Minute
	}
	if c.CleanupInterval <= 0 {
		c.CleanupInterval = time.Hour
	}
	if c.RetentionDuration <= 0 {
		c.RetentionDuration = 24 * time.Hour
	}
	return c
}
