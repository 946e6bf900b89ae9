package redis

import "time"

// Config describes the optional Redis connection. An empty ConnectionURL
// means Redis is not configured and callers fall back to in-process caches.
type Config struct {
	ConnectionURL  string        `env:"REDIS_URL"`
	RetryAttempts  int           `env:"REDIS_RETRY_ATTEMPTS" envDefault:"3"`
	RetryInterval  time.Duration `env:"REDIS_RETRY_INTERVAL" envDefault:"2s"`
	ConnectTimeout time.Duration `env:"REDIS_CONNECT_TIMEOUT" envDefault:"15s"`
	KeyPrefix      string        `env:"REDIS_KEY_PREFIX" envDefault:"fixology:"`
}

// Enabled reports whether a Redis URL was provided.
func (c Config) Enabled() bool { return c.ConnectionURL != "" }
