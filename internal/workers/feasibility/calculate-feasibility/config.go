package calculatefeasibility

import "time"

type Config struct {
	Timeout time.Duration
	// ProfileCacheTTL bounds how long a loaded profile stays in Redis.
	ProfileCacheTTL time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Timeout:         30 * time.Second,
		ProfileCacheTTL: 1 * time.Hour,
	}
}
