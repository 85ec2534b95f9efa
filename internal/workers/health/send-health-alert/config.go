package sendhealthalert

import "time"

type Config struct {
	Timeout           time.Duration
	AlertThreshold    int
	CriticalThreshold int
}

func LoadConfig() *Config {
	return &Config{
		Timeout:           20 * time.Second,
		AlertThreshold:    30,
		CriticalThreshold: 15,
	}
}
