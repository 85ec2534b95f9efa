package renderfeasibilitypdf

import "time"

type Config struct {
	Timeout time.Duration
	Author  string
}

func LoadConfig() *Config {
	return &Config{
		Timeout: 30 * time.Second,
		Author:  "BizHealth",
	}
}
