// internal/common/config/config.go
package config

import "fmt"

// Config is the main application configuration struct.
type Config struct {
	App           AppConfig               `mapstructure:"app"`
	Server        ServerConfig            `mapstructure:"server"`
	Camunda       CamundaConfig           `mapstructure:"camunda"`
	Database      DatabaseConfig          `mapstructure:"database"`
	Workers       map[string]WorkerConfig `mapstructure:"workers"`
	LocationData  LocationDataConfig      `mapstructure:"location_data"`
	Notifications NotificationConfig      `mapstructure:"notifications"`
	Reports       ReportsConfig           `mapstructure:"reports"`
	Scheduler     SchedulerConfig         `mapstructure:"scheduler"`
	RegistryPath  string                  `mapstructure:"registry_path"`
	Logging       LoggingConfig           `mapstructure:"logging"`
	Tracing       TracingConfig           `mapstructure:"tracing"`
}

// --- Core App/Infrastructure Config ---
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type ServerConfig struct {
	Port int `mapstructure:"port"`
}

type CamundaConfig struct {
	BrokerAddress  string `mapstructure:"broker_address"`
	MaxJobsActive  int    `mapstructure:"max_jobs_active"`
	Timeout        int    `mapstructure:"timeout"`         // milliseconds
	RequestTimeout int    `mapstructure:"request_timeout"` // milliseconds
}

type DatabaseConfig struct {
	Postgres      PostgresConfig      `mapstructure:"postgres"`
	Elasticsearch ElasticsearchConfig `mapstructure:"elasticsearch"`
	Redis         RedisConfig         `mapstructure:"redis"`
	// AutoMigrate creates missing tables on startup.
	AutoMigrate bool `mapstructure:"auto_migrate"`
}

type PostgresConfig struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	Database       string `mapstructure:"database"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	MaxConnections int    `mapstructure:"max_connections"`
	MaxIdle        int    `mapstructure:"max_idle"`
	SSLMode        string `mapstructure:"sslmode"`
}

// GetDSN returns the PostgreSQL connection string
func (p PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode,
	)
}

type ElasticsearchConfig struct {
	Addresses []string `mapstructure:"addresses"`
	Username  string   `mapstructure:"username"`
	Password  string   `mapstructure:"password"`
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	PoolSize int    `mapstructure:"pool_size"`
	MinIdle  int    `mapstructure:"min_idle"`
}

// WorkerConfig holds the core settings applicable to every worker.
type WorkerConfig struct {
	Enabled       bool `mapstructure:"enabled"`
	MaxJobsActive int  `mapstructure:"max_jobs_active"`
	Timeout       int  `mapstructure:"timeout"`     // milliseconds
	MaxRetries    int  `mapstructure:"max_retries"` // For error handling
}

// --- Domain Sections ---

// LocationDataConfig configures the government data client.
type LocationDataConfig struct {
	BaseURL    string `mapstructure:"base_url"`
	APIKey     string `mapstructure:"api_key"`
	Timeout    int    `mapstructure:"timeout"`     // milliseconds
	CacheTTL   int    `mapstructure:"cache_ttl"`   // seconds
	MaxRetries int    `mapstructure:"max_retries"` // attempts per endpoint
	RetryDelay int    `mapstructure:"retry_delay"` // milliseconds
}

// NotificationConfig holds settings for the send-health-alert worker.
type NotificationConfig struct {
	Email struct {
		Enabled   bool   `mapstructure:"enabled"`
		FromEmail string `mapstructure:"from_email"`
	} `mapstructure:"email"`
	SMS struct {
		Enabled bool `mapstructure:"enabled"`
	} `mapstructure:"sms"`
	AWS struct {
		Region string `mapstructure:"region"`
	} `mapstructure:"aws"`
	// AlertThreshold is the health score below which owners are alerted.
	AlertThreshold int `mapstructure:"alert_threshold"`
	// CriticalThreshold is the score below which an SMS is sent as well.
	CriticalThreshold int `mapstructure:"critical_threshold"`
}

// ReportsConfig holds settings for report indexing and rendering.
type ReportsConfig struct {
	IndexName string `mapstructure:"index_name"`
	PDFAuthor string `mapstructure:"pdf_author"`
}

// SchedulerConfig drives the location cache warmer.
type SchedulerConfig struct {
	Enabled       bool     `mapstructure:"enabled"`
	CacheWarmCron string   `mapstructure:"cache_warm_cron"`
	Cities        []string `mapstructure:"cities"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

// TracingConfig holds the Jaeger exporter settings.
type TracingConfig struct {
	Enabled     bool    `mapstructure:"enabled"`
	Endpoint    string  `mapstructure:"endpoint"`
	ServiceName string  `mapstructure:"service_name"`
	SampleRatio float64 `mapstructure:"sample_ratio"`
}
