package config

// Config holds all application configuration, grouped by concern.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	LLM      LLMConfig      `mapstructure:"llm"`
	Task     TaskConfig     `mapstructure:"task"`
	Cache    CacheConfig    `mapstructure:"cache"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// DatabaseConfig contains database connection settings.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"required,url"`
}

// LLMConfig contains settings for the Gemini-backed resource discoverer.
type LLMConfig struct {
	GeminiAPIKey       string `mapstructure:"gemini_api_key" validate:"required"`
	ModelName          string `mapstructure:"model_name" validate:"required"`
	PromptTemplatePath string `mapstructure:"prompt_template_path" validate:"required"`
	MaxRetries         int    `mapstructure:"max_retries" validate:"gte=0,lte=10"`
	RetryDelaySeconds  int    `mapstructure:"retry_delay_seconds" validate:"gte=1,lte=60"`
}

// TaskConfig contains background execution settings.
type TaskConfig struct {
	WorkerCount               int `mapstructure:"worker_count" validate:"required,gte=1,lte=64"`
	QueueSize                 int `mapstructure:"queue_size" validate:"required,gte=1"`
	StuckJobAgeMinutes        int `mapstructure:"stuck_job_age_minutes" validate:"required,gte=1"`
	StuckJobCheckIntervalMins int `mapstructure:"stuck_job_check_interval_minutes" validate:"required,gte=1"`
}

// CacheConfig contains settings for the optional Redis result cache.
// An empty RedisURL disables caching.
type CacheConfig struct {
	RedisURL         string `mapstructure:"redis_url" validate:"omitempty"`
	ResultTTLSeconds int    `mapstructure:"result_ttl_seconds" validate:"gte=0"`
}
