// Package config handles loading and validation of application configuration
// from environment variables and an optional .env file.
package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/NomadCrew/nomad-diary-backend/logger"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Environment represents the application's running environment.
type Environment string

const (
	EnvDevelopment Environment = "development"
	EnvProduction  Environment = "production"
	EnvTest        Environment = "test"

	minJWTLength = 32
)

// AI providers understood by pkg/llm.
const (
	AIProviderGemini = "gemini"
	AIProviderOpenAI = "openai"
)

// Handoff backends understood by internal/handoff.
const (
	HandoffBackendRedis  = "redis"
	HandoffBackendMemory = "memory"
)

// ServerConfig holds server-specific configuration.
type ServerConfig struct {
	Environment    Environment `mapstructure:"ENVIRONMENT" yaml:"environment"`
	Port           string      `mapstructure:"PORT" yaml:"port"`
	AllowedOrigins []string    `mapstructure:"ALLOWED_ORIGINS" yaml:"allowed_origins"`
	Version        string      `mapstructure:"VERSION" yaml:"version"`
	FrontendURL    string      `mapstructure:"FRONTEND_URL" yaml:"frontend_url"`
	// TrustedProxies left empty means X-Forwarded-For is ignored.
	TrustedProxies []string `mapstructure:"TRUSTED_PROXIES" yaml:"trusted_proxies"`
}

// DatabaseConfig holds PostgreSQL connection details.
type DatabaseConfig struct {
	Host           string `mapstructure:"HOST" yaml:"host"`
	Port           int    `mapstructure:"PORT" yaml:"port"`
	User           string `mapstructure:"USER" yaml:"user"`
	Password       string `mapstructure:"PASSWORD" yaml:"password"`
	Name           string `mapstructure:"NAME" yaml:"name"`
	SSLMode        string `mapstructure:"SSL_MODE" yaml:"ssl_mode"`
	MaxConnections int    `mapstructure:"MAX_CONNECTIONS" yaml:"max_connections"`
	ConnMaxLife    string `mapstructure:"CONN_MAX_LIFE" yaml:"conn_max_life"`
}

// URL returns a postgres:// connection URL suitable for pgxpool and golang-migrate.
func (c *DatabaseConfig) URL() string {
	sslmode := c.SSLMode
	if sslmode == "" {
		sslmode = "disable"
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		url.QueryEscape(c.User),
		url.QueryEscape(c.Password),
		c.Host,
		c.Port,
		c.Name,
		sslmode,
	)
}

// RedisConfig holds Redis connection details.
type RedisConfig struct {
	Address      string `mapstructure:"ADDRESS" yaml:"address"`
	Password     string `mapstructure:"PASSWORD" yaml:"password"`
	DB           int    `mapstructure:"DB" yaml:"db"`
	UseTLS       bool   `mapstructure:"USE_TLS" yaml:"use_tls"`
	PoolSize     int    `mapstructure:"POOL_SIZE" yaml:"pool_size"`
	MinIdleConns int    `mapstructure:"MIN_IDLE_CONNS" yaml:"min_idle_conns"`
}

// ExternalServices holds API keys and URLs for external services.
type ExternalServices struct {
	GeoapifyKey          string  `mapstructure:"GEOAPIFY_KEY" yaml:"geoapify_key"`
	GeoapifyBaseURL      string  `mapstructure:"GEOAPIFY_BASE_URL" yaml:"geoapify_base_url"`
	GeoapifyRatePerSec   float64 `mapstructure:"GEOAPIFY_RATE_PER_SEC" yaml:"geoapify_rate_per_sec"`
	SupabaseURL          string  `mapstructure:"SUPABASE_URL" yaml:"supabase_url"`
	SupabaseAnonKey      string  `mapstructure:"SUPABASE_ANON_KEY" yaml:"supabase_anon_key"`
	SupabaseServiceKey   string  `mapstructure:"SUPABASE_SERVICE_KEY" yaml:"supabase_service_key"`
	SupabaseJWTSecret    string  `mapstructure:"SUPABASE_JWT_SECRET" yaml:"supabase_jwt_secret"`
	SupabaseProfileTable string  `mapstructure:"SUPABASE_PROFILE_TABLE" yaml:"supabase_profile_table"`
}

// AIConfig selects and configures the completion provider.
type AIConfig struct {
	Provider       string  `mapstructure:"PROVIDER" yaml:"provider"`
	GeminiAPIKey   string  `mapstructure:"GEMINI_API_KEY" yaml:"gemini_api_key"`
	OpenAIAPIKey   string  `mapstructure:"OPENAI_API_KEY" yaml:"openai_api_key"`
	OpenAIBaseURL  string  `mapstructure:"OPENAI_BASE_URL" yaml:"openai_base_url"`
	Model          string  `mapstructure:"MODEL" yaml:"model"`
	Temperature    float32 `mapstructure:"TEMPERATURE" yaml:"temperature"`
	TimeoutSeconds int     `mapstructure:"TIMEOUT_SECONDS" yaml:"timeout_seconds"`
}

// Timeout returns the per-call provider timeout.
func (c AIConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// PlannerConfig tunes the wizard, search and itinerary flow.
type PlannerConfig struct {
	HandoffBackend       string `mapstructure:"HANDOFF_BACKEND" yaml:"handoff_backend"`
	HandoffTTLMinutes    int    `mapstructure:"HANDOFF_TTL_MINUTES" yaml:"handoff_ttl_minutes"`
	SearchDebounceMs     int    `mapstructure:"SEARCH_DEBOUNCE_MS" yaml:"search_debounce_ms"`
	SearchMinQueryLength int    `mapstructure:"SEARCH_MIN_QUERY_LENGTH" yaml:"search_min_query_length"`
	SearchResultLimit    int    `mapstructure:"SEARCH_RESULT_LIMIT" yaml:"search_result_limit"`
	FetchMaxAttempts     int    `mapstructure:"FETCH_MAX_ATTEMPTS" yaml:"fetch_max_attempts"`
	FetchBaseDelayMs     int    `mapstructure:"FETCH_BASE_DELAY_MS" yaml:"fetch_base_delay_ms"`
	FetchMaxDelayMs      int    `mapstructure:"FETCH_MAX_DELAY_MS" yaml:"fetch_max_delay_ms"`
	DefaultDurationDays  int    `mapstructure:"DEFAULT_DURATION_DAYS" yaml:"default_duration_days"`
	FinalRedirectDelayMs int    `mapstructure:"FINAL_REDIRECT_DELAY_MS" yaml:"final_redirect_delay_ms"`
}

func (c PlannerConfig) HandoffTTL() time.Duration {
	return time.Duration(c.HandoffTTLMinutes) * time.Minute
}

func (c PlannerConfig) SearchDebounce() time.Duration {
	return time.Duration(c.SearchDebounceMs) * time.Millisecond
}

func (c PlannerConfig) FetchBaseDelay() time.Duration {
	return time.Duration(c.FetchBaseDelayMs) * time.Millisecond
}

func (c PlannerConfig) FetchMaxDelay() time.Duration {
	return time.Duration(c.FetchMaxDelayMs) * time.Millisecond
}

func (c PlannerConfig) FinalRedirectDelay() time.Duration {
	return time.Duration(c.FinalRedirectDelayMs) * time.Millisecond
}

// RateLimitConfig holds per-user limits for the AI endpoints.
type RateLimitConfig struct {
	AIRequestsPerWindow int `mapstructure:"AI_REQUESTS_PER_WINDOW" yaml:"ai_requests_per_window"`
	WindowSeconds       int `mapstructure:"WINDOW_SECONDS" yaml:"window_seconds"`
}

// EmailConfig holds configuration for sending emails.
type EmailConfig struct {
	Enabled      bool   `mapstructure:"ENABLED" yaml:"enabled"`
	FromAddress  string `mapstructure:"FROM_ADDRESS" yaml:"from_address"`
	FromName     string `mapstructure:"FROM_NAME" yaml:"from_name"`
	ResendAPIKey string `mapstructure:"RESEND_API_KEY" yaml:"resend_api_key"`
}

// StorageConfig points at an S3-compatible bucket for diary photos. When
// AccessKeyID is empty the default AWS credential chain is used.
type StorageConfig struct {
	Enabled         bool   `mapstructure:"ENABLED" yaml:"enabled"`
	Endpoint        string `mapstructure:"ENDPOINT" yaml:"endpoint"`
	Region          string `mapstructure:"REGION" yaml:"region"`
	Bucket          string `mapstructure:"BUCKET" yaml:"bucket"`
	AccessKeyID     string `mapstructure:"ACCESS_KEY_ID" yaml:"access_key_id"`
	SecretAccessKey string `mapstructure:"SECRET_ACCESS_KEY" yaml:"secret_access_key"`
	MaxUploadBytes  int64  `mapstructure:"MAX_UPLOAD_BYTES" yaml:"max_upload_bytes"`
}

// ShareConfig signs read-only diary links.
type ShareConfig struct {
	Secret   string `mapstructure:"SECRET" yaml:"secret"`
	TTLHours int    `mapstructure:"TTL_HOURS" yaml:"ttl_hours"`
}

func (c ShareConfig) TTL() time.Duration {
	return time.Duration(c.TTLHours) * time.Hour
}

// Config aggregates all application configuration sections.
type Config struct {
	Server           ServerConfig     `mapstructure:"SERVER" yaml:"server"`
	Database         DatabaseConfig   `mapstructure:"DATABASE" yaml:"database"`
	Redis            RedisConfig      `mapstructure:"REDIS" yaml:"redis"`
	ExternalServices ExternalServices `mapstructure:"EXTERNAL_SERVICES" yaml:"external_services"`
	AI               AIConfig         `mapstructure:"AI" yaml:"ai"`
	Planner          PlannerConfig    `mapstructure:"PLANNER" yaml:"planner"`
	RateLimit        RateLimitConfig  `mapstructure:"RATE_LIMIT" yaml:"rate_limit"`
	Email            EmailConfig      `mapstructure:"EMAIL" yaml:"email"`
	Storage          StorageConfig    `mapstructure:"STORAGE" yaml:"storage"`
	Share            ShareConfig      `mapstructure:"SHARE" yaml:"share"`
}

// IsDevelopment returns true if the application is running in development environment.
func (c *Config) IsDevelopment() bool {
	return c.Server.Environment == EnvDevelopment
}

// IsProduction returns true if the application is running in production environment.
func (c *Config) IsProduction() bool {
	return c.Server.Environment == EnvProduction
}

// Redacted returns a copy with every secret masked, for printing.
func (c Config) Redacted() Config {
	mask := func(s string) string { return logger.MaskSensitiveString(s, 2, 2) }
	c.Database.Password = mask(c.Database.Password)
	c.Redis.Password = mask(c.Redis.Password)
	c.ExternalServices.GeoapifyKey = mask(c.ExternalServices.GeoapifyKey)
	c.ExternalServices.SupabaseAnonKey = mask(c.ExternalServices.SupabaseAnonKey)
	c.ExternalServices.SupabaseServiceKey = mask(c.ExternalServices.SupabaseServiceKey)
	c.ExternalServices.SupabaseJWTSecret = mask(c.ExternalServices.SupabaseJWTSecret)
	c.AI.GeminiAPIKey = mask(c.AI.GeminiAPIKey)
	c.AI.OpenAIAPIKey = mask(c.AI.OpenAIAPIKey)
	c.Email.ResendAPIKey = mask(c.Email.ResendAPIKey)
	c.Storage.SecretAccessKey = mask(c.Storage.SecretAccessKey)
	c.Share.Secret = mask(c.Share.Secret)
	return c
}

// bindEnvVars binds multiple environment variables to config keys.
// Format: []{configKey, envVar}
func bindEnvVars(v *viper.Viper, bindings [][2]string) error {
	for _, b := range bindings {
		if err := v.BindEnv(b[0], b[1]); err != nil {
			return fmt.Errorf("failed to bind %s: %w", b[0], err)
		}
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("SERVER.ENVIRONMENT", EnvDevelopment)
	v.SetDefault("SERVER.PORT", "8080")
	v.SetDefault("SERVER.ALLOWED_ORIGINS", []string{"*"})
	v.SetDefault("SERVER.TRUSTED_PROXIES", []string{})
	v.SetDefault("SERVER.VERSION", "dev")
	v.SetDefault("SERVER.FRONTEND_URL", "http://localhost:3000")

	v.SetDefault("DATABASE.HOST", "localhost")
	v.SetDefault("DATABASE.PORT", 5432)
	v.SetDefault("DATABASE.USER", "postgres")
	v.SetDefault("DATABASE.PASSWORD", "")
	v.SetDefault("DATABASE.NAME", "nomad_diary")
	v.SetDefault("DATABASE.SSL_MODE", "disable")
	v.SetDefault("DATABASE.MAX_CONNECTIONS", 10)
	v.SetDefault("DATABASE.CONN_MAX_LIFE", "1h")

	v.SetDefault("REDIS.ADDRESS", "localhost:6379")
	v.SetDefault("REDIS.PASSWORD", "")
	v.SetDefault("REDIS.DB", 0)
	v.SetDefault("REDIS.USE_TLS", false)
	v.SetDefault("REDIS.POOL_SIZE", 5)
	v.SetDefault("REDIS.MIN_IDLE_CONNS", 1)

	v.SetDefault("EXTERNAL_SERVICES.GEOAPIFY_BASE_URL", "https://api.geoapify.com")
	v.SetDefault("EXTERNAL_SERVICES.GEOAPIFY_RATE_PER_SEC", 5.0)
	v.SetDefault("EXTERNAL_SERVICES.SUPABASE_PROFILE_TABLE", "profiles")

	v.SetDefault("AI.PROVIDER", AIProviderGemini)
	v.SetDefault("AI.MODEL", "gemini-2.0-flash")
	v.SetDefault("AI.TEMPERATURE", 0.7)
	v.SetDefault("AI.TIMEOUT_SECONDS", 60)

	v.SetDefault("PLANNER.HANDOFF_BACKEND", HandoffBackendRedis)
	v.SetDefault("PLANNER.HANDOFF_TTL_MINUTES", 30)
	v.SetDefault("PLANNER.SEARCH_DEBOUNCE_MS", 500)
	v.SetDefault("PLANNER.SEARCH_MIN_QUERY_LENGTH", 2)
	v.SetDefault("PLANNER.SEARCH_RESULT_LIMIT", 10)
	v.SetDefault("PLANNER.FETCH_MAX_ATTEMPTS", 3)
	v.SetDefault("PLANNER.FETCH_BASE_DELAY_MS", 1000)
	v.SetDefault("PLANNER.FETCH_MAX_DELAY_MS", 10000)
	v.SetDefault("PLANNER.DEFAULT_DURATION_DAYS", 3)
	v.SetDefault("PLANNER.FINAL_REDIRECT_DELAY_MS", 2000)

	v.SetDefault("RATE_LIMIT.AI_REQUESTS_PER_WINDOW", 20)
	v.SetDefault("RATE_LIMIT.WINDOW_SECONDS", 60)

	v.SetDefault("EMAIL.ENABLED", false)
	v.SetDefault("EMAIL.FROM_NAME", "Nomad Diary")

	v.SetDefault("STORAGE.ENABLED", false)
	v.SetDefault("STORAGE.REGION", "auto")
	v.SetDefault("STORAGE.MAX_UPLOAD_BYTES", 10<<20)

	v.SetDefault("SHARE.TTL_HOURS", 72)

	v.SetDefault("LOG_LEVEL", "info")
}

var envBindings = [][2]string{
	{"SERVER.ENVIRONMENT", "SERVER_ENVIRONMENT"},
	{"SERVER.PORT", "PORT"},
	{"SERVER.ALLOWED_ORIGINS", "ALLOWED_ORIGINS"},
	{"SERVER.VERSION", "SERVER_VERSION"},
	{"SERVER.FRONTEND_URL", "FRONTEND_URL"},
	{"SERVER.TRUSTED_PROXIES", "TRUSTED_PROXIES"},

	{"DATABASE.HOST", "DB_HOST"},
	{"DATABASE.PORT", "DB_PORT"},
	{"DATABASE.USER", "DB_USER"},
	{"DATABASE.PASSWORD", "DB_PASSWORD"},
	{"DATABASE.NAME", "DB_NAME"},
	{"DATABASE.SSL_MODE", "DB_SSL_MODE"},
	{"DATABASE.MAX_CONNECTIONS", "DB_MAX_CONNECTIONS"},

	{"REDIS.ADDRESS", "REDIS_ADDRESS"},
	{"REDIS.PASSWORD", "REDIS_PASSWORD"},
	{"REDIS.DB", "REDIS_DB"},
	{"REDIS.USE_TLS", "REDIS_USE_TLS"},

	{"EXTERNAL_SERVICES.GEOAPIFY_KEY", "GEOAPIFY_KEY"},
	{"EXTERNAL_SERVICES.GEOAPIFY_BASE_URL", "GEOAPIFY_BASE_URL"},
	{"EXTERNAL_SERVICES.SUPABASE_URL", "SUPABASE_URL"},
	{"EXTERNAL_SERVICES.SUPABASE_ANON_KEY", "SUPABASE_ANON_KEY"},
	{"EXTERNAL_SERVICES.SUPABASE_SERVICE_KEY", "SUPABASE_SERVICE_KEY"},
	{"EXTERNAL_SERVICES.SUPABASE_JWT_SECRET", "SUPABASE_JWT_SECRET"},

	{"AI.PROVIDER", "AI_PROVIDER"},
	{"AI.GEMINI_API_KEY", "GEMINI_API_KEY"},
	{"AI.OPENAI_API_KEY", "OPENAI_API_KEY"},
	{"AI.OPENAI_BASE_URL", "OPENAI_BASE_URL"},
	{"AI.MODEL", "AI_MODEL"},
	{"AI.TEMPERATURE", "AI_TEMPERATURE"},
	{"AI.TIMEOUT_SECONDS", "AI_TIMEOUT_SECONDS"},

	{"PLANNER.HANDOFF_BACKEND", "PLANNER_HANDOFF_BACKEND"},
	{"PLANNER.HANDOFF_TTL_MINUTES", "PLANNER_HANDOFF_TTL_MINUTES"},
	{"PLANNER.FETCH_MAX_ATTEMPTS", "PLANNER_FETCH_MAX_ATTEMPTS"},

	{"RATE_LIMIT.AI_REQUESTS_PER_WINDOW", "RATE_LIMIT_AI_REQUESTS_PER_WINDOW"},
	{"RATE_LIMIT.WINDOW_SECONDS", "RATE_LIMIT_WINDOW_SECONDS"},

	{"EMAIL.ENABLED", "EMAIL_ENABLED"},
	{"EMAIL.FROM_ADDRESS", "EMAIL_FROM_ADDRESS"},
	{"EMAIL.FROM_NAME", "EMAIL_FROM_NAME"},
	{"EMAIL.RESEND_API_KEY", "RESEND_API_KEY"},

	{"STORAGE.ENABLED", "STORAGE_ENABLED"},
	{"STORAGE.ENDPOINT", "STORAGE_ENDPOINT"},
	{"STORAGE.REGION", "STORAGE_REGION"},
	{"STORAGE.BUCKET", "STORAGE_BUCKET"},
	{"STORAGE.ACCESS_KEY_ID", "STORAGE_ACCESS_KEY_ID"},
	{"STORAGE.SECRET_ACCESS_KEY", "STORAGE_SECRET_ACCESS_KEY"},

	{"SHARE.SECRET", "SHARE_SECRET"},
	{"SHARE.TTL_HOURS", "SHARE_TTL_HOURS"},
}

// LoadConfig reads .env (when present), applies defaults, an optional YAML
// file named by CONFIG_FILE and environment overrides, then unmarshals and
// validates the result. Environment variables win over the file.
func LoadConfig() (*Config, error) {
	log := logger.GetLogger()

	if envFile := os.Getenv("ENV_FILE"); envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			return nil, fmt.Errorf("failed to load env file %s: %w", envFile, err)
		}
	} else if err := godotenv.Load(); err == nil {
		log.Debug("Loaded environment from .env")
	}

	v := viper.New()
	setDefaults(v)

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		log.Infow("Loaded config file", "path", path)
	}

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := bindEnvVars(v, envBindings); err != nil {
		return nil, err
	}

	log.Infow("Configuration loaded",
		"environment", v.GetString("SERVER.ENVIRONMENT"),
		"server_port", v.GetString("SERVER.PORT"),
		"db_host", v.GetString("DATABASE.HOST"),
		"ai_provider", v.GetString("AI.PROVIDER"),
		"handoff_backend", v.GetString("PLANNER.HANDOFF_BACKEND"),
	)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config unmarshal failed: %w", err)
	}

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	log.Info("Configuration validated successfully")
	return &cfg, nil
}

// validateConfig checks if the loaded configuration values are valid.
func validateConfig(cfg *Config) error {
	log := logger.GetLogger()

	if cfg.Server.Port == "" {
		return fmt.Errorf("server port is required")
	}
	if !containsWildcard(cfg.Server.AllowedOrigins) {
		for _, origin := range cfg.Server.AllowedOrigins {
			if _, err := url.ParseRequestURI(origin); err != nil {
				return fmt.Errorf("invalid allowed origin '%s': %w", origin, err)
			}
		}
	}

	if cfg.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}
	if cfg.Database.User == "" {
		return fmt.Errorf("database user is required")
	}
	if cfg.Database.Name == "" {
		return fmt.Errorf("database name is required")
	}
	if cfg.Database.Password == "" {
		log.Warn("Database password is not set. Ensure this is intended (e.g., using trusted auth).")
	}

	if err := validatePlanner(&cfg.Planner); err != nil {
		return err
	}
	if cfg.Planner.HandoffBackend == HandoffBackendRedis && cfg.Redis.Address == "" {
		return fmt.Errorf("redis address is required for the redis handoff backend")
	}

	if err := validateExternalServices(&cfg.ExternalServices); err != nil {
		return err
	}
	if err := validateAI(&cfg.AI); err != nil {
		return err
	}

	if cfg.RateLimit.AIRequestsPerWindow <= 0 {
		return fmt.Errorf("rate limit AI requests per window must be positive")
	}
	if cfg.RateLimit.WindowSeconds <= 0 {
		return fmt.Errorf("rate limit window seconds must be positive")
	}

	if cfg.Email.Enabled && (cfg.Email.FromAddress == "" || cfg.Email.ResendAPIKey == "") {
		log.Warn("Email enabled without from address or Resend key, disabling email")
		cfg.Email.Enabled = false
	}

	if cfg.Storage.Enabled && cfg.Storage.Bucket == "" {
		return fmt.Errorf("storage bucket is required when storage is enabled")
	}

	if len(cfg.Share.Secret) < minJWTLength {
		return fmt.Errorf("share secret must be at least %d characters long", minJWTLength)
	}
	if cfg.Share.TTLHours <= 0 {
		return fmt.Errorf("share link TTL must be positive")
	}

	return nil
}

func validatePlanner(p *PlannerConfig) error {
	switch p.HandoffBackend {
	case HandoffBackendRedis, HandoffBackendMemory:
	default:
		return fmt.Errorf("unknown handoff backend %q", p.HandoffBackend)
	}
	if p.HandoffTTLMinutes <= 0 {
		return fmt.Errorf("handoff TTL must be positive")
	}
	if p.SearchMinQueryLength < 1 {
		return fmt.Errorf("search minimum query length must be at least 1")
	}
	if p.SearchResultLimit <= 0 {
		return fmt.Errorf("search result limit must be positive")
	}
	if p.FetchMaxAttempts < 1 {
		return fmt.Errorf("fetch max attempts must be at least 1")
	}
	if p.FetchBaseDelayMs <= 0 || p.FetchMaxDelayMs < p.FetchBaseDelayMs {
		return fmt.Errorf("fetch backoff delays are invalid")
	}
	if p.DefaultDurationDays <= 0 {
		return fmt.Errorf("default duration must be positive")
	}
	return nil
}

func validateExternalServices(services *ExternalServices) error {
	if services.GeoapifyKey == "" {
		return fmt.Errorf("geoapify key is required")
	}
	if services.SupabaseJWTSecret == "" && (services.SupabaseURL == "" || services.SupabaseAnonKey == "") {
		return fmt.Errorf("either supabase JWT secret or supabase URL and anon key are required")
	}
	if services.SupabaseJWTSecret != "" && len(services.SupabaseJWTSecret) < minJWTLength {
		return fmt.Errorf("supabase JWT secret must be at least %d characters long", minJWTLength)
	}
	return nil
}

func validateAI(ai *AIConfig) error {
	switch ai.Provider {
	case AIProviderGemini:
		if ai.GeminiAPIKey == "" {
			return fmt.Errorf("gemini API key is required for the gemini provider")
		}
	case AIProviderOpenAI:
		if ai.OpenAIAPIKey == "" {
			return fmt.Errorf("openai API key is required for the openai provider")
		}
	default:
		return fmt.Errorf("unknown AI provider %q", ai.Provider)
	}
	if ai.Model == "" {
		return fmt.Errorf("AI model is required")
	}
	if ai.TimeoutSeconds <= 0 {
		return fmt.Errorf("AI timeout must be positive")
	}
	return nil
}

// containsWildcard checks if the list of allowed origins contains the wildcard "*".
func containsWildcard(origins []string) bool {
	for _, origin := range origins {
		if origin == "*" {
			return true
		}
	}
	return false
}
