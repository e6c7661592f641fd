// Package config provides configuration loading and validation for the CLI and server.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// Storage backends.
const (
	StorageLocal = "local"
	StorageS3    = "s3"
)

// Duration is a time.Duration that reads from JSON as a string such as "1m30s".
type Duration struct {
	time.Duration
}

// UnmarshalJSON accepts a duration string or a number of nanoseconds.
func (d *Duration) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		parsed, err := time.ParseDuration(s)
		if err != nil {
			return err
		}
		d.Duration = parsed
		return nil
	}
	var n int64
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("duration must be a string like \"1m\": %w", err)
	}
	d.Duration = time.Duration(n)
	return nil
}

// MarshalJSON writes the duration as a string.
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// Config represents the configuration that can be loaded from a JSON file.
// All fields are optional in the file; missing values use Default, then
// environment variables and CLI flags override them.
type Config struct {
	// HTTP
	Port           int      `json:"port,omitempty" validate:"min=1,max=65535"`
	MaxUploadBytes int64    `json:"max_upload_bytes,omitempty" validate:"min=1"`
	AllowedOrigins []string `json:"allowed_origins,omitempty"` // empty allows all

	// Artifact storage
	StorageBackend    string `json:"storage_backend,omitempty" validate:"oneof=local s3"`
	OutputDir         string `json:"output_dir,omitempty" validate:"required_if=StorageBackend local"`
	S3Bucket          string `json:"s3_bucket,omitempty" validate:"required_if=StorageBackend s3"`
	S3Prefix          string `json:"s3_prefix,omitempty"`
	S3Region          string `json:"s3_region,omitempty"`
	S3Endpoint        string `json:"s3_endpoint,omitempty" validate:"omitempty,url"`
	R2AccountID       string `json:"r2_account_id,omitempty"`
	S3AccessKeyID     string `json:"-"`
	S3SecretAccessKey string `json:"-"`
	S3UsePathStyle    bool   `json:"s3_use_path_style,omitempty"`

	// Skills
	TaxonomyFile string `json:"taxonomy_file,omitempty"`

	// LLM review
	LLMProvider          string `json:"llm_provider,omitempty" validate:"oneof=gemini groq openai"`
	APIKey               string `json:"api_key,omitempty"`
	LLMModel             string `json:"llm_model,omitempty"`
	LLMBaseURL           string `json:"llm_base_url,omitempty" validate:"omitempty,url"`
	ReviewRepairAttempts int    `json:"review_repair_attempts,omitempty" validate:"min=0,max=3"`

	// Logging
	LogLevel  string `json:"log_level,omitempty" validate:"oneof=debug info warn error"`
	LogFormat string `json:"log_format,omitempty" validate:"oneof=text json"`

	// Rate limiting
	RateLimitDisabled  bool     `json:"rate_limit_disabled,omitempty"`
	RateLimitDefault   int      `json:"rate_limit_default,omitempty" validate:"min=0"`
	RateLimitWindow    Duration `json:"rate_limit_window,omitempty"`
	RateLimitWhitelist []string `json:"rate_limit_whitelist,omitempty" validate:"dive,ip"`
	RateLimitBlacklist []string `json:"rate_limit_blacklist,omitempty" validate:"dive,ip"`

	Verbose bool `json:"verbose,omitempty"` // Print detailed summaries in CLI mode
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Port:             8080,
		MaxUploadBytes:   5 << 20,
		StorageBackend:   StorageLocal,
		OutputDir:        "uploads/resumes",
		LLMProvider:      "groq",
		LogLevel:         "info",
		LogFormat:        "text",
		RateLimitDefault: 300,
		RateLimitWindow:  Duration{time.Minute},
	}
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// Load builds the effective configuration: defaults, then the file at path
// (skipped when path is empty), then environment variables read through lookup.
// The result is validated.
func Load(path string, lookup func(string) (string, bool)) (*Config, error) {
	cfg := Default()
	if path != "" {
		fileCfg, err := LoadConfig(path)
		if err != nil {
			return nil, err
		}
		cfg = fileCfg.MergeWithDefaults(cfg)
	}
	if lookup != nil {
		if err := cfg.ApplyEnv(lookup); err != nil {
			return nil, err
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// MergeWithDefaults returns a new Config with zero-valued fields filled from defaults.
// This is used to apply config file values over the built-in defaults.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	setString := func(dst *string, def string) {
		if *dst == "" {
			*dst = def
		}
	}
	setString(&result.StorageBackend, defaults.StorageBackend)
	setString(&result.OutputDir, defaults.OutputDir)
	setString(&result.S3Bucket, defaults.S3Bucket)
	setString(&result.S3Prefix, defaults.S3Prefix)
	setString(&result.S3Region, defaults.S3Region)
	setString(&result.S3Endpoint, defaults.S3Endpoint)
	setString(&result.R2AccountID, defaults.R2AccountID)
	setString(&result.S3AccessKeyID, defaults.S3AccessKeyID)
	setString(&result.S3SecretAccessKey, defaults.S3SecretAccessKey)
	setString(&result.TaxonomyFile, defaults.TaxonomyFile)
	setString(&result.LLMProvider, defaults.LLMProvider)
	setString(&result.APIKey, defaults.APIKey)
	setString(&result.LLMModel, defaults.LLMModel)
	setString(&result.LLMBaseURL, defaults.LLMBaseURL)
	setString(&result.LogLevel, defaults.LogLevel)
	setString(&result.LogFormat, defaults.LogFormat)

	// Int fields: use default if zero
	if result.Port == 0 {
		result.Port = defaults.Port
	}
	if result.MaxUploadBytes == 0 {
		result.MaxUploadBytes = defaults.MaxUploadBytes
	}
	if result.ReviewRepairAttempts == 0 {
		result.ReviewRepairAttempts = defaults.ReviewRepairAttempts
	}
	if result.RateLimitDefault == 0 {
		result.RateLimitDefault = defaults.RateLimitDefault
	}
	if result.RateLimitWindow.Duration == 0 {
		result.RateLimitWindow = defaults.RateLimitWindow
	}

	// Slices
	if len(result.AllowedOrigins) == 0 {
		result.AllowedOrigins = defaults.AllowedOrigins
	}
	if len(result.RateLimitWhitelist) == 0 {
		result.RateLimitWhitelist = defaults.RateLimitWhitelist
	}
	if len(result.RateLimitBlacklist) == 0 {
		result.RateLimitBlacklist = defaults.RateLimitBlacklist
	}

	// Booleans: true wins
	result.S3UsePathStyle = result.S3UsePathStyle || defaults.S3UsePathStyle
	result.RateLimitDisabled = result.RateLimitDisabled || defaults.RateLimitDisabled
	result.Verbose = result.Verbose || defaults.Verbose

	return result
}

// apiKeyVars lists the environment variables holding the key for each provider.
var apiKeyVars = map[string][]string{
	"groq":   {"GROQ_API_KEY", "LLM_API_KEY"},
	"gemini": {"GEMINI_API_KEY", "GOOGLE_API_KEY", "LLM_API_KEY"},
	"openai": {"OPENAI_API_KEY", "LLM_API_KEY"},
}

// ApplyEnv overrides fields from environment variables read through lookup.
// Malformed numeric, boolean or duration values are reported as errors.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	get := func(key string) (string, bool) {
		v, ok := lookup(key)
		v = strings.TrimSpace(v)
		return v, ok && v != ""
	}
	str := func(dst *string, key string) {
		if v, ok := get(key); ok {
			*dst = v
		}
	}
	list := func(dst *[]string, key string) {
		if v, ok := get(key); ok {
			*dst = splitList(v)
		}
	}
	var errs []error
	integer := func(key string, set func(int64)) {
		if v, ok := get(key); ok {
			n, err := strconv.ParseInt(v, 10, 64)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", key, err))
				return
			}
			set(n)
		}
	}
	boolean := func(key string, set func(bool)) {
		if v, ok := get(key); ok {
			b, err := strconv.ParseBool(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", key, err))
				return
			}
			set(b)
		}
	}

	integer("PORT", func(n int64) { c.Port = int(n) })
	integer("MAX_UPLOAD_BYTES", func(n int64) { c.MaxUploadBytes = n })
	list(&c.AllowedOrigins, "CORS_ALLOWED_ORIGINS")

	str(&c.StorageBackend, "STORAGE_BACKEND")
	str(&c.OutputDir, "OUTPUT_DIR")
	str(&c.S3Bucket, "S3_BUCKET")
	str(&c.S3Prefix, "S3_PREFIX")
	str(&c.S3Region, "AWS_REGION")
	str(&c.S3Endpoint, "S3_ENDPOINT")
	str(&c.R2AccountID, "R2_ACCOUNT_ID")
	str(&c.S3AccessKeyID, "AWS_ACCESS_KEY_ID")
	str(&c.S3SecretAccessKey, "AWS_SECRET_ACCESS_KEY")
	boolean("S3_USE_PATH_STYLE", func(b bool) { c.S3UsePathStyle = b })

	str(&c.TaxonomyFile, "TAXONOMY_FILE")

	str(&c.LLMProvider, "LLM_PROVIDER")
	c.LLMProvider = strings.ToLower(c.LLMProvider)
	str(&c.LLMModel, "LLM_MODEL")
	str(&c.LLMBaseURL, "LLM_BASE_URL")
	integer("REVIEW_REPAIR_ATTEMPTS", func(n int64) { c.ReviewRepairAttempts = int(n) })
	for _, key := range apiKeyVars[c.LLMProvider] {
		if v, ok := get(key); ok {
			c.APIKey = v
			break
		}
	}

	str(&c.LogLevel, "LOG_LEVEL")
	str(&c.LogFormat, "LOG_FORMAT")

	boolean("RATE_LIMIT_ENABLED", func(b bool) { c.RateLimitDisabled = !b })
	integer("RATE_LIMIT_DEFAULT_LIMIT", func(n int64) { c.RateLimitDefault = int(n) })
	if v, ok := get("RATE_LIMIT_DEFAULT_WINDOW"); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("RATE_LIMIT_DEFAULT_WINDOW: %w", err))
		} else {
			c.RateLimitWindow = Duration{d}
		}
	}
	list(&c.RateLimitWhitelist, "RATE_LIMIT_WHITELIST")
	list(&c.RateLimitBlacklist, "RATE_LIMIT_BLACKLIST")

	if len(errs) > 0 {
		return fmt.Errorf("config error: invalid environment: %w", errors.Join(errs...))
	}
	return nil
}

// splitList parses a comma-separated list, dropping blank items.
func splitList(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks that the configuration has valid values.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return fmt.Errorf("config error: %s", describe(verrs[0]))
		}
		return fmt.Errorf("config error: %w", err)
	}

	if c.RateLimitWindow.Duration <= 0 {
		return fmt.Errorf("config error: 'rate_limit_window' must be positive")
	}

	if c.TaxonomyFile != "" {
		if _, err := os.Stat(c.TaxonomyFile); os.IsNotExist(err) {
			return fmt.Errorf("config error: taxonomy file not found: %s", c.TaxonomyFile)
		}
	}

	return nil
}

// describe renders a validation failure using the field's JSON name.
func describe(fe validator.FieldError) string {
	name := jsonName(fe.StructField())
	switch fe.Tag() {
	case "oneof":
		return fmt.Sprintf("'%s' must be one of [%s], got %q", name, fe.Param(), fe.Value())
	case "required_if":
		return fmt.Sprintf("'%s' is required when %s", name, fe.Param())
	case "min":
		return fmt.Sprintf("'%s' must be at least %s", name, fe.Param())
	case "max":
		return fmt.Sprintf("'%s' must be at most %s", name, fe.Param())
	case "url":
		return fmt.Sprintf("'%s' must be a URL", name)
	case "ip":
		return fmt.Sprintf("'%s' must contain IP addresses, got %q", name, fe.Value())
	default:
		return fmt.Sprintf("'%s' failed %s validation", name, fe.Tag())
	}
}

var configType = reflect.TypeOf(Config{})

func jsonName(field string) string {
	if i := strings.Index(field, "["); i >= 0 {
		field = field[:i]
	}
	sf, ok := configType.FieldByName(field)
	if !ok {
		return field
	}
	tag := strings.Split(sf.Tag.Get("json"), ",")[0]
	if tag == "" || tag == "-" {
		return field
	}
	return tag
}
