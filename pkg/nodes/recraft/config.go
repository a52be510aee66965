package recraft

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/xeipuuv/gojsonschema"
)

const (
	DefaultBaseURL        = "https://external.api.recraft.ai/v1"
	DefaultTimeout        = 60 * time.Second
	DefaultMaxPromptBytes = 1000
	DefaultMaxBinaryBytes = 5 * 1024 * 1024
)

// Config is the node configuration.
type Config struct {
	BaseURL        string        `json:"base_url"`
	Timeout        time.Duration `json:"timeout"`
	MaxPromptBytes int           `json:"max_prompt_bytes"`
	MaxBinaryBytes int           `json:"max_binary_bytes"`
}

// DefaultConfig returns the configuration used when no option is given.
func DefaultConfig() Config {
	return Config{
		BaseURL:        DefaultBaseURL,
		Timeout:        DefaultTimeout,
		MaxPromptBytes: DefaultMaxPromptBytes,
		MaxBinaryBytes: DefaultMaxBinaryBytes,
	}
}

// withDefaults fills zero values with defaults.
func (c Config) withDefaults() Config {
	d := DefaultConfig()

	if c.BaseURL == "" {
		c.BaseURL = d.BaseURL
	}

	if c.Timeout <= 0 {
		c.Timeout = d.Timeout
	}

	if c.MaxPromptBytes <= 0 {
		c.MaxPromptBytes = d.MaxPromptBytes
	}

	if c.MaxBinaryBytes <= 0 {
		c.MaxBinaryBytes = d.MaxBinaryBytes
	}

	return c
}

// ParseConfig validates config against the node schema and applies defaults.
func ParseConfig(config map[string]any) (Config, error) {
	cfg := DefaultConfig()

	if config == nil {
		return cfg, nil
	}

	if err := validateConfigSchema(config); err != nil {
		return Config{}, configurationError(noItem, ErrInvalidConfig, err.Error())
	}

	if baseURL, ok := config["base_url"].(string); ok && baseURL != "" {
		cfg.BaseURL = strings.TrimRight(baseURL, "/")
	}

	if timeout, ok := number(config["timeout"]); ok {
		cfg.Timeout = time.Duration(timeout * float64(time.Second))
	}

	if maxPrompt, ok := number(config["max_prompt_bytes"]); ok {
		cfg.MaxPromptBytes = int(maxPrompt)
	}

	if maxBinary, ok := number(config["max_binary_bytes"]); ok {
		cfg.MaxBinaryBytes = int(maxBinary)
	}

	return cfg, nil
}

func validateConfigSchema(config map[string]any) error {
	schemaLoader := gojsonschema.NewGoLoader(configSchema())
	dataLoader := gojsonschema.NewGoLoader(config)

	result, err := gojsonschema.Validate(schemaLoader, dataLoader)
	if err != nil {
		return err
	}

	if !result.Valid() {
		errs := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			errs = append(errs, desc.String())
		}

		return fmt.Errorf("validation errors: %s", strings.Join(errs, "; "))
	}

	return nil
}

func configSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"base_url": map[string]any{
				"type":        "string",
				"description": "Recraft API base URL",
				"default":     DefaultBaseURL,
			},
			"timeout": map[string]any{
				"type":        "number",
				"description": "Per-request timeout in seconds",
				"default":     DefaultTimeout.Seconds(),
				"minimum":     1,
				"maximum":     600,
			},
			"max_prompt_bytes": map[string]any{
				"type":        "integer",
				"description": "Maximum prompt length in UTF-8 bytes",
				"default":     DefaultMaxPromptBytes,
				"minimum":     1,
			},
			"max_binary_bytes": map[string]any{
				"type":        "integer",
				"description": "Maximum size of an uploaded image in bytes",
				"default":     DefaultMaxBinaryBytes,
				"minimum":     1,
			},
		},
		"additionalProperties": false,
	}
}

// number converts the numeric shapes produced by JSON and YAML decoders.
func number(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case int32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()

		return f, err == nil
	default:
		return 0, false
	}
}
