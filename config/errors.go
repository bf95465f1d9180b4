package config

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotConfigured marks an optional resource that was left out on purpose.
var ErrNotConfigured = errors.New("not configured")

const (
	categoryMissing       = "missing"
	categoryInvalid       = "invalid"
	categoryNotConfigured = "not_configured"
	categoryConnection    = "connection"
)

// ConfigError describes a configuration problem together with the action
// that fixes it. Messages are lowercase.
//
//nolint:revive // ConfigError reads better than config.Error at call sites
type ConfigError struct {
	Category string   // missing, invalid, not_configured or connection
	Field    string   // koanf path such as "database.host"
	Message  string
	Action   string
	Details  []string // troubleshooting hints
}

// Error renders the non-empty parts separated by spaces:
// "config_missing: database.host required set SQLKIT_DATABASE_HOST ...".
func (e *ConfigError) Error() string {
	parts := make([]string, 0, 5)
	if e.Category != "" {
		parts = append(parts, "config_"+e.Category+":")
	}
	for _, s := range []string{e.Field, e.Message, e.Action} {
		if s != "" {
			parts = append(parts, s)
		}
	}
	if len(e.Details) > 0 {
		parts = append(parts, strings.Join(e.Details, "; "))
	}
	return strings.Join(parts, " ")
}

// NewMissingFieldError reports a required field that has no value.
func NewMissingFieldError(field, envVar, yamlPath string) *ConfigError {
	return &ConfigError{
		Category: categoryMissing,
		Field:    field,
		Message:  "required",
		Action:   fmt.Sprintf("set %s env var or add %s to config.yaml", envVar, yamlPath),
	}
}

// NewInvalidFieldError reports a value outside the accepted set.
func NewInvalidFieldError(field, message string, validOptions []string) *ConfigError {
	err := &ConfigError{Category: categoryInvalid, Field: field, Message: message}
	if len(validOptions) > 0 {
		err.Action = "must be one of: " + strings.Join(validOptions, ", ")
	}
	return err
}

// NewValidationError reports a constraint violation with a free-form message.
func NewValidationError(field, message string) *ConfigError {
	return &ConfigError{Category: categoryInvalid, Field: field, Message: message}
}

// NewNotConfiguredError reports an optional resource that is absent. It is
// informational; callers usually test for it with IsNotConfigured.
func NewNotConfiguredError(feature, envVar, yamlPath string) *ConfigError {
	return &ConfigError{
		Category: categoryNotConfigured,
		Field:    feature,
		Message:  "(optional)",
		Action:   fmt.Sprintf("to enable: set %s env var or add %s to config.yaml", envVar, yamlPath),
	}
}

// NewConnectionError reports a configured resource that could not be reached.
func NewConnectionError(resource, message string, troubleshooting []string) *ConfigError {
	return &ConfigError{
		Category: categoryConnection,
		Field:    resource,
		Message:  message,
		Details:  troubleshooting,
	}
}

// IsNotConfigured reports whether err, or anything it wraps, is
// ErrNotConfigured or a not_configured ConfigError.
func IsNotConfigured(err error) bool {
	if errors.Is(err, ErrNotConfigured) {
		return true
	}
	var configErr *ConfigError
	return errors.As(err, &configErr) && configErr.Category == categoryNotConfigured
}
