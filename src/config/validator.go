package config

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// Validator validates configuration values using go-playground/validator
type Validator struct {
	validate *validator.Validate
}

// NewValidator creates a new configuration validator
func NewValidator() *Validator {
	return &Validator{validate: validator.New()}
}

// Validate validates a complete configuration
func (v *Validator) Validate(cfg *Config) error {
	if cfg.Version == "" {
		cfg.Version = "1.0"
	}
	if err := v.validate.Struct(cfg); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) && len(validationErrors) > 0 {
			e := validationErrors[0]
			return fmt.Errorf("invalid config: field %s failed %q with value %v", e.Field(), e.Tag(), e.Value())
		}
		return err
	}
	return nil
}
