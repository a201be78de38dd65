package engineconfig

import (
	"fmt"
)

// ValidationError 검증 실패 (프로그램 중단)
type ValidationError struct {
	Field   string
	Message string
	cause   error
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Unwrap exposes the underlying engine error, if any
func (e ValidationError) Unwrap() error {
	return e.cause
}

// Validate checks all required constraints
func Validate(cfg *File) error {
	// === Meta ===
	if cfg.Meta.Name == "" {
		return ValidationError{Field: "meta.name", Message: "required"}
	}

	// === Engine ===
	if err := cfg.Engine.Validate(); err != nil {
		return ValidationError{Field: "engine", Message: err.Error(), cause: err}
	}

	// === Warmup ===
	seen := make(map[int]bool, len(cfg.Warmup.TrailingDays))
	for _, days := range cfg.Warmup.TrailingDays {
		if days <= 0 || days > cfg.Engine.LookbackDays {
			return ValidationError{
				Field:   "warmup.trailing_days",
				Message: fmt.Sprintf("%d must be in [1, %d]", days, cfg.Engine.LookbackDays),
			}
		}
		if seen[days] {
			return ValidationError{Field: "warmup.trailing_days", Message: fmt.Sprintf("duplicate %d", days)}
		}
		seen[days] = true
	}

	return nil
}
