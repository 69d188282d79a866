package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks the structural validity of a Config before any external
// system is contacted: recipient syntax, date formats, window ordering,
// and connection parameters. All problems are reported together.
func Validate(cfg *Config) error {
	var errs []error

	if err := validate.Struct(cfg); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return fmt.Errorf("config: validating: %w", err)
		}
		for _, fe := range fieldErrs {
			errs = append(errs, fieldError(fe))
		}
	}

	// Window ordering only makes sense once both dates parse.
	start, errStart := time.Parse(dateLayout, cfg.StartDate)
	end, errEnd := time.Parse(dateLayout, cfg.EndDate)
	if errStart == nil && errEnd == nil && !start.Before(end) {
		errs = append(errs, fmt.Errorf("config: start date %s must be before end date %s", cfg.StartDate, cfg.EndDate))
	}

	return errors.Join(errs...)
}

// fieldError translates a validator field error into a message that names
// the offending value rather than the struct internals.
func fieldError(fe validator.FieldError) error {
	switch fe.Field() {
	case "Recipient":
		return fmt.Errorf("config: invalid recipient email address %q", fe.Value())
	case "From":
		return fmt.Errorf("config: invalid sender email address %q", fe.Value())
	case "StartDate", "EndDate":
		return fmt.Errorf("config: invalid date %q (use YYYY-MM-DD)", fe.Value())
	case "Port":
		return fmt.Errorf("config: port %v out of range", fe.Value())
	default:
		return fmt.Errorf("config: %s is %s", fe.StructNamespace(), describeTag(fe.Tag()))
	}
}

func describeTag(tag string) string {
	if tag == "required" {
		return "required"
	}
	return "invalid (" + tag + ")"
}
