package usecase

import (
	"fmt"
	"net/mail"
	"strings"
)

type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func ValidateCaptureLeadInput(input CaptureLeadInput) []ValidationError {
	var errors []ValidationError

	if strings.TrimSpace(input.SessionID) == "" {
		errors = append(errors, ValidationError{"session_id", "is required"})
	}

	// Email is optional at capture time; when present it must at least parse.
	if input.Email != "" {
		if _, err := mail.ParseAddress(input.Email); err != nil {
			errors = append(errors, ValidationError{"email", "is invalid"})
		}
	}

	if len(input.Name) > 200 {
		errors = append(errors, ValidationError{"name", "must not exceed 200 characters"})
	}
	if len(input.Company) > 200 {
		errors = append(errors, ValidationError{"company", "must not exceed 200 characters"})
	}
	if len(input.BudgetRange) > 100 {
		errors = append(errors, ValidationError{"budget_range", "must not exceed 100 characters"})
	}
	if len(input.Timeline) > 100 {
		errors = append(errors, ValidationError{"timeline", "must not exceed 100 characters"})
	}
	if len(input.Notes) > 5000 {
		errors = append(errors, ValidationError{"notes", "must not exceed 5000 characters"})
	}

	return errors
}
