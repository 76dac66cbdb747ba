package usecase

import (
	"fmt"
	"regexp"
	"strings"
)

type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

var (
	// Permissive on purpose: local@domain with at least one dot after the @.
	// "a@b" is rejected, "a@b.c" passes. Stricter checks belong to the
	// email provider, not the form.
	emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

	// French mobile/landline: +33 or leading 0, then exactly 9 digits.
	phoneRegex = regexp.MustCompile(`^(\+33|0)[0-9]{9}$`)
)

// ValidateLeadInput checks the contact form draft. All violations are
// collected so the form can show the complete list at once.
func ValidateLeadInput(input SubmitLeadInput) []ValidationError {
	var errs []ValidationError

	if strings.TrimSpace(input.FirstName) == "" {
		errs = append(errs, ValidationError{"first_name", "Le prenom est requis"})
	}

	if strings.TrimSpace(input.LastName) == "" {
		errs = append(errs, ValidationError{"last_name", "Le nom est requis"})
	}

	email := strings.TrimSpace(input.Email)
	if email == "" {
		errs = append(errs, ValidationError{"email", "L'email est requis"})
	} else if !emailRegex.MatchString(email) {
		errs = append(errs, ValidationError{"email", "L'email n'est pas valide"})
	}

	if strings.TrimSpace(input.Restaurant) == "" {
		errs = append(errs, ValidationError{"restaurant", "Le nom du restaurant est requis"})
	}

	// Phone is optional but must be a French number when provided.
	if phone := stripWhitespace(input.Phone); phone != "" && !phoneRegex.MatchString(phone) {
		errs = append(errs, ValidationError{"phone", "Le numero de telephone n'est pas valide"})
	}

	if input.RequestType != "" && !validRequestTypes[input.RequestType] {
		errs = append(errs, ValidationError{"request_type", "Le type de demande n'est pas valide"})
	}

	return errs
}

var validRequestTypes = map[string]bool{
	"demo":        true,
	"info":        true,
	"affiliation": true,
	"autre":       true,
}

func stripWhitespace(s string) string {
	return strings.Join(strings.Fields(s), "")
}
