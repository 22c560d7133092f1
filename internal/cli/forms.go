package cli

import (
	"fmt"
	"strconv"
	"time"

	"github.com/charmbracelet/huh"
)

// rateFormValues collects the fields of an interactive rate entry.
type rateFormValues struct {
	userID    string
	projectID string
	rate      string
	effective string
	comment   string
}

// runRateForm prompts for a new rate record's fields.
func runRateForm() (*rateFormValues, error) {
	v := &rateFormValues{
		effective: time.Now().UTC().Format("2006-01-02"),
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Member").
				Value(&v.userID).
				Validate(validateNonEmpty),
			huh.NewInput().
				Title("Project scope (blank for global)").
				Value(&v.projectID),
			huh.NewInput().
				Title("Hourly rate").
				Placeholder("1.0").
				Value(&v.rate).
				Validate(validatePositiveFloat),
			huh.NewInput().
				Title("Effective date (YYYY-MM-DD)").
				Value(&v.effective).
				Validate(validateDate),
			huh.NewInput().
				Title("Comment").
				Value(&v.comment),
		),
	).WithShowHelp(false)

	if err := form.Run(); err != nil {
		return nil, err
	}
	return v, nil
}

// runBaselineForm prompts for a snapshot label.
func runBaselineForm(defaultSubject string) (string, error) {
	subject := defaultSubject

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Baseline label").
				Value(&subject).
				Validate(validateNonEmpty),
		),
	).WithShowHelp(false)

	if err := form.Run(); err != nil {
		return "", err
	}
	return subject, nil
}

func validateNonEmpty(s string) error {
	if s == "" {
		return fmt.Errorf("required")
	}
	return nil
}

func validateDate(s string) error {
	if _, err := time.Parse("2006-01-02", s); err != nil {
		return fmt.Errorf("expected YYYY-MM-DD")
	}
	return nil
}

func validatePositiveFloat(s string) error {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f <= 0 {
		return fmt.Errorf("expected a positive number")
	}
	return nil
}
