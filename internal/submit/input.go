package submit

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"poultrydx/pkg/types"
)

// Input is what the form collects.
type Input struct {
	Species  string `json:"species"`
	AgeWeeks int    `json:"age_weeks"`
	Symptoms string `json:"symptoms"`
}

// ValidationError reports form input rejected at the boundary.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string { return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason) }

// StatusCode maps validation problems to 400 for the HTTP layer.
func (e *ValidationError) StatusCode() int { return http.StatusBadRequest }

// IsValidationError reports whether err is (or wraps) a ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// Validate enforces species membership and a non-negative age. Species is
// compared after trimming and lowercasing, so "Chicken " from the CLI is
// accepted and sent as "chicken".
func (in Input) Validate() error {
	sp := types.Species(strings.ToLower(strings.TrimSpace(in.Species)))
	if !sp.Valid() {
		return &ValidationError{Field: "species", Reason: fmt.Sprintf("%q is not one of chicken, duck, turkey, quail", in.Species)}
	}
	if in.AgeWeeks < 0 {
		return &ValidationError{Field: "age_weeks", Reason: "must be >= 0"}
	}
	return nil
}

func (in Input) species() types.Species {
	return types.Species(strings.ToLower(strings.TrimSpace(in.Species)))
}
