package errors

import (
	"regexp"
	"unicode"
)

// maxNameLength bounds point and predicate identifiers.
const maxNameLength = 64

// pointNameRegex matches point identifiers: a letter followed by letters,
// digits or underscores (a, B, p1, x_2).
var pointNameRegex = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_]*$`)

// ValidatePointName validates a point identifier from a statement or problem file.
//
// Validation rules:
//   - No empty names
//   - Maximum length of 64 characters
//   - No control characters
//   - Must start with a letter and contain only letters, digits and underscores
func ValidatePointName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidPoint, "point name cannot be empty")
	}

	if len(name) > maxNameLength {
		return New(ErrCodeInvalidPoint, "point name too long (max %d characters)", maxNameLength)
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidPoint, "point name contains invalid control characters")
		}
	}

	if !pointNameRegex.MatchString(name) {
		return New(ErrCodeInvalidPoint, "invalid point name: %q", name)
	}

	return nil
}

// predicateNameRegex matches predicate tokens such as eqratio or eqratio3.
var predicateNameRegex = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

// ValidatePredicateName validates the leading token of a statement.
// It only checks the shape of the token; whether the predicate exists is
// decided by the predicate table.
func ValidatePredicateName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidStatement, "statement is empty")
	}
	if len(name) > maxNameLength {
		return New(ErrCodeInvalidStatement, "predicate name too long (max %d characters)", maxNameLength)
	}
	if !predicateNameRegex.MatchString(name) {
		return New(ErrCodeInvalidStatement, "invalid predicate name: %q", name)
	}
	return nil
}
