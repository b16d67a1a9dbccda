package conceptcard

import (
	"strings"
	"unicode/utf8"
)

// MaxConceptLength is the longest accepted concept, in characters.
const MaxConceptLength = 100

// disallowedChars break JSON prompts or card markup downstream.
const disallowedChars = "<>[]{}/\\|`"

// ValidateConcept checks user input before any provider is contacted.
func ValidateConcept(concept string) error {
	if strings.TrimSpace(concept) == "" {
		return &ValidationError{Reason: ReasonEmpty, MaxLength: MaxConceptLength}
	}
	if utf8.RuneCountInString(concept) > MaxConceptLength {
		return &ValidationError{Reason: ReasonTooLong, MaxLength: MaxConceptLength}
	}
	if strings.ContainsAny(concept, disallowedChars) {
		return &ValidationError{Reason: ReasonInvalidChars, MaxLength: MaxConceptLength}
	}
	return nil
}
