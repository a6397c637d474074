package validation

import (
	"fmt"

	dErrors "consentvault/pkg/domain-errors"
)

// String element length limits
const (
	MaxNameLength     = 100
	MaxContactLength  = 255
	MaxPasswordLength = 72 // bcrypt ignores bytes past 72
	MinPasswordLength = 8
	MaxLoginLength    = 64
	MaxDetailLength   = 1024
)

// OneTimeCodeLength is the number of digits in a deletion confirmation code.
const OneTimeCodeLength = 6

// CheckStringLength validates that a string does not exceed the maximum length.
func CheckStringLength(fieldName, value string, max int) error {
	if len(value) > max {
		return dErrors.New(dErrors.CodeValidation, fmt.Sprintf("%s exceeds max length of %d", fieldName, max))
	}
	return nil
}
