package pagination

import "errors"

// ErrInvalidPageSize is returned for a page size outside PageSizes.
var ErrInvalidPageSize = errors.New("invalid page size")

// FallbackErrorMessage is shown when a failure carries no message of its own.
const FallbackErrorMessage = "An error occurred"

// ErrorMessage renders err for display.
func ErrorMessage(err error) string {
	if err == nil || err.Error() == "" {
		return FallbackErrorMessage
	}
	return err.Error()
}
