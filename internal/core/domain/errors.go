package domain

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidInput     = errors.New("invalid input")
	ErrDocumentTooLarge = errors.New("document too large")
	ErrExtractionFailed = errors.New("failed to extract text, please upload a valid file")
	ErrProcessing       = errors.New("error processing the file")
	ErrModelBundle      = errors.New("model bundle unavailable")
	ErrModelSkew        = errors.New("model artifacts out of sync")
)

// WrapError preserves typed semantic errors with operation context.
func WrapError(kind error, operation string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w: %w", operation, kind, err)
}

func IsKind(err error, kind error) bool {
	return errors.Is(err, kind)
}
