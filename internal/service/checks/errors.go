package checks

import (
	"errors"
	"fmt"
)

var (
	// ErrExtractionFailed is returned when the OCR backend could not process the image.
	ErrExtractionFailed = errors.New("check extraction failed")

	// ErrNoText is returned when the image contains no readable text.
	ErrNoText = errors.New("check image contains no readable text")
)

// ExtractionError carries the failing operation alongside the underlying error.
type ExtractionError struct {
	Op      string
	Err     error
	Details string
}

func (e *ExtractionError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("checks: %s failed: %s: %v", e.Op, e.Details, e.Err)
	}
	return fmt.Sprintf("checks: %s failed: %v", e.Op, e.Err)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}

func wrapExtractionError(op string, err error, details string) error {
	if err == nil {
		return nil
	}
	var extErr *ExtractionError
	if errors.As(err, &extErr) {
		return err
	}
	return &ExtractionError{Op: op, Err: err, Details: details}
}
