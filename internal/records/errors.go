package records

import (
	"errors"
	"fmt"
)

// ErrValidation matches every rejected upload.
var ErrValidation = errors.New("validation failed")

// ValidationError carries the message shown to the client on a 400.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// Is makes every ValidationError match ErrValidation.
func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

var (
	ErrConsentRequired = &ValidationError{Message: "Consent required to submit data"}
	ErrFileRequired    = &ValidationError{Message: "No file uploaded"}
	ErrMissingFileName = &ValidationError{Message: "Uploaded file has no filename"}
	ErrInvalidFileName = &ValidationError{Message: "Invalid file name"}
)

// StorageError reports a failure of the record store.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("record store %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

func storageErr(op string, err error) error {
	if err == nil {
		return nil
	}
	return &StorageError{Op: op, Err: err}
}
