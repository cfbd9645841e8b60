package submission

import "errors"

var (
	ErrEmptyInput           = errors.New("empty input")
	ErrUnsupportedMediaType = errors.New("unsupported media type")
)

const (
	ErrorCodeEmptyInput           = "empty_input"
	ErrorCodeUnsupportedMediaType = "unsupported_media_type"
)

// ValidationError carries a user-facing message and unwraps to one of the sentinels above.
type ValidationError struct {
	Code    string
	Message string
	err     error
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Unwrap() error {
	return e.err
}

func emptyInput(msg string) error {
	return &ValidationError{Code: ErrorCodeEmptyInput, Message: msg, err: ErrEmptyInput}
}

func unsupportedMediaType(msg string) error {
	return &ValidationError{Code: ErrorCodeUnsupportedMediaType, Message: msg, err: ErrUnsupportedMediaType}
}
