package fetcher

import (
	"github.com/ONSdigital/log.go/v2/log"
)

// Error is the fetcher package's error type, carrying log data alongside
// the wrapped error
type Error struct {
	err     error
	logData map[string]interface{}
}

// NewError creates a new Error
func NewError(err error, logData log.Data) *Error {
	return &Error{
		err:     err,
		logData: logData,
	}
}

// Error implements the Go standard error interface
func (e *Error) Error() string {
	if e.err == nil {
		return "nil error"
	}
	return e.err.Error()
}

// LogData implements the DataLogger interface which allows you to extract
// embedded log.Data from an error
func (e *Error) LogData() map[string]interface{} {
	return e.logData
}

// Unwrap returns the wrapped error
func (e *Error) Unwrap() error {
	return e.err
}
