package exceptions

import (
	"errors"
	"fmt"
	"ips-timeline-service/internal/pkg/constvars"
	"runtime"
)

type CustomError struct {
	StatusCode    int        `json:"status_code"`
	Success       bool       `json:"success"`
	ClientMessage string     `json:"message"`
	DevMessage    string     `json:"dev_message,omitempty"`
	Locations     []Location `json:"locations,omitempty"`
	err           error
}

type Location struct {
	File         string `json:"file"`
	Line         int    `json:"line"`
	FunctionName string `json:"function_name"`
}

func (e *CustomError) Error() string {
	if len(e.Locations) == 0 {
		return e.DevMessage
	}
	location := e.Locations[0]
	return fmt.Sprintf("%s (%s:%d %s)", e.DevMessage, location.File, location.Line, location.FunctionName)
}

func (e *CustomError) Unwrap() error {
	return e.err
}

// BuildNewCustomError wraps err into a CustomError. When err is itself a
// CustomError its location trace is carried over ahead of the caller's.
func BuildNewCustomError(err error, statusCode int, clientMessage, devMessage string) *CustomError {
	locations := []Location{getLocation(3)}

	var inner *CustomError
	if errors.As(err, &inner) {
		locations = append(append([]Location{}, inner.Locations...), locations...)
	}

	if err != nil {
		devMessage = fmt.Sprintf("%s: %s", devMessage, errorMessage(err))
	}
	return &CustomError{
		StatusCode:    statusCode,
		ClientMessage: clientMessage,
		DevMessage:    devMessage,
		Locations:     locations,
		err:           err,
	}
}

func errorMessage(err error) string {
	if customErr, ok := err.(*CustomError); ok {
		return customErr.DevMessage
	}
	return err.Error()
}

func WrapWithoutError(statusCode int, clientMessage, devMessage string) *CustomError {
	return &CustomError{
		StatusCode:    statusCode,
		ClientMessage: clientMessage,
		DevMessage:    devMessage,
		Locations:     []Location{getLocation(2)},
	}
}

// StatusCodeOf returns the HTTP status carried by err, or 500.
func StatusCodeOf(err error) int {
	var customErr *CustomError
	if errors.As(err, &customErr) {
		return customErr.StatusCode
	}
	return constvars.StatusInternalServerError
}

func getLocation(skip int) Location {
	pc, file, line, ok := runtime.Caller(skip)
	if !ok {
		return Location{
			File:         constvars.ResponseUnknown,
			Line:         0,
			FunctionName: constvars.ResponseUnknown,
		}
	}
	function := runtime.FuncForPC(pc).Name()
	return Location{
		File:         file,
		Line:         line,
		FunctionName: function,
	}
}
