package session

import (
	"errors"
	"fmt"

	"github.com/dmitrijs2005/recipebook/internal/client/client"
)

// ValidationFailure is returned when input is rejected before any request.
type ValidationFailure struct {
	Field   string
	Message string
}

func (f *ValidationFailure) Error() string {
	return f.Message
}

// APIFailure is returned when the API answered with a non-2xx status.
// Message is the text that was put into State.ErrorMessage, if any.
type APIFailure struct {
	Status  int
	Body    client.ErrorBody
	Message string
}

func (f *APIFailure) Error() string {
	if f.Message != "" {
		return f.Message
	}
	return fmt.Sprintf("request failed with status code %d", f.Status)
}

// TransportFailure is returned when the request did not produce an API
// response, or a local side effect such as token storage failed.
type TransportFailure struct {
	Message string
	Err     error
}

func (f *TransportFailure) Error() string {
	return f.Message
}

func (f *TransportFailure) Unwrap() error {
	return f.Err
}

// classify turns a client error into the matching failure type.
func classify(err error, message string) error {
	var apiErr *client.APIError
	if errors.As(err, &apiErr) {
		return &APIFailure{Status: apiErr.Status, Body: apiErr.Body, Message: message}
	}
	if message == "" {
		message = err.Error()
	}
	return &TransportFailure{Message: message, Err: err}
}
