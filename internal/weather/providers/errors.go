package providers

import (
	"errors"
	"fmt"
)

// ErrProvider matches every failure to obtain a forecast from a provider,
// whether or not the provider answered.
var ErrProvider = errors.New("forecast provider error")

// ClientRequestError means the provider could not be reached, or its answer
// could not be read.
type ClientRequestError struct {
	Provider string
	Err      error
}

func (e *ClientRequestError) Error() string {
	return fmt.Sprintf("Unexpected error when trying to communicate to %s: %s", e.Provider, e.Err.Error())
}

func (e *ClientRequestError) Unwrap() error {
	return e.Err
}

func (e *ClientRequestError) Is(target error) bool {
	return target == ErrProvider
}

// ServiceResponseError means the provider answered with an error status.
// Body is the JSON-encoded error body.
type ServiceResponseError struct {
	Provider string
	Status   int
	Body     string
	Err      error
}

func (e *ServiceResponseError) Error() string {
	return fmt.Sprintf("Unexpected error returned by the %s service: Error: %s Code: %d", e.Provider, e.Body, e.Status)
}

func (e *ServiceResponseError) Unwrap() error {
	return e.Err
}

func (e *ServiceResponseError) Is(target error) bool {
	return target == ErrProvider
}
