/*
Copyright © 2025 Acronis International GmbH.

Released under MIT license.
*/

package crpt

import "fmt"

// InvalidConfigurationError is returned when the client is constructed
// with invalid configuration parameters.
type InvalidConfigurationError struct {
	Message string
}

// Error returns a string representation of InvalidConfigurationError.
func (e *InvalidConfigurationError) Error() string {
	return fmt.Sprintf("invalid client configuration: %s", e.Message)
}

// SerializationError is returned when a document cannot be serialized
// into the request body.
type SerializationError struct {
	Inner error
}

// Error returns a string representation of SerializationError.
func (e *SerializationError) Error() string {
	return fmt.Sprintf("serialize document: %s", e.Inner.Error())
}

// Unwrap returns the next error in the error chain.
func (e *SerializationError) Unwrap() error {
	return e.Inner
}

// RequestError is returned when sending the HTTP request fails before a
// response status is received.
type RequestError struct {
	Inner error
}

// Error returns a string representation of RequestError.
func (e *RequestError) Error() string {
	return fmt.Sprintf("send document creation request: %s", e.Inner.Error())
}

// Unwrap returns the next error in the error chain.
func (e *RequestError) Unwrap() error {
	return e.Inner
}

// APIRequestError is returned when the server responds with an error status code.
type APIRequestError struct {
	StatusCode int
}

// Error returns a string representation of APIRequestError.
func (e *APIRequestError) Error() string {
	return fmt.Sprintf("API request failed with status code: %d", e.StatusCode)
}
