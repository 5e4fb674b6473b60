package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// AuthError indicates that sign-in/sign-up failed or that the backend
// rejected the access token (401/403).
type AuthError struct {
	Status  int
	Message string
	Err     error
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("auth error: %s", e.Message)
}

func (e *AuthError) Unwrap() error { return e.Err }

// ValidationError is returned when the backend rejects a payload (400/422).
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s", e.Message)
}

// NotFoundError is returned when the addressed train does not exist (404).
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("not found: %s", e.Message)
}

// ServerError covers every other non-2xx response.
type ServerError struct {
	Status  int
	Message string
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("server error (%d): %s", e.Status, e.Message)
}

// NetworkError wraps a transport failure (DNS, refused connection, timeout).
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error on %s: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// IsAuthError reports whether err (or any error in its chain) is an AuthError.
func IsAuthError(err error) bool {
	var authErr *AuthError
	return errors.As(err, &authErr)
}

// IsNotFound reports whether err (or any error in its chain) is a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// IsValidation reports whether err (or any error in its chain) is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// Message normalizes err into the string shown to the user.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var (
		authErr *AuthError
		valErr  *ValidationError
		nfErr   *NotFoundError
		srvErr  *ServerError
		netErr  *NetworkError
	)
	switch {
	case errors.As(err, &authErr):
		return authErr.Message
	case errors.As(err, &valErr):
		return valErr.Message
	case errors.As(err, &nfErr):
		return nfErr.Message
	case errors.As(err, &srvErr):
		return srvErr.Message
	case errors.As(err, &netErr):
		return "Cannot reach the server"
	default:
		return err.Error()
	}
}

// errorBody is the backend's error envelope. Message may be a string or a
// list of strings.
type errorBody struct {
	Message messageText `json:"message"`
	Error   string      `json:"error"`
}

type messageText string

func (m *messageText) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*m = messageText(s)
		return nil
	}
	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return err
	}
	*m = messageText(strings.Join(list, "; "))
	return nil
}

// bodyMessage extracts the message from an error body, or "" when absent.
func bodyMessage(body []byte) string {
	var eb errorBody
	if len(body) == 0 || json.Unmarshal(body, &eb) != nil {
		return ""
	}
	if eb.Message != "" {
		return string(eb.Message)
	}
	return eb.Error
}

// statusError maps a non-2xx response to a typed error. fallback is used
// when the body carries no message.
func statusError(status int, body []byte, fallback string) error {
	msg := bodyMessage(body)
	if msg == "" {
		msg = fallback
	}
	switch {
	case status == http.StatusBadRequest || status == http.StatusUnprocessableEntity:
		return &ValidationError{Message: msg}
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return &AuthError{Status: status, Message: msg}
	case status == http.StatusNotFound:
		return &NotFoundError{Message: msg}
	default:
		return &ServerError{Status: status, Message: msg}
	}
}
