package errors

import "fmt"

/*
APIError is the JSON error body returned by the HTTP service.
*/
type APIError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.Code, e.Message)
}

/*
WithMessagef returns a copy of the error with a formatted message.
*/
func (e *APIError) WithMessagef(format string, args ...any) *APIError {
	return &APIError{Code: e.Code, Message: fmt.Sprintf(format, args...)}
}

var (
	ErrInvalidRequest = &APIError{Code: 400, Message: "Invalid request"}
	ErrInternal       = &APIError{Code: 500, Message: "Internal error"}
)
