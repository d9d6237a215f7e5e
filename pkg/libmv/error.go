package libmv

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// An Error represents a non-acceptance HTTP response returned by the record store.
type Error struct {
	StatusCode int
	Message    string
}

func parseError(r io.Reader, code int) error {
	var payload struct {
		Message string `json:"message"`
		Err     struct {
			Message string `json:"message"`
		} `json:"error"`
	}

	merr := &Error{StatusCode: code}
	// The body is optional, a non-JSON body keeps an empty message.
	if err := json.NewDecoder(r).Decode(&payload); err == nil {
		merr.Message = payload.Message
		if merr.Message == "" {
			merr.Message = payload.Err.Message
		}
	}
	return merr
}

func (e *Error) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%d %s", e.StatusCode, http.StatusText(e.StatusCode))
	}
	return e.Message
}

// A ResponseError is returned when an accepted response has not the expected shape.
type ResponseError struct {
	StatusCode int
	Err        error
}

func (e *ResponseError) Error() string {
	return e.Err.Error()
}

// Cause implements the github.com/pkg/errors causer interface.
func (e *ResponseError) Cause() error {
	return e.Err
}
