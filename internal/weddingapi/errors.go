package weddingapi

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// Error is a non-2xx answer from the wedding API.
type Error struct {
	StatusCode int
	Body       string // raw response text, trimmed
	Message    string // "error" field when the body was a JSON object
	JSON       bool   // body parsed as a JSON object
}

// Error renders the status and raw body, e.g. "Erro 409: gift already reserved".
func (e *Error) Error() string {
	return fmt.Sprintf("Erro %d: %s", e.StatusCode, e.Body)
}

// Detail prefers the backend's own message. A JSON body without one yields
// a generic status line; a non-JSON body falls back to Error().
func (e *Error) Detail() string {
	switch {
	case e.Message != "":
		return e.Message
	case e.JSON:
		return fmt.Sprintf("Erro HTTP! Status: %d", e.StatusCode)
	default:
		return e.Error()
	}
}

func readError(resp *http.Response) *Error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	e := &Error{
		StatusCode: resp.StatusCode,
		Body:       strings.TrimSpace(string(raw)),
	}

	var payload struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(raw, &payload); err == nil {
		e.JSON = true
		e.Message = payload.Error
	}
	return e
}
