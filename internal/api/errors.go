package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"strings"
)

var (
	// ErrTransport wraps network failures, timeouts and cancellation.
	ErrTransport = errors.New("api: transport failure")
	// ErrDecode wraps response bodies that are not the expected JSON.
	ErrDecode = errors.New("api: unexpected response body")
)

// Error is a non-2xx response from the marketplace API.
type Error struct {
	Status int
	Detail string
	Method string
	Path   string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.Status, e.Detail)
}

// newError builds an Error from a response body, preferring the backend's
// detail field over the generic status text.
func newError(method, path string, status int, body []byte) *Error {
	e := &Error{Status: status, Method: method, Path: path}
	e.Detail = parseDetail(body)
	if e.Detail == "" {
		e.Detail = http.StatusText(status)
	}
	return e
}

func parseDetail(body []byte) string {
	var eb errorBody
	if err := json.Unmarshal(body, &eb); err != nil || len(eb.Detail) == 0 {
		return ""
	}

	var s string
	if err := json.Unmarshal(eb.Detail, &s); err == nil {
		return s
	}

	// Validation errors: [{"loc": [...], "msg": "...", "type": "..."}]
	var items []struct {
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(eb.Detail, &items); err == nil {
		msgs := make([]string, 0, len(items))
		for _, it := range items {
			if it.Msg != "" {
				msgs = append(msgs, it.Msg)
			}
		}
		return strings.Join(msgs, "; ")
	}
	return ""
}

// IsStatus reports whether err is an *Error with one of the given codes.
func IsStatus(err error, codes ...int) bool {
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		return false
	}
	return slices.Contains(codes, apiErr.Status)
}

func IsUnauthorized(err error) bool { return IsStatus(err, http.StatusUnauthorized) }

func IsForbidden(err error) bool { return IsStatus(err, http.StatusForbidden) }

func IsNotFound(err error) bool { return IsStatus(err, http.StatusNotFound) }

// Detail returns the backend detail carried by err, or "" when err is not an
// API error.
func Detail(err error) string {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Detail
	}
	return ""
}
