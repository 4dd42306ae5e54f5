package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
)

var (
	ErrUnavailable  = errors.New("server unavailable")
	ErrUnauthorized = errors.New("unauthorized")
	ErrNotFound     = errors.New("not found")
)

// Field names of the API validation error body.
const (
	FieldEmail          = "email"
	FieldName           = "name"
	FieldNonFieldErrors = "nonFieldErrors"
	FieldDetail         = "detail"
)

// ErrorBody holds field -> messages from an API error response. Fields
// reported as a single string are stored as one-element lists.
type ErrorBody map[string][]string

func (b *ErrorBody) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	out := make(ErrorBody, len(raw))
	for k, v := range raw {
		var list []string
		if err := json.Unmarshal(v, &list); err == nil {
			out[k] = list
			continue
		}
		var s string
		if err := json.Unmarshal(v, &s); err == nil {
			out[k] = []string{s}
		}
	}
	*b = out
	return nil
}

// Has reports whether the body carries at least one message for field.
func (b ErrorBody) Has(field string) bool {
	return len(b[field]) > 0
}

// First returns the first message for field or "".
func (b ErrorBody) First(field string) string {
	if msgs := b[field]; len(msgs) > 0 {
		return msgs[0]
	}
	return ""
}

func (b ErrorBody) String() string {
	keys := make([]string, 0, len(b))
	for k := range b {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+strings.Join(b[k], " "))
	}
	return strings.Join(parts, "; ")
}

// APIError is returned for any non-2xx API response.
type APIError struct {
	Status int
	Body   ErrorBody
}

func (e *APIError) Error() string {
	msg := fmt.Sprintf("request failed with status code %d", e.Status)
	if len(e.Body) > 0 {
		msg += ": " + e.Body.String()
	}
	return msg
}

// Is lets callers match status classes with errors.Is.
func (e *APIError) Is(target error) bool {
	switch target {
	case ErrUnauthorized:
		return e.Status == http.StatusUnauthorized
	case ErrNotFound:
		return e.Status == http.StatusNotFound
	}
	return false
}
