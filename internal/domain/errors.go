package domain

import (
	"errors"
	"sort"
	"strings"
)

var ErrNotFound = errors.New("not found")

// ValidationErrors maps a form field to its message. It is returned, never
// panicked, and a non-empty value means nothing was computed or stored.
type ValidationErrors map[string]string

func (v ValidationErrors) Error() string {
	keys := make([]string, 0, len(v))
	for k := range v {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+v[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// OrNil converts an empty map to a nil error.
func (v ValidationErrors) OrNil() error {
	if len(v) == 0 {
		return nil
	}
	return v
}
