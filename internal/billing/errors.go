package billing

import (
	"fmt"
	"sort"
	"strings"
)

// ValidationErrors is a field-addressable validation failure. Keys are
// field paths ("lineItems[2].quantity"), values are user-facing messages.
type ValidationErrors map[string]string

// Error implements the error interface
func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return "validation failed"
	}
	fields := make([]string, 0, len(v))
	for f := range v {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, fmt.Sprintf("%s: %s", f, v[f]))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Merge copies all entries from other into v, prefixing each key
func (v ValidationErrors) Merge(prefix string, other ValidationErrors) {
	for field, msg := range other {
		if prefix != "" {
			field = prefix + "." + field
		}
		v[field] = msg
	}
}
