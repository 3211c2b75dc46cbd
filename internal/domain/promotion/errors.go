package promotion

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrNotFound is returned by repositories when a record does not exist.
var ErrNotFound = errors.New("not found")

// ErrCouponCodeTaken is returned when attaching a coupon code that already
// exists for the promotion.
var ErrCouponCodeTaken = errors.New("coupon code already exists")

// FieldErrors maps form field names to validation messages.
type FieldErrors map[string]string

// ValidationError carries per-field failures surfaced to the form layer.
// No partial submission reaches the API when validation fails.
type ValidationError struct {
	Fields FieldErrors
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s: %s", k, e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// AsValidationError unwraps err into a *ValidationError, if it is one.
func AsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	ok := errors.As(err, &ve)
	return ve, ok
}
