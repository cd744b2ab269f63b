package validators

import (
	"net/http"
	"strconv"
	"strings"

	pkgerrors "github.com/Iduk-Baduk/itseats-web-customer-sub001/pkg/errors"
)

// RequiredQuery returns the trimmed query value for key or a validation error when it is blank.
func RequiredQuery(r *http.Request, key string) (string, error) {
	value := strings.TrimSpace(r.URL.Query().Get(key))
	if value == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "query parameter required").WithDetails(map[string]any{"field": key})
	}
	return value, nil
}

// ParseInt32 parses a signed 32-bit path or query value.
func ParseInt32(field, raw string) (int32, error) {
	value, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 32)
	if err != nil {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "parameter must be a 32-bit integer").WithDetails(map[string]any{"field": field})
	}
	return int32(value), nil
}
