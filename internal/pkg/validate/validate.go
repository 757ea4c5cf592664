package validate

import (
	"fmt"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

// v is the package-level singleton validator. It is initialised once at
// package load time. Any custom type registrations must be made during init()
// before the first call to Struct.
var v = validator.New()

// FieldErrors maps a field name to a human-readable description of the rule it
// broke. Handlers serialize it into 400 responses so callers see per-field errors.
type FieldErrors map[string]string

func (e FieldErrors) Error() string {
	keys := make([]string, 0, len(e))
	for k := range e {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var msgs []string
	for _, k := range keys {
		msgs = append(msgs, fmt.Sprintf("%s: %s", k, e[k]))
	}
	return strings.Join(msgs, "; ")
}

// Struct validates the given struct using its validate tags.
// Returns FieldErrors on rule violations, or nil.
func Struct(s interface{}) error {
	err := v.Struct(s)
	if err == nil {
		return nil
	}
	ve, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}
	fe := make(FieldErrors, len(ve))
	for _, f := range ve {
		fe[strings.ToLower(f.Field())] = ruleMessage(f)
	}
	return fe
}

func ruleMessage(f validator.FieldError) string {
	switch f.Tag() {
	case "required":
		return "this field is required"
	case "email":
		return "must be a valid email address"
	case "e164":
		return "must be a phone number in E.164 format"
	case "len":
		return fmt.Sprintf("must be exactly %s characters", f.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", f.Param())
	default:
		return fmt.Sprintf("failed rule %q", f.Tag())
	}
}
