package handlers

import (
	"unicode"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// password policy enforced at the trust boundary
const (
	passwordMinLen = 12
	passwordMaxLen = 128
)

// IsStrongPassword reports whether p satisfies the account password policy:
// 12-128 characters with at least one lowercase, one uppercase, one digit
// and one non-alphanumeric symbol.
func IsStrongPassword(p string) bool {
	runes := []rune(p)

	if len(runes) < passwordMinLen || len(runes) > passwordMaxLen {
		return false
	}

	var lower, upper, digit, symbol bool

	for _, r := range runes {
		switch {
		case unicode.IsLower(r):
			lower = true
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsDigit(r):
			digit = true
		default:
			symbol = true
		}
	}

	return lower && upper && digit && symbol
}

// RegisterValidators installs custom rules on gin's binding engine.
// Call once before building the router.
func RegisterValidators() {
	v, ok := binding.Validator.Engine().(*validator.Validate)

	if !ok {
		return
	}

	_ = v.RegisterValidation("strongpw", func(fl validator.FieldLevel) bool {
		return IsStrongPassword(fl.Field().String())
	})
}

// ValidateVar checks a single value against validator rules; used where
// patch payloads are validated field by field.
func ValidateVar(value interface{}, rules string) bool {
	v, ok := binding.Validator.Engine().(*validator.Validate)

	if !ok {
		return true
	}

	return v.Var(value, rules) == nil
}
