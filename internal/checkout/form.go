package checkout

import (
	"regexp"
	"sort"
	"strings"
)

// CustomerInfo is the flat form-field → value mapping captured at
// checkout. It stays an open mapping on purpose; the set of fields
// belongs to the form, not to this package.
type CustomerInfo map[string]string

// FieldError is one per-field validation failure.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// PaymentCreditCard is the payment option that requires card fields.
const PaymentCreditCard = "credit-card"

var requiredFields = []string{
	"fullName", "email", "address", "city", "postalCode", "country", "payment",
}

var (
	emailPattern  = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phonePattern  = regexp.MustCompile(`^[\+]?[\d\s\-\(\)]{8,}$`)
	cardPattern   = regexp.MustCompile(`^\d{13,19}$`)
	expiryPattern = regexp.MustCompile(`^(0[1-9]|1[0-2])/\d{2}$`)
	cvvPattern    = regexp.MustCompile(`^\d{3,4}$`)
)

// ValidateField checks a single field, as on input blur. A nil return
// means the field is fine. Whether the field is required at all can
// depend on the rest of the form (card fields), hence the full info.
func ValidateField(name, value string, info CustomerInfo) *FieldError {
	value = strings.TrimSpace(value)

	if value == "" {
		if isRequired(name, info) {
			return &FieldError{Field: name, Message: "This field is required"}
		}
		return nil
	}

	switch name {
	case "email":
		if !emailPattern.MatchString(value) {
			return &FieldError{Field: name, Message: "Please enter a valid email address"}
		}
	case "phone":
		if !phonePattern.MatchString(value) {
			return &FieldError{Field: name, Message: "Please enter a valid phone number"}
		}
	case "cardNumber":
		if !cardPattern.MatchString(strings.ReplaceAll(value, " ", "")) {
			return &FieldError{Field: name, Message: "Please enter a valid card number"}
		}
	case "expiryDate":
		if !expiryPattern.MatchString(value) {
			return &FieldError{Field: name, Message: "Please enter expiry date in MM/YY format"}
		}
	case "cvv":
		if !cvvPattern.MatchString(value) {
			return &FieldError{Field: name, Message: "Please enter a valid CVV"}
		}
	}
	return nil
}

// ValidateAll runs every field check and aggregates the failures. Any
// failure rejects the whole submission; there is no partial submit.
func ValidateAll(info CustomerInfo) []FieldError {
	var errs []FieldError

	checked := make(map[string]bool)
	check := func(name string) {
		if checked[name] {
			return
		}
		checked[name] = true
		if fe := ValidateField(name, info[name], info); fe != nil {
			errs = append(errs, *fe)
		}
	}

	for _, name := range requiredFields {
		check(name)
	}
	if info["payment"] == PaymentCreditCard {
		check("cardNumber")
		check("expiryDate")
		check("cvv")
	}
	// Optional fields are validated only when filled in. Sorted so the
	// error list is stable across runs.
	optional := make([]string, 0, len(info))
	for name := range info {
		if strings.TrimSpace(info[name]) != "" {
			optional = append(optional, name)
		}
	}
	sort.Strings(optional)
	for _, name := range optional {
		check(name)
	}
	return errs
}

func isRequired(name string, info CustomerInfo) bool {
	for _, required := range requiredFields {
		if name == required {
			return true
		}
	}
	if info["payment"] == PaymentCreditCard {
		switch name {
		case "cardNumber", "expiryDate", "cvv":
			return true
		}
	}
	return false
}
