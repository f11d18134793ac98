package admin

import (
	"fmt"
	"regexp"
	"strings"
)

// DefaultCountryCode is prefixed to numbers given in local 0XXXXXXXXX form.
const DefaultCountryCode = "256"

var phoneRegex = regexp.MustCompile(`^[1-9]\d{8,14}$`)

// NormalizePhone returns phone as bare international digits. A leading '+'
// and separators are dropped and a local trunk '0' is replaced by
// DefaultCountryCode.
func NormalizePhone(phone string) (string, error) {
	phone = strings.TrimSpace(phone)
	phone = strings.NewReplacer(" ", "", "-", "", "(", "", ")", "").Replace(phone)
	phone = strings.TrimPrefix(phone, "+")

	if strings.HasPrefix(phone, "0") {
		phone = DefaultCountryCode + phone[1:]
	}
	if !phoneRegex.MatchString(phone) {
		return "", fmt.Errorf("invalid phone number format: %s", phone)
	}
	return phone, nil
}
