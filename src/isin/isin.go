// Package isin validates International Securities Identification Numbers
// per ISO 6166: two-letter country code, nine alphanumeric characters and a
// Luhn check digit.
package isin

import (
	"fmt"
	"regexp"
	"strings"
)

var isinPattern = regexp.MustCompile(`^[A-Z]{2}[A-Z0-9]{9}[0-9]$`)

// Validate normalizes and checks an ISIN, returning the uppercase form.
func Validate(raw string) (string, error) {
	code := strings.ToUpper(strings.TrimSpace(raw))
	if code == "" {
		return "", fmt.Errorf("isin: empty value")
	}
	if len(code) != 12 {
		return "", fmt.Errorf("isin: %q must be exactly 12 characters, got %d", code, len(code))
	}
	if !isinPattern.MatchString(code) {
		return "", fmt.Errorf("isin: %q has invalid format, want 2 letters + 9 alphanumeric + check digit", code)
	}
	if !validChecksum(code) {
		return "", fmt.Errorf("isin: %q has invalid check digit, possible typo", code)
	}
	return code, nil
}

// validChecksum applies the ISIN variant of the Luhn algorithm: letters
// expand to two digits (A=10 .. Z=35) before doubling.
func validChecksum(code string) bool {
	var digits []int
	for _, c := range code[:len(code)-1] {
		if c >= '0' && c <= '9' {
			digits = append(digits, int(c-'0'))
		} else {
			v := int(c-'A') + 10
			digits = append(digits, v/10, v%10)
		}
	}

	// Double every second digit counting from the check digit, i.e. even
	// indices for odd-length sequences and odd indices otherwise.
	start := 1
	if len(digits)%2 == 1 {
		start = 0
	}
	total := 0
	for i, d := range digits {
		if i%2 == start%2 {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		total += d
	}

	check := (10 - total%10) % 10
	return check == int(code[len(code)-1]-'0')
}
