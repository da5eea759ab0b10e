// Package validate contains the pure input predicates for the shortener:
// URL well-formedness, shortcode format and validity-window bounds.
package validate

import (
	"net/url"
	"regexp"
	"strings"
)

// MaxValidityMinutes is one year; a validity window above it is rejected.
const MaxValidityMinutes = 525600

var shortcodeRe = regexp.MustCompile(`^[A-Za-z0-9]{3,20}$`)

// URL reports whether raw is an absolute http(s) URL with a host.
func URL(raw string) bool {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}
	return u.Host != ""
}

// Shortcode reports whether code is 3-20 alphanumeric characters.
func Shortcode(code string) bool {
	return shortcodeRe.MatchString(code)
}

// Validity reports whether minutes is an acceptable validity window.
// A nil value is valid: the caller applies the default.
func Validity(minutes *int) bool {
	if minutes == nil {
		return true
	}
	if *minutes <= 0 {
		return false
	}
	return *minutes <= MaxValidityMinutes
}
