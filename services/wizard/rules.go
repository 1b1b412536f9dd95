package wizard

import (
	"regexp"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
	})
	return validate
}

var (
	upperRe   = regexp.MustCompile(`[A-Z]`)
	lowerRe   = regexp.MustCompile(`[a-z]`)
	digitRe   = regexp.MustCompile(`[0-9]`)
	specialRe = regexp.MustCompile(`[\W_]`)

	pincodeRe = regexp.MustCompile(`^\d{6}$`)
	phoneRe   = regexp.MustCompile(`^[6-9]\d{9}$`)
	fssaiRe   = regexp.MustCompile(`^[1-5]\d{13}$`)
	gstinRe   = regexp.MustCompile(`^[0-9]{2}[A-Z]{5}[0-9]{4}[A-Z][1-9A-Z]Z[0-9A-Z]$`)
	accountRe = regexp.MustCompile(`^\d{9,18}$`)
	ifscRe    = regexp.MustCompile(`^[A-Z]{4}0[A-Z0-9]{6}$`)
	upiRe     = regexp.MustCompile(`^[\w.\-]+@[\w.\-]+$`)
)

const minPasswordLength = 8

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// checkEmail returns an empty string when email is acceptable.
func checkEmail(email string) string {
	if blank(email) {
		return "Email is required"
	}
	if getValidator().Var(email, "required,email") != nil || !domainLabelsOK(email) {
		return "Please enter a valid email address"
	}
	return ""
}

// domainLabelsOK rejects empty labels ("domain..com") and a top-level label
// that repeats the label before it ("mail.com.com").
func domainLabelsOK(email string) bool {
	at := strings.LastIndex(email, "@")
	if at < 0 {
		return false
	}
	labels := strings.Split(strings.ToLower(email[at+1:]), ".")
	if len(labels) < 2 {
		return false
	}
	for _, l := range labels {
		if l == "" {
			return false
		}
	}
	return labels[len(labels)-1] != labels[len(labels)-2]
}

// checkPassword applies the strength rules in order; the first failing rule wins.
func checkPassword(password string) string {
	switch {
	case password == "":
		return "Password is required"
	case utf8.RuneCountInString(password) < minPasswordLength:
		return "Password must be at least 8 characters long"
	case !upperRe.MatchString(password):
		return "Password must include at least one uppercase letter"
	case !lowerRe.MatchString(password):
		return "Password must include at least one lowercase letter"
	case !digitRe.MatchString(password):
		return "Password must include at least one number"
	case !specialRe.MatchString(password):
		return "Password must include at least one special character"
	}
	return ""
}

// checkPattern returns required when value is blank, invalid when it does not
// match re, and "" otherwise.
func checkPattern(value string, re *regexp.Regexp, required, invalid string) string {
	if blank(value) {
		return required
	}
	if !re.MatchString(value) {
		return invalid
	}
	return ""
}

func checkRequired(value, message string) string {
	if blank(value) {
		return message
	}
	return ""
}

// parseClock reads a same-day "HH:MM" time.
func parseClock(value string) (time.Time, bool) {
	t, err := time.Parse("15:04", strings.TrimSpace(value))
	return t, err == nil
}
