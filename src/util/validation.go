package util

import (
	"regexp"
)

var (
	emailRe    = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	lowerRe    = regexp.MustCompile(`[a-z]`)
	upperRe    = regexp.MustCompile(`[A-Z]`)
	digitRe    = regexp.MustCompile(`[0-9]`)
	specialRe  = regexp.MustCompile(`[^A-Za-z0-9]`)
	marketRe   = regexp.MustCompile(`^[A-Z]{2}$`)
	localeRe   = regexp.MustCompile(`^[a-z]{2}_[A-Z]{2}$`)
	currencyRe = regexp.MustCompile(`^[A-Z]{3}$`)
)

func ValidateEmail(email string) bool {
	return emailRe.MatchString(email)
}

func ValidateUsername(username string) bool {
	return len(username) >= 3 && len(username) <= 30
}

// ValidatePassword requires at least 8 characters with lower, upper, digit,
// and special characters present.
func ValidatePassword(password string) bool {
	if len(password) < 8 {
		return false
	}
	return lowerRe.MatchString(password) &&
		upperRe.MatchString(password) &&
		digitRe.MatchString(password) &&
		specialRe.MatchString(password)
}

// ValidateMarket accepts ISO 3166-1 alpha-2 country codes, e.g. "ES".
func ValidateMarket(market string) bool {
	return marketRe.MatchString(market)
}

// ValidateLocale accepts language_COUNTRY locales, e.g. "es_ES".
func ValidateLocale(locale string) bool {
	return localeRe.MatchString(locale)
}

// ValidateCurrency accepts ISO 4217 codes, e.g. "EUR".
func ValidateCurrency(code string) bool {
	return currencyRe.MatchString(code)
}
