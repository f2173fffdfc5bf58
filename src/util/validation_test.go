package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateEmail(t *testing.T) {
	assert.True(t, ValidateEmail("maria@example.com"))
	assert.True(t, ValidateEmail("maria.garcia+tag@sub.example.es"))
	assert.False(t, ValidateEmail("maria@"))
	assert.False(t, ValidateEmail("no-at-sign"))
	assert.False(t, ValidateEmail("maria@example"))
}

func TestValidateUsername(t *testing.T) {
	assert.True(t, ValidateUsername("ana"))
	assert.False(t, ValidateUsername("ab"))
	assert.False(t, ValidateUsername("this-username-is-way-too-long-to-pass"))
}

func TestValidatePassword(t *testing.T) {
	assert.True(t, ValidatePassword("Segura123!"))
	assert.False(t, ValidatePassword("short1!"))
	assert.False(t, ValidatePassword("nouppercase1!"))
	assert.False(t, ValidatePassword("NOLOWERCASE1!"))
	assert.False(t, ValidatePassword("NoDigits!!"))
	assert.False(t, ValidatePassword("NoSpecial123"))
}

func TestValidateMarket(t *testing.T) {
	assert.True(t, ValidateMarket("ES"))
	assert.False(t, ValidateMarket("es"))
	assert.False(t, ValidateMarket("ESP"))
	assert.False(t, ValidateMarket(""))
}

func TestValidateLocale(t *testing.T) {
	assert.True(t, ValidateLocale("es_ES"))
	assert.True(t, ValidateLocale("en_GB"))
	assert.False(t, ValidateLocale("es-ES"))
	assert.False(t, ValidateLocale("spanish"))
}

func TestValidateCurrency(t *testing.T) {
	assert.True(t, ValidateCurrency("EUR"))
	assert.False(t, ValidateCurrency("eur"))
	assert.False(t, ValidateCurrency("EURO"))
}
