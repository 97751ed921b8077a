package util

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateEmail(t *testing.T) {
	assert.True(t, ValidateEmail("ada@example.com"))
	assert.True(t, ValidateEmail("first.last+tag@sub.example.co"))
	assert.False(t, ValidateEmail("ada@example"))
	assert.False(t, ValidateEmail("not an email"))
}

func TestValidateName(t *testing.T) {
	assert.True(t, ValidateName("Al"))
	assert.False(t, ValidateName(" A "))
	assert.False(t, ValidateName(strings.Repeat("a", 101)))
}

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
		problems int
	}{
		{name: "Strong", password: "Sup3rSecret!!", problems: 0},
		{name: "TooShort", password: "Sh0rt!a", problems: 1},
		{name: "NoSpecial", password: "Sup3rSecretPass", problems: 1},
		{name: "OnlySpecialOutsideSet", password: "Sup3rSecret##", problems: 1},
		{name: "AllLower", password: "lowercaseonlyhere", problems: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Len(t, ValidatePassword(tt.password), tt.problems)
		})
	}
}
