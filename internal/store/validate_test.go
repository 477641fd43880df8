package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsLeapYear(t *testing.T) {
	assert.True(t, IsLeapYear(2000), "divisible by 400")
	assert.True(t, IsLeapYear(2024))
	assert.False(t, IsLeapYear(1900), "divisible by 100 but not 400")
	assert.False(t, IsLeapYear(2025))
}

func TestValidateMonthDay(t *testing.T) {
	tests := []struct {
		name    string
		month   int
		day     int
		year    int
		wantErr bool
	}{
		{"jan 31", 1, 31, 0, false},
		{"apr 31", 4, 31, 0, true},
		{"feb 29 unknown year", 2, 29, 0, false},
		{"feb 29 leap year", 2, 29, 2024, false},
		{"feb 29 century non-leap", 2, 29, 1900, true},
		{"day zero", 6, 0, 0, true},
		{"month thirteen", 13, 1, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateMonthDay(tt.month, tt.day, tt.year)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
