package roster

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Doe, John Q", "Doe, John"},
		{"Doe, John", "Doe, John"},
		{"  Doe, John Quincy Jr  ", "Doe, John"},
		{"Doe,John Q", "Doe,John"},
		{"Doe,   John Q", "Doe,   John"},
		{"Van Buren, Martin", "Van Buren, Martin"},
		{"Doe, John, Jr", "Doe, John,"},
		{"Cher", "Cher"},
		{"Doe,", "Doe,"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := NormalizeName(tt.in)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, got, NormalizeName(got), "not idempotent")
		})
	}
}

func TestNormalizeEmail(t *testing.T) {
	tests := []struct {
		in     string
		marker string
		want   string
	}{
		{"jdoe@usafa.edu", "@usafa", "jdoe"},
		{"  jdoe@usafa.edu  ", "@usafa", "jdoe"},
		{"jdoe", "@usafa", "jdoe"},
		{"jdoe@gmail.com", "@usafa", "jdoe@gmail.com"},
		{"C26John.Doe@afacademy.af.edu", "@afacademy", "C26John.Doe"},
		{"jdoe@usafa.edu", "", "jdoe@usafa.edu"},
		{"", "@usafa", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := NormalizeEmail(tt.in, tt.marker)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, got, NormalizeEmail(got, tt.marker), "not idempotent")
		})
	}
}
