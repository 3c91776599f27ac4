package utils

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sortedVariants(t *testing.T, raw string) []string {
	t.Helper()
	variants, err := PhoneVariants(raw)
	require.NoError(t, err)
	sort.Strings(variants)
	return variants
}

func TestPhoneVariantsEquivalentRenderings(t *testing.T) {
	// All common renderings of the same Ivorian number must expand to
	// the same variant set, so a lookup hits the same records no matter
	// how the customer typed their number.
	renderings := []string{
		"07 09 67 79 25",
		"+2250709677925",
		"002250709677925",
		"2250709677925",
		"07-09-67-79-25",
	}

	base := sortedVariants(t, renderings[0])
	for _, r := range renderings[1:] {
		assert.Equal(t, base, sortedVariants(t, r), "rendering %q", r)
	}
}

func TestPhoneVariantsCoverPrefixForms(t *testing.T) {
	variants, err := PhoneVariants("0709677925")
	require.NoError(t, err)

	for _, expected := range []string{
		"0709677925",
		"709677925",
		"2250709677925",
		"+2250709677925",
		"002250709677925",
		"225709677925",
		"+225709677925",
		"00225709677925",
	} {
		assert.Contains(t, variants, expected)
	}
}

func TestPhoneVariantsDeduplicated(t *testing.T) {
	variants, err := PhoneVariants("+2250709677925")
	require.NoError(t, err)

	seen := make(map[string]int)
	for _, v := range variants {
		seen[v]++
	}
	for v, n := range seen {
		assert.Equal(t, 1, n, "variant %q appears %d times", v, n)
	}
}

func TestPhoneVariantsRejectsBadLengths(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"too short", "0709"},
		{"empty", ""},
		{"punctuation only", "+-() ."},
		{"too long", "123456789012345678901"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := PhoneVariants(tt.input)
			assert.ErrorIs(t, err, ErrInvalidIdentifier)
		})
	}
}
