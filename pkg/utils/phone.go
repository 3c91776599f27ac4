package utils

import (
	"strings"
)

// Ivorian country code. Stored records carry customer phones in whatever
// format the customer typed, so lookups fan out over every plausible
// rendering instead of normalizing at write time.
const countryCode = "225"

// PhoneVariants expands a free-form phone string into the bounded set of
// canonical variants that could appear in stored records: as given with
// whitespace and punctuation stripped, with and without the 225 / +225 /
// 00225 country prefix, and with and without the leading national 0.
//
// This is a heuristic matcher for tracking lookups and unattached-webhook
// correlation, never the sole path to a payment state change.
func PhoneVariants(raw string) ([]string, error) {
	stripped := stripPhone(raw)
	if len(stripped) < 8 || len(stripped) > 20 {
		return nil, ErrInvalidIdentifier
	}

	// National significant number: drop one country-code prefix if present.
	nsn := stripped
	for _, prefix := range []string{"00" + countryCode, countryCode} {
		if strings.HasPrefix(nsn, prefix) && len(nsn)-len(prefix) >= 8 {
			nsn = nsn[len(prefix):]
			break
		}
	}

	bases := map[string]struct{}{nsn: {}}
	if strings.HasPrefix(nsn, "0") && len(nsn) > 8 {
		bases[nsn[1:]] = struct{}{}
	} else {
		bases["0"+nsn] = struct{}{}
	}

	seen := map[string]struct{}{stripped: {}}
	for base := range bases {
		seen[base] = struct{}{}
		seen[countryCode+base] = struct{}{}
		seen["+"+countryCode+base] = struct{}{}
		seen["00"+countryCode+base] = struct{}{}
	}

	variants := make([]string, 0, len(seen))
	for v := range seen {
		variants = append(variants, v)
	}
	return variants, nil
}

func stripPhone(raw string) string {
	var b strings.Builder
	for _, r := range strings.TrimSpace(raw) {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
