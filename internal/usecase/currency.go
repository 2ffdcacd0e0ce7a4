package usecase

import "strings"

// ngnForms covers the representations Paystack and older payment rows have
// used for the naira: the ISO code, a common misspelling, the plain word and
// the ISO 4217 numeric code.
var ngnForms = []string{"NGN", "NGR", "NAIRA", "566"}

func normalizeCurrency(c string) string {
	return strings.ToUpper(strings.Join(strings.Fields(c), ""))
}

func isNaira(c string) bool {
	for _, v := range ngnForms {
		if c == v {
			return true
		}
	}
	return strings.Contains(c, "NGN") || strings.Contains(c, "NAIRA") || strings.Contains(c, "NGR")
}

// currencyMatches compares a gateway-reported currency against the configured
// billing currency after case/whitespace normalization. An empty paid value is
// accepted (the gateway omitted the field); all naira synonyms compare equal.
func currencyMatches(paid, expected string) bool {
	p := normalizeCurrency(paid)
	e := normalizeCurrency(expected)
	if p == "" {
		return true
	}
	if isNaira(e) && isNaira(p) {
		return true
	}
	return p == e
}
