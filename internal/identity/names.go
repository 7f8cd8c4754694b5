package identity

import (
	"strings"
	"unicode"

	"github.com/brianvoe/gofakeit/v6"
)

// AnonymousName generates a display name for a freshly minted anonymous
// identity, in the form AdjectiveNoun ("GreenGuardian"). Names are decorative
// and need not be unique; the identity token is what identifies the user.
func AnonymousName() string {
	return pascal(gofakeit.AdjectiveDescriptive()) + pascal(gofakeit.NounConcrete())
}

// pascal squashes a word or phrase into PascalCase.
func pascal(s string) string {
	var b strings.Builder
	upper := true
	for _, r := range strings.ToLower(s) {
		if r == ' ' || r == '-' {
			upper = true
			continue
		}
		if upper {
			r = unicode.ToUpper(r)
			upper = false
		}
		b.WriteRune(r)
	}
	return b.String()
}
