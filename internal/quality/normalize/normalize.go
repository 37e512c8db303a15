// Package normalize converts raw field values into canonical forms.
// Every function is pure and idempotent.
package normalize

import (
	"regexp"
	"strings"

	"github.com/spf13/cast"

	"dqengine/internal/quality/region"
)

// CountryCode is the international dialing prefix phone numbers normalize to.
const CountryCode = "+249"

var (
	// PhonePattern is the canonical phone shape: +249 followed by 9 digits.
	PhonePattern = regexp.MustCompile(`^\+249\d{9}$`)

	phoneNoPlus = regexp.MustCompile(`^249\d{9}$`)
	phoneLocal  = regexp.MustCompile(`^0\d{9}$`)
)

// Text coerces any decoded JSON value to a trimmed string. nil becomes "".
func Text(v any) string {
	if v == nil {
		return ""
	}
	return strings.TrimSpace(cast.ToString(v))
}

// Phone keeps digits and a leading '+', then rewrites the known national
// shapes to +249XXXXXXXXX. Unknown shapes are returned stripped but otherwise
// unchanged.
func Phone(raw string) string {
	var b strings.Builder
	for _, r := range strings.TrimSpace(raw) {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '+' && b.Len() == 0:
			b.WriteRune(r)
		}
	}
	s := b.String()

	switch {
	case PhonePattern.MatchString(s):
		return s
	case phoneNoPlus.MatchString(s):
		return "+" + s
	case phoneLocal.MatchString(s):
		return CountryCode + s[1:]
	}
	return s
}

// Name trims and collapses internal whitespace runs to single spaces.
func Name(raw string) string {
	return collapse(raw)
}

// Address trims and collapses whitespace the same way names do.
func Address(raw string) string {
	return collapse(raw)
}

// RegionCode zero-pads a one or two digit region code. ok is false when the
// value is not a known code (see region.NormalizeCode).
func RegionCode(raw string) (string, bool) {
	return region.NormalizeCode(raw)
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
