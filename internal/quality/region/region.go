// Package region holds the fixed table of administrative regions and the
// two-digit code rules that the normalizer, validator and enricher share.
package region

import (
	"strconv"
	"strings"
)

// Unassigned is the valid code for a record with no region yet.
const Unassigned = "00"

var names = map[string]string{
	"01": "Khartoum",
	"02": "Red Sea",
	"03": "Kassala",
	"04": "Al Qadarif",
	"05": "River Nile",
	"06": "Northern",
	"07": "North Kordofan",
	"08": "South Kordofan",
	"09": "West Kordofan",
	"10": "Blue Nile",
	"11": "Sennar",
	"12": "White Nile",
	"13": "North Darfur",
	"14": "South Darfur",
	"15": "West Darfur",
	"16": "Central Darfur",
	"17": "East Darfur",
	"18": "Al Jazirah",
}

// NormalizeCode accepts one or two ASCII digits and returns the zero-padded
// code. "00" is kept as unassigned; any other value outside 01-18 is rejected.
func NormalizeCode(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if len(raw) < 1 || len(raw) > 2 {
		return "", false
	}
	for i := 0; i < len(raw); i++ {
		if raw[i] < '0' || raw[i] > '9' {
			return "", false
		}
	}
	if len(raw) == 1 {
		raw = "0" + raw
	}
	if raw == Unassigned {
		return raw, true
	}
	n, _ := strconv.Atoi(raw)
	if n < 1 || n > len(names) {
		return "", false
	}
	return raw, true
}

// Name returns the display name of a normalized code.
func Name(code string) (string, bool) {
	name, ok := names[code]
	return name, ok
}

// Lookup normalizes raw and resolves it to a display name in one step.
// Unassigned and invalid codes have no name.
func Lookup(raw string) (code, name string, ok bool) {
	code, ok = NormalizeCode(raw)
	if !ok {
		return "", "", false
	}
	name, ok = Name(code)
	if !ok {
		return "", "", false
	}
	return code, name, true
}
