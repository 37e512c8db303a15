// Package transform produces cleansed and enriched copies of records.
// Inputs are never mutated.
package transform

import (
	"time"

	"dqengine/internal/quality/models"
	"dqengine/internal/quality/normalize"
	"dqengine/internal/quality/region"
)

// TimestampLayout is the fixed ISO-8601 form used for enrichedAt and response
// timestamps (millisecond precision, UTC "Z").
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

var (
	phoneFields = []string{"phone_number", "phoneNumber"}
	nameFields  = []string{"first_name", "middle_name", "last_name", "name"}
)

// Cleanse returns a shallow copy of rec with phone, name, address and
// stateCode fields normalized. Absent or null fields stay absent or null, and
// stateCode is only replaced when it normalizes to a valid code.
func Cleanse(rec models.Record) models.Record {
	out := rec.Clone()

	for _, f := range phoneFields {
		if v, ok := present(out, f); ok {
			out[f] = normalize.Phone(normalize.Text(v))
		}
	}
	for _, f := range nameFields {
		if v, ok := present(out, f); ok {
			out[f] = normalize.Name(normalize.Text(v))
		}
	}
	if v, ok := present(out, "address"); ok {
		out["address"] = normalize.Address(normalize.Text(v))
	}
	if v, ok := present(out, "stateCode"); ok {
		if code, ok := normalize.RegionCode(normalize.Text(v)); ok {
			out["stateCode"] = code
		}
	}
	return out
}

// Enrich returns a shallow copy of rec with derived read-only fields:
// stateName when stateCode (or state_code) resolves to a known region, and
// enrichedAt set to now. Existing fields are left untouched.
func Enrich(rec models.Record, now time.Time) models.Record {
	out := rec.Clone()

	if _, name, ok := region.Lookup(StateCode(rec)); ok {
		out["stateName"] = name
	}
	out["enrichedAt"] = now.UTC().Format(TimestampLayout)
	return out
}

// StateCode returns the raw region code carried by a record, preferring
// stateCode over state_code.
func StateCode(rec models.Record) string {
	if v := normalize.Text(rec["stateCode"]); v != "" {
		return v
	}
	return normalize.Text(rec["state_code"])
}

func present(rec models.Record, field string) (any, bool) {
	v, ok := rec[field]
	if !ok || v == nil {
		return nil, false
	}
	return v, true
}
