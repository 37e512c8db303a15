package transform

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"

	"dqengine/internal/quality/models"
)

func TestCleanse(t *testing.T) {
	in := models.Record{
		"phone_number": "091 234 5678",
		"phoneNumber":  "249912345678",
		"first_name":   "  Amna  ",
		"last_name":    "Osman   Ali",
		"address":      "  Street 5,\n  Khartoum  ",
		"stateCode":    "1",
		"national_id":  " 1234567890 ",
	}

	out := Cleanse(in)

	want := models.Record{
		"phone_number": "+249912345678",
		"phoneNumber":  "+249912345678",
		"first_name":   "Amna",
		"last_name":    "Osman Ali",
		"address":      "Street 5, Khartoum",
		"stateCode":    "01",
		"national_id":  " 1234567890 ",
	}
	if diff := cmp.Diff(want, out); diff != "" {
		t.Fatalf("cleansed record mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, "091 234 5678", in["phone_number"], "input must not be mutated")
}

func TestCleanseLeavesAbsentAndInvalidFields(t *testing.T) {
	out := Cleanse(models.Record{"stateCode": "42", "middle_name": nil})

	assert.Equal(t, "42", out["stateCode"], "invalid codes are not overwritten")
	assert.Nil(t, out["middle_name"])
	_, hasPhone := out["phone_number"]
	assert.False(t, hasPhone, "absent fields stay absent")
}

func TestCleanseIsIdempotent(t *testing.T) {
	records := []models.Record{
		{"phone_number": "0912345678", "name": "  a   b ", "stateCode": float64(7)},
		{"phoneNumber": "+1 (555) 010", "address": "x\t\ty", "stateCode": "99"},
		{"first_name": "محمد  علي", "stateCode": "00"},
		{},
	}
	for _, rec := range records {
		once := Cleanse(rec)
		if diff := cmp.Diff(once, Cleanse(once)); diff != "" {
			t.Fatalf("cleanse not idempotent (-once +twice):\n%s", diff)
		}
	}
}

func TestEnrich(t *testing.T) {
	now := time.Date(2024, 3, 9, 8, 30, 0, 0, time.FixedZone("EAT", 3*60*60))

	t.Run("adds state name and timestamp", func(t *testing.T) {
		in := models.Record{"stateCode": "7", "name": "Amna"}
		out := Enrich(in, now)

		assert.Equal(t, "North Kordofan", out["stateName"])
		assert.Equal(t, "2024-03-09T05:30:00.000Z", out["enrichedAt"])
		assert.Equal(t, "7", out["stateCode"], "existing fields are not rewritten")
		assert.Equal(t, "Amna", out["name"])
		_, mutated := in["enrichedAt"]
		assert.False(t, mutated)
	})

	t.Run("falls back to state_code", func(t *testing.T) {
		out := Enrich(models.Record{"state_code": "18"}, now)
		assert.Equal(t, "Al Jazirah", out["stateName"])
	})

	t.Run("unknown and unassigned codes get no name", func(t *testing.T) {
		for _, code := range []string{"00", "19", "abc"} {
			out := Enrich(models.Record{"stateCode": code}, now)
			_, ok := out["stateName"]
			assert.False(t, ok, "code %q", code)
			assert.NotEmpty(t, out["enrichedAt"])
		}
	})
}
