// Package anomaly flags implausible combinations of field values in a record.
package anomaly

import (
	"fmt"
	"math"
	"regexp"
	"strings"
	"time"

	"dqengine/internal/quality/models"
	"dqengine/internal/quality/normalize"
)

const (
	minPhoneDigits = 6
	maxAge         = 150
	secondsPerYear = 365.25 * 24 * 60 * 60
)

var datePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// Detect runs every cross-field check against rec. It reads raw values and
// does no I/O. The returned slice is never nil.
func Detect(rec models.Record, now time.Time) []models.Anomaly {
	anomalies := []models.Anomaly{}
	if a, ok := phoneInAddress(rec); ok {
		anomalies = append(anomalies, a)
	}
	if a, ok := implausibleAge(rec, now); ok {
		anomalies = append(anomalies, a)
	}
	return anomalies
}

func phoneInAddress(rec models.Record) (models.Anomaly, bool) {
	phone := first(rec, "phone_number", "phoneNumber")
	address := first(rec, "address")
	if phone == "" || address == "" {
		return models.Anomaly{}, false
	}
	phoneDigits := digits(phone)
	if len(phoneDigits) < minPhoneDigits || !strings.Contains(digits(address), phoneDigits) {
		return models.Anomaly{}, false
	}
	return models.Anomaly{
		Type:     models.AnomalyPatternSuspicion,
		Severity: models.SeverityMedium,
		Message:  "Phone number appears in address - possible data entry error",
	}, true
}

func implausibleAge(rec models.Record, now time.Time) (models.Anomaly, bool) {
	raw := first(rec, "date_of_birth", "dateOfBirth")
	if !datePattern.MatchString(raw) {
		return models.Anomaly{}, false
	}
	dob, err := time.Parse(time.DateOnly, raw)
	if err != nil {
		return models.Anomaly{}, false
	}
	age := Age(dob, now)
	if age >= 0 && age <= maxAge {
		return models.Anomaly{}, false
	}
	return models.Anomaly{
		Type:                models.AnomalyAge,
		Severity:            models.SeverityHigh,
		Message:             fmt.Sprintf("Age %d is unrealistic", age),
		SuggestedCorrection: "Verify date of birth",
	}, true
}

// Age is the number of whole 365.25-day years between dob and now, floored,
// so a future date gives a negative age. Seconds are used instead of
// time.Duration, which saturates beyond ~292 years.
func Age(dob, now time.Time) int {
	elapsed := float64(now.Unix() - dob.Unix())
	return int(math.Floor(elapsed / secondsPerYear))
}

// first returns the trimmed string form of the first non-empty field.
func first(rec models.Record, fields ...string) string {
	for _, f := range fields {
		if s := normalize.Text(rec[f]); s != "" {
			return s
		}
	}
	return ""
}

func digits(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, s)
}
