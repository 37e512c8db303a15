package validator

import (
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/text/cases"

	"dqengine/internal/quality/normalize"
	"dqengine/internal/quality/region"
)

// Built-in issue messages.
const (
	IssueNationalID     = "National ID must be 10 digits"
	IssuePhone          = "Phone must be +249 followed by 9 digits"
	IssueRegistration   = "Registration must be SD-XXXXX format"
	IssueDateFormat     = "Must be in YYYY-MM-DD format"
	IssueDateInvalid    = "Invalid date"
	IssueDateRange      = "Date is out of allowed range"
	IssueNameLength     = "Name must be between 2-100 characters"
	IssueNameCharacters = "Name contains invalid characters"
	IssueAddressLength  = "Address must be between 10-500 characters"
)

const (
	dateLayout       = "2006-01-02"
	minNameLength    = 2
	maxNameLength    = 100
	minAddressLength = 10
	maxAddressLength = 500
)

var (
	nationalIDPattern   = regexp.MustCompile(`^\d{10}$`)
	registrationPattern = regexp.MustCompile(`^SD-[A-Z0-9]{5}$`)
	datePattern         = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	namePattern         = regexp.MustCompile(`^[\p{L} \-']+$`)

	earliestBirthDate = time.Date(1900, 1, 1, 0, 0, 0, 0, time.UTC)
)

// env is what a built-in check may read besides the field value.
type env struct {
	now       time.Time
	stateCode string
}

// check is one row of the built-in table. A silent check deducts its penalty
// without reporting an issue.
type check struct {
	penalty penalty
	silent  bool
	test    func(value string, e env) (issue string, ok bool)
}

// builtins maps a field name to the checks run on it, in order. The table is
// fixed; store-configured rules are applied separately.
var builtins = func() map[string][]check {
	nationalID := []check{{penalty: identityFieldPenalty, test: checkNationalID}}
	phone := []check{{penalty: defaultFieldPenalty, test: checkPhone}}
	registration := []check{{penalty: defaultFieldPenalty, test: checkRegistration}}
	birthDate := []check{{penalty: identityFieldPenalty, test: checkBirthDate}}
	name := []check{
		{penalty: defaultFieldPenalty, test: checkNameLength},
		{penalty: defaultFieldPenalty, test: checkNameCharacters},
	}
	address := []check{
		{penalty: defaultFieldPenalty, test: checkAddressLength},
		{penalty: addressRegionPenalty, silent: true, test: checkAddressMentionsRegion},
	}

	return map[string][]check{
		"national_id":                  nationalID,
		"phone_number":                 phone,
		"phoneNumber":                  phone,
		"registration_number":          registration,
		"business_registration_number": registration,
		"date_of_birth":                birthDate,
		"dateOfBirth":                  birthDate,
		"first_name":                   name,
		"middle_name":                  name,
		"last_name":                    name,
		"name":                         name,
		"address":                      address,
	}
}()

func checkNationalID(v string, _ env) (string, bool) {
	return IssueNationalID, nationalIDPattern.MatchString(v)
}

func checkPhone(v string, _ env) (string, bool) {
	return IssuePhone, normalize.PhonePattern.MatchString(normalize.Phone(v))
}

func checkRegistration(v string, _ env) (string, bool) {
	return IssueRegistration, registrationPattern.MatchString(v)
}

func checkBirthDate(v string, e env) (string, bool) {
	if !datePattern.MatchString(v) {
		return IssueDateFormat, false
	}
	dob, err := time.Parse(dateLayout, v)
	if err != nil {
		return IssueDateInvalid, false
	}
	if dob.Before(earliestBirthDate) || dob.After(e.now) {
		return IssueDateRange, false
	}
	return "", true
}

func checkNameLength(v string, _ env) (string, bool) {
	n := utf8.RuneCountInString(normalize.Name(v))
	return IssueNameLength, n >= minNameLength && n <= maxNameLength
}

func checkNameCharacters(v string, _ env) (string, bool) {
	return IssueNameCharacters, namePattern.MatchString(normalize.Name(v))
}

func checkAddressLength(v string, _ env) (string, bool) {
	n := utf8.RuneCountInString(v)
	return IssueAddressLength, n >= minAddressLength && n <= maxAddressLength
}

// checkAddressMentionsRegion passes when no known region is in context, or
// when the address names the region (case-insensitively).
func checkAddressMentionsRegion(v string, e env) (string, bool) {
	_, name, ok := region.Lookup(e.stateCode)
	if !ok {
		return "", true
	}
	fold := cases.Fold()
	return "", strings.Contains(fold.String(v), fold.String(name))
}
