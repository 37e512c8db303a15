// Package validator scores a single field against the built-in checks and
// the rules configured for it in the store.
package validator

import (
	"context"
	"math"
	"strconv"
	"strings"

	"dqengine/internal/quality/models"
	"dqengine/internal/quality/normalize"
	"dqengine/internal/quality/uniqueness"
	"dqengine/pkg/requestcontext"
)

// penalty is a score deduction in hundredths of a point. Integer arithmetic
// keeps deductions exact and order-independent.
type penalty int

const (
	fullScore penalty = 100

	defaultFieldPenalty   penalty = 20
	identityFieldPenalty  penalty = 30
	addressRegionPenalty  penalty = 5
	patternRulePenalty    penalty = 20
	rangeRulePenalty      penalty = 20
	uniquenessRulePenalty penalty = 30
)

// RuleSource supplies the store-configured rules for a (table, column) pair.
// *rules.Cache implements it.
type RuleSource interface {
	Rules(ctx context.Context, table, column string) []models.Rule
}

// UniquenessChecker is satisfied by *uniqueness.Checker.
type UniquenessChecker interface {
	CheckUnique(ctx context.Context, table, column, value string) (uniqueness.Result, error)
}

// FieldContext carries the record-level data a field check may need.
type FieldContext struct {
	EntityType models.EntityType
	// StateCode is the raw region code of the record, used by the address check.
	StateCode string
}

var entityTables = map[string]string{
	"citizen":    "citizens",
	"citizens":   "citizens",
	"business":   "businesses",
	"businesses": "businesses",
}

// TableFor resolves a logical entity type to its table. Unrecognized types
// have no table and get no store-configured rules.
func TableFor(entityType models.EntityType) (string, bool) {
	table, ok := entityTables[strings.ToLower(strings.TrimSpace(string(entityType)))]
	return table, ok
}

// Validator validates fields. It is safe for concurrent use.
type Validator struct {
	rules  RuleSource
	unique UniquenessChecker
}

// New constructs a Validator.
func New(rules RuleSource, unique UniquenessChecker) *Validator {
	return &Validator{rules: rules, unique: unique}
}

// ValidateField scores value for field. Rule violations are reported in the
// outcome, never as an error; an error means a uniqueness query could not be
// answered and validity is unknown.
func (v *Validator) ValidateField(ctx context.Context, field string, value any, fc FieldContext) (models.FieldOutcome, error) {
	s := normalize.Text(value)
	var t tally

	e := env{now: requestcontext.Now(ctx), stateCode: fc.StateCode}
	for _, c := range builtins[field] {
		issue, ok := c.test(s, e)
		switch {
		case ok:
		case c.silent:
			t.soft(c.penalty)
		default:
			t.fail(c.penalty, issue)
		}
	}

	table, ok := TableFor(fc.EntityType)
	if !ok || v.rules == nil {
		return t.outcome(), nil
	}

	for _, rule := range v.rules.Rules(ctx, table, field) {
		switch r := rule.(type) {
		case models.PatternRule:
			if !r.Expression.MatchString(s) {
				t.fail(patternRulePenalty, r.Msg)
			}
		case models.RangeRule:
			if r.Min != "" && compareBound(s, r.Min) < 0 {
				t.fail(rangeRulePenalty, r.Msg)
			}
			if r.Max != "" && compareBound(s, r.Max) > 0 {
				t.fail(rangeRulePenalty, r.Msg)
			}
		case models.UniquenessRule:
			if v.unique == nil {
				continue
			}
			res, err := v.unique.CheckUnique(ctx, table, field, s)
			if err != nil {
				return models.FieldOutcome{}, err
			}
			if !res.Valid {
				msg := r.Msg
				if msg == "" {
					msg = res.Issue
				}
				t.fail(uniquenessRulePenalty, msg)
			}
		}
	}
	return t.outcome(), nil
}

// compareBound orders value against a range bound. When both are finite
// decimal numbers they compare numerically; otherwise lexically.
func compareBound(value, bound string) int {
	a, okA := decimal(value)
	b, okB := decimal(bound)
	if okA && okB {
		switch {
		case a < b:
			return -1
		case a > b:
			return 1
		}
		return 0
	}
	return strings.Compare(value, bound)
}

// decimal parses s as a finite number written in decimal notation. NaN,
// infinities and hex floats are not numbers here.
func decimal(s string) (float64, bool) {
	if strings.ContainsAny(s, "xX") {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

type tally struct {
	lost   penalty
	issues []string
}

func (t *tally) fail(p penalty, issue string) {
	t.lost += p
	t.issues = append(t.issues, issue)
}

func (t *tally) soft(p penalty) {
	t.lost += p
}

func (t *tally) outcome() models.FieldOutcome {
	issues := t.issues
	if issues == nil {
		issues = []string{}
	}
	return models.FieldOutcome{
		Valid:  len(issues) == 0,
		Score:  score(fullScore - t.lost),
		Issues: issues,
	}
}

// score converts remaining hundredths into a score clamped to [0, 1].
func score(remaining penalty) float64 {
	switch {
	case remaining < 0:
		remaining = 0
	case remaining > fullScore:
		remaining = fullScore
	}
	return float64(remaining) / float64(fullScore)
}
