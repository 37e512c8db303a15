package models

import (
	"maps"
	"regexp"
)

// Record is one citizen or business record as submitted by a caller.
// Values are whatever JSON decoding produced (string, float64, bool, nil, ...).
type Record map[string]any

// Clone returns a shallow copy. A nil record clones to an empty one.
func (r Record) Clone() Record {
	out := make(Record, len(r))
	maps.Copy(out, r)
	return out
}

// EntityType is the logical entity a record describes, as named by the caller.
type EntityType string

const (
	EntityCitizen  EntityType = "citizen"
	EntityBusiness EntityType = "business"
)

// RuleType tags a store-configured rule.
type RuleType string

const (
	RuleTypePattern    RuleType = "pattern"
	RuleTypeRange      RuleType = "range"
	RuleTypeUniqueness RuleType = "uniqueness"
)

// RuleRecord is a rule row as persisted in data_quality_rules. It is the wire
// form shared by the Postgres, Redis and YAML rule stores.
type RuleRecord struct {
	ID         int64          `json:"id" yaml:"id"`
	TableName  string         `json:"table_name" yaml:"table"`
	ColumnName string         `json:"column_name" yaml:"column"`
	RuleType   string         `json:"rule_type" yaml:"type"`
	Value      map[string]any `json:"rule_value,omitempty" yaml:"value,omitempty"`
	Message    string         `json:"error_message,omitempty" yaml:"message,omitempty"`
}

// Rule is a parsed, immutable store-configured rule. The concrete types are
// PatternRule, RangeRule and UniquenessRule; the set is closed.
type Rule interface {
	Type() RuleType
	Message() string
	rule()
}

// PatternRule requires the value to match Expression.
type PatternRule struct {
	Expression *regexp.Regexp
	Msg        string
}

// RangeRule bounds the value. An empty bound is not checked.
type RangeRule struct {
	Min string
	Max string
	Msg string
}

// UniquenessRule requires the value not to exist yet in the entity table.
// Msg may be empty, in which case the checker's default issue is reported.
type UniquenessRule struct {
	Msg string
}

func (PatternRule) Type() RuleType    { return RuleTypePattern }
func (RangeRule) Type() RuleType      { return RuleTypeRange }
func (UniquenessRule) Type() RuleType { return RuleTypeUniqueness }

func (r PatternRule) Message() string    { return r.Msg }
func (r RangeRule) Message() string      { return r.Msg }
func (r UniquenessRule) Message() string { return r.Msg }

func (PatternRule) rule()    {}
func (RangeRule) rule()      {}
func (UniquenessRule) rule() {}

// FieldOutcome is the result of validating one field.
type FieldOutcome struct {
	Valid  bool     `json:"valid"`
	Score  float64  `json:"score"`
	Issues []string `json:"issues"`
}

// Severity grades an anomaly.
type Severity string

const (
	SeverityLow    Severity = "LOW"
	SeverityMedium Severity = "MEDIUM"
	SeverityHigh   Severity = "HIGH"
)

// Anomaly types.
const (
	AnomalyPatternSuspicion = "PATTERN_SUSPICION"
	AnomalyAge              = "AGE_ANOMALY"
)

// Anomaly is a cross-field plausibility finding.
type Anomaly struct {
	Type                string   `json:"type"`
	Severity            Severity `json:"severity"`
	Message             string   `json:"message"`
	SuggestedCorrection string   `json:"suggested_correction,omitempty"`
}

// Badge is the letter grade of a record's overall score.
type Badge string

const (
	BadgeA Badge = "A"
	BadgeB Badge = "B"
	BadgeC Badge = "C"
	BadgeD Badge = "D"
)

// BadgeFor grades a score: >=0.90 A, >=0.75 B, >=0.60 C, else D.
func BadgeFor(score float64) Badge {
	switch {
	case score >= 0.90:
		return BadgeA
	case score >= 0.75:
		return BadgeB
	case score >= 0.60:
		return BadgeC
	default:
		return BadgeD
	}
}

// QualityReport is the outcome of validating a whole record.
type QualityReport struct {
	Valid     bool                    `json:"valid"`
	Score     float64                 `json:"overallScore"`
	Badge     Badge                   `json:"badge"`
	Issues    []string                `json:"issues"`
	Anomalies []Anomaly               `json:"anomalies"`
	Fields    map[string]FieldOutcome `json:"validationResults,omitempty"`
}

// IssueCount is one row of a batch's most frequent issues.
type IssueCount struct {
	Issue string `json:"issue"`
	Count int    `json:"count"`
}

// BatchResult is the per-record entry of a batch check.
type BatchResult struct {
	Index        int           `json:"index"`
	RecordID     any           `json:"recordId"`
	CleansedData Record        `json:"cleansedData"`
	Report       QualityReport `json:"qualityReport"`
}

// BatchSummary aggregates a batch check.
type BatchSummary struct {
	TotalRecords int          `json:"totalRecords"`
	Passed       int          `json:"passed"`
	Failed       int          `json:"failed"`
	AverageScore float64      `json:"averageScore"`
	TopIssues    []IssueCount `json:"topIssues"`
}

// BatchReport is the full output of a batch check.
type BatchReport struct {
	Results []BatchResult `json:"results"`
	Summary BatchSummary  `json:"summary"`
}
