package rules

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/spf13/cast"

	"dqengine/internal/quality/models"
)

// DefaultMessage is reported by pattern and range rules stored without a message.
const DefaultMessage = "Rule failed"

// ErrUnknownRuleType is returned by Parse for rule types the engine does not evaluate.
var ErrUnknownRuleType = errors.New("unknown rule type")

// Parse converts a stored rule row into its typed form. Stored type names
// "regex"/"pattern" and "unique"/"uniqueness" are accepted as aliases.
func Parse(rec models.RuleRecord) (models.Rule, error) {
	msg := strings.TrimSpace(rec.Message)

	switch strings.ToLower(strings.TrimSpace(rec.RuleType)) {
	case "regex", "pattern":
		expr := param(rec.Value, "pattern")
		if expr == "" {
			return nil, fmt.Errorf("rule %d: pattern is empty", rec.ID)
		}
		re, err := regexp.Compile(expr)
		if err != nil {
			return nil, fmt.Errorf("rule %d: compile pattern: %w", rec.ID, err)
		}
		return models.PatternRule{Expression: re, Msg: orDefault(msg)}, nil

	case "range":
		return models.RangeRule{
			Min: param(rec.Value, "min"),
			Max: param(rec.Value, "max"),
			Msg: orDefault(msg),
		}, nil

	case "unique", "uniqueness":
		return models.UniquenessRule{Msg: msg}, nil
	}
	return nil, fmt.Errorf("rule %d: %w %q", rec.ID, ErrUnknownRuleType, rec.RuleType)
}

// ParseAll parses rows in order, dropping rows that cannot be evaluated.
// Dropped rows are logged at WARN so a misconfigured rule is visible.
func ParseAll(ctx context.Context, logger *slog.Logger, records []models.RuleRecord) []models.Rule {
	parsed := make([]models.Rule, 0, len(records))
	for _, rec := range records {
		rule, err := Parse(rec)
		if err != nil {
			if logger != nil {
				logger.WarnContext(ctx, "skipping data quality rule",
					"table", rec.TableName,
					"column", rec.ColumnName,
					"rule_id", rec.ID,
					"error", err,
				)
			}
			continue
		}
		parsed = append(parsed, rule)
	}
	return parsed
}

func param(values map[string]any, key string) string {
	v, ok := values[key]
	if !ok || v == nil {
		return ""
	}
	return strings.TrimSpace(cast.ToString(v))
}

func orDefault(msg string) string {
	if msg == "" {
		return DefaultMessage
	}
	return msg
}
