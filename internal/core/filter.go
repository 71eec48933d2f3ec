// Package core provides filtering, sorting and lookup over toast lists.
package core

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/jmylchreest/widgetdash/internal/model"
)

// FilterOp represents a comparison operator.
type FilterOp string

const (
	FilterOpEqual     FilterOp = "="  // Exact match
	FilterOpNotEqual  FilterOp = "!=" // Not equal
	FilterOpContains  FilterOp = "~"  // Contains substring
	FilterOpRegex     FilterOp = "~=" // Regex match
	FilterOpGreater   FilterOp = ">"  // Greater than
	FilterOpLess      FilterOp = "<"  // Less than
	FilterOpGreaterEq FilterOp = ">=" // Greater than or equal
	FilterOpLessEq    FilterOp = "<=" // Less than or equal
)

// FilterCondition represents a single filter condition.
type FilterCondition struct {
	Field    string   // type, title, message, age, remaining, persistent, action
	Operator FilterOp // Comparison operator
	Value    string   // Value to compare against

	regex    *regexp.Regexp
	kind     model.Kind
	duration time.Duration
	boolVal  bool
}

// FilterExpr is a list of conditions ANDed together.
type FilterExpr struct {
	Conditions []FilterCondition
	now        func() time.Time
}

// FilterOptions specifies simple criteria for filtering toasts.
type FilterOptions struct {
	Kind   model.Kind // Match on resolved kind (empty=any)
	Search string     // Case-insensitive substring of title or message
	Limit  int        // Maximum results (0=unlimited)
}

// Filter returns the toasts matching opts, in their original order.
func Filter(toasts []model.Toast, opts FilterOptions) []model.Toast {
	result := make([]model.Toast, 0, len(toasts))

	for _, t := range toasts {
		if opts.Kind != "" && t.Kind.Resolve(true) != opts.Kind.Resolve(true) {
			continue
		}
		if opts.Search != "" && !matchesSearch(t, opts.Search) {
			continue
		}
		result = append(result, t)
	}

	if opts.Limit > 0 && len(result) > opts.Limit {
		result = result[:opts.Limit]
	}

	return result
}

// ParseKind validates a kind name. Accepts the toast kinds only.
func ParseKind(s string) (model.Kind, error) {
	k := model.Kind(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range model.Kinds() {
		if k == known {
			return k, nil
		}
	}
	return "", fmt.Errorf("invalid type: %s (use success, error, warning or info)", s)
}

// ParseFilter parses a filter expression such as
// "type=error,message~disk,age>30s". Conditions are comma-separated and
// ANDed together.
//
// Supported fields: type, title, message, age, remaining, persistent, action
// Supported operators: = (equal), != (not equal), ~ (contains), ~= (regex), >, <, >=, <=
//
// age and remaining take Go durations; persistent and action take booleans.
func ParseFilter(expr string) (*FilterExpr, error) {
	filter := &FilterExpr{Conditions: make([]FilterCondition, 0)}
	if expr == "" {
		return filter, nil
	}

	for part := range strings.SplitSeq(expr, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		cond, err := parseCondition(part)
		if err != nil {
			return nil, err
		}
		filter.Conditions = append(filter.Conditions, cond)
	}

	return filter, nil
}

// WithClock returns f evaluated against now instead of the wall clock.
func (f *FilterExpr) WithClock(now func() time.Time) *FilterExpr {
	f.now = now
	return f
}

func parseCondition(s string) (FilterCondition, error) {
	// Longest operators first
	operators := []FilterOp{
		FilterOpNotEqual,
		FilterOpGreaterEq,
		FilterOpLessEq,
		FilterOpRegex,
		FilterOpEqual,
		FilterOpContains,
		FilterOpGreater,
		FilterOpLess,
	}

	for _, op := range operators {
		idx := strings.Index(s, string(op))
		if idx > 0 {
			cond := FilterCondition{
				Field:    strings.ToLower(strings.TrimSpace(s[:idx])),
				Operator: op,
				Value:    strings.TrimSpace(s[idx+len(op):]),
			}
			if err := cond.init(); err != nil {
				return FilterCondition{}, err
			}
			return cond, nil
		}
	}

	return FilterCondition{}, fmt.Errorf("invalid filter condition: %s (missing operator)", s)
}

// init normalises the field and pre-parses the value.
func (c *FilterCondition) init() error {
	switch c.Field {
	case "type", "kind":
		c.Field = "type"
		if c.Operator != FilterOpEqual && c.Operator != FilterOpNotEqual {
			return fmt.Errorf("type only supports = and !=")
		}
		k, err := ParseKind(c.Value)
		if err != nil {
			return err
		}
		c.kind = k
	case "title", "summary":
		c.Field = "title"
	case "message", "body":
		c.Field = "message"
	case "age", "remaining":
		d, err := time.ParseDuration(c.Value)
		if err != nil {
			return fmt.Errorf("invalid %s value: %w", c.Field, err)
		}
		c.duration = d
	case "persistent", "action":
		b, err := strconv.ParseBool(c.Value)
		if err != nil {
			return fmt.Errorf("invalid %s value: %s", c.Field, c.Value)
		}
		c.boolVal = b
	default:
		return fmt.Errorf("unknown filter field: %s", c.Field)
	}

	if c.Operator == FilterOpRegex {
		re, err := regexp.Compile(c.Value)
		if err != nil {
			return fmt.Errorf("invalid regex: %w", err)
		}
		c.regex = re
	}

	return nil
}

// Match reports whether t satisfies every condition.
func (f *FilterExpr) Match(t model.Toast) bool {
	now := time.Now()
	if f.now != nil {
		now = f.now()
	}
	for i := range f.Conditions {
		if !f.Conditions[i].match(t, now) {
			return false
		}
	}
	return true
}

func (c *FilterCondition) match(t model.Toast, now time.Time) bool {
	switch c.Field {
	case "type":
		same := t.Kind.Resolve(true) == c.kind
		if c.Operator == FilterOpNotEqual {
			return !same
		}
		return same
	case "title":
		return c.matchString(t.Title)
	case "message":
		return c.matchString(t.Message)
	case "age":
		return c.matchDuration(now.Sub(t.CreatedAt))
	case "remaining":
		if t.Persistent() {
			return false
		}
		return c.matchDuration(t.Remaining(now))
	case "persistent":
		return c.matchBool(t.Persistent())
	case "action":
		return c.matchBool(t.Action != nil)
	default:
		return false
	}
}

func (c *FilterCondition) matchString(fieldValue string) bool {
	switch c.Operator {
	case FilterOpEqual:
		return fieldValue == c.Value
	case FilterOpNotEqual:
		return fieldValue != c.Value
	case FilterOpContains:
		return strings.Contains(strings.ToLower(fieldValue), strings.ToLower(c.Value))
	case FilterOpRegex:
		return c.regex != nil && c.regex.MatchString(fieldValue)
	default:
		return false
	}
}

func (c *FilterCondition) matchDuration(d time.Duration) bool {
	switch c.Operator {
	case FilterOpEqual:
		return d == c.duration
	case FilterOpNotEqual:
		return d != c.duration
	case FilterOpGreater:
		return d > c.duration
	case FilterOpLess:
		return d < c.duration
	case FilterOpGreaterEq:
		return d >= c.duration
	case FilterOpLessEq:
		return d <= c.duration
	default:
		return false
	}
}

func (c *FilterCondition) matchBool(fieldValue bool) bool {
	switch c.Operator {
	case FilterOpEqual:
		return fieldValue == c.boolVal
	case FilterOpNotEqual:
		return fieldValue != c.boolVal
	default:
		return false
	}
}

// FilterWithExpr filters toasts using a filter expression.
func FilterWithExpr(toasts []model.Toast, expr *FilterExpr) []model.Toast {
	if expr == nil || len(expr.Conditions) == 0 {
		return toasts
	}

	result := make([]model.Toast, 0, len(toasts))
	for _, t := range toasts {
		if expr.Match(t) {
			result = append(result, t)
		}
	}
	return result
}
