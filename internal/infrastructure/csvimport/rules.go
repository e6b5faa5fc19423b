package csvimport

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// FieldType represents the expected type of a field
type FieldType string

const (
	TypeString  FieldType = "string"
	TypeDecimal FieldType = "decimal"
	TypeDate    FieldType = "date"
)

// FieldRule defines the declarative validation rules for one column.
// Rule lists are composed per import type; new import types extend the rule
// set without touching the commit engine.
type FieldRule struct {
	Column      string
	Type        FieldType
	Required    bool
	MaxLength   int
	NonNegative bool
	OneOf       []string
	DateFormat  string
	RequiresAll []string // columns that must be present whenever this one is
	CustomFunc  func(value string) error
}

// FieldRuleBuilder builds field rules fluently
type FieldRuleBuilder struct {
	rule FieldRule
}

// Field creates a new field rule builder
func Field(column string) *FieldRuleBuilder {
	return &FieldRuleBuilder{
		rule: FieldRule{
			Column:     column,
			Type:       TypeString,
			DateFormat: "2006-01-02",
		},
	}
}

// Required marks the field as required
func (b *FieldRuleBuilder) Required() *FieldRuleBuilder {
	b.rule.Required = true
	return b
}

// Decimal sets the field type to decimal
func (b *FieldRuleBuilder) Decimal() *FieldRuleBuilder {
	b.rule.Type = TypeDecimal
	return b
}

// Date sets the field type to date
func (b *FieldRuleBuilder) Date() *FieldRuleBuilder {
	b.rule.Type = TypeDate
	return b
}

// MaxLength sets the maximum length
func (b *FieldRuleBuilder) MaxLength(n int) *FieldRuleBuilder {
	b.rule.MaxLength = n
	return b
}

// NonNegative requires a numeric value of zero or more
func (b *FieldRuleBuilder) NonNegative() *FieldRuleBuilder {
	b.rule.Type = TypeDecimal
	b.rule.NonNegative = true
	return b
}

// OneOf requires the value to be a member of the declared set
func (b *FieldRuleBuilder) OneOf(values ...string) *FieldRuleBuilder {
	b.rule.OneOf = values
	return b
}

// RequiresAll names columns that must also be non-empty when this one is
func (b *FieldRuleBuilder) RequiresAll(columns ...string) *FieldRuleBuilder {
	b.rule.RequiresAll = columns
	return b
}

// Custom sets a custom validation function
func (b *FieldRuleBuilder) Custom(fn func(value string) error) *FieldRuleBuilder {
	b.rule.CustomFunc = fn
	return b
}

// Build returns the built field rule
func (b *FieldRuleBuilder) Build() FieldRule {
	return b.rule
}

// RowValidator applies a rule list to staging rows one at a time. It is pure
// with respect to already-loaded rows: the only outputs are the verdict and
// the accumulated error list for the row.
type RowValidator struct {
	rules []FieldRule
}

// NewRowValidator creates a validator for one import type's rule list
func NewRowValidator(rules []FieldRule) *RowValidator {
	return &RowValidator{rules: rules}
}

// ValidateRow checks every rule against the row and accumulates all
// violations rather than short-circuiting on the first
func (v *RowValidator) ValidateRow(row *Row) []RowError {
	if row.Malformed {
		return []RowError{NewRowError(row.LineNumber, "", ErrCodeMalformedRow, row.ParseError)}
	}

	var errs []RowError
	for _, rule := range v.rules {
		value := row.Get(rule.Column)

		if value == "" {
			if rule.Required {
				errs = append(errs, NewRowError(row.LineNumber, rule.Column, ErrCodeRequiredField,
					fmt.Sprintf("field '%s' is required", rule.Column)))
			}
			continue
		}

		if err := validateType(value, rule.Type, rule.DateFormat); err != nil {
			errs = append(errs, NewRowErrorWithValue(row.LineNumber, rule.Column, ErrCodeInvalidType,
				fmt.Sprintf("expected %s", rule.Type), value))
			continue
		}

		if rule.MaxLength > 0 && len(value) > rule.MaxLength {
			errs = append(errs, NewRowError(row.LineNumber, rule.Column, ErrCodeValidation,
				fmt.Sprintf("length must be at most %d", rule.MaxLength)))
		}

		if rule.NonNegative {
			if d, err := decimal.NewFromString(value); err == nil && d.IsNegative() {
				errs = append(errs, NewRowErrorWithValue(row.LineNumber, rule.Column, ErrCodeNegativeValue,
					"value cannot be negative", value))
			}
		}

		if len(rule.OneOf) > 0 && !contains(rule.OneOf, value) {
			errs = append(errs, NewRowErrorWithValue(row.LineNumber, rule.Column, ErrCodeInvalidEnum,
				fmt.Sprintf("must be one of: %s", strings.Join(rule.OneOf, ", ")), value))
		}

		for _, other := range rule.RequiresAll {
			if row.Get(other) == "" {
				errs = append(errs, NewRowError(row.LineNumber, other, ErrCodeRequiredField,
					fmt.Sprintf("field '%s' is required when '%s' is set", other, rule.Column)))
			}
		}

		if rule.CustomFunc != nil {
			if err := rule.CustomFunc(value); err != nil {
				errs = append(errs, NewRowErrorWithValue(row.LineNumber, rule.Column, ErrCodeValidation,
					err.Error(), value))
			}
		}
	}

	return errs
}

// validateType validates a value against the expected type
func validateType(value string, fieldType FieldType, dateFormat string) error {
	switch fieldType {
	case TypeDecimal:
		_, err := decimal.NewFromString(value)
		return err
	case TypeDate:
		_, err := time.Parse(dateFormat, value)
		return err
	}
	return nil
}

func contains(set []string, value string) bool {
	for _, s := range set {
		if s == value {
			return true
		}
	}
	return false
}
