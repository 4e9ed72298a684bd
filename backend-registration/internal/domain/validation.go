package domain

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

// FieldKind selects how a field value is checked
type FieldKind int

const (
	KindText FieldKind = iota
	KindInteger
	KindEmail
	KindEnum
)

// FieldConstraint describes the rules for one input field.
// Min/Max bound the length for text and the value for integers.
type FieldConstraint struct {
	Name     string
	Kind     FieldKind
	Required bool
	Min      int
	Max      int
	OneOf    []string
}

var validate = validator.New()

var beltColorNames = func() []string {
	names := make([]string, len(BeltColors))
	for i, b := range BeltColors {
		names[i] = string(b)
	}
	return names
}()

// RegistrationConstraints is the sign-up form schema
var RegistrationConstraints = []FieldConstraint{
	{Name: "firstName", Kind: KindText, Required: true, Min: 2, Max: 100},
	{Name: "lastName", Kind: KindText, Required: true, Min: 2, Max: 100},
	{Name: "karateSchool", Kind: KindText, Required: true, Min: 2, Max: 150},
	{Name: "beltColor", Kind: KindEnum, Required: true, OneOf: beltColorNames},
	{Name: "age", Kind: KindInteger, Required: true, Min: 5, Max: 100},
	{Name: "email", Kind: KindEmail, Required: true, Max: 254},
}

// CompetitionConstraints is the create-competition schema
var CompetitionConstraints = []FieldConstraint{
	{Name: "name", Kind: KindText, Required: true, Min: 1, Max: 200},
}

func (in *RegistrationInput) field(name string) string {
	switch name {
	case "firstName":
		return in.FirstName
	case "lastName":
		return in.LastName
	case "karateSchool":
		return in.KarateSchool
	case "beltColor":
		return in.BeltColor
	case "age":
		return in.Age
	case "email":
		return in.Email
	}
	return ""
}

// ValidateRegistration checks every constraint and reports all violations at once
func ValidateRegistration(in *RegistrationInput) error {
	if in == nil {
		return NewValidationError(map[string]string{"body": "is required"})
	}

	fields := violations(RegistrationConstraints, in.field)
	for name, msg := range in.TypeErrors {
		fields[name] = msg
	}
	if len(fields) > 0 {
		return NewValidationError(fields)
	}
	return nil
}

func validateCompetitionName(name string) error {
	return check(CompetitionConstraints, func(string) string { return name })
}

func check(constraints []FieldConstraint, value func(name string) string) error {
	if fields := violations(constraints, value); len(fields) > 0 {
		return NewValidationError(fields)
	}
	return nil
}

func violations(constraints []FieldConstraint, value func(name string) string) map[string]string {
	fields := make(map[string]string)
	for _, fc := range constraints {
		if msg := fc.check(strings.TrimSpace(value(fc.Name))); msg != "" {
			fields[fc.Name] = msg
		}
	}
	return fields
}

// check returns an empty string when v satisfies the constraint
func (fc FieldConstraint) check(v string) string {
	if v == "" {
		if fc.Required {
			return "is required"
		}
		return ""
	}

	switch fc.Kind {
	case KindText:
		n := utf8.RuneCountInString(v)
		if n < fc.Min {
			return fmt.Sprintf("must be at least %d characters", fc.Min)
		}
		if fc.Max > 0 && n > fc.Max {
			return fmt.Sprintf("must be at most %d characters", fc.Max)
		}

	case KindInteger:
		n, ok := ParseWholeNumber(v)
		if !ok {
			return "must be a whole number"
		}
		if n < fc.Min || n > fc.Max {
			return fmt.Sprintf("must be between %d and %d", fc.Min, fc.Max)
		}

	case KindEmail:
		if fc.Max > 0 && len(v) > fc.Max {
			return fmt.Sprintf("must be at most %d characters", fc.Max)
		}
		if err := validate.Var(v, "email"); err != nil {
			return "must be a valid email address"
		}

	case KindEnum:
		for _, allowed := range fc.OneOf {
			if v == allowed {
				return ""
			}
		}
		return "must be one of: " + strings.Join(fc.OneOf, ", ")
	}

	return ""
}

// ParseWholeNumber accepts "16" and "16.0" but rejects "16.5"
func ParseWholeNumber(s string) (int, bool) {
	if n, err := strconv.Atoi(s); err == nil {
		return n, true
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(f, 0) || f != math.Trunc(f) || math.Abs(f) > math.MaxInt32 {
		return 0, false
	}
	return int(f), true
}
