package domain

import (
	"errors"
	"testing"
	"time"
)

func validInput() *RegistrationInput {
	return &RegistrationInput{
		FirstName:    "Ana",
		LastName:     "Lee",
		KarateSchool: "Kenshikai Utrecht",
		BeltColor:    "Wit",
		Age:          "16",
		Email:        "a@x.com",
		Kata:         true,
		Kumite:       false,
	}
}

func TestValidateRegistration(t *testing.T) {
	tests := []struct {
		name       string
		mutate     func(in *RegistrationInput)
		wantFields []string
	}{
		{name: "valid input", mutate: func(in *RegistrationInput) {}},
		{name: "neither kata nor kumite is allowed", mutate: func(in *RegistrationInput) { in.Kata = false }},
		{name: "age lower bound", mutate: func(in *RegistrationInput) { in.Age = "5" }},
		{name: "age upper bound", mutate: func(in *RegistrationInput) { in.Age = "100" }},
		{name: "integral float age", mutate: func(in *RegistrationInput) { in.Age = "16.0" }},
		{name: "brown belt", mutate: func(in *RegistrationInput) { in.BeltColor = string(BeltBrown) }},
		{name: "age too young", mutate: func(in *RegistrationInput) { in.Age = "4" }, wantFields: []string{"age"}},
		{name: "age too old", mutate: func(in *RegistrationInput) { in.Age = "101" }, wantFields: []string{"age"}},
		{name: "fractional age", mutate: func(in *RegistrationInput) { in.Age = "16.5" }, wantFields: []string{"age"}},
		{name: "non numeric age", mutate: func(in *RegistrationInput) { in.Age = "sixteen" }, wantFields: []string{"age"}},
		{name: "missing age", mutate: func(in *RegistrationInput) { in.Age = "" }, wantFields: []string{"age"}},
		{name: "short first name", mutate: func(in *RegistrationInput) { in.FirstName = "A" }, wantFields: []string{"firstName"}},
		{name: "whitespace last name", mutate: func(in *RegistrationInput) { in.LastName = "   " }, wantFields: []string{"lastName"}},
		{name: "unknown belt", mutate: func(in *RegistrationInput) { in.BeltColor = "Paars" }, wantFields: []string{"beltColor"}},
		{name: "bad email", mutate: func(in *RegistrationInput) { in.Email = "not-an-email" }, wantFields: []string{"email"}},
		{
			name: "wrongly typed flag",
			mutate: func(in *RegistrationInput) {
				in.TypeErrors = map[string]string{"kata": "must be true or false"}
			},
			wantFields: []string{"kata"},
		},
		{
			name: "type errors merge with constraint violations",
			mutate: func(in *RegistrationInput) {
				in.Age = ""
				in.Email = "bad"
				in.TypeErrors = map[string]string{"age": "must be a whole number"}
			},
			wantFields: []string{"age", "email"},
		},
		{
			name: "reports every violated field",
			mutate: func(in *RegistrationInput) {
				*in = RegistrationInput{Age: "200", Email: "nope", BeltColor: "Paars"}
			},
			wantFields: []string{"firstName", "lastName", "karateSchool", "beltColor", "age", "email"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validInput()
			tt.mutate(in)

			err := ValidateRegistration(in)
			if len(tt.wantFields) == 0 {
				if err != nil {
					t.Fatalf("ValidateRegistration() unexpected error: %v", err)
				}
				return
			}

			ve, ok := IsValidationError(err)
			if !ok {
				t.Fatalf("ValidateRegistration() error = %v, want *ValidationError", err)
			}
			if len(ve.Fields) != len(tt.wantFields) {
				t.Errorf("got %d violated fields %v, want %v", len(ve.Fields), ve.Fields, tt.wantFields)
			}
			for _, f := range tt.wantFields {
				if _, ok := ve.Fields[f]; !ok {
					t.Errorf("expected field %q to be reported, got %v", f, ve.Fields)
				}
			}
		})
	}
}

func TestValidateRegistration_Nil(t *testing.T) {
	if _, ok := IsValidationError(ValidateRegistration(nil)); !ok {
		t.Error("expected validation error for nil input")
	}
}

func TestNewContestant(t *testing.T) {
	competition, _ := NewCompetition("Spring 2025", nil)

	in := validInput()
	in.FirstName = "  Ana "
	c, err := NewContestant(in, competition)
	if err != nil {
		t.Fatalf("NewContestant() error = %v", err)
	}

	if c.ID == "" {
		t.Error("Expected ID to be generated")
	}
	if c.FirstName != "Ana" {
		t.Errorf("Expected trimmed first name, got %q", c.FirstName)
	}
	if c.Age != 16 {
		t.Errorf("Expected age 16, got %d", c.Age)
	}
	if c.Paid {
		t.Error("New contestant must be unpaid")
	}
	if c.CompetitionID != competition.ID {
		t.Errorf("Expected competition %s, got %s", competition.ID, c.CompetitionID)
	}
	if c.PaymentState() != PaymentStateUnpaid {
		t.Errorf("Expected state unpaid, got %s", c.PaymentState())
	}
	if c.FullName() != "Ana Lee" {
		t.Errorf("Expected full name 'Ana Lee', got %q", c.FullName())
	}

	if _, err := NewContestant(&RegistrationInput{}, competition); err == nil {
		t.Error("Expected validation error for empty input")
	}
}

func TestContestant_MarkPaid(t *testing.T) {
	competition, _ := NewCompetition("Spring 2025", nil)
	c, _ := NewContestant(validInput(), competition)

	at := time.Date(2025, 4, 1, 10, 0, 0, 0, time.UTC)
	changed, err := c.MarkPaid(at)
	if err != nil {
		t.Fatalf("MarkPaid() error = %v", err)
	}
	if !changed {
		t.Error("First MarkPaid should report a change")
	}
	if !c.Paid || c.PaidAt == nil || !c.PaidAt.Equal(at) {
		t.Errorf("Expected paid at %v, got paid=%v paidAt=%v", at, c.Paid, c.PaidAt)
	}

	// replay is a no-op
	changed, err = c.MarkPaid(at.Add(time.Hour))
	if err != nil {
		t.Errorf("Replayed MarkPaid should not fail: %v", err)
	}
	if changed {
		t.Error("Replayed MarkPaid should not report a change")
	}
	if !c.PaidAt.Equal(at) {
		t.Error("Replayed MarkPaid must keep the original paid time")
	}
}

func TestPaymentState_Transitions(t *testing.T) {
	tests := []struct {
		from PaymentState
		to   PaymentState
		want bool
	}{
		{PaymentStateUnpaid, PaymentStatePaid, true},
		{PaymentStatePaid, PaymentStatePaid, true},
		{PaymentStatePaid, PaymentStateUnpaid, false},
		{PaymentStateUnpaid, PaymentStateUnpaid, false},
		{PaymentState("refunded"), PaymentStatePaid, false},
	}

	for _, tt := range tests {
		if got := tt.from.CanTransitionTo(tt.to); got != tt.want {
			t.Errorf("%s -> %s = %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}

	if !PaymentStatePaid.IsTerminal() || PaymentStateUnpaid.IsTerminal() {
		t.Error("only paid is terminal")
	}
}

func TestBeltColor_IsValid(t *testing.T) {
	for _, b := range BeltColors {
		if !b.IsValid() {
			t.Errorf("%q should be valid", b)
		}
	}
	if BeltColor("wit").IsValid() {
		t.Error("belt colors are case sensitive")
	}
}

func TestErrorTaxonomy(t *testing.T) {
	if !errors.Is(ErrCompetitionNotFound, ErrNotFound) || !errors.Is(ErrContestantNotFound, ErrNotFound) {
		t.Error("not-found errors must wrap ErrNotFound")
	}

	cause := errors.New("connection reset")
	err := error(&PaymentGatewayError{Op: "create payment link", Err: cause})
	if !IsPaymentGatewayError(err) {
		t.Error("expected PaymentGatewayError")
	}
	if !errors.Is(err, cause) {
		t.Error("PaymentGatewayError must unwrap to its cause")
	}

	ve := NewValidationError(map[string]string{"b": "x", "a": "y"})
	if ve.Error() != "validation failed: a: y; b: x" {
		t.Errorf("unexpected message %q", ve.Error())
	}
}
