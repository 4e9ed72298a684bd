package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Registration fee charged per contestant, in minor units
const (
	RegistrationFeeAmount   int64 = 2500
	RegistrationFeeCurrency       = "eur"
)

// BeltColor is the contestant's current grade
type BeltColor string

const (
	BeltWhite  BeltColor = "Wit"
	BeltYellow BeltColor = "Geel"
	BeltOrange BeltColor = "Oranje"
	BeltGreen  BeltColor = "Groen"
	BeltBlue   BeltColor = "Blauw"
	BeltBrown  BeltColor = "Bruin (3e, 2e en 1e kyu)"
	BeltBlack  BeltColor = "Zwart (1e dan of hoger)"
)

// BeltColors lists every accepted grade, lowest first
var BeltColors = []BeltColor{
	BeltWhite,
	BeltYellow,
	BeltOrange,
	BeltGreen,
	BeltBlue,
	BeltBrown,
	BeltBlack,
}

// IsValid returns true if b is one of BeltColors
func (b BeltColor) IsValid() bool {
	for _, c := range BeltColors {
		if c == b {
			return true
		}
	}
	return false
}

// Contestant is a registration for the competition that was active at sign-up
type Contestant struct {
	ID            string       `json:"id"`
	FirstName     string       `json:"firstName"`
	LastName      string       `json:"lastName"`
	KarateSchool  string       `json:"karateSchool"`
	BeltColor     BeltColor    `json:"beltColor"`
	Age           int          `json:"age"`
	Email         string       `json:"email"`
	Kata          bool         `json:"kata"`
	Kumite        bool         `json:"kumite"`
	Paid          bool         `json:"paid"`
	PaidAt        *time.Time   `json:"paidAt,omitempty"`
	CompetitionID string       `json:"competitionId"`
	Competition   *Competition `json:"competition,omitempty"`
	CreatedAt     time.Time    `json:"createdAt"`
	UpdatedAt     time.Time    `json:"updatedAt"`
}

// RegistrationInput is the raw sign-up form. Age stays textual until validated.
type RegistrationInput struct {
	FirstName    string
	LastName     string
	KarateSchool string
	BeltColor    string
	Age          string
	Email        string
	Kata         bool
	Kumite       bool

	// TypeErrors holds fields whose submitted value had the wrong JSON type
	TypeErrors map[string]string
}

// NewContestant validates in and links the result to competition
func NewContestant(in *RegistrationInput, competition *Competition) (*Contestant, error) {
	if err := ValidateRegistration(in); err != nil {
		return nil, err
	}

	age, _ := ParseWholeNumber(strings.TrimSpace(in.Age))
	now := time.Now().UTC()

	return &Contestant{
		ID:            uuid.New().String(),
		FirstName:     strings.TrimSpace(in.FirstName),
		LastName:      strings.TrimSpace(in.LastName),
		KarateSchool:  strings.TrimSpace(in.KarateSchool),
		BeltColor:     BeltColor(in.BeltColor),
		Age:           age,
		Email:         strings.TrimSpace(in.Email),
		Kata:          in.Kata,
		Kumite:        in.Kumite,
		Paid:          false,
		CompetitionID: competition.ID,
		Competition:   competition,
		CreatedAt:     now,
		UpdatedAt:     now,
	}, nil
}

// FullName returns "First Last"
func (c *Contestant) FullName() string {
	return c.FirstName + " " + c.LastName
}

// PaymentState derives the state machine position from the paid flag
func (c *Contestant) PaymentState() PaymentState {
	if c.Paid {
		return PaymentStatePaid
	}
	return PaymentStateUnpaid
}

// MarkPaid moves the contestant to paid. A repeat call is a no-op and reports changed=false.
func (c *Contestant) MarkPaid(at time.Time) (changed bool, err error) {
	current := c.PaymentState()
	if !current.CanTransitionTo(PaymentStatePaid) {
		return false, ErrInvalidPaymentTransition
	}
	if current == PaymentStatePaid {
		return false, nil
	}

	c.Paid = true
	c.PaidAt = &at
	c.UpdatedAt = at
	return true, nil
}
