package dto

import (
	"bytes"
	"encoding/json"
	"errors"

	"github.com/prohmpiriya/tournament-registration/backend-registration/internal/domain"
)

// RegisterContestantRequest represents the public sign-up form.
// Age accepts a JSON number or a numeric string. Values of the wrong
// JSON type are kept as field violations instead of failing the decode.
type RegisterContestantRequest struct {
	FirstName    string      `json:"firstName"`
	LastName     string      `json:"lastName"`
	KarateSchool string      `json:"karateSchool"`
	BeltColor    string      `json:"beltColor"`
	Age          json.Number `json:"age"`
	Email        string      `json:"email"`
	Kata         bool        `json:"kata"`
	Kumite       bool        `json:"kumite"`

	typeErrors map[string]string
}

// UnmarshalJSON decodes each field leniently. Only a body that is not a
// JSON object is an error.
func (r *RegisterContestantRequest) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == nil {
		return errors.New("request body must be a JSON object")
	}

	*r = RegisterContestantRequest{}
	r.FirstName = r.text(raw, "firstName")
	r.LastName = r.text(raw, "lastName")
	r.KarateSchool = r.text(raw, "karateSchool")
	r.BeltColor = r.text(raw, "beltColor")
	r.Email = r.text(raw, "email")
	r.Age = r.number(raw, "age")
	r.Kata = r.flag(raw, "kata")
	r.Kumite = r.flag(raw, "kumite")
	return nil
}

func (r *RegisterContestantRequest) text(raw map[string]json.RawMessage, name string) string {
	v, ok := present(raw, name)
	if !ok {
		return ""
	}
	var s string
	if err := json.Unmarshal(v, &s); err != nil {
		r.typeError(name, "must be a string")
		return ""
	}
	return s
}

func (r *RegisterContestantRequest) number(raw map[string]json.RawMessage, name string) json.Number {
	v, ok := present(raw, name)
	if !ok {
		return ""
	}
	var s string
	if err := json.Unmarshal(v, &s); err == nil {
		return json.Number(s)
	}
	var n json.Number
	if err := json.Unmarshal(v, &n); err != nil {
		r.typeError(name, "must be a whole number")
		return ""
	}
	return n
}

func (r *RegisterContestantRequest) flag(raw map[string]json.RawMessage, name string) bool {
	v, ok := present(raw, name)
	if !ok {
		return false
	}
	var b bool
	if err := json.Unmarshal(v, &b); err != nil {
		r.typeError(name, "must be true or false")
		return false
	}
	return b
}

func (r *RegisterContestantRequest) typeError(name, msg string) {
	if r.typeErrors == nil {
		r.typeErrors = make(map[string]string)
	}
	r.typeErrors[name] = msg
}

// present returns the raw value for name unless it is absent or null
func present(raw map[string]json.RawMessage, name string) (json.RawMessage, bool) {
	v, ok := raw[name]
	if !ok || string(bytes.TrimSpace(v)) == "null" {
		return nil, false
	}
	return v, true
}

// ToInput converts the request to the domain registration input
func (r *RegisterContestantRequest) ToInput() *domain.RegistrationInput {
	return &domain.RegistrationInput{
		FirstName:    r.FirstName,
		LastName:     r.LastName,
		KarateSchool: r.KarateSchool,
		BeltColor:    r.BeltColor,
		Age:          r.Age.String(),
		Email:        r.Email,
		Kata:         r.Kata,
		Kumite:       r.Kumite,
		TypeErrors:   r.typeErrors,
	}
}

// RegistrationResponse is returned after a successful sign-up
type RegistrationResponse struct {
	Contestant *domain.Contestant `json:"contestant"`
	PaymentURL string             `json:"paymentUrl"`
}

// ListContestantsQuery represents query parameters for the admin listing
type ListContestantsQuery struct {
	CompetitionID string   `form:"competitionId" binding:"omitempty,max=64"`
	BeltColors    []string `form:"beltColor"`
	MinAge        *int     `form:"minAge" binding:"omitempty,min=0"`
	MaxAge        *int     `form:"maxAge" binding:"omitempty,min=0"`
	Participation string   `form:"participation"`
	Paid          *bool    `form:"paid"`
}

// ToFilter converts the query to a domain filter
func (q *ListContestantsQuery) ToFilter() domain.ContestantFilter {
	var belts []domain.BeltColor
	for _, b := range q.BeltColors {
		belts = append(belts, domain.BeltColor(b))
	}
	return domain.ContestantFilter{
		CompetitionID: q.CompetitionID,
		BeltColors:    belts,
		MinAge:        q.MinAge,
		MaxAge:        q.MaxAge,
		Participation: domain.Participation(q.Participation),
		Paid:          q.Paid,
	}
}
