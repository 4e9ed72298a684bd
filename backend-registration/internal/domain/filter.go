package domain

import "fmt"

// Participation selects contestants by discipline
type Participation string

const (
	ParticipationAny    Participation = ""
	ParticipationKata   Participation = "kata"
	ParticipationKumite Participation = "kumite"
	ParticipationBoth   Participation = "both"
)

// IsValid returns true for the known participation values
func (p Participation) IsValid() bool {
	switch p {
	case ParticipationAny, ParticipationKata, ParticipationKumite, ParticipationBoth:
		return true
	}
	return false
}

// ContestantFilter is a pure predicate over contestants. Zero value matches everything.
type ContestantFilter struct {
	CompetitionID string
	BeltColors    []BeltColor
	MinAge        *int
	MaxAge        *int
	Participation Participation
	Paid          *bool
}

// Validate checks the filter values
func (f ContestantFilter) Validate() error {
	fields := map[string]string{}
	for _, b := range f.BeltColors {
		if !b.IsValid() {
			fields["beltColor"] = fmt.Sprintf("unknown belt color %q", b)
			break
		}
	}
	if !f.Participation.IsValid() {
		fields["participation"] = "must be one of kata, kumite, both"
	}
	if f.MinAge != nil && f.MaxAge != nil && *f.MinAge > *f.MaxAge {
		fields["minAge"] = "must not exceed maxAge"
	}
	if len(fields) > 0 {
		return NewValidationError(fields)
	}
	return nil
}

// Matches returns true if c satisfies every set criterion
func (f ContestantFilter) Matches(c *Contestant) bool {
	if f.CompetitionID != "" && c.CompetitionID != f.CompetitionID {
		return false
	}

	if len(f.BeltColors) > 0 {
		found := false
		for _, b := range f.BeltColors {
			if c.BeltColor == b {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}

	if f.MinAge != nil && c.Age < *f.MinAge {
		return false
	}
	if f.MaxAge != nil && c.Age > *f.MaxAge {
		return false
	}

	switch f.Participation {
	case ParticipationKata:
		if !c.Kata {
			return false
		}
	case ParticipationKumite:
		if !c.Kumite {
			return false
		}
	case ParticipationBoth:
		if !c.Kata || !c.Kumite {
			return false
		}
	}

	if f.Paid != nil && c.Paid != *f.Paid {
		return false
	}

	return true
}

// Apply returns the contestants that match f, preserving order
func (f ContestantFilter) Apply(contestants []*Contestant) []*Contestant {
	out := make([]*Contestant, 0, len(contestants))
	for _, c := range contestants {
		if f.Matches(c) {
			out = append(out, c)
		}
	}
	return out
}
