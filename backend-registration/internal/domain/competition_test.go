package domain

import (
	"testing"
	"time"
)

func boolPtr(b bool) *bool { return &b }
func intPtr(i int) *int    { return &i }

func TestNewCompetition(t *testing.T) {
	desc := "  Voorjaarstoernooi  "
	blank := "   "

	tests := []struct {
		name        string
		inName      string
		description *string
		wantDesc    *string
		wantErr     bool
	}{
		{name: "valid", inName: "Spring 2025", description: &desc, wantDesc: strPtr("Voorjaarstoernooi")},
		{name: "no description", inName: "Spring 2025"},
		{name: "blank description becomes nil", inName: "Spring 2025", description: &blank},
		{name: "empty name", inName: "", wantErr: true},
		{name: "whitespace name", inName: "   ", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := NewCompetition(tt.inName, tt.description)
			if tt.wantErr {
				if _, ok := IsValidationError(err); !ok {
					t.Fatalf("expected ValidationError, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("NewCompetition() error = %v", err)
			}
			if c.ID == "" {
				t.Error("Expected ID to be generated")
			}
			if c.IsActive || c.IsOpen {
				t.Error("New competition must be inactive and closed")
			}
			if (c.Description == nil) != (tt.wantDesc == nil) {
				t.Fatalf("description = %v, want %v", c.Description, tt.wantDesc)
			}
			if tt.wantDesc != nil && *c.Description != *tt.wantDesc {
				t.Errorf("description = %q, want %q", *c.Description, *tt.wantDesc)
			}
		})
	}
}

func strPtr(s string) *string { return &s }

func TestCompetitionFlags(t *testing.T) {
	if !(CompetitionFlags{}).IsEmpty() {
		t.Error("no flags is empty")
	}
	if (CompetitionFlags{IsOpen: boolPtr(false)}).IsEmpty() {
		t.Error("isOpen=false is a flag")
	}
	if (CompetitionFlags{IsActive: boolPtr(false)}).Activates() {
		t.Error("isActive=false does not activate")
	}
	if !(CompetitionFlags{IsActive: boolPtr(true)}).Activates() {
		t.Error("isActive=true activates")
	}

	c, _ := NewCompetition("Spring 2025", nil)
	at := time.Now().Add(time.Minute)
	c.Apply(CompetitionFlags{IsOpen: boolPtr(true)}, at)
	if c.IsActive || !c.IsOpen {
		t.Errorf("Apply() only sets supplied flags, got active=%v open=%v", c.IsActive, c.IsOpen)
	}
	if !c.UpdatedAt.Equal(at) {
		t.Error("Apply() must bump UpdatedAt")
	}
}

func TestContestantFilter(t *testing.T) {
	ana := &Contestant{CompetitionID: "c1", BeltColor: BeltWhite, Age: 16, Kata: true}
	bo := &Contestant{CompetitionID: "c1", BeltColor: BeltBlack, Age: 34, Kata: true, Kumite: true, Paid: true}
	cas := &Contestant{CompetitionID: "c2", BeltColor: BeltGreen, Age: 9, Kumite: true}
	all := []*Contestant{ana, bo, cas}

	tests := []struct {
		name   string
		filter ContestantFilter
		want   []*Contestant
	}{
		{"zero value matches all", ContestantFilter{}, all},
		{"competition", ContestantFilter{CompetitionID: "c1"}, []*Contestant{ana, bo}},
		{"belt set", ContestantFilter{BeltColors: []BeltColor{BeltWhite, BeltGreen}}, []*Contestant{ana, cas}},
		{"min age", ContestantFilter{MinAge: intPtr(16)}, []*Contestant{ana, bo}},
		{"age range", ContestantFilter{MinAge: intPtr(10), MaxAge: intPtr(20)}, []*Contestant{ana}},
		{"kata", ContestantFilter{Participation: ParticipationKata}, []*Contestant{ana, bo}},
		{"kumite", ContestantFilter{Participation: ParticipationKumite}, []*Contestant{bo, cas}},
		{"both", ContestantFilter{Participation: ParticipationBoth}, []*Contestant{bo}},
		{"paid", ContestantFilter{Paid: boolPtr(true)}, []*Contestant{bo}},
		{"unpaid", ContestantFilter{Paid: boolPtr(false)}, []*Contestant{ana, cas}},
		{"combined", ContestantFilter{CompetitionID: "c1", Paid: boolPtr(false), Participation: ParticipationKata}, []*Contestant{ana}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.filter.Apply(all)
			if len(got) != len(tt.want) {
				t.Fatalf("got %d contestants, want %d", len(got), len(tt.want))
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("result[%d] mismatch", i)
				}
			}
		})
	}
}

func TestContestantFilter_Validate(t *testing.T) {
	tests := []struct {
		name    string
		filter  ContestantFilter
		wantErr bool
	}{
		{"empty", ContestantFilter{}, false},
		{"unknown belt", ContestantFilter{BeltColors: []BeltColor{"Paars"}}, true},
		{"unknown participation", ContestantFilter{Participation: "sparring"}, true},
		{"inverted age range", ContestantFilter{MinAge: intPtr(20), MaxAge: intPtr(10)}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.filter.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
