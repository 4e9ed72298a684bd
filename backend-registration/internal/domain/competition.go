package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Competition is a single tournament edition. At most one is active at a time.
type Competition struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	IsActive    bool      `json:"isActive"`
	IsOpen      bool      `json:"isOpen"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// NewCompetition creates an inactive, closed competition
func NewCompetition(name string, description *string) (*Competition, error) {
	name = strings.TrimSpace(name)
	if err := validateCompetitionName(name); err != nil {
		return nil, err
	}

	if description != nil {
		d := strings.TrimSpace(*description)
		if d == "" {
			description = nil
		} else {
			description = &d
		}
	}

	now := time.Now().UTC()
	return &Competition{
		ID:          uuid.New().String(),
		Name:        name,
		Description: description,
		IsActive:    false,
		IsOpen:      false,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// CompetitionFlags is a partial update of the lifecycle flags
type CompetitionFlags struct {
	IsActive *bool `json:"isActive,omitempty"`
	IsOpen   *bool `json:"isOpen,omitempty"`
}

// IsEmpty reports whether no flag was supplied
func (f CompetitionFlags) IsEmpty() bool {
	return f.IsActive == nil && f.IsOpen == nil
}

// Activates reports whether the update requests isActive=true
func (f CompetitionFlags) Activates() bool {
	return f.IsActive != nil && *f.IsActive
}

// Apply sets the supplied flags on c
func (c *Competition) Apply(f CompetitionFlags, at time.Time) {
	if f.IsActive != nil {
		c.IsActive = *f.IsActive
	}
	if f.IsOpen != nil {
		c.IsOpen = *f.IsOpen
	}
	c.UpdatedAt = at
}
