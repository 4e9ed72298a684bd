package dto

import (
	"github.com/prohmpiriya/tournament-registration/backend-registration/internal/domain"
)

// CreateCompetitionRequest represents a request to create a competition
type CreateCompetitionRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
}

// UpdateCompetitionRequest represents a partial update of the lifecycle flags
type UpdateCompetitionRequest struct {
	IsActive *bool `json:"isActive"`
	IsOpen   *bool `json:"isOpen"`
}

// ToFlags converts the request to domain flags
func (r *UpdateCompetitionRequest) ToFlags() domain.CompetitionFlags {
	return domain.CompetitionFlags{
		IsActive: r.IsActive,
		IsOpen:   r.IsOpen,
	}
}
