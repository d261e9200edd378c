package dto

import "github.com/straytracker/stray-tracker-backend/internal/models"

// NearbyStray is one stray admitted by the proximity query: the stray, its
// single most recent sighting (with reporter and at most one photo), and the
// distance of that sighting from the query center.
type NearbyStray struct {
	Stray      *models.Stray `json:"stray"`
	DistanceKm float64       `json:"distance_km"`
}

// StrayFilter drives the non-geo browse/search listing.
type StrayFilter struct {
	Species string
	Status  string
	Size    string
	Query   string // substring match across name, description, colors, markings
	Page    PageParams
}

type UpdateStrayRequest struct {
	Name             *string          `json:"name,omitempty"`
	Species          *string          `json:"species,omitempty"`
	Breed            *string          `json:"breed,omitempty"`
	AgeBracket       *string          `json:"age_bracket,omitempty"`
	Size             *string          `json:"size,omitempty"`
	Colors           *string          `json:"colors,omitempty"`
	Markings         *string          `json:"markings,omitempty"`
	Description      *string          `json:"description,omitempty"`
	HealthNotes      *string          `json:"health_notes,omitempty"`
	CareRequirements *string          `json:"care_requirements,omitempty"`
	Status           *string          `json:"status,omitempty"`
	Location         *models.Location `json:"location,omitempty"`
}

type StrayListResponse struct {
	Strays []models.Stray `json:"strays"`
	Total  int64          `json:"total"`
	Limit  int            `json:"limit"`
	Offset int            `json:"offset"`
}
