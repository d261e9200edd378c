package dto

import (
	"time"

	"github.com/straytracker/stray-tracker-backend/internal/models"
)

// CreateSightingRequest reports one observation. When StrayID is zero a new
// stray is created, which requires Species and AnimalSize.
type CreateSightingRequest struct {
	StrayID      uint       `json:"stray_id,omitempty"`
	Species      string     `json:"species,omitempty"`
	AnimalSize   string     `json:"animal_size,omitempty"`
	StrayName    string     `json:"stray_name,omitempty"`
	Lat          float64    `json:"lat"`
	Lng          float64    `json:"lng"`
	Location     *Address   `json:"location,omitempty"`
	Description  string     `json:"description,omitempty"`
	SightingTime *time.Time `json:"sighting_time,omitempty"`
	ImageKeys    []string   `json:"image_keys,omitempty"`
}

type Address struct {
	Address1 string `json:"address1,omitempty"`
	City     string `json:"city,omitempty"`
	Postcode string `json:"postcode,omitempty"`
	Country  string `json:"country,omitempty"`
}

type UpdateSightingRequest struct {
	StrayID      *uint      `json:"stray_id,omitempty"`
	Lat          *float64   `json:"lat,omitempty"`
	Lng          *float64   `json:"lng,omitempty"`
	Address1     *string    `json:"address1,omitempty"`
	City         *string    `json:"city,omitempty"`
	Postcode     *string    `json:"postcode,omitempty"`
	Country      *string    `json:"country,omitempty"`
	Description  *string    `json:"description,omitempty"`
	SightingTime *time.Time `json:"sighting_time,omitempty"`
}

// PhotoOutcome reports what happened to one staged image key during
// finalization. Skipped and failed keys never abort the sighting.
type PhotoOutcome struct {
	Key    string `json:"key"`
	Status string `json:"status"` // attached | skipped | failed
	Reason string `json:"reason,omitempty"`
}

type CreateSightingResponse struct {
	Sighting *models.Sighting `json:"sighting"`
	Photos   []PhotoOutcome   `json:"photos,omitempty"`
}

// NearbySighting is one in-radius sighting with its distance from the query center.
type NearbySighting struct {
	Sighting   *models.Sighting `json:"sighting"`
	DistanceKm float64          `json:"distance_km"`
}
