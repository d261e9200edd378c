package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Species values.
var StraySpecies = []string{"cat", "dog", "other"}

// Size brackets. Size is required on every stray.
var StraySizes = []string{"small", "medium", "large"}

// Age brackets, optional.
var StrayAges = []string{"puppy", "young", "adult", "senior"}

// Status values. New strays start as "spotted".
var StrayStatuses = []string{"spotted", "being_cared_for", "adopted", "deceased"}

// Location is a stray's primary location, stored as a jsonb value.
type Location struct {
	Lat          float64 `json:"lat"`
	Lng          float64 `json:"lng"`
	Address      string  `json:"address,omitempty"`
	Neighborhood string  `json:"neighborhood,omitempty"`
}

// Stray is one distinct tracked animal. Species and size are always present
// once a stray exists; everything else accrues over time from sightings and
// the community.
type Stray struct {
	ID               uint                          `gorm:"primaryKey" json:"id"`
	Name             string                        `gorm:"size:100" json:"name,omitempty"`
	Species          string                        `gorm:"size:20;not null;index" json:"species"`
	Breed            string                        `gorm:"size:100" json:"breed,omitempty"`
	AgeBracket       string                        `gorm:"size:20" json:"age_bracket,omitempty"`
	Size             string                        `gorm:"size:20;not null" json:"size"`
	Colors           string                        `gorm:"size:200" json:"colors,omitempty"`
	Markings         string                        `gorm:"type:text" json:"markings,omitempty"`
	Description      string                        `gorm:"type:text" json:"description,omitempty"`
	HealthNotes      string                        `gorm:"type:text" json:"health_notes,omitempty"`
	CareRequirements string                        `gorm:"type:text" json:"care_requirements,omitempty"`
	Status           string                        `gorm:"size:30;default:'spotted';index" json:"status"`
	Location         *datatypes.JSONType[Location] `gorm:"type:jsonb" json:"location,omitempty"`
	CaretakerID      *uuid.UUID                    `gorm:"type:uuid" json:"caretaker_id,omitempty"`
	Caretaker        *User                         `gorm:"foreignKey:CaretakerID" json:"caretaker,omitempty"`
	CreatedAt        time.Time                     `json:"created_at"`
	UpdatedAt        time.Time                     `gorm:"index" json:"updated_at"`

	Sightings []Sighting `gorm:"foreignKey:StrayID" json:"sightings,omitempty"`
}

func ValidSpecies(s string) bool { return contains(StraySpecies, s) }
func ValidSize(s string) bool    { return contains(StraySizes, s) }
func ValidAge(s string) bool     { return contains(StrayAges, s) }
func ValidStatus(s string) bool  { return contains(StrayStatuses, s) }

func contains(list []string, val string) bool {
	for _, item := range list {
		if item == val {
			return true
		}
	}
	return false
}
