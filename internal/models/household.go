// ABOUTME: Household is the tenancy root holding language pair and timezone settings
// ABOUTME: The pipeline only reads households; creation is a collaborator concern
package models

import (
	"errors"
	"time"
)

// Household carries the per-tenant settings the pipeline reads: the
// language pair for the two speaker roles and the IANA timezone used
// for all local-date boundary computations.
type Household struct {
	HouseholdID string    `json:"household_id"`
	Name        string    `json:"name"`
	LangA       string    `json:"lang_a"` // initiator's language
	LangB       string    `json:"lang_b"` // reply party's language
	Timezone    string    `json:"timezone"`
	CreatedAt   time.Time `json:"created_at"`
}

// NewHousehold creates a Household with defaults applied.
func NewHousehold(name, langA, langB, timezone string) (*Household, error) {
	if name == "" {
		return nil, errors.New("household name cannot be empty")
	}
	if langA == "" {
		langA = "en"
	}
	if langB == "" {
		langB = "zh"
	}
	if timezone == "" {
		timezone = "UTC"
	}
	if _, err := time.LoadLocation(timezone); err != nil {
		return nil, err
	}
	return &Household{
		HouseholdID: generateID("hh"),
		Name:        name,
		LangA:       langA,
		LangB:       langB,
		Timezone:    timezone,
		CreatedAt:   time.Now().UTC(),
	}, nil
}

// Location resolves the household's IANA timezone.
func (h *Household) Location() (*time.Location, error) {
	return time.LoadLocation(h.Timezone)
}
