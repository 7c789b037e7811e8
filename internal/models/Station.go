package models

import (
	"fmt"

	"gorm.io/gorm"
)

// Station is a named stop in a city. Platforms hang off it.
type Station struct {
	gorm.Model
	Name string `json:"name" gorm:"type:text;not null"`
	City string `json:"city" gorm:"type:text"`

	// Location is a WKB-encoded point; the API speaks GeoJSON.
	Location []byte `json:"-"`

	Platforms []Platform `gorm:"foreignKey:StationID" json:"platforms,omitempty"`
}

// NewStation builds a validated station.
func NewStation(name, city string) (*Station, error) {
	s := &Station{City: city}
	if err := s.SetName(name); err != nil {
		return nil, err
	}
	return s, nil
}

// SetName assigns name if it passes ValidateStationName.
func (s *Station) SetName(name string) error {
	v, err := ValidateStationName(name)
	if err != nil {
		return err
	}
	s.Name = v
	return nil
}

// SetLocation stores a GeoJSON Point. An empty string clears it.
func (s *Station) SetLocation(geoJSON string) error {
	b, err := parsePoint(geoJSON)
	if err != nil {
		return err
	}
	s.Location = b
	return nil
}

// LocationGeoJSON returns the stored location as GeoJSON, or "" if unset.
func (s *Station) LocationGeoJSON() string {
	out, _ := pointToGeoJSON(s.Location)
	return out
}

func (s *Station) Validate() error {
	_, err := ValidateStationName(s.Name)
	return err
}

// BeforeSave keeps invalid stations out of the database.
func (s *Station) BeforeSave(tx *gorm.DB) error {
	return s.Validate()
}

func (s *Station) String() string {
	return fmt.Sprintf("<Station %s>", s.Name)
}
