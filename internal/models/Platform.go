package models

import (
	"fmt"

	"gorm.io/gorm"
)

// Platform is a numbered track at a station.
type Platform struct {
	gorm.Model
	PlatformNum int  `json:"platform_num" gorm:"not null"`
	StationID   uint `json:"station_id" gorm:"index;not null"`

	Station     *Station     `gorm:"foreignKey:StationID" json:"station,omitempty"`
	Assignments []Assignment `gorm:"foreignKey:PlatformID" json:"assignments,omitempty"`
}

func NewPlatform(stationID uint, num int) (*Platform, error) {
	p := &Platform{StationID: stationID}
	if err := p.SetPlatformNum(num); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Platform) SetPlatformNum(num int) error {
	v, err := ValidatePlatformNum(num)
	if err != nil {
		return err
	}
	p.PlatformNum = v
	return nil
}

func (p *Platform) Validate() error {
	_, err := ValidatePlatformNum(p.PlatformNum)
	return err
}

func (p *Platform) BeforeSave(tx *gorm.DB) error {
	return p.Validate()
}

func (p *Platform) String() string {
	return fmt.Sprintf("<Platform %d>", p.PlatformNum)
}
