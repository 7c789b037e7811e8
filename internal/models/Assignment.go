package models

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

// Assignment books a train onto a platform between ArrivalTime and
// DepartureTime. Either time may be unset on a record under construction;
// once both are present they must satisfy ValidateAssignmentTimes.
type Assignment struct {
	gorm.Model
	ArrivalTime   *time.Time `json:"arrival_time"`
	DepartureTime *time.Time `json:"departure_time" gorm:"index"`
	TrainID       uint       `json:"train_id" gorm:"index;not null"`
	PlatformID    uint       `json:"platform_id" gorm:"index;not null"`

	Train    *Train    `gorm:"foreignKey:TrainID" json:"train,omitempty"`
	Platform *Platform `gorm:"foreignKey:PlatformID" json:"platform,omitempty"`
}

func NewAssignment(trainID, platformID uint, arrival, departure time.Time) (*Assignment, error) {
	a := &Assignment{TrainID: trainID, PlatformID: platformID}
	if err := a.SetTimes(arrival, departure); err != nil {
		return nil, err
	}
	return a, nil
}

// SetTimes replaces both times at once.
func (a *Assignment) SetTimes(arrival, departure time.Time) error {
	if err := ValidateAssignmentTimes(arrival, departure); err != nil {
		return err
	}
	a.ArrivalTime = &arrival
	a.DepartureTime = &departure
	return nil
}

// SetArrivalTime checks t against the stored departure, if any.
func (a *Assignment) SetArrivalTime(t time.Time) error {
	if a.DepartureTime != nil {
		if err := checkDwell(t, *a.DepartureTime, "arrival_time"); err != nil {
			return err
		}
	}
	a.ArrivalTime = &t
	return nil
}

// SetDepartureTime checks t against the stored arrival, if any.
func (a *Assignment) SetDepartureTime(t time.Time) error {
	if a.ArrivalTime != nil {
		if err := checkDwell(*a.ArrivalTime, t, "departure_time"); err != nil {
			return err
		}
	}
	a.DepartureTime = &t
	return nil
}

// Dwell is the time spent at the platform, zero if either end is unset.
func (a *Assignment) Dwell() time.Duration {
	if a.ArrivalTime == nil || a.DepartureTime == nil {
		return 0
	}
	return a.DepartureTime.Sub(*a.ArrivalTime)
}

func (a *Assignment) Validate() error {
	if a.ArrivalTime == nil || a.DepartureTime == nil {
		return nil
	}
	return ValidateAssignmentTimes(*a.ArrivalTime, *a.DepartureTime)
}

func (a *Assignment) BeforeSave(tx *gorm.DB) error {
	return a.Validate()
}

func (a *Assignment) String() string {
	trainNum := fmt.Sprintf("#%d", a.TrainID)
	if a.Train != nil {
		trainNum = a.Train.TrainNum
	}
	platformNum := fmt.Sprintf("#%d", a.PlatformID)
	if a.Platform != nil {
		platformNum = fmt.Sprintf("%d", a.Platform.PlatformNum)
	}
	return fmt.Sprintf("<Assignment Train No: %s Platform: %s>", trainNum, platformNum)
}
