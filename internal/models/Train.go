package models

import (
	"fmt"

	"gorm.io/gorm"
)

type ServiceType string

const (
	ServiceExpress ServiceType = "express"
	ServiceLocal   ServiceType = "local"
)

// Train is a scheduled service running from Origin to Destination.
type Train struct {
	gorm.Model
	TrainNum    string      `json:"train_num" gorm:"size:24;not null"`
	ServiceType ServiceType `json:"service_type" gorm:"size:16;not null"`
	Origin      string      `json:"origin" gorm:"size:24;not null"`
	Destination string      `json:"destination" gorm:"size:24;not null"`

	Assignments []Assignment `gorm:"foreignKey:TrainID" json:"assignments,omitempty"`
}

// NewTrain validates every field; the first failure wins.
func NewTrain(trainNum, serviceType, origin, destination string) (*Train, error) {
	t := &Train{}
	if err := t.SetTrainNum(trainNum); err != nil {
		return nil, err
	}
	if err := t.SetServiceType(serviceType); err != nil {
		return nil, err
	}
	if err := t.SetOrigin(origin); err != nil {
		return nil, err
	}
	if err := t.SetDestination(destination); err != nil {
		return nil, err
	}
	return t, nil
}

func (t *Train) SetTrainNum(v string) error {
	return t.setText("train_num", &t.TrainNum, v)
}

func (t *Train) SetOrigin(v string) error {
	return t.setText("origin", &t.Origin, v)
}

func (t *Train) SetDestination(v string) error {
	return t.setText("destination", &t.Destination, v)
}

func (t *Train) setText(key string, dst *string, v string) error {
	ok, err := ValidateTrainField(key, v)
	if err != nil {
		return err
	}
	*dst = ok
	return nil
}

func (t *Train) SetServiceType(v string) error {
	st, err := ValidateServiceType(v)
	if err != nil {
		return err
	}
	t.ServiceType = st
	return nil
}

func (t *Train) Validate() error {
	fields := []struct{ key, value string }{
		{"train_num", t.TrainNum},
		{"origin", t.Origin},
		{"destination", t.Destination},
	}
	for _, f := range fields {
		if _, err := ValidateTrainField(f.key, f.value); err != nil {
			return err
		}
	}
	_, err := ValidateServiceType(string(t.ServiceType))
	return err
}

func (t *Train) BeforeSave(tx *gorm.DB) error {
	return t.Validate()
}

func (t *Train) String() string {
	return fmt.Sprintf("<Train %s>", t.TrainNum)
}
