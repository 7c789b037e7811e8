package models

import (
	"fmt"
	"time"
	"unicode/utf8"
)

const (
	MinStationNameLength = 3

	MinPlatformNum = 1
	MaxPlatformNum = 20

	MinTrainFieldLength = 3
	MaxTrainFieldLength = 24

	// MaxDwell is the longest a train may occupy a platform.
	MaxDwell = 20 * time.Minute
)

// Train fields sharing the length rule, keyed by column name.
var trainFieldLabels = map[string]string{
	"train_num":   "Train number",
	"origin":      "Origin",
	"destination": "Destination",
}

// ValidateStationName rejects names shorter than three characters.
func ValidateStationName(name string) (string, error) {
	if utf8.RuneCountInString(name) < MinStationNameLength {
		return "", invalid("station", "name", "Name must be at least 3 characters long.")
	}
	return name, nil
}

// ValidatePlatformNum accepts platform numbers in [1, 20].
func ValidatePlatformNum(num int) (int, error) {
	if num < MinPlatformNum || num > MaxPlatformNum {
		return 0, invalid("platform", "platform_num", "Platform number must be in range 1-20 (inclusive).")
	}
	return num, nil
}

// ValidateTrainField applies the [3, 24] character rule to train_num,
// origin and destination. The error message names the field.
func ValidateTrainField(key, value string) (string, error) {
	label, ok := trainFieldLabels[key]
	if !ok {
		return "", fmt.Errorf("models: %q is not a train text field", key)
	}
	n := utf8.RuneCountInString(value)
	if n < MinTrainFieldLength || n > MaxTrainFieldLength {
		return "", invalid("train", key, fmt.Sprintf("%s must be between 3 and 24 characters long.", label))
	}
	return value, nil
}

// ValidateServiceType is case-sensitive: only "express" and "local" pass.
func ValidateServiceType(value string) (ServiceType, error) {
	switch st := ServiceType(value); st {
	case ServiceExpress, ServiceLocal:
		return st, nil
	}
	return "", invalid("train", "service_type", "Service type must be either 'express' or 'local'.")
}

// ValidateAssignmentTimes checks an arrival/departure pair as one unit.
func ValidateAssignmentTimes(arrival, departure time.Time) error {
	return checkDwell(arrival, departure, "departure_time")
}

// checkDwell reports failures against field, the one the caller was setting.
func checkDwell(arrival, departure time.Time, field string) error {
	if !departure.After(arrival) {
		return invalid("assignment", field, "Departure time must be after arrival time.")
	}
	if departure.Sub(arrival) > MaxDwell {
		return invalid("assignment", field, "Time at platform must not exceed 20 minutes.")
	}
	return nil
}
