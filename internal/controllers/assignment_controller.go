package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"train_schedule/internal/database"
	"train_schedule/internal/models"
)

const (
	EventAssignmentCreated = "assignment.created"
	EventAssignmentUpdated = "assignment.updated"
	EventAssignmentDeleted = "assignment.deleted"
)

// CreateAssignment books a train onto a platform. Both times are required
// and validated together.
func (ctl *Controller) CreateAssignment(c *gin.Context) {
	var input struct {
		TrainID       uint       `json:"train_id" binding:"required"`
		PlatformID    uint       `json:"platform_id" binding:"required"`
		ArrivalTime   *time.Time `json:"arrival_time" binding:"required"`
		DepartureTime *time.Time `json:"departure_time" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid assignment input: " + err.Error()})
		return
	}

	assignment, err := models.NewAssignment(input.TrainID, input.PlatformID, *input.ArrivalTime, *input.DepartureTime)
	if err != nil {
		respondError(c, "assignment", err)
		return
	}

	ctx := c.Request.Context()
	if err := ctl.Store.CreateAssignment(ctx, assignment); err != nil {
		respondError(c, "assignment", err)
		return
	}

	// Reload for the train and platform in the response and the broadcast.
	full, err := ctl.Store.GetAssignment(ctx, assignment.ID)
	if err != nil {
		respondError(c, "assignment", err)
		return
	}
	ctl.publish(EventAssignmentCreated, full)
	c.JSON(http.StatusCreated, gin.H{"assignment": full})
}

func (ctl *Controller) GetAssignment(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	assignment, err := ctl.Store.GetAssignment(c.Request.Context(), id)
	if err != nil {
		respondError(c, "assignment", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"assignment": assignment})
}

// ListAssignments filters by ?platform_id=, ?train_id=, ?station_id=,
// ?from= and ?to=.
func (ctl *Controller) ListAssignments(c *gin.Context) {
	var f database.AssignmentFilter
	var ok bool
	if f.PlatformID, ok = queryID(c, "platform_id"); !ok {
		return
	}
	if f.TrainID, ok = queryID(c, "train_id"); !ok {
		return
	}
	if f.StationID, ok = queryID(c, "station_id"); !ok {
		return
	}
	if f.From, ok = queryTime(c, "from"); !ok {
		return
	}
	if f.To, ok = queryTime(c, "to"); !ok {
		return
	}

	assignments, err := ctl.Store.ListAssignments(c.Request.Context(), f)
	if err != nil {
		respondError(c, "assignment", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": assignments})
}

// UpdateAssignment changes times or references. When both times are sent
// they are applied as one pair; a single time is checked against the
// stored counterpart.
func (ctl *Controller) UpdateAssignment(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	assignment, err := ctl.Store.GetAssignment(ctx, id)
	if err != nil {
		respondError(c, "assignment", err)
		return
	}
	prevStationID := stationOf(assignment)

	var input struct {
		TrainID       *uint      `json:"train_id"`
		PlatformID    *uint      `json:"platform_id"`
		ArrivalTime   *time.Time `json:"arrival_time"`
		DepartureTime *time.Time `json:"departure_time"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	switch {
	case input.ArrivalTime != nil && input.DepartureTime != nil:
		err = assignment.SetTimes(*input.ArrivalTime, *input.DepartureTime)
	case input.ArrivalTime != nil:
		err = assignment.SetArrivalTime(*input.ArrivalTime)
	case input.DepartureTime != nil:
		err = assignment.SetDepartureTime(*input.DepartureTime)
	}
	if err != nil {
		respondError(c, "assignment", err)
		return
	}
	if input.TrainID != nil {
		assignment.TrainID = *input.TrainID
		assignment.Train = nil
	}
	if input.PlatformID != nil {
		assignment.PlatformID = *input.PlatformID
		assignment.Platform = nil
	}

	if err := ctl.Store.UpdateAssignment(ctx, assignment); err != nil {
		respondError(c, "assignment", err)
		return
	}

	full, err := ctl.Store.GetAssignment(ctx, id)
	if err != nil {
		respondError(c, "assignment", err)
		return
	}
	if ctl.Hub != nil && prevStationID != 0 && prevStationID != stationOf(full) {
		// Moved away: the old board sees it disappear.
		ctl.Hub.Publish(BoardEvent{Type: EventAssignmentDeleted, StationID: prevStationID, Assignment: full})
	}
	ctl.publish(EventAssignmentUpdated, full)
	c.JSON(http.StatusOK, gin.H{"assignment": full})
}

func (ctl *Controller) DeleteAssignment(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	assignment, err := ctl.Store.GetAssignment(ctx, id)
	if err != nil {
		respondError(c, "assignment", err)
		return
	}
	if err := ctl.Store.DeleteAssignment(ctx, id); err != nil {
		respondError(c, "assignment", err)
		return
	}
	ctl.publish(EventAssignmentDeleted, assignment)
	c.JSON(http.StatusOK, gin.H{"message": "Assignment deleted"})
}

func stationOf(a *models.Assignment) uint {
	if a.Platform == nil {
		return 0
	}
	return a.Platform.StationID
}

func (ctl *Controller) publish(eventType string, a *models.Assignment) {
	if ctl.Hub == nil {
		return
	}
	stationID := stationOf(a)
	if stationID == 0 {
		logrus.WithField("assignment_id", a.ID).Warn("Assignment has no platform loaded, skipping board broadcast")
		return
	}
	ctl.Hub.Publish(BoardEvent{Type: eventType, StationID: stationID, Assignment: a})
}
