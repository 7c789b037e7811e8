package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"train_schedule/internal/database"
	"train_schedule/internal/models"
)

// StationResponse mirrors models.Station with the location as GeoJSON.
type StationResponse struct {
	ID        uint              `json:"id"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
	DeletedAt gorm.DeletedAt    `json:"deleted_at,omitempty"`
	Name      string            `json:"name"`
	City      string            `json:"city"`
	Location  string            `json:"location,omitempty"`
	Platforms []models.Platform `json:"platforms,omitempty"`
}

func toStationResponse(s models.Station) StationResponse {
	return StationResponse{
		ID:        s.ID,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
		DeletedAt: s.DeletedAt,
		Name:      s.Name,
		City:      s.City,
		Location:  s.LocationGeoJSON(),
		Platforms: s.Platforms,
	}
}

type stationInput struct {
	Name     *string `json:"name"`
	City     *string `json:"city"`
	Location *string `json:"location"` // GeoJSON Point, "" clears
}

// apply copies the provided fields onto s, stopping at the first invalid one.
func (in stationInput) apply(s *models.Station) error {
	if in.Name != nil {
		if err := s.SetName(*in.Name); err != nil {
			return err
		}
	}
	if in.City != nil {
		s.City = *in.City
	}
	if in.Location != nil {
		if err := s.SetLocation(*in.Location); err != nil {
			return err
		}
	}
	return nil
}

// CreateStation registers a new station.
func (ctl *Controller) CreateStation(c *gin.Context) {
	var input stationInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	name := ""
	if input.Name != nil {
		name = *input.Name
	}
	station, err := models.NewStation(name, "")
	if err != nil {
		respondError(c, "station", err)
		return
	}
	if err := input.apply(station); err != nil {
		respondError(c, "station", err)
		return
	}

	if err := ctl.Store.CreateStation(c.Request.Context(), station); err != nil {
		respondError(c, "station", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"station": toStationResponse(*station)})
}

// GetStation returns a station with its platforms.
func (ctl *Controller) GetStation(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	station, err := ctl.Store.GetStation(c.Request.Context(), id)
	if err != nil {
		respondError(c, "station", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"station": toStationResponse(*station)})
}

// ListStations lists stations, optionally filtered by ?city=.
func (ctl *Controller) ListStations(c *gin.Context) {
	stations, err := ctl.Store.ListStations(c.Request.Context(), c.Query("city"))
	if err != nil {
		respondError(c, "station", err)
		return
	}
	out := make([]StationResponse, 0, len(stations))
	for _, s := range stations {
		out = append(out, toStationResponse(s))
	}
	c.JSON(http.StatusOK, gin.H{"data": out})
}

// UpdateStation modifies an existing station.
func (ctl *Controller) UpdateStation(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	station, err := ctl.Store.GetStation(ctx, id)
	if err != nil {
		respondError(c, "station", err)
		return
	}

	var input stationInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := input.apply(station); err != nil {
		respondError(c, "station", err)
		return
	}

	if err := ctl.Store.UpdateStation(ctx, station); err != nil {
		respondError(c, "station", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"station": toStationResponse(*station)})
}

// DeleteStation removes a station that no platform references.
func (ctl *Controller) DeleteStation(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	if err := ctl.Store.DeleteStation(c.Request.Context(), id); err != nil {
		respondError(c, "station", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Station deleted"})
}

// ListStationPlatforms lists the platforms of one station.
func (ctl *Controller) ListStationPlatforms(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	if _, err := ctl.Store.GetStation(ctx, id); err != nil {
		respondError(c, "station", err)
		return
	}
	platforms, err := ctl.Store.ListPlatforms(ctx, id)
	if err != nil {
		respondError(c, "platform", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": platforms})
}

// GetStationBoard lists the assignments at a station in arrival order,
// optionally limited to the ?from=&to= window.
func (ctl *Controller) GetStationBoard(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	from, ok := queryTime(c, "from")
	if !ok {
		return
	}
	to, ok := queryTime(c, "to")
	if !ok {
		return
	}

	ctx := c.Request.Context()
	station, err := ctl.Store.GetStation(ctx, id)
	if err != nil {
		respondError(c, "station", err)
		return
	}
	assignments, err := ctl.Store.ListAssignments(ctx, database.AssignmentFilter{StationID: id, From: from, To: to})
	if err != nil {
		respondError(c, "assignment", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"station":     toStationResponse(*station),
		"assignments": assignments,
	})
}
