package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"train_schedule/internal/models"
)

// CreatePlatform adds a numbered platform to an existing station.
func (ctl *Controller) CreatePlatform(c *gin.Context) {
	var input struct {
		PlatformNum int  `json:"platform_num"`
		StationID   uint `json:"station_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid platform input: " + err.Error()})
		return
	}

	platform, err := models.NewPlatform(input.StationID, input.PlatformNum)
	if err != nil {
		respondError(c, "platform", err)
		return
	}
	if err := ctl.Store.CreatePlatform(c.Request.Context(), platform); err != nil {
		respondError(c, "platform", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"platform": platform})
}

func (ctl *Controller) GetPlatform(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	platform, err := ctl.Store.GetPlatform(c.Request.Context(), id)
	if err != nil {
		respondError(c, "platform", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"platform": platform})
}

// ListPlatforms lists platforms, optionally filtered by ?station_id=.
func (ctl *Controller) ListPlatforms(c *gin.Context) {
	stationID, ok := queryID(c, "station_id")
	if !ok {
		return
	}
	platforms, err := ctl.Store.ListPlatforms(c.Request.Context(), stationID)
	if err != nil {
		respondError(c, "platform", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": platforms})
}

// UpdatePlatform renumbers a platform or moves it to another station.
func (ctl *Controller) UpdatePlatform(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	platform, err := ctl.Store.GetPlatform(ctx, id)
	if err != nil {
		respondError(c, "platform", err)
		return
	}

	var input struct {
		PlatformNum *int  `json:"platform_num"`
		StationID   *uint `json:"station_id"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if input.PlatformNum != nil {
		if err := platform.SetPlatformNum(*input.PlatformNum); err != nil {
			respondError(c, "platform", err)
			return
		}
	}
	if input.StationID != nil && *input.StationID != platform.StationID {
		platform.StationID = *input.StationID
		platform.Station = nil
	}

	if err := ctl.Store.UpdatePlatform(ctx, platform); err != nil {
		respondError(c, "platform", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"platform": platform})
}

// DeletePlatform removes a platform with no assignments.
func (ctl *Controller) DeletePlatform(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	if err := ctl.Store.DeletePlatform(c.Request.Context(), id); err != nil {
		respondError(c, "platform", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Platform deleted"})
}
