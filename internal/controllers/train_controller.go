package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"train_schedule/internal/models"
)

type trainInput struct {
	TrainNum    *string `json:"train_num"`
	ServiceType *string `json:"service_type"`
	Origin      *string `json:"origin"`
	Destination *string `json:"destination"`
}

func (in trainInput) apply(t *models.Train) error {
	if in.TrainNum != nil {
		if err := t.SetTrainNum(*in.TrainNum); err != nil {
			return err
		}
	}
	if in.ServiceType != nil {
		if err := t.SetServiceType(*in.ServiceType); err != nil {
			return err
		}
	}
	if in.Origin != nil {
		if err := t.SetOrigin(*in.Origin); err != nil {
			return err
		}
	}
	if in.Destination != nil {
		if err := t.SetDestination(*in.Destination); err != nil {
			return err
		}
	}
	return nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// CreateTrain registers a train. All four fields are validated.
func (ctl *Controller) CreateTrain(c *gin.Context) {
	var input trainInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid train input: " + err.Error()})
		return
	}

	train, err := models.NewTrain(deref(input.TrainNum), deref(input.ServiceType), deref(input.Origin), deref(input.Destination))
	if err != nil {
		respondError(c, "train", err)
		return
	}
	if err := ctl.Store.CreateTrain(c.Request.Context(), train); err != nil {
		respondError(c, "train", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"train": train})
}

func (ctl *Controller) GetTrain(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	train, err := ctl.Store.GetTrain(c.Request.Context(), id)
	if err != nil {
		respondError(c, "train", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"train": train})
}

// ListTrains lists trains, optionally filtered by ?service_type=.
func (ctl *Controller) ListTrains(c *gin.Context) {
	trains, err := ctl.Store.ListTrains(c.Request.Context(), c.Query("service_type"))
	if err != nil {
		respondError(c, "train", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": trains})
}

func (ctl *Controller) UpdateTrain(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	train, err := ctl.Store.GetTrain(ctx, id)
	if err != nil {
		respondError(c, "train", err)
		return
	}

	var input trainInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := input.apply(train); err != nil {
		respondError(c, "train", err)
		return
	}

	if err := ctl.Store.UpdateTrain(ctx, train); err != nil {
		respondError(c, "train", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"train": train})
}

func (ctl *Controller) DeleteTrain(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	if err := ctl.Store.DeleteTrain(c.Request.Context(), id); err != nil {
		respondError(c, "train", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Train deleted"})
}
