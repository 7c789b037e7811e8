package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"train_schedule/internal/database"
	"train_schedule/internal/middleware"
	"train_schedule/internal/models"
	"train_schedule/internal/observability/metrics"
)

// Controller holds the dependencies every handler shares.
type Controller struct {
	Store *database.Store
	JWT   *middleware.JWT
	Hub   *BoardHub
}

func New(store *database.Store, jwt *middleware.JWT, hub *BoardHub) *Controller {
	return &Controller{Store: store, JWT: jwt, Hub: hub}
}

// respondError maps store and validation errors onto HTTP statuses.
func respondError(c *gin.Context, what string, err error) {
	var verr *models.ValidationError
	switch {
	case errors.As(err, &verr):
		metrics.IncValidationFailure(verr.Entity, verr.Field)
		logrus.WithFields(logrus.Fields{
			"entity": verr.Entity,
			"field":  verr.Field,
		}).Info(verr.Message)
		c.JSON(http.StatusBadRequest, gin.H{"error": verr.Message, "field": verr.Field})
	case errors.Is(err, database.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": what + " not found"})
	case errors.Is(err, database.ErrReferenceNotFound):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.Is(err, database.ErrInUse):
		c.JSON(http.StatusConflict, gin.H{"error": what + " is still referenced"})
	case errors.Is(err, database.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": what + " already exists"})
	default:
		logrus.WithError(err).WithField("entity", what).Error("Request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal error handling " + what})
	}
}

// paramID parses the :id path parameter, writing a 400 when it is malformed.
func paramID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID"})
		return 0, false
	}
	return uint(id), true
}

// queryID reads an optional numeric query parameter; absent means 0.
func queryID(c *gin.Context, key string) (uint, bool) {
	raw := c.Query(key)
	if raw == "" {
		return 0, true
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + key})
		return 0, false
	}
	return uint(id), true
}

// queryTime reads an optional RFC3339 query parameter.
func queryTime(c *gin.Context, key string) (*time.Time, bool) {
	raw := c.Query(key)
	if raw == "" {
		return nil, true
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + key + ", expected RFC3339"})
		return nil, false
	}
	return &t, true
}
