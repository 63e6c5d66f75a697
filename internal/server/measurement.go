package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	fluidmeterdomain "github.com/mekadomus/aquaflow/internal/fluidmeter/domain"
	measurementdomain "github.com/mekadomus/aquaflow/internal/measurement/domain"
	"github.com/mekadomus/aquaflow/internal/series"
)

const dayFormat = "2006-01-02"

type saveMeasurementRequest struct {
	DeviceID    string `json:"device_id"`
	Measurement string `json:"measurement"`
}

func (s *Server) SaveMeasurement(c *gin.Context) {
	var req saveMeasurementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	resp, err := s.measurementSvc.Save(c.Request.Context(), measurementdomain.SaveRequest{
		DeviceID:    strings.TrimSpace(req.DeviceID),
		Measurement: strings.TrimSpace(req.Measurement),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (s *Server) GetMeasurementSeries(c *gin.Context) {
	meterID, err := fluidmeterdomain.ParseID(strings.TrimSpace(c.Param("meter_id")))
	if err != nil {
		AbortWithError(c, fluidmeterdomain.ErrInvalidID)
		return
	}

	granularity, ok := series.Parse(strings.TrimSpace(c.Query("granularity")))
	if !ok {
		AbortWithError(c, measurementdomain.ErrInvalidGranularity)
		return
	}

	var day *time.Time
	if raw := strings.TrimSpace(c.Query("day")); raw != "" {
		parsed, err := time.ParseInLocation(dayFormat, raw, time.UTC)
		if err != nil {
			AbortWithError(c, newFieldError("day", issueInvalid))
			return
		}
		day = &parsed
	}

	resp, err := s.measurementSvc.Series(c.Request.Context(), measurementdomain.SeriesRequest{
		MeterID:     meterID,
		Granularity: granularity,
		Day:         day,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
