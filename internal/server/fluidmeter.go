package server

import (
	"context"
	"net/http"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	fluidmeterdomain "github.com/mekadomus/aquaflow/internal/fluidmeter/domain"
	"github.com/mekadomus/aquaflow/pkg/db/pagination"
)

type createFluidMeterRequest struct {
	OwnerID string `json:"owner_id"`
	Name    string `json:"name"`
}

func (s *Server) CreateFluidMeter(c *gin.Context) {
	var req createFluidMeterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	resp, err := s.meterSvc.Create(c.Request.Context(), fluidmeterdomain.CreateRequest{
		OwnerID: strings.TrimSpace(req.OwnerID),
		Name:    strings.TrimSpace(req.Name),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (s *Server) ListFluidMeters(c *gin.Context) {
	var query struct {
		pagination.Pagination
		OwnerID string `form:"owner_id"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	resp, err := s.meterSvc.List(c.Request.Context(), fluidmeterdomain.ListRequest{
		OwnerID:   strings.TrimSpace(query.OwnerID),
		PageToken: strings.TrimSpace(query.PageToken),
		PageSize:  query.PageSize,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (s *Server) GetFluidMeterByID(c *gin.Context) {
	id, err := fluidmeterdomain.ParseID(strings.TrimSpace(c.Param("meter_id")))
	if err != nil {
		AbortWithError(c, fluidmeterdomain.ErrInvalidID)
		return
	}

	resp, err := s.meterSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	if resp == nil {
		AbortWithError(c, fluidmeterdomain.ErrNotFound)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (s *Server) ActivateFluidMeter(c *gin.Context) {
	s.setFluidMeterStatus(c, s.meterSvc.Activate)
}

func (s *Server) DeactivateFluidMeter(c *gin.Context) {
	s.setFluidMeterStatus(c, s.meterSvc.Deactivate)
}

func (s *Server) setFluidMeterStatus(c *gin.Context, op func(ctx context.Context, id snowflake.ID) (*fluidmeterdomain.FluidMeter, error)) {
	id, err := fluidmeterdomain.ParseID(strings.TrimSpace(c.Param("meter_id")))
	if err != nil {
		AbortWithError(c, fluidmeterdomain.ErrInvalidID)
		return
	}

	resp, err := op(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (s *Server) DeleteFluidMeter(c *gin.Context) {
	id, err := fluidmeterdomain.ParseID(strings.TrimSpace(c.Param("meter_id")))
	if err != nil {
		AbortWithError(c, fluidmeterdomain.ErrInvalidID)
		return
	}

	if err := s.meterSvc.Delete(c.Request.Context(), id); err != nil {
		AbortWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
