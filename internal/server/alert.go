package server

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
)

// RunAlerts triggers one sweep over all active meters. The sweep keeps
// running even if the caller disconnects; a partial run would lose track of
// which owners were already notified.
func (s *Server) RunAlerts(c *gin.Context) {
	ctx := context.WithoutCancel(c.Request.Context())

	if err := s.sweeper.Run(ctx); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
