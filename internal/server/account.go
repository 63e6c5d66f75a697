package server

import (
	"net/http"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	accountdomain "github.com/mekadomus/aquaflow/internal/account/domain"
)

type createAccountRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

func (s *Server) CreateAccount(c *gin.Context) {
	var req createAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	resp, err := s.accountSvc.Create(c.Request.Context(), accountdomain.CreateRequest{
		Name:  strings.TrimSpace(req.Name),
		Email: strings.TrimSpace(req.Email),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (s *Server) GetAccountByID(c *gin.Context) {
	id, err := snowflake.ParseString(strings.TrimSpace(c.Param("account_id")))
	if err != nil {
		AbortWithError(c, accountdomain.ErrInvalidID)
		return
	}

	resp, err := s.accountSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	if resp == nil {
		AbortWithError(c, accountdomain.ErrNotFound)
		return
	}

	c.JSON(http.StatusOK, resp)
}
