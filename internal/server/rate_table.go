package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	ratetabledomain "github.com/michelevens/insureflow/internal/ratetable/domain"
)

func (s *Server) ListRateTables(c *gin.Context) {
	var req ratetabledomain.ListTablesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.rateTableSvc.List(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetRateTableByID(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	resp, err := s.rateTableSvc.Get(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
