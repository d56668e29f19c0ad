package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	ratingdomain "github.com/michelevens/insureflow/internal/rating/domain"
)

// CreateRatingRun rates one input. An ineligible applicant is a normal 200
// response with eligible=false; only validation and system failures map to
// error statuses.
func (s *Server) CreateRatingRun(c *gin.Context) {
	var req ratingdomain.RateInput
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	req.ProductType = strings.TrimSpace(req.ProductType)
	if req.ProductType == "" {
		AbortWithError(c, newValidationError("product_type", "required", "product_type is required"))
		return
	}
	c.Set("product_type", req.ProductType)

	resp, err := s.ratingSvc.Rate(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetRatingRunByID(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	resp, err := s.ratingSvc.GetRun(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListRatingRuns(c *gin.Context) {
	var req ratingdomain.ListRunsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.ratingSvc.ListRuns(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
