package handlers

import (
	"context"
	"net/http"

	"mockquiz-service/internal/service"

	"github.com/gin-gonic/gin"
)

type UsageHandler struct {
	Service *service.UsageService
}

func NewUsageHandler(s *service.UsageService) *UsageHandler {
	return &UsageHandler{Service: s}
}

// GetMyUsage reports the caller's quota standing for the current period.
func (h *UsageHandler) GetMyUsage(c *gin.Context) {
	userID := c.GetString("userID")
	report, err := h.Service.Report(context.Background(), userID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// GetSubjectPool reports how many unseen questions remain for the caller
// in one subject.
func (h *UsageHandler) GetSubjectPool(c *gin.Context) {
	userID := c.GetString("userID")
	info, err := h.Service.SubjectPool(context.Background(), userID, c.Param("subject"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, info)
}
