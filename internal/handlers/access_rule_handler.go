package handlers

import (
	"context"
	"net/http"

	"mockquiz-service/internal/service"

	"github.com/gin-gonic/gin"
)

type AccessRuleHandler struct {
	Service *service.AccessRuleService
}

func NewAccessRuleHandler(s *service.AccessRuleService) *AccessRuleHandler {
	return &AccessRuleHandler{Service: s}
}

func (h *AccessRuleHandler) CreateRule(c *gin.Context) {
	var req service.CreateAccessRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}
	rule, err := h.Service.CreateRule(context.Background(), &req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, rule)
}

func (h *AccessRuleHandler) ListRules(c *gin.Context) {
	rules, err := h.Service.ListRules(context.Background())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, rules)
}

func (h *AccessRuleHandler) GetRule(c *gin.Context) {
	rule, err := h.Service.GetRule(context.Background(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, rule)
}

func (h *AccessRuleHandler) UpdateRule(c *gin.Context) {
	var update map[string]interface{}
	if err := c.ShouldBindJSON(&update); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}
	if err := h.Service.UpdateRule(context.Background(), c.Param("id"), update); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "updated"})
}

func (h *AccessRuleHandler) DeactivateRule(c *gin.Context) {
	if err := h.Service.DeactivateRule(context.Background(), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "deactivated"})
}

// ListMyEnrollments lets a student see which series their quota rules can
// match against.
func (h *AccessRuleHandler) ListMyEnrollments(c *gin.Context) {
	userID := c.GetString("userID")
	enrollments, err := h.Service.ListEnrollments(context.Background(), userID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, enrollments)
}
