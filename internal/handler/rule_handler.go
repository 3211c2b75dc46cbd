package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/commercekit/service-promotions/internal/application"
	"github.com/commercekit/service-promotions/internal/auth"
	"github.com/commercekit/service-promotions/internal/middleware"
	"github.com/commercekit/service-promotions/internal/response"
)

// RuleHandler handles HTTP requests for promotion rule operations.
type RuleHandler struct {
	service *application.RuleService
}

// NewRuleHandler creates a new RuleHandler.
func NewRuleHandler(service *application.RuleService) *RuleHandler {
	return &RuleHandler{service: service}
}

// RegisterRoutes registers all rule routes.
func (h *RuleHandler) RegisterRoutes(r *gin.RouterGroup, jwtManager *auth.JWTManager) {
	authMW := middleware.AuthMiddleware(jwtManager)
	adminMW := middleware.RequireRole(auth.RoleAdmin)

	promoRules := r.Group("/promotions/:id/rules")
	promoRules.Use(authMW)
	{
		promoRules.GET("", h.List)
		promoRules.GET("/available", h.ListAvailable)
		promoRules.POST("", adminMW, h.Add)
		promoRules.DELETE("/:predicate", adminMW, h.Remove)
	}
}

// List handles GET /api/v1/promotions/:id/rules.
func (h *RuleHandler) List(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid promotion id")
		return
	}

	result, err := h.service.ListRules(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// ListAvailable handles GET /api/v1/promotions/:id/rules/available.
func (h *RuleHandler) ListAvailable(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid promotion id")
		return
	}

	result, err := h.service.ListAvailable(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// Add handles POST /api/v1/promotions/:id/rules.
func (h *RuleHandler) Add(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid promotion id")
		return
	}

	var req application.AddConditionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.AddCondition(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, result)
}

// Remove handles DELETE /api/v1/promotions/:id/rules/:predicate.
func (h *RuleHandler) Remove(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid promotion id")
		return
	}

	result, err := h.service.RemoveCondition(c.Request.Context(), id, c.Param("predicate"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}
