package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/commercekit/service-promotions/internal/application"
	"github.com/commercekit/service-promotions/internal/auth"
	"github.com/commercekit/service-promotions/internal/domain/promotion"
	"github.com/commercekit/service-promotions/internal/middleware"
	"github.com/commercekit/service-promotions/internal/registry"
	"github.com/commercekit/service-promotions/internal/response"
)

// PromotionHandler handles HTTP requests for promotion operations.
type PromotionHandler struct {
	service *application.PromotionService
	rules   *application.RuleService
}

// NewPromotionHandler creates a new PromotionHandler.
func NewPromotionHandler(service *application.PromotionService, rules *application.RuleService) *PromotionHandler {
	return &PromotionHandler{service: service, rules: rules}
}

// promotionDetailResponse is the detail payload: the promotion with its
// variant rows plus the decoded activation rules.
type promotionDetailResponse struct {
	*application.PromotionDetailDTO
	Rules []application.RuleDTO `json:"rules"`
}

// RegisterRoutes registers all promotion routes.
func (h *PromotionHandler) RegisterRoutes(r *gin.RouterGroup, jwtManager *auth.JWTManager) {
	authMW := middleware.AuthMiddleware(jwtManager)
	adminMW := middleware.RequireRole(auth.RoleAdmin)

	promotions := r.Group("/promotions")
	promotions.Use(authMW)
	{
		promotions.GET("", h.List)
		promotions.GET("/:id", h.Get)
		promotions.POST("/new/:slug", adminMW, h.Create)
		promotions.PATCH("/:id", adminMW, h.Update)
		promotions.POST("/:id/toggle", adminMW, h.Toggle)
	}
}

// List handles GET /api/v1/promotions.
func (h *PromotionHandler) List(c *gin.Context) {
	filter := promotion.ListFilter{
		Search: c.Query("search"),
	}
	filter.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	filter.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "25"))

	if slug := c.Query("type"); slug != "" {
		cfg := registry.ConfigBySlug(slug)
		if cfg == nil {
			response.NotFound(c, "unknown promotion type")
			return
		}
		filter.Type = cfg.Type
	}

	result, total, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Paginated(c, result, total, filter.Page, filter.Limit)
}

// Get handles GET /api/v1/promotions/:id.
func (h *PromotionHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid promotion id")
		return
	}

	result, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	ruleDTOs, err := h.rules.ListRules(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, promotionDetailResponse{
		PromotionDetailDTO: result,
		Rules:              ruleDTOs,
	})
}

// Create handles POST /api/v1/promotions/new/:slug.
func (h *PromotionHandler) Create(c *gin.Context) {
	cfg := registry.ConfigBySlug(c.Param("slug"))
	if cfg == nil {
		response.NotFound(c, "unknown promotion type")
		return
	}

	var form registry.Form
	if err := c.ShouldBindJSON(&form); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.Create(c.Request.Context(), *cfg, &form)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, result)
}

// Update handles PATCH /api/v1/promotions/:id.
func (h *PromotionHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid promotion id")
		return
	}

	var form registry.Form
	if err := c.ShouldBindJSON(&form); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.Update(c.Request.Context(), id, &form)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// Toggle handles POST /api/v1/promotions/:id/toggle.
func (h *PromotionHandler) Toggle(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid promotion id")
		return
	}

	result, err := h.service.Toggle(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}
