package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/commercekit/service-promotions/internal/application"
	"github.com/commercekit/service-promotions/internal/auth"
	"github.com/commercekit/service-promotions/internal/middleware"
	"github.com/commercekit/service-promotions/internal/registry"
	"github.com/commercekit/service-promotions/internal/response"
)

// CatalogHandler serves the pickers backing the rule builder and the
// promotion type index.
type CatalogHandler struct {
	service *application.CatalogService
}

// NewCatalogHandler creates a new CatalogHandler.
func NewCatalogHandler(service *application.CatalogService) *CatalogHandler {
	return &CatalogHandler{service: service}
}

// RegisterRoutes registers all catalog routes.
func (h *CatalogHandler) RegisterRoutes(r *gin.RouterGroup, jwtManager *auth.JWTManager) {
	authMW := middleware.AuthMiddleware(jwtManager)

	r.GET("/promotion-types", authMW, h.ListPromotionTypes)
	r.GET("/markets", authMW, h.ListMarkets)
	r.GET("/tags", authMW, h.ListTags)
}

// promotionTypeDTO is one entry of the promotion type index.
type promotionTypeDTO struct {
	Type      string `json:"type"`
	Slug      string `json:"slug"`
	Icon      string `json:"icon"`
	TitleList string `json:"title_list"`
	TitleNew  string `json:"title_new"`
}

// ListPromotionTypes handles GET /api/v1/promotion-types.
func (h *CatalogHandler) ListPromotionTypes(c *gin.Context) {
	configs := registry.All()
	out := make([]promotionTypeDTO, len(configs))
	for i, cfg := range configs {
		out[i] = promotionTypeDTO{
			Type:      string(cfg.Type),
			Slug:      cfg.Slug,
			Icon:      cfg.Icon,
			TitleList: cfg.TitleList,
			TitleNew:  cfg.TitleNew,
		}
	}
	response.Success(c, out)
}

// ListMarkets handles GET /api/v1/markets.
func (h *CatalogHandler) ListMarkets(c *gin.Context) {
	result, err := h.service.ListMarkets(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// ListTags handles GET /api/v1/tags.
func (h *CatalogHandler) ListTags(c *gin.Context) {
	result, err := h.service.ListTags(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}
