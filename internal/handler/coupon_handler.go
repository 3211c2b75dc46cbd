package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/commercekit/service-promotions/internal/application"
	"github.com/commercekit/service-promotions/internal/auth"
	"github.com/commercekit/service-promotions/internal/middleware"
	"github.com/commercekit/service-promotions/internal/response"
)

// CouponHandler handles HTTP requests for coupon operations.
type CouponHandler struct {
	service *application.CouponService
}

// NewCouponHandler creates a new CouponHandler.
func NewCouponHandler(service *application.CouponService) *CouponHandler {
	return &CouponHandler{service: service}
}

// RegisterRoutes registers all coupon routes.
func (h *CouponHandler) RegisterRoutes(r *gin.RouterGroup, jwtManager *auth.JWTManager) {
	authMW := middleware.AuthMiddleware(jwtManager)
	adminMW := middleware.RequireRole(auth.RoleAdmin)

	coupons := r.Group("/promotions/:id/coupons")
	coupons.Use(authMW)
	{
		coupons.GET("", h.List)
		coupons.POST("", adminMW, h.Create)
		coupons.DELETE("/:couponID", adminMW, h.Delete)
	}
}

// List handles GET /api/v1/promotions/:id/coupons.
func (h *CouponHandler) List(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid promotion id")
		return
	}

	result, err := h.service.List(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// Create handles POST /api/v1/promotions/:id/coupons.
func (h *CouponHandler) Create(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid promotion id")
		return
	}

	var req application.CreateCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.Create(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, result)
}

// Delete handles DELETE /api/v1/promotions/:id/coupons/:couponID.
func (h *CouponHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid promotion id")
		return
	}
	couponID, err := uuid.Parse(c.Param("couponID"))
	if err != nil {
		response.BadRequest(c, "invalid coupon id")
		return
	}

	if err := h.service.Delete(c.Request.Context(), id, couponID); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}
