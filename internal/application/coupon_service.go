package application

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/commercekit/service-promotions/internal/domain/promotion"
)

// CouponDTO is the API representation of a coupon.
type CouponDTO struct {
	ID                uuid.UUID  `json:"id"`
	Code              string     `json:"code"`
	UsageLimit        *int       `json:"usage_limit,omitempty"`
	UsageCount        int        `json:"usage_count"`
	CustomerSingleUse bool       `json:"customer_single_use"`
	ExpiresAt         *time.Time `json:"expires_at,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
}

// CreateCouponRequest is the payload for attaching a coupon to a promotion.
type CreateCouponRequest struct {
	Code              string     `json:"code" binding:"required"`
	UsageLimit        *int       `json:"usage_limit"`
	CustomerSingleUse bool       `json:"customer_single_use"`
	ExpiresAt         *time.Time `json:"expires_at"`
}

// CouponService manages coupons attached to promotions.
type CouponService struct {
	promos  promotion.Repository
	coupons promotion.CouponRepository
	logger  *zap.Logger
}

// NewCouponService creates a new CouponService.
func NewCouponService(promos promotion.Repository, coupons promotion.CouponRepository, logger *zap.Logger) *CouponService {
	return &CouponService{promos: promos, coupons: coupons, logger: logger}
}

// List returns the coupons of a promotion in creation order.
func (s *CouponService) List(ctx context.Context, promotionID uuid.UUID) ([]CouponDTO, error) {
	if _, err := s.promos.FindByID(ctx, promotionID); err != nil {
		return nil, err
	}

	coupons, err := s.coupons.FindByPromotion(ctx, promotionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list coupons: %w", err)
	}

	out := make([]CouponDTO, len(coupons))
	for i, c := range coupons {
		out[i] = toCouponDTO(c)
	}
	return out, nil
}

// Create attaches a new coupon to a promotion. Codes are stored uppercase
// and must be unique within the promotion.
func (s *CouponService) Create(ctx context.Context, promotionID uuid.UUID, req CreateCouponRequest) (*CouponDTO, error) {
	code := strings.ToUpper(strings.TrimSpace(req.Code))

	fields := map[string]string{}
	if len(code) < 8 {
		fields["code"] = "code must be at least 8 characters"
	}
	if req.UsageLimit != nil && *req.UsageLimit < 1 {
		fields["usage_limit"] = "usage limit must be at least 1"
	}
	if len(fields) > 0 {
		return nil, &promotion.ValidationError{Fields: fields}
	}

	if _, err := s.promos.FindByID(ctx, promotionID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	coupon := &promotion.Coupon{
		ID:                uuid.New(),
		PromotionID:       promotionID,
		Code:              code,
		UsageLimit:        req.UsageLimit,
		CustomerSingleUse: req.CustomerSingleUse,
		ExpiresAt:         req.ExpiresAt,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := s.coupons.Save(ctx, coupon); err != nil {
		return nil, err
	}

	s.logger.Info("coupon created",
		zap.String("promotion_id", promotionID.String()),
		zap.String("code", code),
	)
	dto := toCouponDTO(coupon)
	return &dto, nil
}

// Delete removes a coupon, verifying it belongs to the promotion.
func (s *CouponService) Delete(ctx context.Context, promotionID, couponID uuid.UUID) error {
	coupon, err := s.coupons.FindByID(ctx, couponID)
	if err != nil {
		return err
	}
	if coupon.PromotionID != promotionID {
		return promotion.ErrNotFound
	}
	return s.coupons.Delete(ctx, couponID)
}

func toCouponDTO(c *promotion.Coupon) CouponDTO {
	return CouponDTO{
		ID:                c.ID,
		Code:              c.Code,
		UsageLimit:        c.UsageLimit,
		UsageCount:        c.UsageCount,
		CustomerSingleUse: c.CustomerSingleUse,
		ExpiresAt:         c.ExpiresAt,
		CreatedAt:         c.CreatedAt,
	}
}
