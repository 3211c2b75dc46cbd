package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/commercekit/service-promotions/internal/domain/promotion"
)

// GormRuleRepository implements promotion.RuleRepository using GORM.
type GormRuleRepository struct {
	db *gorm.DB
}

// NewGormRuleRepository creates a new GormRuleRepository.
func NewGormRuleRepository(db *gorm.DB) *GormRuleRepository {
	return &GormRuleRepository{db: db}
}

// CreateCustom persists a new custom promotion rule.
func (r *GormRuleRepository) CreateCustom(ctx context.Context, rule *promotion.PromotionRule) error {
	now := time.Now().UTC()
	model := PromotionRuleModel{
		ID:          rule.ID,
		PromotionID: rule.PromotionID,
		Type:        string(promotion.RuleTypeCustom),
		Filters:     JSONMap(rule.Filters),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	return r.db.WithContext(ctx).Create(&model).Error
}

// UpdateFilters replaces the whole filters map of an existing custom rule.
func (r *GormRuleRepository) UpdateFilters(ctx context.Context, id uuid.UUID, filters map[string]string) error {
	result := r.db.WithContext(ctx).
		Model(&PromotionRuleModel{}).
		Where("id = ? AND type = ?", id, string(promotion.RuleTypeCustom)).
		Updates(map[string]interface{}{
			"filters":    JSONMap(filters),
			"updated_at": time.Now().UTC(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return promotion.ErrNotFound
	}
	return nil
}

// Delete removes a promotion rule.
func (r *GormRuleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&PromotionRuleModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return promotion.ErrNotFound
	}
	return nil
}

// GormCouponRepository implements promotion.CouponRepository using GORM.
type GormCouponRepository struct {
	db *gorm.DB
}

// CouponModel is the GORM model for the coupons table.
type CouponModel struct {
	ID                uuid.UUID  `gorm:"type:uuid;primaryKey"`
	PromotionID       uuid.UUID  `gorm:"type:uuid;not null;index:idx_coupons_promo_code,unique"`
	Code              string     `gorm:"type:varchar(50);not null;index:idx_coupons_promo_code,unique"`
	UsageLimit        *int       `gorm:""`
	UsageCount        int        `gorm:"default:0"`
	CustomerSingleUse bool       `gorm:"default:false"`
	ExpiresAt         *time.Time `gorm:""`
	CreatedAt         time.Time  `gorm:"not null"`
	UpdatedAt         time.Time  `gorm:"not null"`
}

// TableName sets the table name.
func (CouponModel) TableName() string { return "coupons" }

// NewGormCouponRepository creates a new GormCouponRepository.
func NewGormCouponRepository(db *gorm.DB) *GormCouponRepository {
	return &GormCouponRepository{db: db}
}

// Save persists a coupon.
func (r *GormCouponRepository) Save(ctx context.Context, c *promotion.Coupon) error {
	model := CouponModel{
		ID:                c.ID,
		PromotionID:       c.PromotionID,
		Code:              c.Code,
		UsageLimit:        c.UsageLimit,
		UsageCount:        c.UsageCount,
		CustomerSingleUse: c.CustomerSingleUse,
		ExpiresAt:         c.ExpiresAt,
		CreatedAt:         c.CreatedAt,
		UpdatedAt:         c.UpdatedAt,
	}
	err := r.db.WithContext(ctx).Create(&model).Error
	if err != nil && errors.Is(err, gorm.ErrDuplicatedKey) {
		return promotion.ErrCouponCodeTaken
	}
	return err
}

// FindByPromotion returns all coupons attached to a promotion.
func (r *GormCouponRepository) FindByPromotion(ctx context.Context, promotionID uuid.UUID) ([]*promotion.Coupon, error) {
	var models []CouponModel
	err := r.db.WithContext(ctx).
		Where("promotion_id = ?", promotionID).
		Order("created_at ASC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}

	out := make([]*promotion.Coupon, len(models))
	for i, m := range models {
		out[i] = toCouponDomain(&m)
	}
	return out, nil
}

// FindByID returns a coupon by ID.
func (r *GormCouponRepository) FindByID(ctx context.Context, id uuid.UUID) (*promotion.Coupon, error) {
	var model CouponModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, promotion.ErrNotFound
		}
		return nil, err
	}
	return toCouponDomain(&model), nil
}

// Delete removes a coupon.
func (r *GormCouponRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&CouponModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return promotion.ErrNotFound
	}
	return nil
}

func toCouponDomain(m *CouponModel) *promotion.Coupon {
	return &promotion.Coupon{
		ID:                m.ID,
		PromotionID:       m.PromotionID,
		Code:              m.Code,
		UsageLimit:        m.UsageLimit,
		UsageCount:        m.UsageCount,
		CustomerSingleUse: m.CustomerSingleUse,
		ExpiresAt:         m.ExpiresAt,
		CreatedAt:         m.CreatedAt,
		UpdatedAt:         m.UpdatedAt,
	}
}
