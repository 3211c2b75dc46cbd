package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/commercekit/service-promotions/internal/domain/promotion"
)

// PromotionModel is the GORM model for the promotions table.
type PromotionModel struct {
	ID              uuid.UUID  `gorm:"type:uuid;primaryKey"`
	Type            string     `gorm:"type:varchar(50);not null;index"`
	Name            string     `gorm:"type:varchar(255);not null"`
	StartsAt        time.Time  `gorm:"not null"`
	ExpiresAt       time.Time  `gorm:"not null"`
	CurrencyCode    string     `gorm:"type:varchar(3)"`
	Exclusive       bool       `gorm:"default:false"`
	Priority        *int       `gorm:""`
	TotalUsageLimit *int       `gorm:""`
	TotalUsageCount int        `gorm:"default:0"`
	DisabledAt      *time.Time `gorm:""`

	Percentage       *int   `gorm:""`
	FixedAmountCents *int64 `gorm:""`
	BuyX             *int   `gorm:""`
	PayY             *int   `gorm:""`
	CheapestFree     bool   `gorm:"default:false"`
	MaxQuantity      *int   `gorm:""`
	PromotionURL     string `gorm:"type:varchar(2048)"`

	MarketID  *uuid.UUID    `gorm:"type:uuid;index"`
	Market    *MarketModel  `gorm:"foreignKey:MarketID"`
	SkuListID *uuid.UUID    `gorm:"type:uuid"`
	SkuList   *SkuListModel `gorm:"foreignKey:SkuListID"`

	Rules []PromotionRuleModel `gorm:"foreignKey:PromotionID"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// TableName sets the table name.
func (PromotionModel) TableName() string { return "promotions" }

// PromotionRuleModel is the GORM model for the promotion_rules table.
type PromotionRuleModel struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey"`
	PromotionID uuid.UUID  `gorm:"type:uuid;not null;index"`
	Type        string     `gorm:"type:varchar(50);not null"`
	Filters     JSONMap    `gorm:"type:jsonb"`
	SkuListID   *uuid.UUID `gorm:"type:uuid"`
	CreatedAt   time.Time  `gorm:"not null"`
	UpdatedAt   time.Time  `gorm:"not null"`
}

// TableName sets the table name.
func (PromotionRuleModel) TableName() string { return "promotion_rules" }

// GormPromotionRepository implements promotion.Repository using GORM.
type GormPromotionRepository struct {
	db *gorm.DB
}

// NewGormPromotionRepository creates a new GormPromotionRepository.
func NewGormPromotionRepository(db *gorm.DB) *GormPromotionRepository {
	return &GormPromotionRepository{db: db}
}

// Save persists a new promotion.
func (r *GormPromotionRepository) Save(ctx context.Context, p *promotion.Promotion) error {
	model := toPromotionModel(p)
	return r.db.WithContext(ctx).Omit("Rules", "Market", "SkuList").Create(&model).Error
}

// Update writes back a changed promotion.
func (r *GormPromotionRepository) Update(ctx context.Context, p *promotion.Promotion) error {
	model := toPromotionModel(p)
	return r.db.WithContext(ctx).Omit("Rules", "Market", "SkuList").Save(&model).Error
}

// FindByID loads a promotion with rules, market price list and SKU list.
func (r *GormPromotionRepository) FindByID(ctx context.Context, id uuid.UUID) (*promotion.Promotion, error) {
	var model PromotionModel
	err := r.db.WithContext(ctx).
		Preload("Rules").
		Preload("Market.PriceList").
		Preload("SkuList").
		Where("id = ?", id).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, promotion.ErrNotFound
		}
		return nil, err
	}
	return toPromotionDomain(&model), nil
}

// List returns a page of promotions and the total count.
func (r *GormPromotionRepository) List(ctx context.Context, filter promotion.ListFilter) ([]*promotion.Promotion, int64, error) {
	query := r.db.WithContext(ctx).Model(&PromotionModel{})
	if filter.Type != "" {
		query = query.Where("type = ?", string(filter.Type))
	}
	if filter.Search != "" {
		query = query.Where("name ILIKE ?", "%"+filter.Search+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	limit := filter.Limit
	if limit < 1 || limit > 100 {
		limit = 20
	}

	var models []PromotionModel
	err := query.
		Preload("Rules").
		Preload("Market.PriceList").
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&models).Error
	if err != nil {
		return nil, 0, err
	}

	out := make([]*promotion.Promotion, len(models))
	for i := range models {
		out[i] = toPromotionDomain(&models[i])
	}
	return out, total, nil
}

func toPromotionModel(p *promotion.Promotion) PromotionModel {
	return PromotionModel{
		ID:              p.ID,
		Type:            string(p.Type),
		Name:            p.Name,
		StartsAt:        p.StartsAt,
		ExpiresAt:       p.ExpiresAt,
		CurrencyCode:    p.CurrencyCode,
		Exclusive:       p.Exclusive,
		Priority:        p.Priority,
		TotalUsageLimit: p.TotalUsageLimit,
		TotalUsageCount: p.TotalUsageCount,
		DisabledAt:      p.DisabledAt,

		Percentage:       p.Percentage,
		FixedAmountCents: p.FixedAmountCents,
		BuyX:             p.BuyX,
		PayY:             p.PayY,
		CheapestFree:     p.CheapestFree,
		MaxQuantity:      p.MaxQuantity,
		PromotionURL:     p.PromotionURL,

		MarketID:  p.MarketID,
		SkuListID: p.SkuListID,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

func toPromotionDomain(m *PromotionModel) *promotion.Promotion {
	p := &promotion.Promotion{
		ID:              m.ID,
		Type:            promotion.Type(m.Type),
		Name:            m.Name,
		StartsAt:        m.StartsAt,
		ExpiresAt:       m.ExpiresAt,
		CurrencyCode:    m.CurrencyCode,
		Exclusive:       m.Exclusive,
		Priority:        m.Priority,
		TotalUsageLimit: m.TotalUsageLimit,
		TotalUsageCount: m.TotalUsageCount,
		DisabledAt:      m.DisabledAt,

		Percentage:       m.Percentage,
		FixedAmountCents: m.FixedAmountCents,
		BuyX:             m.BuyX,
		PayY:             m.PayY,
		CheapestFree:     m.CheapestFree,
		MaxQuantity:      m.MaxQuantity,
		PromotionURL:     m.PromotionURL,

		MarketID:  m.MarketID,
		SkuListID: m.SkuListID,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}

	if m.Market != nil {
		p.Market = toMarketDomain(m.Market)
	}
	if m.SkuList != nil {
		p.SkuList = &promotion.SkuList{ID: m.SkuList.ID, Name: m.SkuList.Name}
	}
	for i := range m.Rules {
		p.Rules = append(p.Rules, toRuleDomain(&m.Rules[i]))
	}
	return p
}

func toRuleDomain(m *PromotionRuleModel) promotion.PromotionRule {
	return promotion.PromotionRule{
		ID:          m.ID,
		PromotionID: m.PromotionID,
		Type:        promotion.RuleType(m.Type),
		Filters:     map[string]string(m.Filters),
		SkuListID:   m.SkuListID,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}
