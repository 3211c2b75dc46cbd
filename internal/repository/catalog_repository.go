package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/commercekit/service-promotions/internal/domain/promotion"
)

// PriceListModel is the GORM model for the price_lists table.
type PriceListModel struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name         string    `gorm:"type:varchar(255);not null"`
	CurrencyCode string    `gorm:"type:varchar(3);not null"`
	CreatedAt    time.Time `gorm:"not null"`
	UpdatedAt    time.Time `gorm:"not null"`
}

// TableName sets the table name.
func (PriceListModel) TableName() string { return "price_lists" }

// MarketModel is the GORM model for the markets table.
type MarketModel struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Name        string          `gorm:"type:varchar(255);not null"`
	PriceListID *uuid.UUID      `gorm:"type:uuid"`
	PriceList   *PriceListModel `gorm:"foreignKey:PriceListID"`
	CreatedAt   time.Time       `gorm:"not null"`
	UpdatedAt   time.Time       `gorm:"not null"`
}

// TableName sets the table name.
func (MarketModel) TableName() string { return "markets" }

// TagModel is the GORM model for the tags table.
type TagModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name      string    `gorm:"type:varchar(255);not null"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// TableName sets the table name.
func (TagModel) TableName() string { return "tags" }

// SkuListModel is the GORM model for the sku_lists table.
type SkuListModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name      string    `gorm:"type:varchar(255);not null"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// TableName sets the table name.
func (SkuListModel) TableName() string { return "sku_lists" }

// GormMarketRepository implements promotion.MarketRepository using GORM.
type GormMarketRepository struct {
	db *gorm.DB
}

// NewGormMarketRepository creates a new GormMarketRepository.
func NewGormMarketRepository(db *gorm.DB) *GormMarketRepository {
	return &GormMarketRepository{db: db}
}

// List returns all markets with their price lists.
func (r *GormMarketRepository) List(ctx context.Context) ([]*promotion.Market, error) {
	var models []MarketModel
	if err := r.db.WithContext(ctx).Preload("PriceList").Order("name ASC").Find(&models).Error; err != nil {
		return nil, err
	}

	out := make([]*promotion.Market, len(models))
	for i := range models {
		out[i] = toMarketDomain(&models[i])
	}
	return out, nil
}

// FindNamesByIDs resolves market IDs to names. Unknown IDs are absent from
// the result.
func (r *GormMarketRepository) FindNamesByIDs(ctx context.Context, ids []string) (map[string]string, error) {
	return findNames(ctx, r.db, &MarketModel{}, ids)
}

// GormTagRepository implements promotion.TagRepository using GORM.
type GormTagRepository struct {
	db *gorm.DB
}

// NewGormTagRepository creates a new GormTagRepository.
func NewGormTagRepository(db *gorm.DB) *GormTagRepository {
	return &GormTagRepository{db: db}
}

// List returns all tags.
func (r *GormTagRepository) List(ctx context.Context) ([]*promotion.Tag, error) {
	var models []TagModel
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&models).Error; err != nil {
		return nil, err
	}

	out := make([]*promotion.Tag, len(models))
	for i, m := range models {
		out[i] = &promotion.Tag{ID: m.ID, Name: m.Name}
	}
	return out, nil
}

// FindNamesByIDs resolves tag IDs to names. Unknown IDs are absent from
// the result.
func (r *GormTagRepository) FindNamesByIDs(ctx context.Context, ids []string) (map[string]string, error) {
	return findNames(ctx, r.db, &TagModel{}, ids)
}

type nameRow struct {
	ID   uuid.UUID
	Name string
}

// findNames runs a single id_in query for a batch of IDs. Values that are
// not valid UUIDs cannot match and are filtered out up front.
func findNames(ctx context.Context, db *gorm.DB, model interface{}, ids []string) (map[string]string, error) {
	parsed := make([]uuid.UUID, 0, len(ids))
	for _, raw := range ids {
		if id, err := uuid.Parse(raw); err == nil {
			parsed = append(parsed, id)
		}
	}
	if len(parsed) == 0 {
		return map[string]string{}, nil
	}

	var rows []nameRow
	err := db.WithContext(ctx).
		Model(model).
		Select("id", "name").
		Where("id IN ?", parsed).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make(map[string]string, len(rows))
	for _, row := range rows {
		out[row.ID.String()] = row.Name
	}
	return out, nil
}

func toMarketDomain(m *MarketModel) *promotion.Market {
	market := &promotion.Market{ID: m.ID, Name: m.Name}
	if m.PriceList != nil {
		market.PriceList = &promotion.PriceList{
			ID:           m.PriceList.ID,
			Name:         m.PriceList.Name,
			CurrencyCode: m.PriceList.CurrencyCode,
		}
	}
	return market
}
