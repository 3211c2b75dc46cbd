package application

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/commercekit/service-promotions/internal/domain/promotion"
)

// MarketDTO is a picker entry for selecting a market.
type MarketDTO struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	CurrencyCode string    `json:"currency_code,omitempty"`
}

// TagDTO is a picker entry for selecting a tag.
type TagDTO struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// CatalogService serves the market and tag pickers used by the rule builder
// and the promotion forms.
type CatalogService struct {
	markets promotion.MarketRepository
	tags    promotion.TagRepository
}

// NewCatalogService creates a new CatalogService.
func NewCatalogService(markets promotion.MarketRepository, tags promotion.TagRepository) *CatalogService {
	return &CatalogService{markets: markets, tags: tags}
}

// ListMarkets returns all markets sorted by name.
func (s *CatalogService) ListMarkets(ctx context.Context) ([]MarketDTO, error) {
	markets, err := s.markets.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list markets: %w", err)
	}

	out := make([]MarketDTO, len(markets))
	for i, m := range markets {
		dto := MarketDTO{ID: m.ID, Name: m.Name}
		if m.PriceList != nil {
			dto.CurrencyCode = m.PriceList.CurrencyCode
		}
		out[i] = dto
	}
	return out, nil
}

// ListTags returns all tags sorted by name.
func (s *CatalogService) ListTags(ctx context.Context) ([]TagDTO, error) {
	tags, err := s.tags.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list tags: %w", err)
	}

	out := make([]TagDTO, len(tags))
	for i, t := range tags {
		out[i] = TagDTO{ID: t.ID, Name: t.Name}
	}
	return out, nil
}
