package application

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/commercekit/service-promotions/internal/domain/promotion"
	"github.com/commercekit/service-promotions/internal/events"
	"github.com/commercekit/service-promotions/internal/registry"
)

// EventPublisher publishes promotion lifecycle events. Publishing is
// best-effort and never fails the triggering operation.
type EventPublisher interface {
	Publish(ctx context.Context, eventType, key string, data interface{})
}

// PromotionDTO is the API representation of a promotion.
type PromotionDTO struct {
	ID              uuid.UUID  `json:"id"`
	Type            string     `json:"type"`
	Slug            string     `json:"slug"`
	Icon            string     `json:"icon"`
	Name            string     `json:"name"`
	StartsAt        time.Time  `json:"starts_at"`
	ExpiresAt       time.Time  `json:"expires_at"`
	CurrencyCode    string     `json:"currency_code,omitempty"`
	Exclusive       bool       `json:"exclusive"`
	Priority        *int       `json:"priority,omitempty"`
	TotalUsageLimit *int       `json:"total_usage_limit,omitempty"`
	TotalUsageCount int        `json:"total_usage_count"`
	Active          bool       `json:"active"`
	DisabledAt      *time.Time `json:"disabled_at,omitempty"`

	Percentage       *int   `json:"percentage,omitempty"`
	FixedAmountCents *int64 `json:"fixed_amount_cents,omitempty"`
	BuyX             *int   `json:"x,omitempty"`
	PayY             *int   `json:"y,omitempty"`
	CheapestFree     bool   `json:"cheapest_free,omitempty"`
	MaxQuantity      *int   `json:"max_quantity,omitempty"`
	PromotionURL     string `json:"promotion_url,omitempty"`

	MarketName  string `json:"market_name,omitempty"`
	SkuListName string `json:"sku_list_name,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PromotionDetailDTO adds registry-driven detail rows to the base DTO.
type PromotionDetailDTO struct {
	PromotionDTO
	DetailRows []registry.DetailRow `json:"detail_rows"`
}

// PromotionService handles promotion use cases.
type PromotionService struct {
	repo      promotion.Repository
	publisher EventPublisher
	logger    *zap.Logger
}

// NewPromotionService creates a new PromotionService.
func NewPromotionService(repo promotion.Repository, publisher EventPublisher, logger *zap.Logger) *PromotionService {
	return &PromotionService{repo: repo, publisher: publisher, logger: logger}
}

// List returns a page of promotions, optionally narrowed to one variant.
func (s *PromotionService) List(ctx context.Context, filter promotion.ListFilter) ([]*PromotionDTO, int64, error) {
	promos, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list promotions: %w", err)
	}

	dtos := make([]*PromotionDTO, len(promos))
	for i, p := range promos {
		dtos[i] = toPromotionDTO(p)
	}
	return dtos, total, nil
}

// Get returns one promotion with its variant detail rows.
func (s *PromotionService) Get(ctx context.Context, id uuid.UUID) (*PromotionDetailDTO, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	cfg := registry.ConfigOf(p.Type)
	return &PromotionDetailDTO{
		PromotionDTO: *toPromotionDTO(p),
		DetailRows:   cfg.DetailRows(p),
	}, nil
}

// Create validates the form against the variant's schema and persists a new
// promotion. No partial submission happens on validation failure.
func (s *PromotionService) Create(ctx context.Context, cfg registry.Config, form *registry.Form) (*PromotionDetailDTO, error) {
	if errs := cfg.Validate(form); errs != nil {
		return nil, &promotion.ValidationError{Fields: errs}
	}

	now := time.Now().UTC()
	p := &promotion.Promotion{
		ID:        uuid.New(),
		CreatedAt: now,
		UpdatedAt: now,
	}
	cfg.Apply(form, p)

	if err := s.repo.Save(ctx, p); err != nil {
		return nil, fmt.Errorf("failed to save promotion: %w", err)
	}

	s.logger.Info("promotion created",
		zap.String("id", p.ID.String()),
		zap.String("type", string(p.Type)),
	)
	s.publish(ctx, events.PromotionCreated, p)

	return s.Get(ctx, p.ID)
}

// Update re-validates and overwrites an existing promotion's attributes.
// The variant is fixed at creation; the stored type decides the schema.
func (s *PromotionService) Update(ctx context.Context, id uuid.UUID, form *registry.Form) (*PromotionDetailDTO, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	cfg := registry.ConfigOf(p.Type)
	if errs := cfg.Validate(form); errs != nil {
		return nil, &promotion.ValidationError{Fields: errs}
	}

	cfg.Apply(form, p)
	p.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, p); err != nil {
		return nil, fmt.Errorf("failed to update promotion: %w", err)
	}

	s.publish(ctx, events.PromotionUpdated, p)
	return s.Get(ctx, id)
}

// Toggle disables an enabled promotion or re-enables a disabled one.
func (s *PromotionService) Toggle(ctx context.Context, id uuid.UUID) (*PromotionDetailDTO, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	eventType := events.PromotionDisabled
	if p.Enabled() {
		p.Disable(now)
	} else {
		p.Enable()
		eventType = events.PromotionEnabled
	}
	p.UpdatedAt = now

	if err := s.repo.Update(ctx, p); err != nil {
		return nil, fmt.Errorf("failed to toggle promotion: %w", err)
	}

	s.logger.Info("promotion toggled",
		zap.String("id", p.ID.String()),
		zap.Bool("enabled", p.Enabled()),
	)
	s.publish(ctx, eventType, p)
	return s.Get(ctx, id)
}

func (s *PromotionService) publish(ctx context.Context, eventType string, p *promotion.Promotion) {
	if s.publisher == nil {
		return
	}
	s.publisher.Publish(ctx, eventType, p.ID.String(), events.PromotionEvent{
		PromotionID:   p.ID,
		PromotionType: string(p.Type),
		Name:          p.Name,
		OccurredAt:    time.Now().UTC(),
	})
}

func toPromotionDTO(p *promotion.Promotion) *PromotionDTO {
	cfg := registry.ConfigOf(p.Type)
	dto := &PromotionDTO{
		ID:              p.ID,
		Type:            string(p.Type),
		Slug:            cfg.Slug,
		Icon:            cfg.Icon,
		Name:            p.Name,
		StartsAt:        p.StartsAt,
		ExpiresAt:       p.ExpiresAt,
		CurrencyCode:    p.CurrencyCode,
		Exclusive:       p.Exclusive,
		Priority:        p.Priority,
		TotalUsageLimit: p.TotalUsageLimit,
		TotalUsageCount: p.TotalUsageCount,
		Active:          p.Active(time.Now().UTC()),
		DisabledAt:      p.DisabledAt,

		Percentage:       p.Percentage,
		FixedAmountCents: p.FixedAmountCents,
		BuyX:             p.BuyX,
		PayY:             p.PayY,
		CheapestFree:     p.CheapestFree,
		MaxQuantity:      p.MaxQuantity,
		PromotionURL:     p.PromotionURL,

		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
	if p.Market != nil {
		dto.MarketName = p.Market.Name
	}
	if p.SkuList != nil {
		dto.SkuListName = p.SkuList.Name
	}
	return dto
}
