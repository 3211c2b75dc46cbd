package events

import (
	"time"

	"github.com/google/uuid"
)

// TopicPromotionEvents is the Kafka topic for promotion lifecycle events.
const TopicPromotionEvents = "promotion.events"

// Event type identifiers.
const (
	PromotionCreated  = "commercekit.promotions.created"
	PromotionUpdated  = "commercekit.promotions.updated"
	PromotionEnabled  = "commercekit.promotions.enabled"
	PromotionDisabled = "commercekit.promotions.disabled"
)

// PromotionEvent is the payload published for every lifecycle transition.
type PromotionEvent struct {
	PromotionID   uuid.UUID `json:"promotion_id"`
	PromotionType string    `json:"promotion_type"`
	Name          string    `json:"name"`
	OccurredAt    time.Time `json:"occurred_at"`
}
