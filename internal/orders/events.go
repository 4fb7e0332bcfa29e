package orders

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	EventOrderPlaced   = "OrderPlaced"
	EventStatusUpdated = "OrderStatusUpdated"
)

type Envelope struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	EventVersion  int             `json:"event_version"`
	OccurredAt    time.Time       `json:"occurred_at"`
	Producer      string          `json:"producer"`
	TraceID       string          `json:"trace_id,omitempty"`
	CorrelationID string          `json:"correlation_id,omitempty"` // workspace:order_id
	Payload       json.RawMessage `json:"payload"`
}

func NewEnvelope(eventType, producer, correlationID string, payload any) (Envelope, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return Envelope{}, fmt.Errorf("encode %s payload: %w", eventType, err)
	}
	return Envelope{
		EventID:       uuid.NewString(),
		EventType:     eventType,
		EventVersion:  1,
		OccurredAt:    time.Now().UTC(),
		Producer:      producer,
		CorrelationID: correlationID,
		Payload:       b,
	}, nil
}

func CorrelationID(workspace string, orderID int64) string {
	return fmt.Sprintf("%s:%d", workspace, orderID)
}

type LineRef struct {
	ProductID int64           `json:"product_id"`
	Qty       int             `json:"qty"`
	Price     decimal.Decimal `json:"price"`
}

type OrderPlacedPayload struct {
	Workspace    string          `json:"workspace"`
	OrderID      int64           `json:"order_id"`
	UserID       int64           `json:"user_id"`
	RestaurantID int64           `json:"restaurant_id,omitempty"`
	Items        []LineRef       `json:"items"`
	Total        decimal.Decimal `json:"total"`
	PlacedAt     time.Time       `json:"placed_at"`
}

func NewOrderPlacedPayload(workspace string, userID int64, o Order) OrderPlacedPayload {
	items := make([]LineRef, 0, len(o.Items))
	for _, l := range o.Items {
		items = append(items, LineRef{ProductID: l.ID, Qty: l.Quantity, Price: l.Price})
	}
	return OrderPlacedPayload{
		Workspace:    workspace,
		OrderID:      o.ID,
		UserID:       userID,
		RestaurantID: o.RestaurantID,
		Items:        items,
		Total:        o.Total,
		PlacedAt:     o.CreatedAt,
	}
}

type OrderStatusPayload struct {
	Workspace string `json:"workspace"`
	OrderID   int64  `json:"order_id"`
	Status    Status `json:"status"`
	Reason    string `json:"reason,omitempty"`
}
