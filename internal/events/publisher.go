// Package events publishes catalog change notifications to NATS. Publishing
// is best-effort: a missing or unreachable broker never fails the request
// that triggered the event.
package events

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/sirupsen/logrus"

	"catalog-service/internal/models"
)

// Event subjects.
const (
	SubjectProductCreated = "catalog.product.created"
	SubjectProductUpdated = "catalog.product.updated"
	SubjectProductDeleted = "catalog.product.deleted"
	SubjectCatalogPurged  = "catalog.purged"
)

// ProductEvent is the wire payload for product change notifications.
type ProductEvent struct {
	EventID     string    `json:"eventId"`
	EventType   string    `json:"eventType"`
	ProductID   string    `json:"productId,omitempty"`
	ProductName string    `json:"productName,omitempty"`
	SKU         string    `json:"sku,omitempty"`
	BrandID     string    `json:"brandId,omitempty"`
	OccurredAt  time.Time `json:"occurredAt"`
}

// PurgeEvent is the wire payload for the bulk catalog reset.
type PurgeEvent struct {
	EventID    string              `json:"eventId"`
	EventType  string              `json:"eventType"`
	Result     *models.PurgeResult `json:"result"`
	OccurredAt time.Time           `json:"occurredAt"`
}

// Publisher emits catalog events over a NATS connection. A nil Publisher or
// a Publisher without a connection is a no-op, so callers never guard.
type Publisher struct {
	conn   *nats.Conn
	logger *logrus.Entry
}

// NewPublisher connects to NATS at natsURL. An empty URL returns a no-op
// publisher rather than an error: events are optional infrastructure.
func NewPublisher(natsURL string, logger *logrus.Logger) (*Publisher, error) {
	p := &Publisher{logger: logger.WithField("component", "catalog-events")}

	if natsURL == "" {
		p.logger.Info("NATS URL not configured, event publishing disabled")
		return p, nil
	}

	conn, err := nats.Connect(natsURL,
		nats.Name("catalog-service"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}
	p.conn = conn
	return p, nil
}

// Close drains the NATS connection.
func (p *Publisher) Close() {
	if p != nil && p.conn != nil {
		_ = p.conn.Drain()
	}
}

// PublishProductCreated publishes a catalog.product.created event
func (p *Publisher) PublishProductCreated(product models.ProductData) {
	p.publish(SubjectProductCreated, ProductEvent{
		EventID:     uuid.New().String(),
		EventType:   SubjectProductCreated,
		ProductID:   product.ID.String(),
		ProductName: product.Name,
		SKU:         product.SKU,
		BrandID:     product.BrandID.String(),
		OccurredAt:  time.Now().UTC(),
	})
}

// PublishProductUpdated publishes a catalog.product.updated event
func (p *Publisher) PublishProductUpdated(product *models.Product) {
	p.publish(SubjectProductUpdated, ProductEvent{
		EventID:     uuid.New().String(),
		EventType:   SubjectProductUpdated,
		ProductID:   product.ID.String(),
		ProductName: product.Name,
		SKU:         product.SKU,
		BrandID:     product.BrandID.String(),
		OccurredAt:  time.Now().UTC(),
	})
}

// PublishProductDeleted publishes a catalog.product.deleted event
func (p *Publisher) PublishProductDeleted(productID uuid.UUID) {
	p.publish(SubjectProductDeleted, ProductEvent{
		EventID:    uuid.New().String(),
		EventType:  SubjectProductDeleted,
		ProductID:  productID.String(),
		OccurredAt: time.Now().UTC(),
	})
}

// PublishCatalogPurged publishes a catalog.purged event
func (p *Publisher) PublishCatalogPurged(result *models.PurgeResult) {
	p.publish(SubjectCatalogPurged, PurgeEvent{
		EventID:    uuid.New().String(),
		EventType:  SubjectCatalogPurged,
		Result:     result,
		OccurredAt: time.Now().UTC(),
	})
}

// publish marshals and sends the event asynchronously so the request path
// never blocks on the broker.
func (p *Publisher) publish(subject string, event interface{}) {
	if p == nil || p.conn == nil {
		return
	}

	go func() {
		data, err := json.Marshal(event)
		if err != nil {
			p.logger.WithField("subject", subject).WithError(err).Error("Failed to marshal event")
			return
		}
		if err := p.conn.Publish(subject, data); err != nil {
			p.logger.WithField("subject", subject).WithError(err).Error("Failed to publish event")
			return
		}
		p.logger.WithField("subject", subject).Debug("Event published")
	}()
}
