package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Comedor-api/internal/application/inventory"
	"github.com/jhoicas/Comedor-api/internal/domain/entity"
	"github.com/jhoicas/Comedor-api/pkg/config"
)

var _ inventory.StockEventPublisher = (*MovementPublisher)(nil)

// publishClient subconjunto de redis.Cmdable que usa el publicador.
type publishClient interface {
	Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd
}

// MovementEvent mensaje publicado por cada movimiento confirmado.
type MovementEvent struct {
	ID              string          `json:"id"`
	CompanyID       string          `json:"company_id"`
	Kind            string          `json:"kind"`
	EntityID        string          `json:"entity_id"`
	LotID           int64           `json:"lot_id"`
	Type            string          `json:"movement_type"`
	Quantity        decimal.Decimal `json:"quantity"`
	Unit            string          `json:"unit"`
	StockAfter      decimal.Decimal `json:"stock_after"`
	RelatedTicketID *string         `json:"related_ticket_id,omitempty"`
	AuditID         *string         `json:"audit_id,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
}

// MovementPublisher publica movimientos en un canal Redis (pub/sub).
type MovementPublisher struct {
	client  publishClient
	channel string
}

// NewMovementPublisher construye el publicador sobre un cliente existente.
func NewMovementPublisher(client publishClient, channel string) *MovementPublisher {
	return &MovementPublisher{client: client, channel: channel}
}

// NewClient abre la conexión y verifica con PING.
func NewClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("conectar a Redis: %w", err)
	}
	return rdb, nil
}

// PublishMovement serializa el movimiento y lo publica.
func (p *MovementPublisher) PublishMovement(ctx context.Context, m *entity.StockMovement) error {
	payload, err := json.Marshal(MovementEvent{
		ID:              m.ID,
		CompanyID:       m.CompanyID,
		Kind:            string(m.Kind),
		EntityID:        m.EntityID,
		LotID:           m.LotID,
		Type:            m.Type,
		Quantity:        m.Quantity,
		Unit:            m.Unit,
		StockAfter:      m.StockAfter,
		RelatedTicketID: m.RelatedTicketID,
		AuditID:         m.AuditID,
		CreatedAt:       m.CreatedAt,
	})
	if err != nil {
		return fmt.Errorf("serializar movimiento: %w", err)
	}
	if err := p.client.Publish(ctx, p.channel, payload).Err(); err != nil {
		return fmt.Errorf("publicar movimiento %s: %w", m.ID, err)
	}
	return nil
}
