package alertqueue

import (
	"context"
	"fmt"
	"sync"
	"time"

	"kpim-service/internal/app/contracts"
	"kpim-service/internal/app/models"
	"kpim-service/internal/pkg/constvars"
	"kpim-service/internal/pkg/exceptions"
	"kpim-service/internal/pkg/utils"

	"github.com/goccy/go-json"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

const FlaggedRowsQueueName = "indicator_flagged_rows_queue"

// AlertMessage is the payload consumed by downstream alerting.
type AlertMessage struct {
	Indicator   string                `json:"indicator"`
	GeneratedAt time.Time             `json:"generated_at"`
	Rows        []models.AggregateRow `json:"rows"`
}

// Service publishes flagged indicator rows to a durable queue with
// publisher confirms.
type Service struct {
	ch       *amqp.Channel
	log      *zap.Logger
	confirms chan amqp.Confirmation
	mu       sync.Mutex
}

func NewService(conn *amqp.Connection, log *zap.Logger) (contracts.AlertPublisher, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, err
	}

	_, err = ch.QueueDeclare(
		FlaggedRowsQueueName, // name
		true,                 // durable
		false,                // autoDelete
		false,                // exclusive
		false,                // noWait
		nil,                  // args
	)
	if err != nil {
		return nil, exceptions.ErrQueueDeclare(err)
	}

	if err := ch.Confirm(false); err != nil {
		return nil, exceptions.ErrQueueDeclare(err)
	}

	svc := &Service{
		ch:       ch,
		log:      log,
		confirms: ch.NotifyPublish(make(chan amqp.Confirmation, 1)),
	}
	return svc, nil
}

// PublishFlaggedRows enqueues one persistent message carrying every flagged
// row from the current sync run. An empty row set publishes nothing.
func (s *Service) PublishFlaggedRows(ctx context.Context, rows []models.AggregateRow) error {
	requestID := utils.GetRequestID(ctx)
	s.log.Info("AlertQueue.PublishFlaggedRows called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingQueueNameKey, FlaggedRowsQueueName),
		zap.Int(constvars.LoggingRowCountKey, len(rows)),
	)

	if len(rows) == 0 {
		return nil
	}

	body, err := json.Marshal(AlertMessage{
		Indicator:   constvars.IndicatorName,
		GeneratedAt: time.Now().UTC(),
		Rows:        rows,
	})
	if err != nil {
		return exceptions.ErrCannotMarshalJSON(err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	msg := amqp.Publishing{
		ContentType:  constvars.MIMEApplicationJSON,
		Body:         body,
		DeliveryMode: amqp.Persistent,
	}

	if err := s.ch.PublishWithContext(ctx, "", FlaggedRowsQueueName, false, false, msg); err != nil {
		return exceptions.ErrQueuePublish(err)
	}

	select {
	case confirmed := <-s.confirms:
		if !confirmed.Ack {
			return exceptions.ErrQueuePublish(fmt.Errorf("message not confirmed"))
		}
	case <-ctx.Done():
		return exceptions.ErrQueuePublish(ctx.Err())
	}
	return nil
}
