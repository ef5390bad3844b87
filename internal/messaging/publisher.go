package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"creature-server/internal/interfaces"
	"creature-server/internal/models"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

var _ interfaces.StatePublisher = (*rabbitMQStatePublisher)(nil)

// rabbitMQStatePublisher pushes player state snapshots into the queue
// consumed by the socket service.
type rabbitMQStatePublisher struct {
	channel   *amqp.Channel
	queueName string
	logger    *zap.Logger
}

// NewRabbitMQStatePublisher opens a channel and declares the durable
// player state queue. Declaring on the publisher side keeps startup
// order between this service and the consumer irrelevant; the queue
// parameters must match the consumer's.
func NewRabbitMQStatePublisher(conn *amqp.Connection, queueName string, logger *zap.Logger) (interfaces.StatePublisher, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("state publisher: failed to open channel: %w", err)
	}
	_, err = ch.QueueDeclare(
		queueName, // name
		true,      // durable
		false,     // delete when unused
		false,     // exclusive
		false,     // no-wait
		nil,       // arguments
	)
	if err != nil {
		ch.Close()
		return nil, fmt.Errorf("state publisher: failed to declare queue '%s': %w", queueName, err)
	}
	logger.Info("State publisher queue declared", zap.String("queue", queueName))
	return &rabbitMQStatePublisher{channel: ch, queueName: queueName, logger: logger.Named("StatePublisher")}, nil
}

// PublishPlayerState publishes one player state snapshot.
func (p *rabbitMQStatePublisher) PublishPlayerState(ctx context.Context, update models.PlayerStateUpdate) error {
	body, err := json.Marshal(update)
	if err != nil {
		return fmt.Errorf("failed to marshal player state for user %s: %w", update.UserID, err)
	}
	if err := p.publishMessage(ctx, body); err != nil {
		return fmt.Errorf("failed to publish player state for user %s: %w", update.UserID, err)
	}
	return nil
}

func (p *rabbitMQStatePublisher) publishMessage(ctx context.Context, body []byte) error {
	if p.channel == nil {
		return errors.New("rabbitmq channel is not initialized")
	}
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	var err error
	for attempt := 1; attempt <= 3; attempt++ {
		err = p.channel.PublishWithContext(ctx,
			"",          // exchange (default)
			p.queueName, // routing key
			false,       // mandatory
			false,       // immediate
			amqp.Publishing{
				ContentType:  "application/json",
				DeliveryMode: amqp.Persistent,
				Body:         body,
				Timestamp:    time.Now(),
				AppId:        "creature-server",
			},
		)
		if err == nil {
			return nil
		}
		p.logger.Warn("Publish attempt failed",
			zap.String("queue", p.queueName), zap.Int("attempt", attempt), zap.Error(err))
		time.Sleep(time.Duration(attempt) * 100 * time.Millisecond)
	}
	return fmt.Errorf("publish to queue %s failed after retries: %w", p.queueName, err)
}
