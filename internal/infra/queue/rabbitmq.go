package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"nontonin-api/internal/domain/activity"
	"nontonin-api/internal/infra/logging"
)

const (
	ActivityExchange   = "nontonin.activity"
	ActivityQueueName  = "activity_log"
	ActivityRoutingKey = "activity"
)

type publisher interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// Client publishes activity events and consumes them back into the
// activity_logs table.
type Client struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	pub     publisher
}

func NewRabbitMQClient(url string) (*Client, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	if err := ch.ExchangeDeclare(ActivityExchange, "direct", true, false, false, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare exchange: %w", err)
	}
	if _, err := ch.QueueDeclare(ActivityQueueName, true, false, false, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare queue: %w", err)
	}
	if err := ch.QueueBind(ActivityQueueName, ActivityRoutingKey, ActivityExchange, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to bind queue: %w", err)
	}

	logging.LogInfo("Connected to RabbitMQ")
	return &Client{conn: conn, channel: ch, pub: ch}, nil
}

func (c *Client) Close() error {
	if c.channel != nil {
		c.channel.Close()
	}
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

// Publish implements activity.Sink.
func (c *Client) Publish(ctx context.Context, e activity.Event) error {
	body, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("failed to marshal activity: %w", err)
	}
	err = c.pub.PublishWithContext(ctx, ActivityExchange, ActivityRoutingKey, false, false, amqp.Publishing{
		ContentType:  "application/json",
		Body:         body,
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now(),
	})
	if err != nil {
		return fmt.Errorf("failed to publish activity: %w", err)
	}
	return nil
}

// Consume starts a goroutine that hands every delivery to handle until ctx
// is cancelled or the channel closes.
func (c *Client) Consume(ctx context.Context, handle func(context.Context, activity.Event) error) error {
	msgs, err := c.channel.Consume(ActivityQueueName, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("failed to register consumer: %w", err)
	}

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-msgs:
				if !ok {
					return
				}
				process(ctx, msg, handle)
			}
		}
	}()
	return nil
}

func process(ctx context.Context, msg amqp.Delivery, handle func(context.Context, activity.Event) error) {
	var e activity.Event
	if err := json.Unmarshal(msg.Body, &e); err != nil {
		logging.LogError(err, "dropping malformed activity message")
		msg.Nack(false, false)
		return
	}
	if err := handle(ctx, e); err != nil {
		logging.LogErrorWithUser(e.UserID, err, "failed to store activity, requeueing")
		msg.Nack(false, true)
		return
	}
	msg.Ack(false)
}
