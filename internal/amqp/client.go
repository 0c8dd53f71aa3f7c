// Package amqp moves raw expense batches over RabbitMQ. A feeder
// publishes batches to a direct exchange; the ingestion worker drains
// the bound queue once per cycle.
package amqp

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/rabbitmq/amqp091-go"

	"budgeteer/internal/core"
)

type Client struct {
	conn         *amqp091.Connection
	channel      *amqp091.Channel
	exchangeName string
	queueName    string
}

func NewClient(url, exchangeName, queueName string) (*Client, error) {
	conn, err := amqp091.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial AMQP: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	client := &Client{
		conn:         conn,
		channel:      channel,
		exchangeName: exchangeName,
		queueName:    queueName,
	}

	if err := client.setup(); err != nil {
		client.Close()
		return nil, fmt.Errorf("setup exchange and queue: %w", err)
	}

	return client, nil
}

func (c *Client) setup() error {
	err := c.channel.ExchangeDeclare(
		c.exchangeName, // name
		"direct",       // type
		true,           // durable
		false,          // auto-deleted
		false,          // internal
		false,          // no-wait
		nil,            // arguments
	)
	if err != nil {
		return fmt.Errorf("declare exchange: %w", err)
	}

	_, err = c.channel.QueueDeclare(
		c.queueName, // name
		true,        // durable
		false,       // delete when unused
		false,       // exclusive
		false,       // no-wait
		nil,         // arguments
	)
	if err != nil {
		return fmt.Errorf("declare queue: %w", err)
	}

	// Routing key matches the queue name on a direct exchange.
	err = c.channel.QueueBind(
		c.queueName,
		c.queueName,
		c.exchangeName,
		false,
		nil,
	)
	if err != nil {
		return fmt.Errorf("bind queue: %w", err)
	}

	return nil
}

// PublishRawExpenses sends one batch of raw expense records.
func (c *Client) PublishRawExpenses(ctx context.Context, source string, records []core.RawExpense) error {
	msg := NewRawExpenseBatch(source, records)
	body, err := msg.ToJSON()
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	err = c.channel.PublishWithContext(
		ctx,
		c.exchangeName, // exchange
		c.queueName,    // routing key
		false,          // mandatory
		false,          // immediate
		amqp091.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp091.Persistent,
			Timestamp:    time.Now(),
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("publish message: %w", err)
	}

	slog.InfoContext(ctx, "Published raw expense batch",
		"source", source,
		"records", len(records),
		"exchange", c.exchangeName,
		"queue", c.queueName)

	return nil
}

// FetchRawExpenses drains every batch currently waiting on the queue
// and returns the concatenated records. Messages are acked as they are
// read; the ledger's hash dedup makes a replayed batch harmless, so
// at-least-once delivery is enough. A message that fails to parse is
// rejected without requeue.
func (c *Client) FetchRawExpenses(ctx context.Context) ([]core.RawExpense, error) {
	var records []core.RawExpense
	for {
		if err := ctx.Err(); err != nil {
			return records, err
		}

		delivery, ok, err := c.channel.Get(c.queueName, false)
		if err != nil {
			return records, fmt.Errorf("get message: %w", err)
		}
		if !ok {
			return records, nil
		}

		msg, err := RawExpenseBatchFromJSON(delivery.Body)
		if err != nil {
			slog.WarnContext(ctx, "Dropping unparseable batch message", "error", err)
			if nackErr := delivery.Nack(false, false); nackErr != nil {
				return records, fmt.Errorf("nack message: %w", nackErr)
			}
			continue
		}

		if ackErr := delivery.Ack(false); ackErr != nil {
			return records, fmt.Errorf("ack message: %w", ackErr)
		}

		slog.DebugContext(ctx, "Fetched raw expense batch",
			"source", msg.Source,
			"records", len(msg.Records))
		records = append(records, msg.Records...)
	}
}

// Produce implements the ingestion source interface.
func (c *Client) Produce(ctx context.Context) ([]core.RawExpense, error) {
	return c.FetchRawExpenses(ctx)
}

func (c *Client) Close() error {
	var firstErr error
	if c.channel != nil {
		if err := c.channel.Close(); err != nil {
			firstErr = err
		}
	}
	if c.conn != nil {
		if err := c.conn.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
