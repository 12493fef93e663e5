package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"

	"docbase/internal/model"
)

type BatchPublisher struct {
	conn      *amqp.Connection
	queueName string
}

func NewBatchPublisher(conn *amqp.Connection, queueName string) *BatchPublisher {
	return &BatchPublisher{
		conn:      conn,
		queueName: queueName,
	}
}

func (p *BatchPublisher) Publish(ctx context.Context, job model.BatchJob) error {
	ch, err := p.conn.Channel()
	if err != nil {
		return fmt.Errorf("open rabbitmq channel failed: %w", err)
	}
	defer ch.Close()

	_, err = ch.QueueDeclare(
		p.queueName,
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return fmt.Errorf("declare queue failed: %w", err)
	}

	payload, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("marshal batch job failed: %w", err)
	}

	if err := ch.PublishWithContext(
		ctx,
		"",
		p.queueName,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         payload,
			DeliveryMode: amqp.Persistent,
		},
	); err != nil {
		return fmt.Errorf("publish batch job failed: %w", err)
	}
	return nil
}
