// internal/messaging/rabbit.go
package messaging

import (
	"fmt"
	"log"

	"github.com/streadway/amqp"

	"fuelmap/internal/metrics"
)

type RabbitClient struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	URL     string
}

func NewRabbitClient(url string) (*RabbitClient, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to create channel: %w", err)
	}

	return &RabbitClient{
		conn:    conn,
		channel: ch,
		URL:     url,
	}, nil
}

func (r *RabbitClient) GetChannel() *amqp.Channel {
	return r.channel
}

func (r *RabbitClient) GetConnection() *amqp.Connection {
	return r.conn
}

func IngestQueue(tenantID string) string {
	return fmt.Sprintf("ingest_%s_queue", tenantID)
}

func IngestDLQ(tenantID string) string {
	return fmt.Sprintf("ingest_%s_dlq", tenantID)
}

// DeclareIngestQueue creates the tenant's durable ingest queue with a DLQ
// for rejected upload jobs.
func (r *RabbitClient) DeclareIngestQueue(tenantID string) error {
	queueName := IngestQueue(tenantID)
	dlqName := IngestDLQ(tenantID)

	_, err := r.channel.QueueDeclare(
		dlqName,
		true, false, false, false,
		nil,
	)
	if err != nil {
		return fmt.Errorf("declare DLQ: %w", err)
	}

	args := amqp.Table{
		"x-dead-letter-exchange":    "",
		"x-dead-letter-routing-key": dlqName,
	}
	_, err = r.channel.QueueDeclare(
		queueName,
		true, false, false, false,
		args,
	)
	if err != nil {
		return fmt.Errorf("declare ingest queue: %w", err)
	}

	log.Printf("[Rabbit] Ingest queues declared for tenant %s", tenantID)
	return nil
}

// PublishJob sends an upload job to the tenant's ingest queue.
func (r *RabbitClient) PublishJob(tenantID string, body []byte) error {
	queueName := IngestQueue(tenantID)
	err := r.channel.Publish(
		"",        // default exchange
		queueName, // routing key (queue name)
		false,
		false,
		amqp.Publishing{
			ContentType: "application/json",
			Body:        body,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish to queue %s: %w", queueName, err)
	}
	return nil
}

// DeleteIngestQueue removes the tenant's queues on tenant removal.
func (r *RabbitClient) DeleteIngestQueue(tenantID string) error {
	if _, err := r.channel.QueueDelete(IngestQueue(tenantID), false, false, false); err != nil {
		return fmt.Errorf("delete ingest queue: %w", err)
	}
	if _, err := r.channel.QueueDelete(IngestDLQ(tenantID), false, false, false); err != nil {
		return fmt.Errorf("delete DLQ: %w", err)
	}
	return nil
}

// Close cleans up connection and channel
func (r *RabbitClient) Close() error {
	if err := r.channel.Close(); err != nil {
		return err
	}
	if err := r.conn.Close(); err != nil {
		return err
	}
	return nil
}

func (r *RabbitClient) UpdateQueueDepth(tenantID string) {
	q, err := r.channel.QueueInspect(IngestQueue(tenantID))
	if err != nil {
		log.Printf("[Rabbit] Failed to inspect queue for %s: %v", tenantID, err)
		return
	}

	metrics.QueueDepth.WithLabelValues(tenantID).Set(float64(q.Messages))
}
