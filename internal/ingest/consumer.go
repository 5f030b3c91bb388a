// internal/ingest/consumer.go
package ingest

import (
	"fmt"
	"log"

	"github.com/streadway/amqp"

	"fuelmap/internal/messaging"
	"fuelmap/internal/metrics"
)

type JobHandlerFunc func(tenantID string, delivery amqp.Delivery)

// Consumer holds control channels and metadata for a running tenant's
// ingest consumer.
type Consumer struct {
	TenantID    string
	QueueName   string
	Channel     *amqp.Channel
	StopChan    chan struct{}
	DoneChan    chan struct{}
	Handler     JobHandlerFunc
	ConsumerTag string
}

// StartConsumer starts a goroutine that consumes upload jobs for a tenant.
func StartConsumer(conn *amqp.Connection, tenantID string, handler JobHandlerFunc) (*Consumer, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("tenant %s: failed to open channel: %w", tenantID, err)
	}

	queueName := messaging.IngestQueue(tenantID)
	consumerTag := fmt.Sprintf("ingest-%s", tenantID)

	msgs, err := ch.Consume(
		queueName,
		consumerTag,
		false, // autoAck: false to handle manually
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("tenant %s: failed to start consuming: %w", tenantID, err)
	}

	c := &Consumer{
		TenantID:    tenantID,
		QueueName:   queueName,
		Channel:     ch,
		StopChan:    make(chan struct{}),
		DoneChan:    make(chan struct{}),
		Handler:     handler,
		ConsumerTag: consumerTag,
	}

	go c.consumeLoop(msgs)

	log.Printf("[Ingest] Started consumer for tenant %s", tenantID)
	return c, nil
}

// consumeLoop processes jobs until StopChan is closed.
func (c *Consumer) consumeLoop(msgs <-chan amqp.Delivery) {
	metrics.ActiveConsumers.Inc()
	defer func() {
		metrics.ActiveConsumers.Dec()
		close(c.DoneChan)
	}()

	for {
		select {
		case msg, ok := <-msgs:
			if !ok {
				log.Printf("[Ingest] Tenant %s: delivery channel closed", c.TenantID)
				return
			}
			c.Handler(c.TenantID, msg)

		case <-c.StopChan:
			log.Printf("[Ingest] Stopping consumer for tenant %s...", c.TenantID)
			_ = c.Channel.Cancel(c.ConsumerTag, false)
			return
		}
	}
}

// Stop signals the consumer to stop and waits for cleanup.
func (c *Consumer) Stop() {
	close(c.StopChan)
	<-c.DoneChan
	_ = c.Channel.Close()
	log.Printf("[Ingest] Stopped consumer for tenant %s", c.TenantID)
}
