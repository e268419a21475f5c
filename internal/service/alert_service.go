package service

import (
	"context"
	"encoding/json"

	"warehouse-scan-be/internal/pkg/logger"
	"warehouse-scan-be/internal/pkg/mailer"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// IAlertPublisher queues operator alerts for partially applied submissions.
type IAlertPublisher interface {
	PublishReconciliationAlert(alert mailer.ReconciliationAlert) error
}

type alertPublisher struct {
	pubSub    *gochannel.GoChannel
	topicName string
}

func NewAlertPublisher(pubSub *gochannel.GoChannel, topicName string) IAlertPublisher {
	return &alertPublisher{pubSub: pubSub, topicName: topicName}
}

func (p *alertPublisher) PublishReconciliationAlert(alert mailer.ReconciliationAlert) error {
	payload, err := json.Marshal(alert)
	if err != nil {
		return err
	}
	return p.pubSub.Publish(p.topicName, message.NewMessage(watermill.NewUUID(), payload))
}

type IAlertConsumer interface {
	Consume(ctx context.Context) error
}

type alertConsumer struct {
	pubSub    *gochannel.GoChannel
	topicName string
	email     mailer.IEmailService
	recipient string
	logger    logger.ILogger
}

// NewAlertConsumer mails every queued alert to recipient. With no recipient
// or mailer the alerts are only logged.
func NewAlertConsumer(
	pubSub *gochannel.GoChannel,
	topicName string,
	email mailer.IEmailService,
	recipient string,
	logger logger.ILogger,
) IAlertConsumer {
	return &alertConsumer{
		pubSub:    pubSub,
		topicName: topicName,
		email:     email,
		recipient: recipient,
		logger:    logger,
	}
}

func (c *alertConsumer) Consume(ctx context.Context) error {
	messages, err := c.pubSub.Subscribe(ctx, c.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			c.processMessage(msg)
		}
	}()

	return nil
}

func (c *alertConsumer) processMessage(msg *message.Message) {
	var alert mailer.ReconciliationAlert
	if err := json.Unmarshal(msg.Payload, &alert); err != nil {
		c.logger.Error("ALERT", "Dropping undecodable alert", map[string]interface{}{"error": err.Error()})
		msg.Ack()
		return
	}

	details := map[string]interface{}{
		"direction":      alert.Direction,
		"operation_id":   alert.OperationID,
		"customer_id":    alert.CustomerID,
		"applied_chunks": alert.AppliedChunks,
		"total_chunks":   alert.TotalChunks,
		"pending_items":  alert.PendingItemIDs,
	}
	c.logger.Warn("ALERT", "Submission needs reconciliation", details)

	if c.email == nil || c.recipient == "" {
		msg.Ack()
		return
	}

	// Mail failures are not retried; the warning above already carries the details.
	if err := c.email.SendReconciliationAlert(c.recipient, alert); err != nil {
		c.logger.Error("ALERT", "Failed to send reconciliation alert", map[string]interface{}{"error": err.Error()})
	}
	msg.Ack()
}
