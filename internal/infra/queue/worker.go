package queue

import (
	"context"
	"encoding/json"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// LeadNotifier is the contract the worker needs from the mail layer.
type LeadNotifier interface {
	SendLeadNotification(payload LeadCapturedPayload) error
}

// Worker drains the notification queue and emails the sales team about each
// captured lead. It owns no database access.
type Worker struct {
	Channel  *amqp.Channel
	Notifier LeadNotifier
	Logger   *zap.Logger
}

func NewWorker(ch *amqp.Channel, notifier LeadNotifier, logger *zap.Logger) *Worker {
	return &Worker{
		Channel:  ch,
		Notifier: notifier,
		Logger:   logger,
	}
}

func (w *Worker) Start(queueName string) {
	msgs, err := w.Channel.Consume(
		queueName,
		"",    // consumer
		false, // auto-ack, manual is safer
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,   // args
	)
	if err != nil {
		w.Logger.Fatal("failed to register rabbitmq consumer", zap.Error(err))
	}

	forever := make(chan bool)

	go func() {
		for d := range msgs {
			var payload LeadCapturedPayload
			if err := json.Unmarshal(d.Body, &payload); err != nil {
				w.Logger.Error("malformed lead.captured message, dropping", zap.Error(err))
				// Poison message, reject without requeue so the queue keeps moving.
				d.Nack(false, false)
				continue
			}

			w.Logger.Info("processing lead notification",
				zap.String("lead_id", payload.LeadID),
				zap.String("restaurant", payload.Restaurant),
			)

			if err := w.processMessage(context.Background(), payload); err != nil {
				w.Logger.Error("lead notification failed",
					zap.String("lead_id", payload.LeadID),
					zap.Error(err),
				)
				// SMTP hiccups land in the DLQ instead of looping forever.
				d.Nack(false, false)
			} else {
				d.Ack(false)
			}
		}
	}()

	w.Logger.Info("notification worker waiting on queue", zap.String("queue", queueName))
	<-forever
}

func (w *Worker) processMessage(_ context.Context, payload LeadCapturedPayload) error {
	if w.Notifier == nil {
		// No mailer configured: ack and move on, the lead itself is safe.
		return nil
	}
	return w.Notifier.SendLeadNotification(payload)
}
