package queue

import (
	"encoding/json"
	"log"

	amqp "github.com/rabbitmq/amqp091-go"
)

// AlertSender renders and delivers the sales-facing alert email. The worker
// is decoupled from SMTP details behind this contract.
type AlertSender interface {
	SendQualifiedAlert(payload LeadAlertPayload) error
	SendHighValueAlert(payload LeadAlertPayload) error
}

type Worker struct {
	Channel *amqp.Channel
	Alerts  AlertSender
}

func NewWorker(ch *amqp.Channel, alerts AlertSender) *Worker {
	return &Worker{
		Channel: ch,
		Alerts:  alerts,
	}
}

func (w *Worker) Start(queueName string) {
	msgs, err := w.Channel.Consume(
		queueName,
		"",    // consumer
		false, // manual ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,   // args
	)
	if err != nil {
		log.Fatalf("❌ failed to register RabbitMQ consumer: %s", err)
	}

	forever := make(chan bool)

	go func() {
		for d := range msgs {
			var payload LeadAlertPayload
			if err := json.Unmarshal(d.Body, &payload); err != nil {
				log.Printf("❌ [ALERTS] malformed message: %s", err)
				// Rotten message, reject without requeue so the queue keeps moving.
				d.Nack(false, false)
				continue
			}

			log.Printf("📥 [ALERTS] %s alert for lead %s (score %d)", payload.Kind, payload.LeadID, payload.Score)

			if err := w.processMessage(payload); err != nil {
				log.Printf("❌ [ALERTS] send failed for lead %s: %s", payload.LeadID, err)
				// Alerting is best-effort. Off to the DLQ, never back to the lead write.
				d.Nack(false, false)
			} else {
				d.Ack(false)
			}
		}
	}()

	log.Printf(" [*] alert worker waiting on queue '%s'", queueName)
	<-forever
}

func (w *Worker) processMessage(payload LeadAlertPayload) error {
	switch payload.Kind {
	case "high_value":
		return w.Alerts.SendHighValueAlert(payload)
	case "qualified":
		return w.Alerts.SendQualifiedAlert(payload)
	default:
		log.Printf("⚠️ [ALERTS] unknown alert kind %q, dropping", payload.Kind)
		// Ack-and-forget: we do not know how to handle it.
		return nil
	}
}
