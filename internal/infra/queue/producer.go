package queue

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
)

// LeadAlertPayload is what the dispatcher hands the alert consumer: enough
// lead context to render the sales email without a database round trip.
type LeadAlertPayload struct {
	LeadID      string `json:"lead_id"`
	Kind        string `json:"kind"` // "qualified" | "high_value"
	Email       string `json:"email"`
	Name        string `json:"name"`
	Company     string `json:"company"`
	ProjectType string `json:"project_type"`
	BudgetRange string `json:"budget_range"`
	Timeline    string `json:"timeline"`
	Score       int    `json:"score"`
}

type RabbitMQProducer struct {
	Conn *amqp.Connection
	Ch   *amqp.Channel
}

func NewProducer(conn *amqp.Connection, ch *amqp.Channel) *RabbitMQProducer {
	return &RabbitMQProducer{
		Conn: conn,
		Ch:   ch,
	}
}

func (p *RabbitMQProducer) PublishLeadAlert(ctx context.Context, payload LeadAlertPayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal alert payload: %v", err)
	}

	err = p.Ch.PublishWithContext(ctx,
		ExchangeName,
		RoutingKey,
		false, // Mandatory
		false, // Immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent, // survives a broker restart
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish lead alert: %v", err)
	}

	return nil
}
