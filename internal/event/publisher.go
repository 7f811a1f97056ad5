package event

import (
	"encoding/json"
	"log/slog"
	"time"

	"github.com/streadway/amqp"
)

// Routing keys for the topic exchange. Downstream consumers bind with
// patterns like "quiz.*" or "question.#".
const (
	QuizCreated       = "quiz.created"
	QuizQuotaExceeded = "quiz.quota_exceeded"
	QuestionCreated   = "question.created"
	QuestionListed    = "question.list"
	QuestionFetched   = "question.get"
	QuestionUpdated   = "question.updated"
	QuestionDeleted   = "question.deleted"
	AccessRuleChanged = "access_rule.changed"
)

type EventPublisher struct {
	conn     *amqp.Connection
	channel  *amqp.Channel
	exchange string
	logger   *slog.Logger
}

func NewEventPublisher(amqpURL, exchange string, logger *slog.Logger) (*EventPublisher, error) {
	conn, err := amqp.Dial(amqpURL)
	if err != nil {
		return nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		return nil, err
	}
	err = ch.ExchangeDeclare(
		exchange,
		"topic",
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &EventPublisher{conn: conn, channel: ch, exchange: exchange, logger: logger}, nil
}

// Publish emits an event on the topic exchange using the event type as the
// routing key. A nil *EventPublisher is valid and drops events, so the
// broker stays optional in local setups.
func (p *EventPublisher) Publish(eventType string, payload any) error {
	if p == nil {
		return nil
	}
	event := map[string]any{
		"type":        eventType,
		"payload":     payload,
		"occurred_at": time.Now().UTC(),
	}
	body, err := json.Marshal(event)
	if err != nil {
		return err
	}

	p.logger.Info("publishing event", "type", eventType)

	return p.channel.Publish(
		p.exchange,
		eventType,
		false,
		false,
		amqp.Publishing{
			ContentType: "application/json",
			Body:        body,
		},
	)
}

func (p *EventPublisher) Close() {
	if p == nil {
		return
	}
	if p.channel != nil {
		_ = p.channel.Close()
	}
	if p.conn != nil {
		_ = p.conn.Close()
	}
}
