package queue

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
)

// OutcomePayload é o evento publicado após cada reconciliação, um por
// cliente do lote, para consumidores downstream (notificações, auditoria).
type OutcomePayload struct {
	BatchID  string `json:"batch_id"`
	ClientID string `json:"client_id"`
	CPF      string `json:"cpf"`

	Nome  string `json:"nome"`
	Email string `json:"email"`

	Status    string `json:"status"` // cadastrado, cancelado, etc
	Motivo    string `json:"motivo,omitempty"`
	Reentrada bool   `json:"reentrada"`
}

type OutcomePublisherInterface interface {
	PublishOutcome(ctx context.Context, payload OutcomePayload) error
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

func (p *RabbitMQProducer) PublishOutcome(ctx context.Context, payload OutcomePayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("erro ao converter payload: %v", err)
	}

	err = p.Ch.PublishWithContext(ctx,
		ExchangeName,
		RoutingKey,
		false, // Mandatory
		false, // Immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent, // Mensagem salva no disco
		},
	)

	if err != nil {
		return fmt.Errorf("falha ao publicar no RabbitMQ: %v", err)
	}

	return nil
}
