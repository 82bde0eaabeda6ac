package queue

import (
	"encoding/json"
	"log"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/atendemed/medsync/internal/entity"
)

// NotificationSender define o contrato das notificações disparadas a partir
// dos resultados de reconciliação.
type NotificationSender interface {
	SendEnrollmentNotice(to, name string) error
	SendFailureAlert(clientID, cpf, motivo string) error
}

// Worker consome q.outcomes e dispara as notificações. Fica fora do caminho
// síncrono do webhook: falha de e-mail nunca atrasa nem derruba um lote.
type Worker struct {
	Channel *amqp.Channel
	Mailer  NotificationSender
}

func NewWorker(ch *amqp.Channel, mailer NotificationSender) *Worker {
	return &Worker{
		Channel: ch,
		Mailer:  mailer,
	}
}

func (w *Worker) Start(queueName string) {
	msgs, err := w.Channel.Consume(
		queueName, // fila
		"",        // consumer
		false,     // auto-ack (manual é mais seguro)
		false,     // exclusive
		false,     // no-local
		false,     // no-wait
		nil,       // args
	)
	if err != nil {
		log.Fatalf("❌ Falha ao registrar consumidor RabbitMQ: %s", err)
	}

	forever := make(chan bool)

	go func() {
		for d := range msgs {
			var payload OutcomePayload
			if err := json.Unmarshal(d.Body, &payload); err != nil {
				log.Printf("❌ [WORKER] JSON Inválido: %s", err)
				// Mensagem malformada. Rejeita sem requeue para não travar a fila.
				d.Nack(false, false)
				continue
			}

			if err := w.processMessage(payload); err != nil {
				log.Printf("❌ [WORKER] Erro ao notificar resultado de %s: %s", payload.CPF, err)
				d.Nack(false, false)
			} else {
				d.Ack(false)
			}
		}
	}()

	log.Printf(" [*] Worker de notificações aguardando na fila '%s'", queueName)
	<-forever
}

func (w *Worker) processMessage(payload OutcomePayload) error {
	switch payload.Status {
	case entity.OutcomeCadastrado:
		if payload.Email == "" {
			log.Printf("⚠️ [WORKER] Cadastro de %s sem e-mail, boas-vindas puladas", payload.CPF)
			return nil
		}
		return w.Mailer.SendEnrollmentNotice(payload.Email, payload.Nome)

	case entity.OutcomeErro:
		return w.Mailer.SendFailureAlert(payload.ClientID, payload.CPF, payload.Motivo)

	default:
		// cancelado, ignorado e dependentes_atualizados não geram notificação.
		return nil
	}
}
