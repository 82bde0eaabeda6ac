package usecase

import (
	"context"
	"log"

	"github.com/google/uuid"

	"github.com/atendemed/medsync/internal/entity"
	"github.com/atendemed/medsync/internal/infra/queue"
)

// ReconcileEventsUseCase é o orquestrador: classifica cada evento do lote e
// dirige poller, resolvedor, livro de exclusões e executores na ordem certa,
// produzindo um outcome por evento.
type ReconcileEventsUseCase struct {
	Registry   RegistryClient
	BackOffice BackOfficeClient
	Ledger     entity.ExclusionLedgerInterface
	Poller     *PlanPoller
	Plans      PlanTable
	Publisher  OutcomePublisher
	Cancel     CancelDefaults
}

func NewReconcileEventsUseCase(
	registry RegistryClient,
	backOffice BackOfficeClient,
	ledger entity.ExclusionLedgerInterface,
	poller *PlanPoller,
	plans PlanTable,
	publisher OutcomePublisher,
	cancel CancelDefaults,
) *ReconcileEventsUseCase {
	return &ReconcileEventsUseCase{
		Registry:   registry,
		BackOffice: backOffice,
		Ledger:     ledger,
		Poller:     poller,
		Plans:      plans,
		Publisher:  publisher,
		Cancel:     cancel,
	}
}

// Execute processa o lote sequencialmente e devolve os outcomes na mesma
// ordem dos eventos de entrada. Erro de um evento nunca aborta os seguintes;
// só a falta de tenant/autenticação antes do lote é fatal.
func (uc *ReconcileEventsUseCase) Execute(ctx context.Context, events []entity.ClientEvent) ([]entity.ReconciliationOutcome, error) {
	tenantID, err := uc.BackOffice.ResolveTenant(ctx)
	if err != nil {
		return nil, &TechnicalError{
			Code:    "MEDICAR_AUTH",
			Message: "falha na autenticação com a MEDICAR: " + err.Error(),
		}
	}

	batchID := uuid.New().String()
	outcomes := make([]entity.ReconciliationOutcome, 0, len(events))

	for _, ev := range events {
		outcome := uc.processEvent(ctx, tenantID, ev)
		outcomes = append(outcomes, outcome)
		uc.publish(ctx, batchID, ev, outcome)
	}

	return outcomes, nil
}

func (uc *ReconcileEventsUseCase) processEvent(ctx context.Context, tenantID string, ev entity.ClientEvent) entity.ReconciliationOutcome {
	cpf := entity.OnlyDigits(ev.TaxID)
	out := entity.ReconciliationOutcome{ClientID: ev.ClientID, CPF: cpf}

	client, err := uc.Registry.GetClient(ctx, ev.ClientID)
	if err != nil {
		out.Status = entity.OutcomeErro
		out.Motivo = err.Error()
		return out
	}

	// O status do cadastro manda; o do payload é fallback para quando o
	// cadastro expandido ainda não existe.
	status := ev.Status
	if client != nil && client.Status != 0 {
		status = client.Status
	}
	if status == 0 {
		status = entity.StatusAtivo
	}

	entry, err := uc.Ledger.Lookup(ctx, ev.ClientID)
	if err != nil {
		out.Status = entity.OutcomeErro
		out.Motivo = "falha ao consultar livro de exclusões: " + err.Error()
		return out
	}

	transition := Classify(ev.Operation, status, entry != nil)
	log.Printf("🔎 Cliente %s (op=%s, status=%d, excluído=%t) → %s",
		ev.ClientID, ev.Operation, status, entry != nil, transition)

	switch transition {
	case TransitionCancel:
		return uc.cancelClient(ctx, tenantID, ev, cpf, out)

	case TransitionReactivate:
		out = uc.enrollClient(ctx, tenantID, ev, client, cpf, out)
		if out.Status == entity.OutcomeCadastrado {
			out.Reentrada = true
			if err := uc.Ledger.Remove(ctx, ev.ClientID); err != nil {
				log.Printf("⚠️ Reentrada efetuada mas falha ao limpar exclusão do cliente %s: %v", ev.ClientID, err)
			}
			log.Printf("♻️ Reentrada concluída para cliente %s", ev.ClientID)
		}
		return out

	case TransitionEnroll:
		return uc.enrollClient(ctx, tenantID, ev, client, cpf, out)

	default:
		return uc.refreshDependents(ctx, tenantID, ev, client, cpf, out)
	}
}

// publish manda o outcome para a fila de notificações. Melhor esforço:
// falha aqui é logada, nunca muda o resultado do evento.
func (uc *ReconcileEventsUseCase) publish(ctx context.Context, batchID string, ev entity.ClientEvent, out entity.ReconciliationOutcome) {
	if uc.Publisher == nil {
		return
	}

	payload := queue.OutcomePayload{
		BatchID:   batchID,
		ClientID:  ev.ClientID,
		CPF:       out.CPF,
		Nome:      ev.Titular.Name,
		Email:     ev.Titular.Email,
		Status:    out.Status,
		Motivo:    out.Motivo,
		Reentrada: out.Reentrada,
	}
	if err := uc.Publisher.PublishOutcome(ctx, payload); err != nil {
		log.Printf("⚠️ Falha ao publicar resultado na fila: %v", err)
	}
}
