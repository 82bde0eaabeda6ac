package usecase

import (
	"context"
	"log"
	"time"

	"github.com/atendemed/medsync/internal/entity"
	"github.com/atendemed/medsync/internal/infra/integration/medicar"
)

// CancelDefaults parametriza o bloqueio na MEDICAR.
type CancelDefaults struct {
	MotivoBloqueio string
	Usuario        string
}

// cancelClient bloqueia a matrícula do cliente e registra a exclusão no
// livro. Cliente que nunca foi cadastrado não tem o que cancelar: isso é
// "ignorado", não erro.
func (uc *ReconcileEventsUseCase) cancelClient(ctx context.Context, tenantID string, ev entity.ClientEvent, cpf string, out entity.ReconciliationOutcome) entity.ReconciliationOutcome {
	// Guarda: só cancela quem tem plano contratado na TENEX. Evita bloquear
	// um CPF que nunca passou pelo cadastro.
	wallet, err := uc.Registry.GetWallet(ctx, cpf)
	if err != nil {
		out.Status = entity.OutcomeErro
		out.Motivo = err.Error()
		return out
	}
	if _, ok := FirstContractedPlan(wallet, cpf); !ok {
		out.Status = entity.OutcomeIgnorado
		out.Motivo = "nada a cancelar: cliente sem plano contratado"
		return out
	}

	matricula, err := uc.BackOffice.FindMembership(ctx, cpf)
	if err != nil {
		out.Status = entity.OutcomeErro
		out.Motivo = err.Error()
		return out
	}
	if matricula == "" {
		out.Status = entity.OutcomeIgnorado
		out.Motivo = "nada a cancelar: matrícula não encontrada na MEDICAR"
		return out
	}

	input := medicar.CancelInput{
		Matricula:      matricula,
		MotivoBloqueio: uc.Cancel.MotivoBloqueio,
		DataBloqueio:   time.Now().Format("20060102"),
		Usuario:        uc.Cancel.Usuario,
	}
	if err := uc.BackOffice.CancelMembership(ctx, tenantID, input); err != nil {
		out.Status = entity.OutcomeErro
		out.Motivo = err.Error()
		return out
	}

	out.Status = entity.OutcomeCancelado
	if err := uc.Ledger.Record(ctx, ev.ClientID, cpf); err != nil {
		// O bloqueio já foi efetuado no back office; a inconsistência fica
		// visível no motivo para a operação corrigir.
		out.Motivo = "cancelado na MEDICAR mas falha ao registrar exclusão: " + err.Error()
		log.Printf("⚠️ Cliente %s: %s", ev.ClientID, out.Motivo)
		return out
	}

	log.Printf("✅ Cliente cancelado CPF=%s (matrícula %s)", cpf, matricula)
	return out
}
