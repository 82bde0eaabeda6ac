package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/atendemed/medsync/internal/entity"
	"github.com/atendemed/medsync/internal/infra/integration/tenex"
)

// enrollClient executa o caminho completo de cadastro: espera o plano
// aparecer na TENEX, traduz, resolve a família e faz a inclusão em duas
// fases na MEDICAR. Usado tanto para cadastro novo quanto para reentrada.
func (uc *ReconcileEventsUseCase) enrollClient(ctx context.Context, tenantID string, ev entity.ClientEvent, client *tenex.ClientRecord, cpf string, out entity.ReconciliationOutcome) entity.ReconciliationOutcome {
	planID, err := uc.Poller.AwaitPlan(ctx, cpf)
	if err != nil {
		if errors.Is(err, entity.ErrPlanUnavailable) {
			out.Status = entity.OutcomeIgnorado
			out.Motivo = fmt.Sprintf("nenhum plano encontrado após %d tentativas", uc.Poller.Policy.MaxAttempts)
			return out
		}
		out.Status = entity.OutcomeErro
		out.Motivo = err.Error()
		return out
	}

	product, ok := uc.Plans.Translate(planID)
	if !ok {
		out.Status = entity.OutcomeIgnorado
		out.Motivo = fmt.Sprintf("plano %s não mapeado", planID)
		return out
	}

	family, warnings, err := ResolveFamily(client, ev.Titular)
	for _, w := range warnings {
		log.Printf("⚠️ Cliente %s: %s", ev.ClientID, w)
	}
	if err != nil {
		out.Status = entity.OutcomeErro
		out.Motivo = "família inválida: " + err.Error()
		return out
	}

	// Fase a: titular. Falha aqui aborta o cadastro inteiro.
	if err := uc.BackOffice.EnrollTitular(ctx, tenantID, family.Titular, product); err != nil {
		out.Status = entity.OutcomeErro
		out.Motivo = err.Error()
		return out
	}

	// Fase b: a MEDICAR não devolve a matrícula na inclusão; ela é
	// descoberta reconsultando o contrato pelo CPF.
	matricula, err := uc.BackOffice.FindMembership(ctx, family.Titular.CPF)
	if err != nil {
		out.Status = entity.OutcomeErro
		out.Motivo = err.Error()
		return out
	}
	if matricula == "" {
		out.Status = entity.OutcomeErro
		out.Motivo = "titular incluído mas matrícula não encontrada na MEDICAR"
		return out
	}

	// Fase c: dependentes. Falha aqui não desfaz a/b — titular cadastrado
	// sem dependentes é um estado terminal válido e explicitamente exposto.
	out.Status = entity.OutcomeCadastrado
	if len(family.Dependents) > 0 {
		if err := uc.BackOffice.EnrollDependents(ctx, tenantID, matricula, family.Titular.CPF, family.Dependents, product); err != nil {
			out.Motivo = "titular cadastrado; falha ao incluir dependentes: " + err.Error()
			log.Printf("⚠️ Cliente %s: %s", ev.ClientID, out.Motivo)
			return out
		}
	}

	log.Printf("✅ Cliente cadastrado com sucesso CPF=%s (matrícula %s)", cpf, matricula)
	return out
}

// refreshDependents reenvia a grade atual de dependentes contra a matrícula
// existente. O reenvio é um overwrite idempotente chaveado por CPF.
func (uc *ReconcileEventsUseCase) refreshDependents(ctx context.Context, tenantID string, ev entity.ClientEvent, client *tenex.ClientRecord, cpf string, out entity.ReconciliationOutcome) entity.ReconciliationOutcome {
	planID, err := uc.Poller.AwaitPlan(ctx, cpf)
	if err != nil {
		if errors.Is(err, entity.ErrPlanUnavailable) {
			out.Status = entity.OutcomeIgnorado
			out.Motivo = fmt.Sprintf("nenhum plano encontrado após %d tentativas", uc.Poller.Policy.MaxAttempts)
			return out
		}
		out.Status = entity.OutcomeErro
		out.Motivo = err.Error()
		return out
	}

	product, ok := uc.Plans.Translate(planID)
	if !ok {
		out.Status = entity.OutcomeIgnorado
		out.Motivo = fmt.Sprintf("plano %s não mapeado", planID)
		return out
	}

	family, warnings, err := ResolveFamily(client, ev.Titular)
	for _, w := range warnings {
		log.Printf("⚠️ Cliente %s: %s", ev.ClientID, w)
	}
	if err != nil {
		out.Status = entity.OutcomeErro
		out.Motivo = "família inválida: " + err.Error()
		return out
	}

	matricula, err := uc.BackOffice.FindMembership(ctx, family.Titular.CPF)
	if err != nil {
		out.Status = entity.OutcomeErro
		out.Motivo = err.Error()
		return out
	}
	if matricula == "" {
		out.Status = entity.OutcomeErro
		out.Motivo = "matrícula não encontrada na MEDICAR para atualizar dependentes"
		return out
	}

	if err := uc.BackOffice.EnrollDependents(ctx, tenantID, matricula, family.Titular.CPF, family.Dependents, product); err != nil {
		out.Status = entity.OutcomeErro
		out.Motivo = err.Error()
		return out
	}

	log.Printf("✅ Dependentes atualizados para CPF=%s (matrícula %s)", cpf, matricula)
	out.Status = entity.OutcomeDependentes
	return out
}
