package usecase

import (
	"context"
	"log"
	"strconv"
	"time"

	"github.com/atendemed/medsync/internal/entity"
	"github.com/atendemed/medsync/internal/infra/http/middleware"
	"github.com/atendemed/medsync/internal/infra/integration/tenex"
)

// SleepFunc é o ponto de injeção do relógio do poller: produção usa
// SleepWithContext, testes injetam um fake.
type SleepFunc func(ctx context.Context, d time.Duration) error

// SleepWithContext dorme sem segurar lock nenhum e acorda na hora se o
// contexto for cancelado.
func SleepWithContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

type RetryPolicy struct {
	MaxAttempts int
	Interval    time.Duration
}

// DefaultRetryPolicy: 5 tentativas com 60s entre elas. O plano contratado
// costuma aparecer na TENEX minutos depois do webhook disparar.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{MaxAttempts: 5, Interval: 60 * time.Second}
}

// PlanPoller espera o plano contratado aparecer na carteira da TENEX,
// dentro do teto de tentativas da política.
type PlanPoller struct {
	Registry RegistryClient
	Policy   RetryPolicy
	Sleep    SleepFunc
}

func NewPlanPoller(registry RegistryClient, policy RetryPolicy) *PlanPoller {
	return &PlanPoller{
		Registry: registry,
		Policy:   policy,
		Sleep:    SleepWithContext,
	}
}

// AwaitPlan devolve o id do plano contratado, ou entity.ErrPlanUnavailable
// quando as tentativas se esgotam. Esgotar não é falha: é um outcome
// terminal de primeira classe ("ignorado").
func (p *PlanPoller) AwaitPlan(ctx context.Context, cpf string) (string, error) {
	cpf = entity.OnlyDigits(cpf)

	for attempt := 1; attempt <= p.Policy.MaxAttempts; attempt++ {
		middleware.RecordPollAttempt()

		records, err := p.Registry.GetWallet(ctx, cpf)
		if err != nil {
			return "", err
		}

		if planID, ok := FirstContractedPlan(records, cpf); ok {
			log.Printf("✅ Plano encontrado na tentativa %d para CPF %s", attempt, cpf)
			return planID, nil
		}

		if attempt < p.Policy.MaxAttempts {
			log.Printf("⚠️ Tentativa %d/%d: plano ainda não disponível para CPF %s. Aguardando %s...",
				attempt, p.Policy.MaxAttempts, cpf, p.Policy.Interval)
			if err := p.Sleep(ctx, p.Policy.Interval); err != nil {
				return "", err
			}
		}
	}

	return "", entity.ErrPlanUnavailable
}

// FirstContractedPlan escolhe o registro da carteira com CPF exato (senão o
// primeiro) e devolve o id do primeiro plano contratado dele.
func FirstContractedPlan(records []tenex.WalletRecord, cpf string) (string, bool) {
	if len(records) == 0 {
		return "", false
	}

	best := records[0]
	for _, r := range records {
		if entity.OnlyDigits(r.CPF) == cpf {
			best = r
			break
		}
	}

	if len(best.PlanosContratados) == 0 {
		return "", false
	}
	return strconv.Itoa(best.PlanosContratados[0].IDPlano), true
}
