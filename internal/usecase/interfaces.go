package usecase

import (
	"context"

	"github.com/atendemed/medsync/internal/entity"
	"github.com/atendemed/medsync/internal/infra/integration/medicar"
	"github.com/atendemed/medsync/internal/infra/integration/tenex"
	"github.com/atendemed/medsync/internal/infra/queue"
)

// RegistryClient é a visão que o reconciliador tem da TENEX.
type RegistryClient interface {
	// GetWallet devolve a carteira virtual por CPF; lista vazia quando o
	// cliente ainda não tem plano.
	GetWallet(ctx context.Context, cpf string) ([]tenex.WalletRecord, error)
	// GetClient devolve o cadastro expandido; nil (sem erro) quando o
	// cliente não existe ou ainda não foi populado.
	GetClient(ctx context.Context, clientID string) (*tenex.ClientRecord, error)
}

// BackOfficeClient é a visão que o reconciliador tem da MEDICAR.
type BackOfficeClient interface {
	ResolveTenant(ctx context.Context) (string, error)
	// FindMembership devolve a matrícula (BBA_MATRIC) pelo CPF do titular;
	// vazio quando o beneficiário não existe no back office.
	FindMembership(ctx context.Context, cpf string) (string, error)
	EnrollTitular(ctx context.Context, tenantID string, titular entity.Person, product entity.MappedProduct) error
	EnrollDependents(ctx context.Context, tenantID, matricula, titularCPF string, deps []entity.Person, product entity.MappedProduct) error
	CancelMembership(ctx context.Context, tenantID string, input medicar.CancelInput) error
}

type OutcomePublisher interface {
	PublishOutcome(ctx context.Context, payload queue.OutcomePayload) error
}
