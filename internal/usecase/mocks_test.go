package usecase

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/atendemed/medsync/internal/entity"
	"github.com/atendemed/medsync/internal/infra/integration/medicar"
	"github.com/atendemed/medsync/internal/infra/integration/tenex"
	"github.com/atendemed/medsync/internal/infra/queue"
)

// MockRegistryClient
type MockRegistryClient struct {
	mock.Mock
}

func (m *MockRegistryClient) GetWallet(ctx context.Context, cpf string) ([]tenex.WalletRecord, error) {
	args := m.Called(ctx, cpf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]tenex.WalletRecord), args.Error(1)
}

func (m *MockRegistryClient) GetClient(ctx context.Context, clientID string) (*tenex.ClientRecord, error) {
	args := m.Called(ctx, clientID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*tenex.ClientRecord), args.Error(1)
}

// MockBackOfficeClient
type MockBackOfficeClient struct {
	mock.Mock
}

func (m *MockBackOfficeClient) ResolveTenant(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

func (m *MockBackOfficeClient) FindMembership(ctx context.Context, cpf string) (string, error) {
	args := m.Called(ctx, cpf)
	return args.String(0), args.Error(1)
}

func (m *MockBackOfficeClient) EnrollTitular(ctx context.Context, tenantID string, titular entity.Person, product entity.MappedProduct) error {
	args := m.Called(ctx, tenantID, titular, product)
	return args.Error(0)
}

func (m *MockBackOfficeClient) EnrollDependents(ctx context.Context, tenantID, matricula, titularCPF string, deps []entity.Person, product entity.MappedProduct) error {
	args := m.Called(ctx, tenantID, matricula, titularCPF, deps, product)
	return args.Error(0)
}

func (m *MockBackOfficeClient) CancelMembership(ctx context.Context, tenantID string, input medicar.CancelInput) error {
	args := m.Called(ctx, tenantID, input)
	return args.Error(0)
}

// MockExclusionLedger
type MockExclusionLedger struct {
	mock.Mock
}

func (m *MockExclusionLedger) Record(ctx context.Context, clientID, taxID string) error {
	args := m.Called(ctx, clientID, taxID)
	return args.Error(0)
}

func (m *MockExclusionLedger) Lookup(ctx context.Context, clientID string) (*entity.ExclusionEntry, error) {
	args := m.Called(ctx, clientID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.ExclusionEntry), args.Error(1)
}

func (m *MockExclusionLedger) Remove(ctx context.Context, clientID string) error {
	args := m.Called(ctx, clientID)
	return args.Error(0)
}

// MockOutcomePublisher
type MockOutcomePublisher struct {
	mock.Mock
}

func (m *MockOutcomePublisher) PublishOutcome(ctx context.Context, payload queue.OutcomePayload) error {
	args := m.Called(ctx, payload)
	return args.Error(0)
}
