package usecase

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/atendemed/medsync/internal/entity"
	"github.com/atendemed/medsync/internal/infra/integration/tenex"
)

func TestResolveFamilyPartitionsContacts(t *testing.T) {
	client := &tenex.ClientRecord{
		Status: entity.StatusAtivo,
		Contatos: []tenex.Contact{
			{Nome: "Filha Silva", CPF: "222.222.222-01", DataNascimento: "2015-03-10", Sexo: 2},
			{Nome: "João Silva", CPF: "111.111.111-01", DataNascimento: "1985-01-20", Sexo: 1, Principal: true},
			{Nome: "Maria Silva", CPF: "333.333.333-01", DataNascimento: "1987-08-02", Sexo: 2},
		},
	}

	family, warnings, err := ResolveFamily(client, entity.Person{})

	assert.NoError(t, err)
	assert.Empty(t, warnings)
	assert.Equal(t, "JOAO SILVA", family.Titular.Name)
	assert.Equal(t, "11111111101", family.Titular.CPF)
	assert.Len(t, family.Dependents, 2)
	assert.Equal(t, "22222222201", family.Dependents[0].CPF)
	assert.Equal(t, "33333333301", family.Dependents[1].CPF)
}

func TestResolveFamilyDropsDependentsWithoutCPF(t *testing.T) {
	client := &tenex.ClientRecord{
		Contatos: []tenex.Contact{
			{Nome: "João Silva", CPF: "11111111101", Principal: true},
			{Nome: "Recém Nascido"}, // sem CPF
			{Nome: "Maria Silva", CPF: "33333333301"},
		},
	}

	family, warnings, err := ResolveFamily(client, entity.Person{})

	assert.NoError(t, err)
	assert.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "RECEM NASCIDO")
	assert.Len(t, family.Dependents, 1)
}

func TestResolveFamilyFallsBackToWebhookPayload(t *testing.T) {
	fallback := entity.Person{Name: "João Silva", CPF: "111.111.111-01", BirthDate: "1985-01-20", Gender: 1}

	// Cadastro ainda não populado na TENEX
	family, _, err := ResolveFamily(nil, fallback)

	assert.NoError(t, err)
	assert.Equal(t, "JOAO SILVA", family.Titular.Name)
	assert.Equal(t, "11111111101", family.Titular.CPF)
	assert.Empty(t, family.Dependents)
}

func TestResolveFamilyFallsBackWhenNoPrincipalContact(t *testing.T) {
	client := &tenex.ClientRecord{
		Contatos: []tenex.Contact{
			{Nome: "Maria Silva", CPF: "33333333301"},
		},
	}
	fallback := entity.Person{Name: "João Silva", CPF: "11111111101"}

	family, _, err := ResolveFamily(client, fallback)

	assert.NoError(t, err)
	assert.Equal(t, "JOAO SILVA", family.Titular.Name)
	assert.Len(t, family.Dependents, 1)
}

func TestResolveFamilyDeduplicatesDependentsByCPF(t *testing.T) {
	client := &tenex.ClientRecord{
		Contatos: []tenex.Contact{
			{Nome: "João Silva", CPF: "11111111101", Principal: true},
			{Nome: "Maria Silva", CPF: "33333333301"},
			{Nome: "Maria S.", CPF: "333.333.333-01"},
		},
	}

	family, _, err := ResolveFamily(client, entity.Person{})

	assert.NoError(t, err)
	assert.Len(t, family.Dependents, 1)
	assert.Equal(t, "MARIA SILVA", family.Dependents[0].Name)
}

func TestResolveFamilyRejectsInvalidTitular(t *testing.T) {
	_, _, err := ResolveFamily(nil, entity.Person{Name: "João", CPF: "123"})
	assert.ErrorIs(t, err, entity.ErrInvalidFamily)

	_, _, err = ResolveFamily(nil, entity.Person{CPF: "11111111101"})
	assert.ErrorIs(t, err, entity.ErrInvalidFamily)
}
