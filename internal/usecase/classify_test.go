package usecase

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/atendemed/medsync/internal/entity"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		op       entity.OperationKind
		status   int
		excluded bool
		want     Transition
	}{
		{"insert ativo sem exclusão vira cadastro", entity.OperationInsert, entity.StatusAtivo, false, TransitionEnroll},
		{"update ativo sem exclusão vira atualização", entity.OperationUpdate, entity.StatusAtivo, false, TransitionRefreshDependents},
		{"operação desconhecida ativa vira atualização", entity.OperationUnknown, entity.StatusAtivo, false, TransitionRefreshDependents},

		// Status inativo manda, independente da operação declarada.
		{"update inativo vira cancelamento", entity.OperationUpdate, entity.StatusInativo, false, TransitionCancel},
		{"insert inativo vira cancelamento", entity.OperationInsert, entity.StatusInativo, false, TransitionCancel},
		{"inativo excluído ainda é cancelamento", entity.OperationUpdate, entity.StatusInativo, true, TransitionCancel},

		// Exclusão tem prioridade sobre o caminho normal.
		{"update ativo excluído vira reentrada", entity.OperationUpdate, entity.StatusAtivo, true, TransitionReactivate},
		{"insert ativo excluído vira reentrada", entity.OperationInsert, entity.StatusAtivo, true, TransitionReactivate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.op, tt.status, tt.excluded))
		})
	}
}
