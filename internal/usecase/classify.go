package usecase

import "github.com/atendemed/medsync/internal/entity"

// Transition é a transição escolhida para um evento.
type Transition int

const (
	TransitionEnroll Transition = iota
	TransitionRefreshDependents
	TransitionCancel
	TransitionReactivate
)

func (t Transition) String() string {
	switch t {
	case TransitionEnroll:
		return "cadastro"
	case TransitionRefreshDependents:
		return "atualizacao_dependentes"
	case TransitionCancel:
		return "cancelamento"
	case TransitionReactivate:
		return "reentrada"
	default:
		return "desconhecida"
	}
}

// Classify é a função de decisão pura do reconciliador, separada de qualquer
// efeito colateral. Prioridade: status inativo > cliente excluído > caminho
// normal. A operação declarada pelo webhook só desempata entre cadastro novo
// e atualização de dependentes — status do cadastro e livro de exclusões é
// que mandam, porque os rótulos de operação do webhook não são confiáveis.
func Classify(op entity.OperationKind, status int, excluded bool) Transition {
	if status == entity.StatusInativo {
		return TransitionCancel
	}
	if excluded {
		return TransitionReactivate
	}
	if op == entity.OperationInsert {
		return TransitionEnroll
	}
	return TransitionRefreshDependents
}
