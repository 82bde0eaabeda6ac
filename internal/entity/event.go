package entity

// OperationKind é a operação declarada pelo webhook da TENEX.
// É contexto para diagnóstico: o status do cadastro e o livro de exclusões
// é que mandam na decisão (labels de webhook se mostraram pouco confiáveis).
type OperationKind string

const (
	OperationInsert  OperationKind = "INSERT"
	OperationUpdate  OperationKind = "UPDATE"
	OperationUnknown OperationKind = "UNKNOWN"
)

// ParseOperationKind normaliza o rótulo vindo do webhook.
func ParseOperationKind(raw string) OperationKind {
	switch NormalizeName(raw) {
	case "INSERT", "I", "INCLUSAO":
		return OperationInsert
	case "UPDATE", "U", "ALTERACAO":
		return OperationUpdate
	default:
		return OperationUnknown
	}
}

// Status do cliente na TENEX.
const (
	StatusAtivo   = 1
	StatusInativo = 2
)

// ClientEvent é uma notificação de ciclo de vida de um cliente.
// Imutável; construído a partir do webhook e consumido uma vez por
// passada de reconciliação.
type ClientEvent struct {
	Operation OperationKind `json:"operacao"`
	ClientID  string        `json:"id_cliente"`
	TaxID     string        `json:"cpf"`

	// Status informado no próprio payload. Usado como fallback quando o
	// cadastro expandido não está disponível na TENEX.
	Status int `json:"status"`

	// Dados do titular vindos no próprio webhook. Fallback para webhooks
	// que chegam antes da lista de contatos ser populada.
	Titular Person `json:"data"`
}
