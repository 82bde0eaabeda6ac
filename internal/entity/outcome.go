package entity

// Status terminais por evento.
const (
	OutcomeCadastrado  = "cadastrado"
	OutcomeDependentes = "dependentes_atualizados"
	OutcomeCancelado   = "cancelado"
	OutcomeIgnorado    = "ignorado"
	OutcomeErro        = "erro"
)

// ReconciliationOutcome é o resultado de um evento. A resposta do webhook é
// a lista ordenada de outcomes, um por evento de entrada, sempre com o CPF
// original para o resultado ser atribuível mesmo em falha.
type ReconciliationOutcome struct {
	ClientID  string `json:"id_cliente"`
	CPF       string `json:"cpf"`
	Status    string `json:"status"`
	Motivo    string `json:"motivo,omitempty"`
	Reentrada bool   `json:"reentrada,omitempty"`
}
