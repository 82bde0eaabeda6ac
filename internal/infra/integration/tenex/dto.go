package tenex

// WalletRecord é um registro da carteira virtual (lookup por CPF).
type WalletRecord struct {
	CPF               string           `json:"cpf"`
	Nome              string           `json:"nome"`
	PlanosContratados []ContractedPlan `json:"planos_contratados"`
}

type ContractedPlan struct {
	IDPlano int    `json:"id_plano"`
	Nome    string `json:"nome"`
}

// ClientRecord é o cadastro expandido do cliente (lookup por id).
type ClientRecord struct {
	ID       int       `json:"id"`
	Status   int       `json:"status"` // 1=ativo, 2=inativo
	Nome     string    `json:"nome"`
	CPF      string    `json:"cpf"`
	Contatos []Contact `json:"contatos"`
}

// Contact é um membro da família no cadastro da TENEX. O contato marcado
// como principal é o titular; os demais são dependentes.
type Contact struct {
	Nome           string `json:"nome"`
	CPF            string `json:"cpf"`
	DataNascimento string `json:"data_nascimento"`
	Sexo           int    `json:"sexo"`
	NomeMae        string `json:"nome_mae"`
	Email          string `json:"email"`
	Principal      bool   `json:"principal"`
}
