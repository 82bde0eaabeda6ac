package medicar

// O protocolo fwmodel da MEDICAR: todo submit é uma árvore de models, cada
// um com campos nomeados (FIELDS) ou linhas de grade (GRID).

type fwModelRequest struct {
	ID        string    `json:"id"`
	Operation int       `json:"operation"`
	Models    []fwModel `json:"models"`
}

type fwModel struct {
	ID        string     `json:"id"`
	ModelType string     `json:"modeltype"`
	Fields    []fwField  `json:"fields,omitempty"`
	Models    []fwModel  `json:"models,omitempty"`
	Items     []gridItem `json:"items,omitempty"`
}

type fwField struct {
	ID    string `json:"id"`
	Value string `json:"value"`
}

type gridItem struct {
	ID      int       `json:"id"`
	Deleted int       `json:"deleted"`
	Fields  []fwField `json:"fields"`
}

// Operações do fwmodel.
const (
	opUpdate  = 3
	opInclude = 4
)

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
}

type contractResponse struct {
	TenantID string         `json:"tenantid"`
	Items    []contractItem `json:"items"`
}

type contractItem struct {
	Matricula string `json:"bba_matric"`
	CPFTit    string `json:"bba_cpftit"`
}

// CancelInput são os parâmetros do bloqueio de uma matrícula.
type CancelInput struct {
	Matricula      string
	MotivoBloqueio string // código do motivo, ex: "001"
	DataBloqueio   string // YYYYMMDD
	Usuario        string // ator registrado no back office
}
