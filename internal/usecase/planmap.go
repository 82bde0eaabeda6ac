package usecase

import (
	"encoding/json"
	"fmt"

	"github.com/atendemed/medsync/internal/entity"
)

// DefaultPlanMappingJSON é o de-para usado quando PLAN_MAPPING_JSON não
// está configurado.
const DefaultPlanMappingJSON = `{"34":{"codpro":"0066","versao":"001"},"35":{"codpro":"0066","versao":"001"}}`

// PlanTable é o de-para estático plano TENEX → produto/versão MEDICAR.
// Plano sem entrada aqui é um outcome "ignorado", não um erro.
type PlanTable map[string]entity.MappedProduct

func LoadPlanTable(raw string) (PlanTable, error) {
	if raw == "" {
		raw = DefaultPlanMappingJSON
	}

	var table PlanTable
	if err := json.Unmarshal([]byte(raw), &table); err != nil {
		return nil, fmt.Errorf("PLAN_MAPPING_JSON inválido: %w", err)
	}
	return table, nil
}

func (t PlanTable) Translate(planID string) (entity.MappedProduct, bool) {
	product, ok := t[planID]
	return product, ok
}
