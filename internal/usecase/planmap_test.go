package usecase

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/atendemed/medsync/internal/entity"
)

func TestLoadPlanTableDefault(t *testing.T) {
	table, err := LoadPlanTable("")
	assert.NoError(t, err)

	product, ok := table.Translate("34")
	assert.True(t, ok)
	assert.Equal(t, entity.MappedProduct{CodPro: "0066", Versao: "001"}, product)

	_, ok = table.Translate("99")
	assert.False(t, ok)
}

func TestLoadPlanTableCustom(t *testing.T) {
	table, err := LoadPlanTable(`{"40":{"codpro":"0070","versao":"002"}}`)
	assert.NoError(t, err)

	product, ok := table.Translate("40")
	assert.True(t, ok)
	assert.Equal(t, "0070", product.CodPro)
	assert.Equal(t, "002", product.Versao)
}

func TestLoadPlanTableInvalidJSON(t *testing.T) {
	_, err := LoadPlanTable(`{nope}`)
	assert.Error(t, err)
}
