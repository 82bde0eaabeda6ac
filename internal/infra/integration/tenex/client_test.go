package tenex

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetWalletDecodesPlans(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		assert.Equal(t, "/api/v2/carteira-virtual/11111111111", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"cpf":"11111111111","nome":"João Silva","planos_contratados":[{"id_plano":34,"nome":"Plano Família"}]}]`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "dXNlcjpzZW5oYQ==")
	records, err := client.GetWallet(context.Background(), "111.111.111-11")

	assert.NoError(t, err)
	assert.Equal(t, "Basic dXNlcjpzZW5oYQ==", gotAuth)
	assert.Len(t, records, 1)
	assert.Equal(t, 34, records[0].PlanosContratados[0].IDPlano)
}

// 404 na carteira significa "plano ainda não existe", não erro.
func TestGetWalletNotFoundIsNil(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := NewClient(server.URL, "")
	records, err := client.GetWallet(context.Background(), "11111111111")

	assert.NoError(t, err)
	assert.Nil(t, records)
}

func TestGetClientExpandsContacts(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v2/clientes/42", r.URL.Path)
		assert.Equal(t, "contatos", r.URL.Query().Get("expand"))
		w.Write([]byte(`{"id":42,"status":1,"contatos":[{"nome":"João Silva","cpf":"11111111111","principal":true}]}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "")
	record, err := client.GetClient(context.Background(), "42")

	assert.NoError(t, err)
	assert.NotNil(t, record)
	assert.Equal(t, 1, record.Status)
	assert.True(t, record.Contatos[0].Principal)
}

// 5xx é retentado até o teto de tentativas; a falha final propaga.
func TestGetJSONRetriesOnServerError(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := NewClient(server.URL, "")
	_, err := client.GetWallet(context.Background(), "11111111111")

	assert.Error(t, err)
	assert.Equal(t, 3, calls)
}

// 4xx que não seja 404 é definitivo: uma chamada só.
func TestGetJSONDoesNotRetryClientError(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	client := NewClient(server.URL, "")
	_, err := client.GetWallet(context.Background(), "11111111111")

	assert.Error(t, err)
	assert.Equal(t, 1, calls)
}
