package medicar

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/atendemed/medsync/internal/entity"
)

// fakeBackOffice simula o token endpoint e o fwmodel, guardando os payloads
// recebidos para inspeção.
type fakeServer struct {
	*httptest.Server
	tokenCalls int
	payloads   []fwModelRequest
	lastTenant string
}

func newFakeServer(t *testing.T) *fakeServer {
	f := &fakeServer{}
	mux := http.NewServeMux()

	mux.HandleFunc("/api/oauth2/v1/token", func(w http.ResponseWriter, r *http.Request) {
		f.tokenCalls++
		var body map[string]string
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "password", body["grant_type"])
		json.NewEncoder(w).Encode(map[string]any{"access_token": "tok-123", "expires_in": 3600})
	})

	mux.HandleFunc("/client/v1/contract", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok-123", r.Header.Get("Authorization"))
		resp := map[string]any{"tenantid": "12,T1"}
		if r.URL.Query().Get("cgcbeneficiario") == "11111111111" {
			resp["items"] = []map[string]string{
				{"bba_matric": "MAT001", "bba_cpftit": "11111111111"},
			}
		}
		json.NewEncoder(w).Encode(resp)
	})

	handleModel := func(w http.ResponseWriter, r *http.Request) {
		f.lastTenant = r.Header.Get("tenantid")
		var payload fwModelRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		f.payloads = append(f.payloads, payload)
		w.Write([]byte(`{}`))
	}
	mux.HandleFunc("/fwmodel/PLIncBenModel/", handleModel)
	mux.HandleFunc("/fwmodel/PLBloqBenModel/", handleModel)

	f.Server = httptest.NewServer(mux)
	return f
}

func newTestClient(baseURL string) *Client {
	return NewClient(Config{
		BaseURL:      baseURL,
		Username:     "integ",
		Password:     "secret",
		CNPJMedicar:  "12.345.678/0001-90",
		GrupoEmpresa: "0001",
		Contrato:     "000001",
	})
}

func fieldValue(fields []fwField, id string) string {
	for _, f := range fields {
		if f.ID == id {
			return f.Value
		}
	}
	return ""
}

func TestResolveTenant(t *testing.T) {
	server := newFakeServer(t)
	defer server.Close()

	client := newTestClient(server.URL)
	tenantID, err := client.ResolveTenant(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, "12,T1", tenantID)
}

// O token vale para chamadas subsequentes: uma renovação só.
func TestTokenIsCachedAcrossCalls(t *testing.T) {
	server := newFakeServer(t)
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.ResolveTenant(context.Background())
	assert.NoError(t, err)
	_, err = client.FindMembership(context.Background(), "11111111111")
	assert.NoError(t, err)

	assert.Equal(t, 1, server.tokenCalls)
}

func TestFindMembershipByCPF(t *testing.T) {
	server := newFakeServer(t)
	defer server.Close()

	client := newTestClient(server.URL)

	matricula, err := client.FindMembership(context.Background(), "111.111.111-11")
	assert.NoError(t, err)
	assert.Equal(t, "MAT001", matricula)

	// CPF desconhecido: vazio, sem erro.
	matricula, err = client.FindMembership(context.Background(), "99999999999")
	assert.NoError(t, err)
	assert.Equal(t, "", matricula)
}

func TestEnrollTitularBuildsIncludeModel(t *testing.T) {
	server := newFakeServer(t)
	defer server.Close()

	client := newTestClient(server.URL)
	titular := entity.Person{
		Name:      "JOAO SILVA",
		CPF:       "11111111111",
		BirthDate: "1990-05-15",
		Gender:    1,
	}

	err := client.EnrollTitular(context.Background(), "12,T1", titular, entity.MappedProduct{CodPro: "0066", Versao: "001"})

	assert.NoError(t, err)
	assert.Equal(t, "12,T1", server.lastTenant)
	assert.Len(t, server.payloads, 1)

	payload := server.payloads[0]
	assert.Equal(t, "PLIncBenModel", payload.ID)
	assert.Equal(t, opInclude, payload.Operation)

	master := payload.Models[0]
	assert.Equal(t, "MASTERBBA", master.ID)
	assert.Equal(t, "0066", fieldValue(master.Fields, "BBA_CODPRO"))
	assert.Equal(t, "11111111111", fieldValue(master.Fields, "BBA_CPFTIT"))

	grid := master.Models[0]
	assert.Equal(t, "DETAILB2N", grid.ID)
	assert.Len(t, grid.Items, 1)
	row := grid.Items[0].Fields
	assert.Equal(t, "T", fieldValue(row, "B2N_TIPUSR"))
	assert.Equal(t, "19900515", fieldValue(row, "B2N_DATNAS"))
}

func TestEnrollDependentsBuildsUpdateGrid(t *testing.T) {
	server := newFakeServer(t)
	defer server.Close()

	client := newTestClient(server.URL)
	deps := []entity.Person{
		{Name: "FILHA SILVA", CPF: "22222222222", BirthDate: "2015-03-10", Gender: 2},
		{Name: "FILHO SILVA", CPF: "33333333333", BirthDate: "2018-07-01", Gender: 1},
	}

	err := client.EnrollDependents(context.Background(), "12,T1", "MAT001", "11111111111", deps, entity.MappedProduct{CodPro: "0066", Versao: "001"})

	assert.NoError(t, err)
	payload := server.payloads[0]
	assert.Equal(t, opUpdate, payload.Operation)

	master := payload.Models[0]
	assert.Equal(t, "MAT001", fieldValue(master.Fields, "BBA_MATRIC"))

	grid := master.Models[0]
	assert.Len(t, grid.Items, 2)
	for _, item := range grid.Items {
		assert.Equal(t, "D", fieldValue(item.Fields, "B2N_TIPUSR"))
	}
	assert.Equal(t, "2", fieldValue(grid.Items[0].Fields, "B2N_SEXO"))
}

func TestCancelMembershipBuildsBlockModel(t *testing.T) {
	server := newFakeServer(t)
	defer server.Close()

	client := newTestClient(server.URL)
	err := client.CancelMembership(context.Background(), "12,T1", CancelInput{
		Matricula:      "MAT001",
		MotivoBloqueio: "001",
		DataBloqueio:   "20260829",
		Usuario:        "INTEGRACAO",
	})

	assert.NoError(t, err)
	payload := server.payloads[0]
	assert.Equal(t, "PLBloqBenModel", payload.ID)

	fields := payload.Models[0].Fields
	assert.Equal(t, "MAT001", fieldValue(fields, "BBA_MATRIC"))
	assert.Equal(t, "001", fieldValue(fields, "BBA_MOTBLO"))
	assert.Equal(t, "20260829", fieldValue(fields, "BBA_DATBLO"))
	assert.Equal(t, "INTEGRACAO", fieldValue(fields, "BBA_USRBLO"))
}

func TestRejectionIsNotRetried(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/oauth2/v1/token" {
			json.NewEncoder(w).Encode(map[string]any{"access_token": "tok-123", "expires_in": 3600})
			return
		}
		calls++
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"message":"CPF já cadastrado"}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	err := client.EnrollTitular(context.Background(), "12,T1", entity.Person{Name: "X", CPF: "11111111111"}, entity.MappedProduct{})

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "CPF já cadastrado")
	assert.Equal(t, 1, calls)
}
