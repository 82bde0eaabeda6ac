package handlers

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/atendemed/medsync/internal/entity"
	"github.com/atendemed/medsync/internal/infra/http/middleware"
	"github.com/atendemed/medsync/internal/usecase"
)

type WebhookHandler struct {
	Reconcile *usecase.ReconcileEventsUseCase
}

func NewWebhookHandler(reconcile *usecase.ReconcileEventsUseCase) *WebhookHandler {
	return &WebhookHandler{Reconcile: reconcile}
}

// webhookItem é o formato de um item do lote enviado pela TENEX.
type webhookItem struct {
	Operacao string `json:"operacao"`
	Data     struct {
		ID             json.Number `json:"id"`
		Nome           string      `json:"nome"`
		CPF            string      `json:"cpf"`
		DataNascimento string      `json:"data_nascimento"`
		Genero         int         `json:"genero"`
		NomeMae        string      `json:"nome_mae"`
		Email          string      `json:"email"`
		Status         int         `json:"status"`
	} `json:"data"`
}

type webhookResponse struct {
	Status     string                         `json:"status"`
	Mensagem   string                         `json:"mensagem,omitempty"`
	Resultados []entity.ReconciliationOutcome `json:"resultados,omitempty"`
}

// Handle recebe POST /webhook/clientes: um lote de eventos de ciclo de vida.
// Os eventos são processados em sequência e a resposta enumera um resultado
// por evento, na ordem de entrada.
func (h *WebhookHandler) Handle(w http.ResponseWriter, r *http.Request) {
	var items []webhookItem
	if err := json.NewDecoder(r.Body).Decode(&items); err != nil {
		http.Error(w, "JSON inválido", http.StatusBadRequest)
		return
	}

	log.Printf("📥 Webhook recebido com %d evento(s)", len(items))

	events := make([]entity.ClientEvent, 0, len(items))
	for _, item := range items {
		if item.Data.CPF == "" && item.Data.Nome == "" {
			continue
		}
		events = append(events, entity.ClientEvent{
			Operation: entity.ParseOperationKind(item.Operacao),
			ClientID:  item.Data.ID.String(),
			TaxID:     item.Data.CPF,
			Status:    item.Data.Status,
			Titular: entity.Person{
				Name:       item.Data.Nome,
				CPF:        item.Data.CPF,
				BirthDate:  item.Data.DataNascimento,
				Gender:     item.Data.Genero,
				MotherName: item.Data.NomeMae,
				Email:      item.Data.Email,
			},
		})
	}

	outcomes, err := h.Reconcile.Execute(r.Context(), events)
	if err != nil {
		log.Printf("❌ Lote rejeitado: %v", err)
		writeJSON(w, http.StatusBadGateway, webhookResponse{
			Status:   "erro",
			Mensagem: fmt.Sprintf("falha na autenticação com a MEDICAR: %v", err),
		})
		return
	}

	for _, out := range outcomes {
		middleware.RecordOutcome(out.Status)
	}

	writeJSON(w, http.StatusOK, webhookResponse{
		Status:     "ok",
		Resultados: outcomes,
	})
}

func writeJSON(w http.ResponseWriter, code int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(body)
}
