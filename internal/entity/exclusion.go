package entity

import (
	"context"
	"time"
)

// ExclusionEntry marca um cliente atualmente cancelado na MEDICAR.
// É o único estado que sobrevive entre entregas de webhook: serve para
// distinguir um cadastro novo de uma reentrada.
type ExclusionEntry struct {
	ClientID   string    `json:"client_id"`
	TaxID      string    `json:"tax_id"`
	ExcludedAt time.Time `json:"excluded_at"`
}

// ExclusionLedgerInterface define o contrato do livro de exclusões.
type ExclusionLedgerInterface interface {
	// Record é um upsert: excluir duas vezes só renova o timestamp.
	Record(ctx context.Context, clientID, taxID string) error
	// Lookup devolve nil (sem erro) quando o cliente não está excluído.
	Lookup(ctx context.Context, clientID string) (*ExclusionEntry, error)
	Remove(ctx context.Context, clientID string) error
}
