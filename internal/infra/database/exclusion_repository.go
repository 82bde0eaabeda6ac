package database

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	"github.com/lib/pq"

	"github.com/atendemed/medsync/internal/entity"
)

// ExclusionRepository persiste o livro de exclusões em
// excluded_clients(client_id PK, tax_id, excluded_at).
type ExclusionRepository struct {
	DB *sql.DB
}

func NewExclusionRepository(db *sql.DB) *ExclusionRepository {
	return &ExclusionRepository{DB: db}
}

// Record é um upsert por client_id: excluir duas vezes só renova o timestamp.
func (r *ExclusionRepository) Record(ctx context.Context, clientID, taxID string) error {
	query := `
		INSERT INTO excluded_clients (client_id, tax_id, excluded_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (client_id) DO UPDATE
		SET tax_id = EXCLUDED.tax_id, excluded_at = EXCLUDED.excluded_at
	`

	_, err := r.DB.ExecContext(ctx, query, clientID, entity.OnlyDigits(taxID), time.Now())
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			log.Printf("Erro crítico no banco (código %s): %v", pqErr.Code, err)
		}
		return fmt.Errorf("erro ao registrar exclusão do cliente %s: %w", clientID, err)
	}
	return nil
}

// Lookup devolve nil, sem erro, quando o cliente não está excluído.
func (r *ExclusionRepository) Lookup(ctx context.Context, clientID string) (*entity.ExclusionEntry, error) {
	query := `SELECT client_id, tax_id, excluded_at FROM excluded_clients WHERE client_id = $1`

	entry := &entity.ExclusionEntry{}
	err := r.DB.QueryRowContext(ctx, query, clientID).Scan(&entry.ClientID, &entry.TaxID, &entry.ExcludedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("erro ao consultar exclusão do cliente %s: %w", clientID, err)
	}
	return entry, nil
}

func (r *ExclusionRepository) Remove(ctx context.Context, clientID string) error {
	query := `DELETE FROM excluded_clients WHERE client_id = $1`

	_, err := r.DB.ExecContext(ctx, query, clientID)
	if err != nil {
		return fmt.Errorf("erro ao remover exclusão do cliente %s: %w", clientID, err)
	}
	return nil
}
