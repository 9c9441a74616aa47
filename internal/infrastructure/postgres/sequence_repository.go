package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/nexware/stockflow-api/internal/domain/repository"
)

var _ repository.SequenceRepository = (*SequenceRepo)(nil)

// SequenceRepo implementación de SequenceRepository sobre PostgreSQL.
// El upsert con RETURNING hace que dos transacciones del mismo día se
// serialicen sobre la fila del contador y obtengan números distintos.
type SequenceRepo struct {
	q Querier
}

func NewSequenceRepository(q Querier) *SequenceRepo {
	return &SequenceRepo{q: q}
}

// Next incrementa y devuelve el contador de (empresa, prefijo, día).
func (r *SequenceRepo) Next(companyID, prefix string, date time.Time) (int64, error) {
	query := `
		INSERT INTO document_sequences (company_id, prefix, seq_date, counter)
		VALUES ($1, $2, $3, 1)
		ON CONFLICT (company_id, prefix, seq_date)
		DO UPDATE SET counter = document_sequences.counter + 1
		RETURNING counter`
	var counter int64
	err := r.q.QueryRow(context.Background(), query, companyID, prefix, date.Format("2006-01-02")).Scan(&counter)
	if err != nil {
		return 0, fmt.Errorf("next sequence %s: %w", prefix, err)
	}
	return counter, nil
}
