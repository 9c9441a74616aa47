package repository

import "time"

// SequenceRepository entrega consecutivos por (empresa, prefijo, día) de forma
// atómica. Reemplaza al esquema "contar filas de hoy + 1", que permite que dos
// creadores concurrentes del mismo día colisionen en el mismo número.
// Debe usarse dentro de la misma transacción que inserta la cabecera.
type SequenceRepository interface {
	// Next incrementa y devuelve el contador del día para el prefijo dado (ADJ, PO...).
	Next(companyID, prefix string, date time.Time) (int64, error)
}
