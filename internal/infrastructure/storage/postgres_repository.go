package storage

import (
	"context"
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"FgdcMigrator/internal/domain"
	"FgdcMigrator/internal/ports"
)

// PostgresRepository persists per-file migration state into Postgres.
type PostgresRepository struct {
	db      *sql.DB
	builder sq.StatementBuilderType
}

var _ ports.DepositRepository = (*PostgresRepository)(nil)

// NewPostgresRepository wires a sql.DB implementation.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{
		db:      db,
		builder: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// AlreadyProcessed returns a map with source files that already exist in
// storage, so reruns skip work already done.
func (r *PostgresRepository) AlreadyProcessed(ctx context.Context, files []string) (map[string]bool, error) {
	if r.db == nil || len(files) == 0 {
		return map[string]bool{}, nil
	}

	query, args, err := r.builder.
		Select("source_file").
		From("processed_records").
		Where("source_file = ANY(?)", pq.StringArray(files)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query processed: %w", err)
	}

	result := make(map[string]bool)
	for rows.Next() {
		var file string
		if err := rows.Scan(&file); err != nil {
			_ = rows.Close()
			return nil, fmt.Errorf("scan file: %w", err)
		}
		result[file] = true
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		_ = rows.Close()
		return nil, fmt.Errorf("rows iteration: %w", rowsErr)
	}

	if closeErr := rows.Close(); closeErr != nil {
		return nil, fmt.Errorf("close rows: %w", closeErr)
	}

	return result, nil
}

// SaveProcessed upserts the migration state snapshot for one source file.
func (r *PostgresRepository) SaveProcessed(ctx context.Context, rec domain.ProcessedRecord) error {
	if r.db == nil {
		return nil
	}

	query, args, err := r.builder.
		Insert("processed_records").
		Columns("source_file", "title", "is_valid", "score", "status", "deposition_id").
		Values(rec.SourceFile, rec.Title, rec.Valid, rec.Score, rec.Status, rec.DepositionID).
		Suffix(`ON CONFLICT (source_file) DO UPDATE
	            SET title = EXCLUDED.title,
	                is_valid = EXCLUDED.is_valid,
	                score = EXCLUDED.score,
	                status = EXCLUDED.status,
	                deposition_id = EXCLUDED.deposition_id,
	                updated_at = NOW()`).
		ToSql()
	if err != nil {
		return fmt.Errorf("build upsert: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert processed: %w", err)
	}

	return nil
}
