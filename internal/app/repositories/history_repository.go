package repositories

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/yigit/escolar/internal/app/models"
	"github.com/yigit/escolar/internal/db"
	"github.com/yigit/escolar/internal/pkg/logger"
)

// HistoryRepository appends to and reads the historial_alumnos ledger
type HistoryRepository struct {
	db db.DBTX
	sb squirrel.StatementBuilderType
}

// NewHistoryRepository creates a new HistoryRepository
func NewHistoryRepository(conn db.DBTX) *HistoryRepository {
	return &HistoryRepository{
		db: conn,
		sb: statementBuilder(),
	}
}

// marshalSnapshot encodes a snapshot for a JSONB column; nil stays SQL NULL
func marshalSnapshot(s *models.StudentSnapshot) ([]byte, error) {
	if s == nil {
		return nil, nil
	}
	return json.Marshal(s)
}

func unmarshalSnapshot(raw []byte) (*models.StudentSnapshot, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	var s models.StudentSnapshot
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// AppendHistory inserts a record and fills its id and creation time
func (r *HistoryRepository) AppendHistory(ctx context.Context, record *models.HistoryRecord) error {
	previous, err := marshalSnapshot(record.Previous)
	if err != nil {
		return fmt.Errorf("failed to encode previous snapshot: %w", err)
	}
	current, err := marshalSnapshot(record.Current)
	if err != nil {
		return fmt.Errorf("failed to encode new snapshot: %w", err)
	}

	sql, args, err := r.sb.Insert("historial_alumnos").
		Columns("id_alumno", "tipo_cambio", "datos_anteriores", "datos_nuevos", "motivo", "documento_url", "usuario_id").
		Values(record.StudentID, string(record.ChangeType), previous, current, record.Reason, record.DocumentURL, record.UserID).
		Suffix("RETURNING id_historial, created_at").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building append history SQL")
		return fmt.Errorf("failed to build append history query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&record.ID, &record.CreatedAt); err != nil {
		return fmt.Errorf("error appending history record: %w", err)
	}

	return nil
}

// ListHistory returns matching records, newest first
func (r *HistoryRepository) ListHistory(ctx context.Context, filter models.HistoryFilter) ([]*models.HistoryRecord, error) {
	query := r.sb.Select(
		"id_historial", "id_alumno", "tipo_cambio", "datos_anteriores", "datos_nuevos",
		"motivo", "documento_url", "usuario_id::text", "created_at",
	).
		From("historial_alumnos").
		OrderBy("created_at DESC", "id_historial DESC")

	if filter.StudentID != nil {
		query = query.Where(squirrel.Eq{"id_alumno": *filter.StudentID})
	}
	if filter.ChangeType != nil {
		query = query.Where(squirrel.Eq{"tipo_cambio": string(*filter.ChangeType)})
	}

	sql, args, err := query.ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building list history SQL")
		return nil, fmt.Errorf("failed to build list history query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list history query")
		return nil, fmt.Errorf("error listing history: %w", err)
	}
	defer rows.Close()

	records := make([]*models.HistoryRecord, 0)
	for rows.Next() {
		record, err := scanHistoryRecord(rows)
		if err != nil {
			logger.Error().Err(err).Msg("Error scanning history row")
			return nil, fmt.Errorf("error scanning history record: %w", err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating history: %w", err)
	}

	return records, nil
}

func scanHistoryRecord(rows pgx.Rows) (*models.HistoryRecord, error) {
	var (
		record     models.HistoryRecord
		changeType string
		previous   []byte
		current    []byte
	)
	if err := rows.Scan(&record.ID, &record.StudentID, &changeType, &previous, &current,
		&record.Reason, &record.DocumentURL, &record.UserID, &record.CreatedAt); err != nil {
		return nil, err
	}
	record.ChangeType = models.ChangeType(changeType)

	var err error
	if record.Previous, err = unmarshalSnapshot(previous); err != nil {
		return nil, fmt.Errorf("invalid datos_anteriores of record %d: %w", record.ID, err)
	}
	if record.Current, err = unmarshalSnapshot(current); err != nil {
		return nil, fmt.Errorf("invalid datos_nuevos of record %d: %w", record.ID, err)
	}

	return &record, nil
}
