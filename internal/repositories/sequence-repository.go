package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"sequencer/internal/entities"
	apperrors "sequencer/pkg/errors"
)

type SequenceRepositoryInterface interface {
	FindSequence(ctx context.Context, id uuid.UUID) (*entities.Sequence, error)
	FindEmittable(ctx context.Context, departmentID uuid.UUID) (*entities.Sequence, error)
	GetSequencesByDepartment(ctx context.Context, departmentID uuid.UUID) ([]entities.Sequence, error)
	CreateSequence(ctx context.Context, s entities.Sequence) (*entities.Sequence, error)
	ToggleCanEmit(ctx context.Context, id uuid.UUID) (*entities.Sequence, error)
	Reserve(ctx context.Context, tx pgx.Tx, id uuid.UUID, quantity int64) (int64, error)
}

type SequenceRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewSequenceRepository(storage *pgxpool.Pool, logger *zap.Logger) SequenceRepositoryInterface {
	return &SequenceRepository{storage: storage, logger: logger}
}

const sequenceColumns = `s.id, s.department_id, s.document_type_id, s.year, s.sequence, s.can_emit, s.created_at, s.updated_at, dt.name`

func scanSequence(row pgx.Row) (*entities.Sequence, error) {
	var s entities.Sequence
	err := row.Scan(&s.ID, &s.DepartmentID, &s.DocumentTypeID, &s.Year, &s.Sequence, &s.CanEmit,
		&s.CreatedAt, &s.UpdatedAt, &s.DocumentTypeName)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка сканирования sequence: %w", err)
	}
	return &s, nil
}

func (r *SequenceRepository) FindSequence(ctx context.Context, id uuid.UUID) (*entities.Sequence, error) {
	query := `SELECT ` + sequenceColumns + `
		FROM sequences s JOIN document_types dt ON dt.id = s.document_type_id
		WHERE s.id = $1`
	return scanSequence(r.storage.QueryRow(ctx, query, id))
}

// FindEmittable возвращает первый открытый поток нумерации департамента.
// Единственность открытого потока — договорённость, не ограничение схемы.
func (r *SequenceRepository) FindEmittable(ctx context.Context, departmentID uuid.UUID) (*entities.Sequence, error) {
	query := `SELECT ` + sequenceColumns + `
		FROM sequences s JOIN document_types dt ON dt.id = s.document_type_id
		WHERE s.department_id = $1 AND s.can_emit = TRUE
		ORDER BY s.year DESC, s.created_at ASC
		LIMIT 1`
	return scanSequence(r.storage.QueryRow(ctx, query, departmentID))
}

func (r *SequenceRepository) GetSequencesByDepartment(ctx context.Context, departmentID uuid.UUID) ([]entities.Sequence, error) {
	query := `SELECT ` + sequenceColumns + `
		FROM sequences s JOIN document_types dt ON dt.id = s.document_type_id
		WHERE s.department_id = $1
		ORDER BY s.year DESC, dt.name ASC`
	rows, err := r.storage.Query(ctx, query, departmentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sequences := make([]entities.Sequence, 0)
	for rows.Next() {
		s, err := scanSequence(rows)
		if err != nil {
			return nil, err
		}
		sequences = append(sequences, *s)
	}
	return sequences, rows.Err()
}

func (r *SequenceRepository) CreateSequence(ctx context.Context, s entities.Sequence) (*entities.Sequence, error) {
	query := `WITH inserted AS (
			INSERT INTO sequences (id, department_id, document_type_id, year, sequence, can_emit)
			VALUES ($1, $2, $3, $4, 0, $5)
			RETURNING *
		)
		SELECT s.id, s.department_id, s.document_type_id, s.year, s.sequence, s.can_emit, s.created_at, s.updated_at, dt.name
		FROM inserted s JOIN document_types dt ON dt.id = s.document_type_id`
	return scanSequence(r.storage.QueryRow(ctx, query, uuid.New(), s.DepartmentID, s.DocumentTypeID, s.Year, s.CanEmit))
}

func (r *SequenceRepository) ToggleCanEmit(ctx context.Context, id uuid.UUID) (*entities.Sequence, error) {
	query := `WITH updated AS (
			UPDATE sequences SET can_emit = NOT can_emit, updated_at = NOW()
			WHERE id = $1
			RETURNING *
		)
		SELECT s.id, s.department_id, s.document_type_id, s.year, s.sequence, s.can_emit, s.created_at, s.updated_at, dt.name
		FROM updated s JOIN document_types dt ON dt.id = s.document_type_id`
	return scanSequence(r.storage.QueryRow(ctx, query, id))
}

// Reserve атомарно сдвигает счётчик потока на quantity вперёд и
// возвращает первый номер выделенного диапазона. UPDATE берёт
// блокировку строки до конца объемлющей транзакции, поэтому
// конкурентные пакеты никогда не получают пересекающиеся номера;
// откат транзакции возвращает счётчик в исходное состояние.
func (r *SequenceRepository) Reserve(ctx context.Context, tx pgx.Tx, id uuid.UUID, quantity int64) (int64, error) {
	if quantity <= 0 {
		return 0, apperrors.ErrInvalidQuantity
	}

	var newValue int64
	err := tx.QueryRow(ctx,
		`UPDATE sequences SET sequence = sequence + $2, updated_at = NOW() WHERE id = $1 RETURNING sequence`,
		id, quantity,
	).Scan(&newValue)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, apperrors.ErrNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("ошибка резервирования номеров: %w", err)
	}

	return newValue - quantity + 1, nil
}
