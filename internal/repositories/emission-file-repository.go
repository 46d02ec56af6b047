package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"sequencer/internal/entities"
	apperrors "sequencer/pkg/errors"
)

type EmissionFileRepositoryInterface interface {
	Create(ctx context.Context, f entities.EmissionFile) (*entities.EmissionFile, error)
	FindFile(ctx context.Context, id uuid.UUID) (*entities.EmissionFile, error)
	FindActiveByEmission(ctx context.Context, emissionID uuid.UUID) ([]entities.EmissionFile, error)
	CountActive(ctx context.Context, emissionID uuid.UUID) (int64, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type EmissionFileRepository struct {
	storage *pgxpool.Pool
}

func NewEmissionFileRepository(storage *pgxpool.Pool) EmissionFileRepositoryInterface {
	return &EmissionFileRepository{storage: storage}
}

const emissionFileColumns = `id, emission_id, user_id, file_name, file_path, file_type, file_size, is_active, created_at, updated_at`

func scanEmissionFile(row pgx.Row) (*entities.EmissionFile, error) {
	var f entities.EmissionFile
	err := row.Scan(&f.ID, &f.EmissionID, &f.UserID, &f.FileName, &f.FilePath, &f.FileType, &f.FileSize,
		&f.IsActive, &f.CreatedAt, &f.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка сканирования emission_file: %w", err)
	}
	return &f, nil
}

func (r *EmissionFileRepository) Create(ctx context.Context, f entities.EmissionFile) (*entities.EmissionFile, error) {
	query := `INSERT INTO emission_files (id, emission_id, user_id, file_name, file_path, file_type, file_size, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, TRUE)
		RETURNING ` + emissionFileColumns
	return scanEmissionFile(r.storage.QueryRow(ctx, query,
		uuid.New(), f.EmissionID, f.UserID, f.FileName, f.FilePath, f.FileType, f.FileSize))
}

func (r *EmissionFileRepository) FindFile(ctx context.Context, id uuid.UUID) (*entities.EmissionFile, error) {
	query := `SELECT ` + emissionFileColumns + ` FROM emission_files WHERE id = $1`
	return scanEmissionFile(r.storage.QueryRow(ctx, query, id))
}

func (r *EmissionFileRepository) FindActiveByEmission(ctx context.Context, emissionID uuid.UUID) ([]entities.EmissionFile, error) {
	query := `SELECT ` + emissionFileColumns + `
		FROM emission_files
		WHERE emission_id = $1 AND is_active = TRUE
		ORDER BY created_at DESC`
	rows, err := r.storage.Query(ctx, query, emissionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	files := make([]entities.EmissionFile, 0)
	for rows.Next() {
		f, err := scanEmissionFile(rows)
		if err != nil {
			return nil, err
		}
		files = append(files, *f)
	}
	return files, rows.Err()
}

func (r *EmissionFileRepository) CountActive(ctx context.Context, emissionID uuid.UUID) (int64, error) {
	var count int64
	err := r.storage.QueryRow(ctx,
		`SELECT COUNT(*) FROM emission_files WHERE emission_id = $1 AND is_active = TRUE`,
		emissionID,
	).Scan(&count)
	return count, err
}

func (r *EmissionFileRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.storage.Exec(ctx, `DELETE FROM emission_files WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
