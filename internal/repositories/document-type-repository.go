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

type DocumentTypeRepositoryInterface interface {
	GetDocumentTypes(ctx context.Context) ([]entities.DocumentType, error)
	FindDocumentType(ctx context.Context, id uuid.UUID) (*entities.DocumentType, error)
	CreateDocumentType(ctx context.Context, dt entities.DocumentType) (*entities.DocumentType, error)
}

type DocumentTypeRepository struct {
	storage *pgxpool.Pool
}

func NewDocumentTypeRepository(storage *pgxpool.Pool) DocumentTypeRepositoryInterface {
	return &DocumentTypeRepository{storage: storage}
}

func scanDocumentType(row pgx.Row) (*entities.DocumentType, error) {
	var dt entities.DocumentType
	err := row.Scan(&dt.ID, &dt.Name, &dt.CreatedAt, &dt.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка сканирования document_type: %w", err)
	}
	return &dt, nil
}

func (r *DocumentTypeRepository) GetDocumentTypes(ctx context.Context) ([]entities.DocumentType, error) {
	rows, err := r.storage.Query(ctx, `SELECT id, name, created_at, updated_at FROM document_types ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	types := make([]entities.DocumentType, 0)
	for rows.Next() {
		dt, err := scanDocumentType(rows)
		if err != nil {
			return nil, err
		}
		types = append(types, *dt)
	}
	return types, rows.Err()
}

func (r *DocumentTypeRepository) FindDocumentType(ctx context.Context, id uuid.UUID) (*entities.DocumentType, error) {
	return scanDocumentType(r.storage.QueryRow(ctx,
		`SELECT id, name, created_at, updated_at FROM document_types WHERE id = $1`, id))
}

func (r *DocumentTypeRepository) CreateDocumentType(ctx context.Context, dt entities.DocumentType) (*entities.DocumentType, error) {
	return scanDocumentType(r.storage.QueryRow(ctx,
		`INSERT INTO document_types (id, name) VALUES ($1, $2) RETURNING id, name, created_at, updated_at`,
		uuid.New(), dt.Name))
}
