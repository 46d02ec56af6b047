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

type DepartmentRepositoryInterface interface {
	CreateDepartment(ctx context.Context, department entities.Department) (*entities.Department, error)
	FindDepartment(ctx context.Context, id uuid.UUID) (*entities.Department, error)
}

type DepartmentRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewDepartmentRepository(storage *pgxpool.Pool, logger *zap.Logger) DepartmentRepositoryInterface {
	return &DepartmentRepository{storage: storage, logger: logger}
}

func scanDepartment(row pgx.Row) (*entities.Department, error) {
	var d entities.Department
	err := row.Scan(&d.ID, &d.Name, &d.CreatedAt, &d.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка сканирования department: %w", err)
	}
	return &d, nil
}

func (r *DepartmentRepository) CreateDepartment(ctx context.Context, department entities.Department) (*entities.Department, error) {
	query := `INSERT INTO departments (id, name) VALUES ($1, $2) RETURNING id, name, created_at, updated_at`
	return scanDepartment(r.storage.QueryRow(ctx, query, uuid.New(), department.Name))
}

func (r *DepartmentRepository) FindDepartment(ctx context.Context, id uuid.UUID) (*entities.Department, error) {
	query := `SELECT id, name, created_at, updated_at FROM departments WHERE id = $1`
	return scanDepartment(r.storage.QueryRow(ctx, query, id))
}
