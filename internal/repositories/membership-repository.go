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

type MembershipRepositoryInterface interface {
	FindMembership(ctx context.Context, userID, departmentID uuid.UUID) (*entities.UserDepartment, error)
	GetMembershipsByUser(ctx context.Context, userID uuid.UUID) ([]entities.UserDepartment, error)
	GetMembersByDepartment(ctx context.Context, departmentID uuid.UUID) ([]entities.UserDepartment, error)
	CreateMembership(ctx context.Context, m entities.UserDepartment) (*entities.UserDepartment, error)
	UpdateMembership(ctx context.Context, userID, departmentID uuid.UUID, canAdministrate bool) (*entities.UserDepartment, error)
	DeleteMembership(ctx context.Context, userID, departmentID uuid.UUID) error
	CountAdministrators(ctx context.Context, departmentID uuid.UUID) (int, error)
	CountAdministeredBy(ctx context.Context, userID uuid.UUID) (int, error)
}

type MembershipRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewMembershipRepository(storage *pgxpool.Pool, logger *zap.Logger) MembershipRepositoryInterface {
	return &MembershipRepository{storage: storage, logger: logger}
}

func scanMembership(row pgx.Row) (*entities.UserDepartment, error) {
	var m entities.UserDepartment
	err := row.Scan(&m.ID, &m.UserID, &m.DepartmentID, &m.CanAdministrate, &m.CreatedAt, &m.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка сканирования user_department: %w", err)
	}
	return &m, nil
}

func (r *MembershipRepository) FindMembership(ctx context.Context, userID, departmentID uuid.UUID) (*entities.UserDepartment, error) {
	query := `SELECT id, user_id, department_id, can_administrate, created_at, updated_at
		FROM user_departments WHERE user_id = $1 AND department_id = $2`
	return scanMembership(r.storage.QueryRow(ctx, query, userID, departmentID))
}

func (r *MembershipRepository) GetMembershipsByUser(ctx context.Context, userID uuid.UUID) ([]entities.UserDepartment, error) {
	query := `SELECT ud.id, ud.user_id, ud.department_id, ud.can_administrate, ud.created_at, ud.updated_at, d.name
		FROM user_departments ud
		JOIN departments d ON d.id = ud.department_id
		WHERE ud.user_id = $1
		ORDER BY d.name ASC`
	rows, err := r.storage.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	memberships := make([]entities.UserDepartment, 0)
	for rows.Next() {
		var m entities.UserDepartment
		if err := rows.Scan(&m.ID, &m.UserID, &m.DepartmentID, &m.CanAdministrate, &m.CreatedAt, &m.UpdatedAt, &m.DepartmentName); err != nil {
			return nil, fmt.Errorf("ошибка сканирования user_department: %w", err)
		}
		memberships = append(memberships, m)
	}
	return memberships, rows.Err()
}

func (r *MembershipRepository) GetMembersByDepartment(ctx context.Context, departmentID uuid.UUID) ([]entities.UserDepartment, error) {
	query := `SELECT ud.id, ud.user_id, ud.department_id, ud.can_administrate, ud.created_at, ud.updated_at, u.fio
		FROM user_departments ud
		JOIN users u ON u.id = ud.user_id
		WHERE ud.department_id = $1
		ORDER BY u.fio ASC`
	rows, err := r.storage.Query(ctx, query, departmentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	members := make([]entities.UserDepartment, 0)
	for rows.Next() {
		var m entities.UserDepartment
		if err := rows.Scan(&m.ID, &m.UserID, &m.DepartmentID, &m.CanAdministrate, &m.CreatedAt, &m.UpdatedAt, &m.UserFio); err != nil {
			return nil, fmt.Errorf("ошибка сканирования user_department: %w", err)
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

func (r *MembershipRepository) CreateMembership(ctx context.Context, m entities.UserDepartment) (*entities.UserDepartment, error) {
	query := `INSERT INTO user_departments (id, user_id, department_id, can_administrate)
		VALUES ($1, $2, $3, $4)
		RETURNING id, user_id, department_id, can_administrate, created_at, updated_at`
	return scanMembership(r.storage.QueryRow(ctx, query, uuid.New(), m.UserID, m.DepartmentID, m.CanAdministrate))
}

func (r *MembershipRepository) UpdateMembership(ctx context.Context, userID, departmentID uuid.UUID, canAdministrate bool) (*entities.UserDepartment, error) {
	query := `UPDATE user_departments SET can_administrate = $3, updated_at = NOW()
		WHERE user_id = $1 AND department_id = $2
		RETURNING id, user_id, department_id, can_administrate, created_at, updated_at`
	return scanMembership(r.storage.QueryRow(ctx, query, userID, departmentID, canAdministrate))
}

func (r *MembershipRepository) DeleteMembership(ctx context.Context, userID, departmentID uuid.UUID) error {
	result, err := r.storage.Exec(ctx, `DELETE FROM user_departments WHERE user_id = $1 AND department_id = $2`, userID, departmentID)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *MembershipRepository) CountAdministrators(ctx context.Context, departmentID uuid.UUID) (int, error) {
	var count int
	err := r.storage.QueryRow(ctx,
		`SELECT COUNT(*) FROM user_departments WHERE department_id = $1 AND can_administrate = TRUE`,
		departmentID,
	).Scan(&count)
	return count, err
}

func (r *MembershipRepository) CountAdministeredBy(ctx context.Context, userID uuid.UUID) (int, error) {
	var count int
	err := r.storage.QueryRow(ctx,
		`SELECT COUNT(*) FROM user_departments WHERE user_id = $1 AND can_administrate = TRUE`,
		userID,
	).Scan(&count)
	return count, err
}
