package services

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"sequencer/internal/dto"
	"sequencer/internal/entities"
	"sequencer/internal/repositories"
	apperrors "sequencer/pkg/errors"
)

type DepartmentServiceInterface interface {
	GetOwnDepartments(ctx context.Context, userID uuid.UUID) ([]dto.DepartmentDTO, error)
	CreateDepartment(ctx context.Context, actorID uuid.UUID, payload dto.CreateDepartmentDTO) (*entities.Department, error)
}

type DepartmentService struct {
	departmentRepo repositories.DepartmentRepositoryInterface
	membershipRepo repositories.MembershipRepositoryInterface
	authGate       AuthGateServiceInterface
	logger         *zap.Logger
}

func NewDepartmentService(
	departmentRepo repositories.DepartmentRepositoryInterface,
	membershipRepo repositories.MembershipRepositoryInterface,
	authGate AuthGateServiceInterface,
	logger *zap.Logger,
) DepartmentServiceInterface {
	return &DepartmentService{
		departmentRepo: departmentRepo,
		membershipRepo: membershipRepo,
		authGate:       authGate,
		logger:         logger,
	}
}

func (s *DepartmentService) GetOwnDepartments(ctx context.Context, userID uuid.UUID) ([]dto.DepartmentDTO, error) {
	memberships, err := s.authGate.Memberships(ctx, userID)
	if err != nil {
		return nil, err
	}

	departments := make([]dto.DepartmentDTO, 0, len(memberships))
	for _, m := range memberships {
		departments = append(departments, dto.DepartmentDTO{
			ID:              m.DepartmentID.String(),
			Name:            m.DepartmentName,
			CanAdministrate: m.CanAdministrate,
		})
	}
	return departments, nil
}

// CreateDepartment: новый департамент создаёт администратор любого
// существующего; создатель становится его первым администратором.
func (s *DepartmentService) CreateDepartment(ctx context.Context, actorID uuid.UUID, payload dto.CreateDepartmentDTO) (*entities.Department, error) {
	administered, err := s.membershipRepo.CountAdministeredBy(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if administered == 0 {
		return nil, apperrors.ErrForbidden
	}

	department, err := s.departmentRepo.CreateDepartment(ctx, entities.Department{Name: payload.Name})
	if err != nil {
		s.logger.Error("Ошибка создания департамента", zap.Error(err))
		return nil, err
	}

	if _, err := s.membershipRepo.CreateMembership(ctx, entities.UserDepartment{
		UserID:          actorID,
		DepartmentID:    department.ID,
		CanAdministrate: true,
	}); err != nil {
		return nil, err
	}

	_ = s.authGate.InvalidateUserCache(ctx, actorID)
	s.logger.Info("Департамент создан", zap.String("name", department.Name))
	return department, nil
}
