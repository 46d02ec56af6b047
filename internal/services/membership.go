package services

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"sequencer/internal/dto"
	"sequencer/internal/entities"
	"sequencer/internal/repositories"
	apperrors "sequencer/pkg/errors"
)

type MembershipServiceInterface interface {
	GetMembers(ctx context.Context, actorID, departmentID uuid.UUID) ([]entities.UserDepartment, error)
	AddMember(ctx context.Context, actorID, departmentID uuid.UUID, payload dto.AddMemberDTO) (*entities.UserDepartment, error)
	UpdateMember(ctx context.Context, actorID, departmentID, userID uuid.UUID, canAdministrate bool) (*entities.UserDepartment, error)
	RemoveMember(ctx context.Context, actorID, departmentID, userID uuid.UUID) error
}

type MembershipService struct {
	membershipRepo repositories.MembershipRepositoryInterface
	userRepo       repositories.UserRepositoryInterface
	authGate       AuthGateServiceInterface
	logger         *zap.Logger
}

func NewMembershipService(
	membershipRepo repositories.MembershipRepositoryInterface,
	userRepo repositories.UserRepositoryInterface,
	authGate AuthGateServiceInterface,
	logger *zap.Logger,
) MembershipServiceInterface {
	return &MembershipService{
		membershipRepo: membershipRepo,
		userRepo:       userRepo,
		authGate:       authGate,
		logger:         logger,
	}
}

func (s *MembershipService) GetMembers(ctx context.Context, actorID, departmentID uuid.UUID) ([]entities.UserDepartment, error) {
	if err := s.authGate.Authorize(ctx, actorID, departmentID, true); err != nil {
		return nil, err
	}
	return s.membershipRepo.GetMembersByDepartment(ctx, departmentID)
}

func (s *MembershipService) AddMember(ctx context.Context, actorID, departmentID uuid.UUID, payload dto.AddMemberDTO) (*entities.UserDepartment, error) {
	if err := s.authGate.Authorize(ctx, actorID, departmentID, true); err != nil {
		return nil, err
	}

	userID, err := uuid.Parse(payload.UserID)
	if err != nil {
		return nil, apperrors.ErrBadRequest
	}
	if _, err := s.userRepo.FindUser(ctx, userID); err != nil {
		return nil, err
	}

	if existing, err := s.membershipRepo.FindMembership(ctx, userID, departmentID); err == nil {
		// Повторное добавление сводится к обновлению прав.
		if existing.CanAdministrate == payload.CanAdministrate {
			return existing, nil
		}
		return s.membershipRepo.UpdateMembership(ctx, userID, departmentID, payload.CanAdministrate)
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}

	created, err := s.membershipRepo.CreateMembership(ctx, entities.UserDepartment{
		UserID:          userID,
		DepartmentID:    departmentID,
		CanAdministrate: payload.CanAdministrate,
	})
	if err != nil {
		s.logger.Error("Ошибка добавления члена департамента",
			zap.String("departmentID", departmentID.String()), zap.Error(err))
		return nil, err
	}

	_ = s.authGate.InvalidateUserCache(ctx, userID)
	s.logger.Info("Член департамента добавлен",
		zap.String("userID", userID.String()), zap.String("departmentID", departmentID.String()),
		zap.Bool("canAdministrate", payload.CanAdministrate))
	return created, nil
}

func (s *MembershipService) UpdateMember(ctx context.Context, actorID, departmentID, userID uuid.UUID, canAdministrate bool) (*entities.UserDepartment, error) {
	if err := s.authGate.Authorize(ctx, actorID, departmentID, true); err != nil {
		return nil, err
	}

	updated, err := s.membershipRepo.UpdateMembership(ctx, userID, departmentID, canAdministrate)
	if err != nil {
		return nil, err
	}

	_ = s.authGate.InvalidateUserCache(ctx, userID)
	return updated, nil
}

// RemoveMember удаляет членство. Последний администратор
// департамента защищён от удаления; проверка выполняется в момент
// удаления пересчётом строк, а не ограничением схемы.
func (s *MembershipService) RemoveMember(ctx context.Context, actorID, departmentID, userID uuid.UUID) error {
	if err := s.authGate.Authorize(ctx, actorID, departmentID, true); err != nil {
		return err
	}

	membership, err := s.membershipRepo.FindMembership(ctx, userID, departmentID)
	if err != nil {
		return err
	}

	if membership.CanAdministrate {
		admins, err := s.membershipRepo.CountAdministrators(ctx, departmentID)
		if err != nil {
			return err
		}
		if admins <= 1 {
			return apperrors.ErrLastAdminProtected
		}
	}

	if err := s.membershipRepo.DeleteMembership(ctx, userID, departmentID); err != nil {
		return err
	}

	_ = s.authGate.InvalidateUserCache(ctx, userID)
	s.logger.Info("Член департамента удалён",
		zap.String("userID", userID.String()), zap.String("departmentID", departmentID.String()))
	return nil
}
