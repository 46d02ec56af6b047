package services

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"sequencer/internal/dto"
	"sequencer/internal/entities"
	"sequencer/internal/repositories"
	apperrors "sequencer/pkg/errors"
	"sequencer/pkg/utils"
)

type UserServiceInterface interface {
	CreateUser(ctx context.Context, actorID uuid.UUID, payload dto.CreateUserDTO) (*dto.UserDTO, error)
	GetUsers(ctx context.Context, actorID uuid.UUID, limit, offset uint64) ([]dto.UserDTO, uint64, error)
}

type UserService struct {
	userRepo       repositories.UserRepositoryInterface
	membershipRepo repositories.MembershipRepositoryInterface
	logger         *zap.Logger
}

func NewUserService(
	userRepo repositories.UserRepositoryInterface,
	membershipRepo repositories.MembershipRepositoryInterface,
	logger *zap.Logger,
) UserServiceInterface {
	return &UserService{userRepo: userRepo, membershipRepo: membershipRepo, logger: logger}
}

// requireAnyAdmin: управление пользователями доступно администратору
// хотя бы одного департамента.
func (s *UserService) requireAnyAdmin(ctx context.Context, actorID uuid.UUID) error {
	administered, err := s.membershipRepo.CountAdministeredBy(ctx, actorID)
	if err != nil {
		return err
	}
	if administered == 0 {
		return apperrors.ErrForbidden
	}
	return nil
}

func toUserDTO(u entities.User) dto.UserDTO {
	return dto.UserDTO{
		ID:    u.ID.String(),
		Login: u.Login,
		Fio:   u.Fio,
		Email: u.Email,
	}
}

func (s *UserService) CreateUser(ctx context.Context, actorID uuid.UUID, payload dto.CreateUserDTO) (*dto.UserDTO, error) {
	if err := s.requireAnyAdmin(ctx, actorID); err != nil {
		return nil, err
	}

	hashed, err := utils.HashPassword(payload.Password)
	if err != nil {
		s.logger.Error("Ошибка хеширования пароля", zap.Error(err))
		return nil, err
	}

	created, err := s.userRepo.CreateUser(ctx, entities.User{
		Login:    payload.Login,
		Fio:      payload.Fio,
		Email:    payload.Email,
		Password: hashed,
	})
	if err != nil {
		s.logger.Error("Ошибка создания пользователя", zap.String("login", payload.Login), zap.Error(err))
		return nil, err
	}

	s.logger.Info("Пользователь создан", zap.String("login", created.Login))
	result := toUserDTO(*created)
	return &result, nil
}

func (s *UserService) GetUsers(ctx context.Context, actorID uuid.UUID, limit, offset uint64) ([]dto.UserDTO, uint64, error) {
	if err := s.requireAnyAdmin(ctx, actorID); err != nil {
		return nil, 0, err
	}

	users, total, err := s.userRepo.GetUsers(ctx, limit, offset)
	if err != nil {
		return nil, 0, err
	}

	result := make([]dto.UserDTO, 0, len(users))
	for _, u := range users {
		result = append(result, toUserDTO(u))
	}
	return result, total, nil
}
