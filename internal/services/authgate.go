package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"sequencer/internal/entities"
	"sequencer/internal/repositories"
	apperrors "sequencer/pkg/errors"
)

// AuthGateService — шлюз авторизации по департаментам. Членство —
// это существование строки user_departments, административные
// права — её флаг can_administrate. Отсутствие членства наружу
// отдаётся как "не найдено", чтобы не раскрывать чужие департаменты.
type AuthGateServiceInterface interface {
	Authorize(ctx context.Context, userID, departmentID uuid.UUID, requiresAdmin bool) error
	Memberships(ctx context.Context, userID uuid.UUID) ([]entities.UserDepartment, error)
	InvalidateUserCache(ctx context.Context, userID uuid.UUID) error
}

type AuthGateService struct {
	membershipRepo repositories.MembershipRepositoryInterface
	cacheRepo      repositories.CacheRepositoryInterface
	logger         *zap.Logger
	cacheTTL       time.Duration
}

func NewAuthGateService(
	membershipRepo repositories.MembershipRepositoryInterface,
	cacheRepo repositories.CacheRepositoryInterface,
	logger *zap.Logger,
	cacheTTL time.Duration,
) AuthGateServiceInterface {
	return &AuthGateService{
		membershipRepo: membershipRepo,
		cacheRepo:      cacheRepo,
		logger:         logger,
		cacheTTL:       cacheTTL,
	}
}

func membershipsCacheKey(userID uuid.UUID) string {
	return fmt.Sprintf("auth:memberships:user:%s", userID)
}

// Memberships возвращает членства пользователя, сначала из кеша.
func (s *AuthGateService) Memberships(ctx context.Context, userID uuid.UUID) ([]entities.UserDepartment, error) {
	cacheKey := membershipsCacheKey(userID)

	cachedJSON, errGet := s.cacheRepo.Get(ctx, cacheKey)
	if errGet == nil {
		var memberships []entities.UserDepartment
		if err := json.Unmarshal([]byte(cachedJSON), &memberships); err == nil {
			return memberships, nil
		}
		s.logger.Warn("AuthGateService: Ошибка при десериализации членств из кеша",
			zap.String("key", cacheKey))
	}

	memberships, errDB := s.membershipRepo.GetMembershipsByUser(ctx, userID)
	if errDB != nil {
		s.logger.Error("AuthGateService: Не удалось получить членства пользователя из БД",
			zap.String("userID", userID.String()), zap.Error(errDB))
		return nil, apperrors.ErrInternalServer
	}

	if len(memberships) > 0 {
		if membershipsJSON, errMarshal := json.Marshal(memberships); errMarshal == nil {
			if errSet := s.cacheRepo.Set(ctx, cacheKey, string(membershipsJSON), s.cacheTTL); errSet != nil {
				s.logger.Error("AuthGateService: Не удалось сохранить членства в кеш",
					zap.String("userID", userID.String()), zap.Error(errSet))
			}
		}
	}
	return memberships, nil
}

func (s *AuthGateService) Authorize(ctx context.Context, userID, departmentID uuid.UUID, requiresAdmin bool) error {
	memberships, err := s.Memberships(ctx, userID)
	if err != nil {
		return err
	}
	for _, m := range memberships {
		if m.DepartmentID != departmentID {
			continue
		}
		if requiresAdmin && !m.CanAdministrate {
			return apperrors.ErrForbidden
		}
		return nil
	}
	return apperrors.ErrNotFound
}

func (s *AuthGateService) InvalidateUserCache(ctx context.Context, userID uuid.UUID) error {
	if err := s.cacheRepo.Del(ctx, membershipsCacheKey(userID)); err != nil && !errors.Is(err, context.Canceled) {
		s.logger.Error("AuthGateService: Ошибка инвалидации кеша членств",
			zap.String("userID", userID.String()), zap.Error(err))
		return err
	}
	return nil
}
