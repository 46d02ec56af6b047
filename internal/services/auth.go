package services

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"sequencer/internal/dto"
	"sequencer/internal/repositories"
	apperrors "sequencer/pkg/errors"
	"sequencer/pkg/service"
	"sequencer/pkg/utils"
)

type AuthServiceInterface interface {
	Login(ctx context.Context, payload dto.LoginDTO) (*dto.TokenPairDTO, error)
	Refresh(ctx context.Context, refreshToken string) (*dto.TokenPairDTO, error)
	Profile(ctx context.Context, userID uuid.UUID) (*dto.ProfileDTO, error)
}

type AuthService struct {
	userRepo repositories.UserRepositoryInterface
	authGate AuthGateServiceInterface
	jwtSvc   service.JWTService
	logger   *zap.Logger
}

func NewAuthService(
	userRepo repositories.UserRepositoryInterface,
	authGate AuthGateServiceInterface,
	jwtSvc service.JWTService,
	logger *zap.Logger,
) AuthServiceInterface {
	return &AuthService{userRepo: userRepo, authGate: authGate, jwtSvc: jwtSvc, logger: logger}
}

func (s *AuthService) Login(ctx context.Context, payload dto.LoginDTO) (*dto.TokenPairDTO, error) {
	user, err := s.userRepo.FindUserByLogin(ctx, payload.Login)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		s.logger.Error("Ошибка при поиске пользователя для входа", zap.Error(err))
		return nil, err
	}

	if !utils.CheckPassword(user.Password, payload.Password) {
		s.logger.Warn("Неудачная попытка входа", zap.String("login", payload.Login))
		return nil, apperrors.ErrInvalidCredentials
	}

	return s.issueTokens(user.ID)
}

func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*dto.TokenPairDTO, error) {
	claims, err := s.jwtSvc.ValidateToken(refreshToken)
	if err != nil {
		return nil, err
	}
	if !claims.IsRefreshToken {
		return nil, apperrors.ErrTokenIsNotRefresh
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil, apperrors.ErrInvalidToken
	}

	// Пользователь мог быть удалён после выдачи refresh-токена.
	if _, err := s.userRepo.FindUser(ctx, userID); err != nil {
		return nil, apperrors.ErrInvalidToken
	}

	return s.issueTokens(userID)
}

func (s *AuthService) issueTokens(userID uuid.UUID) (*dto.TokenPairDTO, error) {
	accessToken, refreshToken, err := s.jwtSvc.GenerateTokens(userID)
	if err != nil {
		s.logger.Error("Ошибка генерации токенов", zap.Error(err))
		return nil, err
	}
	return &dto.TokenPairDTO{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(s.jwtSvc.GetAccessTokenTTL().Seconds()),
	}, nil
}

func (s *AuthService) Profile(ctx context.Context, userID uuid.UUID) (*dto.ProfileDTO, error) {
	user, err := s.userRepo.FindUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	memberships, err := s.authGate.Memberships(ctx, userID)
	if err != nil {
		return nil, err
	}

	profile := &dto.ProfileDTO{
		ID:          user.ID.String(),
		Login:       user.Login,
		Fio:         user.Fio,
		Email:       user.Email,
		Memberships: make([]dto.MembershipDTO, 0, len(memberships)),
	}
	for _, m := range memberships {
		profile.Memberships = append(profile.Memberships, dto.MembershipDTO{
			DepartmentID:    m.DepartmentID.String(),
			DepartmentName:  m.DepartmentName,
			UserID:          m.UserID.String(),
			CanAdministrate: m.CanAdministrate,
		})
	}
	return profile, nil
}
