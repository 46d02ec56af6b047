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

type DocumentTypeServiceInterface interface {
	GetDocumentTypes(ctx context.Context) ([]entities.DocumentType, error)
	CreateDocumentType(ctx context.Context, actorID uuid.UUID, payload dto.CreateDocumentTypeDTO) (*entities.DocumentType, error)
}

type DocumentTypeService struct {
	documentTypeRepo repositories.DocumentTypeRepositoryInterface
	membershipRepo   repositories.MembershipRepositoryInterface
	logger           *zap.Logger
}

func NewDocumentTypeService(
	documentTypeRepo repositories.DocumentTypeRepositoryInterface,
	membershipRepo repositories.MembershipRepositoryInterface,
	logger *zap.Logger,
) DocumentTypeServiceInterface {
	return &DocumentTypeService{
		documentTypeRepo: documentTypeRepo,
		membershipRepo:   membershipRepo,
		logger:           logger,
	}
}

func (s *DocumentTypeService) GetDocumentTypes(ctx context.Context) ([]entities.DocumentType, error) {
	return s.documentTypeRepo.GetDocumentTypes(ctx)
}

func (s *DocumentTypeService) CreateDocumentType(ctx context.Context, actorID uuid.UUID, payload dto.CreateDocumentTypeDTO) (*entities.DocumentType, error) {
	administered, err := s.membershipRepo.CountAdministeredBy(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if administered == 0 {
		return nil, apperrors.ErrForbidden
	}

	created, err := s.documentTypeRepo.CreateDocumentType(ctx, entities.DocumentType{Name: payload.Name})
	if err != nil {
		s.logger.Error("Ошибка создания типа документа", zap.Error(err))
		return nil, err
	}
	return created, nil
}
