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

type SequenceServiceInterface interface {
	GetSequences(ctx context.Context, actorID, departmentID uuid.UUID) ([]entities.Sequence, error)
	CreateSequence(ctx context.Context, actorID, departmentID uuid.UUID, payload dto.CreateSequenceDTO) (*entities.Sequence, error)
	ToggleCanEmit(ctx context.Context, actorID, sequenceID uuid.UUID) (*entities.Sequence, error)
}

type SequenceService struct {
	sequenceRepo     repositories.SequenceRepositoryInterface
	documentTypeRepo repositories.DocumentTypeRepositoryInterface
	authGate         AuthGateServiceInterface
	logger           *zap.Logger
}

func NewSequenceService(
	sequenceRepo repositories.SequenceRepositoryInterface,
	documentTypeRepo repositories.DocumentTypeRepositoryInterface,
	authGate AuthGateServiceInterface,
	logger *zap.Logger,
) SequenceServiceInterface {
	return &SequenceService{
		sequenceRepo:     sequenceRepo,
		documentTypeRepo: documentTypeRepo,
		authGate:         authGate,
		logger:           logger,
	}
}

func (s *SequenceService) GetSequences(ctx context.Context, actorID, departmentID uuid.UUID) ([]entities.Sequence, error) {
	if err := s.authGate.Authorize(ctx, actorID, departmentID, true); err != nil {
		return nil, err
	}
	return s.sequenceRepo.GetSequencesByDepartment(ctx, departmentID)
}

func (s *SequenceService) CreateSequence(ctx context.Context, actorID, departmentID uuid.UUID, payload dto.CreateSequenceDTO) (*entities.Sequence, error) {
	if err := s.authGate.Authorize(ctx, actorID, departmentID, true); err != nil {
		return nil, err
	}

	documentTypeID, err := uuid.Parse(payload.DocumentTypeID)
	if err != nil {
		return nil, apperrors.ErrBadRequest
	}
	if _, err := s.documentTypeRepo.FindDocumentType(ctx, documentTypeID); err != nil {
		return nil, err
	}

	created, err := s.sequenceRepo.CreateSequence(ctx, entities.Sequence{
		DepartmentID:   departmentID,
		DocumentTypeID: documentTypeID,
		Year:           payload.Year,
		CanEmit:        payload.CanEmit,
	})
	if err != nil {
		s.logger.Error("Ошибка создания потока нумерации",
			zap.String("departmentID", departmentID.String()), zap.Error(err))
		return nil, err
	}

	s.logger.Info("Поток нумерации создан",
		zap.String("departmentID", departmentID.String()), zap.Int("year", payload.Year))
	return created, nil
}

func (s *SequenceService) ToggleCanEmit(ctx context.Context, actorID, sequenceID uuid.UUID) (*entities.Sequence, error) {
	sequence, err := s.sequenceRepo.FindSequence(ctx, sequenceID)
	if err != nil {
		return nil, err
	}
	if err := s.authGate.Authorize(ctx, actorID, sequence.DepartmentID, true); err != nil {
		return nil, err
	}

	toggled, err := s.sequenceRepo.ToggleCanEmit(ctx, sequenceID)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Переключён флаг эмиссии потока",
		zap.String("sequenceID", sequenceID.String()), zap.Bool("canEmit", toggled.CanEmit))
	return toggled, nil
}
